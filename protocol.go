package aeratron

import (
	"runtime"
	"sync"
	"time"
)

// Frame is the 3-byte payload sent per command: address byte, fan control
// byte, light control byte. It is built fresh for every dispatch and never
// stored.
type Frame [3]byte

// Level is the logic level on the transmit line. The line idles High;
// a pulse pulls it Low.
type Level int

const (
	Low Level = iota
	High
)

// PulseSink holds an output at a logic level for a duration. The GPIO line
// implements it for real hardware; tests record the timeline instead.
type PulseSink interface {
	Hold(l Level, d time.Duration)
}

// Pulse-width encoding as sent by the vendor remote. Every bit occupies a
// 1500us slot; the mark/space ratio inside the slot carries the value.
// The start bit uses the same timing as a logic 1.
const (
	shortPulse = 500 * time.Microsecond
	longPulse  = 1000 * time.Microsecond

	repeatGap = 6 * time.Millisecond
	burstGap  = 12 * time.Millisecond
)

// The repeat counts are not protocol-mandated, just what the stock remote
// does. 21 frames as three bursts of seven is plenty against RF noise.
const (
	DefaultRepeats     = 21
	DefaultBurstLength = 7
)

// Transmitter serializes frames onto a single PulseSink. The sink is owned
// exclusively; Send holds a lock for the whole waveform so two commands can
// never interleave on the line.
type Transmitter struct {
	mu       sync.Mutex
	sink     PulseSink
	repeats  int
	burstLen int
}

func NewTransmitter(sink PulseSink, repeats, burstLen int) *Transmitter {
	if repeats < 1 {
		repeats = DefaultRepeats
	}
	if burstLen < 1 {
		burstLen = DefaultBurstLength
	}
	return &Transmitter{sink: sink, repeats: repeats, burstLen: burstLen}
}

// Send drives the full pulse train for f and blocks until the last repeat
// has gone out. The line is back at idle High on return. There is no error
// path: the fan has no way to acknowledge, so transmission is fire-and-forget.
func (t *Transmitter) Send(f Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// the receiver tolerates only a few tens of microseconds of jitter,
	// keep the goroutine pinned while bit-banging
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for i := 1; i <= t.repeats; i++ {
		t.sendRepeat(f)

		gap := repeatGap
		if i%t.burstLen == 0 {
			gap = burstGap
		}
		// closing edge after the last data bit, then idle until the
		// next start bit
		t.sink.Hold(Low, shortPulse)
		t.sink.Hold(High, gap)
	}
}

// sendRepeat emits one start bit plus the 24 data bits, MSB first, in frame
// order: address, fan control, light control.
func (t *Transmitter) sendRepeat(f Frame) {
	t.sink.Hold(Low, shortPulse)
	t.sink.Hold(High, longPulse)

	for _, b := range f {
		for bit := 7; bit >= 0; bit-- {
			if b&(1<<uint(bit)) != 0 {
				t.sink.Hold(Low, shortPulse)
				t.sink.Hold(High, longPulse)
			} else {
				t.sink.Hold(Low, longPulse)
				t.sink.Hold(High, shortPulse)
			}
		}
	}
}

package aeratron

import (
	"fmt"
	"time"

	"github.com/brutella/hap/log"

	gpiod "github.com/warthog618/go-gpiocdev"
)

// LinePulser implements PulseSink on a Linux GPIO character device line.
// It owns the line exclusively for the life of the process.
type LinePulser struct {
	chip *gpiod.Chip
	line *gpiod.Line
}

// OpenLinePulser requests the transmit line as an output at idle High.
// Any failure here is fatal to the caller; there is no retry path once the
// daemon is up (spec: environmental faults abort at initialization).
func OpenLinePulser(chipName string, offset int) (*LinePulser, error) {
	chip, err := gpiod.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("gpio chip %s: %w", chipName, err)
	}
	line, err := chip.RequestLine(offset, gpiod.AsOutput(1))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("gpio line %d on %s: %w", offset, chipName, err)
	}
	return &LinePulser{chip: chip, line: line}, nil
}

// Hold drives the line to l and busy-waits for d. Writes cannot usefully
// fail mid-waveform, a failed write is logged and the timing kept so the
// rest of the train stays aligned.
func (p *LinePulser) Hold(l Level, d time.Duration) {
	v := 1
	if l == Low {
		v = 0
	}
	if err := p.line.SetValue(v); err != nil {
		log.Info.Printf("gpio write failed: %s", err.Error())
	}
	busyWait(d)
}

// busyWait spins on the monotonic clock instead of sleeping. The scheduler
// cannot be trusted at the microsecond scale the waveform needs.
func busyWait(d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}

// Close restores the idle level and releases the line.
func (p *LinePulser) Close() {
	if err := p.line.SetValue(1); err != nil {
		log.Info.Printf("gpio idle restore failed: %s", err.Error())
	}
	p.line.Close()
	p.chip.Close()
}

package aeratron

import (
	"sync"
)

// Speed is the requested fan speed. SpeedOn is symbolic: it means "resume
// whatever concrete level was last selected" and is never written to the
// fan control byte as-is.
type Speed uint8

const (
	SpeedOff Speed = 0
	Speed1   Speed = 1
	Speed2   Speed = 2
	Speed3   Speed = 3
	Speed4   Speed = 4
	Speed5   Speed = 5
	Speed6   Speed = 6
	SpeedOn  Speed = 7
)

// Direction of rotation. Left is the summer setting, Right the winter one.
type Direction uint8

const (
	Left Direction = iota
	Right
)

func (d Direction) String() string {
	if d == Right {
		return "right"
	}
	return "left"
}

type Light uint8

const (
	LightOff Light = iota
	LightOn
)

func (l Light) String() string {
	if l == LightOn {
		return "on"
	}
	return "off"
}

// Byte values of the vendor encoding. The address matches the DIP-switch
// setting of the fan; 0xF0 is the factory default. The direction flag lives
// in the high bits of the fan control byte, the speed in the low nibble.
const (
	DefaultAddress = 0xF0

	lightOnByte   = 0xDF
	directionBits = 0x20
)

// Sender is what the controller transmits frames through. Satisfied by
// *Transmitter; tests substitute a recorder.
type Sender interface {
	Send(Frame)
}

// Status is a committed snapshot of the fan for display. Speed is 0 when
// the fan is off, otherwise the concrete level 1-6.
type Status struct {
	Speed     uint8  `json:"speed"`
	Direction string `json:"direction"`
	Light     string `json:"light"`
}

// Controller holds the canonical fan/light state and resolves symbolic
// commands into the byte values the radio sends. Every setter mutates state
// and transmits the resulting frame under one lock, so a snapshot can never
// observe a mutation whose transmission has not finished.
type Controller struct {
	mu           sync.Mutex
	address      byte
	fanControl   byte
	lightControl byte
	lastSpeed    Speed
	radio        Sender
	notify       Notifier
}

// NewController starts with fan off, direction left, light off. The resume
// level defaults to 1 so that a bare "on" works before any level was chosen.
func NewController(address byte, radio Sender, notify Notifier) *Controller {
	if address == 0 {
		address = DefaultAddress
	}
	if notify == nil {
		notify = nopNotifier{}
	}
	return &Controller{
		address:   address,
		lastSpeed: Speed1,
		radio:     radio,
		notify:    notify,
	}
}

// SetLight switches the light. The light byte has exactly two values, there
// is no dimming.
func (c *Controller) SetLight(l Light) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l == LightOn {
		c.lightControl = lightOnByte
	} else {
		c.lightControl = 0x00
	}
	c.dispatch("light %s", l)
}

// SetDirection flips the rotation direction, leaving the speed nibble alone.
func (c *Controller) SetDirection(d Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fanControl &^= 0xF0
	if d == Right {
		c.fanControl |= directionBits
	}
	c.dispatch("direction %s", d)
}

// SetSpeed sets a concrete level 1-6, turns the fan off, or resumes the last
// active level for SpeedOn. Only an explicit level updates the resume memory;
// neither off nor resume touch it.
func (c *Controller) SetSpeed(s Speed) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resolved := s
	switch {
	case s == SpeedOn:
		resolved = c.lastSpeed
	case s >= Speed1 && s <= Speed6:
		c.lastSpeed = s
	default:
		resolved = SpeedOff
	}

	c.fanControl = c.fanControl&^0x0F | byte(resolved)
	c.dispatch("fan speed %d", resolved)
}

// Status returns the committed state. It takes the same lock as the setters,
// so it never sees a mutation whose transmission is still on the wire.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	dir := Left
	if c.fanControl&directionBits != 0 {
		dir = Right
	}
	light := LightOff
	if c.lightControl != 0 {
		light = LightOn
	}
	return Status{
		Speed:     c.fanControl & 0x0F,
		Direction: dir.String(),
		Light:     light.String(),
	}
}

// dispatch is called with the lock held; transmission is part of the
// critical section on purpose.
func (c *Controller) dispatch(format string, args ...interface{}) {
	c.radio.Send(Frame{c.address, c.fanControl, c.lightControl})
	c.notify.Event(format, args...)
}

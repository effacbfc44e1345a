package aeratron

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRadio struct {
	frames []Frame
}

func (f *fakeRadio) Send(fr Frame) {
	f.frames = append(f.frames, fr)
}

func (f *fakeRadio) last() Frame {
	return f.frames[len(f.frames)-1]
}

func TestResumeDefaultsToLevelOne(t *testing.T) {
	r := &fakeRadio{}
	c := NewController(0xF0, r, nil)

	// "on" before any concrete level was ever chosen
	c.SetSpeed(SpeedOn)
	require.Equal(t, Frame{0xF0, 0x01, 0x00}, r.last())
}

func TestResumeRemembersLastConcreteLevel(t *testing.T) {
	r := &fakeRadio{}
	c := NewController(0xF0, r, nil)

	c.SetSpeed(Speed4)
	require.Equal(t, Frame{0xF0, 0x04, 0x00}, r.last())

	// off does not touch the resume memory, no matter how often
	c.SetSpeed(SpeedOff)
	c.SetSpeed(SpeedOff)
	require.Equal(t, Frame{0xF0, 0x00, 0x00}, r.last())

	c.SetSpeed(SpeedOn)
	require.Equal(t, Frame{0xF0, 0x04, 0x00}, r.last())

	// resuming does not update the memory either
	c.SetSpeed(SpeedOff)
	c.SetSpeed(SpeedOn)
	require.Equal(t, Frame{0xF0, 0x04, 0x00}, r.last())

	// a new concrete level replaces it
	c.SetSpeed(Speed2)
	c.SetSpeed(SpeedOff)
	c.SetSpeed(SpeedOn)
	require.Equal(t, Frame{0xF0, 0x02, 0x00}, r.last())
}

func TestDirectionAndSpeedIndependent(t *testing.T) {
	r := &fakeRadio{}
	c := NewController(0xF0, r, nil)

	c.SetSpeed(Speed5)
	c.SetDirection(Right)
	require.Equal(t, Frame{0xF0, 0x25, 0x00}, r.last())

	c.SetSpeed(Speed1)
	require.Equal(t, Frame{0xF0, 0x21, 0x00}, r.last())

	c.SetDirection(Left)
	require.Equal(t, Frame{0xF0, 0x01, 0x00}, r.last())
}

func TestLightBytesFixed(t *testing.T) {
	r := &fakeRadio{}
	c := NewController(0xF0, r, nil)

	// light byte is independent of whatever the fan is doing
	c.SetSpeed(Speed6)
	c.SetDirection(Right)

	c.SetLight(LightOff)
	require.Equal(t, Frame{0xF0, 0x26, 0x00}, r.last())

	c.SetLight(LightOn)
	require.Equal(t, Frame{0xF0, 0x26, 0xDF}, r.last())

	c.SetLight(LightOff)
	c.SetLight(LightOn)
	require.Equal(t, byte(0xDF), r.last()[2])
}

func TestEverySetterSendsExactlyOneFrame(t *testing.T) {
	r := &fakeRadio{}
	c := NewController(0xF0, r, nil)

	c.SetSpeed(Speed3)
	c.SetDirection(Right)
	c.SetLight(LightOn)
	require.Len(t, r.frames, 3)
}

func TestCommandSequence(t *testing.T) {
	r := &fakeRadio{}
	c := NewController(0xF0, r, nil)

	s := c.Status()
	require.Equal(t, Status{Speed: 0, Direction: "left", Light: "off"}, s)

	c.SetSpeed(Speed3)
	require.Equal(t, Status{Speed: 3, Direction: "left", Light: "off"}, c.Status())

	c.SetDirection(Right)
	require.Equal(t, Status{Speed: 3, Direction: "right", Light: "off"}, c.Status())

	c.SetSpeed(SpeedOff)
	require.Equal(t, Status{Speed: 0, Direction: "right", Light: "off"}, c.Status())

	c.SetSpeed(SpeedOn)
	require.Equal(t, Status{Speed: 3, Direction: "right", Light: "off"}, c.Status())

	require.Equal(t, []Frame{
		{0xF0, 0x03, 0x00},
		{0xF0, 0x23, 0x00},
		{0xF0, 0x20, 0x00},
		{0xF0, 0x23, 0x00},
	}, r.frames)
}

func TestDefaultAddress(t *testing.T) {
	r := &fakeRadio{}
	c := NewController(0, r, nil)

	c.SetLight(LightOn)
	require.Equal(t, byte(DefaultAddress), r.last()[0])
}

func TestDispatchNotifies(t *testing.T) {
	r := &fakeRadio{}
	events, err := NewEventLog("")
	require.NoError(t, err)

	c := NewController(0xF0, r, events)
	c.SetSpeed(Speed2)
	c.SetLight(LightOn)

	tail := events.Tail()
	require.Len(t, tail, 2)
	require.Contains(t, tail[0], "fan speed 2")
	require.Contains(t, tail[1], "light on")
}

package aeratron

import (
	"fmt"
	"math"

	"github.com/brutella/hap/accessory"
	"github.com/brutella/hap/characteristic"
	"github.com/brutella/hap/log"
	"github.com/brutella/hap/service"
)

// FanAccessory exposes the fan and its light to HomeKit. All remote updates
// funnel into the controller's three setters; the transmission has finished
// by the time a handler returns.
type FanAccessory struct {
	*accessory.A

	Fan   *fanSvc
	Light *lightSvc
	ctrl  *Controller
}

func NewFanAccessory(name string, ctrl *Controller) *FanAccessory {
	acc := FanAccessory{ctrl: ctrl}

	info := accessory.Info{
		Name:         name,
		SerialNumber: fmt.Sprintf("AE+2-%02X", ctrl.address),
		Manufacturer: "Aeratron",
		Model:        "AE+2",
		Firmware:     "1.0.0",
	}
	acc.A = accessory.New(info, accessory.TypeFan)

	acc.Fan = newFanSvc()
	acc.AddS(acc.Fan.S)

	acc.Light = newLightSvc()
	acc.AddS(acc.Light.S)

	acc.Fan.Active.OnValueRemoteUpdate(func(v int) {
		log.Info.Printf("[%s] fan active -> %d", name, v)
		if v == characteristic.ActiveActive {
			ctrl.SetSpeed(SpeedOn)
		} else {
			ctrl.SetSpeed(SpeedOff)
		}
		acc.Reflect()
	})

	acc.Fan.RotationSpeed.OnValueRemoteUpdate(func(pct float64) {
		log.Info.Printf("[%s] fan speed -> %.0f%%", name, pct)
		ctrl.SetSpeed(percentToSpeed(pct))
		acc.Reflect()
	})

	acc.Fan.RotationDirection.OnValueRemoteUpdate(func(v int) {
		log.Info.Printf("[%s] fan direction -> %d", name, v)
		if v == characteristic.RotationDirectionClockwise {
			ctrl.SetDirection(Right)
		} else {
			ctrl.SetDirection(Left)
		}
	})

	acc.Light.On.OnValueRemoteUpdate(func(on bool) {
		log.Info.Printf("[%s] light -> %t", name, on)
		if on {
			ctrl.SetLight(LightOn)
		} else {
			ctrl.SetLight(LightOff)
		}
	})

	acc.Reflect()
	return &acc
}

// Reflect pushes the committed controller state into the HomeKit
// characteristics. Called after every mutation, from whichever surface
// made it.
func (a *FanAccessory) Reflect() {
	s := a.ctrl.Status()

	if s.Speed > 0 {
		a.Fan.Active.SetValue(characteristic.ActiveActive)
		a.Fan.RotationSpeed.SetValue(speedToPercent(Speed(s.Speed)))
	} else {
		a.Fan.Active.SetValue(characteristic.ActiveInactive)
	}

	if s.Direction == Right.String() {
		a.Fan.RotationDirection.SetValue(characteristic.RotationDirectionClockwise)
	} else {
		a.Fan.RotationDirection.SetValue(characteristic.RotationDirectionCounterclockwise)
	}

	a.Light.On.SetValue(s.Light == LightOn.String())
}

// HomeKit speaks percent, the fan speaks levels 1-6.
func percentToSpeed(pct float64) Speed {
	if pct <= 0 {
		return SpeedOff
	}
	lvl := int(math.Round(pct * 6 / 100))
	if lvl < 1 {
		lvl = 1
	}
	if lvl > 6 {
		lvl = 6
	}
	return Speed(lvl)
}

func speedToPercent(s Speed) float64 {
	return math.Round(float64(s) * 100 / 6)
}

type fanSvc struct {
	*service.S

	Active            *characteristic.Active
	RotationSpeed     *characteristic.RotationSpeed
	RotationDirection *characteristic.RotationDirection
}

func newFanSvc() *fanSvc {
	svc := fanSvc{}
	svc.S = service.New(service.TypeFanV2)

	svc.Active = characteristic.NewActive()
	svc.AddC(svc.Active.C)

	svc.RotationSpeed = characteristic.NewRotationSpeed()
	svc.RotationSpeed.SetStepValue(100.0 / 6)
	svc.AddC(svc.RotationSpeed.C)

	svc.RotationDirection = characteristic.NewRotationDirection()
	svc.AddC(svc.RotationDirection.C)

	return &svc
}

type lightSvc struct {
	*service.S

	On   *characteristic.On
	Name *characteristic.Name
}

func newLightSvc() *lightSvc {
	svc := lightSvc{}
	svc.S = service.New(service.TypeLightbulb)

	svc.On = characteristic.NewOn()
	svc.AddC(svc.On.C)

	svc.Name = characteristic.NewName()
	svc.Name.SetValue("Fan Light")
	svc.AddC(svc.Name.C)

	return &svc
}

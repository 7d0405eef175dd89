// Package control provides the servo motion controllers.
//
// Every controller reads its configuration from a [registers.Store] once
// per cycle and implements [servo.Controller]:
//
//   - [IPD]: integral drive with proportional position and velocity damping
//   - [Regulator]: two-state feedback on position error and estimated velocity
//   - [Hold]: zero drive, position reporting only
//
// [Estimator] is the velocity observer the [Regulator] depends on.
//
// # Usage
//
//	regs := registers.NewTable()
//	ipd := control.NewIPD(regs)
//	ipd.Init()
//	ipd.LoadDefaults()
//	pwm := ipd.PositionToPWM(position) // once per sample, always in [-255, 255]
//
// All arithmetic is integer fixed point.
package control

// Package servo provides the closed-loop runtime around a motion controller.
//
// The package defines the collaborators of a servo's sampling loop:
//
//   - [Controller]: computes a drive command from a sampled position
//   - [Sampler]: produces shaft positions in the 10-bit sensor domain
//   - [Actuator]: applies a drive command, with its own safety checks
//   - [Estimator]: optional per-cycle state estimation ahead of control
//   - [Loop]: polls the sampler and runs one control cycle per sample
//
// # Example
//
//	regs := registers.NewTable()
//	ctrl := control.NewIPD(regs)
//	ctrl.LoadDefaults()
//	loop := servo.NewLoop(regs, ctrl, motor, driver)
//	result, _ := loop.Run(ctx, cfg)
//
// # Thread Safety
//
// A Loop is driven by a single goroutine. Only the register store may be
// touched concurrently by other goroutines.
package servo

package experiment

import (
	"fmt"
	"sort"

	"github.com/songsen/servoM8/internal/config"
	"github.com/songsen/servoM8/internal/control"
	"github.com/songsen/servoM8/internal/integrators"
	"github.com/songsen/servoM8/internal/metrics"
	"github.com/songsen/servoM8/internal/registers"
	"github.com/songsen/servoM8/internal/servo"
)

// ControllerFactory builds a controller bound to regs, calibrated for
// profile where the controller uses profile defaults.
type ControllerFactory func(regs registers.Store, profile config.Profile) servo.Controller

type controllerEntry struct {
	build ControllerFactory
	// estimator reports whether the controller needs the velocity observer.
	estimator   bool
	description string
}

type Registry struct {
	controllers map[string]controllerEntry
}

func NewRegistry() *Registry {
	r := &Registry{
		controllers: make(map[string]controllerEntry),
	}

	r.Register("ipd", "integral drive with position and velocity damping", false,
		func(regs registers.Store, _ config.Profile) servo.Controller { return control.NewIPD(regs) })
	r.Register("pid", "proportional-derivative with deadband, profile gains", false,
		func(regs registers.Store, p config.Profile) servo.Controller { return control.NewPID(regs, p.PID) })
	r.Register("regulator", "state feedback on estimated velocity", true,
		func(regs registers.Store, _ config.Profile) servo.Controller { return control.NewRegulator(regs) })
	r.Register("hold", "no drive, position reporting only", false,
		func(regs registers.Store, _ config.Profile) servo.Controller { return control.NewHold(regs) })

	return r
}

// Register adds or replaces a controller.
func (r *Registry) Register(name, description string, estimator bool, build ControllerFactory) {
	r.controllers[name] = controllerEntry{build: build, estimator: estimator, description: description}
}

func (r *Registry) GetController(name string, regs registers.Store, profile config.Profile) (servo.Controller, error) {
	entry, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
	return entry.build(regs, profile), nil
}

// NeedsEstimator reports whether the named controller reads the velocity
// estimate.
func (r *Registry) NeedsEstimator(name string) bool {
	return r.controllers[name].estimator
}

func (r *Registry) Describe(name string) string {
	return r.controllers[name].description
}

func (r *Registry) GetIntegrator(name string) (integrators.Integrator, error) {
	integ := integrators.New(name)
	if integ == nil {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return integ, nil
}

func (r *Registry) ListControllers() []string {
	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []servo.Metric {
	return []servo.Metric{
		metrics.NewControlEffort(),
		metrics.NewSaturation(),
		metrics.NewTrackingError(100),
		metrics.NewOvershoot(),
	}
}

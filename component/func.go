package component

import "context"

// Func adapts plain functions to the Component interface. Nil functions are
// no-ops and a nil HealthFn reports healthy.
type Func struct {
	ComponentName string
	StartFn       func(ctx context.Context) error
	StopFn        func(ctx context.Context) error
	HealthFn      func(ctx context.Context) error
	Description   Description
}

var (
	_ Component   = (*Func)(nil)
	_ Describable = (*Func)(nil)
)

func (f *Func) Name() string { return f.ComponentName }

func (f *Func) Start(ctx context.Context) error {
	if f.StartFn == nil {
		return nil
	}
	return f.StartFn(ctx)
}

func (f *Func) Stop(ctx context.Context) error {
	if f.StopFn == nil {
		return nil
	}
	return f.StopFn(ctx)
}

func (f *Func) Health(ctx context.Context) Health {
	if f.HealthFn != nil {
		if err := f.HealthFn(ctx); err != nil {
			return Health{Name: f.ComponentName, Status: StatusUnhealthy, Message: err.Error()}
		}
	}
	return Health{Name: f.ComponentName, Status: StatusHealthy}
}

func (f *Func) Describe() Description {
	d := f.Description
	if d.Name == "" {
		d.Name = f.ComponentName
	}
	return d
}

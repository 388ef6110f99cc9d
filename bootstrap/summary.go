package bootstrap

import (
	"context"
	"time"

	"github.com/kbukum/authapi/component"
	"github.com/kbukum/authapi/logger"
)

// Summary is the startup report logged once the application is ready.
type Summary struct {
	ServiceName     string
	Version         string
	StartupDuration time.Duration
	Components      []component.Description
	Health          []component.Health
}

// NewSummary creates an empty summary for the named service.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{ServiceName: serviceName, Version: version}
}

// Collect fills the summary from the registry.
func (s *Summary) Collect(ctx context.Context, reg *component.Registry) {
	s.Components = reg.Describe()
	s.Health = reg.HealthAll(ctx)
}

// Log writes the summary: one line for the service, one per component.
func (s *Summary) Log(log *logger.Logger) {
	log.Info("startup summary", logger.Fields(
		"service", s.ServiceName,
		"version", s.Version,
		"startup_ms", s.StartupDuration.Milliseconds(),
		"status", string(component.Overall(s.Health)),
	))

	for _, d := range s.Components {
		fields := logger.Fields("type", d.Type, "details", d.Details)
		if d.Port > 0 {
			fields["port"] = d.Port
		}
		log.Info("component "+d.Name, fields)
	}
	for _, h := range s.Health {
		if h.Status != component.StatusHealthy {
			log.Warn("component not healthy", logger.Fields(
				"component", h.Name,
				"status", string(h.Status),
				"message", h.Message,
			))
		}
	}
}

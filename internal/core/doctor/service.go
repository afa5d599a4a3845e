package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/tailor/internal/api"
)

// healthPinger is the slice of the API client the service check needs.
type healthPinger interface {
	Health(ctx context.Context) (api.HealthResponse, error)
}

// ServiceCheck pings the remote tailor service.
type ServiceCheck struct {
	client  healthPinger
	baseURL string
}

// NewServiceCheck creates a service reachability check.
func NewServiceCheck(client healthPinger, baseURL string) *ServiceCheck {
	return &ServiceCheck{client: client, baseURL: baseURL}
}

func (c *ServiceCheck) Name() string {
	return "Service"
}

func (c *ServiceCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	health, err := c.client.Health(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.baseURL,
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  c.baseURL,
		Status: StatusPass,
		Detail: fmt.Sprintf("reachable in %s", time.Since(start).Round(time.Millisecond)),
	})

	status := StatusPass
	if health.Status != "ok" && health.Status != "healthy" {
		status = StatusWarn
	}
	detail := health.Status
	if health.Version != "" {
		detail = fmt.Sprintf("%s (%s %s)", health.Status, health.Service, health.Version)
	}
	result.Items = append(result.Items, CheckItem{
		Label:  "health",
		Status: status,
		Detail: detail,
	})

	return result
}

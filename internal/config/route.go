package config

import (
	"errors"
	"fmt"
	"strings"
)

// errNoRoutes is returned when the configuration contains no routes.
var errNoRoutes = errors.New("no routes configured")

// Route describes one simulated endpoint and how traffic is emitted for it.
type Route struct {
	// Endpoint is the path segment of the simulated route, without a leading slash
	Endpoint string `yaml:"endpoint,omitempty" mapstructure:"endpoint,omitempty"`
	// Rate is the emission rate in records per second
	Rate float64 `yaml:"rate,omitempty" mapstructure:"rate,omitempty"`
	// Fail is the percentage of records stamped with status 500, in [0,100]
	Fail float64 `yaml:"fail,omitempty" mapstructure:"fail,omitempty"`
}

// Path returns the request path for the route.
func (r *Route) Path() string {
	return "/" + r.Endpoint
}

// Validate validates a single route.
func (r *Route) Validate() error {
	if strings.TrimSpace(r.Endpoint) == "" {
		return fmt.Errorf("route endpoint cannot be empty")
	}

	if strings.ContainsAny(r.Endpoint, " \t\n") {
		return fmt.Errorf("route endpoint cannot contain whitespace, got %q", r.Endpoint)
	}

	if strings.HasPrefix(r.Endpoint, "/") {
		return fmt.Errorf("route endpoint must not start with a slash, got %q", r.Endpoint)
	}

	if r.Rate <= 0 {
		return fmt.Errorf("route %q rate must be positive, got %v", r.Endpoint, r.Rate)
	}

	if err := ValidatePercent(r.Fail); err != nil {
		return fmt.Errorf("route %q fail percentage validation failed: %w", r.Endpoint, err)
	}

	return nil
}

// ValidateRoutes validates the route list. At least one route is required.
func ValidateRoutes(routes []Route) error {
	if len(routes) == 0 {
		return errNoRoutes
	}

	for i := range routes {
		if err := routes[i].Validate(); err != nil {
			return fmt.Errorf("route %d validation failed: %w", i, err)
		}
	}

	return nil
}

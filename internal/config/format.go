package config

import (
	"fmt"
)

// FormatType represents the rendered record format
type FormatType string

const (
	// FormatTypeAccess represents the nginx-style access line format
	FormatTypeAccess FormatType = "access"
	// FormatTypeJSON represents the compact JSON record format
	FormatTypeJSON FormatType = "json"
)

// Format contains configuration for record rendering
type Format struct {
	// Type specifies the record format (access or json)
	Type FormatType `yaml:"type,omitempty" mapstructure:"type,omitempty"`
}

// Validate validates the format configuration
func (f *Format) Validate() error {
	// Allow empty type - defaults will be applied by override system
	if f.Type == "" {
		return nil
	}

	switch f.Type {
	case FormatTypeAccess, FormatTypeJSON:
		// valid
	default:
		return fmt.Errorf("invalid format type: %s, must be one of: access, json", f.Type)
	}

	return nil
}

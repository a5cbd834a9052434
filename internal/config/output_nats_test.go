package config

import (
	"strings"
	"testing"
)

func TestNATSOutputConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  NATSOutputConfig
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid configuration",
			config: NATSOutputConfig{
				URL:     "nats://localhost:4222",
				Subject: "logsim.records",
				Workers: 1,
			},
			wantErr: false,
		},
		{
			name: "valid configuration with TLS URL",
			config: NATSOutputConfig{
				URL:     "tls://nats.internal:4222",
				Subject: "logsim.records",
				Workers: 2,
			},
			wantErr: false,
		},
		{
			name:    "empty configuration uses defaults",
			config:  NATSOutputConfig{},
			wantErr: false,
		},
		{
			name: "URL without scheme",
			config: NATSOutputConfig{
				URL:     "localhost:4222",
				Subject: "logsim.records",
				Workers: 1,
			},
			wantErr: true,
			errMsg:  "NATS output URL must start with nats:// or tls://",
		},
		{
			name: "subject with whitespace",
			config: NATSOutputConfig{
				URL:     "nats://localhost:4222",
				Subject: "logsim records",
				Workers: 1,
			},
			wantErr: true,
			errMsg:  "NATS output subject cannot contain whitespace",
		},
		{
			name: "negative workers",
			config: NATSOutputConfig{
				URL:     "nats://localhost:4222",
				Subject: "logsim.records",
				Workers: -1,
			},
			wantErr: true,
			errMsg:  "NATS output workers cannot be negative, got -1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("NATSOutputConfig.Validate() expected error but got none")
					return
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("NATSOutputConfig.Validate() error = %v, want to contain %v", err.Error(), tt.errMsg)
				}
			} else {
				if err != nil {
					t.Errorf("NATSOutputConfig.Validate() unexpected error = %v", err)
				}
			}
		})
	}
}

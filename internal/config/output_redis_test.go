package config

import (
	"strings"
	"testing"
)

func TestRedisOutputConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  RedisOutputConfig
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid configuration",
			config: RedisOutputConfig{
				Addr:    "localhost:6379",
				Key:     "logsim:records",
				Workers: 1,
			},
			wantErr: false,
		},
		{
			name:    "empty configuration uses defaults",
			config:  RedisOutputConfig{},
			wantErr: false,
		},
		{
			name: "address without port",
			config: RedisOutputConfig{
				Addr:    "localhost",
				Key:     "logsim:records",
				Workers: 1,
			},
			wantErr: true,
			errMsg:  "Redis output address validation failed",
		},
		{
			name: "address with invalid port",
			config: RedisOutputConfig{
				Addr:    "localhost:99999",
				Key:     "logsim:records",
				Workers: 1,
			},
			wantErr: true,
			errMsg:  "Redis output port validation failed",
		},
		{
			name: "address with invalid host",
			config: RedisOutputConfig{
				Addr:    "invalid..hostname:6379",
				Key:     "logsim:records",
				Workers: 1,
			},
			wantErr: true,
			errMsg:  "Redis output host validation failed",
		},
		{
			name: "negative workers",
			config: RedisOutputConfig{
				Addr:    "localhost:6379",
				Key:     "logsim:records",
				Workers: -1,
			},
			wantErr: true,
			errMsg:  "Redis output workers cannot be negative, got -1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("RedisOutputConfig.Validate() expected error but got none")
					return
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("RedisOutputConfig.Validate() error = %v, want to contain %v", err.Error(), tt.errMsg)
				}
			} else {
				if err != nil {
					t.Errorf("RedisOutputConfig.Validate() unexpected error = %v", err)
				}
			}
		})
	}
}

package config

import (
	"strings"
	"testing"
)

func TestValidatePort(t *testing.T) {
	tests := []struct {
		name    string
		port    int
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid port",
			port:    8080,
			wantErr: false,
		},
		{
			name:    "valid port minimum",
			port:    1,
			wantErr: false,
		},
		{
			name:    "valid port maximum",
			port:    65535,
			wantErr: false,
		},
		{
			name:    "invalid port - zero",
			port:    0,
			wantErr: true,
			errMsg:  "port must be between 1 and 65535, got 0",
		},
		{
			name:    "invalid port - too high",
			port:    65536,
			wantErr: true,
			errMsg:  "port must be between 1 and 65535, got 65536",
		},
		{
			name:    "negative port",
			port:    -1,
			wantErr: true,
			errMsg:  "port must be between 1 and 65535, got -1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePort(tt.port)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ValidatePort() expected error but got none")
					return
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ValidatePort() error = %v, want to contain %v", err.Error(), tt.errMsg)
				}
			} else {
				if err != nil {
					t.Errorf("ValidatePort() unexpected error = %v", err)
				}
			}
		})
	}
}

func TestValidateHost(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid IPv4 address",
			host:    "127.0.0.1",
			wantErr: false,
		},
		{
			name:    "valid IPv6 address",
			host:    "::1",
			wantErr: false,
		},
		{
			name:    "valid hostname",
			host:    "localhost",
			wantErr: false,
		},
		{
			name:    "valid domain name",
			host:    "example.com",
			wantErr: false,
		},
		{
			name:    "empty host",
			host:    "",
			wantErr: true,
			errMsg:  "host cannot be empty",
		},
		{
			name:    "invalid hostname - double dots",
			host:    "invalid..hostname",
			wantErr: true,
			errMsg:  "host must be a valid IP address or hostname",
		},
		{
			name:    "invalid hostname - starts with dash",
			host:    "-invalid.hostname",
			wantErr: true,
			errMsg:  "host must be a valid IP address or hostname",
		},
		{
			name:    "invalid hostname - ends with dash",
			host:    "invalid.hostname-",
			wantErr: true,
			errMsg:  "host must be a valid IP address or hostname",
		},
		{
			name:    "invalid hostname - too long",
			host:    "a" + strings.Repeat(".a", 127), // Creates a hostname longer than 253 chars
			wantErr: true,
			errMsg:  "host must be a valid IP address or hostname",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHost(tt.host)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ValidateHost() expected error but got none")
					return
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ValidateHost() error = %v, want to contain %v", err.Error(), tt.errMsg)
				}
			} else {
				if err != nil {
					t.Errorf("ValidateHost() unexpected error = %v", err)
				}
			}
		})
	}
}

func TestValidatePercent(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		wantErr bool
		errMsg  string
	}{
		{
			name:    "zero percent",
			percent: 0,
			wantErr: false,
		},
		{
			name:    "hundred percent",
			percent: 100,
			wantErr: false,
		},
		{
			name:    "fractional percent",
			percent: 12.5,
			wantErr: false,
		},
		{
			name:    "negative percent",
			percent: -0.1,
			wantErr: true,
			errMsg:  "percentage must be between 0 and 100",
		},
		{
			name:    "over hundred percent",
			percent: 100.5,
			wantErr: true,
			errMsg:  "percentage must be between 0 and 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePercent(tt.percent)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ValidatePercent() expected error but got none")
					return
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ValidatePercent() error = %v, want to contain %v", err.Error(), tt.errMsg)
				}
			} else {
				if err != nil {
					t.Errorf("ValidatePercent() unexpected error = %v", err)
				}
			}
		})
	}
}

func TestSplitHostPort(t *testing.T) {
	tests := []struct {
		name     string
		addr     string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{
			name:     "host and port",
			addr:     "localhost:9092",
			wantHost: "localhost",
			wantPort: 9092,
			wantErr:  false,
		},
		{
			name:     "IP and port",
			addr:     "127.0.0.1:6379",
			wantHost: "127.0.0.1",
			wantPort: 6379,
			wantErr:  false,
		},
		{
			name:    "missing port",
			addr:    "localhost",
			wantErr: true,
		},
		{
			name:    "non-numeric port",
			addr:    "localhost:abc",
			wantErr: true,
		},
		{
			name:    "empty address",
			addr:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, err := SplitHostPort(tt.addr)
			if tt.wantErr {
				if err == nil {
					t.Errorf("SplitHostPort() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("SplitHostPort() unexpected error = %v", err)
				return
			}
			if host != tt.wantHost {
				t.Errorf("SplitHostPort() host = %v, want %v", host, tt.wantHost)
			}
			if port != tt.wantPort {
				t.Errorf("SplitHostPort() port = %v, want %v", port, tt.wantPort)
			}
		})
	}
}

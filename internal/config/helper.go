package config

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
)

// ValidatePort validates that a port number is valid
func ValidatePort(port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}

	return nil
}

// hostnameRegex is the regex pattern for validating hostnames
// This regex validates hostnames according to RFC 1123 standards
var hostnameRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?)*$`)

// ValidateHost validates that a host string is a valid IP address or hostname
func ValidateHost(host string) error {
	if host == "" {
		return fmt.Errorf("host cannot be empty")
	}

	// Check if it's a valid IP address first
	if net.ParseIP(host) != nil {
		return nil
	}

	// Check hostname length (max 253 characters)
	if len(host) > 253 {
		return fmt.Errorf("host must be a valid IP address or hostname")
	}

	// If it's not a valid IP, check if it's a valid hostname using regex
	if !hostnameRegex.MatchString(host) {
		return fmt.Errorf("host must be a valid IP address or hostname")
	}

	return nil
}

// ValidatePercent validates that a percentage is within [0,100]
func ValidatePercent(percent float64) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("percentage must be between 0 and 100, got %v", percent)
	}

	return nil
}

// SplitHostPort splits a host:port address and parses the port
func SplitHostPort(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("address must be host:port: %w", err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("address port must be numeric: %w", err)
	}

	return host, port, nil
}

package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"
)

// ValidateTimeout validates timeout duration. Zero means "no timeout".
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout < 0 {
		return fmt.Errorf("%s timeout cannot be negative", name)
	}
	if timeout > 30*time.Minute {
		return fmt.Errorf("%s timeout too large (max 30 minutes)", name)
	}
	return nil
}

// ValidatePort validates a TCP port given as a string
func ValidatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("port %q is not a number", port)
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("port %d out of range (must be between 1 and 65535)", n)
	}
	return nil
}

// ValidateOneOf validates that value is one of allowed
func ValidateOneOf(value string, allowed []string, name string) error {
	if !lo.Contains(allowed, value) {
		return fmt.Errorf("%s must be one of %v, got %q", name, allowed, value)
	}
	return nil
}

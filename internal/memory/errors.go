package memory

import "fmt"

// ConfigError reports a cartridge/controller configuration that the core
// refuses to construct: bad ROM/RAM sizes or an impossible combination of
// the two.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("cartridge config error: %s", e.Reason)
}

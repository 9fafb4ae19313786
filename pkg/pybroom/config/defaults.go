// Package config provides configuration management for pybroom.
package config

// Default configuration values for pybroom.
const (
	// DefaultVenvDays is the staleness threshold for virtual
	// environments, in days since last access.
	DefaultVenvDays = 30

	// DefaultHistoryRetentionDays is how long completed-operation
	// records are kept.
	DefaultHistoryRetentionDays = 90

	// DefaultOutputFormat is the non-interactive output format.
	DefaultOutputFormat = "pretty"
)

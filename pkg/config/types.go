// pkg/config/types.go
package config

import "time"

// Config is the root configuration structure for portsniff.
type Config struct {
	Log  LogConfig  `description:"Logging configuration" koanf:"log"`
	Scan ScanConfig `description:"Scan configuration" koanf:"scan"`
}

// LogConfig holds logging related configuration.
type LogConfig struct {
	Level  string `description:"Log level (trace, debug, info, warn, error)" koanf:"level"`
	Format string `description:"Log format: json | text" koanf:"format"`
	File   string `description:"Log file path (optional, stderr when empty)" koanf:"file"`
}

// ScanConfig holds the scan request and the knobs of the scan pipeline.
type ScanConfig struct {
	Address string `description:"Target IP address" koanf:"address"`
	Start   int    `description:"First port to scan (inclusive)" koanf:"start"`
	End     int    `description:"Last port to scan (exclusive)" koanf:"end"`

	// Concurrency is the number of connection attempts allowed in flight.
	Concurrency int `description:"Maximum concurrent connection attempts" koanf:"concurrency"`
	// Timeout bounds each dial; zero leaves it to the network stack.
	Timeout time.Duration `description:"Per-connection dial timeout (0 = none)" koanf:"timeout"`

	Progress string `description:"Progress display: dots | bar | none" koanf:"progress"`
	Output   string `description:"Report format: text | json | yaml | table" koanf:"output"`
}

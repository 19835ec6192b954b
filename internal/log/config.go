package log

// FileConfig configures file output with rotation.
type FileConfig struct {
	Path       string `conf:"path" yaml:"path" json:"path"`
	MaxSizeMB  int    `conf:"max_size_mb" yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `conf:"max_backups" yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `conf:"max_age_days" yaml:"max_age_days" json:"max_age_days"`
	Compress   bool   `conf:"compress" yaml:"compress" json:"compress"`
}

// Config configures the process logger.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string `conf:"level" yaml:"level" json:"level"`

	// Format is json or console.
	Format string `conf:"format" yaml:"format" json:"format"`

	// File enables rotated file output when Path is set; stderr otherwise.
	File FileConfig `conf:"file" yaml:"file" json:"file"`
}

// DefaultConfig returns the logger defaults used when no config is provided.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
	}
}

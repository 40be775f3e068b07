// Package config provides configuration management for the leaplint CLI.
package config

// Default configuration values.
const (
	DefaultRulesFile  = "rules.yaml"
	DefaultReport     = "report.html"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel   = "info"
	DefaultServeAddr  = ":8080"
	DefaultReportsDir = "reports"
	DefaultHistoryDB  = ".leaplint/history.db"
)

// Config holds all CLI configuration options.
type Config struct {
	RulesFile    string        `koanf:"rules_file"`
	ReportPath   string        `koanf:"report"`
	OutputFormat string        `koanf:"output"`
	Verbose      bool          `koanf:"verbose"`
	LogLevel     string        `koanf:"log_level"`
	Serve        ServeConfig   `koanf:"serve"`
	History      HistoryConfig `koanf:"history"`

	// ConfigFile is the config file that was read, empty if none.
	ConfigFile string `koanf:"-"`
}

// ServeConfig holds configuration for the HTTP server.
type ServeConfig struct {
	Addr       string `koanf:"addr"`
	ReportsDir string `koanf:"reports_dir"`
}

// HistoryConfig controls run history recording.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	return &Config{
		RulesFile:    DefaultRulesFile,
		ReportPath:   DefaultReport,
		OutputFormat: DefaultOutput,
		LogLevel:     DefaultLogLevel,
		Serve: ServeConfig{
			Addr:       DefaultServeAddr,
			ReportsDir: DefaultReportsDir,
		},
		History: HistoryConfig{
			Path: DefaultHistoryDB,
		},
	}
}

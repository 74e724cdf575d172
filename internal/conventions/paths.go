package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default webgen data directory name (relative to home).
	DefaultDataDir = ".webgen"
	// DBFile is the generation history database filename.
	DBFile = "webgen.db"
	// ConfigFile is the optional configuration filename.
	ConfigFile = "config.yaml"
	// MetricsFile is the Prometheus textfile filename.
	MetricsFile = "webgen.prom"
	// EnvVarPrefix is the prefix of the environment variables that set the flags.
	EnvVarPrefix = "WEBGEN"
)

// DBPath returns the path of the history database inside a data directory.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, DBFile)
}

// ConfigPath returns the path of the configuration file inside a data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFile)
}

// MetricsPath returns the path of the metrics textfile inside a data directory.
func MetricsPath(dataDir string) string {
	return filepath.Join(dataDir, MetricsFile)
}

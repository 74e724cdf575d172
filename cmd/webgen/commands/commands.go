package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/webgen/internal/conventions"
	"github.com/slok/webgen/internal/log"
	"github.com/slok/webgen/internal/metrics"
	"github.com/slok/webgen/internal/model"
	storageio "github.com/slok/webgen/internal/storage/io"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug       bool
	NoLog       bool
	NoColor     bool
	LoggerType  string
	DBPath      string
	ConfigPath  string
	MetricsPath string

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger

	defaultConfigPath string
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	dataDir := filepath.Join(homedir.HomeDir(), conventions.DefaultDataDir)
	c.defaultConfigPath = conventions.ConfigPath(dataDir)
	app.Flag("db-path", "Path to the SQLite generation history database file.").Envar("WEBGEN_DB_PATH").Default(conventions.DBPath(dataDir)).StringVar(&c.DBPath)
	app.Flag("config", "Path to the YAML configuration file, "+c.defaultConfigPath+" is used if present.").Envar("WEBGEN_CONFIG").StringVar(&c.ConfigPath)
	app.Flag("metrics-path", "Write the Prometheus metrics to this textfile on exit.").Envar("WEBGEN_METRICS_PATH").StringVar(&c.MetricsPath)

	return c
}

// LoadConfig loads the generator configuration file. A missing default
// configuration file is not an error, a missing explicit one is.
func (c *RootCommand) LoadConfig(ctx context.Context) (model.GeneratorConfig, error) {
	path := c.ConfigPath
	explicit := path != ""
	if !explicit {
		path = c.defaultConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return model.GeneratorConfig{}, fmt.Errorf("could not resolve config path: %w", err)
	}

	configRepo := storageio.NewConfigYAMLRepository(os.DirFS("/"))
	cfg, err := configRepo.GetConfig(ctx, absPath[1:])
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return model.GeneratorConfig{}, nil
		}
		return model.GeneratorConfig{}, fmt.Errorf("could not load config: %w", err)
	}

	c.Logger.Debugf("Loaded configuration from %s", absPath)
	return cfg, nil
}

// NewMetrics returns the metrics recorder and the function that writes the
// metrics textfile. Without metrics path the recorder is a noop.
func (c *RootCommand) NewMetrics() (metrics.Recorder, func(), error) {
	if c.MetricsPath == "" {
		return metrics.Noop, func() {}, nil
	}

	reg := prometheus.NewRegistry()
	rec, err := metrics.NewPrometheusRecorder(reg)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create metrics recorder: %w", err)
	}

	flush := func() {
		if err := metrics.WriteTextfile(c.MetricsPath, reg); err != nil {
			c.Logger.Warningf("Could not write metrics: %s", err)
		}
	}

	return rec, flush, nil
}

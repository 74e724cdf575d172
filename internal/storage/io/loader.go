package io

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/slok/webgen/internal/model"
)

// ConfigYAMLRepository loads generator configuration from YAML files.
type ConfigYAMLRepository struct {
	fs fs.FS
}

// NewConfigYAMLRepository creates a new YAML config repository.
func NewConfigYAMLRepository(filesystem fs.FS) *ConfigYAMLRepository {
	return &ConfigYAMLRepository{fs: filesystem}
}

// GetConfig loads a generator configuration from a YAML file and returns a validated domain model.
func (r *ConfigYAMLRepository) GetConfig(ctx context.Context, path string) (model.GeneratorConfig, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return model.GeneratorConfig{}, fmt.Errorf("reading config file: %w", err)
	}

	if ctx.Err() != nil {
		return model.GeneratorConfig{}, ctx.Err()
	}

	var cfg GeneratorConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return model.GeneratorConfig{}, fmt.Errorf("parsing YAML: %w", err)
	}

	m, err := cfg.toModel()
	if err != nil {
		return model.GeneratorConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := m.Validate(); err != nil {
		return model.GeneratorConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return m, nil
}

// GeneratorConfig represents the YAML structure for generator configuration.
type GeneratorConfig struct {
	Endpoint         string   `yaml:"endpoint"`
	ArtifactField    string   `yaml:"artifact_field"`
	Timeout          string   `yaml:"timeout"`
	Phases           []string `yaml:"phases"`
	PhaseInterval    string   `yaml:"phase_interval"`
	ActivityInterval string   `yaml:"activity_interval"`
	OutputDir        string   `yaml:"output_dir"`
	OutputFile       string   `yaml:"output_file"`
}

func (c GeneratorConfig) toModel() (model.GeneratorConfig, error) {
	cfg := model.GeneratorConfig{
		Endpoint:      c.Endpoint,
		ArtifactField: c.ArtifactField,
		Phases:        c.Phases,
		OutputDir:     c.OutputDir,
		OutputFile:    c.OutputFile,
	}

	var err error
	if cfg.Timeout, err = parseDuration("timeout", c.Timeout); err != nil {
		return model.GeneratorConfig{}, err
	}
	if cfg.PhaseInterval, err = parseDuration("phase_interval", c.PhaseInterval); err != nil {
		return model.GeneratorConfig{}, err
	}
	if cfg.ActivityInterval, err = parseDuration("activity_interval", c.ActivityInterval); err != nil {
		return model.GeneratorConfig{}, err
	}

	return cfg, nil
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/webgen/internal/log"
	"github.com/slok/webgen/internal/model"
)

func TestRootCommandLoadConfig(t *testing.T) {
	tests := map[string]struct {
		file     string
		explicit bool
		noFile   bool
		expCfg   model.GeneratorConfig
		expErr   bool
	}{
		"A missing default config should be ignored.": {
			noFile: true,
		},

		"A missing explicit config should fail.": {
			noFile:   true,
			explicit: true,
			expErr:   true,
		},

		"The default config should be loaded if present.": {
			file:   "endpoint: http://localhost:3000/\ntimeout: 1m\n",
			expCfg: model.GeneratorConfig{Endpoint: "http://localhost:3000/", Timeout: time.Minute},
		},

		"An explicit config should be loaded.": {
			file:     "output_file: site.html\n",
			explicit: true,
			expCfg:   model.GeneratorConfig{OutputFile: "site.html"},
		},

		"An invalid config should fail.": {
			file:   "timeout: tomorrow\n",
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if !test.noFile {
				require.NoError(t, os.WriteFile(path, []byte(test.file), 0o644))
			}

			root := &RootCommand{Logger: log.Noop, defaultConfigPath: path}
			if test.explicit {
				root.ConfigPath = path
			}

			cfg, err := root.LoadConfig(context.Background())
			if test.expErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expCfg, cfg)
		})
	}
}

func TestGenerateCommandApplyConfig(t *testing.T) {
	cfg := model.GeneratorConfig{
		Endpoint:   "http://config/",
		Timeout:    time.Minute,
		OutputDir:  "/tmp/out",
		OutputFile: "config.html",
	}

	// Flags win over the configuration file.
	c := &GenerateCommand{endpoint: "http://flag/", outputFile: "flag.html"}
	c.applyConfig(cfg)

	assert.Equal(t, "http://flag/", c.endpoint)
	assert.Equal(t, time.Minute, c.timeout)
	assert.Equal(t, "/tmp/out", c.outputDir)
	assert.Equal(t, "flag.html", c.outputFile)
}

func TestRootCommandNewMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webgen.prom")
	root := &RootCommand{Logger: log.Noop, MetricsPath: path}

	rec, flush, err := root.NewMetrics()
	require.NoError(t, err)
	rec.ObserveExport(true)
	flush()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `webgen_exports_total{success="true"} 1`)
}

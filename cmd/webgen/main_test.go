package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/webgen/internal/transport/fake"
)

type cliEnv struct {
	dir    string
	dbPath string
	outDir string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()

	dir := t.TempDir()
	// Isolates the default config file lookup.
	t.Setenv("HOME", dir)

	return cliEnv{
		dir:    dir,
		dbPath: filepath.Join(dir, "data", "webgen.db"),
		outDir: filepath.Join(dir, "out"),
	}
}

func (e cliEnv) run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	fullArgs := append([]string{"webgen", "--db-path", e.dbPath}, args...)
	err = Run(context.Background(), fullArgs, strings.NewReader(stdin), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), err
}

func TestGenerateCommand(t *testing.T) {
	tests := map[string]struct {
		stdin     string
		args      func(e cliEnv) []string
		expErr    string
		expStatus string
		expFile   string
		expStdout string
	}{
		"Generating with the fake transport should export the website.": {
			args: func(e cliEnv) []string {
				return []string{"generate", "--transport", "fake", "--fake-delay", "0s", "--no-progress", "--format", "json", "--output-dir", e.outDir, "A bakery"}
			},
			expStatus: "success",
			expFile:   "generated-website.html",
		},

		"Generating with an output filename should use it.": {
			args: func(e cliEnv) []string {
				return []string{"generate", "--transport", "fake", "--fake-delay", "0s", "--no-progress", "--format", "json", "--output-dir", e.outDir, "-o", "bakery", "A bakery"}
			},
			expStatus: "success",
			expFile:   "bakery.html",
		},

		"Generating to stdout should only write the website.": {
			args: func(e cliEnv) []string {
				return []string{"generate", "--transport", "fake", "--fake-delay", "0s", "--no-progress", "--stdout", "A bakery"}
			},
			expStdout: fake.Page("A bakery"),
		},

		"The prompt should be read from stdin.": {
			stdin: "  A bakery from stdin\n",
			args: func(e cliEnv) []string {
				return []string{"generate", "--transport", "fake", "--fake-delay", "0s", "--no-progress", "--stdout", "--stdin"}
			},
			expStdout: fake.Page("A bakery from stdin"),
		},

		"A missing prompt should fail.": {
			args: func(e cliEnv) []string {
				return []string{"generate", "--transport", "fake", "--no-progress"}
			},
			expErr: "empty prompt",
		},

		"An empty stdin prompt should fail.": {
			stdin: "\n",
			args: func(e cliEnv) []string {
				return []string{"generate", "--transport", "fake", "--no-progress", "--stdin"}
			},
			expErr: "empty prompt",
		},

		"An empty prompt should fail.": {
			args: func(e cliEnv) []string {
				return []string{"generate", "--transport", "fake", "--no-progress", " "}
			},
			expErr: "empty prompt",
		},

		"A failing generation should fail with the user message.": {
			args: func(e cliEnv) []string {
				return []string{"generate", "--transport", "fake", "--fake-delay", "0s", "--fake-fail-status", "500", "--no-progress", "A bakery"}
			},
			expErr: "Failed to generate website: HTTP error status: 500",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			e := newCLIEnv(t)

			stdout, _, err := e.run(t, test.stdin, test.args(e)...)
			if test.expErr != "" {
				require.Error(err)
				assert.Contains(err.Error(), test.expErr)
				return
			}
			require.NoError(err)

			if test.expStdout != "" {
				assert.Equal(test.expStdout, stdout)
			}

			if test.expStatus != "" {
				var out map[string]any
				require.NoError(json.Unmarshal([]byte(stdout), &out))
				assert.Equal(test.expStatus, out["status"])
				assert.Equal(filepath.Join(e.outDir, test.expFile), out["location"])

				data, err := os.ReadFile(filepath.Join(e.outDir, test.expFile))
				require.NoError(err)
				assert.Equal(fake.Page("A bakery"), string(data))
			}
		})
	}
}

func TestHistoryCommands(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	e := newCLIEnv(t)

	// A failed generation retried once and a successful one.
	_, _, err := e.run(t, "", "generate", "--transport", "fake", "--fake-delay", "0s", "--fake-fail-status", "503", "--retries", "1", "--no-progress", "Broken")
	require.Error(err)
	_, _, err = e.run(t, "", "generate", "--transport", "fake", "--fake-delay", "0s", "--no-export", "--no-progress", "A bakery")
	require.NoError(err)

	// List all.
	stdout, _, err := e.run(t, "", "history", "--format", "json", "list")
	require.NoError(err)
	var all []map[string]any
	require.NoError(json.Unmarshal([]byte(stdout), &all))
	require.Len(all, 3)
	assert.Equal("A bakery", all[0]["prompt"])
	assert.Equal("success", all[0]["status"])

	// List filtered.
	stdout, _, err = e.run(t, "", "history", "--format", "json", "list", "--status", "failed")
	require.NoError(err)
	var failed []map[string]any
	require.NoError(json.Unmarshal([]byte(stdout), &failed))
	assert.Len(failed, 2)

	// Export the latest success.
	stdout, _, err = e.run(t, "", "history", "export", "--stdout")
	require.NoError(err)
	assert.Equal(fake.Page("A bakery"), stdout)

	// Exporting a failed generation is not possible.
	_, _, err = e.run(t, "", "history", "export", failed[0]["id"].(string), "--output-dir", e.outDir)
	assert.Error(err)
}

func TestMetricsTextfile(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	e := newCLIEnv(t)

	metricsPath := filepath.Join(e.dir, "webgen.prom")
	_, _, err := e.run(t, "", "--metrics-path", metricsPath, "generate", "--transport", "fake", "--fake-delay", "0s", "--no-progress", "--output-dir", e.outDir, "A bakery")
	require.NoError(err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(err)
	assert.Contains(string(data), `outcome="success"`)
}

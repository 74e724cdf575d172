package export_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/webgen/internal/export"
)

func TestFilename(t *testing.T) {
	tests := map[string]struct {
		name    string
		expName string
	}{
		"Empty name should use the default.":           {name: "", expName: "generated-website.html"},
		"Blank name should use the default.":           {name: "  ", expName: "generated-website.html"},
		"HTML name should be kept.":                    {name: "site.html", expName: "site.html"},
		"HTM name should be kept.":                     {name: "site.HTM", expName: "site.HTM"},
		"Name without extension should get one.":       {name: "site", expName: "site.html"},
		"Name with directories should only keep base.": {name: "../../etc/site.html", expName: "site.html"},
		"Name with another extension should get html.": {name: "site.txt", expName: "site.txt.html"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expName, export.Filename(test.name))
		})
	}
}

func TestFileExporterExport(t *testing.T) {
	tests := map[string]struct {
		existing string
		filename string
		artifact string
		expFile  string
	}{
		"Exporting without filename should use the default one.": {
			artifact: "<html>...</html>",
			expFile:  "generated-website.html",
		},

		"Exporting should replace an existing file.": {
			existing: "old",
			filename: "site.html",
			artifact: "<html>new</html>",
			expFile:  "site.html",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			if test.existing != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, test.expFile), []byte(test.existing), 0o644))
			}

			exp, err := export.NewFileExporter(export.FileExporterConfig{Dir: dir})
			require.NoError(t, err)

			path, err := exp.Export(context.Background(), test.artifact, test.filename)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, test.expFile), path)

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, test.artifact, string(got))

			// No temporary files are left behind.
			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1)
		})
	}
}

func TestFileExporterExportCancelledContext(t *testing.T) {
	dir := t.TempDir()
	exp, err := export.NewFileExporter(export.FileExporterConfig{Dir: dir})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = exp.Export(ctx, "<html></html>", "")
	assert.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriterExporterExport(t *testing.T) {
	var out bytes.Buffer
	exp := export.NewWriterExporter(&out)

	loc, err := exp.Export(context.Background(), "<html></html>", "ignored.html")
	require.NoError(t, err)
	assert.Equal(t, "-", loc)
	assert.Equal(t, "<html></html>", out.String())
}

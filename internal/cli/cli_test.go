package cli

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sheetlens/internal/cli/config"
)

const fixtureConnectionsXML = `<?xml version="1.0"?>
<connections>
  <connection id="1" name="Sales link">
    <dbPr connection="Provider=SQLOLEDB;Data Source=srv01;Initial Catalog=Sales"
          command="SELECT * FROM [dbo].[Orders]" commandType="2"/>
  </connection>
</connections>`

func writeFixtureWorkbook(t *testing.T, path string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("xl/connections.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(fixtureConnectionsXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()

	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScanCommand(t *testing.T) {
	root := t.TempDir()
	outDir := t.TempDir()
	writeFixtureWorkbook(t, filepath.Join(root, "q1.xlsx"))

	output, err := execute(t, "scan", root, "--out", outDir, "--format", "xlsx,json")
	require.NoError(t, err)
	assert.Contains(t, output, "Scanned 1 files")

	assert.FileExists(t, filepath.Join(outDir, "connections.xlsx"))
	assert.FileExists(t, filepath.Join(outDir, "summary.xlsx"))
	assert.FileExists(t, filepath.Join(outDir, "scan.json"))
	// No failures, so no error report.
	assert.NoFileExists(t, filepath.Join(outDir, "errors.csv"))
}

func TestScanCommand_NoSummary(t *testing.T) {
	root := t.TempDir()
	outDir := t.TempDir()
	writeFixtureWorkbook(t, filepath.Join(root, "q1.xlsx"))

	_, err := execute(t, "scan", root, "--out", outDir, "--no-summary")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(outDir, "connections.xlsx"))
	assert.NoFileExists(t, filepath.Join(outDir, "summary.xlsx"))
}

func TestScanCommand_UnknownFormat(t *testing.T) {
	_, err := execute(t, "scan", t.TempDir(), "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report format")
}

func TestScanThenHistory(t *testing.T) {
	root := t.TempDir()
	outDir := t.TempDir()
	statePath := filepath.Join(t.TempDir(), "history.db")
	writeFixtureWorkbook(t, filepath.Join(root, "q1.xlsx"))

	_, err := execute(t, "scan", root, "--out", outDir, "--state", statePath)
	require.NoError(t, err)

	output, err := execute(t, "history", "--state", statePath)
	require.NoError(t, err)
	assert.Contains(t, output, root)
	assert.Contains(t, output, "ID")
}

func TestHistoryCommand_NoStateConfigured(t *testing.T) {
	_, err := execute(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state")
}

func TestVersionCommand(t *testing.T) {
	output, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, output, "sheetlens v")
}

// File: cmd/cmd_test.go
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/screenfit/internal/report"
)

// executeCommandNoPreRun is for testing argument and flag validation without
// triggering the config loading in PersistentPreRunE.
func executeCommandNoPreRun(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Create a new root command for each test run to ensure isolation.
	testRootCmd := NewRootCommand()

	buf := new(bytes.Buffer)
	testRootCmd.PersistentPreRunE = nil // Disable config loading for simple validation tests.
	testRootCmd.SetOut(buf)
	testRootCmd.SetErr(buf)
	testRootCmd.SetArgs(args)
	err := testRootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// createTempConfig helper
func createTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "test-config-*.yaml")
	require.NoError(t, err)
	_, err = tmpfile.Write([]byte(content))
	require.NoError(t, err)
	tmpfile.Close()
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })
	return tmpfile.Name()
}

// quietConfig keeps test runs from writing log files or console noise.
const quietConfig = `
logger:
  level: error
  log_file: ""
`

func TestFitCmd_RequiredArgs(t *testing.T) {
	output, err := executeCommandNoPreRun(t, "fit")
	require.Error(t, err)
	assert.Contains(t, output, "Error: requires at least 1 arg(s), only received 0")
}

func TestKioskCmd_RequiredArgs(t *testing.T) {
	output, err := executeCommandNoPreRun(t, "kiosk")
	require.Error(t, err)
	assert.Contains(t, output, "Error: accepts 1 arg(s), received 0")
}

func TestConfigFlagOverride(t *testing.T) {
	// Create a fresh, isolated rootCmd for this test.
	testRootCmd, st := newRootCommand()

	configContent := quietConfig + `
engine:
  mode: fullscreen
fit:
  viewport_width: 800
  viewport_height: 600
`
	configFile := createTempConfig(t, configContent)

	// Find the fit command from our test rootCmd instance.
	var fitCmd *cobra.Command
	for _, c := range testRootCmd.Commands() {
		if c.Use == "fit [files...]" {
			fitCmd = c
			break
		}
	}
	require.NotNil(t, fitCmd)

	// Intercept the RunE function so no documents are actually fitted; the
	// override application is all this test exercises.
	originalRunE := fitCmd.RunE
	fitCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return applyFitOverrides(cmd, st.cfg)
	}
	defer func() { fitCmd.RunE = originalRunE }()

	testRootCmd.SetArgs([]string{
		"--config", configFile,
		"fit", "--viewport", "1280x720", "--mode", "proportional", "--concurrency", "2",
		"page.html",
	})
	err := testRootCmd.ExecuteContext(context.Background())
	require.NoError(t, err, "Command execution should not produce an error")

	cfg := st.cfg
	require.NotNil(t, cfg)

	// Flag values win over the file.
	assert.Equal(t, 1280.0, cfg.Fit().ViewportWidth)
	assert.Equal(t, 720.0, cfg.Fit().ViewportHeight)
	assert.Equal(t, "proportional", cfg.Engine().Mode)
	assert.Equal(t, 2, cfg.Fit().Concurrency)

	// Values without flags keep their configured defaults.
	assert.Equal(t, "#viewport", cfg.Engine().ViewportSelector)
	assert.Equal(t, "#content", cfg.Engine().ContentSelector)
}

func TestFitCmd_EndToEnd(t *testing.T) {
	tmpDir := t.TempDir()

	input := filepath.Join(tmpDir, "page.html")
	page := `<!DOCTYPE html><html><head></head><body>` +
		`<div id="viewport"><div id="content" style="width: 640px; height: 360px"><p>hello</p></div></div>` +
		`</body></html>`
	require.NoError(t, os.WriteFile(input, []byte(page), 0644))

	reportPath := filepath.Join(tmpDir, "report.json")
	configFile := createTempConfig(t, quietConfig)

	rootCmd := NewRootCommand()
	rootCmd.SetArgs([]string{
		"--config", configFile,
		"fit", "--viewport", "1280x720", "--report", reportPath,
		input,
	})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	// The fitted copy sits next to the input with the default suffix.
	out := filepath.Join(tmpDir, "page.fitted.html")
	fitted, err := os.ReadFile(out)
	require.NoError(t, err)

	// 1280x720 over a 640x360 design doubles the content exactly.
	assert.Contains(t, string(fitted), "scale(2, 2)")
	assert.Contains(t, string(fitted), "transform-origin: 0 0")

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var fitLog report.Log
	require.NoError(t, json.Unmarshal(data, &fitLog))
	assert.Equal(t, report.ToolName, fitLog.Tool)
	require.Len(t, fitLog.Records, 1)
	assert.Equal(t, input, fitLog.Records[0].File)
	assert.Equal(t, out, fitLog.Records[0].Output)
	assert.Empty(t, fitLog.Records[0].Error)
	assert.NotEmpty(t, fitLog.Records[0].EngineID)
}

func TestFitCmd_MissingFileIsReportedNotFatal(t *testing.T) {
	tmpDir := t.TempDir()

	input := filepath.Join(tmpDir, "exists.html")
	page := `<div id="viewport"><div id="content" style="width: 100px; height: 100px"></div></div>`
	require.NoError(t, os.WriteFile(input, []byte(page), 0644))

	missing := filepath.Join(tmpDir, "missing.html")
	configFile := createTempConfig(t, quietConfig)

	rootCmd := NewRootCommand()
	rootCmd.SetArgs([]string{"--config", configFile, "fit", missing, input})
	err := rootCmd.ExecuteContext(context.Background())

	// The batch finishes the good file and reports the bad one.
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 documents failed")
	_, statErr := os.Stat(filepath.Join(tmpDir, "exists.fitted.html"))
	assert.NoError(t, statErr)
}

func TestParseDimensions(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		width   float64
		height  float64
		wantErr bool
	}{
		{name: "standard", input: "1920x1080", width: 1920, height: 1080},
		{name: "uppercase separator", input: "1280X720", width: 1280, height: 720},
		{name: "padded", input: " 800x600 ", width: 800, height: 600},
		{name: "fractional", input: "1366.5x768.5", width: 1366.5, height: 768.5},
		{name: "missing separator", input: "1920", wantErr: true},
		{name: "non numeric", input: "widexhigh", wantErr: true},
		{name: "zero width", input: "0x600", wantErr: true},
		{name: "negative height", input: "800x-600", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, h, err := parseDimensions(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.width, w)
			assert.Equal(t, tc.height, h)
		})
	}
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "page.fitted.html", outputPath("page.html", ".fitted"))
	assert.Equal(t, "page.fitted.html", outputPath("page.html", ""))
	assert.Equal(t, "assets/index-out.htm", outputPath("assets/index.htm", "-out"))
	assert.Equal(t, "noext.fitted", outputPath("noext", ".fitted"))
}

func TestNormalizeTarget(t *testing.T) {
	got, err := normalizeTarget("https://example.com/board")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/board", got)

	got, err = normalizeTarget("example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got)

	tmp, err := os.CreateTemp(t.TempDir(), "page-*.html")
	require.NoError(t, err)
	tmp.Close()

	got, err = normalizeTarget(tmp.Name())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "file:///"), "local files should become file URLs, got %s", got)
	assert.True(t, strings.HasSuffix(got, filepath.Base(tmp.Name())))
}

package cli_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-contacts/internal/cli"
	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/xuri/excelize/v2"
)

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// execute runs the root command with args and returns stdout.
// Logs go to the captured stderr.
func execute(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	return stdout.String(), err
}

// run executes args with the log file redirected to a temporary cache dir.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	return execute(context.Background(), args...)
}

// writeContacts writes n contacts named "Contact 01".. with phones 101...
func writeContacts(t *testing.T, n int) string {
	t.Helper()
	var entries []string
	for i := 1; i <= n; i++ {
		entries = append(entries, fmt.Sprintf(`{"displayName":"Contact %02d","phoneNumber":%d}`, i, 100+i))
	}
	path := filepath.Join(t.TempDir(), "contacts.json")
	require.NoError(t, os.WriteFile(path, []byte("["+strings.Join(entries, ",")+"]"), config.FilePermUserRW))
	return path
}

func writeSettings(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), config.FilePermUserRW))
	return path
}

// -----------------------------------------------------------------------------
// Root
// -----------------------------------------------------------------------------

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := cli.NewRootCmd()

	for _, name := range []string{config.CmdGUI, config.CmdServe, config.CmdList, config.CmdExport} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	assert.NotNil(t, cmd.PersistentFlags().Lookup(config.FlagConfig))
	assert.NotNil(t, cmd.PersistentFlags().Lookup(config.FlagDebug))
}

func TestRootCmd_Version(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, config.AppName+" version "+config.Version)
}

func TestRootCmd_InvalidSettings(t *testing.T) {
	cfg := writeSettings(t, "page_size: 0\n")
	_, err := run(t, config.CmdList, "--"+config.FlagConfig, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrPageSizeRange)
}

func TestRootCmd_WritesLogFile(t *testing.T) {
	cache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cache)

	cmd := cli.NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{config.CmdList})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(cache, config.AppID, config.LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), config.MsgAppStarting)
}

func TestExecute_ExitCodes(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	path := writeContacts(t, 2)

	assert.Equal(t, config.ExitCodeSuccess, cli.Execute(context.Background(), []string{config.CmdList, path}))
	assert.Equal(t, config.ExitCodeError, cli.Execute(context.Background(), []string{config.CmdList, "--sort", "age", path}))
}

// -----------------------------------------------------------------------------
// List
// -----------------------------------------------------------------------------

func TestList_FirstPage(t *testing.T) {
	out, err := run(t, config.CmdList, writeContacts(t, 7))
	require.NoError(t, err)

	assert.Contains(t, out, "Votre liste des contacts contient 7 contacts")
	assert.NotContains(t, out, "contacts triés par")
	assert.Contains(t, out, "Contact 01")
	assert.Contains(t, out, "Contact 05")
	assert.NotContains(t, out, "Contact 06")
	assert.Contains(t, out, config.DefaultFallbackAvatar)
	assert.Contains(t, out, "page 1/2 (7 contacts)")
}

func TestList_SortAndPage(t *testing.T) {
	out, err := run(t, config.CmdList, "--sort", "phone:desc", "--page", "2", writeContacts(t, 7))
	require.NoError(t, err)

	assert.Contains(t, out, "contacts triés par: tel")
	assert.Contains(t, out, "Téléphone ▼")
	assert.Contains(t, out, "Contact 02")
	assert.Contains(t, out, "Contact 01")
	assert.NotContains(t, out, "Contact 03")
	assert.Contains(t, out, "page 2/2 (7 contacts)")
}

func TestList_PageIsClamped(t *testing.T) {
	out, err := run(t, config.CmdList, "--page", "99", writeContacts(t, 7))
	require.NoError(t, err)
	assert.Contains(t, out, "page 2/2 (7 contacts)")
}

func TestList_Query(t *testing.T) {
	out, err := run(t, config.CmdList, "--query", "contact 0", "--sort", "name", writeContacts(t, 12))
	require.NoError(t, err)

	assert.Contains(t, out, "Votre liste des contacts contient 12 contacts", "Heading counts the input")
	assert.Contains(t, out, "Nom ▲")
	assert.NotContains(t, out, "Contact 10")
	assert.Contains(t, out, "page 1/2 (9 contacts)")
}

func TestList_NoMatch(t *testing.T) {
	out, err := run(t, config.CmdList, "--query", "zzz", writeContacts(t, 3))
	require.NoError(t, err)

	assert.Contains(t, out, "Votre liste des contacts contient 3 contacts")
	assert.NotContains(t, out, "No contacts available.")
	assert.NotContains(t, out, "page ")
}

func TestList_Empty(t *testing.T) {
	out, err := run(t, config.CmdList)
	require.NoError(t, err)
	assert.Equal(t, "No contacts available.\n", out)
}

func TestList_SettingsPageSize(t *testing.T) {
	cfg := writeSettings(t, "page_size: 2\n")
	out, err := run(t, "--"+config.FlagConfig, cfg, config.CmdList, writeContacts(t, 7))
	require.NoError(t, err)
	assert.Contains(t, out, "page 1/4 (7 contacts)")
}

func TestList_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"Unknown sort key", []string{"--sort", "age"}, config.ErrSortKey},
		{"Unknown direction", []string{"--sort", "name:up"}, config.ErrSortDirection},
		{"Unknown file type", []string{"contacts.csv"}, config.ErrFormatUnknown},
		{"Missing file", []string{filepath.Join(t.TempDir(), "missing.json")}, config.ErrOpenContacts},
		{"Too many arguments", []string{"a.json", "b.json"}, "accepts at most 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append([]string{config.CmdList}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// -----------------------------------------------------------------------------
// Export
// -----------------------------------------------------------------------------

func TestExport_Spreadsheet(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out.xlsx")
	out, err := run(t, config.CmdExport, "--query", "Contact 1", "--sort", "phone:desc", "-o", output, writeContacts(t, 12))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(config.MsgExported, 3, output), out)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Contacts")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Numéro", "Avatar", "Nom", "Téléphone"}, rows[0])
	assert.Equal(t, "Contact 12", rows[1][2])
	assert.Equal(t, "Contact 10", rows[3][2])

	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.Equal(t, config.FilePermUserRW, info.Mode().Perm())
}

func TestExport_Document(t *testing.T) {
	dir := t.TempDir()
	avatar := filepath.Join(dir, "avatar.png")
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	require.NoError(t, os.WriteFile(avatar, img.Bytes(), config.FilePermUserRW))

	// Only the fallback avatar is overridden; the branding image is the default.
	cfg := writeSettings(t, fmt.Sprintf("fallback_avatar: %q\n", avatar))
	output := filepath.Join(dir, "out.pdf")

	out, err := run(t, "--"+config.FlagConfig, cfg, config.CmdExport, "--format", "PDF", "--output", output, writeContacts(t, 3))
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 3 contacts")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestExport_DefaultOutputName(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	input := writeContacts(t, 1)

	out, err := run(t, config.CmdExport, input)
	require.NoError(t, err)
	assert.Contains(t, out, config.DefaultSpreadsheetFile)
	assert.FileExists(t, config.DefaultSpreadsheetFile)
}

func TestExport_Failures(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.pdf")

	_, err := run(t, config.CmdExport, "--format", "csv", "-o", output, writeContacts(t, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrExportFormat)
	assert.NoFileExists(t, output)

	// Avatar reference that cannot be loaded: no partial document is left.
	cfg := writeSettings(t, fmt.Sprintf("fallback_avatar: %q\nbranding_image: \"\"\n", filepath.Join(dir, "missing.png")))
	_, err = run(t, "--"+config.FlagConfig, cfg, config.CmdExport, "--format", "pdf", "-o", output, writeContacts(t, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrAvatar)
	assert.NoFileExists(t, output)

	_, err = run(t, config.CmdExport, "-o", filepath.Join(dir, "nope", "out.xlsx"), writeContacts(t, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrCreateOutput)
}

func TestExport_FailureKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "contacts.pdf")
	require.NoError(t, os.WriteFile(output, []byte("previous export"), config.FilePermUserRW))

	cfg := writeSettings(t, fmt.Sprintf("fallback_avatar: %q\n", filepath.Join(dir, "missing.png")))
	_, err := run(t, "--"+config.FlagConfig, cfg, config.CmdExport, "--format", "pdf", "-o", output, writeContacts(t, 1))
	require.Error(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "previous export", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "Temporary file is removed")

	// A successful export replaces the file.
	_, err = run(t, config.CmdExport, "-o", output, writeContacts(t, 1))
	require.NoError(t, err)
	data, err = os.ReadFile(output)
	require.NoError(t, err)
	assert.NotEqual(t, "previous export", string(data))
}

// -----------------------------------------------------------------------------
// Serve
// -----------------------------------------------------------------------------

func TestServe_Lifecycle(t *testing.T) {
	port := "18098"
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	done := make(chan error, 1)
	input := writeContacts(t, 3)
	go func() {
		_, err := execute(ctx, config.CmdServe, "--port", port, input)
		done <- err
	}()

	url := "http://" + config.LocalhostBindAddr + ":" + port + "/?q=02"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(config.ShutdownTimeout + time.Second):
		t.Fatal("serve did not stop after cancellation")
	}
}

func TestServe_InvalidPort(t *testing.T) {
	_, err := run(t, config.CmdServe, "--port", "http")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrPortNumber)
}

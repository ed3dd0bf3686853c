package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activityapi/internal/server"
)

const testToken = "cli-test-token"

func newTestServer(t *testing.T) (*httptest.Server, *server.MemoryStore) {
	t.Helper()
	store := server.NewMemoryStore()
	srv := httptest.NewServer(server.NewHandler(server.Options{Store: store, AdminToken: testToken}))
	t.Cleanup(srv.Close)
	return srv, store
}

func run(t *testing.T, srv *httptest.Server, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--base-url", srv.URL, "--token", testToken}, args...)
	code := Execute(context.Background(), full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "activity-admin", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"info"}, {"smoke"},
		{"status", "list"}, {"status", "add"}, {"status", "update"}, {"status", "rm"}, {"status", "reorder"},
		{"logs", "list"}, {"logs", "add"},
	}

	for _, path := range commands {
		t.Run(path[len(path)-1], func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"base-url", "token", "timeout"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestBaseURLDefaultsFromEnv(t *testing.T) {
	t.Setenv("ACTIVITY_BASE_URL", "http://activity.internal:9000")
	cmd := NewRootCommand()
	assert.Equal(t, "http://activity.internal:9000", cmd.PersistentFlags().Lookup("base-url").DefValue)
}

func TestInvalidFormat(t *testing.T) {
	srv, _ := newTestServer(t)
	code, _, stderr := run(t, srv, "--format", "xml", "info")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "invalid format")
}

func TestYAMLFormatAccepted(t *testing.T) {
	srv, _ := newTestServer(t)
	code, stdout, stderr := run(t, srv, "--format", "yaml", "info")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "status: ok")
	assert.Contains(t, stdout, "service: activity-api")
}

func TestInfoText(t *testing.T) {
	srv, _ := newTestServer(t)
	code, stdout, _ := run(t, srv, "info")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "activity-api: ok")
	assert.Contains(t, stdout, "POST /status/reorder (admin)")
}

func TestStatusWorkflow(t *testing.T) {
	srv, store := newTestServer(t)

	code, _, stderr := run(t, srv, "status", "add", "--section", "building", "--title", "First")
	require.Equal(t, ExitSuccess, code, stderr)
	code, _, _ = run(t, srv, "status", "add", "--section", "building", "--title", "Second", "--position", "1")
	require.Equal(t, ExitSuccess, code)

	code, _, _ = run(t, srv, "status", "update", "1", "--description", "notes")
	require.Equal(t, ExitSuccess, code)
	item, active, ok := store.StatusRow(1)
	require.True(t, ok)
	assert.True(t, active)
	assert.Equal(t, "First", item.Title)
	assert.Equal(t, "notes", item.Description)

	code, _, _ = run(t, srv, "status", "reorder", "building", "2", "1")
	require.Equal(t, ExitSuccess, code)

	code, stdout, _ := run(t, srv, "status", "list")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "#2 [0] Second")
	assert.Contains(t, stdout, "#1 [1] First - notes")
	assert.Contains(t, stdout, "Learning:\n  (none)")

	code, _, _ = run(t, srv, "status", "rm", "2")
	require.Equal(t, ExitSuccess, code)
	_, active, _ = store.StatusRow(2)
	assert.False(t, active)
}

func TestStatusListJSON(t *testing.T) {
	srv, _ := newTestServer(t)
	code, stdout, _ := run(t, srv, "--format", "json", "status", "list")
	require.Equal(t, ExitSuccess, code)

	var resp struct {
		Status string                       `json:"status"`
		Data   map[string][]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Contains(t, resp.Data, "building")
	assert.Contains(t, resp.Data, "learning")
}

func TestServerRejectionExitsFailure(t *testing.T) {
	srv, _ := newTestServer(t)

	code, _, stderr := run(t, srv, "status", "add", "--section", "other", "--title", "x")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "Invalid section")

	code, stdout, _ := run(t, srv, "--format", "json", "status", "add", "--section", "building")
	assert.Equal(t, ExitFailure, code)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, 400, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "Missing fields")
}

func TestWrongTokenIsUnauthorized(t *testing.T) {
	srv, store := newTestServer(t)
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"--base-url", srv.URL, "--token", "nope", "logs", "add", "tech", "hi"}, &stdout, &stderr)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr.String(), "401 Unauthorized")
	assert.Zero(t, store.CallCount())
}

func TestBadIDIsCommandError(t *testing.T) {
	srv, _ := newTestServer(t)
	code, _, stderr := run(t, srv, "status", "rm", "abc")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, `invalid id "abc"`)
}

func TestLogsAddAndList(t *testing.T) {
	srv, _ := newTestServer(t)

	code, _, _ := run(t, srv, "logs", "add", "tech", "shipped", "reorder")
	require.Equal(t, ExitSuccess, code)
	code, _, _ = run(t, srv, "logs", "add", "life", "coffee")
	require.Equal(t, ExitSuccess, code)

	code, stdout, _ := run(t, srv, "logs", "list", "-n", "1")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "coffee")
	assert.NotContains(t, stdout, "shipped reorder")

	code, stdout, _ = run(t, srv, "logs", "list")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "shipped reorder")
}

func TestUnreachableServerIsCommandError(t *testing.T) {
	srv, _ := newTestServer(t)
	url := srv.URL
	srv.Close()

	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"--base-url", url, "info"}, &stdout, &stderr)
	assert.Equal(t, ExitCommandError, code)
}

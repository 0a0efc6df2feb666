package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/limerclaw/shared-types/internal/service/validate"
	"github.com/limerclaw/shared-types/internal/testutil"
)

const heartbeat = `{"run_id":"run-1","status":"running","progress_pct":50,"current_step":"lint"}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := testutil.TestLogger()
	return New(validate.New(logger, validate.Options{}), logger, "test")
}

func callTool(t *testing.T, handler func(context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error), name string, args map[string]any) *mcplib.CallToolResult {
	t.Helper()
	result, err := handler(context.Background(), mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	return result
}

func resultText(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	tc, ok := result.Content[0].(mcplib.TextContent)
	require.True(t, ok, "expected TextContent")
	return tc.Text
}

func TestNewRegistersCapabilities(t *testing.T) {
	srv := newTestServer(t)
	require.NotNil(t, srv.MCPServer())
}

func TestHandleValidate(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name    string
		args    map[string]any
		isError bool
		valid   bool
		path    string
	}{
		{"valid heartbeat", map[string]any{"shape": "run_heartbeat", "payload": heartbeat}, false, true, ""},
		{"yaml payload", map[string]any{"shape": "run_heartbeat", "payload": "run_id: r\nstatus: running\nprogress_pct: 5\n"}, false, true, ""},
		{"field violation", map[string]any{"shape": "run_heartbeat", "payload": `{"run_id":"r","status":"running","progress_pct":101}`}, false, false, "progress_pct"},
		{"unknown shape", map[string]any{"shape": "horoscope", "payload": heartbeat}, true, false, ""},
		{"missing payload", map[string]any{"shape": "run_heartbeat"}, true, false, ""},
		{"missing shape", map[string]any{"payload": heartbeat}, true, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, srv.handleValidate, "limerclaw_validate", tt.args)
			assert.Equal(t, tt.isError, result.IsError)
			if tt.isError {
				return
			}
			var res validate.Result
			require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &res))
			assert.Equal(t, "mcp", res.Source)
			assert.Equal(t, tt.valid, res.Valid)
			if tt.path != "" {
				require.NotNil(t, res.Path)
				assert.Equal(t, tt.path, *res.Path)
				assert.NotEmpty(t, res.Reason)
			}
		})
	}
}

func TestHandleValidateMalformedPayload(t *testing.T) {
	srv := newTestServer(t)
	result := callTool(t, srv.handleValidate, "limerclaw_validate", map[string]any{
		"shape": "run_heartbeat", "payload": "{not: [valid",
	})
	assert.False(t, result.IsError, "malformed input is reported, not a tool failure")

	var res validate.Result
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &res))
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Error)
	assert.Nil(t, res.Path)
}

func TestHandleListShapes(t *testing.T) {
	srv := newTestServer(t)

	result := callTool(t, srv.handleListShapes, "limerclaw_list_shapes", map[string]any{})
	require.False(t, result.IsError)
	var all shapeListing
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &all))
	assert.Equal(t, len(validate.Shapes()), all.Total)
	assert.Len(t, all.Shapes, all.Total)

	result = callTool(t, srv.handleListShapes, "limerclaw_list_shapes", map[string]any{"group": validate.GroupRelay})
	require.False(t, result.IsError)
	var relay shapeListing
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &relay))
	require.NotZero(t, relay.Total)
	for _, s := range relay.Shapes {
		assert.Equal(t, validate.GroupRelay, s.Group)
	}
	assert.Less(t, relay.Total, all.Total)

	result = callTool(t, srv.handleListShapes, "limerclaw_list_shapes", map[string]any{"group": "astrology"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "unknown group")
}

func TestHandleCheckAutonomy(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name      string
		level     string
		category  string
		isError   bool
		permitted bool
		required  string
	}{
		{"L3 commits", "L3", "commit", false, true, "L3"},
		{"L1 cannot suggest", "L1", "suggest", false, false, "L2"},
		{"L4 approves", "L4", "approve", false, true, "L4"},
		{"unknown level", "L7", "observe", true, false, ""},
		{"unknown category", "L2", "deploy", true, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, srv.handleCheckAutonomy, "limerclaw_check_autonomy", map[string]any{
				"level": tt.level, "category": tt.category,
			})
			require.Equal(t, tt.isError, result.IsError)
			if tt.isError {
				return
			}
			var v autonomyVerdict
			require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &v))
			assert.Equal(t, tt.permitted, v.Permitted)
			assert.Equal(t, tt.required, string(v.RequiredLevel))
		})
	}
}

func TestErrorResult(t *testing.T) {
	result := errorResult("boom")
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	tc, ok := result.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	assert.Equal(t, "boom", tc.Text)
	assert.Equal(t, "text", tc.Type)
}

package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

func getPrompt(args map[string]string) mcplib.GetPromptRequest {
	var req mcplib.GetPromptRequest
	req.Params.Arguments = args
	return req
}

func promptText(t *testing.T, result *mcplib.GetPromptResult) string {
	t.Helper()
	require.Len(t, result.Messages, 1)
	assert.Equal(t, mcplib.RoleUser, result.Messages[0].Role)
	tc, ok := result.Messages[0].Content.(mcplib.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestContractCheckPrompt(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	result, err := srv.handleContractCheckPrompt(ctx, getPrompt(map[string]string{"shape": "envelope"}))
	require.NoError(t, err)
	text := promptText(t, result)
	assert.Contains(t, text, `shape="envelope"`)
	assert.Contains(t, text, "limerclaw://enums")

	_, err = srv.handleContractCheckPrompt(ctx, getPrompt(map[string]string{}))
	require.Error(t, err)
	_, err = srv.handleContractCheckPrompt(ctx, getPrompt(map[string]string{"shape": "horoscope"}))
	require.Error(t, err)
}

func TestFixViolationPrompt(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	result, err := srv.handleFixViolationPrompt(ctx, getPrompt(map[string]string{
		"shape": "run_request", "path": "pr_number", "reason": "must be a non-negative integer",
	}))
	require.NoError(t, err)
	text := promptText(t, result)
	assert.Contains(t, text, `"pr_number"`)
	assert.Contains(t, text, "must be a non-negative integer")

	result, err = srv.handleFixViolationPrompt(ctx, getPrompt(map[string]string{
		"shape": "envelope", "reason": "must be an object",
	}))
	require.NoError(t, err)
	assert.Contains(t, promptText(t, result), "the document root")

	_, err = srv.handleFixViolationPrompt(ctx, getPrompt(map[string]string{"shape": "envelope"}))
	require.Error(t, err)
}

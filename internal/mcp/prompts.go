package mcp

import (
	"context"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/limerclaw/shared-types/internal/service/validate"
)

func (s *Server) registerPrompts() {
	// contract-check: validate before sending.
	s.mcpServer.AddPrompt(
		mcplib.NewPrompt("contract-check",
			mcplib.WithPromptDescription("Validate a payload against its contract before sending it"),
			mcplib.WithArgument("shape",
				mcplib.ArgumentDescription("The shape the payload must satisfy (e.g., envelope, run_request, agent_config)"),
				mcplib.RequiredArgument(),
			),
		),
		s.handleContractCheckPrompt,
	)

	// fix-violation: turn a failed report into a targeted edit.
	s.mcpServer.AddPrompt(
		mcplib.NewPrompt("fix-violation",
			mcplib.WithPromptDescription("Repair a payload that failed limerclaw_validate"),
			mcplib.WithArgument("shape",
				mcplib.ArgumentDescription("The shape that was checked"),
				mcplib.RequiredArgument(),
			),
			mcplib.WithArgument("path",
				mcplib.ArgumentDescription("The path from the failed report; empty means the document root"),
			),
			mcplib.WithArgument("reason",
				mcplib.ArgumentDescription("The reason from the failed report"),
				mcplib.RequiredArgument(),
			),
		),
		s.handleFixViolationPrompt,
	)
}

func (s *Server) handleContractCheckPrompt(_ context.Context, request mcplib.GetPromptRequest) (*mcplib.GetPromptResult, error) {
	shape := request.Params.Arguments["shape"]
	if shape == "" {
		return nil, fmt.Errorf("shape argument is required")
	}
	if _, ok := validate.Lookup(shape); !ok {
		return nil, fmt.Errorf("unknown shape %q", shape)
	}

	return &mcplib.GetPromptResult{
		Description: fmt.Sprintf("Check a %s payload before sending it", shape),
		Messages: []mcplib.PromptMessage{
			{
				Role: mcplib.RoleUser,
				Content: mcplib.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Before you send this %[1]s payload, follow these steps:

1. READ limerclaw://enums for the allowed values of every enumerated field,
   and limerclaw://constants for protocol limits such as max_envelope_bytes.

2. CALL limerclaw_validate with shape="%[1]s" and the exact payload text.

3. If valid is false, fix the field named by path (an empty path means the
   whole document) and validate again. Do not send until valid is true.

Timestamps are RFC 3339 strings. Fields that may be null must still be present.`, shape),
				},
			},
		},
	}, nil
}

func (s *Server) handleFixViolationPrompt(_ context.Context, request mcplib.GetPromptRequest) (*mcplib.GetPromptResult, error) {
	shape := request.Params.Arguments["shape"]
	path := request.Params.Arguments["path"]
	reason := request.Params.Arguments["reason"]
	if shape == "" || reason == "" {
		return nil, fmt.Errorf("shape and reason arguments are required")
	}

	where := fmt.Sprintf("the field at %q", path)
	if path == "" {
		where = "the document root"
	}
	return &mcplib.GetPromptResult{
		Description: fmt.Sprintf("Repair a %s payload", shape),
		Messages: []mcplib.PromptMessage{
			{
				Role: mcplib.RoleUser,
				Content: mcplib.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`The %s payload was rejected at %s: %s.

Change only that field, keeping every other field as it was. Then call
limerclaw_validate with shape=%q again. The report names only the first
violation, so repeat until valid is true.`, shape, where, reason, shape),
				},
			},
		},
	}, nil
}

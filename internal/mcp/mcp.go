// Package mcp serves the LimerClaw contracts over the Model Context Protocol.
//
// Agents call limerclaw_validate to check a payload before sending it over
// the relay or the control-plane API, and read the constants and enum
// resources instead of hard-coding protocol values.
package mcp

import (
	"encoding/json"
	"fmt"
	"log/slog"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/limerclaw/shared-types/internal/service/validate"
)

// Server wraps the MCP server with the validation service.
type Server struct {
	mcpServer *mcpserver.MCPServer
	svc       *validate.Service
	logger    *slog.Logger
}

// New creates and configures a new MCP server with all resources, tools and
// prompts registered.
func New(svc *validate.Service, logger *slog.Logger, version string) *Server {
	s := &Server{
		svc:    svc,
		logger: logger,
	}

	s.mcpServer = mcpserver.NewMCPServer(
		"limerclaw-contracts",
		version,
		mcpserver.WithResourceCapabilities(true, true),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithPromptCapabilities(true),
	)

	s.registerResources()
	s.registerTools()
	s.registerPrompts()

	return s
}

// MCPServer returns the underlying mcp-go server for transport setup.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

func (s *Server) registerResources() {
	// limerclaw://constants: protocol limits and lookup tables.
	s.mcpServer.AddResource(
		mcplib.NewResource(
			constantsURI,
			"Protocol Constants",
			mcplib.WithResourceDescription("Relay limits, autonomy table, conclusion mapping, benchmarks and persisted tables"),
			mcplib.WithMIMEType("application/json"),
		),
		s.handleConstants,
	)

	// limerclaw://enums: every closed string set by name.
	s.mcpServer.AddResource(
		mcplib.NewResource(
			enumsURI,
			"Enumerations",
			mcplib.WithResourceDescription("Allowed values of every enumerated field, keyed by enum name"),
			mcplib.WithMIMEType("application/json"),
		),
		s.handleEnums,
	)

	// limerclaw://shapes/{group}: shape names in one group.
	s.mcpServer.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			shapesURIPrefix+"{group}",
			"Shapes By Group",
			mcplib.WithTemplateDescription("Contract shapes in one group, such as relay, api or db"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		s.handleShapeGroup,
	)
}

func (s *Server) registerTools() {
	// limerclaw_validate: check a payload against a named shape.
	s.mcpServer.AddTool(
		mcplib.NewTool("limerclaw_validate",
			mcplib.WithDescription("Validate a JSON or YAML payload against a LimerClaw contract shape. "+
				"Returns valid, and on failure the path of the first offending field and the reason."),
			mcplib.WithString("shape", mcplib.Description("Shape name, e.g. envelope, run_request, agent_config"), mcplib.Required()),
			mcplib.WithString("payload", mcplib.Description("The document to check, as JSON or YAML text"), mcplib.Required()),
		),
		s.handleValidate,
	)

	// limerclaw_list_shapes: discover shape names.
	s.mcpServer.AddTool(
		mcplib.NewTool("limerclaw_list_shapes",
			mcplib.WithDescription("List the contract shapes limerclaw_validate accepts, optionally limited to one group"),
			mcplib.WithString("group", mcplib.Description("Only list shapes in this group")),
		),
		s.handleListShapes,
	)

	// limerclaw_check_autonomy: may this level take this action?
	s.mcpServer.AddTool(
		mcplib.NewTool("limerclaw_check_autonomy",
			mcplib.WithDescription("Report whether an autonomy level permits an action category and which level the action requires"),
			mcplib.WithString("level", mcplib.Description("Autonomy level L0 through L4"), mcplib.Required()),
			mcplib.WithString("category", mcplib.Description("Action category: observe, comment, suggest, commit or approve"), mcplib.Required()),
		),
		s.handleCheckAutonomy,
	)
}

func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcp: marshal result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: string(data)},
		},
	}, nil
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}

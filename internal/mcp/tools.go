package mcp

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/limerclaw/shared-types/contracts"
	"github.com/limerclaw/shared-types/internal/service/validate"
)

func (s *Server) handleValidate(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	shape := request.GetString("shape", "")
	payload := request.GetString("payload", "")
	if shape == "" || payload == "" {
		return errorResult("shape and payload are required"), nil
	}

	res, err := s.svc.Validate(ctx, shape, validate.Input{Source: "mcp", Data: []byte(payload)})
	if errors.Is(err, validate.ErrUnknownShape) {
		return errorResult(fmt.Sprintf("unknown shape %q; call limerclaw_list_shapes for the accepted names", shape)), nil
	}
	if err != nil {
		return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
	}
	return jsonResult(res)
}

type shapeListing struct {
	Total  int              `json:"total"`
	Shapes []validate.Shape `json:"shapes"`
}

func (s *Server) handleListShapes(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	group := request.GetString("group", "")
	shapes := validate.Shapes()
	if group != "" {
		if !slices.Contains(validate.Groups(), group) {
			return errorResult(fmt.Sprintf("unknown group %q; groups are %s", group, strings.Join(validate.Groups(), ", "))), nil
		}
		shapes = validate.InGroup(group)
	}
	return jsonResult(shapeListing{Total: len(shapes), Shapes: shapes})
}

type autonomyVerdict struct {
	Level         contracts.AutonomyLevel  `json:"level"`
	Category      contracts.ActionCategory `json:"category"`
	RequiredLevel contracts.AutonomyLevel  `json:"required_level"`
	Permitted     bool                     `json:"permitted"`
}

func (s *Server) handleCheckAutonomy(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	level := contracts.AutonomyLevel(request.GetString("level", ""))
	category := contracts.ActionCategory(request.GetString("category", ""))
	if !level.Valid() {
		return errorResult(fmt.Sprintf("unknown autonomy level %q", level)), nil
	}
	required, ok := contracts.RequiredLevel(category)
	if !ok {
		return errorResult(fmt.Sprintf("unknown action category %q", category)), nil
	}
	return jsonResult(autonomyVerdict{
		Level:         level,
		Category:      category,
		RequiredLevel: required,
		Permitted:     contracts.Permits(level, category),
	})
}

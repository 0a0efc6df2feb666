package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/limerclaw/shared-types/contracts"
	"github.com/limerclaw/shared-types/internal/service/validate"
)

const (
	constantsURI    = "limerclaw://constants"
	enumsURI        = "limerclaw://enums"
	shapesURIPrefix = "limerclaw://shapes/"
)

func (s *Server) handleConstants(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	return jsonResource(request.Params.URI, contracts.NewCatalog())
}

func (s *Server) handleEnums(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	return jsonResource(request.Params.URI, contracts.EnumSets())
}

func (s *Server) handleShapeGroup(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	uri := request.Params.URI
	group, err := parseShapeGroupURI(uri)
	if err != nil {
		return nil, err
	}
	shapes := validate.InGroup(group)
	names := make([]string, len(shapes))
	for i, sh := range shapes {
		names[i] = sh.Name
	}
	return jsonResource(uri, map[string]any{
		"group":  group,
		"shapes": names,
	})
}

// parseShapeGroupURI extracts the group from "limerclaw://shapes/{group}".
// The group must be one the registry knows.
func parseShapeGroupURI(uri string) (string, error) {
	group, ok := strings.CutPrefix(uri, shapesURIPrefix)
	if !ok {
		return "", fmt.Errorf("invalid shape group URI: %s", uri)
	}
	if group == "" {
		return "", fmt.Errorf("invalid shape group URI: empty group")
	}
	if strings.Contains(group, "/") {
		return "", fmt.Errorf("invalid shape group URI: %s", uri)
	}
	if !slices.Contains(validate.Groups(), group) {
		return "", fmt.Errorf("unknown shape group %q", group)
	}
	return group, nil
}

func jsonResource(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcp: marshal %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

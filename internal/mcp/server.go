package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jcdickinson/doxyschema/internal/markdown"
	"github.com/jcdickinson/doxyschema/internal/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

//go:embed instructions.md
var instructions string

// SchemaSource provides the resolved schema, building it on first use.
type SchemaSource interface {
	Schema(ctx context.Context) (*schema.Schema, error)
}

type Server struct {
	mcpServer *server.MCPServer
	source    SchemaSource
}

func NewServer(source SchemaSource, version string) *Server {
	s := &Server{source: source}

	mcpServer := server.NewMCPServer(
		"doxyschema",
		version,
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("list_classes",
			mcp.WithDescription("List the API classes documented in the doxygen output, excluding generator artifacts."),
			mcp.WithBoolean("traits_only",
				mcp.Description("Only list abstract base classes (default false)"),
			),
		),
		s.handleListClasses,
	)

	mcpServer.AddTool(
		mcp.NewTool("describe_class",
			mcp.WithDescription("Return the resolved metadata of one class as JSON: description, abstract-base flag, parent, subclasses and fields with binding types. Class names are case-insensitive."),
			mcp.WithString("name",
				mcp.Description("Class name (e.g., \"userStatus\")"),
				mcp.Required(),
			),
		),
		s.handleDescribeClass,
	)
}

func (s *Server) registerResources(mcpServer *server.MCPServer) {
	mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			markdown.URIPrefix+"{name}",
			"API class reference",
			mcp.WithTemplateDescription("Markdown reference for one class. Links in the text point to further class resources."),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		s.handleReadResource,
	)
}

func (s *Server) handleListClasses(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sch, err := s.source.Schema(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading schema: %v", err)), nil
	}

	traitsOnly, _ := req.GetArguments()["traits_only"].(bool)

	names := []string{}
	for _, name := range sch.KnownClassNames() {
		if traitsOnly && !sch.IsTrait(name) {
			continue
		}
		names = append(names, name)
	}

	resultJSON, _ := json.MarshalIndent(names, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleDescribeClass(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, _ := req.GetArguments()["name"].(string)
	if name == "" {
		return mcp.NewToolResultError("missing required parameter: name"), nil
	}

	sch, err := s.source.Schema(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading schema: %v", err)), nil
	}

	info, err := sch.Class(name)
	if errors.Is(err, schema.ErrUnknownClass) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown class: %s", name)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resultJSON, _ := json.MarshalIndent(info, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	name := strings.TrimPrefix(uri, markdown.URIPrefix)
	if name == "" || name == uri {
		return nil, fmt.Errorf("invalid resource URI: %s", uri)
	}

	sch, err := s.source.Schema(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	text, err := markdown.RenderClass(sch, name)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     text,
		},
	}, nil
}

func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

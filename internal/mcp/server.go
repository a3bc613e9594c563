package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Matidigital/Contapyme-sub001/internal/config"
	"github.com/Matidigital/Contapyme-sub001/internal/descriptions"
	"github.com/Matidigital/Contapyme-sub001/internal/f29"
	"github.com/Matidigital/Contapyme-sub001/internal/pdf"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	formatOption := mcp.WithString("format",
		mcp.Description("Output format: 'text' (default) or 'json'"),
	)

	extractFileTool := mcp.NewTool(
		"f29_extract_file",
		mcp.WithDescription(descriptions.GetToolDescription("f29_extract_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the F29 PDF, absolute or relative to the configured directory"),
		),
		formatOption,
	)
	s.mcpServer.AddTool(extractFileTool, s.handleExtractFile)

	extractTextTool := mcp.NewTool(
		"f29_extract_text",
		mcp.WithDescription(descriptions.GetToolDescription("f29_extract_text")),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Declaration text, one row per line"),
		),
		formatOption,
	)
	s.mcpServer.AddTool(extractTextTool, s.handleExtractText)

	validateFileTool := mcp.NewTool(
		"f29_validate_file",
		mcp.WithDescription(descriptions.GetToolDescription("f29_validate_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateFileTool, s.handleValidateFile)

	catalogTool := mcp.NewTool(
		"f29_field_catalog",
		mcp.WithDescription(descriptions.GetToolDescription("f29_field_catalog")),
	)
	s.mcpServer.AddTool(catalogTool, s.handleFieldCatalog)

	serverInfoTool := mcp.NewTool(
		"f29_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("f29_server_info")),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

func (s *Server) handleExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	format, err := outputFormat(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ExtractFile(ctx, pdf.ExtractFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(describeFailure(err)), nil
	}

	return s.renderExtractResult(result, format)
}

func (s *Server) handleExtractText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	format, err := outputFormat(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ExtractText(ctx, pdf.ExtractTextRequest{Text: text})
	if err != nil {
		return mcp.NewToolResultError(describeFailure(err)), nil
	}

	return s.renderExtractResult(result, format)
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ValidateFile(pdf.ValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable", result.Path)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFieldCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatCatalogResult(s.pdfService.Catalog())), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.ServerInfo(pdf.ServerInfoRequest{}, s.config.ServerName, s.config.Version)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatServerInfoResult(result)), nil
}

// outputFormat reads the optional format argument
func outputFormat(request mcp.CallToolRequest) (string, error) {
	args := request.GetArguments()
	format, _ := args["format"].(string)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", formatText:
		return formatText, nil
	case formatJSON:
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q (use 'text' or 'json')", format)
	}
}

// describeFailure adds guidance when the engine found nothing at all
func describeFailure(err error) string {
	if errors.Is(err, f29.ErrNoExtraction) {
		return err.Error() + "\nNo F29 field could be recovered. Check that the document is a Formulario 29 " +
			"and not a scanned image; f29_validate_file can confirm the PDF is readable."
	}
	return err.Error()
}

func (s *Server) renderExtractResult(result *pdf.ExtractResult, format string) (*mcp.CallToolResult, error) {
	if format == formatJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
	return mcp.NewToolResultText(s.formatExtractResult(result)), nil
}

// Formatting methods

func (s *Server) formatExtractResult(result *pdf.ExtractResult) string {
	report := result.Report

	text := "F29 Extraction Report\n"
	if result.Path != "" {
		text += fmt.Sprintf("File: %s\n", result.Path)
		text += fmt.Sprintf("Pages: %d, Size: %d bytes, Form fields: %d\n", result.Pages, result.Size, result.FormFields)
	}
	text += fmt.Sprintf("Run ID: %s\n", report.RunID)
	if result.Cached {
		text += "Served from cache (same content extracted earlier)\n"
	}
	text += fmt.Sprintf("Text length: %d characters\n", result.TextLength)
	text += fmt.Sprintf("Fields recovered: %d\n", len(report.Fields))

	text += "\nFields:\n"
	for _, spec := range s.pdfService.Catalog().Fields {
		field, ok := report.Fields[spec.ID]
		if !ok {
			continue
		}
		label := spec.Description
		if spec.Code != "" {
			label = fmt.Sprintf("[%s] %s", spec.Code, spec.Description)
		}
		text += fmt.Sprintf("  %-16s %s = %s (%s)\n", spec.ID, label, formatValue(spec, field.Value), field.Strategy)
	}

	if len(report.Warnings) > 0 {
		text += fmt.Sprintf("\n⚠️  Consistency warnings (%d):\n", len(report.Warnings))
		for _, w := range report.Warnings {
			text += fmt.Sprintf("  • %s: %s = %s, expected %s from %s (difference %s)\n",
				w.Rule, w.Field, f29.FormatAmount(w.Observed), f29.FormatAmount(w.Expected),
				strings.Join(w.Against, ", "), f29.FormatAmount(w.Difference))
		}
	}

	if len(report.CandidateCounts) > 0 {
		names := make([]string, 0, len(report.CandidateCounts))
		for name := range report.CandidateCounts {
			names = append(names, name)
		}
		sort.Strings(names)

		text += "\nCandidates per strategy:\n"
		for _, name := range names {
			text += fmt.Sprintf("  %s: %d\n", name, report.CandidateCounts[name])
		}
	}

	return text
}

// formatValue renders a value the way it appears on the form
func formatValue(spec f29.FieldSpec, v f29.Value) string {
	if spec.Kind == f29.KindAmount && !v.IsText() {
		return "$" + f29.FormatAmount(v.Amount)
	}
	return v.String()
}

func (s *Server) formatCatalogResult(result *pdf.CatalogResult) string {
	text := fmt.Sprintf("F29 field catalog (%d fields)\n\n", len(result.Fields))
	for _, spec := range result.Fields {
		code := spec.Code
		if code == "" {
			code = "---"
		}
		text += fmt.Sprintf("%s  %-16s %-6s %s\n", code, spec.ID, spec.Kind, spec.Description)
	}
	return text
}

func (s *Server) formatServerInfoResult(result *pdf.ServerInfoResult) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("📁 Default Directory: %s\n", result.DefaultDirectory)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", result.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("🧾 Catalog: %d fields\n", result.FieldCount)
	text += fmt.Sprintf("🗂️  Cached reports: %d (%d hits)\n\n", result.CachedReports, result.CacheHits)

	if len(result.DirectoryContents) > 0 {
		text += fmt.Sprintf("📂 Directory Contents (%d PDF files found):\n", len(result.DirectoryContents))
		for i, file := range result.DirectoryContents {
			if i >= 10 {
				text += fmt.Sprintf("   ... and %d more files\n", len(result.DirectoryContents)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "📂 Directory Contents: No PDF files found in default directory\n\n"
	}

	text += "🛠️  Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Description: %s\n", tool.Description)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	text += "\n" + result.UsageGuidance
	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting F29 MCP server in stdio mode")
		log.Printf("Declaration directory: %s", s.config.DocumentDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}

	return nil
}

// runServerMode serves the MCP tools over SSE on the configured address
func (s *Server) runServerMode(ctx context.Context) error {
	httpServer := server.NewSSEServer(s.mcpServer)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting F29 MCP server on %s", s.config.Address())
		errCh <- httpServer.Start(s.config.Address())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
		if err := httpServer.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
		return nil
	}
}

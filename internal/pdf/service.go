package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Matidigital/Contapyme-sub001/internal/descriptions"
	"github.com/Matidigital/Contapyme-sub001/internal/f29"
)

// maxListedFiles limits the directory listing in server info
const maxListedFiles = 100

// Service handles declaration extraction by orchestrating the reader, the
// validators and the extraction engine
type Service struct {
	maxFileSize   int64
	reader        *Reader
	validator     *Validator
	pathValidator *PathValidator
	engine        *f29.Engine
	cache         *reportCache
}

// NewService creates a new service with all components
func NewService(maxFileSize int64, configuredDirectory string, engine *f29.Engine) (*Service, error) {
	if maxFileSize <= 0 {
		return nil, fmt.Errorf("maxFileSize must be greater than 0")
	}
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}

	pathValidator, err := NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return &Service{
		maxFileSize:   maxFileSize,
		reader:        NewReader(maxFileSize, NewFormExtractor(engine.Catalog())),
		validator:     NewValidator(maxFileSize),
		pathValidator: pathValidator,
		engine:        engine,
		cache:         newReportCache(defaultReportCacheSize),
	}, nil
}

// ExtractFile loads a declaration file and extracts its fields
func (s *Service) ExtractFile(ctx context.Context, req ExtractFileRequest) (*ExtractResult, error) {
	path, err := s.pathValidator.ResolvePath(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	data, err := s.reader.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// the same declaration under another name is served from cache
	key := contentKey(data)
	if cached, ok := s.cache.get(key); ok {
		result := *cached
		result.Path = path
		result.Cached = true
		return &result, nil
	}

	doc, err := s.reader.LoadBytes(data)
	if err != nil {
		return nil, err
	}

	report, err := s.engine.Extract(ctx, doc.Input())
	if err != nil {
		return nil, fmt.Errorf("extraction failed for %s: %w", path, err)
	}

	result := &ExtractResult{
		Path:       path,
		Pages:      doc.Pages,
		Size:       doc.Size,
		FormFields: len(doc.FormFields),
		TextLength: len(doc.Text),
		Report:     report,
	}
	s.cache.put(key, result)

	out := *result
	return &out, nil
}

// ExtractText extracts fields from text produced elsewhere
func (s *Service) ExtractText(ctx context.Context, req ExtractTextRequest) (*ExtractResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	report, err := s.engine.Extract(ctx, f29.Document{Text: req.Text})
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	return &ExtractResult{
		TextLength: len(req.Text),
		Report:     report,
	}, nil
}

// ValidateFile performs validation on a declaration file
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.validator.ValidateFile(req)
}

// Catalog returns every field the engine recovers
func (s *Service) Catalog() *CatalogResult {
	return &CatalogResult{Fields: s.engine.Catalog().Fields()}
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// ServerInfo returns server information and usage guidance
func (s *Service) ServerInfo(req ServerInfoRequest, serverName, version string) (*ServerInfoResult, error) {
	directory := s.pathValidator.ConfiguredDirectory()

	availableTools := []ToolInfo{
		{
			Name:        "f29_extract_file",
			Description: descriptions.GetToolDescription("f29_extract_file"),
			Usage: "Use this tool on a Formulario 29 PDF. Returns every recovered field with the " +
				"strategy that produced it, plus consistency warnings.",
			Parameters: "path (required): Path to the PDF file, absolute or relative to the default directory",
		},
		{
			Name:        "f29_extract_text",
			Description: descriptions.GetToolDescription("f29_extract_text"),
			Usage:       "Use this tool when the declaration text was already extracted by another tool or OCR.",
			Parameters:  "text (required): The declaration text",
		},
		{
			Name:        "f29_validate_file",
			Description: descriptions.GetToolDescription("f29_validate_file"),
			Usage:       "Use this tool to check a file before extracting it.",
			Parameters:  "path (required): Path to the PDF file",
		},
		{
			Name:        "f29_field_catalog",
			Description: descriptions.GetToolDescription("f29_field_catalog"),
			Usage:       "Use this tool to learn what each code (e.g. 538, 089) means.",
			Parameters:  "none",
		},
		{
			Name:        "f29_server_info",
			Description: descriptions.GetToolDescription("f29_server_info"),
			Usage:       "Use this tool first to discover the default directory and available files.",
			Parameters:  "none",
		},
	}

	usageGuidance := `F29 MCP Server Usage Guide:

1. DISCOVER:
   - Use 'f29_server_info' to see the default directory and the PDF files in it
   - Use 'f29_field_catalog' to see which codes are recovered

2. VALIDATE:
   - Use 'f29_validate_file' to check a file before processing

3. EXTRACT:
   - Use 'f29_extract_file' with the path of a Formulario 29 PDF
   - Use 'f29_extract_text' when you only have the text of the declaration
   - Each field reports the strategy that produced it:
     * "basic-info": header fields (RUT, period, folio, name, total payable)
     * "label-pattern" / "table-row": codes read from the text layer
     * "visual-table": codes read from a rendered Código/Glosa/Valor table
     * "binary": codes recovered from the raw bytes when the text layer is unusable
     * "derived": IVA determinado computed from total debits minus total credits

IMPORTANT NOTES:
- Missing fields are normal for partial documents; only a document yielding nothing is an error
- Warnings flag totals that disagree with their components; values are never corrected
- The server can handle files up to ` + fmt.Sprintf("%d", s.maxFileSize/(1024*1024)) + `MB`

	hits, _ := s.cache.stats()

	return &ServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  directory,
		MaxFileSize:       s.maxFileSize,
		FieldCount:        len(s.engine.Catalog().Fields()),
		CachedReports:     s.cache.len(),
		CacheHits:         hits,
		AvailableTools:    availableTools,
		DirectoryContents: listPDFs(directory, maxListedFiles),
		UsageGuidance:     usageGuidance,
	}, nil
}

// listPDFs returns up to limit PDF files directly inside directory, in name
// order. Errors yield an empty list.
func listPDFs(directory string, limit int) []FileInfo {
	files := []FileInfo{}

	entries, err := os.ReadDir(directory)
	if err != nil {
		return files
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:         filepath.Join(directory, entry.Name()),
			Name:         entry.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		if len(files) >= limit {
			break
		}
	}

	return files
}

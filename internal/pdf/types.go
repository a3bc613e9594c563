package pdf

import "github.com/Matidigital/Contapyme-sub001/internal/f29"

// FileInfo represents information about a declaration file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Document is a loaded declaration: its text view plus the raw bytes kept
// for byte-level strategies
type Document struct {
	Path       string      `json:"path,omitempty"`
	Text       string      `json:"-"`
	Raw        []byte      `json:"-"`
	Pages      int         `json:"pages"`
	Size       int64       `json:"size"`
	FormFields []FormField `json:"form_fields,omitempty"`
	// TextError records why no text view could be built; the raw bytes are still usable
	TextError string `json:"text_error,omitempty"`
}

// Input converts the document into engine input
func (d *Document) Input() f29.Document {
	return f29.Document{Text: d.Text, Raw: d.Raw}
}

// Request Types

// ExtractFileRequest represents a request to extract F29 fields from a file
type ExtractFileRequest struct {
	Path string `json:"path"`
}

// ExtractTextRequest represents a request to extract F29 fields from already extracted text
type ExtractTextRequest struct {
	Text string `json:"text"`
}

// ValidateFileRequest represents a request to validate a declaration file
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// ServerInfoRequest represents a request for server information
type ServerInfoRequest struct {
	// No parameters needed for server info
}

// Response Types

// ExtractResult represents the outcome of an extraction
type ExtractResult struct {
	Path       string      `json:"path,omitempty"`
	Pages      int         `json:"pages,omitempty"`
	Size       int64       `json:"size,omitempty"`
	FormFields int         `json:"form_fields"`
	TextLength int         `json:"text_length"`
	Cached     bool        `json:"cached,omitempty"`
	Report     *f29.Report `json:"report"`
}

// ValidateFileResult represents the result of a validation operation
type ValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// CatalogResult lists every field the engine recovers
type CatalogResult struct {
	Fields []f29.FieldSpec `json:"fields"`
}

// ServerInfoResult represents server information and usage guidance
type ServerInfoResult struct {
	ServerName        string     `json:"server_name"`
	Version           string     `json:"version"`
	DefaultDirectory  string     `json:"default_directory"`
	MaxFileSize       int64      `json:"max_file_size"`
	FieldCount        int        `json:"field_count"`
	CachedReports     int        `json:"cached_reports"`
	CacheHits         int64      `json:"cache_hits"`
	AvailableTools    []ToolInfo `json:"available_tools"`
	DirectoryContents []FileInfo `json:"directory_contents"`
	UsageGuidance     string     `json:"usage_guidance"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}

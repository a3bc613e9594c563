package descriptions

import "sort"

// Tool descriptions shown to MCP clients, with examples and workflows

const (
	ExtractFileDescription = `Extract Formulario 29 (Chilean monthly VAT declaration) fields from a PDF.

**When to use:** You have an F29 PDF downloaded from the SII and need its amounts, counts and header data.

**Why it's useful:** Runs several independent strategies (labels, table rows, rendered tables, raw bytes) and keeps the most trustworthy answer per field, so declarations with a damaged text layer still produce results.

**Examples:**
• Monthly close: "Extract f29-202405.pdf and report total débitos (538) and total créditos (537)"
• Reconciliation: "Compare IVA determinado (089) in declaracion-mayo.pdf with our ledger"
• Scanned-then-printed files: "Extract legacy-f29.pdf even though text extraction looks broken"

**Common workflows:**
1. Validate → Extract → Review consistency warnings
2. Extract (json) → Feed amounts into accounting system
3. Field catalog → Extract → Map codes to ledger accounts

**Best practices:** Paths may be relative to the configured directory. Check the warnings section: totals that disagree with their components are reported, never corrected.`

	ExtractTextDescription = `Extract Formulario 29 fields from declaration text obtained elsewhere.

**When to use:** The declaration was already turned into text by OCR, copy/paste or another PDF tool.

**Why it's useful:** Applies the same label, table and consistency logic as file extraction without needing the original PDF.

**Examples:**
• OCR output: "Extract the F29 fields from this OCR text"
• Pasted form: "Here is the text of my F29, what is the PPM neto determinado (062)?"

**Common workflows:**
1. OCR → Extract text → Review derived IVA determinado
2. Copy table from SII portal → Extract text → Export json

**Best practices:** Keep one form row per line; column alignment with two or more spaces lets the rendered-table strategy work.`

	ValidateFileDescription = `Verify that a file is a readable PDF before extracting from it.

**When to use:** Before extraction in automated pipelines or when a user uploads a declaration.

**Why it's useful:** Catches wrong extensions, oversize files and files without a PDF header early.

**Examples:**
• Upload check: "Validate f29-uploaded.pdf before extracting it"
• Batch safety: "Validate every declaration in the directory first"

**Best practices:** Validation only checks the container; an F29 with no recoverable fields is reported by the extraction tools.`

	FieldCatalogDescription = `List every Formulario 29 field the extractor recovers.

**When to use:** To learn what a form code means or which fields can appear in a report.

**Why it's useful:** Shows the code, identifier, kind (amount, count, rate, text) and description of each field.

**Examples:**
• "What is code 595?"
• "Which fields are counts rather than amounts?"`

	ServerInfoDescription = `Get server information, available tools and the declarations in the configured directory.

**When to use:** At the start of a session to discover what files are available and how to use the tools.

**Why it's useful:** Lists the default directory, size limit, catalog size and up to one hundred PDF files ready for extraction.

**Best practices:** Call this first; file names listed here can be passed to f29_extract_file as relative paths.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"f29_extract_file":  ExtractFileDescription,
	"f29_extract_text":  ExtractTextDescription,
	"f29_validate_file": ValidateFileDescription,
	"f29_field_catalog": FieldCatalogDescription,
	"f29_server_info":   ServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the tool names in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

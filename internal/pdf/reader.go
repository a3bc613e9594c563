package pdf

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// minPlainTextLength below which a page's plain text is considered unusable
// and the row-ordered text is used instead
const minPlainTextLength = 50

// Reader loads declaration files into documents
type Reader struct {
	maxFileSize int64
	maxTextSize int
	forms       *FormExtractor
	logger      *log.Logger
}

// NewReader creates a new reader with the specified constraints
func NewReader(maxFileSize int64, forms *FormExtractor) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
		forms:       forms,
		logger:      log.New(log.Writer(), "[F29Reader] ", log.LstdFlags),
	}
}

// Load reads a file from disk into a document
func (r *Reader) Load(path string) (*Document, error) {
	data, err := r.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := r.LoadBytes(data)
	if err != nil {
		return nil, err
	}
	doc.Path = path
	return doc, nil
}

// ReadFile checks that path names a PDF within the size limit and returns its bytes
func (r *Reader) ReadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return nil, fmt.Errorf("file is not a PDF: %s", path)
	}
	if fileInfo.Size() > r.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)", fileInfo.Size(), r.maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// LoadBytes builds a document from an in-memory file. A file whose text layer
// cannot be read is still returned, with TextError set, because the raw bytes
// alone may carry the values.
func (r *Reader) LoadBytes(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("document is empty")
	}
	if int64(len(data)) > r.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)", len(data), r.maxFileSize)
	}

	doc := &Document{
		Raw:  data,
		Size: int64(len(data)),
	}

	text, pages, err := r.extractText(data)
	if err != nil {
		doc.TextError = err.Error()
		r.logger.Printf("text layer unavailable: %v", err)
	}
	doc.Text = text
	doc.Pages = pages

	if r.forms != nil {
		fields, err := r.forms.ExtractFields(data)
		if err != nil {
			r.logger.Printf("form fields unavailable: %v", err)
		}
		doc.FormFields = fields
		if lines := r.forms.FieldLines(fields); lines != "" {
			doc.Text = strings.TrimRight(doc.Text, "\n") + "\n\n" + lines
		}
	}

	return doc, nil
}

// extractText returns the text of every page. Pages are separated by a blank
// line. Failures on one page do not stop the others.
func (r *Reader) extractText(data []byte) (text string, pages int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("PDF parser panic: %v", rec)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}

	var builder strings.Builder
	pages = pdfReader.NumPage()
	for pageNum := 1; pageNum <= pages; pageNum++ {
		content := r.pageText(pdfReader, pageNum)
		if content == "" {
			continue
		}

		if builder.Len()+len(content) > r.maxTextSize {
			remaining := r.maxTextSize - builder.Len()
			if remaining > 0 {
				builder.WriteString(content[:remaining])
			}
			break
		}
		if builder.Len() > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(content)
	}

	if strings.TrimSpace(builder.String()) == "" {
		return "", pages, fmt.Errorf("no text content could be extracted from PDF")
	}
	return builder.String(), pages, nil
}

// pageText extracts one page, preferring plain text and falling back to
// row-ordered text when the plain text is too short
func (r *Reader) pageText(pdfReader *pdf.Reader, pageNum int) (content string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Printf("page %d: recovered from panic: %v", pageNum, rec)
			content = ""
		}
	}()

	page := pdfReader.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}

	plain, err := page.GetPlainText(nil)
	if err != nil {
		r.logger.Printf("page %d: plain text failed: %v", pageNum, err)
		plain = ""
	}
	if len(strings.TrimSpace(plain)) >= minPlainTextLength {
		return plain
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return plain
	}
	var builder strings.Builder
	for _, row := range rows {
		words := make([]string, 0, len(row.Content))
		for _, word := range row.Content {
			words = append(words, word.S)
		}
		builder.WriteString(strings.Join(words, " "))
		builder.WriteString("\n")
	}
	if rowText := builder.String(); len(strings.TrimSpace(rowText)) > len(strings.TrimSpace(plain)) {
		return rowText
	}
	return plain
}

package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/Matidigital/Contapyme-sub001/internal/f29"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// maxFieldDepth bounds recursion through Kids arrays
const maxFieldDepth = 16

var digitRun = regexp.MustCompile(`\d+`)

// FormField is a filled AcroForm field
type FormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FormExtractor reads AcroForm values using pdfcpu. Electronically filled
// declarations often keep the amounts in form fields named after the code.
type FormExtractor struct {
	catalog *f29.Catalog
}

// NewFormExtractor creates a form extractor that maps field names onto cat
func NewFormExtractor(cat *f29.Catalog) *FormExtractor {
	return &FormExtractor{catalog: cat}
}

// ExtractFields returns every form field carrying a value
func (fe *FormExtractor) ExtractFields(data []byte) (fields []FormField, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			fields, err = nil, fmt.Errorf("form parser panic: %v", rec)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return nil, nil
	}
	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	if acroFormDict == nil {
		return nil, nil
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return nil, nil
	}
	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	for _, ref := range fieldsArray {
		fields = fe.collect(ctx, ref, "", 0, fields)
	}
	return fields, nil
}

// collect walks a field and its kids, qualifying names with their parents
func (fe *FormExtractor) collect(ctx *model.Context, obj types.Object, parent string, depth int, out []FormField) []FormField {
	if depth > maxFieldDepth {
		return out
	}
	fieldDict, err := ctx.DereferenceDict(obj)
	if err != nil || fieldDict == nil {
		return out
	}

	name := parent
	if nameObj, found := fieldDict.Find("T"); found {
		if partial, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil && partial != "" {
			if name != "" {
				name += "."
			}
			name += partial
		}
	}

	if valueObj, found := fieldDict.Find("V"); found {
		if value := fe.fieldValue(ctx, valueObj); value != "" {
			out = append(out, FormField{Name: name, Value: value})
		}
	}

	if kidsObj, found := fieldDict.Find("Kids"); found {
		if kids, err := ctx.DereferenceArray(kidsObj); err == nil {
			for _, kid := range kids {
				out = fe.collect(ctx, kid, name, depth+1, out)
			}
		}
	}
	return out
}

func (fe *FormExtractor) fieldValue(ctx *model.Context, valueObj types.Object) string {
	if val, err := ctx.DereferenceStringOrHexLiteral(valueObj, model.V10, nil); err == nil {
		return strings.TrimSpace(val)
	}
	if name, err := ctx.DereferenceName(valueObj, model.V10, nil); err == nil {
		return strings.TrimSpace(string(name))
	}
	return ""
}

// FieldLines renders fields whose names identify a form code or a header
// field as "CODE value" lines that the text strategies understand
func (fe *FormExtractor) FieldLines(fields []FormField) string {
	var lines []string
	for _, field := range fields {
		if line := fe.fieldLine(field); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func (fe *FormExtractor) fieldLine(field FormField) string {
	for _, code := range digitRun.FindAllString(field.Name, -1) {
		if len(code) != 3 {
			continue
		}
		if spec, ok := fe.catalog.ByCode(code); ok {
			return spec.Code + " " + field.Value
		}
	}

	name := f29.Fold(field.Name)
	switch {
	case strings.Contains(name, "RUT"):
		return "RUT " + field.Value
	case strings.Contains(name, "PERIODO"):
		return "PERIODO " + field.Value
	case strings.Contains(name, "FOLIO"):
		return "FOLIO " + field.Value
	case strings.Contains(name, "RAZON"):
		return "RAZON SOCIAL: " + field.Value
	}
	return ""
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matidigital/Contapyme-sub001/internal/pdf"
)

const sampleText = `RUT: 76.123.456-0
PERIODO 202405
538 TOTAL DÉBITOS 3.410.651
537 TOTAL CRÉDITOS 2.410.651
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_TextInput(t *testing.T) {
	path := writeFile(t, "f29.txt", sampleText)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--text", "--sequential", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "CODE")
	assert.Contains(t, out, "3.410.651")
	assert.Contains(t, out, "76.123.456-0")
	assert.Contains(t, out, "derived")
}

func TestRun_JSONOutput(t *testing.T) {
	path := writeFile(t, "f29.txt", sampleText)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--text", "--format", "json", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var result pdf.ExtractResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	require.NotNil(t, result.Report)
	assert.Equal(t, int64(1000000), result.Report.Fields["code089"].Value.Amount)
	assert.Equal(t, "202405", result.Report.Fields["period"].Value.Text)
}

func TestRun_RawPDF(t *testing.T) {
	path := writeFile(t, "f29.pdf", "%PDF-1.4\n1 0 obj\n<< /Type /Page >>\nendobj\n"+
		"BT (538) Tj (TOTAL DEBITOS) Tj (3.410.651) Tj ET\n%%EOF\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "binary")
}

func TestRun_Errors(t *testing.T) {
	empty := writeFile(t, "empty.txt", "nothing useful here")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{name: "no_input", args: nil, wantCode: 2, wantErr: "exactly one input file"},
		{name: "bad_format", args: []string{"--format", "xml", empty}, wantCode: 2, wantErr: "unsupported format"},
		{name: "negative_tolerance", args: []string{"--tolerance=-1", empty}, wantCode: 2, wantErr: "tolerance"},
		{name: "missing_file", args: []string{"missing.pdf"}, wantCode: 1, wantErr: "does not exist"},
		{name: "nothing_extracted", args: []string{"--text", empty}, wantCode: 1, wantErr: "NO_EXTRACTION"},
		{
			name:     "missing_known_values",
			args:     []string{"--knownvalues", filepath.Join(t.TempDir(), "none.yaml"), empty},
			wantCode: 1,
			wantErr:  "failed to read known values",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stderr.String(), tt.wantErr)
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"--help"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "USAGE:")
}

package descriptions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetToolDescription(t *testing.T) {
	for _, name := range GetAllToolNames() {
		t.Run(name, func(t *testing.T) {
			desc := GetToolDescription(name)
			assert.NotEqual(t, "Tool description not available", desc)
			assert.True(t, strings.Contains(desc, "**When to use:**"), "description of %s lacks usage guidance", name)
		})
	}

	assert.Equal(t, "Tool description not available", GetToolDescription("pdf_read_file"))
}

func TestGetAllToolNames(t *testing.T) {
	assert.Equal(t, []string{
		"f29_extract_file",
		"f29_extract_text",
		"f29_field_catalog",
		"f29_server_info",
		"f29_validate_file",
	}, GetAllToolNames())
}

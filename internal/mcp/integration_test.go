package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// call sends one JSON-RPC message through the underlying MCP server and
// returns the encoded response
func call(t *testing.T, s *Server, method string, params interface{}) string {
	t.Helper()

	msg, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	resp := s.mcpServer.HandleMessage(context.Background(), msg)
	require.NotNil(t, resp)

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	return string(out)
}

func TestServerToolsRegistration(t *testing.T) {
	server := newTestServer(t, t.TempDir())

	out := call(t, server, "tools/list", map[string]interface{}{})
	for _, tool := range []string{
		"f29_extract_file",
		"f29_extract_text",
		"f29_validate_file",
		"f29_field_catalog",
		"f29_server_info",
	} {
		assert.Contains(t, out, `"name":"`+tool+`"`)
	}
	assert.NotContains(t, out, "pdf_read_file")
}

func TestServerToolCall(t *testing.T) {
	server := newTestServer(t, t.TempDir())

	out := call(t, server, "tools/call", map[string]interface{}{
		"name": "f29_extract_text",
		"arguments": map[string]interface{}{
			"text": "538 TOTAL DÉBITOS 3.410.651",
		},
	})

	assert.Contains(t, out, "F29 Extraction Report")
	assert.Contains(t, out, "$3.410.651")
	assert.NotContains(t, out, `"isError":true`)
}

func TestServerToolCall_UnknownTool(t *testing.T) {
	server := newTestServer(t, t.TempDir())

	out := call(t, server, "tools/call", map[string]interface{}{
		"name":      "pdf_read_file",
		"arguments": map[string]interface{}{"path": "x.pdf"},
	})

	assert.Contains(t, out, `"error"`)
}

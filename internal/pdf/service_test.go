package pdf

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/Matidigital/Contapyme-sub001/internal/f29"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, dir string) *Service {
	t.Helper()

	engine := f29.NewEngine(f29.WithLogger(log.New(io.Discard, "", 0)))
	service, err := NewService(1024*1024, dir, engine)
	require.NoError(t, err)
	return service
}

func TestNewService(t *testing.T) {
	engine := f29.NewEngine(f29.WithLogger(log.New(io.Discard, "", 0)))

	tests := []struct {
		name        string
		maxFileSize int64
		dir         string
		engine      *f29.Engine
		expectError bool
	}{
		{name: "valid", maxFileSize: 1024, dir: "/tmp", engine: engine},
		{name: "empty_directory", maxFileSize: 1024, dir: "", engine: engine, expectError: true},
		{name: "zero_size", maxFileSize: 0, dir: "/tmp", engine: engine, expectError: true},
		{name: "nil_engine", maxFileSize: 1024, dir: "/tmp", engine: nil, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewService(tt.maxFileSize, tt.dir, tt.engine)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, service)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.maxFileSize, service.GetMaxFileSize())
		})
	}
}

func TestService_ExtractText(t *testing.T) {
	service := newTestService(t, t.TempDir())
	ctx := context.Background()

	result, err := service.ExtractText(ctx, ExtractTextRequest{Text: "538 TOTAL DÉBITOS 3.410.651\n537 TOTAL CRÉDITOS 2.410.651"})
	require.NoError(t, err)
	require.NotNil(t, result.Report)
	assert.Equal(t, f29.AmountValue(3410651), result.Report.Fields["code538"].Value)
	assert.Equal(t, f29.FieldResult{Value: f29.AmountValue(1000000), Strategy: f29.StrategyDerived}, result.Report.Fields["code089"])

	_, err = service.ExtractText(ctx, ExtractTextRequest{Text: "   "})
	assert.Error(t, err)

	_, err = service.ExtractText(ctx, ExtractTextRequest{Text: "hola mundo"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, f29.ErrNoExtraction))
}

func TestService_ExtractFile(t *testing.T) {
	dir := t.TempDir()
	service := newTestService(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f29.pdf"), []byte(corruptDeclaration), 0644))

	t.Run("relative_path_uses_raw_bytes", func(t *testing.T) {
		result, err := service.ExtractFile(context.Background(), ExtractFileRequest{Path: "f29.pdf"})
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(dir, "f29.pdf"), result.Path)
		assert.Equal(t, int64(len(corruptDeclaration)), result.Size)
		assert.Equal(t, f29.FieldResult{Value: f29.AmountValue(3410651), Strategy: f29.StrategyBinary},
			result.Report.Fields["code538"])
	})

	t.Run("same_content_is_cached", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "copy.pdf"), []byte(corruptDeclaration), 0644))

		first, err := service.ExtractFile(context.Background(), ExtractFileRequest{Path: "f29.pdf"})
		require.NoError(t, err)
		second, err := service.ExtractFile(context.Background(), ExtractFileRequest{Path: "copy.pdf"})
		require.NoError(t, err)

		assert.True(t, second.Cached)
		assert.Equal(t, filepath.Join(dir, "copy.pdf"), second.Path)
		assert.Equal(t, first.Report.RunID, second.Report.RunID)
		assert.Equal(t, filepath.Join(dir, "f29.pdf"), first.Path, "cached entry must keep its own path")

		info, err := service.ServerInfo(ServerInfoRequest{}, "test", "1.0.0")
		require.NoError(t, err)
		assert.Equal(t, 1, info.CachedReports)
		assert.GreaterOrEqual(t, info.CacheHits, int64(1))
	})

	t.Run("outside_directory", func(t *testing.T) {
		_, err := service.ExtractFile(context.Background(), ExtractFileRequest{Path: "../other.pdf"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "security validation failed")
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := service.ExtractFile(context.Background(), ExtractFileRequest{Path: "missing.pdf"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})
}

func TestService_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	service := newTestService(t, dir)

	testFile := filepath.Join(dir, "test.pdf")
	require.NoError(t, os.WriteFile(testFile, make([]byte, 1024), 0644))

	result, err := service.ValidateFile(ValidateFileRequest{Path: testFile})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Message)

	_, err = service.ValidateFile(ValidateFileRequest{Path: filepath.Join(dir, "..", "x.pdf")})
	assert.Error(t, err)
}

func TestService_Catalog(t *testing.T) {
	service := newTestService(t, t.TempDir())

	result := service.Catalog()
	assert.Len(t, result.Fields, 28)
	assert.Equal(t, "code502", result.Fields[0].ID)
}

func TestService_ServerInfo(t *testing.T) {
	dir := t.TempDir()
	service := newTestService(t, dir)
	for _, name := range []string{"b.pdf", "a.pdf", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0755))

	info, err := service.ServerInfo(ServerInfoRequest{}, "f29-mcp", "1.0.0")
	require.NoError(t, err)

	assert.Equal(t, "f29-mcp", info.ServerName)
	assert.Equal(t, "1.0.0", info.Version)
	assert.Equal(t, dir, info.DefaultDirectory)
	assert.Equal(t, 28, info.FieldCount)
	assert.Len(t, info.AvailableTools, 5)
	require.Len(t, info.DirectoryContents, 2)
	assert.Equal(t, "a.pdf", info.DirectoryContents[0].Name)
	assert.Equal(t, "b.pdf", info.DirectoryContents[1].Name)
	assert.Contains(t, info.UsageGuidance, "f29_extract_file")
}

func TestListPDFs_MissingDirectory(t *testing.T) {
	files := listPDFs(filepath.Join(t.TempDir(), "missing"), 10)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

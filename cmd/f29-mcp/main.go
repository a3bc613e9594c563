package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Matidigital/Contapyme-sub001/internal/config"
	"github.com/Matidigital/Contapyme-sub001/internal/f29"
	"github.com/Matidigital/Contapyme-sub001/internal/mcp"
	"github.com/Matidigital/Contapyme-sub001/internal/pdf"
)

var (
	version   = "dev"     // set by build flags
	buildTime = "unknown" // set by build flags
	gitCommit = "unknown" // set by build flags
)

// setupLogging configures logging based on the server mode
func setupLogging(cfg *config.Config) {
	if cfg.IsStdioMode() {
		// stdout carries the MCP protocol
		log.SetOutput(os.Stderr)
		if !cfg.IsDebug() {
			log.SetOutput(io.Discard)
		}
	} else {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}

// loadEnvFile applies a .env file when one is present
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// buildEngine wires the extraction engine from configuration
func buildEngine(cfg *config.Config) (*f29.Engine, error) {
	catalog := f29.DefaultCatalog()

	known, err := pdf.LoadKnownValues(cfg.KnownValuesFile, catalog)
	if err != nil {
		return nil, err
	}

	return f29.NewEngine(
		f29.WithCatalog(catalog),
		f29.WithLogger(log.New(log.Writer(), "[F29Engine] ", log.LstdFlags)),
		f29.WithKnownValues(known),
		f29.WithConcurrency(cfg.Concurrent),
		f29.WithTolerance(cfg.Tolerance),
	), nil
}

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		log.Printf("Received signal: %s", sig)
		log.Println("Initiating graceful shutdown...")
		cancel()

		if err := <-serverErrCh; err != nil {
			log.Printf("Server shutdown with error: %v", err)
			os.Exit(1)
		}

	case err := <-serverErrCh:
		if err != nil {
			log.Printf("Server error: %v", err)
			os.Exit(1)
		}
	}

	log.Println("Server stopped successfully")
}

// runStdioMode handles stdio mode execution; the parent process owns our lifecycle
func runStdioMode(ctx context.Context, server *mcp.Server) {
	if err := server.Run(ctx); err != nil {
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion(os.Stdout)
			return
		}
	}

	if err := loadEnvFile(".env"); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		log.Fatalf("Failed to build extraction engine: %v", err)
	}

	pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.DocumentDirectory, engine)
	if err != nil {
		log.Fatalf("Failed to create document service: %v", err)
	}

	server, err := mcp.NewServer(cfg, pdfService)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsServerMode() {
		runServerMode(ctx, cancel, server)
	} else {
		runStdioMode(ctx, server)
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "F29 MCP\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nguyentantai21042004/smartcut/internal/auphonic"
	"github.com/nguyentantai21042004/smartcut/internal/capability"
	"github.com/nguyentantai21042004/smartcut/internal/config"
	"github.com/nguyentantai21042004/smartcut/internal/draft"
	"github.com/nguyentantai21042004/smartcut/internal/history"
	"github.com/nguyentantai21042004/smartcut/internal/llm"
	"github.com/nguyentantai21042004/smartcut/internal/logger"
	"github.com/nguyentantai21042004/smartcut/internal/media"
	"github.com/nguyentantai21042004/smartcut/internal/pipeline"
	"github.com/nguyentantai21042004/smartcut/internal/server"
	"github.com/nguyentantai21042004/smartcut/internal/whisper"
	"github.com/nguyentantai21042004/smartcut/pkg/executor"
)

func main() {
	configPath := flag.String("config", "", "path to optional YAML config file")
	flag.Parse()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger. stdout belongs to the MCP protocol, so every
	// diagnostic goes to stderr.
	log := logger.New(cfg.Logging.Level)

	gate, err := capability.Parse(cfg.AllowedTargets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid allowed targets: %v\n", err)
		os.Exit(1)
	}

	// Initialize dependencies
	exec := executor.New()
	proc := media.New(exec, log, cfg.Performance.MaxConcurrent)
	if err := proc.Available(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: FFmpeg is not installed or not in PATH. Some features will not work.")
		fmt.Fprintln(os.Stderr, "Install it with: brew install ffmpeg (Mac) or winget install ffmpeg (Windows)")
	}

	drafts, err := draft.New(cfg.CapCut.DraftsDir, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open drafts directory: %v\n", err)
		os.Exit(1)
	}
	defer drafts.Close()

	hist, err := history.New(cfg.History.Path)
	if err != nil {
		log.Warn(ctx, "Edit history disabled: %v", err)
		hist, _ = history.New(history.Disabled)
	}
	defer hist.Close()

	p := pipeline.New(cfg, gate, pipeline.Deps{
		Media:       proc,
		Transcriber: whisper.New(cfg.OpenAI.APIKey, cfg.OpenAI.WhisperModel, cfg.OpenAI.BaseURL, log),
		Analyst:     llm.New(cfg.Gemini.APIKeys, cfg.Gemini.Model, log),
		Enhancer:    auphonic.New(cfg.Auphonic.APIKey, cfg.Auphonic.BaseURL, log),
		Drafts:      drafts,
		History:     hist,
		Logger:      log,
	})

	srv := server.New(gate, p, log)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Info(ctx, "SmartCut MCP server starting")
	log.Info(ctx, "Drafts directory: %s", drafts.DraftsDir())
	log.Info(ctx, "Allowed targets: %s", gate)

	// Serve until the client closes stdin or a signal arrives
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx)
	}()

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
		cancel()
		<-done
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error(ctx, "Server error: %v", err)
			os.Exit(1)
		}
	}

	log.Info(ctx, "SmartCut stopped")
}

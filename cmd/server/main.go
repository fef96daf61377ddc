// Package main provides the entry point for the chatbridge server.
// It converts chat API payloads between the Claude, OpenAI, Gemini and Ollama
// formats, either once from a file or stdin, or as a long-running HTTP service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chatbridge/chatbridge/internal/buildinfo"
	"github.com/chatbridge/chatbridge/internal/cmd"
	"github.com/chatbridge/chatbridge/internal/config"
	"github.com/chatbridge/chatbridge/internal/logging"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var (
	Version           = "dev"
	Commit            = "none"
	BuildDate         = "unknown"
	DefaultConfigPath = ""
)

// init initializes the shared logger setup.
func init() {
	logging.SetupBaseLogger()
	buildinfo.Version = Version
	buildinfo.Commit = Commit
	buildinfo.BuildDate = BuildDate
}

// main is the entry point of the application.
// It parses command-line flags, loads configuration, and either serves HTTP
// or performs a single conversion.
func main() {
	var configPath string
	var serve bool
	var kind string
	var from string
	var to string
	var input string
	var prettyOutput bool
	var showVersion bool

	flag.StringVar(&configPath, "config", DefaultConfigPath, "Configure File Path")
	flag.BoolVar(&serve, "serve", false, "Start the HTTP conversion server")
	flag.StringVar(&kind, "kind", "request", "Payload kind: request, response or detect")
	flag.StringVar(&from, "from", "auto", "Source format (claude, openai, gemini, ollama or auto)")
	flag.StringVar(&to, "to", "", "Target format (claude, openai, gemini, ollama)")
	flag.StringVar(&input, "in", "-", "Input file path, - for stdin")
	flag.BoolVar(&prettyOutput, "pretty", false, "Indent JSON output")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(buildinfo.Summary())
		return
	}

	wd, err := os.Getwd()
	if err != nil {
		log.Errorf("failed to get working directory: %v", err)
		os.Exit(1)
	}

	// Load environment variables from .env if present.
	if errLoad := godotenv.Load(filepath.Join(wd, ".env")); errLoad != nil {
		if !errors.Is(errLoad, os.ErrNotExist) {
			log.WithError(errLoad).Warn("failed to load .env file")
		}
	}

	optional := false
	if envPath, ok := os.LookupEnv("CHATBRIDGE_CONFIG"); ok && strings.TrimSpace(envPath) != "" && configPath == DefaultConfigPath {
		configPath = strings.TrimSpace(envPath)
	}
	if configPath == "" {
		configPath = filepath.Join(wd, "config.yaml")
		optional = true
	}

	cfg, err := config.LoadConfigOptional(configPath, optional)
	if err != nil {
		log.Errorf("failed to load config: %v", err)
		os.Exit(1)
	}

	if err = logging.ConfigureLogOutput(cfg); err != nil {
		log.Errorf("failed to configure log output: %v", err)
		os.Exit(1)
	}

	if serve {
		log.Info(buildinfo.Summary())
		if err = cmd.StartService(cfg, configPath); err != nil {
			log.Errorf("server stopped with error: %v", err)
			os.Exit(1)
		}
		return
	}

	// Keep stdout for the converted payload.
	if !cfg.LoggingToFile {
		log.SetOutput(os.Stderr)
	}
	opts := cmd.ConvertOptions{Kind: kind, From: from, To: to, Input: input, Pretty: prettyOutput}
	if err = cmd.RunConvert(context.Background(), cfg, opts, os.Stdin, os.Stdout); err != nil {
		log.Errorf("conversion failed: %v", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"snapledger/internal/expense"
	"snapledger/internal/extraction"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	fs := ff.NewFlagSet("snapledger")
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		dbPath      = fs.StringLong("db", "snapledger.db", "Database file path")
		storagePath = fs.StringLong("storage", "./uploads", "Upload storage directory")
		clientType  = fs.StringLong("client", "gemini", "Extraction client: 'gemini' (SDK) or 'rest'")
		geminiKey   = fs.StringLong("gemini-key", "", "Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel = fs.StringLong("gemini-model", "gemini-2.5-pro", "Gemini model name")
		restURL     = fs.StringLong("rest-url", "", "Base URL for the REST client (defaults to the public endpoint)")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("SNAPLEDGER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Missing credential is fatal: no extraction call can be made, so
	// surface it before touching anything else.
	apiKey, err := extraction.ResolveAPIKey(*geminiKey)
	if err != nil {
		slog.Error("Failed to resolve API key", "error", err)
		os.Exit(1)
	}

	slog.Info("Initializing database...", "path", *dbPath)
	persister, err := expense.NewBoltPersister(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer persister.Close()

	store, err := expense.NewStore(persister)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}

	var extractor extraction.Extractor
	switch *clientType {
	case "gemini":
		slog.Info("Initializing Gemini client...", "model", *geminiModel)
		extractor, err = extraction.NewGemini(context.Background(), apiKey, *geminiModel)
	case "rest":
		slog.Info("Initializing REST client...", "model", *geminiModel)
		extractor, err = extraction.NewRESTClient(*restURL, *geminiModel, apiKey)
	default:
		slog.Error("Invalid extraction client", "client", *clientType, "valid", "gemini or rest")
		os.Exit(1)
	}
	if err != nil {
		slog.Error("Failed to initialize extraction client", "error", err)
		os.Exit(1)
	}
	defer extractor.Close()

	slog.Info("Initializing upload storage...", "path", *storagePath)
	storage, err := expense.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	service := expense.NewService(store, extraction.NewEncoder(), extractor)

	basicAuth := expense.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := expense.NewServer(service, storage, basicAuth)

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"pdf-rag/internal/config"
	"pdf-rag/internal/embedding"
	"pdf-rag/internal/helper"
	"pdf-rag/internal/indexer"
	"pdf-rag/internal/llmservice"
	"pdf-rag/internal/rag"
	"pdf-rag/internal/server"
	"pdf-rag/internal/session"
)

var cli struct {
	Config   string `help:"Path to the YAML config file" default:"./configs/config.yaml" type:"path"`
	Addr     string `help:"Listen address, overrides server.addr" default:""`
	LogLevel string `help:"Log level (debug, info, warn, error), overrides log_level" default:""`
	Env      string `help:"Optional .env file to load" default:".env"`
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	_ = kong.Parse(&cli, kong.Description("Upload PDFs and ask questions about them."))

	if err := godotenv.Load(cli.Env); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("file", cli.Env).Msg("Error loading env file")
	}

	cfg, err := config.LoadConfig(cli.Config)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if cli.Addr != "" {
		cfg.Server.Addr = cli.Addr
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	setLogLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}
	log.Debug().
		Str("addr", cfg.Server.Addr).
		Str("llm_provider", cfg.LLM.Provider).
		Str("llm_model", cfg.LLM.Model).
		Str("embed_provider", cfg.EmbedLLM.Provider).
		Str("embed_model", cfg.EmbedLLM.Model).
		Interface("rag", cfg.RAG).
		Msg("Loaded config")

	if cfg.Server.UploadsDir != "" {
		if err := helper.CreateFolder(cfg.Server.UploadsDir); err != nil {
			log.Fatal().Err(err).Msg("Error creating uploads folder")
		}
	}

	httpClient := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM, httpClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	completer, err := llmservice.NewCompleter(&cfg.LLM, httpClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing completion client")
	}

	srv := server.New(
		cfg.Server,
		indexer.NewIndexer(embedder, cfg),
		rag.NewRAG(completer, cfg),
		session.NewStore(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		log.Warn().Str("level", level).Msg("Unknown log level, using debug")
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

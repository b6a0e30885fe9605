// crewkitd - agent orchestration daemon exposing the A2A HTTP surface.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/joho/godotenv"

	"github.com/crewkit-ai/crewkit/a2a"
	"github.com/crewkit-ai/crewkit/backend"
	anthropicbackend "github.com/crewkit-ai/crewkit/backend/anthropic"
	openaibackend "github.com/crewkit-ai/crewkit/backend/openai"
	"github.com/crewkit-ai/crewkit/config"
	"github.com/crewkit-ai/crewkit/core"
	"github.com/crewkit-ai/crewkit/logging"
	"github.com/crewkit-ai/crewkit/orchestrator"
	"github.com/crewkit-ai/crewkit/persona"
	"github.com/crewkit-ai/crewkit/registry"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	// No .env file is fine; environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format, false)
	logger.Info("starting crewkitd addr=%s", cfg.Server.Addr)

	store, err := registry.NewSQLite(cfg.Registry.Path)
	if err != nil {
		logger.Error("failed to initialize registry: %v", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("failed to close registry: %v", closeErr)
		}
	}()

	if err := store.Ping(context.Background()); err != nil {
		logger.Error("registry health check failed: %v", err)
		os.Exit(1)
	}
	logger.Info("registry store connected path=%s", cfg.Registry.Path)

	catalog, err := persona.LoadCatalog(cfg.Personas.Path)
	if err != nil {
		logger.Error("failed to load persona catalog: %v", err)
		os.Exit(1)
	}
	logger.Info("persona catalog loaded personas=%d", catalog.Len())

	bindings, err := buildBindings(cfg)
	if err != nil {
		logger.Error("failed to build backend bindings: %v", err)
		os.Exit(1)
	}

	orch := orchestrator.New(func(o *orchestrator.Options) {
		o.Catalog = catalog
		o.Bindings = bindings
		o.DefaultPolicy = core.RetryPolicy{
			MaxRetries: cfg.Retry.MaxRetries,
			Interval:   cfg.Retry.Interval(),
		}
		o.Logger = logger.WithComponent("orchestrator")
	})

	handler := a2a.NewHandler(orch, store, logger.WithComponent("a2a"))
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handler.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("server error: %v", err)
		os.Exit(1)
	case sig := <-stop:
		logger.Info("shutting down signal=%s", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

// buildBindings constructs one backend adapter per configured persona binding.
// Adapters are shared across personas bound to the same provider.
func buildBindings(cfg *config.Config) (map[string]core.Backend, error) {
	var (
		anthropicShared core.Backend
		openaiShared    core.Backend
	)

	bindings := make(map[string]core.Backend, len(cfg.Backends.Bindings))
	for personaName, provider := range cfg.Backends.Bindings {
		switch provider {
		case "anthropic":
			if anthropicShared == nil {
				anthropicShared = anthropicbackend.New(func(o *anthropicbackend.Options) {
					if cfg.Backends.AnthropicModel != "" {
						o.Model = anthropic.Model(cfg.Backends.AnthropicModel)
					}
				})
			}
			bindings[personaName] = anthropicShared
		case "openai":
			if openaiShared == nil {
				openaiShared = openaibackend.New(func(o *openaibackend.Options) {
					if cfg.Backends.OpenAIModel != "" {
						o.Model = cfg.Backends.OpenAIModel
					}
				})
			}
			bindings[personaName] = openaiShared
		case "mock":
			bindings[personaName] = backend.NewMock("mock-" + personaName)
		default:
			return nil, fmt.Errorf("unknown backend provider %q for persona %q", provider, personaName)
		}
	}
	return bindings, nil
}

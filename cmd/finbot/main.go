package main

import (
	"context"
	"os"

	"github.com/PabloGalante/finbot/internal/adapters/llm"
	filestore "github.com/PabloGalante/finbot/internal/adapters/storage/file"
	firestorestore "github.com/PabloGalante/finbot/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/finbot/internal/adapters/storage/memory"
	"github.com/PabloGalante/finbot/internal/adapters/tui"
	"github.com/PabloGalante/finbot/internal/app/chat"
	"github.com/PabloGalante/finbot/internal/config"
	"github.com/PabloGalante/finbot/internal/domain"
	"github.com/PabloGalante/finbot/internal/observability"
)

func main() {
	ctx := context.Background()
	cfg := config.New()
	log := observability.Logger()

	svc := chat.NewService(buildAssistant(ctx, cfg), buildRepository(ctx, cfg))
	svc.Init(ctx)

	if err := tui.NewProgram(svc).Run(); err != nil {
		log.Error("tui exited with error", "error", err)
		os.Exit(1)
	}
}

func buildAssistant(ctx context.Context, cfg *config.Config) domain.Assistant {
	log := observability.Logger()

	if cfg.UseMockLLM || !cfg.HasGeminiCredentials() {
		log.Info("using mock assistant")
		return llm.NewMockAssistant()
	}

	client, err := llm.NewGeminiClient(ctx, llm.Options{
		APIKey:      cfg.GeminiAPIKey,
		GCPProject:  cfg.GCPProject,
		GCPLocation: cfg.GCPLocation,
		ModelName:   cfg.ModelName,
	})
	if err != nil {
		log.Error("failed to initialize gemini client", "error", err)
		os.Exit(1)
	}
	log.Info("using gemini assistant", "model", cfg.ModelName)
	return client
}

func buildRepository(ctx context.Context, cfg *config.Config) domain.SessionRepository {
	log := observability.Logger()

	switch cfg.StorageBackend {
	case "memory":
		log.Info("using in-memory storage")
		return memstore.NewStore()

	case "firestore":
		store, err := firestorestore.NewStore(ctx, cfg.GCPProject)
		if err != nil {
			log.Error("failed to initialize firestore store", "error", err)
			os.Exit(1)
		}
		log.Info("using firestore storage", "project", cfg.GCPProject)
		return store

	default:
		store, err := filestore.NewStore(cfg.StateDir)
		if err != nil {
			log.Error("failed to initialize file store", "error", err)
			os.Exit(1)
		}
		log.Info("using file storage")
		return store
	}
}

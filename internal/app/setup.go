package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumian-ai/sellerchat/db"
	"github.com/lumian-ai/sellerchat/internal/agent"
	"github.com/lumian-ai/sellerchat/internal/api"
	"github.com/lumian-ai/sellerchat/internal/config"
	"github.com/lumian-ai/sellerchat/internal/facts"
	"github.com/lumian-ai/sellerchat/internal/log"
	"github.com/lumian-ai/sellerchat/internal/sop"
	"github.com/lumian-ai/sellerchat/internal/thread"
	"github.com/lumian-ai/sellerchat/internal/tools"
	"github.com/lumian-ai/sellerchat/internal/turn"
	"github.com/lumian-ai/sellerchat/internal/weather"
)

// Setup creates and initializes the application.
// Returns an App with embedded cleanup — call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	a := &App{Config: cfg, Logger: logger}

	// On error, clean up everything already initialized
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	pool, err := provideDBPool(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.DBPool = pool
	a.ThreadStore = thread.NewPostgresStore(pool, logger)
	a.FactStore = facts.NewStore()

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	documents, err := sop.NewClient(ctx, sop.ClientConfig{
		SOPBucket:       cfg.S3.SOPBucket,
		ImagesBucket:    cfg.S3.ImagesBucket,
		Region:          cfg.S3.Region,
		Endpoint:        cfg.S3.Endpoint,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		UsePathStyle:    cfg.S3.UsePathStyle,
		PresignExpiry:   time.Duration(cfg.S3.PresignExpiry) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating SOP client: %w", err)
	}

	provider := weather.NewOpenMeteo(weather.OpenMeteoConfig{
		BaseURL:    cfg.Weather.BaseURL,
		GeocodeURL: cfg.Weather.GeocodeURL,
		Timeout:    time.Duration(cfg.Weather.TimeoutMS) * time.Millisecond,
	}, logger)

	kit, err := tools.NewKit(tools.Config{
		Documents: documents,
		Weather:   provider,
		Facts:     a.FactStore,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating tool kit: %w", err)
	}

	registered, err := kit.Register(g)
	if err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}

	toc := sop.LoadTOC(cfg.SOPTOCPath)

	runner, err := agent.NewGenkitRunner(agent.GenkitConfig{
		Genkit:       g,
		Logger:       logger,
		Tools:        registered,
		ModelName:    cfg.FullModelName(),
		Instructions: agent.Instructions(toc.Format()),
		MaxTurns:     cfg.MaxTurns,
	})
	if err != nil {
		return nil, fmt.Errorf("creating agent runner: %w", err)
	}

	turnServer, err := turn.NewServer(turn.ServerConfig{
		Runner: runner,
		Store:  a.ThreadStore,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating turn server: %w", err)
	}
	a.TurnServer = turnServer

	apiServer, err := api.NewServer(api.ServerConfig{
		Logger:      logger,
		Responder:   turnServer,
		ThreadStore: a.ThreadStore,
		FactStore:   a.FactStore,
		Documents:   documents,
		Pool:        pool,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		return nil, fmt.Errorf("creating API server: %w", err)
	}
	a.Handler = apiServer.Handler()

	return a, nil
}

// provideGenkit initializes Genkit with the configured model provider.
func provideGenkit(ctx context.Context, cfg *config.Config, logger log.Logger) (*genkit.Genkit, error) {
	var g *genkit.Genkit

	switch cfg.Provider {
	case config.ProviderOpenAI:
		g = genkit.Init(ctx, genkit.WithPlugins(&openai.OpenAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with openai provider")
		}
	default:
		g = genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with googleai provider")
		}
	}

	logger.Info("initialized Genkit", "provider", cfg.Provider, "model", cfg.FullModelName())
	return g, nil
}

// provideDBPool runs migrations and opens the connection pool.
func provideDBPool(ctx context.Context, cfg *config.Config, logger log.Logger) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.DatabaseURL(), logger); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

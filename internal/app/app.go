// Package app provides application initialization and dependency wiring.
//
// App is the container that assembles the seller assistant: Genkit, the
// thread store, the SOP document client, the tool kit, the agent runner,
// the turn orchestrator, and the HTTP API.
package app

import (
	"net/http"

	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumian-ai/sellerchat/internal/config"
	"github.com/lumian-ai/sellerchat/internal/facts"
	"github.com/lumian-ai/sellerchat/internal/log"
	"github.com/lumian-ai/sellerchat/internal/thread"
	"github.com/lumian-ai/sellerchat/internal/turn"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger log.Logger

	Genkit      *genkit.Genkit
	DBPool      *pgxpool.Pool
	ThreadStore thread.Store
	FactStore   *facts.Store
	TurnServer  *turn.Server
	Handler     http.Handler
}

// Close gracefully shuts down all resources.
func (a *App) Close() error {
	a.Logger.Info("shutting down application")

	if a.DBPool != nil {
		a.DBPool.Close()
		a.Logger.Info("database pool closed")
	}

	return nil
}

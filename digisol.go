// Package digisol wires together the DigiSol client SDK: a token store, the
// shared HTTP pipeline, the account endpoints, and the session manager that
// coordinates the authentication lifecycle across them.
//
// Most applications call NewSession once at startup, run Restore, and gate
// on WaitReady before touching protected resources:
//
//	cfg, err := config.Load()
//	manager, api, err := digisol.NewSession(cfg)
//	go manager.Restore(ctx)
//	if err := manager.WaitReady(ctx); err != nil { ... }
package digisol

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/digisolai/digisol.ai-sub000/accounts"
	"github.com/digisolai/digisol.ai-sub000/config"
	"github.com/digisolai/digisol.ai-sub000/httpclient"
	"github.com/digisolai/digisol.ai-sub000/logging"
	"github.com/digisolai/digisol.ai-sub000/session"
)

// NewSession builds the full client stack from the configuration. The
// returned HTTP client is the shared pipeline for any further backend calls
// the application makes; its session-eviction policy feeds back into the
// returned manager.
func NewSession(cfg *config.Config, options ...session.ManagerOption) (*session.Manager, *httpclient.Client, error) {
	if cfg == nil {
		return nil, nil, errors.New("[NewSession] config is required")
	}
	logger := logging.New(cfg.Environment)

	store, err := cfg.BuildStore()
	if err != nil {
		return nil, nil, errors.Wrap(err, "[NewSession] build token store")
	}

	// The manager does not exist yet when the pipeline is constructed; the
	// closure resolves it late so eviction reaches the manager's state.
	var manager *session.Manager
	hc, err := httpclient.New(cfg.API.BaseURL, store,
		httpclient.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		httpclient.WithLogger(logger),
		httpclient.WithOnSessionExpired(func() {
			if manager != nil {
				manager.HandleSessionExpired()
			}
		}),
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[NewSession] build http client")
	}

	api, err := accounts.NewClient(hc)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[NewSession] build accounts client")
	}

	managerOptions := append([]session.ManagerOption{session.WithLogger(logger)}, options...)
	manager, err = session.NewManager(store, api, managerOptions...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[NewSession] build session manager")
	}
	return manager, hc, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/hirechat/internal/api"
	"github.com/jonathan/hirechat/internal/config"
	"github.com/jonathan/hirechat/internal/history"
	"github.com/jonathan/hirechat/internal/observability"
	"github.com/jonathan/hirechat/internal/session"
	"github.com/jonathan/hirechat/internal/types"
)

// Role gate messages.
const (
	applicantOnly = "You must be an applicant to view this dashboard."
	managerOnly   = "You must be a hiring manager to use this command."
)

// app bundles what every command needs: configuration, the API client and the session.
type app struct {
	cfg      *config.Config
	client   *api.Client
	sessions *session.Manager
	printer  *observability.Printer

	historyPath string
}

// loadConfig resolves the effective configuration: file, environment, defaults, then flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if flagAPIBase != "" {
		cfg.APIBase = flagAPIBase
	}
	if flagSessionFile != "" {
		cfg.SessionFile = flagSessionFile
	}
	if flagTimeout != "" {
		cfg.Timeout = flagTimeout
	}
	if verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		logLevel.Set(slog.LevelDebug)
	}

	client, err := api.New(cfg.APIBase, api.WithTimeout(cfg.TimeoutDuration()))
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	sessionPath := cfg.SessionFile
	if sessionPath == "" {
		sessionPath, err = session.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	historyPath := cfg.HistoryFile
	if historyPath == "" {
		historyPath = filepath.Join(filepath.Dir(sessionPath), "history.db")
	}

	slog.Debug("configuration loaded",
		slog.String("api_base", client.BaseURL()),
		slog.String("session_file", sessionPath),
		slog.String("history_file", historyPath),
		slog.Duration("timeout", cfg.TimeoutDuration()),
	)

	return &app{
		cfg:         cfg,
		client:      client,
		sessions:    session.NewManager(session.NewStore(sessionPath), client),
		printer:     observability.NewPrinter(cmd.OutOrStdout()),
		historyPath: historyPath,
	}, nil
}

func (a *app) openHistory() (*history.Store, error) {
	return history.Open(a.historyPath)
}

// authenticated restores the saved session and checks the user's role.
// With no roles given any logged-in user is accepted.
func (a *app) authenticated(ctx context.Context, roles ...types.Role) (*session.Session, *api.Client, error) {
	sess, err := a.sessions.Restore(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNotLoggedIn) {
			return nil, nil, fmt.Errorf("%w: run 'hirechat login' first", err)
		}
		return nil, nil, err
	}

	if len(roles) > 0 && !hasRole(sess.Role(), roles) {
		if roles[0] == types.RoleApplicant {
			return nil, nil, errors.New(applicantOnly)
		}
		return nil, nil, errors.New(managerOnly)
	}

	slog.Debug("session restored", slog.String("email", sess.User.Email), slog.String("role", string(sess.Role())))
	return sess, a.client.WithToken(sess.Token), nil
}

func hasRole(role types.Role, allowed []types.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

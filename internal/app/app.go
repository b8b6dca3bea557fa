package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/pocketspice/internal/config"
	"github.com/five82/pocketspice/internal/keystore"
	"github.com/five82/pocketspice/internal/logging"
	"github.com/five82/pocketspice/internal/prefs"
	"github.com/five82/pocketspice/internal/session"
	"github.com/five82/pocketspice/internal/spice"
	"github.com/five82/pocketspice/internal/state"
	"github.com/five82/pocketspice/internal/ui"
)

// Options configure the pocketspice application.
type Options struct {
	ConfigPath   string
	PrefsPath    string        // empty uses default ~/.config/pocketspice/prefs.toml
	Mock         *bool         // overrides use_mock when set
	Ephemeral    bool          // keep tokens in memory only
	RefreshEvery time.Duration // background listing refresh; zero uses default
	Console      io.Writer     // mirror log events here (CLI commands)
}

// Env is the wired set of collaborators shared by the TUI and CLI commands.
type Env struct {
	Config   config.Config
	Prefs    prefs.Prefs
	Logger   zerolog.Logger
	Keystore keystore.Store
	API      spice.API
	Session  *session.Manager
	Store    *state.Store

	closer io.Closer
}

// Close releases the log file.
func (e *Env) Close() error {
	if e == nil || e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

// Bootstrap loads configuration and builds every collaborator. It performs
// no network calls.
func Bootstrap(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.Mock != nil {
		cfg.UseMock = *opts.Mock
	}

	logger, closer, err := logging.New(cfg, opts.Console)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	var store keystore.Store
	if opts.Ephemeral {
		store = keystore.NewMemory(nil)
	} else {
		fs, err := keystore.OpenFile(cfg.SessionFile)
		if err != nil {
			_ = closer.Close()
			return nil, fmt.Errorf("open session store: %w", err)
		}
		store = fs
	}

	api, err := spice.New(cfg, store, logger)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init recipe client: %w", err)
	}

	logger.Debug().
		Str("api_base_url", cfg.APIBaseURL).
		Bool("mock", cfg.UseMock).
		Bool("ephemeral", opts.Ephemeral).
		Msg("bootstrap complete")

	return &Env{
		Config:   cfg,
		Prefs:    userPrefs,
		Logger:   logger,
		Keystore: store,
		API:      api,
		Session:  session.New(api, store, logger),
		Store:    &state.Store{},
		closer:   closer,
	}, nil
}

// Run boots the TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	env, err := Bootstrap(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	env.Session.Initialize(ctx)

	listing := state.Listing{Page: 1, PageSize: env.Prefs.PageSize}
	if err := env.Store.Load(ctx, env.API, listing); err != nil {
		env.Logger.Warn().Err(err).Msg("initial recipe load failed")
	}

	interval := defaultRefreshInterval
	if opts.RefreshEvery > 0 {
		interval = opts.RefreshEvery
	}
	StartPoller(ctx, env.Store, env.API, interval, env.Logger)

	return ui.Run(ui.Options{
		Context:   ctx,
		API:       env.API,
		Session:   env.Session,
		Store:     env.Store,
		Config:    &env.Config,
		Logger:    env.Logger,
		Tick:      time.Second,
		ThemeName: env.Prefs.Theme,
		PageSize:  env.Prefs.PageSize,
		PrefsPath: opts.PrefsPath,
	})
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/bandprep/internal/app"
	"github.com/abhisek/bandprep/internal/config"
	"github.com/abhisek/bandprep/internal/llm"
	"github.com/abhisek/bandprep/internal/logger"
	"github.com/abhisek/bandprep/internal/media"
	"github.com/abhisek/bandprep/internal/review"
	"github.com/abhisek/bandprep/internal/screen"
	sessionscreen "github.com/abhisek/bandprep/internal/screens/session"
	"github.com/abhisek/bandprep/internal/store"
	"github.com/abhisek/bandprep/internal/submit"
)

// runtime holds what every command that touches the store shares.
type runtime struct {
	cfg     *config.Config
	log     zerolog.Logger
	store   *store.Store
	logFile io.Closer
}

// openRuntime loads config, opens the log file and the store. The caller
// must Close it.
func openRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg := config.Load()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	rt := &runtime{cfg: cfg}
	logPath := cfg.LogFile
	if logPath == "" {
		dir, err := store.DataDir()
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		logPath = filepath.Join(dir, "bandprep.log")
	}
	f, err := logger.OpenFile(logPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "log file unavailable:", err)
		rt.log = zerolog.Nop()
	} else {
		rt.logFile = f
		rt.log = logger.Setup(cfg.LogLevel, cfg.LogFormat, f)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	rt.store = st
	return rt, nil
}

func (rt *runtime) Close() {
	if rt.store != nil {
		rt.store.Close()
	}
	if rt.logFile != nil {
		rt.logFile.Close()
	}
}

// reviewer builds the optional essay reviewer. An explicitly selected
// provider wins over one discovered from well-known API key variables.
func (rt *runtime) reviewer(ctx context.Context) (*review.Reviewer, error) {
	cfg := llm.ConfigFromEnv()
	if os.Getenv("BANDPREP_LLM_PROVIDER") == "" {
		if discovered, ok := llm.DiscoverConfig(); ok {
			cfg = discovered
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	provider, err := llm.NewProvider(ctx, cfg, rt.store.JournalRepo(), rt.log)
	if err != nil {
		return nil, err
	}
	return review.NewReviewer(provider, review.DefaultConfig(), rt.log), nil
}

// sessionDeps wires the collaborators every test session needs.
func (rt *runtime) sessionDeps(ctx context.Context) sessionscreen.Deps {
	opts := []submit.Option{submit.WithLogger(rt.log)}
	if rt.cfg.SubmitTimeout > 0 {
		opts = append(opts, submit.WithHTTPClient(&http.Client{Timeout: rt.cfg.SubmitTimeout}))
	}
	submitter := submit.NewClient(rt.cfg.ResultsURL, opts...)

	deps := sessionscreen.Deps{
		Identity:  rt.cfg.Identity(),
		Submitter: submitter,
		Journal:   rt.store.JournalRepo(),
		Player:    media.NewLogPlayer(rt.log),
		Recorder:  media.NewTypedRecorder(rt.log),
		Logger:    rt.log,
	}
	reviewer, err := rt.reviewer(ctx)
	if err != nil {
		rt.log.Info().Err(err).Msg("essay review unavailable")
	} else {
		deps.Reviewer = reviewer
	}
	return deps
}

// runApp opens the store, builds dependencies, and launches the TUI. A
// non-nil initial builds the first screen in place of the home menu.
func runApp(cmd *cobra.Command, initial func(sessionscreen.Deps) screen.Screen) error {
	ctx := cmd.Context()
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	opts := app.Options{
		Session: rt.sessionDeps(ctx),
		Journal: rt.store.JournalRepo(),
	}
	if initial != nil {
		opts.Initial = initial(opts.Session)
	}
	rt.log.Info().Str("results_url", rt.cfg.ResultsURL).Msg("starting")
	return app.Run(opts)
}

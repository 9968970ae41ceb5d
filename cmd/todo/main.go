package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tasknest/internal/config"
	"tasknest/internal/draft"
	"tasknest/internal/logging"
	"tasknest/internal/storage"
	"tasknest/internal/ui"
)

type rootOptions struct {
	configPath string
	session    string
	logLevel   string
}

// app is everything a command needs once config has been resolved.
type app struct {
	cfg     config.Config
	store   *storage.Store
	drafts  draft.Store
	closers []io.Closer
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			log.Warn().Err(err).Msg("close")
		}
	}
}

func openApp(opts *rootOptions, interactive bool, stderr io.Writer) (*app, error) {
	path := opts.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	firstLaunch := false
	if _, err := os.Stat(path); err != nil {
		firstLaunch = errors.Is(err, os.ErrNotExist)
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("apply env: %w", err)
	}
	if opts.session != "" {
		cfg.Session = opts.session
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	a := &app{cfg: cfg}
	if interactive {
		f, err := logging.SetupFile(cfg.LogFile, cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, f)
	} else {
		logging.Setup(stderr, cfg.LogLevel)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.store = store
	a.closers = append(a.closers, store)

	// No-op once the categories table has rows.
	if err := store.SeedCategories(); err != nil {
		a.Close()
		return nil, fmt.Errorf("seed categories: %w", err)
	}
	if firstLaunch {
		log.Info().Str("config", path).Msg("first launch, wrote default config")
	}

	switch cfg.DraftBackend {
	case config.BackendMemory:
		a.drafts = draft.NewMemoryStore()
	case config.BackendRedis:
		client, err := draft.DialRedis(cfg.RedisAddr)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, client)
		a.drafts = draft.NewRedisStore(client, cfg.Session, cfg.TTL())
	case config.BackendSQLite, "":
		a.drafts = store.Drafts(cfg.Session)
	default:
		a.Close()
		return nil, fmt.Errorf("unknown draft backend %q", cfg.DraftBackend)
	}
	log.Debug().Str("backend", cfg.DraftBackend).Str("session", cfg.Session).Msg("draft store ready")
	return a, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "todo",
		Short:         "A terminal todo list.",
		Long:          `todo opens an interactive task list. Unsaved new-task drafts are kept per session and restored the next time the form is opened.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts, true, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()
			return ui.Run(a.store, a.drafts, a.cfg)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config.toml (default: $TODO_CONFIG or the user config dir).")
	root.PersistentFlags().StringVar(&opts.session, "session", "", "Draft session name.")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error).")

	root.AddCommand(newAddCmd(opts), newListCmd(opts), newDraftCmd(opts))
	return root
}

// reportedError wraps a failure that was already shown to the user.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func printError(w io.Writer, err error) {
	var reported reportedError
	if errors.As(err, &reported) {
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

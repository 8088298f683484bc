package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/taskflow/internal/board"
	"github.com/Makepad-fr/taskflow/internal/config"
	"github.com/Makepad-fr/taskflow/internal/logging"
	"github.com/Makepad-fr/taskflow/internal/store"
	"github.com/Makepad-fr/taskflow/internal/store/jsonstore"
	"github.com/Makepad-fr/taskflow/internal/store/memstore"
	"github.com/Makepad-fr/taskflow/internal/store/redisstore"
	"github.com/Makepad-fr/taskflow/internal/tasks"
	"github.com/Makepad-fr/taskflow/internal/tui"
	"github.com/Makepad-fr/taskflow/internal/ui"
)

// Main resolves configuration from args, opens the board and runs the
// subcommand. It returns the process exit code.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("taskflow", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			PrintHelp(stdout)
			return ExitOK
		}
		ui.Fail(stderr, err.Error())
		return ExitUsage
	}
	rest := fs.Args()
	if len(rest) > 0 && (rest[0] == "help" || rest[0] == "-h" || rest[0] == "--help") {
		PrintHelp(stdout)
		return ExitOK
	}

	ui.SetColorForcing(false, cfg.NoColor)
	if err := ui.SetTheme(cfg.Theme); err != nil {
		ui.Fail(stderr, err.Error())
		return ExitUsage
	}

	// The board owns the terminal; without a log file its logs are dropped.
	var fallback io.Writer = stderr
	if len(rest) == 0 || rest[0] == "board" {
		fallback = io.Discard
	}
	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	}, fallback)
	if err != nil {
		ui.Fail(stderr, err.Error())
		return ExitUsage
	}
	defer closer.Close()

	kv, st, err := Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("open board", "err", err)
		ui.Fail(stderr, err.Error())
		return ExitError
	}
	defer kv.Close()

	r := &Runner{
		Out:    stdout,
		Err:    stderr,
		Board:  board.New(st, board.WithLogger(logger)),
		Store:  st,
		Logger: logger,
		Interactive: func(ctx context.Context, ctrl *board.Controller, notice string) error {
			return tui.Run(ctx, ctrl, tui.WithNotice(notice), tui.WithLogger(logger))
		},
	}
	return r.Run(ctx, rest)
}

// Open connects the configured backend and loads the task store from it.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (store.KV, *tasks.Store, error) {
	kv, err := OpenKV(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	mode, err := tasks.ParseMode(cfg.Validation)
	if err != nil {
		_ = kv.Close()
		return nil, nil, err
	}
	st, err := tasks.Open(ctx, kv,
		tasks.WithKey(cfg.Key),
		tasks.WithValidation(mode),
		tasks.WithLogger(logger),
	)
	if err != nil {
		_ = kv.Close()
		return nil, nil, err
	}
	return kv, st, nil
}

func OpenKV(ctx context.Context, cfg *config.Config) (store.KV, error) {
	switch cfg.Storage {
	case config.StorageFile:
		return jsonstore.New(cfg.DataFile)
	case config.StorageMemory:
		return memstore.New(), nil
	case config.StorageRedis:
		return redisstore.Dial(ctx, cfg.Redis.URL, cfg.Redis.Prefix)
	}
	return nil, fmt.Errorf("storage: unknown backend %q", cfg.Storage)
}

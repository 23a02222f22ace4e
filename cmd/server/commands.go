package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ouvrages/livre-api/internal/config"
	"github.com/ouvrages/livre-api/internal/platform/logger"
	"github.com/ouvrages/livre-api/internal/platform/postgres"
	"github.com/ouvrages/livre-api/internal/service/auth"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "livre-api",
		Short:         "REST API for the book catalogue",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		&cobra.Command{
			Use:       "migrate [up|down|status|version|reset]",
			Short:     "Apply or inspect database migrations",
			Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
			ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateStatus, postgres.MigrateVersion, postgres.MigrateReset},
			RunE:      runMigrate,
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Insert the initial data set into an empty database",
			Args:  cobra.NoArgs,
			RunE:  runSeed,
		},
		newHashPasswordCommand(),
	)
	return root
}

// bootstrap loads the configuration and sets up logging.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))
	return cfg, log, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	if cfg.Database.SeedOnStart {
		if _, err := app.seeder.Run(ctx); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	return app.Run(ctx)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(cmd.Context(), cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	version, err := postgres.Migrate(cmd.Context(), db, args[0], log)
	if err != nil {
		return err
	}
	if args[0] == postgres.MigrateVersion {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\n", version)
	}
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(cmd.Context(), cfg.Database, log)
	if err != nil {
		return err
	}

	app, err := newApplication(cmd.Context(), cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	result, err := app.seeder.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	if result.Skipped {
		fmt.Fprintln(cmd.OutOrStdout(), "database already contains users, nothing to do")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded admin user %d and book %d\n", result.Admin.ID, result.Book.ID)
	return nil
}

func newHashPasswordCommand() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print the bcrypt hash of a password read from the terminal or stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			hash, err := auth.NewBcryptHasher(cost).Hash(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost factor")
	return cmd
}

// readPassword prompts without echo when in is a terminal and reads one
// line otherwise.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(raw), nil
	}

	raw, err := io.ReadAll(io.LimitReader(in, 1024))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(string(raw), "\r\n")
	if password == "" {
		return "", errors.New("empty password")
	}
	return password, nil
}

// Package main provides the clinic binary entry point: the HTTP API plus
// the maintenance commands run by operators and cron.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"clinic-admin-backend/internal/config"
	"clinic-admin-backend/internal/database"
	"clinic-admin-backend/internal/repository"
	"clinic-admin-backend/internal/server"
	"clinic-admin-backend/internal/service"
	"clinic-admin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const appName = "clinic"

var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Clinic records backend",
		Long: `Clinic records backend: specialties, doctors, patients and appointments
behind a JWT-protected JSON API.

Configuration comes from the environment (a .env file is loaded if present),
optionally overlaid on a YAML file given with --config.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")

	cmd.AddCommand(
		serveCmd(&flags),
		migrateCmd(&flags),
		createUserCmd(&flags),
		pruneTokensCmd(&flags),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)
	return cmd
}

func serveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the schema and serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, db, err := bootstrap(flags)
			if err != nil {
				return err
			}

			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			gin.SetMode(cfg.Server.GinMode)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.New(cfg, db, logger).Run(ctx)
		},
	}
}

func migrateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, db, err := bootstrap(flags)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Info("Schema migrated")
			return nil
		},
	}
}

func createUserCmd(flags *globalFlags) *cobra.Command {
	var in service.RegisterInput

	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Create a staff account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, db, err := bootstrap(flags)
			if err != nil {
				return err
			}
			if in.Password == "" {
				in.Password = os.Getenv("CLINIC_PASSWORD")
			}
			in.PasswordConfirm = in.Password

			user, err := authService(cfg, db, logger).CreateUser(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Username, "username", "", "Login name")
	cmd.Flags().StringVar(&in.Email, "email", "", "Contact email")
	cmd.Flags().StringVar(&in.Password, "password", "", "Password (defaults to $CLINIC_PASSWORD)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func pruneTokensCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "prune-tokens",
		Short: "Delete expired and revoked refresh tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, db, err := bootstrap(flags)
			if err != nil {
				return err
			}
			n, err := authService(cfg, db, logger).PruneRefreshTokens(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d refresh tokens\n", n)
			return nil
		},
	}
}

// bootstrap loads configuration, installs the default logger and opens the database
func bootstrap(flags *globalFlags) (*config.Config, *slog.Logger, *gorm.DB, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}

	logger := newLogger(os.Stderr, cfg.Log)
	slog.SetDefault(logger)
	logger.Debug("Configuration loaded", "env", cfg.App.Env, "driver", cfg.Database.Driver)

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, db, nil
}

func authService(cfg *config.Config, db *gorm.DB, logger *slog.Logger) *service.AuthService {
	jwt := utils.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
	return service.NewAuthService(repository.NewUserRepo(db), jwt, logger)
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

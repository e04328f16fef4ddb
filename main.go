package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/dskvich/image-telegram-bot/pkg/admin"
	"github.com/dskvich/image-telegram-bot/pkg/auth"
	"github.com/dskvich/image-telegram-bot/pkg/config"
	"github.com/dskvich/image-telegram-bot/pkg/converter"
	"github.com/dskvich/image-telegram-bot/pkg/database"
	"github.com/dskvich/image-telegram-bot/pkg/digitalocean"
	"github.com/dskvich/image-telegram-bot/pkg/domain"
	"github.com/dskvich/image-telegram-bot/pkg/gemini"
	"github.com/dskvich/image-telegram-bot/pkg/i18n"
	"github.com/dskvich/image-telegram-bot/pkg/logger"
	"github.com/dskvich/image-telegram-bot/pkg/openai"
	"github.com/dskvich/image-telegram-bot/pkg/repository"
	"github.com/dskvich/image-telegram-bot/pkg/services"
	"github.com/dskvich/image-telegram-bot/pkg/storage"
	"github.com/dskvich/image-telegram-bot/pkg/telegram"
	"github.com/dskvich/image-telegram-bot/pkg/workers"
)

const sessionSweepInterval = 5 * time.Minute

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := newRootCmd().Execute(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "image-telegram-bot",
		Short:         "Telegram bot for Gemini image generation",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return runServe(cmd.Context()) },
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the bot and the admin console",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, _ []string) error { return runServe(cmd.Context()) },
		},
		&cobra.Command{
			Use:       "migrate [up|down]",
			Short:     "Apply or roll back one step of the database schema",
			Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
			ValidArgs: []string{"up", "down"},
			RunE: func(_ *cobra.Command, args []string) error {
				return runMigrate(args[0])
			},
		},
		&cobra.Command{
			Use:   "grant-admin <telegram-user-id>",
			Short: "Mark a Telegram user as bot administrator",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runGrantAdmin(cmd.Context(), args[0])
			},
		},
	)

	return root
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := setupLogger(cfg); err != nil {
		return err
	}

	ctx, cancelFn := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancelFn()

	workerGroup, err := setupWorkers(ctx, cfg)
	if err != nil {
		return err
	}

	if err := workerGroup.Start(ctx); err != nil {
		return err
	}
	slog.Info("shutdown complete")
	return nil
}

func setupLogger(cfg *config.Config) error {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	opts := *logger.DefaultOptions
	opts.Level = level
	opts.NoColor = cfg.LogNoColor
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, &opts)))
	return nil
}

func setupWorkers(ctx context.Context, cfg *config.Config) (workers.Group, error) {
	var workerGroup workers.Group

	texts, err := i18n.Load()
	if err != nil {
		return nil, fmt.Errorf("loading texts: %w", err)
	}

	telegramClient, err := telegram.NewClient(cfg.TelegramBotToken, cfg.TelegramUpdateTimeout)
	if err != nil {
		return nil, fmt.Errorf("creating telegram client: %w", err)
	}
	if err := telegramClient.SetCommands(ctx, botCommands(texts)); err != nil {
		slog.Warn("registering bot commands", logger.Err(err))
	}

	db, err := database.NewPostgres(cfg.PgURL, cfg.PgHost)
	if err != nil {
		return nil, fmt.Errorf("creating db: %w", err)
	}
	if err := database.Migrate(db, database.Up); err != nil {
		return nil, err
	}

	geminiClient, err := gemini.NewClient(cfg.GeminiAPIKey,
		gemini.WithBaseURL(cfg.GeminiBaseURL),
		gemini.WithModels(cfg.GeminiImageModel, cfg.GeminiTextModel),
	)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	sessionsRepository := repository.NewSessionsRepository(cfg.SessionTTL)
	usersRepository := repository.NewUsersRepository(db, cfg.DefaultAllowance)
	generationsRepository := repository.NewGenerationsRepository(db)
	pricingRepository := repository.NewPricingRepository(db)

	opts := []services.DialogueOption{services.WithAdminURL(cfg.AdminURL)}

	if cfg.OpenAIToken != "" {
		transcriber, err := openai.NewTranscriber(cfg.OpenAIToken)
		if err != nil {
			return nil, fmt.Errorf("creating transcriber: %w", err)
		}
		opts = append(opts, services.WithVoice(services.NewVoiceService(&converter.OggToMP3{}, transcriber)))
	} else {
		slog.Info("OPEN_AI_TOKEN is not set, voice prompts are disabled")
	}

	archive, err := storage.New(cfg.Archive)
	if err != nil {
		return nil, fmt.Errorf("creating image archive: %w", err)
	}
	if archive != nil {
		opts = append(opts, services.WithArchive(archive))
	}

	if cfg.DigitalOceanToken != "" {
		opts = append(opts, services.WithBalance(digitalocean.NewClient(cfg.DigitalOceanToken)))
	}

	dialogueService := services.NewDialogueService(
		telegramClient,
		sessionsRepository,
		usersRepository,
		generationsRepository,
		geminiClient,
		texts,
		opts...,
	)

	listener, err := workers.NewTelegramUpdateListener(
		telegramClient,
		auth.NewAuthenticator(cfg.TelegramAuthorizedUserIDs),
		telegram.NewHandler(dialogueService),
		texts,
	)
	if err != nil {
		return nil, err
	}
	workerGroup = append(workerGroup, listener)
	workerGroup = append(workerGroup, workers.NewSessionSweeper(sessionsRepository, sessionSweepInterval))

	if cfg.AdminEnabled() {
		router, err := admin.NewRouter(admin.Config{
			Password:     cfg.AdminPassword,
			PasswordHash: cfg.AdminPasswordHash,
			JWTSecret:    cfg.AdminJWTSecret,
			SessionTTL:   cfg.AdminSessionTTL,
		}, usersRepository, generationsRepository, pricingRepository)
		if err != nil {
			return nil, fmt.Errorf("creating admin console: %w", err)
		}
		workerGroup = append(workerGroup, workers.NewAdminServer(cfg.AdminAddr, router))
	} else {
		slog.Info("admin console disabled, set ADMIN_JWT_SECRET and ADMIN_PASSWORD to enable it")
	}

	return workerGroup, nil
}

func botCommands(texts *i18n.Catalog) map[domain.Locale][]tgbotapi.BotCommand {
	commands := make(map[domain.Locale][]tgbotapi.BotCommand, len(domain.Locales))
	for _, l := range domain.Locales {
		commands[l] = []tgbotapi.BotCommand{
			{Command: "start", Description: texts.Text(l, i18n.CommandStart)},
			{Command: "help", Description: texts.Text(l, i18n.CommandHelp)},
			{Command: "cancel", Description: texts.Text(l, i18n.CommandCancel)},
			{Command: "language", Description: texts.Text(l, i18n.CommandLanguage)},
		}
	}
	return commands
}

func runMigrate(direction string) error {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}
	db, err := database.NewPostgres(cfg.PgURL, cfg.PgHost)
	if err != nil {
		return fmt.Errorf("creating db: %w", err)
	}
	defer db.Close()

	dir := database.Up
	if direction == "down" {
		dir = database.Down
	}
	return database.Migrate(db, dir)
}

func runGrantAdmin(ctx context.Context, rawID string) error {
	id, err := parseUserID(rawID)
	if err != nil {
		return err
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}
	db, err := database.NewPostgres(cfg.PgURL, cfg.PgHost)
	if err != nil {
		return fmt.Errorf("creating db: %w", err)
	}
	defer db.Close()

	if err := repository.NewUsersRepository(db, domain.DefaultAllowance).GrantAdmin(ctx, id); err != nil {
		return err
	}
	slog.Info("admin granted", "user_id", id)
	return nil
}

func parseUserID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid telegram user id %q", s)
	}
	return id, nil
}

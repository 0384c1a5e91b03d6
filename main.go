package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"orderbot/internal/api"
	"orderbot/internal/auth"
	"orderbot/internal/commit"
	"orderbot/internal/config"
	"orderbot/internal/constants"
	"orderbot/internal/db"
	"orderbot/internal/events"
	"orderbot/internal/handlers"
	"orderbot/internal/models"
	"orderbot/internal/orderform"
	"orderbot/internal/pricing"
	"orderbot/internal/session"
	"orderbot/internal/sheets"
	"orderbot/internal/telegram_api"
)

const shutdownTimeout = 10 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:           "orderbot",
		Short:         "Telegram-бот приема заказов",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Usage()
			os.Exit(1)
			return nil
		},
	}
	rootCmd.AddCommand(
		runCommand(),
		createAdminCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		_ = rootCmd.Usage()
		os.Exit(1)
	}
}

func runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "запустить бота и служебный HTTP-сервер",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runService(ctx)
		},
	}
}

func createAdminCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run_create_admin",
		Short: "создать аккаунт администратора",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return createAdmin(cmd.Context(), os.Stdin, cmd.OutOrStdout())
		},
	}
}

// --- Блок инициализации ---

func runService(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := db.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer store.Close()

	bot, err := telegram_api.NewBotClient(cfg.TelegramToken, cfg.IsDev(), logger)
	if err != nil {
		return fmt.Errorf("init telegram bot: %w", err)
	}
	if cfg.BotUsername == "" {
		cfg.BotUsername = bot.Username()
	}
	if err := bot.SetCommands(telegram_api.BotCommands(constants.BotCommandDescriptions)); err != nil {
		logger.Warn("Не удалось зарегистрировать команды бота", zap.Error(err))
	}

	mirrors, closeMirrors := buildMirrors(ctx, cfg, logger)
	defer closeMirrors()

	sessionManager := session.NewSessionManager(logger)
	pipeline := commit.NewPipeline(store, store, bot, cfg.GroupChatID, logger, mirrors...)
	authenticator := auth.NewAuthenticator(store, bot, logger)
	machine := orderform.NewMachine(sessionManager, pricing.NewCalculator(pricing.DefaultCatalog()), pipeline, logger)

	botHandler := handlers.NewBotHandler(handlers.HandlerDependencies{
		Config:         cfg,
		Messenger:      bot,
		SessionManager: sessionManager,
		Authenticator:  authenticator,
		OrderForm:      machine,
		Store:          store,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(api.ApiDependencies{Store: store, AdminToken: cfg.AdminAPIToken, Logger: logger}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := bot.GetUpdatesChan(u)
	if err != nil {
		return fmt.Errorf("get updates: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return botHandler.Run(gctx, updates)
	})
	g.Go(func() error {
		logger.Info("Запуск HTTP-сервера", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return sessionManager.RunJanitor(gctx, cfg.SessionSweepInterval, cfg.SessionIdleTTL)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Остановка бота и HTTP-сервера")
		bot.StopReceivingUpdates()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	logger.Info("Бот и HTTP-сервер запущены", zap.String("bot", cfg.BotUsername), zap.Int("mirrors", len(mirrors)))
	return g.Wait()
}

// buildMirrors подключает необязательные приемники заказов. Ошибка подключения
// отключает только соответствующее зеркало.
func buildMirrors(ctx context.Context, cfg *config.Config, logger *zap.Logger) ([]commit.Mirror, func()) {
	var mirrors []commit.Mirror
	var closers []func()

	if cfg.SheetsEnabled() {
		client, err := sheets.NewGoogleClient(ctx, cfg.SheetsCredentialsFile)
		if err != nil {
			logger.Error("Google Sheets отключен", zap.Error(err))
		} else {
			mirrors = append(mirrors, sheets.NewMirror(client, client, cfg.SheetsSpreadsheetID, cfg.SheetsSpreadsheetName, logger))
		}
	}

	if cfg.KafkaEnabled() {
		producer, err := events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.Error("Kafka отключена", zap.Strings("brokers", cfg.KafkaBrokers), zap.Error(err))
		} else {
			publisher := events.NewPublisher(producer, cfg.KafkaOrderTopic, logger)
			mirrors = append(mirrors, publisher)
			closers = append(closers, func() {
				if err := publisher.Close(); err != nil {
					logger.Warn("Ошибка закрытия Kafka producer", zap.Error(err))
				}
			})
		}
	}

	return mirrors, func() {
		for _, c := range closers {
			c()
		}
	}
}

// createAdmin запрашивает логин и пароль и создает аккаунт администратора.
func createAdmin(ctx context.Context, in *os.File, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateDatabase(); err != nil {
		return err
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	reader := bufio.NewReader(in)
	login := ""
	for login == "" {
		fmt.Fprint(out, "Login: ")
		line, err := reader.ReadString('\n')
		login = strings.TrimSpace(line)
		if err != nil && login == "" {
			return fmt.Errorf("read login: %w", err)
		}
	}

	var hash string
	for {
		secret, err := readSecret(in, reader, out)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		hash, err = auth.HashPassword(secret)
		if errors.Is(err, auth.ErrPasswordTooShort) {
			fmt.Fprintln(out, "Parol kamida 4 ta belgidan iborat bo'lishi kerak.")
			continue
		}
		if err != nil {
			return err
		}
		break
	}

	store, err := db.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer store.Close()

	acct, err := store.CreateAccount(ctx, models.Account{
		Login:        login,
		FullName:     "Admin",
		PhoneNumber:  "900000000",
		PasswordHash: hash,
		Role:         constants.ROLE_ADMIN,
	})
	if err != nil {
		return fmt.Errorf("create admin %q: %w", login, err)
	}
	fmt.Fprintf(out, "Admin %s yaratildi (id %d).\n", acct.Login, acct.ID)
	return nil
}

// readSecret читает пароль без эха, если stdin - терминал.
func readSecret(in *os.File, reader *bufio.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Parol: ")
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		return strings.TrimSpace(string(b)), err
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

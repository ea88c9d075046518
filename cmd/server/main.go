package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/cache"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/config"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/handlers"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/middleware"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/notify"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/repository"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "server",
		Short: "Alumni network connections and messaging API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
		SilenceUsage: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the notification worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := repository.InitDB(cfg)
			if err != nil {
				return err
			}
			if err := repository.Migrate(db); err != nil {
				return err
			}
			jww.INFO.Println("Migration complete")
			return nil
		},
	})

	var (
		userID uint
		ttl    time.Duration
	)
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Print an access token for a user (development only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.IsProd() {
				return fmt.Errorf("refusing to mint tokens in prod")
			}
			token, err := middleware.SignToken(cfg.JWTSecret, userID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	tokenCmd.Flags().UintVar(&userID, "user", 0, "user id to put in the token")
	tokenCmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
	root.AddCommand(tokenCmd)

	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.ConfigureLogging()
	return cfg, nil
}

func serve() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := repository.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if err := repository.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := redisCache.Ping(ctx); err != nil {
		jww.WARN.Printf("Redis connection failed: %v. Running without cache.", err)
		redisCache = nil
	} else {
		jww.INFO.Println("Redis cache connected successfully")
		defer redisCache.Close()
	}
	inboxCache := cache.NewInboxCache(redisCache)
	connectionCache := cache.NewConnectionCache(redisCache)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	connRepo := repository.NewConnectionRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.MailgunEnabled() {
		mailer = notify.NewMailgunMailer(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.EmailFrom)
		jww.INFO.Printf("Sending email through Mailgun (%s)", cfg.MailgunDomain)
	} else {
		jww.WARN.Println("Mailgun not configured, notification emails will be logged")
	}
	outbox := notify.NewOutbox(notificationRepo)
	worker := notify.NewWorker(notificationRepo, userRepo, mailer, notify.WorkerConfig{
		Interval:    cfg.NotifyInterval,
		BaseDelay:   cfg.NotifyBaseDelay,
		MaxAttempts: cfg.NotifyMaxAttempts,
		BaseURL:     cfg.PublicBaseURL,
	})
	go worker.Run(ctx)

	// Initialize services
	connectionService := service.NewConnectionService(connRepo, userRepo, outbox)
	messageService := service.NewMessageService(messageRepo, connectionService, userRepo, outbox, service.MessageOptions{
		MaxLength:         cfg.MaxMessageLength,
		RequireConnection: cfg.RequireConnectionToMessage,
	})
	profileService := service.NewProfileService(userRepo)

	app := fiber.New(fiber.Config{
		AppName:   "Alumni Network",
		BodyLimit: 64 * 1024,
	})
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + middleware.CSRFHeader,
		AllowMethods:     "GET, POST, PATCH, OPTIONS",
		AllowCredentials: cfg.AllowedOrigins != "" && cfg.AllowedOrigins != "*",
	}))

	handlers.RegisterRoutes(app, cfg, handlers.Handlers{
		Connections: handlers.NewConnectionHandler(connectionService, connectionCache),
		Messages:    handlers.NewMessageHandler(messageService, inboxCache),
		Profiles:    handlers.NewProfileHandler(profileService, connectionService),
	})

	go func() {
		<-ctx.Done()
		jww.INFO.Println("Shutting down...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			jww.ERROR.Printf("Shutdown: %v", err)
		}
	}()

	jww.INFO.Printf("Server starting on port %s...", cfg.Port)
	return app.Listen(":" + cfg.Port)
}

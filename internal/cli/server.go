package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quiz-portal/internal/app"
	"quiz-portal/internal/auth"
	"quiz-portal/internal/config"
	"quiz-portal/internal/infra/memory"
	mongostore "quiz-portal/internal/infra/mongo"
	pgstore "quiz-portal/internal/infra/postgres"
	redisstore "quiz-portal/internal/infra/redis"
	"quiz-portal/internal/realtime"
	transport "quiz-portal/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the portal server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	accessSecret := cfg.JWT.AccessSecret
	refreshSecret := cfg.JWT.RefreshSecret
	if accessSecret == "" || refreshSecret == "" {
		log.Println("jwt secrets not configured, using development defaults")
		if accessSecret == "" {
			accessSecret = "dev-access-secret"
		}
		if refreshSecret == "" {
			refreshSecret = "dev-refresh-secret"
		}
	}
	accessTTL := config.TTLDuration(cfg.JWT.AccessTTL, 15*time.Minute)
	refreshTTL := config.TTLDuration(cfg.JWT.RefreshTTL, 7*24*time.Hour)
	tokens := auth.NewTokenManager(accessSecret, refreshSecret, accessTTL, refreshTTL)

	// Store selection: mongo when configured, in-memory otherwise.
	var (
		userStore   app.UserStore
		quizStore   app.QuizStore
		questions   app.QuestionStore
		content     app.QuizContent
		resultStore app.ResultStore
	)
	if cfg.Mongo.URI != "" {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return err
		}
		defer func() {
			_ = client.Disconnect(context.Background())
		}()
		dbName := cfg.Mongo.Database
		if dbName == "" {
			dbName = "quizportal"
		}
		db := client.Database(dbName)
		userStore = mongostore.NewUserStore(db)
		quizzes := mongostore.NewQuizStore(db)
		quizStore, questions, content = quizzes, quizzes, quizzes
		resultStore = mongostore.NewResultStore(db)
		log.Printf("using mongo database %q", dbName)
	} else {
		quizzes := memory.NewQuizStore()
		userStore = memory.NewUserStore()
		quizStore, questions, content = quizzes, quizzes, quizzes
		resultStore = memory.NewResultStore()
		log.Println("using in-memory stores")
	}

	// Read-only quiz documents can also come from postgres.
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		content = pgstore.NewQuizLoader(pool)
		log.Println("serving quiz content from postgres")
	}

	var refreshStore app.TokenStore = memory.NewTokenStore()
	var invalidator app.CacheInvalidator
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		refreshStore = redisstore.NewTokenStore(redisClient)
		quizTTL := config.TTLDuration(cfg.Redis.QuizTTL, 10*time.Minute)
		cache := redisstore.NewQuizCache(redisClient, content, quizTTL)
		content = cache
		invalidator = cache
		log.Printf("redis enabled at %s", cfg.Redis.Addr)
	}

	verifier := auth.NewVerifier(tokens, userStore)
	hub := realtime.NewHub(verifier, log.Default())
	router := realtime.NewRouter(hub, log.Default())

	authService := app.NewAuthService(userStore, tokens, refreshStore, refreshTTL)
	userService := app.NewUserService(userStore)
	quizService := app.NewQuizService(quizStore, questions, router, invalidator)
	resultService := app.NewResultService(content, resultStore, quizStore, router)

	srv := transport.NewServer(authService, userService, quizService, resultService, verifier, hub)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz portal on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	hub.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quizec-service/internal/app"
	"quizec-service/internal/config"
	"quizec-service/internal/infra/memory"
	pgstore "quizec-service/internal/infra/postgres"
	redisinfra "quizec-service/internal/infra/redis"
	transport "quizec-service/internal/transport/http"
)

var errMissingSecret = errors.New("auth jwt secret not configured (auth.jwtSecret or JWT_SECRET)")

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz service",
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

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var (
		quizRepo     app.QuizRepository
		questionRepo app.QuestionRepository
		resultRepo   app.ResultRepository
		userRepo     app.UserRepository
		roomRepo     app.RoomRepository
	)
	if pool != nil {
		store := pgstore.NewStore(pool)
		quizRepo = store
		questionRepo = store
		resultRepo = store
		userRepo = store
		roomRepo = store
	} else {
		quizRepo = memory.NewQuizStore()
		questionRepo = memory.NewQuestionStore()
		resultRepo = memory.NewResultStore()
		userRepo = memory.NewUserStore()
		roomRepo = memory.NewRoomStore()
	}

	quizCacheTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
	roomTTL := config.TTLDuration(cfg.Room.TTL, time.Hour)

	var sessions app.SessionRepository
	if redisClient != nil {
		quizRepo = redisinfra.NewCachedQuizRepository(redisClient, quizRepo, quizCacheTTL)
		roomRepo = redisinfra.NewRoomStore(redisClient, roomTTL)
		sessions = redisinfra.NewSessionStore(redisClient, sessionTTL)
	} else {
		quizRepo = memory.NewCachedQuizRepository(quizRepo, quizCacheTTL)
		sessions = memory.NewSessionStore()
	}

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = os.Getenv("JWT_SECRET")
	}
	if jwtSecret == "" {
		return errMissingSecret
	}
	tokenTTL := config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour)

	authService := app.NewAuthService(userRepo, resultRepo, jwtSecret, tokenTTL)
	quizService := app.NewQuizService(quizRepo, questionRepo, userRepo, sessions)
	sessionService := app.NewSessionService(sessions, quizRepo, questionRepo, resultRepo, userRepo)
	roomService := app.NewRoomService(roomRepo, quizRepo)

	apiHandler := transport.NewAPIHandler(authService, quizService, roomService, sessionService)
	wsHandler := transport.NewWSHandler(sessionService, quizService, authService)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	apiHandler.Register(mux)
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quizec service on :%s", finalPort)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

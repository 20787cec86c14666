package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/codebadge.net/internal/adapter/crypto"
	"gitlab.com/codebadge.net/internal/adapter/logging"
	"gitlab.com/codebadge.net/internal/adapter/memory"
	"gitlab.com/codebadge.net/internal/adapter/postgres/ledgerrepository"
	"gitlab.com/codebadge.net/internal/adapter/redis/tokenport"
	"gitlab.com/codebadge.net/internal/adapter/restapi"
	"gitlab.com/codebadge.net/internal/config"
	"gitlab.com/codebadge.net/internal/core/ports/secondary"
	"gitlab.com/codebadge.net/internal/core/services/auth"
	"gitlab.com/codebadge.net/internal/core/services/xp"
	"gitlab.com/codebadge.net/internal/domain"
	logger2 "gitlab.com/codebadge.net/internal/global/logger"
	http2 "gitlab.com/codebadge.net/internal/http"
)

const usage = `usage: main <env> <command> [args]

commands:
  login <username> <password>
  logout
  solve <challengeId> <language> <file> [run|submit]
  hint <challengeId> <language> <file>
  history [limit]
  demo
`

// app holds the wired components shared by every command
type app struct {
	cfg        *config.AppConfig
	logger     *logging.ZapLogger
	tokens     secondary.TokenStore
	store      *xp.Store
	challenges *restapi.ChallengeService
	auth       auth.IAuthService
	ledger     secondary.LedgerRepository
	closers    []func()
}

func main() {
	InitReader()
	if len(os.Args) < 3 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sysCfg := config.NewSystemConfig()
	logger := logging.NewZapLoggerWithDebug(sysCfg.DebugMode)
	logger2.Logger = logger
	defer logger.Sync()

	cmd, args := os.Args[2], os.Args[3:]
	var err error
	if cmd == "demo" {
		err = runDemo(ctx, sysCfg, logger)
	} else {
		var a *app
		a, err = newApp(ctx, sysCfg, logger)
		if err == nil {
			err = a.dispatch(ctx, cmd, args)
			a.close()
		}
	}
	if err != nil {
		logger2.Error("Command failed", "command", cmd, "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		if len(args) != 2 {
			return fmt.Errorf("login needs <username> <password>")
		}
		return a.login(ctx, args[0], args[1])
	case "logout":
		return a.auth.Logout(ctx)
	case "solve":
		if len(args) < 3 || len(args) > 4 {
			return fmt.Errorf("solve needs <challengeId> <language> <file> [run|submit]")
		}
		mode := "run"
		if len(args) == 4 {
			mode = args[3]
		}
		return a.solve(ctx, args[0], args[1], args[2], mode)
	case "hint":
		if len(args) != 3 {
			return fmt.Errorf("hint needs <challengeId> <language> <file>")
		}
		return a.hint(ctx, args[0], args[1], args[2])
	case "history":
		limit := 20
		if len(args) == 1 {
			if _, err := fmt.Sscanf(args[0], "%d", &limit); err != nil {
				return fmt.Errorf("invalid limit %q", args[0])
			}
		}
		return a.history(ctx, limit)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func newApp(ctx context.Context, sysCfg *config.AppConfig, logger *logging.ZapLogger) (*app, error) {
	a := &app{
		cfg:    sysCfg,
		logger: logger,
		store:  xp.NewStore(domain.User{}),
	}

	if sysCfg.RedisConfig.Enabled {
		redisClient, err := setupRedis(ctx, sysCfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = redisClient.Close() })
		a.tokens = tokenport.NewTokenRepository(redisClient, logger, sysCfg.RedisConfig.Namespace, sysCfg.RedisConfig.TokenTTL)
	} else {
		logger.Warn("Using in-memory token store, the session ends with this process")
		a.tokens = memory.NewTokenStore()
	}

	if sysCfg.PostgresConfig.LedgerEnabled {
		db, err := setupDatabase(sysCfg.PostgresConfig)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		repo := ledgerrepository.NewLedgerRepository(db, logger, sysCfg.PostgresConfig.Schema)
		if err := repo.Migrate(ctx); err != nil {
			_ = db.Close()
			a.close()
			return nil, err
		}
		recorder := xp.NewLedgerRecorder(a.store, repo, logger)
		a.ledger = repo
		// recorder flushes before the database closes
		a.closers = append(a.closers, func() { _ = db.Close() }, recorder.Close)
	}

	decoder := crypto.NewClaimsDecoder()
	refresher := http2.NewRefresher(sysCfg.ApiConfig, sysCfg.AuthConfig, decoder)
	client := http2.NewClient(sysCfg.ApiConfig.BaseURL, sysCfg.ApiConfig.Timeout, a.tokens, refresher, logger,
		http2.WithTokenDecoder(decoder))

	a.challenges = restapi.NewChallengeService(client, logger)
	a.auth = auth.NewSessionAuthService(restapi.NewAuthService(client), a.tokens, decoder, a.store, logger)
	return a, nil
}

// close runs closers in reverse order
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// setupRedis sets up the Redis connection
func setupRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Url,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func InitReader() {
	environment := ""
	if len(os.Args) < 2 {
		log.Fatalf("Env not supplied in argument")
	} else {
		environment = os.Args[1]
	}

	err := godotenv.Load(environment + ".env")
	if err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}

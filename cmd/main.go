package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/gradeworks/internal/adapter/crypto"
	"gitlab.com/gradeworks/internal/adapter/postgres/approachrepository"
	"gitlab.com/gradeworks/internal/adapter/postgres/questionrepository"
	"gitlab.com/gradeworks/internal/adapter/redis/runtoken"
	"gitlab.com/gradeworks/internal/adapter/redis/testcasecache"
	"gitlab.com/gradeworks/internal/adapter/sandbox"
	"gitlab.com/gradeworks/internal/config"
	"gitlab.com/gradeworks/internal/core/services/assembler"
	"gitlab.com/gradeworks/internal/core/services/comparator"
	"gitlab.com/gradeworks/internal/core/services/judge"
	logger2 "gitlab.com/gradeworks/internal/global/logger"
	http2 "gitlab.com/gradeworks/internal/http"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	logger2.Info("Starting judge service")

	logger := logger2.Logger

	sysCfg := config.NewSystemConfig()

	db, err := setupDatabase(sysCfg.PostgresConfig)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password,
		DB:       sysCfg.RedisConfig.DB,
	})
	defer redisClient.Close()

	// SECONDARY PORTS
	questionRepo := questionrepository.NewQuestionRepository(db, logger)
	testCaseRepo := testcasecache.NewCachedRepository(questionRepo, redisClient, logger)
	approachRepo := approachrepository.NewApproachRepository(db, logger)
	runTokenRepo := runtoken.NewTokenRepository(redisClient, logger)
	sandboxClient := sandbox.NewHTTPClient(sysCfg.SandboxConfig.Url, sysCfg.SandboxConfig.Timeout, logger)

	// PRIMARY PORTS
	tokenService := crypto.NewTokenService(sysCfg.JwtConfig)

	// services
	assemblerSvc := assembler.NewAssemblerService(logger)
	comparatorSvc := comparator.NewComparatorService(logger)
	judgeSvc := judge.NewJudgeService(
		assemblerSvc,
		comparatorSvc,
		sandboxClient,
		testCaseRepo,
		approachRepo,
		runTokenRepo,
		logger,
	)
	serviceProvider := http2.NewServiceProvider(judgeSvc, tokenService)

	// server
	httpServer := http2.NewServer(8082, "judge", *serviceProvider, logger)
	if err := httpServer.Init(); err != nil {
		panic(err)
	}
	ctxBg := context.Background()
	httpServer.Start(ctxBg)

	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(ctxBg, 5*time.Second)
	defer cancel()
	httpServer.Stop(ctx)

	logger.Info("successfully shutdown server")
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
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

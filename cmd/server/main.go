// @title           Taskboard API
// @version         1.0
// @description     Users and tasks backend with JWT bearer authentication.

// @contact.name   Ivan Chernomyrdin
// @contact.url    https://github.com/IvanChernomyrdin

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:3333
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// Package main содержит точку входа серверного приложения taskboard.
//
// Пакет отвечает за инициализацию и жизненный цикл HTTP(S)-сервера, а именно:
//   - загрузку переменных окружения из файла .env (если он присутствует);
//   - загрузку конфигурации сервера (-config, CONFIG_PATH или ./configs/server.yaml);
//   - подключение к базе данных и применение миграций;
//   - создание репозиториев, сервисов, middleware и HTTP-обработчиков;
//   - запуск сервера (HTTPS, если включён tls) с заданными таймаутами;
//   - корректное (graceful) завершение по SIGINT, SIGTERM, SIGQUIT.
//
// Пакет не содержит бизнес-логики и не предназначен для unit-тестирования.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/api"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/config"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/middleware"
	h "github.com/IvanChernomyrdin/go-taskboard/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/repository"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/service"
	"github.com/IvanChernomyrdin/go-taskboard/internal/shared/logger"

	_ "github.com/IvanChernomyrdin/go-taskboard/swagger/docs"
)

const defaultConfigPath = "./configs/server.yaml"

func main() {
	// до чтения конфига пишем в простой логгер
	boot, _ := logger.New(logger.Options{Level: "info", Format: "console"})
	sugar := boot.Sugar()

	if err := godotenv.Load(); err != nil {
		sugar.Warnf("no .env file loaded, error: %v", err)
	}

	configPath := flag.String("config", "", "path to server.yaml (env CONFIG_PATH)")
	flag.Parse()

	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		sugar.Fatal(err)
	}

	httpLogger, err := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		Sampling:   cfg.Log.Sampling.Enabled,
		Initial:    cfg.Log.Sampling.Initial,
		Thereafter: cfg.Log.Sampling.Thereafter,
	})
	if err != nil {
		sugar.Fatal(err)
	}
	defer func() { _ = httpLogger.Sync() }()
	sugar = httpLogger.Sugar()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	// подключаем базу данных и накатываем миграции
	db, err := config.OpenDB(ctx, cfg.DB, cfg.Migrations, httpLogger.Logger)
	if err != nil {
		sugar.Fatal(err)
	}
	defer db.Close()

	// создаём репы
	repos := service.Repositories{
		Users:  repository.NewUsersRepository(db),
		Tasks:  repository.NewTasksRepository(db),
		Health: repository.NewHealthRepository(db),
	}

	hasher, err := crypto.NewPasswordHasher(cfg.Password)
	if err != nil {
		sugar.Fatal(err)
	}

	svc := service.NewServices(repos, hasher, cfg)
	verifier := middleware.NewJWTVerifier(crypto.JWTConfigFrom(cfg.Auth))
	handler := api.NewHandler(svc, httpLogger, verifier, cfg.Server.MaxBodyBytes)

	g, ctx := errgroup.WithContext(ctx)

	var limiter middleware.Limiter
	if rl := cfg.Security.RateLimit; rl.Enabled {
		switch rl.Store {
		case "redis":
			rdb := redis.NewClient(&redis.Options{Addr: rl.RedisAddr})
			defer rdb.Close()
			if err := rdb.Ping(ctx).Err(); err != nil {
				sugar.Warnf("redis %s unavailable, rate limit fails open: %v", rl.RedisAddr, err)
			}
			limiter = middleware.NewRedisLimiter(rdb, rl.RPS, rl.Burst)
		default:
			mem := middleware.NewMemoryLimiter(rl.RPS, rl.Burst)
			g.Go(func() error {
				mem.Cleanup(ctx, time.Minute, 5*time.Minute)
				return nil
			})
			limiter = mem
		}
	}

	router := h.NewRouter(handler, cfg, limiter)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
		ErrorLog:          zap.NewStdLog(httpLogger.Logger),
	}
	if cfg.TLS.Enabled {
		server.TLSConfig = &tls.Config{MinVersion: tlsVersion(cfg.TLS.MinVersion)}
	}

	// запускаем сервер
	g.Go(func() error {
		sugar.Infow("server started", "addr", server.Addr, "tls", cfg.TLS.Enabled, "env", cfg.Env)

		var err error
		if cfg.TLS.Enabled {
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-ctx.Done()

		sugar.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	// ожидание и единая обработка ошибок
	if err := g.Wait(); err != nil {
		sugar.Fatalf("server stopped with error: %v", err)
	}
	sugar.Info("server gracefully stopped")
}

func tlsVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}

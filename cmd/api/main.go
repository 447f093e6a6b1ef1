package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/meta-ads-gateway/infrastructure/database/postgres"
	"github.com/vfg2006/meta-ads-gateway/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/meta-ads-gateway/infrastructure/repository"
	"github.com/vfg2006/meta-ads-gateway/internal/api"
	"github.com/vfg2006/meta-ads-gateway/internal/config"
	"github.com/vfg2006/meta-ads-gateway/internal/gateway"
	"github.com/vfg2006/meta-ads-gateway/internal/gateway/ratelimit"
	"github.com/vfg2006/meta-ads-gateway/internal/gateway/requestcache"
	"github.com/vfg2006/meta-ads-gateway/internal/scheduler"
	"github.com/vfg2006/meta-ads-gateway/internal/usecases/normalizing"
	"github.com/vfg2006/meta-ads-gateway/internal/usecases/tokening"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	credentialRepo := repository.NewCredentialRepository(pgConn)

	metaClient := metaclient.NewClient(cfg)

	tokenService := tokening.NewService(cfg, credentialRepo, metaClient)
	normalizer := normalizing.NewService()

	limiter := ratelimit.New(cfg.RateLimit.Quota, cfg.RateLimit.Window, cfg.RateLimit.MaxWait)
	cache := requestcache.New(cfg.Cache.Enabled, cfg.Cache.Capacity, cfg.Cache.TTL)

	gatewayService := gateway.NewService(cfg, tokenService, metaClient, normalizer, limiter, cache)

	tokenRefreshService := scheduler.NewTokenRefreshService(credentialRepo, tokenService, cfg)
	if err := tokenRefreshService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de renovação de tokens")
	} else {
		logrus.Info("Agendador de renovação de tokens iniciado com sucesso")
	}

	server, err := api.New(cfg, gatewayService, tokenService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

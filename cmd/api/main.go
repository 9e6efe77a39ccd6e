package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/database/postgres"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/migration"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/ratelimit"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/repository"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/storage"
	"github.com/vfg2006/ads-refresh-engine/internal/api"
	"github.com/vfg2006/ads-refresh-engine/internal/config"
	"github.com/vfg2006/ads-refresh-engine/internal/scheduler"
	"github.com/vfg2006/ads-refresh-engine/internal/usecases/account"
	"github.com/vfg2006/ads-refresh-engine/internal/usecases/admission"
	"github.com/vfg2006/ads-refresh-engine/internal/usecases/compacting"
	"github.com/vfg2006/ads-refresh-engine/internal/usecases/refreshing"
	"github.com/vfg2006/ads-refresh-engine/pkg/crypto"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
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

	if err := migration.Run(ctx, pgConn); err != nil {
		logrus.WithError(err).Fatal("Erro ao aplicar as migrações")
	}

	accountRepo := repository.NewAccountRepository(pgConn)
	insightRepo := repository.NewAdDailyInsightRepository(pgConn)
	jobRepo := repository.NewRefreshJobRepository(pgConn)

	sealer, err := crypto.NewSealer([]byte(cfg.SecretKey))
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao inicializar a chave de selagem de tokens")
	}

	metaClient := metaclient.NewClient(cfg)
	metaIntegrator := meta.New(cfg, metaClient)

	controller := ratelimit.NewController(ratelimit.ParseMode(cfg.RateLimit.Mode))

	bundleStore := storage.NewFileStore(afero.NewOsFs(), cfg.Storage.BundleRoot)
	compactService := compacting.NewService(bundleStore)

	admitter := admission.NewService(cfg.Admission, jobRepo)

	refreshService := refreshing.NewService(
		cfg,
		metaIntegrator,
		accountRepo,
		insightRepo,
		jobRepo,
		admitter,
		compactService,
		sealer,
		controller,
	)

	accountService := account.NewService(accountRepo)

	refreshSyncService := scheduler.NewRefreshSyncService(refreshService, insightRepo, cfg)
	if err := refreshSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de refresh")
	} else {
		logrus.Info("Agendador de refresh iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		refreshService,
		accountService,
		compactService,
		refreshSyncService,
	)
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

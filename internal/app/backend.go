package app

import (
	"context"
	"errors"
	"net/http"

	config "github.com/DRSN-tech/product-dashboard/internal/cfg"
	v1Http "github.com/DRSN-tech/product-dashboard/internal/delivery/v1/http"
	"github.com/DRSN-tech/product-dashboard/internal/infrastructure/auth"
	"github.com/DRSN-tech/product-dashboard/internal/infrastructure/kafka"
	"github.com/DRSN-tech/product-dashboard/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/product-dashboard/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/pkg/closer"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/DRSN-tech/product-dashboard/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

// BackendApp — mock API каталога поверх PostgreSQL.
type BackendApp struct {
	cfg    *config.BackendConfig
	logger logger.Logger
	server *v1Http.Server
	closer *closer.Closer
	worker *kafka.OutboxWorker
}

func NewBackendApp(cfg *config.BackendConfig, log logger.Logger) (*BackendApp, error) {
	a := &BackendApp{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(forcedTimeout),
	}

	if err := a.init(); err != nil {
		if cerr := a.closer.Close(context.Background()); cerr != nil {
			log.Warnf("cleanup after failed init: %v", cerr)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *BackendApp) init() error {
	db, err := initPGDB(a.logger, a.cfg.Db)
	if err != nil {
		return err
	}
	a.closer.Add("postgres", db.Close)

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.NewProductConverter())
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, pgdbConv.NewCategoryConverter())
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.NewOutboxEventConverter())

	tokens := auth.NewJWTIssuer(a.cfg.Auth)
	catalogUC := usecase.NewCatalogUC(productRepo, categoryRepo, outboxRepo, db.Pool, tokens, a.logger)

	if a.cfg.Kafka != nil {
		producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
		a.closer.Add("kafka producer", producer.Close)

		topicCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		err := producer.EnsureTopic(topicCtx)
		cancel()
		if err != nil {
			// топик может создать брокер автоматически
			a.logger.Warnf("failed to ensure kafka topic: %v", err)
		}

		a.worker = kafka.NewOutboxWorker(outboxRepo, a.logger, producer, a.cfg.Db.DSN())
		a.closer.Add("outbox worker", a.worker.Stop)
	} else {
		a.logger.Infof("KAFKA_BROKERS is not set, outbox events stay in the database")
	}

	r := chi.NewRouter()
	v1Http.NewRouter(r, a.logger).InitBackend(catalogUC, tokens)

	a.server = v1Http.NewServer(r, a.cfg.Http)
	a.closer.Add("http server", a.server.Stop)

	return nil
}

func (a *BackendApp) Run() error {
	if a.worker != nil {
		a.worker.Start(context.Background())
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("mock API started on port %s", a.cfg.Http.Port)
		if err := a.server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	return waitForShutdown(a.logger, a.closer, errCh)
}

func initPGDB(logger logger.Logger, cfg *config.PGDBCfg) (*postgres.PgDatabase, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(cfg.MigrationsURL, logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		_ = db.Close(ctx)
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(ctx); err != nil {
		logger.Errorf(err, "failed to ping database")
		_ = db.Close(ctx)
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}

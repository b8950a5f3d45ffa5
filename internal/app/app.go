package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/cache"
	config "github.com/DRSN-tech/product-dashboard/internal/cfg"
	v1Http "github.com/DRSN-tech/product-dashboard/internal/delivery/v1/http"
	"github.com/DRSN-tech/product-dashboard/internal/infrastructure/cloudinary"
	"github.com/DRSN-tech/product-dashboard/internal/infrastructure/gateway"
	minioInfra "github.com/DRSN-tech/product-dashboard/internal/infrastructure/minio"
	s3Repo "github.com/DRSN-tech/product-dashboard/internal/repository/minio"
	"github.com/DRSN-tech/product-dashboard/internal/repository/redis"
	redisConv "github.com/DRSN-tech/product-dashboard/internal/repository/redis/converter"
	"github.com/DRSN-tech/product-dashboard/internal/search"
	"github.com/DRSN-tech/product-dashboard/internal/session"
	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/pkg/clients"
	"github.com/DRSN-tech/product-dashboard/pkg/closer"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout = 10 * time.Second
	forcedTimeout   = 3 * time.Second
	startupTimeout  = 10 * time.Second
)

// App — процесс дашборда: HTTP-оболочка над координаторами запросов.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	server *v1Http.Server
	closer *closer.Closer

	// отменяется последним шагом остановки; прерывает фоновые удаления изображений
	stopCtx    context.Context
	stopCancel context.CancelFunc
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	stopCtx, stopCancel := context.WithCancel(context.Background())
	a := &App{
		cfg:        cfg,
		logger:     log,
		closer:     closer.NewCloser(forcedTimeout),
		stopCtx:    stopCtx,
		stopCancel: stopCancel,
	}

	if err := a.init(); err != nil {
		stopCancel()
		if cerr := a.closer.Close(context.Background()); cerr != nil {
			log.Warnf("cleanup after failed init: %v", cerr)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *App) init() error {
	// закрывается последним: фоновые удаления успевают завершиться в WaitForCleanup
	a.closer.Add("background context", func(context.Context) error {
		a.stopCancel()
		return nil
	})

	jar, err := session.OpenBoltJar(a.cfg.Session.BoltPath)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("session jar", func(context.Context) error { return jar.Close() })

	sess := session.NewStore(jar, session.Options{
		CookieName: a.cfg.Session.CookieName,
		MaxAge:     a.cfg.Session.MaxAge,
		Secure:     a.cfg.Session.Secure,
	}, a.logger)

	entityCache, err := a.initCache()
	if err != nil {
		return err
	}

	images, err := a.initUploader()
	if err != nil {
		return err
	}

	api := gateway.NewGateway(gateway.Options{
		BaseURL:    a.cfg.API.BaseURL,
		Timeout:    a.cfg.API.Timeout,
		MaxRetries: a.cfg.API.MaxRetries,
		RetryBase:  a.cfg.API.RetryBase,
	}, a.logger)

	feed := usecase.NewNotificationFeed(a.cfg.Search.NotificationsSize)
	productUC := usecase.NewProductUC(api, sess, entityCache, images, feed, a.logger)
	authUC := usecase.NewAuthUC(api, sess, entityCache, feed, a.logger)
	dialogsUC := usecase.NewDialogsUC(productUC, feed, a.logger)

	browser := search.NewBrowser(productUC, search.Options{
		PageSize: a.cfg.Search.PageSize,
		Debounce: a.cfg.Search.Debounce,
	}, a.logger)
	a.closer.Add("search browser", func(context.Context) error {
		browser.Close()
		return nil
	})

	r := chi.NewRouter()
	v1Http.NewRouter(r, a.logger).Init(v1Http.Deps{
		Products:      productUC,
		Auth:          authUC,
		Dialogs:       dialogsUC,
		Session:       sess,
		Notifications: feed,
		Browser:       browser,
	})

	a.server = v1Http.NewServer(r, a.cfg.Http)
	a.closer.Add("http server", a.server.Stop)

	return nil
}

// initCache создаёт кэш; при включённых снимках поднимает его из Redis.
func (a *App) initCache() (*cache.Cache, error) {
	opts := cache.Options{}

	if a.cfg.Cache.SnapshotEnabled {
		redisClient := clients.NewRedisClient(a.cfg.Redis)

		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		a.closer.Add("redis", redisClient.Close)
		if err := redisClient.Ping(ctx); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		opts.Persister = redis.NewSnapshotRepo(redisClient, redisConv.NewSnapshotConverter(),
			a.cfg.Cache.KeyPrefix, a.cfg.Cache.SnapshotTTL, a.logger)
	}

	entityCache := cache.New(opts, a.logger)

	if opts.Persister != nil {
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		// пустой кэш не мешает старту
		if err := entityCache.Warm(ctx); err != nil {
			a.logger.Warnf("cache warm-up failed: %v", err)
		}
	}

	return entityCache, nil
}

func (a *App) initUploader() (usecase.ImagesInfra, error) {
	switch a.cfg.Upload.Provider {
	case "cloudinary":
		return cloudinary.NewCloudinaryInfrastructure(a.cfg.Upload.Cloudinary, a.cfg.API.Timeout, a.logger), nil
	case "minio":
		minioClient, err := clients.NewMinIOClient(a.cfg.Upload.Minio)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		if err := clients.EnsureBucket(ctx, minioClient, a.cfg.Upload.Minio.BucketName); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		imageRepo := s3Repo.NewImageRepo(minioClient, a.cfg.Upload.Minio)
		infra := minioInfra.NewMinioInfrastructure(imageRepo, a.cfg.Upload.Minio, a.logger, a.stopCtx)
		a.closer.Add("minio cleanup", infra.WaitForCleanup)
		return infra, nil
	default:
		return nil, e.Wrap(a.cfg.Upload.Provider, e.ErrUnsupportedUploader)
	}
}

// Run запускает HTTP-сервер и ждёт сигнала или фатальной ошибки.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("dashboard started on port %s", a.cfg.Http.Port)
		if err := a.server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	return waitForShutdown(a.logger, a.closer, errCh)
}

// waitForShutdown ждёт сигнала или фатальной ошибки сервера и закрывает ресурсы.
func waitForShutdown(log logger.Logger, c *closer.Closer, errCh <-chan error) error {
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		log.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		log.Infof("received shutdown signal, stopping gracefully...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := c.Close(ctx); err != nil {
		log.Errorf(err, "shutdown finished with errors")
		appErr = errors.Join(appErr, err)
	}

	log.Infof("application shutdown complete")
	return appErr
}

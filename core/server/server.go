package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mediation-api/core/cache"
	"mediation-api/core/config"
	"mediation-api/core/constants"
	"mediation-api/core/controller"
	"mediation-api/core/database"
	"mediation-api/core/identity"
	"mediation-api/core/logger"
	"mediation-api/core/middleware"
	"mediation-api/core/queue"
	"mediation-api/modules/activity"
	activityTask "mediation-api/modules/activity/task"
	"mediation-api/modules/participant"
	participantRepo "mediation-api/modules/participant/repository"
	participantService "mediation-api/modules/participant/service"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// App holds the process-wide dependencies built from config.
type App struct {
	Config       *config.Config
	DB           *database.Database
	Participants participantRepo.ParticipantRepositoryInterface
	Cache        cache.Cache
	Publisher    queue.Client
}

// NewApp opens the store and the optional Redis-backed collaborators. The
// memory driver has no SQL database, so DB stays nil.
func NewApp(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg, Publisher: queue.NoopClient{}}

	if cfg.Database.Driver == "memory" {
		logger.Warn("Server:NewApp:MemoryStore", "message", "participants are kept in memory and lost on exit")
		app.Participants = participantRepo.NewMemoryRepository()
	} else {
		db, err := database.InitDB(cfg.Database)
		if err != nil {
			return nil, err
		}
		app.DB = &db
		if cfg.Database.AutoMigrate {
			ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultRequestTimeout)
			defer cancel()
			if err := database.Migrate(ctx, app.DB); err != nil {
				app.Close()
				return nil, err
			}
		}
		app.Participants = participantRepo.NewParticipantRepository(app.DB)
	}

	if cfg.Redis.Addr != "" {
		c, err := cache.NewRedisCache(cfg.Redis)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Cache = c
	}

	if cfg.Queue.Enabled {
		client, err := queue.NewAsynqClient(cfg.Redis)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Publisher = client
	}

	return app, nil
}

func (a *App) Close() {
	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			logger.Error("Server:Close:Publisher", "error", err)
		}
	}
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			logger.Error("Server:Close:Cache", "error", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			logger.Error("Server:Close:Database", "error", err)
		}
	}
}

// ParticipantService builds the lifecycle service without HTTP routes.
func (a *App) ParticipantService() *participantService.ParticipantService {
	return participantService.NewParticipantService(a.Participants, nil, a.Publisher, a.Config.Queue.Name)
}

// NewEcho wires every HTTP route. resolver overrides the JWT resolver when
// non-nil.
func (a *App) NewEcho(resolver identity.Resolver) *echo.Echo {
	if resolver == nil {
		resolver = identity.NewJWTResolver(a.Config.JWT.Secret, a.Cache)
	}
	mw := middleware.NewMiddleware(resolver)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = controller.HTTPErrorHandler
	e.Use(echoMiddleware.Recover())
	e.Use(mw.RequestID())
	e.Use(mw.AccessLog())
	e.Use(mw.Timeout(constants.DefaultRequestTimeout))

	e.GET("/health", a.health)

	api := e.Group("/api/v1")
	participants := participant.Init(api, a.Participants, mw, a.Publisher, a.Config.Queue.Name)
	if a.DB != nil {
		activity.Init(api, a.DB, mw, participants)
	} else {
		logger.Warn("Server:NewEcho:ActivityDisabled", "reason", "activity log needs a SQL database")
	}

	return e
}

func (a *App) health(c echo.Context) error {
	if a.DB != nil {
		if err := a.DB.SQLx().PingContext(c.Request().Context()); err != nil {
			logger.Error("Server:Health:Database", "error", err)
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func Run(ctx context.Context, cfg *config.Config) error {
	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	e := app.NewEcho(nil)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server:Run:Listening", "addr", addr, "driver", cfg.Database.Driver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("Server:Run:ShuttingDown")
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// RunWorker consumes participant change tasks into the activity log until ctx
// is canceled.
func RunWorker(ctx context.Context, cfg *config.Config) error {
	if !cfg.Queue.Enabled {
		return errors.New("worker requires queue.enabled")
	}
	if cfg.Database.Driver == "memory" {
		return errors.New("worker requires a SQL database driver")
	}

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	srv, err := queue.NewAsynqServer(cfg.Redis, cfg.Queue)
	if err != nil {
		return err
	}
	activityTask.NewHandler(activity.NewService(app.DB, app.ParticipantService())).Register(srv)

	logger.Info("Server:RunWorker:Started", "queue", cfg.Queue.Name, "concurrency", cfg.Queue.Concurrency)
	return srv.Run(ctx)
}

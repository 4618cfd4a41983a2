package service

import (
	"context"
	"fmt"
	"net/http"

	"toyblog/app/controllers"
	"toyblog/app/repositories"
	"toyblog/app/routes"
	"toyblog/app/services"
	"toyblog/app/static"
	"toyblog/app/views"
	"toyblog/config"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

// App is the assembled application: store, services and the HTTP handler.
type App struct {
	Config   *config.Config
	Log      *logrus.Logger
	Store    *repositories.Store
	Blogs    *services.BlogService
	Accounts *services.AccountService
	Handler  http.Handler
}

// NewApp opens the configured store and wires services, controllers and routes.
func NewApp(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app, err := newAppWithStore(cfg, log, store)
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}
	return app, nil
}

func newAppWithStore(cfg *config.Config, log *logrus.Logger, store *repositories.Store) (*App, error) {
	renderer, err := controllers.NewRenderer(views.FS, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	blogs := services.NewBlogService(store.Blogs)
	accounts := services.NewAccountService(store.Users)
	sessions := services.NewSessionService(store.Sessions, cfg.SessionSecret, cfg.SessionTTL)
	auth := services.NewAuthService(store.Users, cfg.BcryptCost)

	handler := routes.NewRouter(routes.Controllers{
		Blog:    controllers.NewBlogController(blogs, renderer, log),
		Comment: controllers.NewCommentController(services.NewCommentService(store.Comments), log),
		Auth:    controllers.NewAuthController(auth, sessions, renderer, log, cfg.CookieSecure),
		Account: controllers.NewAccountController(accounts, sessions, renderer, log, cfg.CookieSecure),
		Pages:   controllers.NewPagesController(renderer),
		Health:  controllers.NewHealthController(store, log),
	}, routes.Options{
		Log:            log,
		Sessions:       sessions,
		SecureCookie:   cfg.CookieSecure,
		AllowedOrigins: cfg.AllowedOrigins(),
		Static:         static.FS,
	})

	return &App{
		Config:   cfg,
		Log:      log,
		Store:    store,
		Blogs:    blogs,
		Accounts: accounts,
		Handler:  handler,
	}, nil
}

// Close releases the store handles.
func (a *App) Close(ctx context.Context) error {
	return a.Store.Close(ctx)
}

func openStore(ctx context.Context, cfg *config.Config) (*repositories.Store, error) {
	var store *repositories.Store
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := repositories.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		if err := repositories.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		store = repositories.NewMongoStore(client, db)
	default:
		db, err := openBadger(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		store = repositories.NewBadgerStore(db)
	}

	if cfg.SessionDriver == config.SessionRedis {
		rdb := repositories.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		store.WithRedisSessions(rdb)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
	}
	return store, nil
}

func openBadger(path string) (*badger.DB, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db at %s: %w", path, err)
	}
	return db, nil
}

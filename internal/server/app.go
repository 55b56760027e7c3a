// Package server initializes and runs the accounts application: database,
// migrations, services, the HTTP API and the background sweeper, with
// graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/beatstream/accounts/internal/logging"
	"github.com/beatstream/accounts/internal/server/config"
	"github.com/beatstream/accounts/internal/server/extidentity"
	"github.com/beatstream/accounts/internal/server/httpapi"
	"github.com/beatstream/accounts/internal/server/mailer"
	"github.com/beatstream/accounts/internal/server/repositories/repomanager"
	"github.com/beatstream/accounts/internal/server/routes"
	"github.com/beatstream/accounts/internal/server/services"
	"github.com/beatstream/accounts/internal/server/sweeper"
	"github.com/beatstream/accounts/internal/server/token"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	httpSrv *httpapi.Server
	sweeper *sweeper.Sweeper
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	extraRules, err := compileRouteRules(cfg.PublicRoutes)
	if err != nil {
		return nil, err
	}
	classifier := routes.NewClassifier(extraRules...)

	codec := token.NewCodec([]byte(cfg.SecretKey))
	sessions := services.NewSessionService(db, m, codec, cfg)
	users := services.NewUserService(db, m, sessions,
		mailer.NewLogMailer(logger), extidentity.Disabled{}, logger)
	profiles := services.NewProfileService(db, m)
	media := services.NewMediaService(cfg)

	httpSrv := httpapi.NewServer(cfg.EndpointAddrHTTP, logger, users, sessions,
		profiles, media, codec, classifier, cfg.ServiceToken)

	sw := sweeper.New(cfg.SweepInterval, logger, sessions, users)

	return &App{
		config:  cfg,
		logger:  logger,
		db:      db,
		httpSrv: httpSrv,
		sweeper: sw,
	}, nil
}

func compileRouteRules(rules []config.RouteRule) ([]routes.Rule, error) {
	compiled := make([]routes.Rule, 0, len(rules))
	for _, r := range rules {
		rule, err := routes.CompileRule(r.Method, r.Pattern, r.Class)
		if err != nil {
			return nil, fmt.Errorf("route rule %q: %w", r.Pattern, err)
		}
		compiled = append(compiled, rule)
	}
	return compiled, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpSrv.Run(ctx); err != nil {
			app.logger.Error(ctx, "http server error", "error", err)
			cancelFunc()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.sweeper.Run(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}

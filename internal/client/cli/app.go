package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/kaizenlib/internal/client/assist"
	"github.com/dmitrijs2005/kaizenlib/internal/client/changefeed"
	"github.com/dmitrijs2005/kaizenlib/internal/client/config"
	"github.com/dmitrijs2005/kaizenlib/internal/client/gateway"
	"github.com/dmitrijs2005/kaizenlib/internal/client/models"
	"github.com/dmitrijs2005/kaizenlib/internal/client/services"
	"github.com/dmitrijs2005/kaizenlib/internal/client/session"
	"github.com/dmitrijs2005/kaizenlib/internal/client/snapshot"
	"github.com/dmitrijs2005/kaizenlib/internal/client/storage"
	"github.com/dmitrijs2005/kaizenlib/internal/client/views"
	"github.com/dmitrijs2005/kaizenlib/internal/logging"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	auth    *services.AuthService
	records *services.RecordService
	users   *services.UserService
	assist  *assist.Provider
	sync    *snapshot.Synchronizer
	feed    changefeed.Feed

	// user is nil until login succeeds or a session is restored.
	user   *models.User
	params views.Params
	reader *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	gw, err := gateway.NewPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("connect to library database: %w", err)
	}

	store, err := storage.NewS3Store(ctx, c.S3)
	if err != nil {
		return nil, fmt.Errorf("init attachment store: %w", err)
	}

	sessions := session.NewManager(c.SessionFile, []byte(c.SessionSecret))
	sync := snapshot.NewSynchronizer(gw, logger)
	feed := changefeed.NewPostgresFeed(c.DatabaseDSN, logger)

	var provider *assist.Provider
	if c.AssistEndpoint != "" {
		provider = assist.NewProvider(c.AssistEndpoint, c.AssistAPIKey, logger)
	}

	return &App{
		config:  c,
		logger:  logger,
		auth:    services.NewAuthService(gw, sessions, logger),
		records: services.NewRecordService(gw, store, sync, logger),
		users:   services.NewUserService(gw, sync, logger),
		assist:  provider,
		sync:    sync,
		feed:    feed,
		params:  views.Params{PageSize: c.PageSize},
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) isAdmin() bool {
	return a.user != nil && a.user.Role == models.RoleAdmin
}

// Run restores the previous session if any, loads the initial snapshot,
// starts the change-feed watcher and enters the REPL. It blocks until the
// user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	if u, err := a.auth.Restore(); err != nil {
		a.logger.Warn(ctx, "session restore failed", "error", err)
	} else if u != nil {
		a.user = u
		printlnFn(fmt.Sprintf("Welcome back, %s!", u.FullName))
	}

	a.sync.Refresh(ctx)
	go func() {
		if err := a.feed.Run(ctx); err != nil {
			a.logger.Error(ctx, "change feed stopped", "error", err)
		}
	}()
	go a.sync.Watch(ctx, a.feed)

	printlnFn("Kaizen Library CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

func (a *App) getStatus() string {
	if a.user == nil {
		return ""
	}
	return fmt.Sprintf("(%s %s)", a.user.Username, a.user.Role)
}

package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Rorical/RoriChat/internal/config"
	"github.com/Rorical/RoriChat/internal/core"
	"github.com/Rorical/RoriChat/internal/credential"
	"github.com/Rorical/RoriChat/internal/dispatcher"
	"github.com/Rorical/RoriChat/internal/eventbus"
	"github.com/Rorical/RoriChat/internal/genclient"
	"github.com/Rorical/RoriChat/internal/locale"
	"github.com/Rorical/RoriChat/internal/logging"
	"github.com/Rorical/RoriChat/internal/models"
	"github.com/Rorical/RoriChat/internal/update"
)

// Options are the command-line overrides applied on top of the config file.
type Options struct {
	Verbose bool
}

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	logger     *zap.Logger
	store      credential.Store
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.ChatService
	model      *AppModel
}

func NewApplication(opts Options) (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Path:    cfg.LogPath(),
		Level:   cfg.Log.Level,
		Verbose: opts.Verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := credential.Open(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to open credential store", zap.String("backend", cfg.Credentials.Backend), zap.Error(err))
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	client, err := genclient.New(cfg)
	if err != nil {
		_ = store.Close()
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}

	catalog := locale.For(cfg.Locale)
	eb := eventbus.NewEventBus()
	eb.SetErrorCallback(func(e eventbus.EventBusError) {
		logger.Warn("event bus error", zap.String("op", e.Operation), zap.Error(e.Err))
	})
	disp := dispatcher.NewEventDispatcher(eb)

	chatService := core.NewChatService(core.Options{
		Client:  client,
		Store:   store,
		Catalog: catalog,
		Model:   models.ModelID(cfg.Model),
		Logger:  logger,
	}, eb)

	logger.Info("application created",
		zap.String("model", cfg.ModelInfo().APIModel),
		zap.String("transport", client.Name()),
		zap.String("credentials", cfg.Credentials.Backend),
		zap.String("locale", cfg.Locale))

	return &Application{
		config:     cfg,
		logger:     logger,
		store:      store,
		eventBus:   eb,
		dispatcher: disp,
		service:    chatService,
		model:      newAppModel(update.NewAppModel(catalog), catalog, disp),
	}, nil
}

// Start runs core and the TUI until the user quits or SIGTERM arrives.
func (app *Application) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	p := tea.NewProgram(app.model, tea.WithAltScreen())
	app.service.Start()

	uiDone := make(chan struct{})
	g.Go(func() error {
		defer close(uiDone)
		_, err := p.Run()
		return err
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			p.Quit()
		case <-uiDone:
		}
		app.service.Stop()
		return nil
	})

	return g.Wait()
}

// Stop releases everything NewApplication acquired. It is safe after Start
// has already stopped the service.
func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.eventBus.Close()
	if err := app.store.Close(); err != nil {
		app.logger.Warn("failed to close credential store", zap.Error(err))
	}
	app.logger.Info("application stopped")
	_ = app.logger.Sync()
}

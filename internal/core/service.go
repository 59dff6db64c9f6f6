package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Rorical/RoriChat/internal/credential"
	"github.com/Rorical/RoriChat/internal/eventbus"
	"github.com/Rorical/RoriChat/internal/genclient"
	"github.com/Rorical/RoriChat/internal/locale"
	"github.com/Rorical/RoriChat/internal/models"
)

// Options wires the collaborators of a ChatService.
type Options struct {
	Client  genclient.Client
	Store   credential.Store
	Catalog locale.Catalog
	Model   models.ModelID
	Logger  *zap.Logger
}

// ChatService is the chat controller: the only writer of SessionState.
// Its operations are safe to call from any goroutine; the in-flight flags
// in SessionState reject overlapping validations and completions.
type ChatService struct {
	client   genclient.Client
	store    credential.Store
	catalog  locale.Catalog
	state    *SessionState
	eventBus *eventbus.EventBus
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewChatService builds the controller with a freshly seeded session.
// eb may be nil when no UI is attached.
func NewChatService(opts Options, eb *eventbus.EventBus) *ChatService {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	catalog := opts.Catalog
	if catalog.Greeting == "" {
		catalog = locale.Default()
	}
	model := opts.Model
	if model == "" {
		model = models.Registry[0].ID
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &ChatService{
		client:   opts.Client,
		store:    opts.Store,
		catalog:  catalog,
		state:    NewSessionState(catalog.Greeting, catalog.Fallback, model),
		eventBus: eb,
		logger:   logger.Named("core"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start pushes the initial state, starts the event loop and begins the
// startup credential check.
func (cs *ChatService) Start() {
	cs.pushStateToUI()

	cs.wg.Add(2)
	go func() {
		defer cs.wg.Done()
		cs.eventLoop()
	}()
	go func() {
		defer cs.wg.Done()
		if err := cs.InitializeFromStoredCredential(cs.ctx); err != nil {
			cs.logger.Warn("startup credential check failed", zap.Error(err))
		}
	}()
}

// Stop cancels in-flight work, waits for it to settle and releases the
// generation handle.
func (cs *ChatService) Stop() {
	cs.cancel()
	cs.wg.Wait()
	if h := cs.state.ReleaseSession(); h != nil {
		h.Close()
	}
}

// Snapshot returns a copy of the current session state.
func (cs *ChatService) Snapshot() models.Snapshot {
	return cs.state.Snapshot()
}

func (cs *ChatService) eventLoop() {
	if cs.eventBus == nil {
		return
	}
	for {
		select {
		case <-cs.ctx.Done():
			return
		case event, ok := <-cs.eventBus.UIToCore():
			if !ok {
				return
			}
			cs.handleUIEvent(event)
		}
	}
}

func (cs *ChatService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SubmitMessageEvent:
		cs.goReport("submit", func() error { return cs.SubmitMessage(cs.ctx, e.Text) })
	case eventbus.ValidateKeyEvent:
		cs.goReport("validate", func() error { return cs.ValidateKey(cs.ctx, e.Key) })
	case eventbus.InputChangedEvent:
		cs.SetPendingInput(e.Text)
	case eventbus.OpenKeyDialogEvent:
		cs.OpenKeyDialog()
	case eventbus.CloseKeyDialogEvent:
		cs.CloseKeyDialogAttempt()
	case eventbus.OpenModelSelectEvent:
		cs.OpenModelSelect()
	case eventbus.CloseModelSelectEvent:
		cs.CloseModelSelect()
	case eventbus.SelectModelEvent:
		if err := cs.SelectModel(e.ID); err != nil {
			cs.pushStateWithError(err)
		}
	}
}

// goReport runs a blocking operation off the event loop so the UI keeps
// receiving updates while it waits on the network.
func (cs *ChatService) goReport(op string, fn func() error) {
	cs.wg.Add(1)
	go func() {
		defer cs.wg.Done()
		if err := fn(); err != nil {
			cs.logger.Debug("operation rejected", zap.String("op", op), zap.Error(err))
			if !errors.Is(err, ErrInvalidCredential) {
				cs.pushStateWithError(err)
			}
		}
	}()
}

// SubmitMessage appends text as a user message and exactly one assistant
// reply: the completion on success, the fallback text on any failure.
// Generation failures are logged, never returned.
func (cs *ChatService) SubmitMessage(ctx context.Context, text string) error {
	handle, err := cs.state.BeginCompletion(text)
	if err != nil {
		return err
	}
	cs.pushStateToUI()

	var reply string
	defer func() {
		cs.state.FinishCompletion(reply)
		cs.pushStateToUI()
	}()

	completion, err := handle.Generate(ctx, text)
	if err != nil {
		cs.logger.Error("error generating AI response",
			zap.Error(fmt.Errorf("%w: %w", ErrGenerationFailure, err)))
		return nil
	}
	reply = completion
	return nil
}

// ValidateKey probes the backend with candidate. On success the handle
// becomes the session, the key is persisted and the dialog closes. On
// failure nothing is stored and the dialog stays as it was.
func (cs *ChatService) ValidateKey(ctx context.Context, candidate string) error {
	key := strings.TrimSpace(candidate)
	if key == "" {
		return fmt.Errorf("%w: empty API key", ErrValidation)
	}
	if err := cs.state.BeginValidation(); err != nil {
		return err
	}

	var handle genclient.Handle
	defer func() {
		if prev := cs.state.FinishValidation(handle); prev != nil {
			prev.Close()
		}
		cs.pushStateToUI()
	}()

	cs.pushStateToUI()
	cs.notify(models.NoticeLoading, cs.catalog.ValidatingKey)

	h, err := genclient.Validate(ctx, cs.client, key)
	if err != nil {
		cs.logger.Info("API key rejected", zap.String("client", cs.client.Name()), zap.Error(err))
		cs.notify(models.NoticeError, cs.catalog.KeyRejected)
		return err
	}
	handle = h

	if err := cs.store.Set(ctx, credential.KeyName, key); err != nil {
		cs.logger.Error("failed to persist API key", zap.Error(err))
		cs.notify(models.NoticeError, cs.catalog.KeySaveFailed)
		return fmt.Errorf("failed to persist API key: %w", err)
	}

	cs.logger.Info("API key validated", zap.String("client", cs.client.Name()))
	cs.notify(models.NoticeSuccess, cs.catalog.KeyAccepted)
	return nil
}

// InitializeFromStoredCredential is the startup transition: validate the
// stored key if there is one, otherwise (or on failure) open the dialog.
// Calls after the first are no-ops.
func (cs *ChatService) InitializeFromStoredCredential(ctx context.Context) error {
	if !cs.state.BeginStartup() {
		return nil
	}
	cs.pushStateToUI()

	key, ok, err := cs.store.Get(ctx, credential.KeyName)
	if err != nil {
		cs.logger.Warn("failed to read stored API key", zap.Error(err))
	}
	if err == nil && ok {
		if verr := cs.ValidateKey(ctx, key); verr != nil {
			cs.logger.Info("stored API key unusable", zap.Error(verr))
		}
	}

	if !cs.state.HasSession() {
		cs.state.OpenKeyDialog()
		cs.pushStateToUI()
	}
	return err
}

// CloseKeyDialogAttempt hides the key dialog, but only once a key has been
// validated. It reports whether the dialog closed.
func (cs *ChatService) CloseKeyDialogAttempt() bool {
	closed := cs.state.CloseKeyDialog()
	cs.pushStateToUI()
	return closed
}

// OpenKeyDialog shows the dialog to replace the key. The current session
// stays usable until a new key validates.
func (cs *ChatService) OpenKeyDialog() {
	cs.state.OpenKeyDialog()
	cs.pushStateToUI()
}

func (cs *ChatService) SetPendingInput(text string) {
	cs.state.SetPendingInput(text)
}

func (cs *ChatService) OpenModelSelect() {
	cs.state.SetModelSelectOpen(true)
	cs.pushStateToUI()
}

func (cs *ChatService) CloseModelSelect() {
	cs.state.SetModelSelectOpen(false)
	cs.pushStateToUI()
}

// SelectModel picks a registry model and closes the popover.
func (cs *ChatService) SelectModel(id models.ModelID) error {
	changed, err := cs.state.SelectModel(id)
	if err != nil {
		return err
	}
	if changed {
		cs.logger.Info("model selected", zap.String("model", string(id)))
	}
	cs.pushStateToUI()
	return nil
}

func (cs *ChatService) notify(kind models.NoticeKind, text string) {
	if cs.eventBus == nil {
		return
	}
	if err := cs.eventBus.SendToUI(eventbus.NotificationEvent{
		Notice: models.Notice{Kind: kind, Text: text},
	}); err != nil {
		cs.logger.Warn("failed to send notification to UI", zap.Error(err))
	}
}

func (cs *ChatService) pushStateToUI() {
	cs.pushState(nil)
}

func (cs *ChatService) pushStateWithError(err error) {
	cs.pushState(err)
}

func (cs *ChatService) pushState(err error) {
	if cs.eventBus == nil {
		return
	}
	if sendErr := cs.eventBus.SendToUI(eventbus.StateUpdateEvent{
		Snapshot: cs.state.Snapshot(),
		Error:    err,
	}); sendErr != nil {
		// The UI catches up on the next successful push.
		cs.logger.Warn("failed to send state to UI", zap.Error(sendErr))
	}
}

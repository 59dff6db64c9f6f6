package core

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Rorical/RoriChat/internal/genclient"
	"github.com/Rorical/RoriChat/internal/models"
)

// SessionState holds the conversation and the status flags of one chat
// session. Only ChatService mutates it; everyone else reads Snapshots.
type SessionState struct {
	mu                   sync.RWMutex
	messages             []models.Message
	nextID               int
	pendingInput         string
	isValidatingKey      bool
	isAwaitingCompletion bool
	selectedModel        models.ModelID
	keyDialogVisible     bool
	modelSelectOpen      bool
	status               models.Status
	handle               genclient.Handle
	fallback             string
}

// NewSessionState seeds the log with the assistant greeting.
func NewSessionState(greeting, fallback string, model models.ModelID) *SessionState {
	s := &SessionState{
		messages:      make([]models.Message, 0, 8),
		nextID:        1,
		selectedModel: model,
		status:        models.Uninitialized,
		fallback:      fallback,
	}
	s.appendLocked(models.Assistant, greeting)
	return s
}

// AppendMessage adds a message to the log. User messages must carry text;
// an empty assistant message is replaced by the fallback text.
func (s *SessionState) AppendMessage(sender models.Sender, text string) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sender == models.User && strings.TrimSpace(text) == "" {
		return models.Message{}, fmt.Errorf("%w: empty message", ErrValidation)
	}
	return s.appendLocked(sender, text), nil
}

func (s *SessionState) appendLocked(sender models.Sender, text string) models.Message {
	if sender == models.Assistant && text == "" {
		text = s.fallback
	}
	msg := models.Message{ID: s.nextID, Text: text, Sender: sender}
	s.nextID++
	s.messages = append(s.messages, msg)
	return msg
}

func (s *SessionState) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := make([]models.Message, len(s.messages))
	copy(msgs, s.messages)
	return models.Snapshot{
		Messages:             msgs,
		PendingInput:         s.pendingInput,
		IsValidatingKey:      s.isValidatingKey,
		IsAwaitingCompletion: s.isAwaitingCompletion,
		SelectedModel:        s.selectedModel,
		KeyDialogVisible:     s.keyDialogVisible,
		ModelSelectOpen:      s.modelSelectOpen,
		Status:               s.status,
		HasSession:           s.handle != nil,
	}
}

func (s *SessionState) Status() models.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *SessionState) HasSession() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handle != nil
}

// Atomic operations: each checks its preconditions and flips the flags
// under a single lock so two callers can never both pass the latch.

// BeginStartup moves Uninitialized to AwaitingCredential. It reports false
// if startup already happened.
func (s *SessionState) BeginStartup() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != models.Uninitialized {
		return false
	}
	s.status = models.AwaitingCredential
	return true
}

// BeginCompletion appends the user message and raises the completion
// latch. It returns the handle to generate with.
func (s *SessionState) BeginCompletion(text string) (genclient.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty message", ErrValidation)
	}
	if s.isAwaitingCompletion || s.isValidatingKey {
		return nil, ErrAlreadyInProgress
	}
	if s.handle == nil {
		return nil, ErrNoCredential
	}

	s.appendLocked(models.User, text)
	s.pendingInput = ""
	s.isAwaitingCompletion = true
	s.status = models.AwaitingCompletion
	return s.handle, nil
}

// FinishCompletion appends the reply (fallback when empty) and releases
// the completion latch.
func (s *SessionState) FinishCompletion(reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appendLocked(models.Assistant, reply)
	s.isAwaitingCompletion = false
	s.status = models.Ready
}

// BeginValidation raises the validation latch.
func (s *SessionState) BeginValidation() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isValidatingKey || s.isAwaitingCompletion {
		return ErrAlreadyInProgress
	}
	s.isValidatingKey = true
	s.status = models.Validating
	return nil
}

// FinishValidation releases the validation latch. A non-nil handle
// replaces the current one and closes the key dialog; a nil handle keeps
// whatever session existed before.
func (s *SessionState) FinishValidation(h genclient.Handle) (previous genclient.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.isValidatingKey = false
	if h != nil {
		previous = s.handle
		s.handle = h
		s.keyDialogVisible = false
	}

	if s.handle != nil {
		s.status = models.Ready
	} else {
		s.status = models.AwaitingCredential
	}
	return previous
}

func (s *SessionState) OpenKeyDialog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyDialogVisible = true
}

// CloseKeyDialog hides the dialog only when a validated session exists.
func (s *SessionState) CloseKeyDialog() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil {
		return false
	}
	s.keyDialogVisible = false
	return true
}

func (s *SessionState) SetPendingInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingInput = text
}

func (s *SessionState) SetModelSelectOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modelSelectOpen = open
}

// SelectModel switches the model and closes the popover. It reports
// whether the selection changed.
func (s *SessionState) SelectModel(id models.ModelID) (bool, error) {
	if _, ok := models.LookupModel(id); !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.modelSelectOpen = false
	if s.selectedModel == id {
		return false, nil
	}
	s.selectedModel = id
	return true, nil
}

// ReleaseSession drops the handle at shutdown.
func (s *SessionState) ReleaseSession() genclient.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.handle
	s.handle = nil
	return h
}

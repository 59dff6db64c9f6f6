package core

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Rorical/RoriChat/internal/credential"
	"github.com/Rorical/RoriChat/internal/eventbus"
	"github.com/Rorical/RoriChat/internal/locale"
	"github.com/Rorical/RoriChat/internal/models"
	"github.com/Rorical/RoriChat/internal/testutil"
)

const goodKey = "good-key"

var catalog = locale.For("en")

func newTestService(t *testing.T, client *testutil.FakeClient, store credential.Store) *ChatService {
	t.Helper()
	return NewChatService(Options{
		Client:  client,
		Store:   store,
		Catalog: catalog,
		Model:   models.Gemini,
	}, nil)
}

func readyService(t *testing.T, client *testutil.FakeClient) (*ChatService, *credential.MemoryStore) {
	t.Helper()
	store := credential.NewMemoryStore()
	cs := newTestService(t, client, store)
	require.NoError(t, cs.InitializeFromStoredCredential(context.Background()))
	require.NoError(t, cs.ValidateKey(context.Background(), goodKey))
	require.Equal(t, models.Ready, cs.Snapshot().Status)
	return cs, store
}

func TestSubmitMessageSuccess(t *testing.T) {
	client := testutil.NewFakeClient(goodKey)
	client.Reply = func(string) string { return "Hi there" }
	cs, _ := readyService(t, client)

	require.NoError(t, cs.SubmitMessage(context.Background(), "Hello"))

	snap := cs.Snapshot()
	assert.Equal(t, []models.Message{
		{ID: 1, Text: catalog.Greeting, Sender: models.Assistant},
		{ID: 2, Text: "Hello", Sender: models.User},
		{ID: 3, Text: "Hi there", Sender: models.Assistant},
	}, snap.Messages)
	assert.False(t, snap.IsAwaitingCompletion)
	assert.Equal(t, models.Ready, snap.Status)
}

func TestSubmitMessageFailureAppendsFallback(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	client := testutil.NewFakeClient(goodKey)
	store := credential.NewMemoryStore()
	cs := NewChatService(Options{
		Client:  client,
		Store:   store,
		Catalog: catalog,
		Logger:  zap.New(core),
	}, nil)
	require.NoError(t, cs.ValidateKey(context.Background(), goodKey))

	client.SetFail(errors.New("429 rate limited"))
	require.NoError(t, cs.SubmitMessage(context.Background(), "Hello"))

	snap := cs.Snapshot()
	require.Len(t, snap.Messages, 3)
	assert.Equal(t, models.Message{ID: 2, Text: "Hello", Sender: models.User}, snap.Messages[1])
	assert.Equal(t, models.Message{ID: 3, Text: catalog.Fallback, Sender: models.Assistant}, snap.Messages[2])
	assert.False(t, snap.IsAwaitingCompletion)

	failures := logs.FilterMessage("error generating AI response").All()
	require.Len(t, failures, 1)
	logged, ok := failures[0].ContextMap()["error"].(string)
	require.True(t, ok)
	assert.Contains(t, logged, ErrGenerationFailure.Error())
}

func TestSubmitMessageRejectsEmpty(t *testing.T) {
	cs, _ := readyService(t, testutil.NewFakeClient(goodKey))
	before := cs.Snapshot().Messages

	for _, text := range []string{"", "   ", "\n\t"} {
		err := cs.SubmitMessage(context.Background(), text)
		assert.ErrorIs(t, err, ErrValidation)
	}
	assert.Equal(t, before, cs.Snapshot().Messages)
}

func TestSubmitMessageRequiresSession(t *testing.T) {
	cs := newTestService(t, testutil.NewFakeClient(goodKey), credential.NewMemoryStore())

	err := cs.SubmitMessage(context.Background(), "Hello")
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.Len(t, cs.Snapshot().Messages, 1)
}

func TestSubmitMessageClearsPendingInput(t *testing.T) {
	cs, _ := readyService(t, testutil.NewFakeClient(goodKey))
	cs.SetPendingInput("Hello")
	assert.Equal(t, "Hello", cs.Snapshot().PendingInput)

	require.NoError(t, cs.SubmitMessage(context.Background(), "Hello"))
	assert.Empty(t, cs.Snapshot().PendingInput)
}

func TestSubmitMessageWhileAwaitingCompletion(t *testing.T) {
	client := testutil.NewFakeClient(goodKey)
	cs, _ := readyService(t, client)
	client.Gate = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- cs.SubmitMessage(context.Background(), "first") }()
	waitFor(t, func() bool { return cs.Snapshot().IsAwaitingCompletion })

	snap := cs.Snapshot()
	last, _ := snap.LastMessage()
	assert.Equal(t, models.User, last.Sender)
	assert.Equal(t, models.AwaitingCompletion, snap.Status)

	assert.ErrorIs(t, cs.SubmitMessage(context.Background(), "second"), ErrAlreadyInProgress)
	assert.ErrorIs(t, cs.ValidateKey(context.Background(), goodKey), ErrAlreadyInProgress)

	close(client.Gate)
	require.NoError(t, <-done)
	assert.Len(t, cs.Snapshot().Messages, 3)
}

func TestOneReplyPerRequest(t *testing.T) {
	client := testutil.NewFakeClient(goodKey)
	cs, _ := readyService(t, client)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		if rng.Intn(3) == 0 {
			client.SetFail(errors.New("network down"))
		} else {
			client.SetFail(nil)
		}
		require.NoError(t, cs.SubmitMessage(context.Background(), "msg"))
	}

	var users, assistants int
	snap := cs.Snapshot()
	for i, m := range snap.Messages {
		assert.Equal(t, i+1, m.ID)
		if m.Sender == models.User {
			users++
		} else {
			assistants++
		}
	}
	assert.Equal(t, 50, users)
	assert.Equal(t, 51, assistants) // replies plus the greeting
}

func TestValidateKeyAccepted(t *testing.T) {
	store := credential.NewMemoryStore()
	cs := newTestService(t, testutil.NewFakeClient(goodKey), store)
	require.NoError(t, cs.InitializeFromStoredCredential(context.Background()))
	require.Equal(t, models.AwaitingCredential, cs.Snapshot().Status)

	require.NoError(t, cs.ValidateKey(context.Background(), "  "+goodKey+"  "))

	snap := cs.Snapshot()
	assert.Equal(t, models.Ready, snap.Status)
	assert.False(t, snap.KeyDialogVisible)
	assert.False(t, snap.IsValidatingKey)
	assert.True(t, snap.HasSession)

	stored, ok, err := store.Get(context.Background(), credential.KeyName)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, goodKey, stored)
}

func TestValidateKeyRejected(t *testing.T) {
	store := credential.NewMemoryStore()
	cs := newTestService(t, testutil.NewFakeClient(goodKey), store)
	require.NoError(t, cs.InitializeFromStoredCredential(context.Background()))

	err := cs.ValidateKey(context.Background(), "bad-key")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	snap := cs.Snapshot()
	assert.True(t, snap.KeyDialogVisible)
	assert.False(t, snap.IsValidatingKey)
	assert.Equal(t, models.AwaitingCredential, snap.Status)
	assert.Zero(t, store.Writes())
}

func TestValidateKeyRejectedKeepsExistingSession(t *testing.T) {
	cs, store := readyService(t, testutil.NewFakeClient(goodKey))
	cs.OpenKeyDialog()

	err := cs.ValidateKey(context.Background(), "bad-key")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	snap := cs.Snapshot()
	assert.Equal(t, models.Ready, snap.Status)
	assert.True(t, snap.HasSession)
	assert.True(t, snap.KeyDialogVisible)
	assert.Equal(t, 1, store.Writes())
}

func TestValidateKeyRejectsEmpty(t *testing.T) {
	store := credential.NewMemoryStore()
	client := testutil.NewFakeClient(goodKey)
	cs := newTestService(t, client, store)

	assert.ErrorIs(t, cs.ValidateKey(context.Background(), "   "), ErrValidation)
	assert.Empty(t, client.Prompts())
	assert.False(t, cs.Snapshot().IsValidatingKey)
}

func TestValidateKeyConcurrentCallRejected(t *testing.T) {
	client := testutil.NewFakeClient(goodKey)
	client.Gate = make(chan struct{})
	store := credential.NewMemoryStore()
	cs := newTestService(t, client, store)

	done := make(chan error, 1)
	go func() { done <- cs.ValidateKey(context.Background(), goodKey) }()
	waitFor(t, func() bool { return cs.Snapshot().IsValidatingKey })
	assert.Equal(t, models.Validating, cs.Snapshot().Status)

	assert.ErrorIs(t, cs.ValidateKey(context.Background(), goodKey), ErrAlreadyInProgress)

	close(client.Gate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, store.Writes())
	assert.False(t, cs.Snapshot().IsValidatingKey)
}

type failingStore struct {
	credential.Store
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func TestValidateKeyPersistFailureKeepsSession(t *testing.T) {
	cs := newTestService(t, testutil.NewFakeClient(goodKey), failingStore{credential.NewMemoryStore()})

	err := cs.ValidateKey(context.Background(), goodKey)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredential)

	snap := cs.Snapshot()
	assert.True(t, snap.HasSession)
	assert.Equal(t, models.Ready, snap.Status)
	assert.False(t, snap.IsValidatingKey)
}

func TestInitializeFromStoredCredential(t *testing.T) {
	tests := []struct {
		name       string
		stored     string
		wantStatus models.Status
		wantDialog bool
	}{
		{"absent", "", models.AwaitingCredential, true},
		{"valid", goodKey, models.Ready, false},
		{"invalid", "stale-key", models.AwaitingCredential, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := credential.NewMemoryStore()
			if tc.stored != "" {
				require.NoError(t, store.Set(context.Background(), credential.KeyName, tc.stored))
			}
			cs := newTestService(t, testutil.NewFakeClient(goodKey), store)

			require.NoError(t, cs.InitializeFromStoredCredential(context.Background()))

			snap := cs.Snapshot()
			assert.Equal(t, tc.wantStatus, snap.Status)
			assert.Equal(t, tc.wantDialog, snap.KeyDialogVisible)
			assert.False(t, snap.IsValidatingKey)

			// only the first call transitions
			require.NoError(t, cs.InitializeFromStoredCredential(context.Background()))
			assert.Equal(t, tc.wantStatus, cs.Snapshot().Status)
		})
	}
}

func TestCloseKeyDialogAttempt(t *testing.T) {
	cs := newTestService(t, testutil.NewFakeClient(goodKey), credential.NewMemoryStore())
	require.NoError(t, cs.InitializeFromStoredCredential(context.Background()))

	assert.False(t, cs.CloseKeyDialogAttempt())
	assert.True(t, cs.Snapshot().KeyDialogVisible)

	require.NoError(t, cs.ValidateKey(context.Background(), goodKey))
	cs.OpenKeyDialog()
	assert.True(t, cs.Snapshot().KeyDialogVisible)

	assert.True(t, cs.CloseKeyDialogAttempt())
	assert.False(t, cs.Snapshot().KeyDialogVisible)
}

func TestSelectModelIdempotent(t *testing.T) {
	cs, _ := readyService(t, testutil.NewFakeClient(goodKey))
	cs.OpenModelSelect()
	before := cs.Snapshot()
	require.True(t, before.ModelSelectOpen)

	require.NoError(t, cs.SelectModel(models.Gemini))

	after := cs.Snapshot()
	assert.False(t, after.ModelSelectOpen)
	after.ModelSelectOpen = true
	assert.Equal(t, before, after)

	assert.ErrorIs(t, cs.SelectModel("gpt"), ErrUnknownModel)
}

func TestEventLoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	client := testutil.NewFakeClient(goodKey)
	client.Reply = func(string) string { return "Hi there" }
	eb := eventbus.NewEventBus()
	cs := NewChatService(Options{
		Client:  client,
		Store:   credential.NewMemoryStore(),
		Catalog: catalog,
	}, eb)
	cs.Start()

	await := func(match func(eventbus.CoreEvent) bool) {
		t.Helper()
		timeout := time.After(5 * time.Second)
		for {
			select {
			case ev := <-eb.CoreToUI():
				if match(ev) {
					return
				}
			case <-timeout:
				t.Fatal("timed out waiting for core event")
			}
		}
	}
	snapshotWhere := func(pred func(models.Snapshot) bool) func(eventbus.CoreEvent) bool {
		return func(ev eventbus.CoreEvent) bool {
			u, ok := ev.(eventbus.StateUpdateEvent)
			return ok && pred(u.Snapshot)
		}
	}

	await(snapshotWhere(func(s models.Snapshot) bool { return s.KeyDialogVisible }))

	require.NoError(t, eb.SendToCore(eventbus.ValidateKeyEvent{Key: goodKey}))
	await(func(ev eventbus.CoreEvent) bool {
		n, ok := ev.(eventbus.NotificationEvent)
		return ok && n.Notice.Kind == models.NoticeSuccess
	})
	await(snapshotWhere(func(s models.Snapshot) bool { return s.Status == models.Ready }))

	require.NoError(t, eb.SendToCore(eventbus.SubmitMessageEvent{Text: "Hello"}))
	await(snapshotWhere(func(s models.Snapshot) bool {
		last, _ := s.LastMessage()
		return len(s.Messages) == 3 && last.Text == "Hi there"
	}))

	require.NoError(t, eb.SendToCore(eventbus.SubmitMessageEvent{Text: " "}))
	await(func(ev eventbus.CoreEvent) bool {
		u, ok := ev.(eventbus.StateUpdateEvent)
		return ok && errors.Is(u.Error, ErrValidation)
	})

	cs.Stop()
	eb.Close()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

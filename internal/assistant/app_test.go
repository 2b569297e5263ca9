package assistant

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yai-assistant/internal/client"
	"yai-assistant/internal/profile"
	"yai-assistant/internal/store"
	"yai-assistant/internal/types"
)

type fakeBackend struct {
	mu       sync.Mutex
	chatEnv  client.Envelope
	imageEnv client.Envelope
	err      error
	// release, when set, blocks each call until it is closed.
	release chan struct{}
	started chan struct{}

	chatCalls  [][]types.Turn
	imageCalls []string
}

func (f *fakeBackend) wait() {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
}

func (f *fakeBackend) Chat(_ context.Context, turns []types.Turn) (client.Envelope, error) {
	f.mu.Lock()
	f.chatCalls = append(f.chatCalls, turns)
	f.mu.Unlock()
	f.wait()
	return f.chatEnv, f.err
}

func (f *fakeBackend) Image(_ context.Context, prompt string) (client.Envelope, error) {
	f.mu.Lock()
	f.imageCalls = append(f.imageCalls, prompt)
	f.mu.Unlock()
	f.wait()
	return f.imageEnv, f.err
}

func newTestApp(t *testing.T, backend Backend) (*App, *profile.Store) {
	t.Helper()
	profiles := profile.NewStore(store.NewMemoryStorage())
	app := New(profile.NewLocalGate(profiles), profiles, backend)
	n := 0
	app.newID = func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
	return app, profiles
}

func signedIn(t *testing.T, backend Backend) (*App, *profile.Store) {
	t.Helper()
	app, profiles := newTestApp(t, backend)
	require.NoError(t, app.Register("Ava", "ava@x.com", "p1"))
	return app, profiles
}

var ignoreIDs = cmpopts.IgnoreFields(Message{}, "ID")

func TestRegisterThenLogout(t *testing.T) {
	app, profiles := newTestApp(t, &fakeBackend{})

	require.NoError(t, app.Register("Ava", "ava@x.com", "p1"))
	snap := app.Snapshot()
	assert.True(t, snap.Authenticated)
	assert.Equal(t, profile.Profile{Name: "Ava", Email: "ava@x.com", Password: "p1"}, snap.Profile)
	assert.Equal(t, TabChat, snap.Tab)

	require.NoError(t, app.Logout())
	_, ok := profiles.Load()
	assert.False(t, ok)
	assert.False(t, app.Snapshot().Authenticated)
}

func TestRegister_MissingFields(t *testing.T) {
	app, _ := newTestApp(t, &fakeBackend{})

	err := app.Register("Ava", "", "p1")
	assert.ErrorIs(t, err, profile.ErrMissingFields)
	snap := app.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.Equal(t, profile.ErrMissingFields.Error(), snap.AuthError)
}

func TestLogin_WrongPasswordIsDistinct(t *testing.T) {
	profiles := profile.NewStore(store.NewMemoryStorage())
	require.NoError(t, profiles.Save(profile.Profile{Name: "Ava", Email: "ava@x.com", Password: "p1"}))

	// a fresh session that has not restored anything yet
	app := &App{gate: profile.NewLocalGate(profiles), profiles: profiles, backend: &fakeBackend{}, tab: TabChat}

	err := app.Login("ava@x.com", "wrong")
	assert.ErrorIs(t, err, profile.ErrIncorrectPassword)
	snap := app.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.Equal(t, "Incorrect password.", snap.AuthError)

	err = app.Login("bob@x.com", "p1")
	assert.ErrorIs(t, err, profile.ErrAccountNotFound)
	assert.Equal(t, "Account not found. Please create a new account.", app.Snapshot().AuthError)

	require.NoError(t, app.Login("ava@x.com", "p1"))
	snap = app.Snapshot()
	assert.True(t, snap.Authenticated)
	assert.Empty(t, snap.AuthError)
}

func TestNew_RestoresStoredProfile(t *testing.T) {
	profiles := profile.NewStore(store.NewMemoryStorage())
	require.NoError(t, profiles.Save(profile.Profile{Name: "Ava", Email: "ava@x.com", Password: "p1"}))

	app := New(profile.NewLocalGate(profiles), profiles, &fakeBackend{})
	snap := app.Snapshot()
	assert.True(t, snap.Authenticated)
	assert.Equal(t, "Ava", snap.Profile.Name)

	assert.ErrorIs(t, app.Register("Bo", "bo@x.com", "p2"), ErrAlreadyAuthenticated)
}

func TestSelectTab(t *testing.T) {
	app, _ := newTestApp(t, &fakeBackend{})
	assert.ErrorIs(t, app.SelectTab(TabImages), ErrNotAuthenticated)

	require.NoError(t, app.Register("Ava", "ava@x.com", "p1"))
	app.SetChatInput("draft")
	for _, tab := range []Tab{TabImages, TabAccount, TabChat} {
		require.NoError(t, app.SelectTab(tab))
		assert.Equal(t, tab, app.Snapshot().Tab)
	}
	assert.Equal(t, "draft", app.Snapshot().PendingInput)

	assert.ErrorIs(t, app.SelectTab("settings"), ErrUnknownTab)
	assert.Equal(t, TabChat, app.Snapshot().Tab)
}

func TestSendChat_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		backend *fakeBackend
		want    string
	}{
		{"reply", &fakeBackend{chatEnv: client.Envelope{"reply": "hi"}}, "hi"},
		{"empty reply", &fakeBackend{chatEnv: client.Envelope{"reply": ""}}, ""},
		{"structured error", &fakeBackend{chatEnv: client.Envelope{"error": "boom"}}, "Error: boom"},
		{"reply not a string", &fakeBackend{chatEnv: client.Envelope{"reply": 42}}, "YAI could not generate a reply."},
		{"empty envelope", &fakeBackend{chatEnv: client.Envelope{}}, "YAI could not generate a reply."},
		{"transport failure", &fakeBackend{err: errors.New("connection refused")}, "Error talking to YAI backend. Please try again."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app, _ := signedIn(t, tc.backend)
			app.SetChatInput("hello")

			require.NoError(t, app.SendChat(context.Background(), "hello"))

			snap := app.Snapshot()
			want := []Message{
				{Role: types.RoleUser, Content: "hello"},
				{Role: types.RoleAssistant, Content: tc.want},
			}
			if diff := cmp.Diff(want, snap.Transcript, ignoreIDs); diff != "" {
				t.Errorf("transcript mismatch (-want +got):\n%s", diff)
			}
			assert.False(t, snap.ChatInFlight)
			assert.Empty(t, snap.PendingInput)
			assert.Equal(t, [][]types.Turn{{{Role: "user", Content: "hello"}}}, tc.backend.chatCalls)
		})
	}
}

func TestSendChat_OnlyNewTurnIsSent(t *testing.T) {
	backend := &fakeBackend{chatEnv: client.Envelope{"reply": "ok"}}
	app, _ := signedIn(t, backend)

	require.NoError(t, app.SendChat(context.Background(), "first"))
	require.NoError(t, app.SendChat(context.Background(), "  second  "))

	assert.Equal(t, [][]types.Turn{
		{{Role: "user", Content: "first"}},
		{{Role: "user", Content: "second"}},
	}, backend.chatCalls)

	snap := app.Snapshot()
	require.Len(t, snap.Transcript, 4)
	ids := map[string]bool{}
	for _, m := range snap.Transcript {
		ids[m.ID] = true
	}
	assert.Len(t, ids, 4, "message ids must be unique")
}

func TestSendChat_BlankIsNoop(t *testing.T) {
	backend := &fakeBackend{chatEnv: client.Envelope{"reply": "never"}}
	app, _ := signedIn(t, backend)

	require.NoError(t, app.SendChat(context.Background(), " \t\n"))
	assert.Empty(t, app.Snapshot().Transcript)
	assert.Empty(t, backend.chatCalls)
}

func TestSendChat_RequiresSession(t *testing.T) {
	backend := &fakeBackend{}
	app, _ := newTestApp(t, backend)
	assert.ErrorIs(t, app.SendChat(context.Background(), "hello"), ErrNotAuthenticated)
	assert.ErrorIs(t, app.GenerateImage(context.Background(), "a cat"), ErrNotAuthenticated)
	assert.Empty(t, backend.chatCalls)
	assert.Empty(t, backend.imageCalls)
}

func TestSendChat_BusyWhileInFlight(t *testing.T) {
	backend := &fakeBackend{
		chatEnv: client.Envelope{"reply": "slow"},
		release: make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	app, _ := signedIn(t, backend)

	done := make(chan error, 1)
	go func() { done <- app.SendChat(context.Background(), "first") }()
	<-backend.started

	snap := app.Snapshot()
	assert.True(t, snap.ChatInFlight)
	if diff := cmp.Diff([]Message{{Role: "user", Content: "first"}}, snap.Transcript, ignoreIDs); diff != "" {
		t.Errorf("user message must be appended before the call settles (-want +got):\n%s", diff)
	}
	assert.ErrorIs(t, app.SendChat(context.Background(), "second"), ErrBusy)

	close(backend.release)
	require.NoError(t, <-done)

	snap = app.Snapshot()
	assert.False(t, snap.ChatInFlight)
	want := []Message{{Role: "user", Content: "first"}, {Role: "assistant", Content: "slow"}}
	if diff := cmp.Diff(want, snap.Transcript, ignoreIDs); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}
}

func TestSendChat_ReplyAfterLogoutIsDropped(t *testing.T) {
	backend := &fakeBackend{
		chatEnv: client.Envelope{"reply": "late"},
		release: make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	app, _ := signedIn(t, backend)

	done := make(chan error, 1)
	go func() { done <- app.SendChat(context.Background(), "hello") }()
	<-backend.started

	require.NoError(t, app.Logout())
	close(backend.release)
	require.NoError(t, <-done)

	snap := app.Snapshot()
	assert.Empty(t, snap.Transcript)
	assert.False(t, snap.ChatInFlight)
}

func TestGenerateImage(t *testing.T) {
	tests := []struct {
		name    string
		backend *fakeBackend
		want    *string
	}{
		{"url", &fakeBackend{imageEnv: client.Envelope{"url": "https://img.example/cat.png"}}, ptr("https://img.example/cat.png")},
		{"no url field", &fakeBackend{imageEnv: client.Envelope{}}, nil},
		{"error envelope", &fakeBackend{imageEnv: client.Envelope{"error": "Failed to generate image."}}, nil},
		{"url not a string", &fakeBackend{imageEnv: client.Envelope{"url": true}}, nil},
		{"transport failure", &fakeBackend{err: errors.New("dial tcp: refused")}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app, _ := signedIn(t, tc.backend)

			require.NoError(t, app.GenerateImage(context.Background(), "a cat"))

			snap := app.Snapshot()
			assert.Equal(t, tc.want, snap.ImageURL)
			assert.False(t, snap.ImageInFlight)
			assert.Equal(t, "a cat", snap.ImagePrompt)
			assert.Equal(t, []string{"a cat"}, tc.backend.imageCalls)
		})
	}
}

func TestGenerateImage_ClearsPriorResult(t *testing.T) {
	backend := &fakeBackend{imageEnv: client.Envelope{"url": "https://img.example/1.png"}}
	app, _ := signedIn(t, backend)

	require.NoError(t, app.GenerateImage(context.Background(), "one"))
	require.NotNil(t, app.Snapshot().ImageURL)

	backend.imageEnv = client.Envelope{"error": "Server error while generating image."}
	require.NoError(t, app.GenerateImage(context.Background(), "two"))
	assert.Nil(t, app.Snapshot().ImageURL, "a failed generation must not leave the old image")
}

func TestGenerateImage_BlankIsNoop(t *testing.T) {
	backend := &fakeBackend{imageEnv: client.Envelope{"url": "https://img.example/never.png"}}
	app, _ := signedIn(t, backend)

	require.NoError(t, app.GenerateImage(context.Background(), "   "))
	assert.Empty(t, backend.imageCalls)
	assert.Nil(t, app.Snapshot().ImageURL)
}

func TestLogoutClearsSession(t *testing.T) {
	backend := &fakeBackend{
		chatEnv:  client.Envelope{"reply": "hi"},
		imageEnv: client.Envelope{"url": "https://img.example/cat.png"},
	}
	app, profiles := signedIn(t, backend)
	require.NoError(t, app.SendChat(context.Background(), "hello"))
	require.NoError(t, app.GenerateImage(context.Background(), "a cat"))
	require.NoError(t, app.SelectTab(TabAccount))
	app.SetChatInput("unsent")

	require.NoError(t, app.Logout())

	got := app.Snapshot()
	want := Snapshot{Tab: TabChat}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshot after logout (-want +got):\n%s", diff)
	}
	_, ok := profiles.Load()
	assert.False(t, ok)
	assert.ErrorIs(t, app.Logout(), ErrNotAuthenticated)
}

func TestProfileEditsPersist(t *testing.T) {
	app, profiles := signedIn(t, &fakeBackend{})

	require.NoError(t, app.SetName("Ava B"))
	require.NoError(t, app.SetEmail("ava.b@x.com"))
	require.NoError(t, app.SetPassword("p2"))

	stored, ok := profiles.Load()
	require.True(t, ok)
	want := profile.Profile{Name: "Ava B", Email: "ava.b@x.com", Password: "p2"}
	assert.Equal(t, want, stored)
	assert.Equal(t, want, app.Snapshot().Profile)
}

func TestSnapshotIsACopy(t *testing.T) {
	backend := &fakeBackend{
		chatEnv:  client.Envelope{"reply": "hi"},
		imageEnv: client.Envelope{"url": "https://img.example/cat.png"},
	}
	app, _ := signedIn(t, backend)
	require.NoError(t, app.SendChat(context.Background(), "hello"))
	require.NoError(t, app.GenerateImage(context.Background(), "a cat"))

	snap := app.Snapshot()
	snap.Transcript[0].Content = "changed"
	*snap.ImageURL = "changed"

	fresh := app.Snapshot()
	assert.Equal(t, "hello", fresh.Transcript[0].Content)
	assert.Equal(t, "https://img.example/cat.png", *fresh.ImageURL)
}

func ptr(s string) *string { return &s }

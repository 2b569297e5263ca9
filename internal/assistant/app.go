// Package assistant holds the session state behind the assistant UI: who is
// signed in, which tab is showing, the chat transcript and the image lab.
//
// Every action resolves its own failures into visible state. The only errors
// returned are misuse sentinels and local profile errors.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"yai-assistant/internal/client"
	"yai-assistant/internal/profile"
	"yai-assistant/internal/types"
)

type Tab string

const (
	TabChat    Tab = "chat"
	TabImages  Tab = "images"
	TabAccount Tab = "account"
)

var (
	ErrNotAuthenticated     = errors.New("not signed in")
	ErrAlreadyAuthenticated = errors.New("already signed in")
	ErrBusy                 = errors.New("a request is already in flight")
	ErrUnknownTab           = errors.New("unknown tab")
)

// Backend is the pair of proxy endpoints. client.Client implements it.
type Backend interface {
	Chat(ctx context.Context, turns []types.Turn) (client.Envelope, error)
	Image(ctx context.Context, prompt string) (client.Envelope, error)
}

// Message is one transcript entry. Entries are never edited once appended.
type Message struct {
	ID      string
	Role    string
	Content string
}

type conversation struct {
	transcript   []Message
	pendingInput string
	inFlight     bool
}

type imageLab struct {
	prompt    string
	resultURL *string
	inFlight  bool
}

type App struct {
	mu       sync.Mutex
	gate     profile.Gate
	profiles *profile.Store
	backend  Backend

	user    *profile.Profile
	tab     Tab
	authErr string
	conv    conversation
	lab     imageLab

	// session changes on every logout so replies to a closed session are dropped.
	session uint64
	newID   func(prefix string) string
}

// New builds an App and restores a previously stored profile, if any.
func New(gate profile.Gate, profiles *profile.Store, backend Backend) *App {
	a := &App{
		gate:     gate,
		profiles: profiles,
		backend:  backend,
		tab:      TabChat,
		newID:    func(prefix string) string { return prefix + "-" + uuid.NewString() },
	}
	if p, ok := profiles.Load(); ok {
		a.user = &p
	}
	return a
}

func (a *App) Register(name, email, password string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user != nil {
		return ErrAlreadyAuthenticated
	}
	p, err := a.gate.Register(name, email, password)
	if err != nil {
		a.authErr = err.Error()
		return err
	}
	a.signIn(p)
	return nil
}

func (a *App) Login(email, password string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user != nil {
		return ErrAlreadyAuthenticated
	}
	p, err := a.gate.Login(email, password)
	if err != nil {
		a.authErr = err.Error()
		return err
	}
	a.signIn(p)
	return nil
}

func (a *App) signIn(p profile.Profile) {
	a.user = &p
	a.authErr = ""
	a.tab = TabChat
}

// Logout forgets the stored profile and every piece of session state. The
// in-memory session ends even when the stored record cannot be removed.
func (a *App) Logout() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == nil {
		return ErrNotAuthenticated
	}
	err := a.gate.Logout()
	if err != nil {
		log.Printf("[assistant] logout: %v", err)
	}
	a.user = nil
	a.authErr = ""
	a.tab = TabChat
	a.conv = conversation{}
	a.lab = imageLab{}
	a.session++
	return err
}

func (a *App) SelectTab(tab Tab) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == nil {
		return ErrNotAuthenticated
	}
	switch tab {
	case TabChat, TabImages, TabAccount:
		a.tab = tab
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}
}

func (a *App) SetChatInput(text string) {
	a.mu.Lock()
	a.conv.pendingInput = text
	a.mu.Unlock()
}

func (a *App) SetImagePrompt(prompt string) {
	a.mu.Lock()
	a.lab.prompt = prompt
	a.mu.Unlock()
}

// SendChat appends text as a user message, sends it to the chat endpoint on
// its own and appends exactly one assistant message with the outcome.
func (a *App) SendChat(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)

	a.mu.Lock()
	if a.user == nil {
		a.mu.Unlock()
		return ErrNotAuthenticated
	}
	if text == "" {
		a.mu.Unlock()
		return nil
	}
	if a.conv.inFlight {
		a.mu.Unlock()
		return ErrBusy
	}
	a.conv.transcript = append(a.conv.transcript, Message{ID: a.newID("u"), Role: types.RoleUser, Content: text})
	a.conv.pendingInput = ""
	a.conv.inFlight = true
	session := a.session
	a.mu.Unlock()

	reply := msgBackendUnreachable
	defer func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.session != session {
			return
		}
		a.conv.transcript = append(a.conv.transcript, Message{ID: a.newID("a"), Role: types.RoleAssistant, Content: reply})
		a.conv.inFlight = false
	}()

	env, err := a.backend.Chat(ctx, []types.Turn{{Role: types.RoleUser, Content: text}})
	if err != nil {
		log.Printf("[assistant] chat request failed: %v", err)
		return nil
	}
	reply = foldReply(env)
	return nil
}

// GenerateImage clears the current result and asks the image endpoint for a
// new one. Anything but a usable url leaves the result absent.
func (a *App) GenerateImage(ctx context.Context, prompt string) error {
	a.mu.Lock()
	if a.user == nil {
		a.mu.Unlock()
		return ErrNotAuthenticated
	}
	if strings.TrimSpace(prompt) == "" {
		a.mu.Unlock()
		return nil
	}
	if a.lab.inFlight {
		a.mu.Unlock()
		return ErrBusy
	}
	a.lab.prompt = prompt
	a.lab.resultURL = nil
	a.lab.inFlight = true
	session := a.session
	a.mu.Unlock()

	var result *string
	defer func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.session != session {
			return
		}
		a.lab.resultURL = result
		a.lab.inFlight = false
	}()

	env, err := a.backend.Image(ctx, prompt)
	if err != nil {
		log.Printf("[assistant] image request failed: %v", err)
		return nil
	}
	if url, ok := env.Field("url"); ok && url != "" {
		result = &url
		return nil
	}
	if msg, ok := env.Field("error"); ok {
		log.Printf("[assistant] image endpoint: %s", msg)
	}
	return nil
}

func (a *App) SetName(name string) error {
	return a.editProfile(func(p *profile.Profile) { p.Name = name })
}

func (a *App) SetEmail(email string) error {
	return a.editProfile(func(p *profile.Profile) { p.Email = email })
}

func (a *App) SetPassword(password string) error {
	return a.editProfile(func(p *profile.Profile) { p.Password = password })
}

// editProfile applies edit to the signed-in profile and persists it at once.
func (a *App) editProfile(edit func(*profile.Profile)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == nil {
		return ErrNotAuthenticated
	}
	edit(a.user)
	return a.profiles.Save(*a.user)
}

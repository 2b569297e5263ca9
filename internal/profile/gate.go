package profile

import (
	"errors"
	"strings"
)

var (
	ErrMissingFields     = errors.New("Please fill in all required fields.")
	ErrAccountNotFound   = errors.New("Account not found. Please create a new account.")
	ErrIncorrectPassword = errors.New("Incorrect password.")
)

// Gate decides who may enter a session. Swapping the implementation
// replaces the credential check without touching the conversation code.
type Gate interface {
	Register(name, email, password string) (Profile, error)
	Login(email, password string) (Profile, error)
	Logout() error
}

// LocalGate checks credentials against the one profile in a Store.
type LocalGate struct {
	store *Store
}

func NewLocalGate(s *Store) *LocalGate {
	return &LocalGate{store: s}
}

func (g *LocalGate) Register(name, email, password string) (Profile, error) {
	p := Profile{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
	}
	if p.Name == "" || p.Email == "" || password == "" {
		return Profile{}, ErrMissingFields
	}
	if err := g.store.Save(p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (g *LocalGate) Login(email, password string) (Profile, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Profile{}, ErrMissingFields
	}
	existing, ok := g.store.Load()
	if !ok || existing.Email != email {
		return Profile{}, ErrAccountNotFound
	}
	if existing.Password != password {
		return Profile{}, ErrIncorrectPassword
	}
	return existing, nil
}

func (g *LocalGate) Logout() error {
	return g.store.Clear()
}

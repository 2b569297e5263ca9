// Package profile keeps the single local user record and the gate that
// decides whether a session may use the assistant.
//
// This is a local profile check, not authentication: the password is stored
// in plain text next to the profile and only compared for equality.
package profile

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"yai-assistant/internal/store"
)

// StorageKey is the fixed key the profile record lives under.
const StorageKey = "yai_user_v1"

type Profile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Valid reports whether p has the fields a stored record needs.
func (p Profile) Valid() bool {
	return strings.TrimSpace(p.Name) != "" && strings.TrimSpace(p.Email) != ""
}

// Store reads and writes the profile record as a whole.
type Store struct {
	storage store.Storage
}

func NewStore(storage store.Storage) *Store {
	return &Store{storage: storage}
}

// Load returns the stored profile. Any read or parse failure, and any record
// without a name or email, is reported as absent.
func (s *Store) Load() (Profile, bool) {
	raw, ok, err := s.storage.Get(StorageKey)
	if err != nil {
		log.Printf("[profile] read failed: %v", err)
		return Profile{}, false
	}
	if !ok || raw == "" {
		return Profile{}, false
	}
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		log.Printf("[profile] ignoring unreadable record: %v", err)
		return Profile{}, false
	}
	if !p.Valid() {
		return Profile{}, false
	}
	return p, true
}

// Save overwrites the stored record unconditionally.
func (s *Store) Save(p Profile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.storage.Set(StorageKey, string(b)); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *Store) Clear() error {
	if err := s.storage.Remove(StorageKey); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}
	return nil
}

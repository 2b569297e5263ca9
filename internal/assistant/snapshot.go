package assistant

import "yai-assistant/internal/profile"

// Snapshot is a copy of everything the UI shows. Changing it does not
// affect the App.
type Snapshot struct {
	Authenticated bool
	Profile       profile.Profile
	Tab           Tab
	AuthError     string

	Transcript   []Message
	PendingInput string
	ChatInFlight bool

	ImagePrompt   string
	ImageURL      *string
	ImageInFlight bool
}

func (a *App) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Snapshot{
		Authenticated: a.user != nil,
		Tab:           a.tab,
		AuthError:     a.authErr,
		PendingInput:  a.conv.pendingInput,
		ChatInFlight:  a.conv.inFlight,
		ImagePrompt:   a.lab.prompt,
		ImageInFlight: a.lab.inFlight,
	}
	if a.user != nil {
		s.Profile = *a.user
	}
	if len(a.conv.transcript) > 0 {
		s.Transcript = append([]Message(nil), a.conv.transcript...)
	}
	if a.lab.resultURL != nil {
		url := *a.lab.resultURL
		s.ImageURL = &url
	}
	return s
}

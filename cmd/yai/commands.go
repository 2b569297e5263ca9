package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"yai-assistant/internal/assistant"
	"yai-assistant/internal/types"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

const helpText = `Commands:
  /register            create the local profile
  /login               sign in with the stored profile
  /logout              forget the profile and this session
  /tab chat|images|account
  /image <prompt>      generate an image
  /name <value>        change your name
  /email <value>       change your email
  /password            change your password
  /whoami              show the signed-in profile
  /quit                leave
Anything else is sent to YAI as a chat message.`

// handle runs one input line and reports whether the session should end.
func (r *repl) handle(ctx context.Context, input string) bool {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	if !strings.HasPrefix(cmd, "/") {
		r.chat(ctx, input)
		return false
	}

	switch cmd {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(r.out, helpText)
	case "/register":
		r.register()
	case "/login":
		r.login()
	case "/logout":
		if err := r.app.Logout(); err != nil && !errors.Is(err, assistant.ErrNotAuthenticated) {
			r.fail(err)
		}
		r.status()
	case "/tab":
		r.report(r.app.SelectTab(assistant.Tab(arg)))
	case "/image":
		r.image(ctx, arg)
	case "/name":
		r.report(r.app.SetName(arg))
	case "/email":
		r.report(r.app.SetEmail(arg))
	case "/password":
		if arg == "" {
			var err error
			if arg, err = r.in.PasswordPrompt("New password: "); err != nil {
				return false
			}
		}
		r.report(r.app.SetPassword(arg))
	case "/whoami":
		r.status()
	default:
		fmt.Fprintln(r.out, errorStyle.Render("unknown command "+cmd+"; try /help"))
	}
	return false
}

func (r *repl) register() {
	name, err := r.in.Prompt("Name: ")
	if err != nil {
		return
	}
	email, err := r.in.Prompt("Email: ")
	if err != nil {
		return
	}
	password, err := r.in.PasswordPrompt("Password: ")
	if err != nil {
		return
	}
	if err := r.app.Register(name, email, password); err != nil {
		r.fail(err)
		return
	}
	r.status()
}

func (r *repl) login() {
	email, err := r.in.Prompt("Email: ")
	if err != nil {
		return
	}
	password, err := r.in.PasswordPrompt("Password: ")
	if err != nil {
		return
	}
	if err := r.app.Login(email, password); err != nil {
		r.fail(err)
		return
	}
	r.status()
}

func (r *repl) chat(ctx context.Context, text string) {
	if err := r.app.SendChat(ctx, text); err != nil {
		r.fail(err)
		return
	}
	transcript := r.app.Snapshot().Transcript
	if n := len(transcript); n > 0 && transcript[n-1].Role == types.RoleAssistant {
		fmt.Fprintln(r.out, assistantStyle.Render("YAI: ")+transcript[n-1].Content)
	}
}

func (r *repl) image(ctx context.Context, prompt string) {
	if prompt == "" {
		fmt.Fprintln(r.out, errorStyle.Render("usage: /image <prompt>"))
		return
	}
	if err := r.app.GenerateImage(ctx, prompt); err != nil {
		r.fail(err)
		return
	}
	if url := r.app.Snapshot().ImageURL; url != nil {
		fmt.Fprintln(r.out, assistantStyle.Render("Image: ")+*url)
		return
	}
	fmt.Fprintln(r.out, errorStyle.Render("No image was generated."))
}

func (r *repl) status() {
	snap := r.app.Snapshot()
	if !snap.Authenticated {
		fmt.Fprintln(r.out, dimStyle.Render("Not signed in. Use /register or /login."))
		return
	}
	fmt.Fprintf(r.out, "Signed in as %s <%s>\n", snap.Profile.Name, snap.Profile.Email)
}

func (r *repl) report(err error) {
	if err != nil {
		r.fail(err)
	}
}

func (r *repl) fail(err error) {
	fmt.Fprintln(r.out, errorStyle.Render(err.Error()))
}

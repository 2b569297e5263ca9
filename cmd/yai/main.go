package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"yai-assistant/internal/assistant"
	"yai-assistant/internal/client"
	"yai-assistant/internal/config"
	"yai-assistant/internal/logging"
	"yai-assistant/internal/profile"
	"yai-assistant/internal/store"
)

func main() {
	cfg := config.Load()
	logs := logging.SetupFile(filepath.Join(cfg.DataDir, "yai.log"))
	defer logs.Close()

	profiles := profile.NewStore(store.NewFileStorage(cfg.DataDir))
	app := assistant.New(profile.NewLocalGate(profiles), profiles, client.New(cfg.BackendURL))

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	historyFile := filepath.Join(cfg.DataDir, "history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	r := &repl{app: app, in: line, out: os.Stdout}
	r.run(context.Background(), line)

	if f, err := os.OpenFile(historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
	line.Close()
}

// prompter is the part of *liner.State the commands use.
type prompter interface {
	Prompt(prompt string) (string, error)
	PasswordPrompt(prompt string) (string, error)
}

type repl struct {
	app *assistant.App
	in  prompter
	out io.Writer
}

func (r *repl) run(ctx context.Context, history interface{ AppendHistory(string) }) {
	fmt.Fprintln(r.out, titleStyle.Render("YAI")+" "+dimStyle.Render("type /help for commands"))
	r.status()
	for {
		input, err := r.in.Prompt(r.promptText())
		if err != nil {
			if !errors.Is(err, liner.ErrPromptAborted) && !errors.Is(err, io.EOF) {
				fmt.Fprintf(r.out, "\n%v\n", err)
			}
			fmt.Fprintln(r.out)
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		// passwords typed inline stay out of the history file
		if !strings.HasPrefix(input, "/password") {
			history.AppendHistory(input)
		}
		if quit := r.handle(ctx, input); quit {
			return
		}
	}
}

func (r *repl) promptText() string {
	snap := r.app.Snapshot()
	if !snap.Authenticated {
		return "yai> "
	}
	return fmt.Sprintf("yai[%s]> ", snap.Tab)
}

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"buyxtra/internal/catalog"
	"buyxtra/internal/chat"
	"buyxtra/internal/config"
	"buyxtra/internal/logger"
)

// chatCmd runs the support assistant in the terminal.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the support assistant in the terminal",
	Long: `Start an interactive session with the Buy Xtra support assistant.
Replies stream chunk by chunk, exactly as the storefront widget renders
them. Type 'exit' or press Ctrl-D to quit.`,
	Run: runChat,
}

var (
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true)
)

// streamRenderer prints assistant turns incrementally. Later chunks mutate
// the last turn rather than appending new ones, so the renderer tracks how
// much of the current turn it has already written and emits only the tail.
type streamRenderer struct {
	turnID  string
	printed int
}

func (r *streamRenderer) onEvent(ev chat.Event) {
	if ev.Kind != chat.EventMessageLogChanged || len(ev.Log.Turns) == 0 {
		return
	}
	last := ev.Log.Turns[len(ev.Log.Turns)-1]
	if last.Speaker != chat.SpeakerAssistant {
		return
	}
	if last.ID != r.turnID {
		r.turnID = last.ID
		r.printed = 0
		fmt.Print(assistantStyle.Render("assistant> "))
	}
	if r.printed < len(last.Text) {
		fmt.Print(assistantStyle.Render(last.Text[r.printed:]))
		r.printed = len(last.Text)
	}
}

func runChat(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	store, err := catalog.Load()
	if err != nil {
		logger.Fatal("Failed to load catalog", "error", err)
	}

	client := chat.NewGeminiClient(cfg.GeminiAPIKey)
	if !client.IsConfigured() {
		fmt.Println(noticeStyle.Render("GEMINI_API_KEY is not set; the assistant will reply with an error message."))
	}

	renderer := &streamRenderer{}
	controller := chat.NewController(client, store.Products(), chat.Options{
		Model:         cfg.Model,
		ContactNumber: store.ContactNumber(),
		StreamTimeout: cfg.StreamTimeout,
		Listener:      renderer.onEvent,
	})
	defer controller.Close()

	// The greeting is already in the log; print it the same way a
	// streamed turn would appear.
	fmt.Println(assistantStyle.Render("assistant> " + chat.Greeting))

	if err := chatLoop(os.Stdin, controller); err != nil {
		logger.Fatal("Reading input failed", "error", err)
	}
}

// chatLoop reads user lines and dispatches them until EOF, an exit
// command, or a read error. A nil return means the user ended the session;
// a non-nil return is a terminal input failure (not EOF).
func chatLoop(in io.Reader, controller *chat.Controller) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Print(promptStyle.Render("you> "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			return nil
		}
		if line == "" {
			continue
		}

		if err := controller.Send(context.Background(), line); err != nil {
			if errors.Is(err, chat.ErrClosed) {
				return nil
			}
			fmt.Println(noticeStyle.Render(err.Error()))
			continue
		}
		fmt.Println()
	}
}

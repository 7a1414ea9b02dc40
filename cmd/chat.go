package cmd

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pageforge/pageforge/internal"
	"github.com/spf13/cobra"
)

var chatNew bool

var (
	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	replyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [chat-id]",
	Short: "Start or resume a conversation",
	Long: `Open an interactive conversation with the generation service.

With no argument the previously open chat is resumed when one exists;
pass a chat id (or unique prefix) to resume a specific chat, or --new to
force a fresh one.

Inside the session:
  /improve            Ask the model to refine your draft prompt
  /continue           Extend the last AI message where it was cut off
  /image <path>       Attach a PNG or JPEG to your next prompt
  /save <path>        Write the current HTML artifact to a file
  /quit               Leave the session`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		client := internal.NewGenerationClient(cfg.BaseURL, internal.Credentials{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
		})

		controller, err := resolveController(store, client, args)
		if err != nil {
			return err
		}
		defer controller.Close()

		if err := store.SetSelectedChat(controller.ChatID()); err != nil {
			internal.LogWarn("Failed to persist selected chat: %v", err)
		}

		return runChatLoop(cmd.Context(), controller)
	},
}

// resolveController picks the conversation to open: an explicit id, the
// persisted selection, or a brand-new chat.
func resolveController(store internal.Store, client internal.Generator, args []string) (*internal.SessionController, error) {
	if chatNew {
		return internal.NewSessionController(store, client), nil
	}

	idOrPrefix := ""
	if len(args) == 1 {
		idOrPrefix = args[0]
	} else if selected, err := store.SelectedChat(); err == nil {
		idOrPrefix = selected
	}

	if idOrPrefix == "" {
		return internal.NewSessionController(store, client), nil
	}

	record, err := findChat(store, idOrPrefix)
	if err != nil {
		if len(args) == 1 {
			return nil, err
		}
		// Stale selection; fall back to a new chat.
		return internal.NewSessionController(store, client), nil
	}
	return internal.ResumeSessionController(store, client, record), nil
}

func runChatLoop(ctx context.Context, controller *internal.SessionController) error {
	fmt.Println(noticeStyle.Render("chat " + controller.ChatID() + " — /quit to leave, /help for commands"))
	replayMessages(controller.Messages())

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		prefix := "> "
		if draft := controller.Draft(); draft != "" {
			fmt.Println(noticeStyle.Render("draft: " + draft))
		}
		fmt.Print(promptStyle.Render(prefix))

		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := handleCommand(ctx, controller, line)
			if err != nil {
				fmt.Println(noticeStyle.Render(err.Error()))
			}
			if quit {
				return nil
			}
			continue
		}

		before := len(controller.Messages())
		if err := controller.Generate(ctx, line); err != nil {
			fmt.Println(noticeStyle.Render(err.Error()))
			continue
		}
		controller.SetDraft("")
		printNewMessages(controller.Messages(), before+1)
	}
}

func handleCommand(ctx context.Context, controller *internal.SessionController, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true, nil

	case "/help":
		fmt.Println(noticeStyle.Render("/improve /continue /image <path> /save <path> /quit"))
		return false, nil

	case "/improve":
		draft := controller.Draft()
		if draft == "" && len(fields) > 1 {
			draft = strings.Join(fields[1:], " ")
		}
		if err := controller.Improve(ctx, draft); err != nil {
			if internal.IsGuard(err) {
				return false, err
			}
			return false, errors.New("could not improve the prompt, draft left unchanged")
		}
		fmt.Println(noticeStyle.Render("improved draft: " + controller.Draft()))
		return false, nil

	case "/continue":
		before := len(controller.Messages())
		if err := controller.Continue(ctx); err != nil {
			return false, err
		}
		messages := controller.Messages()
		if len(messages) == before {
			// Extended in place; show the grown message.
			idx := (&internal.ChatRecord{Messages: messages}).LastAssistant()
			if idx >= 0 {
				fmt.Println(replyStyle.Render(messages[idx].Content))
			}
		} else {
			printNewMessages(messages, before)
		}
		return false, nil

	case "/image":
		if len(fields) != 2 {
			return false, errors.New("usage: /image <path>")
		}
		dataURI, err := loadImageAsDataURI(fields[1])
		if err != nil {
			return false, err
		}
		controller.AttachImage(dataURI)
		fmt.Println(noticeStyle.Render("image staged for the next prompt"))
		return false, nil

	case "/save":
		if len(fields) != 2 {
			return false, errors.New("usage: /save <path>")
		}
		return false, saveArtifact(controller, fields[1])

	default:
		return false, fmt.Errorf("unknown command %s", fields[0])
	}
}

func replayMessages(messages []internal.Message) {
	printNewMessages(messages, 0)
}

func printNewMessages(messages []internal.Message, from int) {
	for _, msg := range messages[from:] {
		if msg.IsUser {
			fmt.Println(promptStyle.Render("You: ") + msg.Content)
		} else {
			fmt.Println(replyStyle.Render(msg.Content))
		}
	}
}

// loadImageAsDataURI reads a PNG/JPEG file and encodes it the way the wire
// format expects images to arrive from callers.
func loadImageAsDataURI(path string) (string, error) {
	var mime string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		mime = "image/png"
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	default:
		return "", errors.New("only PNG, JPG or JPEG files are supported")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func saveArtifact(controller *internal.SessionController, path string) error {
	messages := controller.Messages()
	idx := (&internal.ChatRecord{Messages: messages}).LastAssistant()
	if idx < 0 {
		return errors.New("no assistant message yet")
	}
	artifact := internal.ExtractHTMLArtifact(messages[idx].Content)
	if artifact == "" {
		return errors.New("no HTML artifact in the last AI message")
	}
	if err := os.WriteFile(path, []byte(artifact), 0644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	fmt.Println(noticeStyle.Render("saved " + path))
	return nil
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().BoolVar(&chatNew, "new", false, "Start a fresh chat instead of resuming")
}

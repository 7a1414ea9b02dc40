package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pageforge/pageforge/internal"
	"github.com/spf13/cobra"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var listWatch bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved chats",
	Long: `List all chats held in the local store, newest first.

With --watch the list stays open and refreshes as chats are written,
including writes from another pageforge process sharing the store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		if listWatch {
			return watchChats(cmd, store)
		}

		records, err := store.GetAll()
		if err != nil {
			return fmt.Errorf("failed to load chats: %w", err)
		}
		internal.SortByCreatedAtDesc(records)

		displayChats(records)
		return nil
	},
}

// watchChats runs the registry sync loop and redraws whenever the snapshot
// changes, until interrupted.
func watchChats(cmd *cobra.Command, store internal.Store) error {
	registry := internal.NewRegistry(store, internal.DefaultSyncInterval)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	go registry.Run(ctx)

	drawn := false
	var lastDigest string
	ticker := time.NewTicker(internal.DefaultSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			records := registry.Snapshot()
			digest := chatsDigest(records)
			if drawn && digest == lastDigest {
				continue
			}
			drawn = true
			lastDigest = digest
			fmt.Print("\033[H\033[2J")
			displayChats(records)
		}
	}
}

// chatsDigest folds everything the table shows into a comparison key, so the
// watch loop redraws on any visible change: a new chat, a new title, a new
// message, or an existing message growing in place.
func chatsDigest(records []internal.ChatRecord) string {
	var b strings.Builder
	for _, r := range records {
		fmt.Fprintf(&b, "%s\x1f%s\x1f%d", r.ID, r.Title, r.CreatedAt)
		for _, m := range r.Messages {
			fmt.Fprintf(&b, "\x1f%d", len(m.Content))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func displayChats(records []internal.ChatRecord) {
	if len(records) == 0 {
		fmt.Println(headerStyle.Render("📋 No chats found"))
		return
	}

	header := headerStyle.Render(fmt.Sprintf("📋 Found %d chat(s)", len(records)))
	fmt.Println(header)
	fmt.Println()

	// Use tabwriter for aligned columns with better spacing
	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Created")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, record := range records {
		title := record.Title
		if title == "" {
			title = "Untitled"
		}
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
		title = nameStyle.Render(title)

		msgCount := countStyle.Render(strconv.Itoa(len(record.Messages)))

		created := dateStyle.Render("—")
		if record.CreatedAt > 0 {
			t := record.GetCreatedAt()
			diff := time.Since(t)
			switch {
			case diff < 24*time.Hour:
				created = dateStyle.Render(t.Format("Today 15:04"))
			case diff < 7*24*time.Hour:
				created = dateStyle.Render(t.Format("Mon 15:04"))
			case diff < 365*24*time.Hour:
				created = dateStyle.Render(t.Format("Jan 02 15:04"))
			default:
				created = dateStyle.Render(t.Format("2006-01-02"))
			}
		}

		// Show short ID (first 8 chars) for readability, but it's the full chat id
		shortID := record.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		id := idStyle.Render(shortID)

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", id, title, msgCount, created)
	}

	_ = w.Flush()
	fmt.Println()
	fmt.Println(idStyle.Render("💡 Tip: Use the full ID (e.g., ") +
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(records[0].ID) +
		idStyle.Render(") with `pageforge show <id>`"))
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVarP(&listWatch, "watch", "w", false, "Keep the list open and refresh on changes")
}

// Medibot CLI - command line client for the Medibot cardiology triage
// service.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Kedjuprecious/medibot-app/internal/config"
	"github.com/Kedjuprecious/medibot-app/medibot"
	"github.com/Kedjuprecious/medibot-app/medibot/cache"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg := config.Load()
	client := medibot.NewClient(cfg.BaseURL)
	ctx := context.Background()
	cmd := os.Args[1]

	switch cmd {
	case "signup":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: medibot signup <email> <username>")
			os.Exit(1)
		}
		resp, err := client.CreateUser(ctx, medibot.CreateUserRequest{
			Email:    os.Args[2],
			Username: os.Args[3],
			Role:     "patient",
		})
		exitOnError(err)
		fmt.Println(resp.Message)

	case "whoami":
		email := cfg.UserEmail
		if len(os.Args) > 2 {
			email = os.Args[2]
		}
		if email == "" {
			fmt.Fprintln(os.Stderr, "Usage: medibot whoami <email> (or set MEDIBOT_USER_EMAIL)")
			os.Exit(1)
		}
		user, err := client.GetUserByEmail(ctx, email)
		exitOnError(err)
		printJSON(user)

	case "conversations":
		userID := requireUserID(cfg)
		convs, err := client.ListConversations(ctx, userID)
		exitOnError(err)
		for _, conv := range convs {
			fmt.Printf("  %s  %s (%d msgs, %s)\n",
				conv.ID, conv.Title, len(conv.Messages), conv.CreatedAt.Format("2006-01-02 15:04"))
		}

	case "messages":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: medibot messages <conversation_id>")
			os.Exit(1)
		}
		msgs, err := client.GetMessages(ctx, os.Args[2])
		exitOnError(err)
		for _, m := range msgs {
			fmt.Printf("%s: %s\n", m.Sender, m.Text)
		}

	case "delete":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: medibot delete <conversation_id>")
			os.Exit(1)
		}
		exitOnError(client.DeleteConversation(ctx, os.Args[2]))
		fmt.Println("Deleted.")

	case "chat":
		runChat(ctx, cfg, client)

	case "doctors":
		for _, doc := range seedDoctors().List() {
			fmt.Printf("  %s  %d years, %s (license %s)\n",
				doc.Name, doc.ExperienceYears, doc.Location, doc.License)
		}

	case "help", "--help", "-h":
		usage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

// runChat drives an interactive triage conversation through the session
// manager, the same way the mobile chat screen does.
func runChat(ctx context.Context, cfg *config.Config, client *medibot.Client) {
	userID := requireUserID(cfg)
	ident := medibot.StaticIdentity{ID: userID, Email: cfg.UserEmail}

	fileCache, err := cache.NewFileCache(cfg.CacheDir)
	exitOnError(err)

	session := medibot.NewSession(client, ident, fileCache)
	if err := session.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load conversations: %v\n", err)
		session.NewConversation()
	}

	active, _ := session.Active()
	fmt.Printf("CardioBot ready. Conversation: %s\n", active.Title)
	fmt.Println(`Type a message, or /new, /list, /open <id>, /delete, /quit.`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue

		case line == "/quit":
			return

		case line == "/new":
			conv := session.NewConversation()
			fmt.Printf("Started %s\n", conv.Title)

		case line == "/list":
			for _, conv := range session.Conversations() {
				marker := " "
				if conv.ID == session.ActiveID() {
					marker = "*"
				}
				fmt.Printf("%s %s  %s (%d msgs)\n", marker, conv.ID, conv.Title, len(conv.Messages))
			}

		case strings.HasPrefix(line, "/open "):
			id := strings.TrimSpace(strings.TrimPrefix(line, "/open "))
			if err := session.Select(id); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case line == "/delete":
			if err := session.Delete(ctx, session.ActiveID()); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			fmt.Println("Conversation deleted.")

		default:
			result, err := session.Send(ctx, line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			fmt.Printf("\nCardioBot: %s\n", result.Reply)
			if result.Escalate {
				// The app staggers the summary like a second message.
				time.Sleep(1500 * time.Millisecond)
				fmt.Printf("\nCardioBot: %s\n", result.Summary)
				fmt.Println("\nDo you want to see a doctor? Run `medibot doctors` to browse cardiologists.")
			}
		}
	}
}

// seedDoctors returns the demo cardiologist directory shown until doctor
// records move to the backend.
func seedDoctors() *medibot.DoctorDirectory {
	return medibot.NewDoctorDirectory([]medibot.Doctor{
		{
			ID:              "1",
			Name:            "Dr. Basile Njei",
			ExperienceYears: 5,
			Location:        "Douala, Cameroon",
			License:         "CM-DLA-00123",
			PhotoURI:        "https://i.pravatar.cc/100?u=basile",
		},
		{
			ID:              "2",
			Name:            "Dr. Marie Solange",
			ExperienceYears: 7,
			Location:        "Douala, Cameroon",
			License:         "CM-DLA-00456",
			PhotoURI:        "https://i.pravatar.cc/100?u=marie",
		},
	})
}

func requireUserID(cfg *config.Config) string {
	if cfg.UserID == "" {
		fmt.Fprintln(os.Stderr, "MEDIBOT_USER_ID is not set; run `medibot whoami <email>` and export the id")
		os.Exit(1)
	}
	return cfg.UserID
}

func usage() {
	fmt.Println(`Medibot CLI - cardiology triage chat

Usage: medibot <command> [options]

Commands:
  signup <email> <username>   Provision an account
  whoami [email]              Look up your account record
  chat                        Interactive triage chat
  conversations               List your conversations
  messages <conversation_id>  Show a conversation's messages
  delete <conversation_id>    Delete a conversation
  doctors                     Browse available cardiologists
  help                        Show this help

Environment:
  MEDIBOT_URL          Backend base URL (default: hosted backend)
  MEDIBOT_USER_ID      Backend user id (from whoami)
  MEDIBOT_USER_EMAIL   Account email
  MEDIBOT_CACHE_DIR    Conversation cache directory (default: ~/.medibot)`)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printJSON(v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}

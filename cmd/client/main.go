package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"pairchat/client"
	"pairchat/domain"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerURL string `env:"CHAT_SERVER_URL,default=http://localhost:8080"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := client.New(config.ServerURL)
	if err != nil {
		return exitRuntime, err
	}
	defer c.Close()

	in := bufio.NewScanner(os.Stdin)
	if err := authenticate(c, in); err != nil {
		return exitRuntime, err
	}

	c.PresenceUpdated = func(online []domain.Identity) {
		color.Gray.Printf("[presence] %d online\n", len(online))
	}
	c.MessageApplied = func(msg domain.Message) {
		color.Cyan.Printf("%s> %s\n", msg.SenderID, renderBody(msg))
	}

	if err := c.Connect(ctx); err != nil {
		return exitRuntime, err
	}
	color.Green.Printf(">>> Connected to %s (Ctrl+C to quit)\n", config.ServerURL)

	return repl(ctx, c, in)
}

// authenticate prompts for login or signup until one succeeds.
func authenticate(c *client.Client, in *bufio.Scanner) error {
	for {
		mode := prompt(in, "login or signup? ")
		switch mode {
		case "signup":
			name := prompt(in, "full name: ")
			email := prompt(in, "email: ")
			password := prompt(in, "password: ")
			user, err := c.Signup(name, email, password)
			if err != nil {
				color.Red.Println(err)
				continue
			}
			color.Green.Printf("Welcome, %s\n", user.FullName)
			return nil
		case "login":
			email := prompt(in, "email: ")
			password := prompt(in, "password: ")
			user, err := c.Login(email, password)
			if err != nil {
				color.Red.Println(err)
				continue
			}
			color.Green.Printf("Welcome back, %s\n", user.FullName)
			return nil
		case "":
			return fmt.Errorf("stdin closed")
		default:
			color.Yellow.Println("type 'login' or 'signup'")
		}
	}
}

// repl reads commands until the context is canceled or stdin closes.
// Commands: /users, /select <id>, /quit, anything else is sent as a
// message to the selected counterpart.
func repl(ctx context.Context, c *client.Client, in *bufio.Scanner) (int, error) {
	var counterpart domain.Identity

	for {
		select {
		case <-ctx.Done():
			return exitOK, nil
		default:
		}

		line := prompt(in, "")
		switch {
		case line == "":
			if in.Err() == nil {
				return exitOK, nil
			}
			return exitRuntime, in.Err()
		case line == "/quit":
			return exitOK, nil
		case line == "/users":
			if err := printContacts(c); err != nil {
				color.Red.Println(err)
			}
		case strings.HasPrefix(line, "/select "):
			counterpart = domain.Identity(strings.TrimSpace(strings.TrimPrefix(line, "/select ")))
			view, err := c.Select(counterpart)
			if err != nil {
				color.Red.Println(err)
				counterpart = ""
				continue
			}
			for _, msg := range view.Messages {
				color.Cyan.Printf("%s> %s\n", msg.SenderID, renderBody(msg))
			}
		default:
			if counterpart == "" {
				color.Yellow.Println("select a counterpart first: /select <id>")
				continue
			}
			msg, err := c.SendMessage(counterpart, line, nil)
			if err != nil {
				color.Red.Println(err)
				continue
			}
			color.Gray.Printf("sent %s\n", msg.ID)
		}
	}
}

func printContacts(c *client.Client) error {
	contacts, err := c.Contacts()
	if err != nil {
		return err
	}
	online := make(map[domain.Identity]bool)
	for _, id := range c.Online() {
		online[id] = true
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Email", "Online"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, contact := range contacts {
		status := ""
		if online[contact.ID] {
			status = "yes"
		}
		table.Append([]string{string(contact.ID), contact.FullName, contact.Email, status})
	}
	table.Render()
	return nil
}

func renderBody(msg domain.Message) string {
	if msg.Image != "" && msg.Text == "" {
		return fmt.Sprintf("[image %s]", msg.Image)
	}
	if msg.Image != "" {
		return fmt.Sprintf("%s [image %s]", msg.Text, msg.Image)
	}
	return msg.Text
}

func prompt(in *bufio.Scanner, label string) string {
	if label != "" {
		fmt.Print(label)
	}
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/karimnasser/schedbot/internal/config"
	"github.com/karimnasser/schedbot/internal/conversation"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Schedule a meeting from an interactive terminal session",
	Long:  `Opens a terminal conversation with the scheduling assistant. The session ends when a meeting is booked, on an unrecoverable error, or when you type "exit".`,
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	// The terminal chat is text-only.
	cfg.Voice.Enabled = false

	a, err := buildAssistant(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	sessionID := uuid.New().String()
	ctx := context.Background()

	fmt.Println("Hi! I can help you schedule a meeting. What do you need?")
	fmt.Println(`(type "exit" to quit)`)
	fmt.Println()

	prompt := promptui.Prompt{
		Label: "you",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("say something")
			}
			return nil
		},
	}

	for {
		input, err := prompt.Run()
		if err != nil {
			// Ctrl-C / Ctrl-D end the session.
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				fmt.Println("Bye!")
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}
		if strings.EqualFold(strings.TrimSpace(input), "exit") {
			fmt.Println("Bye!")
			return nil
		}

		resp, err := a.gateway.ProcessMessage(ctx, conversation.MessageRequest{
			SessionID: sessionID,
			UserQuery: input,
		})
		if err != nil {
			return fmt.Errorf("processing turn: %w", err)
		}

		fmt.Printf("\nschedbot: %s\n", resp.Reply)
		if len(resp.SuggestedActions) > 0 {
			fmt.Printf("(%s)\n", strings.Join(resp.SuggestedActions, " / "))
		}
		fmt.Println()

		if resp.State.Terminal() {
			if resp.State == conversation.StateError {
				fmt.Fprintln(os.Stderr, "Session ended with an error.")
			}
			return nil
		}
	}
}

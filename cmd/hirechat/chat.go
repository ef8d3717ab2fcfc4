package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/hirechat/internal/assistant"
	"github.com/jonathan/hirechat/internal/history"
	"github.com/jonathan/hirechat/internal/replies"
	"github.com/jonathan/hirechat/internal/types"
)

var (
	chatMessages   []string
	chatTranscript bool
	chatNoHistory  bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant for your role",
	Long: `Start an interactive chat with the rule-based assistant. Applicants get the job
search assistant, hiring managers the posting assistant that can create and close
jobs, analyse applications and draft emails. Type "help" for examples and "exit"
to leave. Use --message to send messages without a prompt.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringArrayVarP(&chatMessages, "message", "m", nil, "Send a message and exit (repeatable)")
	chatCmd.Flags().BoolVar(&chatTranscript, "transcript", false, "Print the transcript when the chat ends")
	chatCmd.Flags().BoolVar(&chatNoHistory, "no-history", false, "Do not record this chat in the local history")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	sess, client, err := a.authenticated(cmd.Context())
	if err != nil {
		return err
	}

	var responder assistant.Responder
	replyFile, panel := replies.Applicant, "applicant"
	if sess.Role() == types.RoleHiringManager {
		responder = assistant.NewManager()
		replyFile, panel = replies.Manager, "manager"
	} else {
		responder = assistant.NewApplicant()
	}

	var store *history.Store
	if !chatNoHistory {
		store, err = a.openHistory()
		if err != nil {
			slog.Warn("chat history disabled", slog.Any("error", err))
		} else {
			defer func() { _ = store.Close() }()
		}
	}

	backend := assistant.NewBackend(client)
	chat := assistant.NewSession(responder, assistant.WithExecutor(backend), assistant.WithLoader(backend))
	if err := chat.Refresh(cmd.Context()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	saved := 0
	say := func(text string) error {
		reply, err := chat.Send(cmd.Context(), text)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "%s\n\n", reply.Text)

		if store != nil {
			msgs := chat.Transcript().Messages()
			if err := store.Append(cmd.Context(), sess.User.Email, panel, msgs[saved:]...); err != nil {
				slog.Warn("failed to record chat history", slog.Any("error", err))
			} else {
				saved = len(msgs)
			}
		}
		return nil
	}

	if len(chatMessages) > 0 {
		for _, msg := range chatMessages {
			if err := say(msg); err != nil {
				return err
			}
		}
	} else {
		_, _ = fmt.Fprintln(out, replies.Render(replyFile, "greeting", map[string]string{"Name": firstName(sess.User)}))
		if err := chatLoop(cmd, say); err != nil {
			return err
		}
	}

	if chatTranscript {
		a.printer.PrintTranscript(chat.Transcript().Messages())
	}
	return nil
}

// chatLoop reads one message per line until EOF or an exit word.
func chatLoop(cmd *cobra.Command, say func(string) error) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		_, _ = fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit", "bye":
			_, _ = fmt.Fprintln(out, "Bye!")
			return nil
		}

		if err := say(line); err != nil && !errors.Is(err, assistant.ErrEmptyMessage) {
			return err
		}
	}
}

func firstName(user *types.User) string {
	if user == nil {
		return "there"
	}
	if fields := strings.Fields(user.FullName); len(fields) > 0 {
		return fields[0]
	}
	return "there"
}

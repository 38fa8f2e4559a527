// Package cli implements the interactive shell: a readline loop that feeds
// questions to the conversation pipeline and handles the built-in commands
// (help, schema, reset, exit).
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Conversation is the slice of the agent the shell needs.
type Conversation interface {
	RunTurn(ctx context.Context, question string) string
	ResetMemory()
	MemoryTurns() int
	DescribeStore(ctx context.Context) (string, error)
}

// LineReader abstracts readline so tests can script input.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

type Options struct {
	Conversation Conversation
	Reader       LineReader
	HistoryFile  string
	Prompt       string
	Stdout       io.Writer
	Stderr       io.Writer
}

func Run(ctx context.Context, opts Options) int {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = io.Discard
	}
	prompt := opts.Prompt
	if prompt == "" {
		prompt = "you> "
	}

	reader := opts.Reader
	if reader == nil {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          prompt,
			HistoryFile:     opts.HistoryFile,
			AutoComplete:    newCommandCompleter(),
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "failed to initialize shell: %v\n", err)
			return 1
		}
		reader = rl
	}
	defer func() { _ = reader.Close() }()

	writeBanner(stdout)

	for {
		if ctx.Err() != nil {
			return 0
		}

		line, err := reader.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(stdout, "Goodbye!")
			return 0
		}
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "read input: %v\n", err)
			return 1
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "exit", "quit":
			_, _ = fmt.Fprintln(stdout, "Goodbye!")
			return 0
		case "reset":
			opts.Conversation.ResetMemory()
			_, _ = fmt.Fprintln(stdout, "Conversation memory cleared.")
			continue
		case "schema":
			description, err := opts.Conversation.DescribeStore(ctx)
			if err != nil {
				_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
				continue
			}
			_, _ = fmt.Fprintln(stdout, description)
			continue
		case "help":
			writeHelp(stdout)
			continue
		}

		answer := opts.Conversation.RunTurn(ctx, line)
		_, _ = fmt.Fprintf(stdout, "\nassistant> %s\n\n", answer)
	}
}

func writeBanner(w io.Writer) {
	_, _ = fmt.Fprintln(w, "askdb: ask questions about your signup data in plain English.")
	_, _ = fmt.Fprintln(w, "Type help for commands, exit to quit.")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "Try asking:")
	_, _ = fmt.Fprintln(w, "  How many users signed up?")
	_, _ = fmt.Fprintln(w, "  Who signed up in week 1?")
	_, _ = fmt.Fprintln(w, "  How many of them are active?")
	_, _ = fmt.Fprintln(w, "")
}

func writeHelp(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Commands:")
	_, _ = fmt.Fprintln(w, "  help     Show this help message")
	_, _ = fmt.Fprintln(w, "  schema   Show the database schema and sample rows")
	_, _ = fmt.Fprintln(w, "  reset    Clear the conversation memory")
	_, _ = fmt.Fprintln(w, "  exit     Quit the shell")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "Anything else is treated as a question.")
}

func newCommandCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("schema"),
		readline.PcItem("reset"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
	)
}

package tui

import (
	"fmt"
	"strconv"
	"strings"
)

// Suggestions are offered before the first chat message.
var Suggestions = []string{
	"What's Angela's current role?",
	"Tell me about Consent 2.0",
	"What's her design process?",
	"What tech does she ship?",
}

type commandKind int

const (
	cmdNone commandKind = iota
	cmdChat
	cmdSuggest
	cmdExplore
	cmdAsk
	cmdPin
	cmdArchive
	cmdClose
	cmdQuit
	cmdHelp
)

type command struct {
	kind  commandKind
	index int // 1-based card or suggestion number
	text  string
}

const helpText = "type to chat · /explore <text> · /ask <n> <question> · /pin <n> · /archive <n> · /close · /suggest <n> · /quit"

// parseCommand turns one line of input into a command. Lines that do not
// start with a slash are chat messages.
func parseCommand(line string) (command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{kind: cmdNone}, nil
	}
	if !strings.HasPrefix(line, "/") {
		return command{kind: cmdChat, text: line}, nil
	}

	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "/explore":
		if rest == "" {
			return command{}, fmt.Errorf("usage: /explore <text>")
		}
		return command{kind: cmdExplore, text: rest}, nil
	case "/ask":
		n, question, _ := strings.Cut(rest, " ")
		idx, err := parseIndex(n)
		if err != nil || strings.TrimSpace(question) == "" {
			return command{}, fmt.Errorf("usage: /ask <n> <question>")
		}
		return command{kind: cmdAsk, index: idx, text: strings.TrimSpace(question)}, nil
	case "/pin", "/archive", "/suggest":
		idx, err := parseIndex(rest)
		if err != nil {
			return command{}, fmt.Errorf("usage: %s <n>", name)
		}
		kind := map[string]commandKind{"/pin": cmdPin, "/archive": cmdArchive, "/suggest": cmdSuggest}[name]
		return command{kind: kind, index: idx}, nil
	case "/close":
		return command{kind: cmdClose}, nil
	case "/quit", "/exit":
		return command{kind: cmdQuit}, nil
	case "/help":
		return command{kind: cmdHelp}, nil
	default:
		return command{}, fmt.Errorf("unknown command %s", name)
	}
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return n, nil
}

// quote shortens a selection for a card header.
func quote(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}

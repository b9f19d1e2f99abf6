// Package tui is a terminal front end for the relay: keystrokes become
// conversation transitions and every new card snapshot is redrawn.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"portfolio-chat/backend/internal/client"
	"portfolio-chat/backend/internal/conversation"
	"portfolio-chat/backend/internal/model"
)

// Relay is the part of the relay client the UI needs.
type Relay interface {
	Chat(ctx context.Context, messages []model.Message, sink client.Sink) error
	Learn(ctx context.Context, req model.LearnRequest, sink client.Sink) error
}

type storeUpdatedMsg struct{}

type turnFinishedMsg struct {
	cardID string
	err    error
}

// Model is the bubbletea model of the chat client.
type Model struct {
	ctx     context.Context
	store   *conversation.Store
	relay   Relay
	updates chan struct{}

	markdown *glamour.TermRenderer

	input    textinput.Model
	viewport viewport.Model
	cards    []conversation.Card
	status   string
	width    int
	height   int
}

// New builds the UI model. Turns run under ctx.
func New(ctx context.Context, store *conversation.Store, relay Relay) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about Angela's work…"
	ti.Prompt = "> "
	ti.CharLimit = 2000
	ti.Focus()

	m := Model{
		ctx:      ctx,
		store:    store,
		relay:    relay,
		updates:  make(chan struct{}, 1),
		input:    ti,
		viewport: viewport.New(80, 20),
		cards:    store.Snapshot(),
		status:   helpText,
	}
	// The store publishes from whichever goroutine applied a transition, so
	// the subscriber only signals; the program loop reads the snapshot.
	store.Subscribe(func([]conversation.Card) {
		select {
		case m.updates <- struct{}{}:
		default:
		}
	})
	return m
}

// WithMarkdown renders finished replies through md instead of as plain text.
func (m Model) WithMarkdown(md *glamour.TermRenderer) Model {
	m.markdown = md
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForUpdate())
}

func (m Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.updates:
			return storeUpdatedMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 3)
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()

	case storeUpdatedMsg:
		m.cards = m.store.Snapshot()
		m.refresh()
		cmds = append(cmds, m.waitForUpdate())

	case turnFinishedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("turn failed: %v", msg.err)
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			line := m.input.Value()
			m.input.Reset()
			var cmd tea.Cmd
			m, cmd = m.execute(line)
			return m, cmd
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// execute applies one line of input.
func (m Model) execute(line string) (Model, tea.Cmd) {
	c, err := parseCommand(line)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.status = ""

	switch c.kind {
	case cmdNone:
		return m, nil
	case cmdQuit:
		return m, tea.Quit
	case cmdHelp:
		m.status = helpText
		return m, nil
	case cmdChat:
		return m.send(c.text)
	case cmdSuggest:
		if c.index > len(Suggestions) {
			m.status = fmt.Sprintf("no suggestion %d", c.index)
			return m, nil
		}
		return m.send(Suggestions[c.index-1])
	case cmdExplore:
		turn, ok := m.store.Explore(c.text)
		if !ok {
			return m, nil
		}
		return m, m.learnTurn(turn)
	case cmdClose:
		m.store.ClosePanel()
		return m, nil
	}

	card, ok := m.cardAt(c.index)
	if !ok {
		m.status = fmt.Sprintf("no card %d", c.index)
		return m, nil
	}
	switch c.kind {
	case cmdAsk:
		turn, ok := m.store.Ask(card.ID, c.text)
		if !ok {
			m.status = "that card can't take a question right now"
			return m, nil
		}
		return m, m.learnTurn(turn)
	case cmdPin:
		m.store.TogglePin(card.ID)
	case cmdArchive:
		m.store.Archive(card.ID)
	}
	return m, nil
}

func (m Model) send(text string) (Model, tea.Cmd) {
	turn, ok := m.store.Send(text)
	if !ok {
		m.status = "still answering the last message"
		return m, nil
	}
	return m, m.chatTurn(turn)
}

func (m Model) chatTurn(turn conversation.ChatTurn) tea.Cmd {
	return func() tea.Msg {
		err := m.relay.Chat(m.ctx, turn.Messages, m.store.TurnSink(turn.CardID))
		return turnFinishedMsg{cardID: turn.CardID, err: err}
	}
}

func (m Model) learnTurn(turn conversation.LearnTurn) tea.Cmd {
	return func() tea.Msg {
		err := m.relay.Learn(m.ctx, turn.Request, m.store.TurnSink(turn.CardID))
		return turnFinishedMsg{cardID: turn.CardID, err: err}
	}
}

func (m Model) cardAt(n int) (conversation.Card, bool) {
	if n < 1 || n > len(m.cards) {
		return conversation.Card{}, false
	}
	return m.cards[n-1], true
}

func (m *Model) refresh() {
	m.viewport.SetContent(renderCards(m.cards, m.viewport.Width, m.markdown))
	m.viewport.GotoBottom()
}

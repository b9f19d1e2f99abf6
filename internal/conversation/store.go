// Package conversation holds the client-side card collection and applies the
// transitions driven by user input and relay stream events.
package conversation

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"portfolio-chat/backend/internal/client"
	"portfolio-chat/backend/internal/model"
)

// ChatTurn is the relay request for an open chat turn.
type ChatTurn struct {
	CardID   string
	Messages []model.Message
}

// LearnTurn is the relay request for an annotation turn.
type LearnTurn struct {
	CardID  string
	Request model.LearnRequest
}

// Store owns the ordered card collection. Every transition replaces the
// collection as a whole and publishes the new snapshot to subscribers, in
// transition order.
type Store struct {
	mu    sync.Mutex
	cards []Card

	// notifyMu is taken before mu is released so that snapshots are
	// delivered in the order they were produced.
	notifyMu sync.Mutex
	subs     map[int]func([]Card)
	nextSub  int

	newID func() string
}

func NewStore() *Store {
	return &Store{
		subs:  make(map[int]func([]Card)),
		newID: uuid.NewString,
	}
}

// Subscribe registers fn to receive every new snapshot. fn runs synchronously
// on the goroutine that applied the transition and must not call back into
// the Store. The returned function cancels the subscription.
func (s *Store) Subscribe(fn func([]Card)) func() {
	s.notifyMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.notifyMu.Unlock()

	return func() {
		s.notifyMu.Lock()
		delete(s.subs, id)
		s.notifyMu.Unlock()
	}
}

// Snapshot returns the current collection. The result must not be modified.
func (s *Store) Snapshot() []Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cards
}

// Card returns the active card with the given id.
func (s *Store) Card(id string) (Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.cards, id); i >= 0 {
		return s.cards[i], true
	}
	return Card{}, false
}

// Send submits text to the open chat thread, creating the chat card if there
// is none. It is a no-op for blank text or while the chat card is streaming.
func (s *Store) Send(text string) (ChatTurn, bool) {
	if strings.TrimSpace(text) == "" {
		return ChatTurn{}, false
	}

	var turn ChatTurn
	ok := s.update(func(cards []Card) []Card {
		i := indexOfKind(cards, KindChat)
		if i < 0 {
			cards = append(copyCards(cards), Card{ID: s.newID(), Kind: KindChat})
			i = len(cards) - 1
		} else if cards[i].IsStreaming {
			return nil
		} else {
			cards = copyCards(cards)
		}

		c := &cards[i]
		user := model.Message{Role: model.RoleUser, Content: text}
		turn = ChatTurn{CardID: c.ID, Messages: withAppended(requestHistory(c.Messages), user)}
		c.Messages = withAppended(c.Messages, user, model.Message{Role: model.RoleAssistant})
		c.IsStreaming = true
		c.target = targetAnswer
		return cards
	})
	return turn, ok
}

// Explore opens a new annotation card about subject and starts generating its
// context.
func (s *Store) Explore(subject string) (LearnTurn, bool) {
	if strings.TrimSpace(subject) == "" {
		return LearnTurn{}, false
	}

	var turn LearnTurn
	ok := s.update(func(cards []Card) []Card {
		c := Card{
			ID:          s.newID(),
			Kind:        KindAnnotation,
			SubjectText: subject,
			IsStreaming: true,
			target:      targetContext,
		}
		turn = LearnTurn{CardID: c.ID, Request: model.LearnRequest{SelectedText: subject}}
		return append(copyCards(cards), c)
	})
	return turn, ok
}

// Ask submits a follow-up question on an annotation card. The card's earlier
// questions and answers are sent as history.
func (s *Store) Ask(id, question string) (LearnTurn, bool) {
	if strings.TrimSpace(question) == "" {
		return LearnTurn{}, false
	}

	var turn LearnTurn
	ok := s.update(func(cards []Card) []Card {
		i := indexOf(cards, id)
		if i < 0 || cards[i].Kind != KindAnnotation || cards[i].IsStreaming {
			return nil
		}
		cards = copyCards(cards)

		c := &cards[i]
		turn = LearnTurn{CardID: c.ID, Request: model.LearnRequest{
			SelectedText: c.SubjectText,
			Question:     question,
			History:      requestHistory(c.Messages),
		}}
		c.Messages = withAppended(c.Messages,
			model.Message{Role: model.RoleUser, Content: question},
			model.Message{Role: model.RoleAssistant},
		)
		c.IsStreaming = true
		c.target = targetAnswer
		return cards
	})
	return turn, ok
}

// AppendFragment grows the live target of a streaming card. Fragments for
// cards that are gone or not streaming are ignored.
func (s *Store) AppendFragment(id, text string) bool {
	if text == "" {
		return false
	}
	return s.updateStreaming(id, func(c *Card) {
		if c.target == targetContext {
			c.Context += text
			return
		}
		c.Messages = withLastContent(c.Messages, c.Messages[len(c.Messages)-1].Content+text)
	})
}

// Complete ends the in-flight turn of a card, keeping its content.
func (s *Store) Complete(id string) bool {
	return s.updateStreaming(id, func(c *Card) {
		c.IsStreaming = false
		c.target = targetNone
	})
}

// Fail ends the in-flight turn of a card. Partial content is kept; an empty
// target is replaced by the fallback text.
func (s *Store) Fail(id string) bool {
	return s.updateStreaming(id, func(c *Card) {
		switch c.target {
		case targetContext:
			if c.Context == "" {
				c.Context = c.fallback()
			}
		case targetAnswer:
			if c.Messages[len(c.Messages)-1].Content == "" {
				c.Messages = withLastContent(c.Messages, c.fallback())
			}
		}
		c.IsStreaming = false
		c.target = targetNone
	})
}

// TogglePin flips the pinned flag of a card.
func (s *Store) TogglePin(id string) bool {
	return s.update(func(cards []Card) []Card {
		i := indexOf(cards, id)
		if i < 0 {
			return nil
		}
		cards = copyCards(cards)
		cards[i].IsPinned = !cards[i].IsPinned
		return cards
	})
}

// Archive removes a card, even mid-stream. Its in-flight request is not
// cancelled; later events for it are ignored.
func (s *Store) Archive(id string) bool {
	return s.update(func(cards []Card) []Card {
		i := indexOf(cards, id)
		if i < 0 {
			return nil
		}
		next := make([]Card, 0, len(cards)-1)
		next = append(next, cards[:i]...)
		return append(next, cards[i+1:]...)
	})
}

// ClosePanel keeps only the pinned cards.
func (s *Store) ClosePanel() bool {
	return s.update(func(cards []Card) []Card {
		next := make([]Card, 0, len(cards))
		for _, c := range cards {
			if c.IsPinned {
				next = append(next, c)
			}
		}
		if len(next) == len(cards) {
			return nil
		}
		return next
	})
}

// TurnSink adapts the relay events of one turn on card id to the Store.
func (s *Store) TurnSink(id string) client.Sink {
	return &turnSink{store: s, id: id}
}

type turnSink struct {
	store *Store
	id    string
}

func (t *turnSink) OnFragment(text string) { t.store.AppendFragment(t.id, text) }

func (t *turnSink) OnDone() { t.store.Complete(t.id) }

func (t *turnSink) OnError(err error) {
	slog.Debug("Turn failed", "card_id", t.id, "error", err)
	t.store.Fail(t.id)
}

// update applies fn to the current collection. fn returns the replacement
// collection, or nil to leave the Store unchanged. It must not modify the
// slice it is given.
func (s *Store) update(fn func([]Card) []Card) bool {
	s.mu.Lock()
	next := fn(s.cards)
	if next == nil {
		s.mu.Unlock()
		return false
	}
	s.cards = next

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	for _, sub := range s.subs {
		sub(next)
	}
	return true
}

func (s *Store) updateStreaming(id string, fn func(c *Card)) bool {
	return s.update(func(cards []Card) []Card {
		i := indexOf(cards, id)
		if i < 0 || !cards[i].IsStreaming {
			return nil
		}
		cards = copyCards(cards)
		fn(&cards[i])
		return cards
	})
}

func copyCards(cards []Card) []Card {
	out := make([]Card, len(cards), len(cards)+1)
	copy(out, cards)
	return out
}

func indexOf(cards []Card, id string) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func indexOfKind(cards []Card, kind Kind) int {
	for i, c := range cards {
		if c.Kind == kind {
			return i
		}
	}
	return -1
}

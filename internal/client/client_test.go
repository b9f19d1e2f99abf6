package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-chat/backend/internal/client"
	"portfolio-chat/backend/internal/model"
)

type recordingSink struct {
	fragments []string
	done      int
	errs      []error
}

func (s *recordingSink) OnFragment(text string) { s.fragments = append(s.fragments, text) }
func (s *recordingSink) OnDone()                { s.done++ }
func (s *recordingSink) OnError(err error)      { s.errs = append(s.errs, err) }

func (s *recordingSink) terminals() int { return s.done + len(s.errs) }

// scriptedRelay answers every request with the given raw stream body, written
// in the given chunks with a flush after each.
func scriptedRelay(t *testing.T, chunks ...string) (*httptest.Server, <-chan map[string]any) {
	bodies := make(chan map[string]any, 8)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies <- body

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		for _, c := range chunks {
			_, _ = fmt.Fprint(w, c)
			w.(http.Flusher).Flush()
		}
	}))
	t.Cleanup(server.Close)
	return server, bodies
}

func TestClient_Chat(t *testing.T) {
	ctx := context.Background()
	messages := []model.Message{{Role: model.RoleUser, Content: "hi"}}

	t.Run("Fragments then done", func(t *testing.T) {
		server, bodies := scriptedRelay(t,
			"data: {\"text\":\"Hel",
			"lo\"}\n\ndata: {\"text\":\" world\"}\n",
			"\ndata: [DONE]\n\n",
		)
		sink := &recordingSink{}

		err := client.New(server.URL).Chat(ctx, messages, sink)

		require.NoError(t, err)
		assert.Equal(t, []string{"Hello", " world"}, sink.fragments)
		assert.Equal(t, 1, sink.done)
		assert.Empty(t, sink.errs)
		require.Len(t, bodies, 1)
		assert.Len(t, (<-bodies)["messages"], 1)
	})

	t.Run("Error record", func(t *testing.T) {
		server, _ := scriptedRelay(t, "data: {\"text\":\"part\"}\n\ndata: {\"error\":\"Overloaded\"}\n\n")
		sink := &recordingSink{}

		err := client.New(server.URL).Chat(ctx, messages, sink)

		var upstreamErr *client.UpstreamError
		require.ErrorAs(t, err, &upstreamErr)
		assert.Equal(t, "Overloaded", upstreamErr.Message)
		assert.Equal(t, []string{"part"}, sink.fragments)
		assert.Equal(t, 1, sink.terminals())
	})

	t.Run("Records after the terminal are ignored", func(t *testing.T) {
		server, _ := scriptedRelay(t, "data: [DONE]\n\ndata: {\"text\":\"late\"}\n\n")
		sink := &recordingSink{}

		require.NoError(t, client.New(server.URL).Chat(ctx, messages, sink))
		assert.Empty(t, sink.fragments)
		assert.Equal(t, 1, sink.terminals())
	})

	t.Run("Malformed records are skipped", func(t *testing.T) {
		server, _ := scriptedRelay(t, "data: {oops\n\n: ping\n\ndata: {\"text\":\"ok\"}\n\ndata: [DONE]\n\n")
		sink := &recordingSink{}

		require.NoError(t, client.New(server.URL).Chat(ctx, messages, sink))
		assert.Equal(t, []string{"ok"}, sink.fragments)
	})

	t.Run("Truncated stream", func(t *testing.T) {
		server, _ := scriptedRelay(t, "data: {\"text\":\"a\"}\n\ndata: {\"text\":\"b")
		sink := &recordingSink{}

		err := client.New(server.URL).Chat(ctx, messages, sink)

		assert.ErrorIs(t, err, client.ErrStreamTruncated)
		assert.Equal(t, []string{"a"}, sink.fragments)
		assert.Equal(t, 1, sink.terminals())
	})

	t.Run("Non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"ANTHROPIC_API_KEY not configured"}`))
		}))
		defer server.Close()
		sink := &recordingSink{}

		err := client.New(server.URL + "/").Chat(ctx, messages, sink)

		var statusErr *client.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		assert.Equal(t, "ANTHROPIC_API_KEY not configured", statusErr.Message)
		assert.Empty(t, sink.fragments)
		assert.Len(t, sink.errs, 1)
	})

	t.Run("Unreachable relay", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()
		sink := &recordingSink{}

		err := client.New(url).Chat(ctx, messages, sink)

		assert.Error(t, err)
		assert.Len(t, sink.errs, 1)
		assert.Zero(t, sink.done)
	})
}

func TestClient_Learn(t *testing.T) {
	server, bodies := scriptedRelay(t, "data: {\"text\":\"context\"}\n\ndata: [DONE]\n\n")
	sink := &recordingSink{}

	err := client.New(server.URL).Learn(context.Background(), model.LearnRequest{SelectedText: "Flexpa"}, sink)

	require.NoError(t, err)
	assert.Equal(t, "context", strings.Join(sink.fragments, ""))
	require.Len(t, bodies, 1)
	body := <-bodies
	assert.Equal(t, "Flexpa", body["selectedText"])
	_, hasQuestion := body["question"]
	assert.False(t, hasQuestion)
}

func TestClient_Cancelled(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "data: {\"text\":\"a\"}\n\n")
		w.(http.Flusher).Flush()
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	sink := &cancelOnFragment{cancel: cancel}

	err := client.New(server.URL).Chat(ctx, []model.Message{{Role: model.RoleUser, Content: "hi"}}, sink)

	require.Error(t, err)
	assert.Equal(t, []string{"a"}, sink.fragments)
	assert.Equal(t, 1, sink.terminals())
	assert.True(t, errors.Is(ctx.Err(), context.Canceled))
}

type cancelOnFragment struct {
	recordingSink
	cancel context.CancelFunc
}

func (s *cancelOnFragment) OnFragment(text string) {
	s.recordingSink.OnFragment(text)
	s.cancel()
}

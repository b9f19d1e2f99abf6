package protocol

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flushRecorder struct {
	bytes.Buffer
	flushes int
}

func (f *flushRecorder) Flush() { f.flushes++ }

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestEncoder(t *testing.T) {
	t.Run("Writes exact records and flushes each", func(t *testing.T) {
		var out flushRecorder
		enc := NewEncoder(&out)

		require.NoError(t, enc.WriteText("Hello"))
		require.NoError(t, enc.WriteText(` "quoted" `))
		require.NoError(t, enc.WriteDone())

		assert.Equal(t, "data: {\"text\":\"Hello\"}\n\ndata: {\"text\":\" \\\"quoted\\\" \"}\n\ndata: [DONE]\n\n", out.String())
		assert.Equal(t, 3, out.flushes)
	})

	t.Run("Error record", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, NewEncoder(&out).WriteError("Overloaded"))
		assert.Equal(t, "data: {\"error\":\"Overloaded\"}\n\n", out.String())
	})

	t.Run("Writer failure is reported", func(t *testing.T) {
		err := NewEncoder(failingWriter{}).WriteText("x")
		assert.ErrorContains(t, err, "broken pipe")
	})
}

func decodeAll(t *testing.T, r io.Reader) []string {
	t.Helper()
	dec := NewDecoder(r)
	var records []string
	for {
		rec, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return records
		}
		require.NoError(t, err)
		records = append(records, string(rec))
	}
}

func TestDecoder(t *testing.T) {
	stream := "data: {\"text\":\"Hi\"}\n\ndata: {\"text\":\" there\"}\n\ndata: [DONE]\n\n"

	t.Run("Whole stream", func(t *testing.T) {
		got := decodeAll(t, strings.NewReader(stream))
		assert.Equal(t, []string{`data: {"text":"Hi"}`, `data: {"text":" there"}`, "data: [DONE]"}, got)
	})

	t.Run("One byte per read yields the same records", func(t *testing.T) {
		whole := decodeAll(t, strings.NewReader(stream))
		split := decodeAll(t, iotest.OneByteReader(strings.NewReader(stream)))
		assert.Equal(t, whole, split)
	})

	t.Run("Every split point yields the same records", func(t *testing.T) {
		whole := decodeAll(t, strings.NewReader(stream))
		for i := 1; i < len(stream); i++ {
			r := io.MultiReader(strings.NewReader(stream[:i]), strings.NewReader(stream[i:]))
			assert.Equal(t, whole, decodeAll(t, r), "split at %d", i)
		}
	})

	t.Run("CRLF delimiters", func(t *testing.T) {
		got := decodeAll(t, strings.NewReader("data: {\"text\":\"a\"}\r\n\r\ndata: [DONE]\r\n\r\n"))
		assert.Equal(t, []string{`data: {"text":"a"}`, "data: [DONE]"}, got)
	})

	t.Run("Partial trailing record is dropped", func(t *testing.T) {
		got := decodeAll(t, strings.NewReader("data: {\"text\":\"a\"}\n\ndata: {\"text\":\"b"))
		assert.Equal(t, []string{`data: {"text":"a"}`}, got)
	})

	t.Run("Read error is surfaced", func(t *testing.T) {
		dec := NewDecoder(iotest.ErrReader(errors.New("reset by peer")))
		_, err := dec.Next()
		assert.ErrorContains(t, err, "reset by peer")
	})
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  string
		want    Event
		wantErr bool
	}{
		{name: "Text", record: `data: {"text":"Hello"}`, want: Event{Kind: EventText, Text: "Hello"}},
		{name: "Empty text", record: `data: {"text":""}`, want: Event{Kind: EventText}},
		{name: "Done", record: "data: [DONE]", want: Event{Kind: EventDone}},
		{name: "Error", record: `data: {"error":"Rate limited"}`, want: Event{Kind: EventError, Error: "Rate limited"}},
		{name: "No space after colon", record: `data:{"text":"x"}`, want: Event{Kind: EventText, Text: "x"}},
		{name: "Comment and event lines ignored", record: ": keep-alive\nevent: message\ndata: {\"text\":\"x\"}", want: Event{Kind: EventText, Text: "x"}},
		{name: "Multi-line data", record: "data: {\"text\":\ndata: \"x\"}", want: Event{Kind: EventText, Text: "x"}},
		{name: "Invalid JSON", record: "data: {not json", wantErr: true},
		{name: "Unknown payload", record: `data: {"foo":1}`, wantErr: true},
		{name: "Comment only", record: ": ping", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecord([]byte(tt.record))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedRecord)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Concatenating the decoded fragments reproduces what was encoded, however the
// stream is chunked on the way.
func TestRoundTripConcatenation(t *testing.T) {
	fragments := []string{"Angela ", "leads design", " at Flexpa.\n", "Ünïcödé ✓", ""}

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for _, f := range fragments {
		require.NoError(t, enc.WriteText(f))
	}
	require.NoError(t, enc.WriteDone())

	dec := NewDecoder(iotest.HalfReader(bytes.NewReader(buf.Bytes())))
	var got strings.Builder
	done := false
	for {
		rec, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		ev, err := ParseRecord(rec)
		require.NoError(t, err)
		switch ev.Kind {
		case EventText:
			got.WriteString(ev.Text)
		case EventDone:
			done = true
		}
	}

	assert.True(t, done)
	assert.Equal(t, strings.Join(fragments, ""), got.String())
}

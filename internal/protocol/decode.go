package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// MaxRecordSize bounds a single record. Fragments are a few tokens long, so
// anything near this size is not a relay stream.
const MaxRecordSize = 1 << 20

// ErrMalformedRecord is returned by ParseRecord for records that carry no
// recognisable payload.
var ErrMalformedRecord = errors.New("malformed stream record")

// EventKind classifies a parsed record.
type EventKind int

const (
	EventText EventKind = iota
	EventDone
	EventError
)

// Event is one decoded record.
type Event struct {
	Kind  EventKind
	Text  string
	Error string
}

// Decoder splits a byte stream into records. Records may arrive split across
// any number of reads; a record is only yielded once its delimiter has been
// seen. Bytes left over when the stream ends are discarded.
type Decoder struct {
	scanner *bufio.Scanner
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), MaxRecordSize)
	s.Split(splitRecords)
	return &Decoder{scanner: s}
}

// Next returns the next complete record, without its delimiter. It returns
// io.EOF once the stream has ended.
func (d *Decoder) Next() ([]byte, error) {
	for d.scanner.Scan() {
		record := d.scanner.Bytes()
		if len(bytes.TrimSpace(record)) == 0 {
			continue
		}
		out := make([]byte, len(record))
		copy(out, record)
		return out, nil
	}
	if err := d.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

var (
	lfDelim   = []byte("\n\n")
	crlfDelim = []byte("\r\n\r\n")
)

func splitRecords(data []byte, atEOF bool) (advance int, token []byte, err error) {
	idx, width := -1, 0
	if i := bytes.Index(data, lfDelim); i >= 0 {
		idx, width = i, len(lfDelim)
	}
	if i := bytes.Index(data, crlfDelim); i >= 0 && (idx < 0 || i < idx) {
		idx, width = i, len(crlfDelim)
	}
	if idx >= 0 {
		return idx + width, data[:idx], nil
	}
	// An unterminated tail at EOF is a truncated record.
	return 0, nil, nil
}

// ParseRecord decodes a single record. Comment lines and fields other than
// data are ignored; multiple data lines are joined with a newline.
func ParseRecord(record []byte) (Event, error) {
	var data [][]byte
	for _, line := range bytes.Split(record, []byte("\n")) {
		line = bytes.TrimSuffix(line, []byte("\r"))
		if !bytes.HasPrefix(line, []byte("data:")) {
			continue
		}
		value := line[len("data:"):]
		value = bytes.TrimPrefix(value, []byte(" "))
		data = append(data, value)
	}
	if len(data) == 0 {
		return Event{}, ErrMalformedRecord
	}

	payload := bytes.Join(data, []byte("\n"))
	if string(bytes.TrimSpace(payload)) == DoneMarker {
		return Event{Kind: EventDone}, nil
	}

	var body struct {
		Text  *string `json:"text"`
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return Event{}, ErrMalformedRecord
	}
	switch {
	case body.Error != nil:
		return Event{Kind: EventError, Error: *body.Error}, nil
	case body.Text != nil:
		return Event{Kind: EventText, Text: *body.Text}, nil
	default:
		return Event{}, ErrMalformedRecord
	}
}

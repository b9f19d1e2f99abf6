package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"portfolio-chat/backend/internal/interfaces"
	"portfolio-chat/backend/internal/metrics"
	"portfolio-chat/backend/internal/model"
	"portfolio-chat/backend/internal/protocol"

	"github.com/go-chi/chi/v5/middleware"
)

const (
	endpointChat  = "chat"
	endpointLearn = "learn"
)

// RelayHandler serves the two streaming relay endpoints.
type RelayHandler struct {
	service interfaces.RelayService
	metrics *metrics.Metrics
}

func NewRelayHandler(svc interfaces.RelayService, m *metrics.Metrics) *RelayHandler {
	return &RelayHandler{service: svc, metrics: m}
}

// HandleChat godoc
// @Summary      Relay an open chat turn
// @Description  Streams the assistant reply to the given conversation as Server-Sent Events. Each record is `data: {"text": "..."}`; the stream ends with `data: [DONE]` or `data: {"error": "..."}`.
// @Tags         Relay
// @Accept       json
// @Produce      text/event-stream
// @Param        chatRequest  body      model.ChatRequest  true  "Conversation so far, ending with the new user turn"
// @Success      200          {object}  FragmentRecord     "Stream of fragment records"
// @Failure      400          {object}  ErrorResponse
// @Failure      500          {object}  ErrorResponse
// @Router       /chat [post]
func (h *RelayHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if !h.admit(w, r, endpointChat, &req) {
		return
	}
	h.stream(w, r, endpointChat, func(ctx context.Context, out chan<- model.StreamEvent) {
		h.service.StreamChat(ctx, &req, out)
	})
}

// HandleLearn godoc
// @Summary      Relay a contextual annotation turn
// @Description  Streams a short note about the selected text, or an answer to a follow-up question about it, as Server-Sent Events using the same record format as /chat.
// @Tags         Relay
// @Accept       json
// @Produce      text/event-stream
// @Param        learnRequest  body      model.LearnRequest  true  "Selected text, optional question and prior turns"
// @Success      200           {object}  FragmentRecord      "Stream of fragment records"
// @Failure      400           {object}  ErrorResponse
// @Failure      500           {object}  ErrorResponse
// @Router       /learn [post]
func (h *RelayHandler) HandleLearn(w http.ResponseWriter, r *http.Request) {
	var req model.LearnRequest
	if !h.admit(w, r, endpointLearn, &req) {
		return
	}
	h.stream(w, r, endpointLearn, func(ctx context.Context, out chan<- model.StreamEvent) {
		h.service.StreamLearn(ctx, &req, out)
	})
}

// admit runs the checks that happen before a stream is opened. The credential
// check comes first, so an unconfigured relay answers 500 even to a bad body.
func (h *RelayHandler) admit(w http.ResponseWriter, r *http.Request, endpoint string, payload interface{}) bool {
	if err := h.service.CheckReady(); err != nil {
		h.metrics.RecordRejected(endpoint, metrics.OutcomeNotConfigured)
		respondWithError(w, err)
		return false
	}
	if err := decodeAndValidate(w, r, payload); err != nil {
		h.metrics.RecordRejected(endpoint, metrics.OutcomeRejected)
		respondWithError(w, err)
		return false
	}
	return true
}

// stream opens the event stream and copies service events to it until the
// terminal event. If the client goes away the remaining events are drained so
// the service never blocks.
func (h *RelayHandler) stream(w http.ResponseWriter, r *http.Request, endpoint string, run func(context.Context, chan<- model.StreamEvent)) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		slog.Debug("Could not clear write deadline", "error", err)
	}
	if err := rc.Flush(); err != nil {
		slog.Debug("Could not flush stream headers", "error", err)
	}

	finish := h.metrics.StreamStarted(endpoint)
	outcome := metrics.OutcomeClientGone
	reqID := middleware.GetReqID(r.Context())

	streamChan := make(chan model.StreamEvent)
	go run(ctx, streamChan)

	enc := protocol.NewEncoder(w)
	for ev := range streamChan {
		if err := writeStreamEvent(enc, ev); err != nil {
			slog.Info("Client disconnected, dropping the rest of the stream", "endpoint", endpoint, "request_id", reqID, "error", err)
			outcome = metrics.OutcomeClientGone
			cancel()
			go func() {
				for range streamChan {
				}
			}()
			break
		}
		switch {
		case ev.Error != "":
			outcome = metrics.OutcomeUpstreamError
		case ev.Done:
			outcome = metrics.OutcomeDone
		default:
			h.metrics.RecordFragment(endpoint)
		}
	}

	finish(outcome)
	slog.Debug("Finished streaming response", "endpoint", endpoint, "request_id", reqID, "outcome", outcome)
}

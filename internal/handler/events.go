package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	datastar "github.com/starfederation/datastar-go/datastar"

	"taskhub/internal/bus"
	"taskhub/internal/domain"
)

// EventsHandler streams domain events to live clients over SSE. Each client
// holds one bus subscription per requested topic; the stream carries only
// events published while the client is connected.
type EventsHandler struct {
	bus *bus.Bus
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(b *bus.Bus) *EventsHandler {
	return &EventsHandler{bus: b}
}

var streamableTopics = map[domain.Topic]bool{
	domain.TopicTaskCreated:    true,
	domain.TopicTaskUpdated:    true,
	domain.TopicTaskDeleted:    true,
	domain.TopicPendingCreated: true,
	domain.TopicPendingDeleted: true,
}

// HandleStream subscribes the client to the requested topics and pushes each
// event as a JSON envelope until the client disconnects.
// GET /api/events?topics=taskUpdated,pendingAssignmentCreated
func (h *EventsHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	topicsParam := r.URL.Query().Get("topics")
	if topicsParam == "" {
		writeError(w, http.StatusBadRequest, "At least one topic is required.")
		return
	}

	var topics []domain.Topic
	for _, name := range strings.Split(topicsParam, ",") {
		topic := domain.Topic(strings.TrimSpace(name))
		if !streamableTopics[topic] {
			writeError(w, http.StatusBadRequest, "Unknown topic: "+string(topic))
			return
		}
		topics = append(topics, topic)
	}

	ctx := r.Context()
	events := make(chan domain.Event)
	for _, topic := range topics {
		sub := h.bus.Subscribe(topic)
		defer sub.Close()

		go func(sub *bus.Subscription) {
			for {
				select {
				case e, ok := <-sub.Events():
					if !ok {
						return
					}
					select {
					case events <- e:
					case <-ctx.Done():
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}(sub)
	}

	sse := datastar.NewSSE(w, r)
	user := UserFromContext(ctx)
	slog.Info("event stream opened", "user_id", user.ID, "topics", topicsParam)
	defer slog.Info("event stream closed", "user_id", user.ID)

	for {
		select {
		case <-ctx.Done():
			return
		case e := <-events:
			data, err := json.Marshal(toEventEnvelope(e))
			if err != nil {
				slog.Error("marshal event", "error", err, "topic", e.Topic())
				continue
			}
			if err := sse.PatchSignals(data); err != nil {
				// Client went away; the deferred closes tear down the subscriptions.
				return
			}
		}
	}
}

package service

import (
	"github.com/rs/zerolog"

	"github.com/aph/pathlabel/internal/core/ports"
	"github.com/aph/pathlabel/internal/pkg/metrics"
)

// EventQueue accepts label events for asynchronous persistence.
type EventQueue interface {
	TryEnqueue(ev ports.LabelEvent) bool
}

// JournalService hands label events to the queue. Without a queue events are
// only logged. A full queue drops the event; the operator's action is never
// failed by the journal.
type JournalService struct {
	queue EventQueue
	log   zerolog.Logger
}

// NewJournalService builds a JournalService. queue may be nil.
func NewJournalService(queue EventQueue, log zerolog.Logger) *JournalService {
	return &JournalService{queue: queue, log: log}
}

func (s *JournalService) Record(ev ports.LabelEvent) {
	logEv := s.log.Debug().
		Str("path_id", ev.PathID).
		Str("flow", ev.Flow).
		Str("action", ev.Action).
		Str("user_id", ev.UserID)

	if s.queue == nil {
		logEv.Msg("label event")
		return
	}
	if !s.queue.TryEnqueue(ev) {
		metrics.JournalErrorsTotal.Inc()
		s.log.Warn().Str("path_id", ev.PathID).Str("flow", ev.Flow).Msg("journal queue full, label event dropped")
		return
	}
	logEv.Msg("label event queued")
}

package ports

import (
	"context"
	"time"
)

const (
	FlowIntake  = "intake"
	FlowReprint = "reprint"

	ActionPreview = "preview"
	ActionPrint   = "print"
)

// LabelEvent records a label rendered for an operator.
type LabelEvent struct {
	PathID string
	Flow   string
	Action string
	UserID string
	At     time.Time
}

// PrintJournalRepository persists label events.
type PrintJournalRepository interface {
	Insert(ctx context.Context, ev LabelEvent) error
}

// JournalService accepts label events without blocking the caller.
type JournalService interface {
	Record(ev LabelEvent)
}

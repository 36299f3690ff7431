package ports

import (
	"github.com/aph/pathlabel/internal/core/domain"
	"github.com/aph/pathlabel/internal/label"
)

// LabelSheet is what a screen needs to show and print one label.
type LabelSheet struct {
	Preview label.Preview
	Print   label.Fragment
}

type LabelService interface {
	// Sheet renders the preview and print fragment for value in the given flow.
	Sheet(flow string, sess *domain.Session, value string) (*LabelSheet, error)
	// Printed records that the print dialog was opened for value.
	Printed(flow string, sess *domain.Session, value string) error
	SVG(value string) ([]byte, error)
}

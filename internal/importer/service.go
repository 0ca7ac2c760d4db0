// Package importer bulk-creates contacts from uploaded spreadsheet exports.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/importer/contactcsv"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

//go:generate mockgen -source=service.go -destination=importer_mock.go -package=importer
type Parser interface {
	Parse(r io.Reader, defaultRole contact.Role) ([]contact.CreateParams, error)
}

type ContactCreator interface {
	CreateBatch(ctx context.Context, sess session.Session, params []contact.CreateParams) ([]*contact.Contact, error)
}

type Service struct {
	parser   Parser
	contacts ContactCreator
}

func NewService(contacts ContactCreator) *Service {
	return &Service{parser: contactcsv.NewParser(), contacts: contacts}
}

// Result reports how far an import got. On failure Created holds the
// contacts stored before the failing row.
type Result struct {
	Parsed  int                `json:"parsed"`
	Created []*contact.Contact `json:"created"`
}

// Import parses the file and creates its contacts for the session in order,
// stopping at the first row that fails.
func (s *Service) Import(ctx context.Context, sess session.Session, r io.Reader, defaultRole contact.Role) (*Result, error) {
	params, err := s.parser.Parse(r, defaultRole)
	if err != nil {
		return nil, fmt.Errorf("parsing contacts: %w", err)
	}

	created, err := s.contacts.CreateBatch(ctx, sess, params)
	res := &Result{Parsed: len(params), Created: created}

	if err != nil {
		slog.Warn("contact import stopped early", "user_id", sess.UserID, "created", len(created), "parsed", len(params), "error", err)
		return res, err
	}

	slog.Info("contacts imported", "user_id", sess.UserID, "count", len(created))

	return res, nil
}

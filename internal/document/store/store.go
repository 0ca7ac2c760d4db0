package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/docstore"
	"github.com/MrJamesThe3rd/dealdesk/internal/document"
)

type Store struct {
	docs *docstore.Store
}

func New(docs *docstore.Store) *Store {
	return &Store{docs: docs}
}

type documentDoc struct {
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	URL        string     `json:"url"`
	Size       int64      `json:"size"`
	MimeType   string     `json:"mime_type"`
	DealID     *uuid.UUID `json:"deal_id,omitempty"`
	PropertyID *uuid.UUID `json:"property_id,omitempty"`
}

func fromRecord(r docstore.Record) (*document.Document, error) {
	var doc documentDoc
	if err := r.Decode(&doc); err != nil {
		return nil, err
	}

	return &document.Document{
		ID:         r.ID,
		OwnerID:    r.OwnerID,
		Name:       doc.Name,
		Type:       document.Type(doc.Type),
		URL:        doc.URL,
		Size:       doc.Size,
		MimeType:   doc.MimeType,
		DealID:     doc.DealID,
		PropertyID: doc.PropertyID,
		CreatedAt:  r.CreatedAt,
	}, nil
}

func (s *Store) CreateDocument(ctx context.Context, d *document.Document) error {
	r, err := s.docs.Create(ctx, docstore.Documents, d.OwnerID, documentDoc{
		Name:       d.Name,
		Type:       string(d.Type),
		URL:        d.URL,
		Size:       d.Size,
		MimeType:   d.MimeType,
		DealID:     d.DealID,
		PropertyID: d.PropertyID,
	})
	if err != nil {
		return fmt.Errorf("creating document: %w", err)
	}

	d.ID = r.ID
	d.CreatedAt = r.CreatedAt

	return nil
}

func (s *Store) GetDocument(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*document.Document, error) {
	r, err := s.docs.Get(ctx, docstore.Documents, id, owner)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, document.ErrNotFound
		}

		return nil, err
	}

	return fromRecord(r)
}

func (s *Store) ListDocuments(ctx context.Context, filter document.ListFilter) ([]*document.Document, error) {
	q := docstore.Query{Owner: filter.Owner, Filters: map[string]any{}}

	if filter.DealID != nil {
		q.Filters["deal_id"] = filter.DealID.String()
	}

	if filter.PropertyID != nil {
		q.Filters["property_id"] = filter.PropertyID.String()
	}

	records, err := s.docs.Query(ctx, docstore.Documents, q)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	docs := make([]*document.Document, 0, len(records))

	for _, r := range records {
		d, err := fromRecord(r)
		if err != nil {
			return nil, err
		}

		docs = append(docs, d)
	}

	return docs, nil
}

func (s *Store) DeleteDocument(ctx context.Context, id uuid.UUID, owner *uuid.UUID) error {
	if err := s.docs.Delete(ctx, docstore.Documents, id, owner); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return document.ErrNotFound
		}

		return err
	}

	return nil
}

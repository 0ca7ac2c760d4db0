package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/docstore"
)

type Store struct {
	docs *docstore.Store
}

func New(docs *docstore.Store) *Store {
	return &Store{docs: docs}
}

// contactDoc is the stored shape of a contact.
type contactDoc struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	Notes           string `json:"notes"`
	Role            string `json:"role"`
	BuyerType       string `json:"buyer_type,omitempty"`
	ActivelyBuying  bool   `json:"actively_buying"`
	ActivelySelling bool   `json:"actively_selling"`
}

func toDoc(c *contact.Contact) contactDoc {
	return contactDoc{
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Email:           c.Email,
		Phone:           c.Phone,
		Address:         c.Address,
		Notes:           c.Notes,
		Role:            string(c.Role),
		BuyerType:       string(c.BuyerType),
		ActivelyBuying:  c.ActivelyBuying,
		ActivelySelling: c.ActivelySelling,
	}
}

func fromRecord(r docstore.Record) (*contact.Contact, error) {
	var doc contactDoc
	if err := r.Decode(&doc); err != nil {
		return nil, err
	}

	return &contact.Contact{
		ID:              r.ID,
		OwnerID:         r.OwnerID,
		FirstName:       doc.FirstName,
		LastName:        doc.LastName,
		Email:           doc.Email,
		Phone:           doc.Phone,
		Address:         doc.Address,
		Notes:           doc.Notes,
		Role:            contact.Role(doc.Role),
		BuyerType:       contact.BuyerType(doc.BuyerType),
		ActivelyBuying:  doc.ActivelyBuying,
		ActivelySelling: doc.ActivelySelling,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}, nil
}

func notFound(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return contact.ErrNotFound
	}

	return err
}

func (s *Store) CreateContact(ctx context.Context, c *contact.Contact) error {
	r, err := s.docs.Create(ctx, docstore.Contacts, c.OwnerID, toDoc(c))
	if err != nil {
		return fmt.Errorf("creating contact: %w", err)
	}

	c.ID = r.ID
	c.CreatedAt = r.CreatedAt

	return nil
}

func (s *Store) GetContact(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*contact.Contact, error) {
	r, err := s.docs.Get(ctx, docstore.Contacts, id, owner)
	if err != nil {
		return nil, notFound(err)
	}

	return fromRecord(r)
}

func (s *Store) UpdateContact(ctx context.Context, c *contact.Contact, owner *uuid.UUID) error {
	updatedAt, err := s.docs.Update(ctx, docstore.Contacts, c.ID, owner, toDoc(c))
	if err != nil {
		return notFound(err)
	}

	c.UpdatedAt = &updatedAt

	return nil
}

func (s *Store) SetActivelySelling(ctx context.Context, id uuid.UUID, owner *uuid.UUID, selling bool) error {
	patch := map[string]any{"actively_selling": selling}

	if _, err := s.docs.Update(ctx, docstore.Contacts, id, owner, patch); err != nil {
		return notFound(err)
	}

	return nil
}

func (s *Store) ListContacts(ctx context.Context, filter contact.ListFilter) ([]*contact.Contact, error) {
	q := docstore.Query{Owner: filter.Owner}
	if filter.Role != nil {
		q.Filters = map[string]any{"role": string(*filter.Role)}
	}

	records, err := s.docs.Query(ctx, docstore.Contacts, q)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}

	contacts := make([]*contact.Contact, 0, len(records))

	for _, r := range records {
		c, err := fromRecord(r)
		if err != nil {
			return nil, err
		}

		contacts = append(contacts, c)
	}

	return contacts, nil
}

func (s *Store) DeleteContact(ctx context.Context, id uuid.UUID, owner *uuid.UUID) error {
	return notFound(s.docs.Delete(ctx, docstore.Contacts, id, owner))
}

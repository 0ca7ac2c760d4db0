package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/docstore"
	"github.com/MrJamesThe3rd/dealdesk/internal/property"
)

type Store struct {
	docs *docstore.Store
}

func New(docs *docstore.Store) *Store {
	return &Store{docs: docs}
}

type propertyDoc struct {
	Address     property.Address `json:"address"`
	Beds        int              `json:"beds"`
	Baths       float64          `json:"baths"`
	SqFt        int              `json:"sqft"`
	LotSize     float64          `json:"lot_size"`
	YearBuilt   int              `json:"year_built"`
	Status      string           `json:"status"`
	ListPrice   decimal.Decimal  `json:"list_price"`
	HOA         decimal.Decimal  `json:"hoa"`
	Taxes       decimal.Decimal  `json:"taxes"`
	Description string           `json:"description"`
	Features    []string         `json:"features"`
	Photos      []property.Photo `json:"photos"`
	SellerID    *uuid.UUID       `json:"seller_id"`
}

func toDoc(p *property.Property) propertyDoc {
	return propertyDoc{
		Address:     p.Address,
		Beds:        p.Beds,
		Baths:       p.Baths,
		SqFt:        p.SqFt,
		LotSize:     p.LotSize,
		YearBuilt:   p.YearBuilt,
		Status:      string(p.Status),
		ListPrice:   p.ListPrice,
		HOA:         p.HOA,
		Taxes:       p.Taxes,
		Description: p.Description,
		Features:    nonNil(p.Features),
		Photos:      nonNil(p.Photos),
		SellerID:    p.SellerID,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}

func fromRecord(r docstore.Record) (*property.Property, error) {
	var doc propertyDoc
	if err := r.Decode(&doc); err != nil {
		return nil, err
	}

	status := property.Status(doc.Status)
	if status == "" {
		status = property.StatusActive
	}

	return &property.Property{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Address:     doc.Address,
		Beds:        doc.Beds,
		Baths:       doc.Baths,
		SqFt:        doc.SqFt,
		LotSize:     doc.LotSize,
		YearBuilt:   doc.YearBuilt,
		Status:      status,
		ListPrice:   doc.ListPrice,
		HOA:         doc.HOA,
		Taxes:       doc.Taxes,
		Description: doc.Description,
		Features:    doc.Features,
		Photos:      doc.Photos,
		SellerID:    doc.SellerID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

func notFound(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return property.ErrNotFound
	}

	return err
}

func (s *Store) CreateProperty(ctx context.Context, p *property.Property) error {
	r, err := s.docs.Create(ctx, docstore.Properties, p.OwnerID, toDoc(p))
	if err != nil {
		return fmt.Errorf("creating property: %w", err)
	}

	p.ID = r.ID
	p.CreatedAt = r.CreatedAt

	return nil
}

func (s *Store) GetProperty(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*property.Property, error) {
	r, err := s.docs.Get(ctx, docstore.Properties, id, owner)
	if err != nil {
		return nil, notFound(err)
	}

	return fromRecord(r)
}

func (s *Store) UpdateProperty(ctx context.Context, p *property.Property, owner *uuid.UUID) error {
	updatedAt, err := s.docs.Update(ctx, docstore.Properties, p.ID, owner, toDoc(p))
	if err != nil {
		return notFound(err)
	}

	p.UpdatedAt = &updatedAt

	return nil
}

func (s *Store) SetPhotos(ctx context.Context, id uuid.UUID, owner *uuid.UUID, photos []property.Photo) error {
	if _, err := s.docs.Update(ctx, docstore.Properties, id, owner, map[string]any{"photos": nonNil(photos)}); err != nil {
		return notFound(err)
	}

	return nil
}

func (s *Store) ListProperties(ctx context.Context, filter property.ListFilter) ([]*property.Property, error) {
	q := docstore.Query{Owner: filter.Owner, Filters: map[string]any{}}

	if filter.Status != nil {
		q.Filters["status"] = string(*filter.Status)
	}

	if filter.SellerID != nil {
		q.Filters["seller_id"] = filter.SellerID.String()
	}

	records, err := s.docs.Query(ctx, docstore.Properties, q)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}

	props := make([]*property.Property, 0, len(records))

	for _, r := range records {
		p, err := fromRecord(r)
		if err != nil {
			return nil, err
		}

		props = append(props, p)
	}

	return props, nil
}

func (s *Store) DeleteProperty(ctx context.Context, id uuid.UUID, owner *uuid.UUID) error {
	return notFound(s.docs.Delete(ctx, docstore.Properties, id, owner))
}

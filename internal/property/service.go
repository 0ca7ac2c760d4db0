package property

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/cdn"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
	"github.com/MrJamesThe3rd/dealdesk/internal/validation"
)

const photoFolder = "properties"

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=property
type Repository interface {
	CreateProperty(ctx context.Context, p *Property) error
	GetProperty(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*Property, error)
	UpdateProperty(ctx context.Context, p *Property, owner *uuid.UUID) error
	SetPhotos(ctx context.Context, id uuid.UUID, owner *uuid.UUID, photos []Photo) error
	ListProperties(ctx context.Context, filter ListFilter) ([]*Property, error)
	DeleteProperty(ctx context.Context, id uuid.UUID, owner *uuid.UUID) error
}

type Uploader interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader) (*cdn.Asset, error)
}

type Service struct {
	repo     Repository
	uploader Uploader
}

func NewService(repo Repository, uploader Uploader) *Service {
	return &Service{repo: repo, uploader: uploader}
}

type SaveParams struct {
	Address     Address `validate:"required"`
	Beds        int     `validate:"gte=0"`
	Baths       float64 `validate:"gte=0"`
	SqFt        int     `validate:"gte=0"`
	LotSize     float64 `validate:"gte=0"`
	YearBuilt   int     `validate:"gte=0"`
	Status      Status  `validate:"omitempty,oneof=active pending sold off-market"`
	ListPrice   decimal.Decimal
	HOA         decimal.Decimal
	Taxes       decimal.Decimal
	Description string
	Features    []string
	SellerID    *uuid.UUID
}

type ListFilter struct {
	Owner    *uuid.UUID
	Status   *Status
	SellerID *uuid.UUID
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}

	return d
}

func (p SaveParams) apply(prop *Property) {
	prop.Address = p.Address
	prop.Beds = p.Beds
	prop.Baths = p.Baths
	prop.SqFt = p.SqFt
	prop.LotSize = p.LotSize
	prop.YearBuilt = p.YearBuilt
	prop.Status = p.Status
	prop.ListPrice = nonNegative(p.ListPrice)
	prop.HOA = nonNegative(p.HOA)
	prop.Taxes = nonNegative(p.Taxes)
	prop.Description = p.Description
	prop.SellerID = p.SellerID

	if prop.Status == "" {
		prop.Status = StatusActive
	}

	prop.Features = prop.Features[:0]

	for _, f := range p.Features {
		if f = strings.TrimSpace(f); f != "" && !slices.Contains(prop.Features, f) {
			prop.Features = append(prop.Features, f)
		}
	}
}

func (s *Service) Create(ctx context.Context, sess session.Session, params SaveParams) (*Property, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	p := &Property{OwnerID: sess.UserID}
	params.apply(p)

	if err := s.repo.CreateProperty(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Update re-submits the listing details. Photos are managed separately.
func (s *Service) Update(ctx context.Context, sess session.Session, id uuid.UUID, params SaveParams) (*Property, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	p, err := s.repo.GetProperty(ctx, id, sess.OwnerScope())
	if err != nil {
		return nil, err
	}

	params.apply(p)

	if err := s.repo.UpdateProperty(ctx, p, sess.OwnerScope()); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, sess session.Session, id uuid.UUID) (*Property, error) {
	return s.repo.GetProperty(ctx, id, sess.OwnerScope())
}

func (s *Service) List(ctx context.Context, sess session.Session, filter ListFilter) ([]*Property, error) {
	filter.Owner = sess.OwnerScope()
	return s.repo.ListProperties(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, sess session.Session, id uuid.UUID) error {
	return s.repo.DeleteProperty(ctx, id, sess.OwnerScope())
}

// AddPhoto uploads an image to the CDN and appends it to the listing's photos.
func (s *Service) AddPhoto(ctx context.Context, sess session.Session, id uuid.UUID, filename string, r io.Reader) (*Property, error) {
	p, err := s.repo.GetProperty(ctx, id, sess.OwnerScope())
	if err != nil {
		return nil, err
	}

	// The sniffed prefix is replayed ahead of the rest of the body.
	var head bytes.Buffer

	mime, err := mimetype.DetectReader(io.TeeReader(r, &head))
	if err != nil {
		return nil, fmt.Errorf("reading photo: %w", err)
	}

	if !strings.HasPrefix(mime.String(), "image/") {
		slog.Warn("rejected non-image property photo", "property_id", id, "mime", mime.String())
		return nil, fmt.Errorf("%w: got %s", ErrInvalidPhoto, mime.String())
	}

	asset, err := s.uploader.Upload(ctx, photoFolder, filename, io.MultiReader(&head, r))
	if err != nil {
		return nil, fmt.Errorf("uploading photo: %w", err)
	}

	photos := append(slices.Clone(p.Photos), Photo{
		URL:    asset.URL,
		Bytes:  asset.Bytes,
		Width:  asset.Width,
		Height: asset.Height,
	})

	if err := s.repo.SetPhotos(ctx, id, sess.OwnerScope(), photos); err != nil {
		return nil, err
	}

	p.Photos = photos

	return p, nil
}

// RemovePhoto drops the photo at index. The file stays on the CDN.
func (s *Service) RemovePhoto(ctx context.Context, sess session.Session, id uuid.UUID, index int) (*Property, error) {
	p, err := s.repo.GetProperty(ctx, id, sess.OwnerScope())
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(p.Photos) {
		return nil, fmt.Errorf("%w: %d of %d", ErrPhotoIndex, index, len(p.Photos))
	}

	photos := slices.Delete(slices.Clone(p.Photos), index, index+1)

	if err := s.repo.SetPhotos(ctx, id, sess.OwnerScope(), photos); err != nil {
		return nil, err
	}

	p.Photos = photos

	return p, nil
}

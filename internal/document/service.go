package document

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/cdn"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
	"github.com/MrJamesThe3rd/dealdesk/internal/validation"
)

const folder = "documents"

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=document
type Repository interface {
	CreateDocument(ctx context.Context, d *Document) error
	GetDocument(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*Document, error)
	ListDocuments(ctx context.Context, filter ListFilter) ([]*Document, error)
	DeleteDocument(ctx context.Context, id uuid.UUID, owner *uuid.UUID) error
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

type UploadParams struct {
	Filename   string `validate:"required"`
	Name       string
	Type       Type `validate:"omitempty,oneof=contract disclosure inspection appraisal photo other"`
	DealID     *uuid.UUID
	PropertyID *uuid.UUID
}

type ListFilter struct {
	Owner      *uuid.UUID
	DealID     *uuid.UUID
	PropertyID *uuid.UUID
}

// Upload pushes the file to the CDN and records it. Nothing is recorded
// when the upload fails.
func (s *Service) Upload(ctx context.Context, sess session.Session, params UploadParams, r io.Reader) (*Document, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	asset, err := s.uploader.Upload(ctx, folder, params.Filename, r)
	if err != nil {
		return nil, fmt.Errorf("uploading document: %w", err)
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(params.Filename), filepath.Ext(params.Filename))
	}

	typ := params.Type
	if typ == "" {
		typ = TypeOther
		if strings.HasPrefix(asset.MimeType, "image/") {
			typ = TypePhoto
		}
	}

	d := &Document{
		OwnerID:    sess.UserID,
		Name:       name,
		Type:       typ,
		URL:        asset.URL,
		Size:       asset.Bytes,
		MimeType:   asset.MimeType,
		DealID:     params.DealID,
		PropertyID: params.PropertyID,
	}

	if err := s.repo.CreateDocument(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

func (s *Service) Get(ctx context.Context, sess session.Session, id uuid.UUID) (*Document, error) {
	return s.repo.GetDocument(ctx, id, sess.OwnerScope())
}

func (s *Service) List(ctx context.Context, sess session.Session, filter ListFilter) ([]*Document, error) {
	filter.Owner = sess.OwnerScope()
	return s.repo.ListDocuments(ctx, filter)
}

// Delete removes the record. The file stays on the CDN.
func (s *Service) Delete(ctx context.Context, sess session.Session, id uuid.UUID) error {
	return s.repo.DeleteDocument(ctx, id, sess.OwnerScope())
}

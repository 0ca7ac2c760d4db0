package contact

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/session"
	"github.com/MrJamesThe3rd/dealdesk/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=contact
type Repository interface {
	CreateContact(ctx context.Context, c *Contact) error
	GetContact(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*Contact, error)
	UpdateContact(ctx context.Context, c *Contact, owner *uuid.UUID) error
	SetActivelySelling(ctx context.Context, id uuid.UUID, owner *uuid.UUID, selling bool) error
	ListContacts(ctx context.Context, filter ListFilter) ([]*Contact, error)
	DeleteContact(ctx context.Context, id uuid.UUID, owner *uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	FirstName       string    `validate:"required"`
	LastName        string
	Email           string    `validate:"omitempty,email"`
	Phone           string
	Address         string
	Notes           string
	Role            Role      `validate:"required,oneof=buyer seller agent lender investor"`
	BuyerType       BuyerType `validate:"omitempty,oneof=first-time move-up investor downsizer relocating"`
	ActivelyBuying  bool
	ActivelySelling bool
}

type ListFilter struct {
	Owner *uuid.UUID
	Role  *Role
}

func (p CreateParams) apply(c *Contact) {
	c.FirstName = p.FirstName
	c.LastName = p.LastName
	c.Email = p.Email
	c.Phone = p.Phone
	c.Address = p.Address
	c.Notes = p.Notes
	c.Role = p.Role
	c.BuyerType = p.BuyerType
	c.ActivelyBuying = p.ActivelyBuying
	c.ActivelySelling = p.ActivelySelling

	// Role-specific attributes only make sense on their own role.
	if c.Role != RoleBuyer {
		c.BuyerType = ""
		c.ActivelyBuying = false
	}

	if c.Role != RoleSeller {
		c.ActivelySelling = false
	}
}

func (s *Service) Create(ctx context.Context, sess session.Session, params CreateParams) (*Contact, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	c := &Contact{OwnerID: sess.UserID}
	params.apply(c)

	if err := s.repo.CreateContact(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// CreateBatch creates every contact in order and stops at the first failure,
// returning the contacts created so far.
func (s *Service) CreateBatch(ctx context.Context, sess session.Session, params []CreateParams) ([]*Contact, error) {
	created := make([]*Contact, 0, len(params))

	for i, p := range params {
		c, err := s.Create(ctx, sess, p)
		if err != nil {
			return created, fmt.Errorf("contact %d: %w", i+1, err)
		}

		created = append(created, c)
	}

	return created, nil
}

func (s *Service) Get(ctx context.Context, sess session.Session, id uuid.UUID) (*Contact, error) {
	return s.repo.GetContact(ctx, id, sess.OwnerScope())
}

func (s *Service) List(ctx context.Context, sess session.Session, filter ListFilter) ([]*Contact, error) {
	filter.Owner = sess.OwnerScope()
	return s.repo.ListContacts(ctx, filter)
}

// Update re-submits the full record.
func (s *Service) Update(ctx context.Context, sess session.Session, id uuid.UUID, params CreateParams) (*Contact, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	c, err := s.repo.GetContact(ctx, id, sess.OwnerScope())
	if err != nil {
		return nil, err
	}

	params.apply(c)

	if err := s.repo.UpdateContact(ctx, c, sess.OwnerScope()); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, sess session.Session, id uuid.UUID) error {
	return s.repo.DeleteContact(ctx, id, sess.OwnerScope())
}

func (s *Service) SetActivelySelling(ctx context.Context, sess session.Session, id uuid.UUID, selling bool) error {
	return s.repo.SetActivelySelling(ctx, id, sess.OwnerScope(), selling)
}

// Lookup returns the contact's role and display name.
func (s *Service) Lookup(ctx context.Context, sess session.Session, id uuid.UUID) (Role, string, error) {
	c, err := s.repo.GetContact(ctx, id, sess.OwnerScope())
	if err != nil {
		return "", "", err
	}

	return c.Role, c.Name(), nil
}

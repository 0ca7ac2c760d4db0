package deal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=deal
type Repository interface {
	CreateDeal(ctx context.Context, d *Deal) error
	GetDeal(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*Deal, error)
	UpdateDeal(ctx context.Context, d *Deal, owner *uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, owner *uuid.UUID, status Status) (time.Time, error)
	ListDeals(ctx context.Context, filter ListFilter) ([]*Deal, error)
	DeleteDeal(ctx context.Context, id uuid.UUID, owner *uuid.UUID) error
}

// ContactBook resolves deal parties and receives the seller update on closing.
type ContactBook interface {
	Lookup(ctx context.Context, sess session.Session, id uuid.UUID) (contact.Role, string, error)
	SetActivelySelling(ctx context.Context, sess session.Session, id uuid.UUID, selling bool) error
}

type Service struct {
	repo     Repository
	contacts ContactBook
}

func NewService(repo Repository, contacts ContactBook) *Service {
	return &Service{repo: repo, contacts: contacts}
}

// SaveParams is the full record submitted by a create or edit form.
// A nil ID creates a new deal.
type SaveParams struct {
	ID *uuid.UUID

	BuyerID    *uuid.UUID
	BuyerName  string
	SellerID   *uuid.UUID
	SellerName string

	PropertyAddress string

	PurchasePrice     decimal.Decimal
	OfferPrice        decimal.Decimal
	CommissionPercent decimal.Decimal
	CommissionSplit   decimal.Decimal

	Status Status

	ContractDate      *time.Time
	ExpectedCloseDate *time.Time
	ActualCloseDate   *time.Time

	Notes string
}

type ListFilter struct {
	Owner    *uuid.UUID
	Status   *Status
	BuyerID  *uuid.UUID
	SellerID *uuid.UUID
}

func (p SaveParams) toDeal() *Deal {
	d := &Deal{
		BuyerID:           p.BuyerID,
		BuyerName:         strings.TrimSpace(p.BuyerName),
		SellerID:          p.SellerID,
		SellerName:        strings.TrimSpace(p.SellerName),
		PropertyAddress:   strings.TrimSpace(p.PropertyAddress),
		PurchasePrice:     NonNegative(p.PurchasePrice),
		OfferPrice:        NonNegative(p.OfferPrice),
		CommissionPercent: NonNegative(p.CommissionPercent),
		CommissionSplit:   NonNegative(p.CommissionSplit),
		Status:            ParseStatus(string(p.Status)),
		ContractDate:      p.ContractDate,
		ExpectedCloseDate: p.ExpectedCloseDate,
		ActualCloseDate:   p.ActualCloseDate,
		Notes:             p.Notes,
	}
	d.Recalculate()

	return d
}

// Save validates and persists the submitted record. A blank property address
// is rejected before any store call. Store failures wrap ErrSaveFailed and
// nothing is rolled back.
func (s *Service) Save(ctx context.Context, sess session.Session, params SaveParams) (*Deal, error) {
	if strings.TrimSpace(params.PropertyAddress) == "" {
		return nil, ErrAddressRequired
	}

	d := params.toDeal()

	if params.ID == nil {
		return s.create(ctx, sess, d)
	}

	return s.update(ctx, sess, *params.ID, d)
}

func (s *Service) create(ctx context.Context, sess session.Session, d *Deal) (*Deal, error) {
	buyerName, err := s.resolveParty(ctx, sess, d.BuyerID, contact.RoleBuyer)
	if err != nil {
		return nil, err
	}

	sellerName, err := s.resolveParty(ctx, sess, d.SellerID, contact.RoleSeller)
	if err != nil {
		return nil, err
	}

	if d.BuyerName == "" {
		d.BuyerName = buyerName
	}

	if d.SellerName == "" {
		d.SellerName = sellerName
	}

	d.OwnerID = sess.UserID

	if err := s.repo.CreateDeal(ctx, d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	s.onTransition(ctx, sess, "", d)

	return d, nil
}

func (s *Service) update(ctx context.Context, sess session.Session, id uuid.UUID, d *Deal) (*Deal, error) {
	prev, err := s.repo.GetDeal(ctx, id, sess.OwnerScope())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	d.ID = prev.ID
	d.OwnerID = prev.OwnerID
	d.CreatedAt = prev.CreatedAt

	if err := s.repo.UpdateDeal(ctx, d, sess.OwnerScope()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	s.onTransition(ctx, sess, prev.Status, d)

	return d, nil
}

// resolveParty checks that id, when set, points at a contact of the given role
// and returns that contact's display name.
func (s *Service) resolveParty(ctx context.Context, sess session.Session, id *uuid.UUID, want contact.Role) (string, error) {
	if id == nil {
		return "", nil
	}

	role, name, err := s.contacts.Lookup(ctx, sess, *id)
	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			return "", fmt.Errorf("%w: %s %s not found", ErrInvalidReference, want, id)
		}

		return "", fmt.Errorf("looking up %s: %w", want, err)
	}

	if role != want {
		return "", fmt.Errorf("%w: contact %s is a %s, not a %s", ErrInvalidReference, id, role, want)
	}

	return name, nil
}

// onTransition runs the side effects of moving a deal from one status to
// its current one. Entering closed marks the seller as no longer actively
// selling; a failure there is logged and does not fail the save.
func (s *Service) onTransition(ctx context.Context, sess session.Session, from Status, d *Deal) {
	if from == StatusClosed || d.Status != StatusClosed || d.SellerID == nil {
		return
	}

	if err := s.contacts.SetActivelySelling(ctx, sess, *d.SellerID, false); err != nil {
		slog.Warn("failed to clear seller actively-selling flag",
			"deal_id", d.ID, "seller_id", *d.SellerID, "error", err)
	}
}

// UpdateStatus moves a deal to another stage without touching the rest of the record.
func (s *Service) UpdateStatus(ctx context.Context, sess session.Session, id uuid.UUID, status Status) (*Deal, error) {
	d, err := s.repo.GetDeal(ctx, id, sess.OwnerScope())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	from := d.Status
	d.Status = ParseStatus(string(status))

	updatedAt, err := s.repo.UpdateStatus(ctx, id, sess.OwnerScope(), d.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	d.UpdatedAt = &updatedAt

	s.onTransition(ctx, sess, from, d)

	return d, nil
}

func (s *Service) Get(ctx context.Context, sess session.Session, id uuid.UUID) (*Deal, error) {
	return s.repo.GetDeal(ctx, id, sess.OwnerScope())
}

func (s *Service) List(ctx context.Context, sess session.Session, filter ListFilter) ([]*Deal, error) {
	filter.Owner = sess.OwnerScope()
	return s.repo.ListDeals(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, sess session.Session, id uuid.UUID) error {
	return s.repo.DeleteDeal(ctx, id, sess.OwnerScope())
}

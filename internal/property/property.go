package property

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("property not found")
	ErrPhotoIndex   = errors.New("photo index out of range")
	ErrInvalidPhoto = errors.New("photo must be an image")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusPending   Status = "pending"
	StatusSold      Status = "sold"
	StatusOffMarket Status = "off-market"
)

var Statuses = []Status{StatusActive, StatusPending, StatusSold, StatusOffMarket}

type Address struct {
	Street string `json:"street" validate:"required"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// String formats the address on one line, skipping blank parts.
func (a Address) String() string {
	parts := make([]string, 0, 3)

	for _, p := range []string{a.Street, a.City, strings.TrimSpace(a.State + " " + a.Zip)} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	return strings.Join(parts, ", ")
}

// Photo is an image hosted on the media CDN.
type Photo struct {
	URL    string `json:"url"`
	Bytes  int64  `json:"bytes"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Property is a listing, optionally linked to the selling contact.
type Property struct {
	ID      uuid.UUID
	OwnerID uuid.UUID

	Address   Address
	Beds      int
	Baths     float64
	SqFt      int
	LotSize   float64
	YearBuilt int

	Status    Status
	ListPrice decimal.Decimal
	HOA       decimal.Decimal
	Taxes     decimal.Decimal

	Description string
	Features    []string
	Photos      []Photo

	SellerID *uuid.UUID

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// PricePerSqFt is zero when the square footage is unknown.
func (p *Property) PricePerSqFt() decimal.Decimal {
	if p.SqFt <= 0 {
		return decimal.Zero
	}

	return p.ListPrice.Div(decimal.NewFromInt(int64(p.SqFt))).Round(2)
}

func (p *Property) String() string {
	return fmt.Sprintf("%s (%s)", p.Address, p.Status)
}

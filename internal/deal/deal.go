package deal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/validation"
)

var (
	ErrNotFound         = errors.New("deal not found")
	ErrValidation       = validation.ErrInvalid
	ErrAddressRequired  = fmt.Errorf("%w: PropertyAddress required", ErrValidation)
	ErrInvalidReference = fmt.Errorf("%w: party must reference a contact of the matching role", ErrValidation)
	ErrSaveFailed       = errors.New("save failed")
)

// Deal is a transaction moving through the sales pipeline.
type Deal struct {
	ID      uuid.UUID
	OwnerID uuid.UUID

	// Party names are copied from the contact when the deal is saved and
	// are not kept in sync afterwards.
	BuyerID    *uuid.UUID
	BuyerName  string
	SellerID   *uuid.UUID
	SellerName string

	PropertyAddress string

	PurchasePrice     decimal.Decimal
	OfferPrice        decimal.Decimal
	CommissionPercent decimal.Decimal
	CommissionSplit   decimal.Decimal

	// Cached for display; see Recalculate.
	CommissionAmount decimal.Decimal
	AgentEarnings    decimal.Decimal

	Status Status

	ContractDate      *time.Time
	ExpectedCloseDate *time.Time
	ActualCloseDate   *time.Time

	Notes     string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Recalculate refreshes the cached commission figures from the terms.
func (d *Deal) Recalculate() {
	d.CommissionAmount, d.AgentEarnings = Commission(d.PurchasePrice, d.CommissionPercent, d.CommissionSplit)
}

// Progress is the deal's position along the ordered pipeline, from 0 to 1.
func (d *Deal) Progress() float64 {
	return Progress(d.Status)
}

var hundred = decimal.NewFromInt(100)

// Commission returns the total commission on a sale and the agent's share of it.
// Percentages are not capped at 100.
func Commission(purchasePrice, percent, split decimal.Decimal) (amount, earnings decimal.Decimal) {
	amount = purchasePrice.Mul(percent).Div(hundred)
	earnings = amount.Mul(split).Div(hundred)

	return amount, earnings
}

// ParseAmount reads a user-entered currency or percentage value.
// Blank, unparseable and negative input is treated as not yet known and yields zero.
func ParseAmount(s string) decimal.Decimal {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.TrimSuffix(clean, "%")
	clean = strings.ReplaceAll(clean, ",", "")

	if clean == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}

	return NonNegative(d)
}

// NonNegative clamps negative values to zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}

	return d
}

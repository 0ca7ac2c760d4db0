package contact

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("contact not found")

// Role is the part a contact plays in deals.
type Role string

const (
	RoleBuyer    Role = "buyer"
	RoleSeller   Role = "seller"
	RoleAgent    Role = "agent"
	RoleLender   Role = "lender"
	RoleInvestor Role = "investor"
)

var Roles = []Role{RoleBuyer, RoleSeller, RoleAgent, RoleLender, RoleInvestor}

// BuyerType classifies buyers.
type BuyerType string

const (
	BuyerFirstTime  BuyerType = "first-time"
	BuyerMoveUp     BuyerType = "move-up"
	BuyerInvestor   BuyerType = "investor"
	BuyerDownsizer  BuyerType = "downsizer"
	BuyerRelocating BuyerType = "relocating"
)

// Contact is a person tracked in the CRM.
type Contact struct {
	ID      uuid.UUID
	OwnerID uuid.UUID

	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	Notes     string
	Role      Role

	// Buyer attributes.
	BuyerType      BuyerType
	ActivelyBuying bool

	// Seller attribute. Cleared when one of the seller's deals closes.
	ActivelySelling bool

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Name is the display name copied onto deals that reference the contact.
func (c *Contact) Name() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

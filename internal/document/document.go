package document

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("document not found")

type Type string

const (
	TypeContract   Type = "contract"
	TypeDisclosure Type = "disclosure"
	TypeInspection Type = "inspection"
	TypeAppraisal  Type = "appraisal"
	TypePhoto      Type = "photo"
	TypeOther      Type = "other"
)

// Document is a file stored on the media CDN and attached to a deal or property.
type Document struct {
	ID      uuid.UUID
	OwnerID uuid.UUID

	Name     string
	Type     Type
	URL      string
	Size     int64
	MimeType string

	DealID     *uuid.UUID
	PropertyID *uuid.UUID

	CreatedAt time.Time
}

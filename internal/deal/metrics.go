package deal

import (
	"time"
)

// StaleAfterDays is how long a deal may sit in one status before it is flagged.
const StaleAfterDays = 30

const day = 24 * time.Hour

func (d *Deal) IsActive() bool {
	return d.Status != StatusClosed && d.Status != StatusDead
}

func (d *Deal) IsClosed() bool {
	return d.Status == StatusClosed
}

// DaysInStatus counts whole days since the deal last changed, falling back
// to its creation time when it has never been updated.
func (d *Deal) DaysInStatus(now time.Time) int {
	ref := d.CreatedAt
	if d.UpdatedAt != nil {
		ref = *d.UpdatedAt
	}

	if ref.IsZero() || now.Before(ref) {
		return 0
	}

	return int(now.Sub(ref) / day)
}

func (d *Deal) IsStale(now time.Time) bool {
	return d.DaysInStatus(now) > StaleAfterDays
}

// ConversionRate is the percentage of deals that closed. Zero for no deals.
func ConversionRate(deals []*Deal) float64 {
	if len(deals) == 0 {
		return 0
	}

	closed := 0

	for _, d := range deals {
		if d.IsClosed() {
			closed++
		}
	}

	return float64(closed) / float64(len(deals)) * 100
}

// AverageDaysToClose is the mean of updated-at minus created-at, in days,
// over closed deals carrying both timestamps. Zero when there are none.
func AverageDaysToClose(deals []*Deal) float64 {
	var (
		total float64
		n     int
	)

	for _, d := range deals {
		if !d.IsClosed() || d.UpdatedAt == nil || d.CreatedAt.IsZero() {
			continue
		}

		total += d.UpdatedAt.Sub(d.CreatedAt).Hours() / 24
		n++
	}

	if n == 0 {
		return 0
	}

	return total / float64(n)
}

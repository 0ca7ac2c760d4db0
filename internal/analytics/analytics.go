// Package analytics reduces an already-fetched set of deals into dashboard figures.
package analytics

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/deal"
)

// DefaultTrendMonths is the width of the monthly trend window.
const DefaultTrendMonths = 6

type StatusCount struct {
	Status deal.Status `json:"status"`
	Label  string      `json:"label"`
	Count  int         `json:"count"`
}

// Funnel counts deals per status. Every status is present, pipeline order
// first and dead last. Unknown statuses are counted as lead.
func Funnel(deals []*deal.Deal) []StatusCount {
	counts := make(map[deal.Status]int, len(deal.Statuses))
	for _, d := range deals {
		counts[deal.ParseStatus(string(d.Status))]++
	}

	funnel := make([]StatusCount, 0, len(deal.Statuses))
	for _, s := range deal.Statuses {
		funnel = append(funnel, StatusCount{Status: s, Label: s.Label(), Count: counts[s]})
	}

	return funnel
}

type Summary struct {
	Total  int `json:"total"`
	Active int `json:"active"`
	Closed int `json:"closed"`
	Dead   int `json:"dead"`
	Stale  int `json:"stale"`

	ConversionRate     float64 `json:"conversion_rate"`
	AverageDaysToClose float64 `json:"average_days_to_close"`

	// PipelineValue is the purchase price of every active deal.
	PipelineValue   decimal.Decimal `json:"pipeline_value"`
	ClosedVolume    decimal.Decimal `json:"closed_volume"`
	AverageDealSize decimal.Decimal `json:"average_deal_size"`

	ClosedCommission  decimal.Decimal `json:"closed_commission"`
	ClosedEarnings    decimal.Decimal `json:"closed_earnings"`
	ProjectedEarnings decimal.Decimal `json:"projected_earnings"`
}

func Summarize(deals []*deal.Deal, now time.Time) Summary {
	s := Summary{
		Total:              len(deals),
		ConversionRate:     deal.ConversionRate(deals),
		AverageDaysToClose: deal.AverageDaysToClose(deals),
	}

	for _, d := range deals {
		switch {
		case d.IsClosed():
			s.Closed++
			s.ClosedVolume = s.ClosedVolume.Add(d.PurchasePrice)
			s.ClosedCommission = s.ClosedCommission.Add(d.CommissionAmount)
			s.ClosedEarnings = s.ClosedEarnings.Add(d.AgentEarnings)
		case d.Status == deal.StatusDead:
			s.Dead++
		default:
			s.Active++
			s.PipelineValue = s.PipelineValue.Add(d.PurchasePrice)
			s.ProjectedEarnings = s.ProjectedEarnings.Add(d.AgentEarnings)

			if d.IsStale(now) {
				s.Stale++
			}
		}
	}

	if s.Closed > 0 {
		s.AverageDealSize = s.ClosedVolume.Div(decimal.NewFromInt(int64(s.Closed))).Round(2)
	}

	return s
}

type MonthBucket struct {
	Month    time.Time       `json:"month"`
	Count    int             `json:"count"`
	Volume   decimal.Decimal `json:"volume"`
	Earnings decimal.Decimal `json:"earnings"`
}

// MonthlyTrend buckets deals by creation month over the months ending with
// now's month, oldest first. Volume sums purchase prices; earnings sums the
// agent's share on closed deals only.
func MonthlyTrend(deals []*deal.Deal, now time.Time, months int) []MonthBucket {
	if months <= 0 {
		months = DefaultTrendMonths
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)

	buckets := make([]MonthBucket, months)
	for i := range buckets {
		buckets[i].Month = first.AddDate(0, i, 0)
	}

	for _, d := range deals {
		created := d.CreatedAt.In(now.Location())
		i := (created.Year()-first.Year())*12 + int(created.Month()) - int(first.Month())

		if i < 0 || i >= months {
			continue
		}

		buckets[i].Count++
		buckets[i].Volume = buckets[i].Volume.Add(d.PurchasePrice)

		if d.IsClosed() {
			buckets[i].Earnings = buckets[i].Earnings.Add(d.AgentEarnings)
		}
	}

	return buckets
}

type BuyerRank struct {
	BuyerID *uuid.UUID      `json:"buyer_id,omitempty"`
	Name    string          `json:"name"`
	Deals   int             `json:"deals"`
	Volume  decimal.Decimal `json:"volume"`
}

// TopBuyers ranks buyers by deal count, then volume, then name. Deals
// without a buyer are skipped. Buyers are keyed by id when present and by
// display name otherwise.
func TopBuyers(deals []*deal.Deal, n int) []BuyerRank {
	byKey := map[string]*BuyerRank{}

	for _, d := range deals {
		name := strings.TrimSpace(d.BuyerName)

		var key string

		switch {
		case d.BuyerID != nil:
			key = d.BuyerID.String()
		case name != "":
			key = "name:" + strings.ToLower(name)
		default:
			continue
		}

		r, ok := byKey[key]
		if !ok {
			r = &BuyerRank{BuyerID: d.BuyerID, Name: name}
			byKey[key] = r
		}

		if r.Name == "" {
			r.Name = name
		}

		r.Deals++
		r.Volume = r.Volume.Add(d.PurchasePrice)
	}

	ranks := make([]BuyerRank, 0, len(byKey))
	for _, r := range byKey {
		ranks = append(ranks, *r)
	}

	slices.SortFunc(ranks, func(a, b BuyerRank) int {
		if c := cmp.Compare(b.Deals, a.Deals); c != 0 {
			return c
		}

		if c := b.Volume.Cmp(a.Volume); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})

	if n > 0 && len(ranks) > n {
		ranks = ranks[:n]
	}

	return ranks
}

// FilterByCreated keeps deals created within [start, end]. A zero bound is open.
func FilterByCreated(deals []*deal.Deal, start, end time.Time) []*deal.Deal {
	out := make([]*deal.Deal, 0, len(deals))

	for _, d := range deals {
		if !start.IsZero() && d.CreatedAt.Before(start) {
			continue
		}

		if !end.IsZero() && d.CreatedAt.After(end) {
			continue
		}

		out = append(out, d)
	}

	return out
}

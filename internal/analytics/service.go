package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/dealdesk/internal/deal"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

const topBuyers = 5

//go:generate mockgen -source=service.go -destination=deals_mock.go -package=analytics
type DealLister interface {
	List(ctx context.Context, sess session.Session, filter deal.ListFilter) ([]*deal.Deal, error)
}

type Service struct {
	deals DealLister
	now   func() time.Time
}

func NewService(deals DealLister) *Service {
	return &Service{deals: deals, now: time.Now}
}

// Range limits the dashboard to deals created within it. Zero bounds are open.
type Range struct {
	Start time.Time `json:"start,omitzero"`
	End   time.Time `json:"end,omitzero"`
}

type Dashboard struct {
	Range     Range         `json:"range"`
	Summary   Summary       `json:"summary"`
	Funnel    []StatusCount `json:"funnel"`
	Trend     []MonthBucket `json:"trend"`
	TopBuyers []BuyerRank   `json:"top_buyers"`
}

// Dashboard fetches the session's deals once and reduces them. The monthly
// trend always covers the fixed window ending now, regardless of r.
func (s *Service) Dashboard(ctx context.Context, sess session.Session, r Range) (*Dashboard, error) {
	all, err := s.deals.List(ctx, sess, deal.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing deals: %w", err)
	}

	now := s.now()
	inRange := FilterByCreated(all, r.Start, r.End)

	return &Dashboard{
		Range:     r,
		Summary:   Summarize(inRange, now),
		Funnel:    Funnel(inRange),
		Trend:     MonthlyTrend(all, now, DefaultTrendMonths),
		TopBuyers: TopBuyers(inRange, topBuyers),
	}, nil
}

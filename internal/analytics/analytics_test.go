package analytics_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dealdesk/internal/analytics"
	"github.com/MrJamesThe3rd/dealdesk/internal/deal"
)

func newDeal(status deal.Status, price int64, created time.Time) *deal.Deal {
	d := &deal.Deal{
		Status:            status,
		PurchasePrice:     decimal.NewFromInt(price),
		CommissionPercent: decimal.NewFromInt(3),
		CommissionSplit:   decimal.NewFromInt(50),
		CreatedAt:         created,
	}
	d.Recalculate()

	return d
}

func TestFunnel(t *testing.T) {
	now := time.Now()
	deals := []*deal.Deal{
		newDeal(deal.StatusClosed, 1, now),
		newDeal(deal.StatusClosed, 1, now),
		newDeal(deal.StatusDead, 1, now),
		newDeal(deal.StatusLead, 1, now),
		newDeal("bogus", 1, now),
	}

	funnel := analytics.Funnel(deals)
	require.Len(t, funnel, len(deal.Statuses))

	counts := map[deal.Status]int{}
	for _, c := range funnel {
		counts[c.Status] = c.Count
	}

	assert.Equal(t, 2, counts[deal.StatusLead])
	assert.Equal(t, 2, counts[deal.StatusClosed])
	assert.Equal(t, 1, counts[deal.StatusDead])
	assert.Equal(t, 0, counts[deal.StatusQualified])
	assert.Equal(t, deal.StatusLead, funnel[0].Status)
	assert.Equal(t, deal.StatusDead, funnel[len(funnel)-1].Status)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	created := now.AddDate(0, 0, -20)

	closedA := newDeal(deal.StatusClosed, 500000, created)
	closedA.UpdatedAt = new(created.AddDate(0, 0, 12))
	closedB := newDeal(deal.StatusClosed, 300000, created)
	closedB.UpdatedAt = new(created.AddDate(0, 0, 12))
	dead := newDeal(deal.StatusDead, 100000, created)
	lead := newDeal(deal.StatusLead, 200000, now.AddDate(0, 0, -45))

	s := analytics.Summarize([]*deal.Deal{closedA, closedB, dead, lead}, now)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Closed)
	assert.Equal(t, 1, s.Dead)
	assert.Equal(t, 1, s.Active)
	assert.Equal(t, 1, s.Stale)
	assert.InDelta(t, 50.0, s.ConversionRate, 1e-9)
	assert.InDelta(t, 12.0, s.AverageDaysToClose, 1e-9)
	assert.True(t, s.ClosedVolume.Equal(decimal.NewFromInt(800000)))
	assert.True(t, s.AverageDealSize.Equal(decimal.NewFromInt(400000)))
	assert.True(t, s.ClosedCommission.Equal(decimal.NewFromInt(24000)))
	assert.True(t, s.ClosedEarnings.Equal(decimal.NewFromInt(12000)))
	assert.True(t, s.PipelineValue.Equal(decimal.NewFromInt(200000)))
	assert.True(t, s.ProjectedEarnings.Equal(decimal.NewFromInt(3000)))
}

func TestSummarize_Empty(t *testing.T) {
	s := analytics.Summarize(nil, time.Now())

	assert.Zero(t, s.Total)
	assert.Zero(t, s.ConversionRate)
	assert.Zero(t, s.AverageDaysToClose)
	assert.True(t, s.AverageDealSize.IsZero())
}

func TestMonthlyTrend(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	deals := []*deal.Deal{
		newDeal(deal.StatusClosed, 100000, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)),
		newDeal(deal.StatusLead, 50000, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)),
		newDeal(deal.StatusLead, 70000, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)),
		newDeal(deal.StatusClosed, 90000, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)),
	}

	trend := analytics.MonthlyTrend(deals, now, 0)
	require.Len(t, trend, analytics.DefaultTrendMonths)

	assert.Equal(t, time.January, trend[0].Month.Month())
	assert.Equal(t, 1, trend[0].Count)
	assert.True(t, trend[0].Earnings.IsZero())

	last := trend[5]
	assert.Equal(t, time.June, last.Month.Month())
	assert.Equal(t, 2, last.Count)
	assert.True(t, last.Volume.Equal(decimal.NewFromInt(150000)))
	assert.True(t, last.Earnings.Equal(decimal.NewFromInt(1500)))

	for _, b := range trend[1:5] {
		assert.Zero(t, b.Count)
	}
}

func TestTopBuyers(t *testing.T) {
	now := time.Now()
	ana := uuid.New()
	rui := uuid.New()

	withBuyer := func(id *uuid.UUID, name string, price int64) *deal.Deal {
		d := newDeal(deal.StatusLead, price, now)
		d.BuyerID = id
		d.BuyerName = name

		return d
	}

	deals := []*deal.Deal{
		withBuyer(&ana, "Ana", 100),
		withBuyer(&rui, "Rui", 500),
		withBuyer(&ana, "Ana Silva", 100),
		withBuyer(nil, "Walk-in", 900),
		withBuyer(nil, "", 1000),
	}

	top := analytics.TopBuyers(deals, 2)
	require.Len(t, top, 2)

	assert.Equal(t, ana, *top[0].BuyerID)
	assert.Equal(t, 2, top[0].Deals)
	assert.Equal(t, "Walk-in", top[1].Name)
	assert.Nil(t, top[1].BuyerID)

	assert.Len(t, analytics.TopBuyers(deals, 0), 3)
}

func TestFilterByCreated(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 3, d, 12, 0, 0, 0, time.UTC) }

	deals := []*deal.Deal{
		newDeal(deal.StatusLead, 1, day(1)),
		newDeal(deal.StatusLead, 1, day(10)),
		newDeal(deal.StatusLead, 1, day(20)),
	}

	assert.Len(t, analytics.FilterByCreated(deals, day(5), day(20)), 2)
	assert.Len(t, analytics.FilterByCreated(deals, time.Time{}, day(10)), 2)
	assert.Len(t, analytics.FilterByCreated(deals, time.Time{}, time.Time{}), 3)
}

package deal_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/dealdesk/internal/deal"
)

func TestCommission(t *testing.T) {
	tests := []struct {
		name         string
		price        string
		percent      string
		split        string
		wantAmount   string
		wantEarnings string
	}{
		{name: "Standard", price: "500000", percent: "3", split: "50", wantAmount: "15000", wantEarnings: "7500"},
		{name: "Fractional", price: "325000", percent: "2.5", split: "70", wantAmount: "8125", wantEarnings: "5687.5"},
		{name: "ZeroPrice", price: "0", percent: "3", split: "50", wantAmount: "0", wantEarnings: "0"},
		{name: "UncappedPercent", price: "1000", percent: "150", split: "100", wantAmount: "1500", wantEarnings: "1500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, earnings := deal.Commission(
				decimal.RequireFromString(tt.price),
				decimal.RequireFromString(tt.percent),
				decimal.RequireFromString(tt.split),
			)

			assert.True(t, amount.Equal(decimal.RequireFromString(tt.wantAmount)), "amount = %s", amount)
			assert.True(t, earnings.Equal(decimal.RequireFromString(tt.wantEarnings)), "earnings = %s", earnings)
		})
	}
}

func TestDeal_Recalculate(t *testing.T) {
	d := &deal.Deal{
		PurchasePrice:     decimal.NewFromInt(500000),
		CommissionPercent: decimal.NewFromInt(3),
		CommissionSplit:   decimal.NewFromInt(50),
	}
	d.Recalculate()

	assert.True(t, d.CommissionAmount.Equal(decimal.NewFromInt(15000)))
	assert.True(t, d.AgentEarnings.Equal(decimal.NewFromInt(7500)))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "$500,000", want: "500000"},
		{in: "3%", want: "3"},
		{in: " 2.75 ", want: "2.75"},
		{in: "", want: "0"},
		{in: "abc", want: "0"},
		{in: "-10", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := deal.ParseAmount(tt.in)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, deal.StatusOfferSubmitted, deal.ParseStatus(" Offer-Submitted "))
	assert.Equal(t, deal.StatusDead, deal.ParseStatus("dead"))
	assert.Equal(t, deal.StatusLead, deal.ParseStatus(""))
	assert.Equal(t, deal.StatusLead, deal.ParseStatus("negotiating"))
}

func TestProgress(t *testing.T) {
	tests := []struct {
		status deal.Status
		want   float64
	}{
		{status: deal.StatusLead, want: 0},
		{status: deal.StatusOfferSubmitted, want: 3.0 / 9.0},
		{status: deal.StatusClosed, want: 1},
		{status: deal.StatusDead, want: 0},
		{status: deal.Status("bogus"), want: 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.InDelta(t, tt.want, deal.Progress(tt.status), 1e-9)
		})
	}
}

func TestStageIndex_Unknown(t *testing.T) {
	assert.Equal(t, 0, deal.StageIndex("bogus"))
	assert.Equal(t, 0, deal.StageIndex(deal.StatusDead))
	assert.Equal(t, 9, deal.StageIndex(deal.StatusClosed))
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "Clear to Close", deal.StatusClearToClose.Label())
	assert.Equal(t, "Lead", deal.Status("bogus").Label())
	assert.Len(t, deal.Statuses, len(deal.Pipeline)+1)
}

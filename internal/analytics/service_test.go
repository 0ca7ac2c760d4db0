package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/dealdesk/internal/analytics"
	"github.com/MrJamesThe3rd/dealdesk/internal/deal"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

func TestService_Dashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := analytics.NewMockDealLister(ctrl)

	sess := session.Session{UserID: uuid.New(), Role: session.RoleAgent}
	now := time.Now()

	deals := []*deal.Deal{
		newDeal(deal.StatusClosed, 100000, now.AddDate(0, 0, -1)),
		newDeal(deal.StatusLead, 100000, now.AddDate(0, 0, -2)),
		newDeal(deal.StatusLead, 100000, now.AddDate(-2, 0, 0)),
	}

	lister.EXPECT().List(gomock.Any(), sess, deal.ListFilter{}).Return(deals, nil).Times(1)

	dash, err := analytics.NewService(lister).Dashboard(context.Background(), sess, analytics.Range{Start: now.AddDate(0, -1, 0)})
	require.NoError(t, err)

	assert.Equal(t, 2, dash.Summary.Total)
	assert.InDelta(t, 50.0, dash.Summary.ConversionRate, 1e-9)
	assert.Len(t, dash.Funnel, len(deal.Statuses))
	assert.Len(t, dash.Trend, analytics.DefaultTrendMonths)
	assert.Empty(t, dash.TopBuyers)
}

func TestService_Dashboard_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := analytics.NewMockDealLister(ctrl)

	lister.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err := analytics.NewService(lister).Dashboard(context.Background(), session.Session{UserID: uuid.New()}, analytics.Range{})
	assert.ErrorContains(t, err, "db down")
}

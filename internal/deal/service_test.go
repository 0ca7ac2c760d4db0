package deal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/deal"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
	"github.com/MrJamesThe3rd/dealdesk/internal/validation"
)

func agentSession() session.Session {
	return session.Session{UserID: uuid.New(), Email: "agent@example.com", Role: session.RoleAgent}
}

func setup(t *testing.T) (*deal.Service, *deal.MockRepository, *deal.MockContactBook) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := deal.NewMockRepository(ctrl)
	contacts := deal.NewMockContactBook(ctrl)

	return deal.NewService(repo, contacts), repo, contacts
}

func TestService_Save_Create(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()

	type testCase struct {
		name      string
		params    deal.SaveParams
		setupMock func(repo *deal.MockRepository, contacts *deal.MockContactBook)
		check     func(t *testing.T, d *deal.Deal)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "ComputesCommissionAndNames",
			params: deal.SaveParams{
				BuyerID:           &buyerID,
				SellerID:          &sellerID,
				PropertyAddress:   "12 Elm St",
				PurchasePrice:     decimal.NewFromInt(500000),
				CommissionPercent: decimal.NewFromInt(3),
				CommissionSplit:   decimal.NewFromInt(50),
				Status:            "Under-Contract",
			},
			setupMock: func(repo *deal.MockRepository, contacts *deal.MockContactBook) {
				contacts.EXPECT().Lookup(gomock.Any(), gomock.Any(), buyerID).Return(contact.RoleBuyer, "Ana Silva", nil)
				contacts.EXPECT().Lookup(gomock.Any(), gomock.Any(), sellerID).Return(contact.RoleSeller, "Rui Costa", nil)
				repo.EXPECT().
					CreateDeal(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, d *deal.Deal) error {
						d.ID = uuid.New()
						d.CreatedAt = time.Now()
						return nil
					})
			},
			check: func(t *testing.T, d *deal.Deal) {
				assert.Equal(t, "Ana Silva", d.BuyerName)
				assert.Equal(t, "Rui Costa", d.SellerName)
				assert.Equal(t, deal.StatusUnderContract, d.Status)
				assert.True(t, d.CommissionAmount.Equal(decimal.NewFromInt(15000)))
				assert.True(t, d.AgentEarnings.Equal(decimal.NewFromInt(7500)))
			},
		},
		{
			name: "NegativeAmountsClamped",
			params: deal.SaveParams{
				PropertyAddress:   "12 Elm St",
				PurchasePrice:     decimal.NewFromInt(-1),
				CommissionPercent: decimal.NewFromInt(3),
			},
			setupMock: func(repo *deal.MockRepository, _ *deal.MockContactBook) {
				repo.EXPECT().CreateDeal(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, d *deal.Deal) {
				assert.True(t, d.PurchasePrice.IsZero())
				assert.True(t, d.CommissionAmount.IsZero())
				assert.Equal(t, deal.StatusLead, d.Status)
			},
		},
		{
			name:    "BlankAddress",
			params:  deal.SaveParams{PropertyAddress: "   ", BuyerID: &buyerID},
			wantErr: deal.ErrAddressRequired,
		},
		{
			name:   "BuyerIsNotABuyer",
			params: deal.SaveParams{PropertyAddress: "12 Elm St", BuyerID: &buyerID},
			setupMock: func(_ *deal.MockRepository, contacts *deal.MockContactBook) {
				contacts.EXPECT().Lookup(gomock.Any(), gomock.Any(), buyerID).Return(contact.RoleLender, "Bank", nil)
			},
			wantErr: deal.ErrInvalidReference,
		},
		{
			name:   "SellerMissing",
			params: deal.SaveParams{PropertyAddress: "12 Elm St", SellerID: &sellerID},
			setupMock: func(_ *deal.MockRepository, contacts *deal.MockContactBook) {
				contacts.EXPECT().Lookup(gomock.Any(), gomock.Any(), sellerID).Return(contact.Role(""), "", contact.ErrNotFound)
			},
			wantErr: deal.ErrInvalidReference,
		},
		{
			name:   "StoreFailure",
			params: deal.SaveParams{PropertyAddress: "12 Elm St"},
			setupMock: func(repo *deal.MockRepository, _ *deal.MockContactBook) {
				repo.EXPECT().CreateDeal(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
			},
			wantErr: deal.ErrSaveFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, contacts := setup(t)
			if tt.setupMock != nil {
				tt.setupMock(repo, contacts)
			}

			sess := agentSession()
			got, err := svc.Save(context.Background(), sess, tt.params)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, sess.UserID, got.OwnerID)

			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestService_Save_BlankAddressIsValidationError(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.Save(context.Background(), agentSession(), deal.SaveParams{})
	require.ErrorIs(t, err, validation.ErrInvalid)
	assert.Contains(t, err.Error(), "PropertyAddress required")
}

func TestService_Save_EnteringClosedClearsSeller(t *testing.T) {
	svc, repo, contacts := setup(t)

	sess := agentSession()
	id := uuid.New()
	sellerID := uuid.New()

	repo.EXPECT().
		GetDeal(gomock.Any(), id, &sess.UserID).
		Return(&deal.Deal{ID: id, OwnerID: sess.UserID, SellerID: &sellerID, Status: deal.StatusClearToClose}, nil)
	repo.EXPECT().UpdateDeal(gomock.Any(), gomock.Any(), &sess.UserID).Return(nil)
	contacts.EXPECT().SetActivelySelling(gomock.Any(), sess, sellerID, false).Return(nil).Times(1)

	got, err := svc.Save(context.Background(), sess, deal.SaveParams{
		ID:              &id,
		SellerID:        &sellerID,
		PropertyAddress: "12 Elm St",
		Status:          deal.StatusClosed,
	})
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.True(t, got.IsClosed())
}

func TestService_Save_SellerUpdateFailureIsSwallowed(t *testing.T) {
	svc, repo, contacts := setup(t)

	sess := agentSession()
	id := uuid.New()
	sellerID := uuid.New()

	repo.EXPECT().
		GetDeal(gomock.Any(), id, gomock.Any()).
		Return(&deal.Deal{ID: id, SellerID: &sellerID, Status: deal.StatusPendingTitle}, nil)
	repo.EXPECT().UpdateDeal(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	contacts.EXPECT().SetActivelySelling(gomock.Any(), gomock.Any(), sellerID, false).Return(errors.New("timeout"))

	got, err := svc.Save(context.Background(), sess, deal.SaveParams{
		ID:              &id,
		SellerID:        &sellerID,
		PropertyAddress: "12 Elm St",
		Status:          deal.StatusClosed,
	})
	require.NoError(t, err)
	assert.Equal(t, deal.StatusClosed, got.Status)
}

func TestService_UpdateStatus(t *testing.T) {
	sellerID := uuid.New()

	tests := []struct {
		name          string
		from          deal.Status
		to            deal.Status
		sellerUpdates int
	}{
		{name: "EnterClosed", from: deal.StatusClearToClose, to: deal.StatusClosed, sellerUpdates: 1},
		{name: "BetweenOpenStages", from: deal.StatusLead, to: deal.StatusQualified, sellerUpdates: 0},
		{name: "AlreadyClosed", from: deal.StatusClosed, to: deal.StatusClosed, sellerUpdates: 0},
		{name: "ToDead", from: deal.StatusUnderContract, to: deal.StatusDead, sellerUpdates: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, contacts := setup(t)

			sess := agentSession()
			id := uuid.New()

			repo.EXPECT().
				GetDeal(gomock.Any(), id, &sess.UserID).
				Return(&deal.Deal{ID: id, SellerID: &sellerID, Status: tt.from}, nil)
			updatedAt := time.Now().UTC()
			repo.EXPECT().UpdateStatus(gomock.Any(), id, &sess.UserID, tt.to).Return(updatedAt, nil)
			contacts.EXPECT().SetActivelySelling(gomock.Any(), gomock.Any(), sellerID, false).Return(nil).Times(tt.sellerUpdates)

			got, err := svc.UpdateStatus(context.Background(), sess, id, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.to, got.Status)
			require.NotNil(t, got.UpdatedAt)
			assert.Equal(t, updatedAt, *got.UpdatedAt)
			assert.Equal(t, 0, got.DaysInStatus(updatedAt))
		})
	}
}

func TestService_UpdateStatus_NotFound(t *testing.T) {
	svc, repo, _ := setup(t)

	repo.EXPECT().GetDeal(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, deal.ErrNotFound)

	_, err := svc.UpdateStatus(context.Background(), agentSession(), uuid.New(), deal.StatusClosed)
	assert.ErrorIs(t, err, deal.ErrNotFound)
	assert.NotErrorIs(t, err, deal.ErrSaveFailed)
}

func TestService_List_ScopesByOwner(t *testing.T) {
	svc, repo, _ := setup(t)

	sess := agentSession()
	status := deal.StatusClosed

	repo.EXPECT().
		ListDeals(gomock.Any(), deal.ListFilter{Owner: &sess.UserID, Status: &status}).
		Return([]*deal.Deal{{ID: uuid.New()}}, nil)

	got, err := svc.List(context.Background(), sess, deal.ListFilter{Status: &status})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_Delete_AdminUnscoped(t *testing.T) {
	svc, repo, _ := setup(t)

	id := uuid.New()
	admin := session.Session{UserID: uuid.New(), Role: session.RoleAdmin}

	repo.EXPECT().DeleteDeal(gomock.Any(), id, (*uuid.UUID)(nil)).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), admin, id))
}

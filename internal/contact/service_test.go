package contact_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
	"github.com/MrJamesThe3rd/dealdesk/internal/validation"
)

func agentSession() session.Session {
	return session.Session{UserID: uuid.New(), Email: "agent@example.com", Role: session.RoleAgent}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    contact.CreateParams
		setupMock func(m *contact.MockRepository)
		check     func(t *testing.T, c *contact.Contact)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Buyer",
			params: contact.CreateParams{
				FirstName:      "Ana",
				LastName:       "Silva",
				Email:          "ana@example.com",
				Role:           contact.RoleBuyer,
				BuyerType:      contact.BuyerFirstTime,
				ActivelyBuying: true,
			},
			setupMock: func(m *contact.MockRepository) {
				m.EXPECT().
					CreateContact(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *contact.Contact) error {
						c.ID = uuid.New()
						c.CreatedAt = time.Now()
						return nil
					})
			},
			check: func(t *testing.T, c *contact.Contact) {
				assert.Equal(t, "Ana Silva", c.Name())
				assert.Equal(t, contact.BuyerFirstTime, c.BuyerType)
				assert.True(t, c.ActivelyBuying)
				assert.False(t, c.ActivelySelling)
			},
		},
		{
			name: "SellerDropsBuyerAttributes",
			params: contact.CreateParams{
				FirstName:       "Rui",
				Role:            contact.RoleSeller,
				BuyerType:       contact.BuyerInvestor,
				ActivelyBuying:  true,
				ActivelySelling: true,
			},
			setupMock: func(m *contact.MockRepository) {
				m.EXPECT().CreateContact(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, c *contact.Contact) {
				assert.Empty(t, c.BuyerType)
				assert.False(t, c.ActivelyBuying)
				assert.True(t, c.ActivelySelling)
			},
		},
		{
			name:    "MissingRole",
			params:  contact.CreateParams{FirstName: "Ana"},
			wantErr: validation.ErrInvalid,
		},
		{
			name:    "BadEmail",
			params:  contact.CreateParams{FirstName: "Ana", Role: contact.RoleAgent, Email: "ana"},
			wantErr: validation.ErrInvalid,
		},
		{
			name:   "RepoError",
			params: contact.CreateParams{FirstName: "Ana", Role: contact.RoleLender},
			setupMock: func(m *contact.MockRepository) {
				m.EXPECT().CreateContact(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := contact.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			sess := agentSession()
			svc := contact.NewService(repo)
			got, err := svc.Create(context.Background(), sess, tt.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				if errors.Is(tt.wantErr, validation.ErrInvalid) {
					assert.ErrorIs(t, err, validation.ErrInvalid)
				}

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

func TestService_List_ScopesByOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := contact.NewMockRepository(ctrl)
	svc := contact.NewService(repo)

	sess := agentSession()
	role := contact.RoleSeller

	repo.EXPECT().
		ListContacts(gomock.Any(), contact.ListFilter{Owner: &sess.UserID, Role: &role}).
		Return([]*contact.Contact{{ID: uuid.New()}}, nil)

	got, err := svc.List(context.Background(), sess, contact.ListFilter{Role: &role})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_List_AdminSeesAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := contact.NewMockRepository(ctrl)
	svc := contact.NewService(repo)

	admin := session.Session{UserID: uuid.New(), Role: session.RoleAdmin}

	repo.EXPECT().ListContacts(gomock.Any(), contact.ListFilter{}).Return(nil, nil)

	_, err := svc.List(context.Background(), admin, contact.ListFilter{})
	require.NoError(t, err)
}

func TestService_CreateBatch_StopsAtFirstFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := contact.NewMockRepository(ctrl)
	svc := contact.NewService(repo)

	repo.EXPECT().CreateContact(gomock.Any(), gomock.Any()).Return(nil)

	created, err := svc.CreateBatch(context.Background(), agentSession(), []contact.CreateParams{
		{FirstName: "Ana", Role: contact.RoleBuyer},
		{FirstName: "", Role: contact.RoleBuyer},
		{FirstName: "Rui", Role: contact.RoleSeller},
	})
	require.ErrorIs(t, err, validation.ErrInvalid)
	assert.Contains(t, err.Error(), "contact 2")
	assert.Len(t, created, 1)
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := contact.NewMockRepository(ctrl)
	svc := contact.NewService(repo)

	sess := agentSession()
	id := uuid.New()
	existing := &contact.Contact{ID: id, OwnerID: sess.UserID, FirstName: "Old", Role: contact.RoleSeller}

	repo.EXPECT().GetContact(gomock.Any(), id, &sess.UserID).Return(existing, nil)
	repo.EXPECT().UpdateContact(gomock.Any(), existing, &sess.UserID).Return(nil)

	got, err := svc.Update(context.Background(), sess, id, contact.CreateParams{
		FirstName:       "New",
		Role:            contact.RoleSeller,
		ActivelySelling: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "New", got.FirstName)
	assert.True(t, got.ActivelySelling)
}

func TestService_Lookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := contact.NewMockRepository(ctrl)
	svc := contact.NewService(repo)

	sess := agentSession()
	id := uuid.New()

	repo.EXPECT().
		GetContact(gomock.Any(), id, &sess.UserID).
		Return(&contact.Contact{ID: id, FirstName: "Ana", LastName: "Silva", Role: contact.RoleBuyer}, nil)

	role, name, err := svc.Lookup(context.Background(), sess, id)
	require.NoError(t, err)
	assert.Equal(t, contact.RoleBuyer, role)
	assert.Equal(t, "Ana Silva", name)

	repo.EXPECT().GetContact(gomock.Any(), id, &sess.UserID).Return(nil, contact.ErrNotFound)

	_, _, err = svc.Lookup(context.Background(), sess, id)
	assert.ErrorIs(t, err, contact.ErrNotFound)
}

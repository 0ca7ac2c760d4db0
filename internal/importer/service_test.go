package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/importer"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

const csv = `First Name,Last Name,E-mail Address
Ana,Silva,ana@example.com
Rui,Costa,rui@example.com
`

func TestService_Import(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(m *importer.MockContactCreator)
		wantCreated int
		wantErr     bool
	}{
		{
			name: "AllCreated",
			setupMock: func(m *importer.MockContactCreator) {
				m.EXPECT().
					CreateBatch(gomock.Any(), gomock.Any(), gomock.Len(2)).
					DoAndReturn(func(_ context.Context, _ session.Session, params []contact.CreateParams) ([]*contact.Contact, error) {
						out := make([]*contact.Contact, len(params))
						for i, p := range params {
							out[i] = &contact.Contact{ID: uuid.New(), FirstName: p.FirstName, Role: p.Role}
						}

						return out, nil
					})
			},
			wantCreated: 2,
		},
		{
			name: "StopsEarly",
			setupMock: func(m *importer.MockContactCreator) {
				m.EXPECT().
					CreateBatch(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]*contact.Contact{{ID: uuid.New()}}, errors.New("contact 2: db error"))
			},
			wantCreated: 1,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			creator := importer.NewMockContactCreator(ctrl)
			tt.setupMock(creator)

			sess := session.Session{UserID: uuid.New(), Role: session.RoleAgent}
			res, err := importer.NewService(creator).Import(context.Background(), sess, strings.NewReader(csv), contact.RoleBuyer)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			require.NotNil(t, res)
			assert.Equal(t, 2, res.Parsed)
			assert.Len(t, res.Created, tt.wantCreated)
		})
	}
}

func TestService_Import_BadFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	creator := importer.NewMockContactCreator(ctrl)

	_, err := importer.NewService(creator).Import(context.Background(), session.Session{UserID: uuid.New()}, strings.NewReader("nope"), contact.RoleBuyer)
	assert.Error(t, err)
}

package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dealdesk/internal/validation"
)

type params struct {
	Name  string `validate:"required"`
	Email string `validate:"omitempty,email"`
	Kind  string `validate:"required,oneof=a b"`
	Beds  int    `validate:"gte=0"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      params
		wantErr []string
	}{
		{
			name: "Valid",
			in:   params{Name: "Ann", Kind: "a"},
		},
		{
			name:    "MissingRequired",
			in:      params{Kind: "b"},
			wantErr: []string{"Name is required"},
		},
		{
			name:    "SeveralFailures",
			in:      params{Name: "Ann", Email: "nope", Kind: "c", Beds: -1},
			wantErr: []string{"Email must be a valid email", "Kind must be one of [a b]", "Beds must be at least 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Struct(tt.in)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, validation.ErrInvalid)

			for _, msg := range tt.wantErr {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

package render_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dealdesk/internal/auth"
	"github.com/MrJamesThe3rd/dealdesk/internal/cdn"
	"github.com/MrJamesThe3rd/dealdesk/internal/deal"
	"github.com/MrJamesThe3rd/dealdesk/internal/export"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/render"
	"github.com/MrJamesThe3rd/dealdesk/internal/task"
)

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{name: "NotFound", err: fmt.Errorf("getting task: %w", task.ErrNotFound), wantCode: http.StatusNotFound},
		{name: "Validation", err: deal.ErrAddressRequired, wantCode: http.StatusBadRequest},
		{name: "TooLarge", err: cdn.ErrTooLarge, wantCode: http.StatusRequestEntityTooLarge},
		{name: "UploadRejected", err: fmt.Errorf("uploading a.txt: %w", fmt.Errorf("%w: cdn returned status 503", cdn.ErrUploadRejected)), wantCode: http.StatusBadGateway},
		{name: "DownloadFailed", err: fmt.Errorf("downloading document: %w", export.ErrDownloadFailed), wantCode: http.StatusBadGateway},
		{name: "EmailTaken", err: auth.ErrEmailTaken, wantCode: http.StatusConflict},
		{name: "BadCredentials", err: auth.ErrInvalidCredentials, wantCode: http.StatusUnauthorized},
		{name: "SaveFailed", err: fmt.Errorf("%w: %w", deal.ErrSaveFailed, errors.New("conn reset")), wantCode: http.StatusInternalServerError, wantMsg: "save failed"},
		{name: "Unexpected", err: errors.New("pq: relation missing"), wantCode: http.StatusInternalServerError, wantMsg: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			render.Error(rec, httptest.NewRequest(http.MethodGet, "/x", nil), tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body.Error)
			} else {
				assert.NotEmpty(t, body.Error)
			}
		})
	}
}

package task_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	taskhttp "github.com/MrJamesThe3rd/dealdesk/internal/http/task"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
	"github.com/MrJamesThe3rd/dealdesk/internal/task"
)

func newRouter(t *testing.T) (http.Handler, *task.MockRepository, session.Session) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := task.NewMockRepository(ctrl)
	sess := session.Session{UserID: uuid.New(), Role: session.RoleAgent}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(session.WithSession(req.Context(), sess)))
		})
	})
	r.Route("/tasks", taskhttp.NewHandler(task.NewService(repo)).Routes)

	return r, repo, sess
}

func TestHandler_Create(t *testing.T) {
	router, repo, _ := newRouter(t)

	repo.EXPECT().CreateTask(gomock.Any(), gomock.Any()).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tasks/", strings.NewReader(`{"title":"Call lender"}`)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "pending", got["status"])
	assert.Equal(t, "medium", got["priority"])
	assert.Equal(t, "other", got["type"])
}

func TestHandler_Create_MissingTitle(t *testing.T) {
	router, _, _ := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tasks/", strings.NewReader(`{"priority":"high"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Complete(t *testing.T) {
	router, repo, sess := newRouter(t)
	id := uuid.New()

	repo.EXPECT().GetTask(gomock.Any(), id, &sess.UserID).Return(&task.Task{ID: id, Status: task.StatusPending}, nil)
	repo.EXPECT().SetStatus(gomock.Any(), id, &sess.UserID, task.StatusCompleted, gomock.Not(gomock.Nil())).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tasks/"+id.String()+"/complete", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"completed"`)
	assert.Contains(t, rec.Body.String(), `"completed_at"`)
}

func TestHandler_Reopen_NotFound(t *testing.T) {
	router, repo, _ := newRouter(t)

	repo.EXPECT().GetTask(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, task.ErrNotFound)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tasks/"+uuid.NewString()+"/reopen", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_List(t *testing.T) {
	router, repo, sess := newRouter(t)
	dealID := uuid.New()

	repo.EXPECT().
		ListTasks(gomock.Any(), task.ListFilter{Owner: &sess.UserID, DealID: &dealID}).
		Return([]*task.Task{{ID: uuid.New(), Title: "Order appraisal"}}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/?deal_id="+dealID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Order appraisal")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/?contact_id=nope", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Overdue(t *testing.T) {
	router, repo, _ := newRouter(t)

	past := time.Now().Add(-48 * time.Hour)
	future := time.Now().Add(48 * time.Hour)

	repo.EXPECT().ListTasks(gomock.Any(), gomock.Any()).Return([]*task.Task{
		{ID: uuid.New(), Title: "Late", Status: task.StatusPending, DueDate: &past},
		{ID: uuid.New(), Title: "Upcoming", Status: task.StatusPending, DueDate: &future},
	}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/overdue", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "Late", got[0]["title"])
	assert.Equal(t, true, got[0]["overdue"])
}

package task_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/dealdesk/internal/session"
	"github.com/MrJamesThe3rd/dealdesk/internal/task"
	"github.com/MrJamesThe3rd/dealdesk/internal/validation"
)

func agentSession() session.Session {
	return session.Session{UserID: uuid.New(), Role: session.RoleAgent}
}

func TestService_Create(t *testing.T) {
	contactID := uuid.New()

	tests := []struct {
		name    string
		params  task.SaveParams
		check   func(t *testing.T, got *task.Task)
		wantErr error
	}{
		{
			name:   "Defaults",
			params: task.SaveParams{Title: "Call lender"},
			check: func(t *testing.T, got *task.Task) {
				assert.Equal(t, task.TypeOther, got.Type)
				assert.Equal(t, task.PriorityMedium, got.Priority)
				assert.Equal(t, task.StatusPending, got.Status)
				assert.Equal(t, task.AssignUser, got.Assignee.Kind)
			},
		},
		{
			name:   "AssignedToContact",
			params: task.SaveParams{Title: "Send disclosures", Type: task.TypePaperwork, Priority: task.PriorityUrgent, AssigneeContactID: &contactID},
			check: func(t *testing.T, got *task.Task) {
				assert.Equal(t, task.AssignContact, got.Assignee.Kind)
				assert.Equal(t, contactID, *got.Assignee.ContactID)
			},
		},
		{name: "MissingTitle", params: task.SaveParams{}, wantErr: validation.ErrInvalid},
		{name: "BadPriority", params: task.SaveParams{Title: "x", Priority: "asap"}, wantErr: validation.ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := task.NewMockRepository(ctrl)

			if tt.wantErr == nil {
				repo.EXPECT().CreateTask(gomock.Any(), gomock.Any()).Return(nil)
			}

			got, err := task.NewService(repo).Create(context.Background(), agentSession(), tt.params)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestService_CompleteAndReopen(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := task.NewMockRepository(ctrl)
	svc := task.NewService(repo)

	sess := agentSession()
	id := uuid.New()

	repo.EXPECT().GetTask(gomock.Any(), id, &sess.UserID).Return(&task.Task{ID: id, Status: task.StatusPending}, nil)
	repo.EXPECT().
		SetStatus(gomock.Any(), id, &sess.UserID, task.StatusCompleted, gomock.Not(gomock.Nil())).
		Return(nil)

	done, err := svc.Complete(context.Background(), sess, id)
	require.NoError(t, err)
	assert.True(t, done.IsCompleted())
	require.NotNil(t, done.CompletedAt)

	repo.EXPECT().GetTask(gomock.Any(), id, &sess.UserID).Return(done, nil)
	repo.EXPECT().SetStatus(gomock.Any(), id, &sess.UserID, task.StatusPending, (*time.Time)(nil)).Return(nil)

	reopened, err := svc.Reopen(context.Background(), sess, id)
	require.NoError(t, err)
	assert.Equal(t, task.StatusPending, reopened.Status)
	assert.Nil(t, reopened.CompletedAt)
}

func TestService_Complete_AlreadyCompletedIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := task.NewMockRepository(ctrl)

	id := uuid.New()
	repo.EXPECT().GetTask(gomock.Any(), id, gomock.Any()).Return(&task.Task{ID: id, Status: task.StatusCompleted}, nil)

	got, err := task.NewService(repo).Complete(context.Background(), agentSession(), id)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted())
}

func TestService_Overdue(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := task.NewMockRepository(ctrl)

	sess := agentSession()
	pending := task.StatusPending
	now := time.Now()

	late := &task.Task{Title: "late", Status: task.StatusPending, DueDate: new(now.AddDate(0, 0, -2))}
	later := &task.Task{Title: "later", Status: task.StatusPending, DueDate: new(now.AddDate(0, 0, -1))}
	upcoming := &task.Task{Title: "upcoming", Status: task.StatusPending, DueDate: new(now.AddDate(0, 0, 3))}
	undated := &task.Task{Title: "undated", Status: task.StatusPending}

	repo.EXPECT().
		ListTasks(gomock.Any(), task.ListFilter{Owner: &sess.UserID, Status: &pending}).
		Return([]*task.Task{upcoming, later, undated, late}, nil)

	got, err := task.NewService(repo).Overdue(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, []*task.Task{late, later}, got)
}

func TestSortByDue(t *testing.T) {
	day := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	a := &task.Task{Title: "a", DueDate: &day, Priority: task.PriorityLow}
	b := &task.Task{Title: "b", DueDate: &day, Priority: task.PriorityUrgent}
	c := &task.Task{Title: "c", Priority: task.PriorityUrgent}
	d := &task.Task{Title: "d", DueDate: new(day.AddDate(0, 0, -1)), Priority: task.PriorityLow}

	tasks := []*task.Task{c, a, b, d}
	task.SortByDue(tasks)

	assert.Equal(t, []*task.Task{d, b, a, c}, tasks)
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, (&task.Task{Status: task.StatusPending, DueDate: new(now.Add(-time.Hour))}).IsOverdue(now))
	assert.False(t, (&task.Task{Status: task.StatusCompleted, DueDate: new(now.Add(-time.Hour))}).IsOverdue(now))
	assert.False(t, (&task.Task{Status: task.StatusPending}).IsOverdue(now))
}

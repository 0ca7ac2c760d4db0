package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/session"
	"github.com/MrJamesThe3rd/dealdesk/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=task
type Repository interface {
	CreateTask(ctx context.Context, t *Task) error
	GetTask(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*Task, error)
	UpdateTask(ctx context.Context, t *Task, owner *uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, owner *uuid.UUID, status Status, completedAt *time.Time) error
	ListTasks(ctx context.Context, filter ListFilter) ([]*Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID, owner *uuid.UUID) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type SaveParams struct {
	Title       string     `validate:"required"`
	Description string
	Type        Type       `validate:"omitempty,oneof=call email meeting showing follow-up paperwork other"`
	Priority    Priority   `validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time
	DealID      *uuid.UUID
	ContactID   *uuid.UUID
	PropertyID  *uuid.UUID
	// AssigneeContactID assigns the task to a contact instead of the owning user.
	AssigneeContactID *uuid.UUID
}

type ListFilter struct {
	Owner      *uuid.UUID
	Status     *Status
	DealID     *uuid.UUID
	ContactID  *uuid.UUID
	PropertyID *uuid.UUID
}

func (p SaveParams) apply(t *Task) {
	t.Title = p.Title
	t.Description = p.Description
	t.Type = p.Type
	t.Priority = p.Priority
	t.DueDate = p.DueDate
	t.DealID = p.DealID
	t.ContactID = p.ContactID
	t.PropertyID = p.PropertyID

	if t.Type == "" {
		t.Type = TypeOther
	}

	if t.Priority == "" {
		t.Priority = PriorityMedium
	}

	t.Assignee = Assignee{Kind: AssignUser}
	if p.AssigneeContactID != nil {
		t.Assignee = Assignee{Kind: AssignContact, ContactID: p.AssigneeContactID}
	}
}

func (s *Service) Create(ctx context.Context, sess session.Session, params SaveParams) (*Task, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	t := &Task{OwnerID: sess.UserID, Status: StatusPending}
	params.apply(t)

	if err := s.repo.CreateTask(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// Update re-submits the task details. Completion state is kept.
func (s *Service) Update(ctx context.Context, sess session.Session, id uuid.UUID, params SaveParams) (*Task, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	t, err := s.repo.GetTask(ctx, id, sess.OwnerScope())
	if err != nil {
		return nil, err
	}

	params.apply(t)

	if err := s.repo.UpdateTask(ctx, t, sess.OwnerScope()); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) Get(ctx context.Context, sess session.Session, id uuid.UUID) (*Task, error) {
	return s.repo.GetTask(ctx, id, sess.OwnerScope())
}

// List returns matching tasks ordered by due date.
func (s *Service) List(ctx context.Context, sess session.Session, filter ListFilter) ([]*Task, error) {
	filter.Owner = sess.OwnerScope()

	tasks, err := s.repo.ListTasks(ctx, filter)
	if err != nil {
		return nil, err
	}

	SortByDue(tasks)

	return tasks, nil
}

func (s *Service) Delete(ctx context.Context, sess session.Session, id uuid.UUID) error {
	return s.repo.DeleteTask(ctx, id, sess.OwnerScope())
}

func (s *Service) Complete(ctx context.Context, sess session.Session, id uuid.UUID) (*Task, error) {
	return s.setStatus(ctx, sess, id, StatusCompleted)
}

func (s *Service) Reopen(ctx context.Context, sess session.Session, id uuid.UUID) (*Task, error) {
	return s.setStatus(ctx, sess, id, StatusPending)
}

func (s *Service) setStatus(ctx context.Context, sess session.Session, id uuid.UUID, status Status) (*Task, error) {
	t, err := s.repo.GetTask(ctx, id, sess.OwnerScope())
	if err != nil {
		return nil, err
	}

	if t.Status == status {
		return t, nil
	}

	var completedAt *time.Time
	if status == StatusCompleted {
		completedAt = new(s.now())
	}

	if err := s.repo.SetStatus(ctx, id, sess.OwnerScope(), status, completedAt); err != nil {
		return nil, fmt.Errorf("setting task %s %s: %w", id, status, err)
	}

	t.Status = status
	t.CompletedAt = completedAt

	return t, nil
}

// Overdue lists the session's pending tasks whose due date has passed.
func (s *Service) Overdue(ctx context.Context, sess session.Session) ([]*Task, error) {
	pending := StatusPending

	tasks, err := s.List(ctx, sess, ListFilter{Status: &pending})
	if err != nil {
		return nil, err
	}

	now := s.now()
	overdue := make([]*Task, 0, len(tasks))

	for _, t := range tasks {
		if t.IsOverdue(now) {
			overdue = append(overdue, t)
		}
	}

	return overdue, nil
}

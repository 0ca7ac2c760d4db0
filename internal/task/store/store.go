package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/docstore"
	"github.com/MrJamesThe3rd/dealdesk/internal/task"
)

type Store struct {
	docs *docstore.Store
}

func New(docs *docstore.Store) *Store {
	return &Store{docs: docs}
}

type taskDoc struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Type        string        `json:"type"`
	Priority    string        `json:"priority"`
	Status      string        `json:"status"`
	DueDate     *time.Time    `json:"due_date"`
	DealID      *uuid.UUID    `json:"deal_id"`
	ContactID   *uuid.UUID    `json:"contact_id"`
	PropertyID  *uuid.UUID    `json:"property_id"`
	Assignee    task.Assignee `json:"assignee"`
	CompletedAt *time.Time    `json:"completed_at"`
}

func toDoc(t *task.Task) taskDoc {
	return taskDoc{
		Title:       t.Title,
		Description: t.Description,
		Type:        string(t.Type),
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		DealID:      t.DealID,
		ContactID:   t.ContactID,
		PropertyID:  t.PropertyID,
		Assignee:    t.Assignee,
		CompletedAt: t.CompletedAt,
	}
}

func fromRecord(r docstore.Record) (*task.Task, error) {
	var doc taskDoc
	if err := r.Decode(&doc); err != nil {
		return nil, err
	}

	status := task.Status(doc.Status)
	if status != task.StatusCompleted {
		status = task.StatusPending
	}

	assignee := doc.Assignee
	if assignee.Kind == "" {
		assignee.Kind = task.AssignUser
	}

	return &task.Task{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Title:       doc.Title,
		Description: doc.Description,
		Type:        task.Type(doc.Type),
		Priority:    task.Priority(doc.Priority),
		Status:      status,
		DueDate:     doc.DueDate,
		DealID:      doc.DealID,
		ContactID:   doc.ContactID,
		PropertyID:  doc.PropertyID,
		Assignee:    assignee,
		CompletedAt: doc.CompletedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

func notFound(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return task.ErrNotFound
	}

	return err
}

func (s *Store) CreateTask(ctx context.Context, t *task.Task) error {
	r, err := s.docs.Create(ctx, docstore.Tasks, t.OwnerID, toDoc(t))
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}

	t.ID = r.ID
	t.CreatedAt = r.CreatedAt

	return nil
}

func (s *Store) GetTask(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*task.Task, error) {
	r, err := s.docs.Get(ctx, docstore.Tasks, id, owner)
	if err != nil {
		return nil, notFound(err)
	}

	return fromRecord(r)
}

func (s *Store) UpdateTask(ctx context.Context, t *task.Task, owner *uuid.UUID) error {
	updatedAt, err := s.docs.Update(ctx, docstore.Tasks, t.ID, owner, toDoc(t))
	if err != nil {
		return notFound(err)
	}

	t.UpdatedAt = &updatedAt

	return nil
}

func (s *Store) SetStatus(ctx context.Context, id uuid.UUID, owner *uuid.UUID, status task.Status, completedAt *time.Time) error {
	patch := map[string]any{"status": string(status), "completed_at": completedAt}

	if _, err := s.docs.Update(ctx, docstore.Tasks, id, owner, patch); err != nil {
		return notFound(err)
	}

	return nil
}

func (s *Store) ListTasks(ctx context.Context, filter task.ListFilter) ([]*task.Task, error) {
	q := docstore.Query{Owner: filter.Owner, Filters: map[string]any{}}

	if filter.Status != nil {
		q.Filters["status"] = string(*filter.Status)
	}

	for key, id := range map[string]*uuid.UUID{
		"deal_id":     filter.DealID,
		"contact_id":  filter.ContactID,
		"property_id": filter.PropertyID,
	} {
		if id != nil {
			q.Filters[key] = id.String()
		}
	}

	records, err := s.docs.Query(ctx, docstore.Tasks, q)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	tasks := make([]*task.Task, 0, len(records))

	for _, r := range records {
		t, err := fromRecord(r)
		if err != nil {
			return nil, err
		}

		tasks = append(tasks, t)
	}

	return tasks, nil
}

func (s *Store) DeleteTask(ctx context.Context, id uuid.UUID, owner *uuid.UUID) error {
	return notFound(s.docs.Delete(ctx, docstore.Tasks, id, owner))
}

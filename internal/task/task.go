package task

import (
	"cmp"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("task not found")

type Type string

const (
	TypeCall      Type = "call"
	TypeEmail     Type = "email"
	TypeMeeting   Type = "meeting"
	TypeShowing   Type = "showing"
	TypeFollowUp  Type = "follow-up"
	TypePaperwork Type = "paperwork"
	TypeOther     Type = "other"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var priorityRank = map[Priority]int{
	PriorityUrgent: 0,
	PriorityHigh:   1,
	PriorityMedium: 2,
	PriorityLow:    3,
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

type AssigneeKind string

const (
	AssignUser    AssigneeKind = "user"
	AssignContact AssigneeKind = "contact"
)

// Assignee is either the owning user or a contact.
type Assignee struct {
	Kind      AssigneeKind `json:"kind"`
	ContactID *uuid.UUID   `json:"contact_id,omitempty"`
}

type Task struct {
	ID      uuid.UUID
	OwnerID uuid.UUID

	Title       string
	Description string
	Type        Type
	Priority    Priority
	Status      Status
	DueDate     *time.Time

	DealID     *uuid.UUID
	ContactID  *uuid.UUID
	PropertyID *uuid.UUID

	Assignee    Assignee
	CompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt *time.Time
}

func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// IsOverdue reports whether a pending task's due date has passed.
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.IsCompleted() && t.DueDate != nil && t.DueDate.Before(now)
}

// SortByDue orders tasks by due date, undated last, then by priority.
func SortByDue(tasks []*Task) {
	slices.SortStableFunc(tasks, func(a, b *Task) int {
		switch {
		case a.DueDate == nil && b.DueDate != nil:
			return 1
		case a.DueDate != nil && b.DueDate == nil:
			return -1
		case a.DueDate != nil && b.DueDate != nil:
			if c := a.DueDate.Compare(*b.DueDate); c != 0 {
				return c
			}
		}

		return cmp.Compare(priorityRank[a.Priority], priorityRank[b.Priority])
	})
}

package deal

import (
	"strings"
)

// Status is a deal's pipeline stage.
type Status string

const (
	StatusLead              Status = "lead"
	StatusQualified         Status = "qualified"
	StatusActiveSearch      Status = "active-search"
	StatusOfferSubmitted    Status = "offer-submitted"
	StatusUnderContract     Status = "under-contract"
	StatusPendingInspection Status = "pending-inspection"
	StatusPendingFinancing  Status = "pending-financing"
	StatusPendingTitle      Status = "pending-title"
	StatusClearToClose      Status = "clear-to-close"
	StatusClosed            Status = "closed"
	StatusDead              Status = "dead"
)

// Pipeline lists the ordered stages. Dead deals sit outside it.
var Pipeline = []Status{
	StatusLead,
	StatusQualified,
	StatusActiveSearch,
	StatusOfferSubmitted,
	StatusUnderContract,
	StatusPendingInspection,
	StatusPendingFinancing,
	StatusPendingTitle,
	StatusClearToClose,
	StatusClosed,
}

// Statuses lists every status, pipeline order first.
var Statuses = append(append([]Status{}, Pipeline...), StatusDead)

var labels = map[Status]string{
	StatusLead:              "Lead",
	StatusQualified:         "Qualified",
	StatusActiveSearch:      "Active Search",
	StatusOfferSubmitted:    "Offer Submitted",
	StatusUnderContract:     "Under Contract",
	StatusPendingInspection: "Pending Inspection",
	StatusPendingFinancing:  "Pending Financing",
	StatusPendingTitle:      "Pending Title",
	StatusClearToClose:      "Clear to Close",
	StatusClosed:            "Closed",
	StatusDead:              "Dead",
}

func (s Status) Valid() bool {
	_, ok := labels[s]
	return ok
}

// Label is the human-readable stage name.
func (s Status) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}

	return labels[StatusLead]
}

// ParseStatus normalizes a stored or submitted status.
// Missing and unknown values fall back to StatusLead.
func ParseStatus(s string) Status {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return StatusLead
	}

	return st
}

// StageIndex is the position of s in Pipeline. Dead and unknown statuses map to 0.
func StageIndex(s Status) int {
	for i, p := range Pipeline {
		if p == s {
			return i
		}
	}

	return 0
}

// Progress is StageIndex scaled to [0, 1]. It drives the progress bar only
// and never gates a transition.
func Progress(s Status) float64 {
	return float64(StageIndex(s)) / float64(len(Pipeline)-1)
}

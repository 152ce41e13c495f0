package payout

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// PendingEarning is an approved, not-yet-paid submission eligible for payout
type PendingEarning struct {
	SubmissionID  uuid.UUID `json:"submission_id"`
	CampaignID    uuid.UUID `json:"campaign_id"`
	CampaignTitle string    `json:"campaign_title"`
	ViewCount     int64     `json:"view_count"`
	AmountCents   int64     `json:"amount_cents"`
	ApprovedAt    time.Time `json:"approved_at"`
}

// Selection tracks which pending earnings a creator has picked for a payout
// request. The zero value is an empty selection.
type Selection struct {
	ids map[uuid.UUID]bool
}

// NewSelection creates an empty selection
func NewSelection() *Selection {
	return &Selection{ids: make(map[uuid.UUID]bool)}
}

// Toggle flips membership of the given submission. Toggling twice restores
// the previous state.
func (s *Selection) Toggle(id uuid.UUID) {
	if s.ids == nil {
		s.ids = make(map[uuid.UUID]bool)
	}
	if s.ids[id] {
		delete(s.ids, id)
	} else {
		s.ids[id] = true
	}
}

// SelectAll replaces the selection with every eligible earning
func (s *Selection) SelectAll(eligible []PendingEarning) {
	s.ids = make(map[uuid.UUID]bool, len(eligible))
	for _, e := range eligible {
		s.ids[e.SubmissionID] = true
	}
}

// Clear empties the selection
func (s *Selection) Clear() {
	s.ids = make(map[uuid.UUID]bool)
}

// Reconcile drops selected IDs that are no longer in the eligible set. Called
// after the eligible list is refreshed so a selection never references an
// earning that was paid out or revoked in the meantime.
func (s *Selection) Reconcile(eligible []PendingEarning) {
	if len(s.ids) == 0 {
		return
	}
	keep := make(map[uuid.UUID]bool, len(eligible))
	for _, e := range eligible {
		keep[e.SubmissionID] = true
	}
	for id := range s.ids {
		if !keep[id] {
			delete(s.ids, id)
		}
	}
}

// IsSelected reports whether the given submission is selected
func (s *Selection) IsSelected(id uuid.UUID) bool {
	return s.ids[id]
}

// Count returns the number of selected submissions
func (s *Selection) Count() int {
	return len(s.ids)
}

// TotalCents sums the amounts of selected earnings. Selected IDs absent from
// the eligible list contribute nothing.
func (s *Selection) TotalCents(eligible []PendingEarning) int64 {
	var total int64
	for _, e := range eligible {
		if s.ids[e.SubmissionID] {
			total += e.AmountCents
		}
	}
	return total
}

// IDs returns the selected submission IDs in deterministic order
func (s *Selection) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}

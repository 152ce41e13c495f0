package payout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func genEarnings(rt *rapid.T) []PendingEarning {
	n := rapid.IntRange(0, 20).Draw(rt, "n")
	earnings := make([]PendingEarning, n)
	for i := range earnings {
		earnings[i] = PendingEarning{
			SubmissionID: uuid.New(),
			AmountCents:  rapid.Int64Range(1, 100000).Draw(rt, "amount"),
		}
	}
	return earnings
}

// TestProperty_Selection_ToggleInvolutive tests that toggling the same
// submission twice restores the selection
func TestProperty_Selection_ToggleInvolutive(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		earnings := genEarnings(rt)
		sel := NewSelection()
		for _, e := range earnings {
			if rapid.Bool().Draw(rt, "preselect") {
				sel.Toggle(e.SubmissionID)
			}
		}

		id := uuid.New()
		if len(earnings) > 0 {
			id = earnings[rapid.IntRange(0, len(earnings)-1).Draw(rt, "idx")].SubmissionID
		}

		before := sel.IsSelected(id)
		total := sel.TotalCents(earnings)

		sel.Toggle(id)
		sel.Toggle(id)

		if sel.IsSelected(id) != before {
			t.Fatalf("PROPERTY VIOLATION: double toggle changed membership of %s", id)
		}
		if sel.TotalCents(earnings) != total {
			t.Fatalf("PROPERTY VIOLATION: double toggle changed total")
		}
	})
}

// TestProperty_Selection_TotalExact tests that the total is exactly the sum
// of the selected amounts
func TestProperty_Selection_TotalExact(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		earnings := genEarnings(rt)
		sel := NewSelection()

		var want int64
		for _, e := range earnings {
			if rapid.Bool().Draw(rt, "pick") {
				sel.Toggle(e.SubmissionID)
				want += e.AmountCents
			}
		}

		if got := sel.TotalCents(earnings); got != want {
			t.Fatalf("PROPERTY VIOLATION: total %d, want %d", got, want)
		}
	})
}

// TestProperty_Selection_Reconcile tests that reconciling against a new
// eligible set keeps exactly the intersection
func TestProperty_Selection_Reconcile(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		earnings := genEarnings(rt)
		sel := NewSelection()
		sel.SelectAll(earnings)

		// Simulate some earnings becoming ineligible (paid out elsewhere)
		var remaining []PendingEarning
		for _, e := range earnings {
			if rapid.Bool().Draw(rt, "keep") {
				remaining = append(remaining, e)
			}
		}

		sel.Reconcile(remaining)

		if sel.Count() != len(remaining) {
			t.Fatalf("PROPERTY VIOLATION: %d selected after reconcile, want %d", sel.Count(), len(remaining))
		}
		for _, e := range remaining {
			if !sel.IsSelected(e.SubmissionID) {
				t.Fatalf("PROPERTY VIOLATION: still-eligible %s dropped by reconcile", e.SubmissionID)
			}
		}
	})
}

func TestSelectionSelectAllAndClear(t *testing.T) {
	earnings := []PendingEarning{
		{SubmissionID: uuid.New(), AmountCents: 1500},
		{SubmissionID: uuid.New(), AmountCents: 2500},
		{SubmissionID: uuid.New(), AmountCents: 1000},
	}

	sel := NewSelection()
	sel.SelectAll(earnings)
	assert.Equal(t, 3, sel.Count())
	assert.Equal(t, int64(5000), sel.TotalCents(earnings))

	sel.Clear()
	assert.Equal(t, 0, sel.Count())
	assert.Equal(t, int64(0), sel.TotalCents(earnings))
}

func TestSelectionZeroValue(t *testing.T) {
	var sel Selection
	id := uuid.New()

	assert.False(t, sel.IsSelected(id))
	sel.Toggle(id)
	assert.True(t, sel.IsSelected(id))
	assert.Equal(t, []uuid.UUID{id}, sel.IDs())
}

package submission

import (
	"testing"

	"github.com/google/uuid"
	"pgregory.net/rapid"

	"github.com/igotstrelkov/clippin/internal/models"
)

func genSubmission() *rapid.Generator[models.Submission] {
	return rapid.Custom(func(rt *rapid.T) models.Submission {
		return models.Submission{
			ID: uuid.New(),
			Status: rapid.SampledFrom([]models.SubmissionStatus{
				models.SubmissionStatusPending,
				models.SubmissionStatusApproved,
				models.SubmissionStatusRejected,
			}).Draw(rt, "status"),
		}
	})
}

// TestProperty_Partition_Exact tests that every submission lands in exactly
// one side and the counts add up
func TestProperty_Partition_Exact(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		submissions := rapid.SliceOfN(genSubmission(), 0, 30).Draw(rt, "submissions")

		p := Partition(submissions)

		if p.PendingCount+p.ReviewedCount != len(submissions) {
			t.Fatalf("PROPERTY VIOLATION: %d pending + %d reviewed != %d total",
				p.PendingCount, p.ReviewedCount, len(submissions))
		}

		seen := make(map[uuid.UUID]int)
		for _, s := range p.Pending {
			if s.Status != models.SubmissionStatusPending {
				t.Fatalf("PROPERTY VIOLATION: reviewed submission %s in pending side", s.ID)
			}
			seen[s.ID]++
		}
		for _, s := range p.Reviewed {
			if s.Status == models.SubmissionStatusPending {
				t.Fatalf("PROPERTY VIOLATION: pending submission %s in reviewed side", s.ID)
			}
			seen[s.ID]++
		}
		for id, n := range seen {
			if n != 1 {
				t.Fatalf("PROPERTY VIOLATION: submission %s appears %d times", id, n)
			}
		}
	})
}

// TestProperty_Partition_OrderPreserved tests that relative order survives
// within each side
func TestProperty_Partition_OrderPreserved(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		submissions := rapid.SliceOfN(genSubmission(), 0, 30).Draw(rt, "submissions")

		p := Partition(submissions)

		position := make(map[uuid.UUID]int, len(submissions))
		for i, s := range submissions {
			position[s.ID] = i
		}

		for _, side := range [][]models.Submission{p.Pending, p.Reviewed} {
			for i := 1; i < len(side); i++ {
				if position[side[i-1].ID] > position[side[i].ID] {
					t.Fatalf("PROPERTY VIOLATION: relative order broken between %s and %s",
						side[i-1].ID, side[i].ID)
				}
			}
		}
	})
}

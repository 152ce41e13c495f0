package submission

import (
	"github.com/igotstrelkov/clippin/internal/models"
)

// Partitioned holds a submission list split into review queues. Counts are
// carried alongside the slices for tab labels.
type Partitioned struct {
	Pending       []models.Submission `json:"pending"`
	Reviewed      []models.Submission `json:"reviewed"`
	PendingCount  int                 `json:"pending_count"`
	ReviewedCount int                 `json:"reviewed_count"`
}

// Partition splits submissions into pending and reviewed (approved or
// rejected), preserving the relative order within each side. Every element
// lands in exactly one partition.
func Partition(submissions []models.Submission) Partitioned {
	p := Partitioned{
		Pending:  make([]models.Submission, 0, len(submissions)),
		Reviewed: make([]models.Submission, 0, len(submissions)),
	}
	for _, s := range submissions {
		if s.Status == models.SubmissionStatusPending {
			p.Pending = append(p.Pending, s)
		} else {
			p.Reviewed = append(p.Reviewed, s)
		}
	}
	p.PendingCount = len(p.Pending)
	p.ReviewedCount = len(p.Reviewed)
	return p
}

package rubric

import "context"

type ListOpts struct {
	Q      string
	Limit  int
	Offset int
}

type AssessmentListOpts struct {
	RubricID   string
	AssessorID string
	Limit      int
	Offset     int
}

// Store persists rubric definitions, submitted assessments, and each
// assessor's saved-comment bank. Drafts never touch the store; they live
// in sessions (and optionally the draft cache) until submitted.
type Store interface {
	PutRubric(r Rubric) error
	GetRubric(id string) (Rubric, error)
	ListRubrics(ctx context.Context, opts ListOpts) ([]RubricSummary, error)

	SaveAssessment(a Assessment) error
	GetAssessment(id string) (Assessment, error)
	ListAssessments(ctx context.Context, opts AssessmentListOpts) ([]Assessment, error)

	SavedComments(assessorID, criterionID string) ([]string, error)
	AppendSavedComment(assessorID, criterionID, comment string) error
}

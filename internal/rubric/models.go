package rubric

import "github.com/go-playground/validator/v10"

// Rating is one named point threshold within a criterion.
type Rating struct {
	ID              string  `json:"id" validate:"required"`
	Description     string  `json:"description"`
	LongDescription string  `json:"long_description,omitempty"`
	Points          float64 `json:"points"`
}

// Criterion is one scored dimension of a rubric. Ratings are ordered
// descending by points; the order is meaningful for matching. A criterion
// is immutable once handed to a session.
type Criterion struct {
	ID          string   `json:"id" validate:"required"`
	Description string   `json:"description,omitempty"`
	Points      float64  `json:"points"`
	UseRange    bool     `json:"criterion_use_range"`
	Ratings     []Rating `json:"ratings" validate:"dive"`
}

type Rubric struct {
	ID                        string      `json:"id"`
	Title                     string      `json:"title" validate:"required"`
	FreeFormCriterionComments bool        `json:"free_form_criterion_comments"`
	Criteria                  []Criterion `json:"criteria" validate:"required,min=1,dive"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

var validate = validator.New()

func (r *Rubric) Validate() error {
	return validate.Struct(r)
}

// PointsPossible is the sum of criterion point totals.
func (r Rubric) PointsPossible() float64 {
	total := 0.0
	for _, c := range r.Criteria {
		total += c.Points
	}
	return total
}

// AssessmentEntry is the draft state for a single criterion. Points is
// nil until the assessor has scored the criterion. RatingID and
// Description stay empty on a resolution miss; that is a normal state,
// not an error.
type AssessmentEntry struct {
	CriterionID          string   `json:"criterion_id"`
	Points               *float64 `json:"points"`
	Comments             string   `json:"comments"`
	RatingID             string   `json:"rating_id"`
	Description          string   `json:"description"`
	CommentsEnabled      bool     `json:"comments_enabled"`
	SaveCommentsForLater bool     `json:"save_comments_for_later,omitempty"`
}

// Assessment is a submitted entry collection, as persisted by the store.
type Assessment struct {
	ID          string            `json:"id"`
	RubricID    string            `json:"rubric_id"`
	AssessorID  string            `json:"assessor_id"`
	Entries     []AssessmentEntry `json:"entries"`
	Score       float64           `json:"score"`
	SubmittedAt int64             `json:"submitted_at,omitempty"`
}

type RubricSummary struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	PointsPossible float64 `json:"points_possible"`
	CriterionCount int     `json:"criterion_count"`
	CreatedAt      int64   `json:"created_at,omitempty"`
}

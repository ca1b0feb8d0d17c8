package rubric

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutRubric(r Rubric) error {
	cj, err := json.Marshal(r.Criteria)
	if err != nil {
		return err
	}
	createdAt := r.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().Unix()
	}
	_, err = s.db.Exec(`INSERT INTO rubrics (id,title,free_form_comments,criteria_json,created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, free_form_comments=EXCLUDED.free_form_comments, criteria_json=EXCLUDED.criteria_json`,
		r.ID, r.Title, r.FreeFormCriterionComments, string(cj), createdAt)
	return err
}

func (s *SQLStore) GetRubric(id string) (Rubric, error) {
	row := s.db.QueryRow(`SELECT id,title,free_form_comments,criteria_json,created_at FROM rubrics WHERE id=$1`, id)
	var r Rubric
	var cjson string
	if err := row.Scan(&r.ID, &r.Title, &r.FreeFormCriterionComments, &cjson, &r.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Rubric{}, errors.New("rubric not found")
		}
		return Rubric{}, err
	}
	if err := json.Unmarshal([]byte(cjson), &r.Criteria); err != nil {
		return Rubric{}, err
	}
	return r, nil
}

func (s *SQLStore) ListRubrics(ctx context.Context, opts ListOpts) ([]RubricSummary, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT id,title,criteria_json,created_at FROM rubrics`
	args := []interface{}{}
	if opts.Q != "" {
		q += ` WHERE lower(title) LIKE '%' || lower($1) || '%'`
		args = append(args, opts.Q)
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC, id LIMIT %d OFFSET %d`, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RubricSummary{}
	for rows.Next() {
		var sum RubricSummary
		var cjson string
		if err := rows.Scan(&sum.ID, &sum.Title, &cjson, &sum.CreatedAt); err != nil {
			return nil, err
		}
		var criteria []Criterion
		if err := json.Unmarshal([]byte(cjson), &criteria); err != nil {
			return nil, err
		}
		sum.CriterionCount = len(criteria)
		for _, c := range criteria {
			sum.PointsPossible += c.Points
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLStore) SaveAssessment(a Assessment) error {
	// ensure rubric exists
	var exist int
	if err := s.db.QueryRow(`SELECT 1 FROM rubrics WHERE id=$1`, a.RubricID).Scan(&exist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errors.New("rubric not found")
		}
		return err
	}
	ej, err := json.Marshal(a.Entries)
	if err != nil {
		return err
	}
	submittedAt := a.SubmittedAt
	if submittedAt == 0 {
		submittedAt = time.Now().Unix()
	}
	_, err = s.db.Exec(`INSERT INTO assessments (id,rubric_id,assessor_id,entries_json,score,submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET entries_json=EXCLUDED.entries_json, score=EXCLUDED.score, submitted_at=EXCLUDED.submitted_at`,
		a.ID, a.RubricID, a.AssessorID, string(ej), a.Score, submittedAt)
	return err
}

func (s *SQLStore) GetAssessment(id string) (Assessment, error) {
	row := s.db.QueryRow(`SELECT id,rubric_id,assessor_id,entries_json,score,submitted_at FROM assessments WHERE id=$1`, id)
	return scanAssessment(row)
}

func (s *SQLStore) ListAssessments(ctx context.Context, opts AssessmentListOpts) ([]Assessment, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT id,rubric_id,assessor_id,entries_json,score,submitted_at FROM assessments WHERE 1=1`
	args := []interface{}{}
	if opts.RubricID != "" {
		args = append(args, opts.RubricID)
		q += fmt.Sprintf(` AND rubric_id=$%d`, len(args))
	}
	if opts.AssessorID != "" {
		args = append(args, opts.AssessorID)
		q += fmt.Sprintf(` AND assessor_id=$%d`, len(args))
	}
	q += fmt.Sprintf(` ORDER BY submitted_at DESC, id LIMIT %d OFFSET %d`, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Assessment{}
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) SavedComments(assessorID, criterionID string) ([]string, error) {
	rows, err := s.db.Query(`SELECT comment FROM saved_comments WHERE assessor_id=$1 AND criterion_id=$2 ORDER BY created_at, id`,
		assessorID, criterionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) AppendSavedComment(assessorID, criterionID, comment string) error {
	// dedup enforced by the unique bank index
	_, err := s.db.Exec(`INSERT INTO saved_comments (assessor_id,criterion_id,comment,created_at) VALUES ($1,$2,$3,$4)
		ON CONFLICT (assessor_id,criterion_id,comment) DO NOTHING`,
		assessorID, criterionID, comment, time.Now().Unix())
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAssessment(row rowScanner) (Assessment, error) {
	var a Assessment
	var ejson string
	var submittedAt sql.NullInt64
	if err := row.Scan(&a.ID, &a.RubricID, &a.AssessorID, &ejson, &a.Score, &submittedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assessment{}, errors.New("assessment not found")
		}
		return Assessment{}, err
	}
	a.SubmittedAt = submittedAt.Int64
	if err := json.Unmarshal([]byte(ejson), &a.Entries); err != nil {
		a.Entries = []AssessmentEntry{}
	}
	return a, nil
}

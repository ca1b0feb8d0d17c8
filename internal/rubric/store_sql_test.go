package rubric_test

import (
	"context"
	"testing"
	"time"

	"github.com/gradeflow/rubricd/internal/db"
	"github.com/gradeflow/rubricd/internal/rubric"
)

func newTestStore(t *testing.T) *rubric.SQLStore {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+t.Name()+".db?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	dbh.SetMaxOpenConns(1)
	t.Cleanup(func() { dbh.Close() })
	return rubric.NewSQLStore(dbh, "sqlite")
}

func seedRubric(t *testing.T, store *rubric.SQLStore) rubric.Rubric {
	t.Helper()
	rb := rubric.Rubric{
		ID:    "rub-1",
		Title: "Essay rubric",
		Criteria: []rubric.Criterion{
			{ID: "c1", Description: "Thesis", Points: 5, UseRange: true, Ratings: []rubric.Rating{
				{ID: "r1", Description: "Excellent", Points: 5},
				{ID: "r2", Description: "Good", Points: 3},
				{ID: "r3", Description: "Poor", Points: 0},
			}},
			{ID: "c2", Description: "Evidence", Points: 10},
		},
	}
	if err := store.PutRubric(rb); err != nil {
		t.Fatalf("put rubric: %v", err)
	}
	return rb
}

func TestSQLStoreRubricRoundTrip(t *testing.T) {
	store := newTestStore(t)
	rb := seedRubric(t, store)

	got, err := store.GetRubric(rb.ID)
	if err != nil {
		t.Fatalf("get rubric: %v", err)
	}
	if got.Title != rb.Title || len(got.Criteria) != 2 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.Criteria[0].UseRange || len(got.Criteria[0].Ratings) != 3 {
		t.Fatalf("criteria not preserved: %+v", got.Criteria[0])
	}

	// upsert keeps the id, replaces the definition
	rb.Title = "Essay rubric v2"
	if err := store.PutRubric(rb); err != nil {
		t.Fatalf("upsert rubric: %v", err)
	}
	got, err = store.GetRubric(rb.ID)
	if err != nil {
		t.Fatalf("get rubric after upsert: %v", err)
	}
	if got.Title != "Essay rubric v2" {
		t.Fatalf("upsert did not replace title: %q", got.Title)
	}

	if _, err := store.GetRubric("missing"); err == nil {
		t.Fatalf("expected error for missing rubric")
	}
}

func TestSQLStoreListRubrics(t *testing.T) {
	store := newTestStore(t)
	seedRubric(t, store)

	sums, err := store.ListRubrics(context.Background(), rubric.ListOpts{Q: "essay"})
	if err != nil {
		t.Fatalf("list rubrics: %v", err)
	}
	if len(sums) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(sums))
	}
	if sums[0].PointsPossible != 15 || sums[0].CriterionCount != 2 {
		t.Fatalf("summary mismatch: %+v", sums[0])
	}

	sums, err = store.ListRubrics(context.Background(), rubric.ListOpts{Q: "calculus"})
	if err != nil {
		t.Fatalf("list rubrics: %v", err)
	}
	if len(sums) != 0 {
		t.Fatalf("expected no summaries, got %d", len(sums))
	}
}

func TestSQLStoreAssessments(t *testing.T) {
	store := newTestStore(t)
	rb := seedRubric(t, store)

	points := 4.0
	a := rubric.Assessment{
		ID:         "as-1",
		RubricID:   rb.ID,
		AssessorID: "teacher-1",
		Entries: []rubric.AssessmentEntry{
			{CriterionID: "c1", Points: &points, Comments: "good", RatingID: "r1", Description: "Excellent", CommentsEnabled: true},
		},
		Score:       4,
		SubmittedAt: time.Now().Unix(),
	}
	if err := store.SaveAssessment(a); err != nil {
		t.Fatalf("save assessment: %v", err)
	}

	got, err := store.GetAssessment(a.ID)
	if err != nil {
		t.Fatalf("get assessment: %v", err)
	}
	if got.Score != 4 || len(got.Entries) != 1 || got.Entries[0].RatingID != "r1" {
		t.Fatalf("assessment mismatch: %+v", got)
	}
	if got.Entries[0].Points == nil || *got.Entries[0].Points != 4 {
		t.Fatalf("points not preserved: %+v", got.Entries[0])
	}

	list, err := store.ListAssessments(context.Background(), rubric.AssessmentListOpts{RubricID: rb.ID})
	if err != nil {
		t.Fatalf("list assessments: %v", err)
	}
	if len(list) != 1 || list[0].ID != "as-1" {
		t.Fatalf("list mismatch: %+v", list)
	}

	list, err = store.ListAssessments(context.Background(), rubric.AssessmentListOpts{AssessorID: "nobody"})
	if err != nil {
		t.Fatalf("list assessments: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %+v", list)
	}

	// saving against an unknown rubric is refused
	bad := a
	bad.ID, bad.RubricID = "as-2", "missing"
	if err := store.SaveAssessment(bad); err == nil {
		t.Fatalf("expected error for unknown rubric")
	}
}

func TestSQLStoreSavedComments(t *testing.T) {
	store := newTestStore(t)

	if err := store.AppendSavedComment("teacher-1", "c1", "needs work"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.AppendSavedComment("teacher-1", "c1", "solid thesis"); err != nil {
		t.Fatalf("append: %v", err)
	}
	// duplicates fold into the existing bank entry
	if err := store.AppendSavedComment("teacher-1", "c1", "needs work"); err != nil {
		t.Fatalf("append dup: %v", err)
	}

	comments, err := store.SavedComments("teacher-1", "c1")
	if err != nil {
		t.Fatalf("saved comments: %v", err)
	}
	if len(comments) != 2 || comments[0] != "needs work" || comments[1] != "solid thesis" {
		t.Fatalf("bank mismatch: %v", comments)
	}

	comments, err = store.SavedComments("teacher-2", "c1")
	if err != nil {
		t.Fatalf("saved comments: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("expected empty bank, got %v", comments)
	}
}

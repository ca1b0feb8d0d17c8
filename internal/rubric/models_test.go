package rubric

import "testing"

func TestRubricValidate(t *testing.T) {
	r := &Rubric{
		ID:    "rub-1",
		Title: "Essay",
		Criteria: []Criterion{
			{ID: "c1", Points: 5, Ratings: threeRatings()},
		},
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("valid rubric rejected: %v", err)
	}

	bad := &Rubric{ID: "rub-2", Title: "No criteria"}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for rubric without criteria")
	}

	noTitle := &Rubric{
		ID: "rub-3",
		Criteria: []Criterion{
			{ID: "c1", Points: 5, Ratings: threeRatings()},
		},
	}
	if err := noTitle.Validate(); err == nil {
		t.Fatalf("expected error for rubric without title")
	}

	// repeated calls share the package validator
	for i := 0; i < 3; i++ {
		if err := r.Validate(); err != nil {
			t.Fatalf("repeat validation failed: %v", err)
		}
	}
}

func TestRubricPointsPossible(t *testing.T) {
	r := Rubric{
		Criteria: []Criterion{
			{ID: "c1", Points: 5},
			{ID: "c2", Points: 10},
		},
	}
	if got := r.PointsPossible(); got != 15 {
		t.Fatalf("points possible = %v, want 15", got)
	}
}

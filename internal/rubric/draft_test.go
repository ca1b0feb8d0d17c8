package rubric

import (
	"reflect"
	"testing"
)

func testCriteria() []Criterion {
	return []Criterion{
		{ID: "c1", UseRange: true, Points: 5, Ratings: threeRatings()},
		{ID: "c2", UseRange: false, Points: 10, Ratings: []Rating{
			{ID: "full", Description: "Complete", Points: 10},
			{ID: "none", Description: "Missing", Points: 0},
		}},
	}
}

func TestDraftUpdateAppendsThenReplaces(t *testing.T) {
	d := NewDraft(testCriteria(), nil)

	entry := d.Update("c1", fp(4), "good", false, "")
	if entry.RatingID != "r2" || entry.Description != "Good" {
		t.Fatalf("resolved (%q, %q), want (r2, Good)", entry.RatingID, entry.Description)
	}
	if !entry.CommentsEnabled {
		t.Fatalf("new entries should have comments enabled")
	}
	if len(d.Entries()) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(d.Entries()))
	}

	// second update for the same criterion replaces in place
	entry = d.Update("c1", fp(2), "ok", false, "")
	if got := d.Entries(); len(got) != 1 {
		t.Fatalf("expected 1 entry after replace, got %d", len(got))
	}
	if entry.RatingID != "r3" {
		t.Fatalf("resolved %q, want r3", entry.RatingID)
	}

	d.Update("c2", fp(10), "", false, "")
	entries := d.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].CriterionID != "c1" || entries[1].CriterionID != "c2" {
		t.Fatalf("entry order not preserved: %+v", entries)
	}
}

func TestDraftUpdateIsIdempotent(t *testing.T) {
	d := NewDraft(testCriteria(), nil)

	first := d.Update("c1", fp(3.5), "between", false, "")
	second := d.Update("c1", fp(3.5), "between", false, "")

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated update changed the entry: %+v vs %+v", first, second)
	}
	if len(d.Entries()) != 1 {
		t.Fatalf("repeated update changed collection length: %d", len(d.Entries()))
	}
}

func TestDraftUpdateUnknownCriterionStillRecorded(t *testing.T) {
	d := NewDraft(testCriteria(), nil)

	entry := d.Update("ghost", fp(2), "anyway", false, "")
	if entry.RatingID != "" || entry.Description != "" {
		t.Fatalf("expected empty rating for unknown criterion, got (%q, %q)", entry.RatingID, entry.Description)
	}
	if len(d.Entries()) != 1 {
		t.Fatalf("entry for unknown criterion should still be recorded")
	}
	if d.TotalPoints() != 2 {
		t.Fatalf("total %v, want 2", d.TotalPoints())
	}
}

func TestDraftUpdateByRatingID(t *testing.T) {
	d := NewDraft(testCriteria(), nil)

	entry := d.Update("c2", fp(10), "", false, "none")
	if entry.RatingID != "none" || entry.Description != "Missing" {
		t.Fatalf("direct pick resolved (%q, %q), want (none, Missing)", entry.RatingID, entry.Description)
	}
}

func TestDraftTotalPoints(t *testing.T) {
	d := NewDraft(testCriteria(), nil)
	if d.TotalPoints() != 0 {
		t.Fatalf("empty draft total %v, want 0", d.TotalPoints())
	}

	d.Update("c1", fp(4), "", false, "")
	d.Update("c2", nil, "comment only", false, "")
	if d.TotalPoints() != 4 {
		t.Fatalf("total %v, want 4 (nil points count as zero)", d.TotalPoints())
	}

	d.Update("c2", fp(7.5), "", false, "")
	if d.TotalPoints() != 11.5 {
		t.Fatalf("total %v, want 11.5", d.TotalPoints())
	}
}

func TestDraftInitializeReplacesWholesale(t *testing.T) {
	d := NewDraft(testCriteria(), []AssessmentEntry{
		{CriterionID: "c1", Points: fp(5), RatingID: "r1", CommentsEnabled: true},
	})
	d.Update("c2", fp(10), "", false, "")

	replacement := []AssessmentEntry{
		{CriterionID: "c2", Points: fp(1), Comments: "fresh", CommentsEnabled: true},
	}
	d.Initialize(replacement)

	entries := d.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after re-init, got %d", len(entries))
	}
	// entries are carried verbatim, no rating re-resolution
	if entries[0].RatingID != "" || entries[0].Comments != "fresh" {
		t.Fatalf("re-init altered entries: %+v", entries[0])
	}
	if d.TotalPoints() != 1 {
		t.Fatalf("total %v, want 1", d.TotalPoints())
	}
}

func TestDraftPreservesCommentsEnabledOnReplace(t *testing.T) {
	d := NewDraft(testCriteria(), []AssessmentEntry{
		{CriterionID: "c1", Points: fp(5), CommentsEnabled: false},
	})

	entry := d.Update("c1", fp(3), "", false, "")
	if entry.CommentsEnabled {
		t.Fatalf("replace should preserve the existing comments_enabled flag")
	}
}

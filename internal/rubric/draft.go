package rubric

// Draft is the in-progress assessment for one rubric: an ordered
// collection of per-criterion entries reconciled against the immutable
// criteria list. At most one entry exists per criterion id; Update
// either replaces the existing entry in place or appends a new one.
//
// A Draft is owned by a single session and is not safe for concurrent
// use; the session registry serializes access.
type Draft struct {
	criteria []Criterion
	entries  []AssessmentEntry
}

func NewDraft(criteria []Criterion, entries []AssessmentEntry) *Draft {
	d := &Draft{criteria: criteria}
	d.Initialize(entries)
	return d
}

// Initialize replaces the whole collection verbatim. Ratings are not
// re-resolved; entries carry whatever the host handed over.
func (d *Draft) Initialize(entries []AssessmentEntry) {
	d.entries = make([]AssessmentEntry, len(entries))
	copy(d.entries, entries)
}

// Update merges one assessor interaction into the draft and returns the
// resulting entry. An unknown criterion id still records the entry, just
// with no resolved rating.
func (d *Draft) Update(criterionID string, points *float64, comments string, saveCommentsForLater bool, ratingID string) AssessmentEntry {
	rid, desc := ResolveRating(d.criterion(criterionID), points, ratingID)
	entry := AssessmentEntry{
		CriterionID:          criterionID,
		Points:               points,
		Comments:             comments,
		RatingID:             rid,
		Description:          desc,
		CommentsEnabled:      true,
		SaveCommentsForLater: saveCommentsForLater,
	}
	for i := range d.entries {
		if d.entries[i].CriterionID == criterionID {
			entry.CommentsEnabled = d.entries[i].CommentsEnabled
			d.entries[i] = entry
			return entry
		}
	}
	d.entries = append(d.entries, entry)
	return entry
}

// Entries returns a copy of the current collection in order.
func (d *Draft) Entries() []AssessmentEntry {
	out := make([]AssessmentEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// TotalPoints is derived at read time from the current collection, never
// cached. Unscored criteria count as zero.
func (d *Draft) TotalPoints() float64 {
	total := 0.0
	for _, e := range d.entries {
		if e.Points != nil {
			total += *e.Points
		}
	}
	return total
}

func (d *Draft) criterion(id string) *Criterion {
	for i := range d.criteria {
		if d.criteria[i].ID == id {
			return &d.criteria[i]
		}
	}
	return nil
}

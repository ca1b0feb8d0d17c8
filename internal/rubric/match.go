package rubric

// FindMatchingRatingIndex returns the index of the rating a point value
// falls under, or -1 when nothing matches. Ratings must be ordered
// descending by points; on equal thresholds the earlier rating wins.
//
// In range mode the first rating whose threshold is at or below the value
// matches, so a value above every threshold resolves to the top rating
// and a value between two thresholds counts toward the lower one. Without
// range mode the value must equal a threshold exactly.
func FindMatchingRatingIndex(ratings []Rating, points *float64, useRange bool) int {
	if points == nil {
		return -1
	}
	for i, r := range ratings {
		if useRange {
			if r.Points <= *points {
				return i
			}
		} else if r.Points == *points {
			return i
		}
	}
	return -1
}

// ResolveRating resolves the rating id and description for a criterion.
// When ratingID is set the assessor picked a rating directly and the
// matcher is bypassed. A nil criterion, unknown ratingID, or matcher miss
// all yield empty strings.
func ResolveRating(c *Criterion, points *float64, ratingID string) (string, string) {
	if c == nil {
		return "", ""
	}
	if ratingID != "" {
		for _, r := range c.Ratings {
			if r.ID == ratingID {
				return r.ID, r.Description
			}
		}
		return "", ""
	}
	idx := FindMatchingRatingIndex(c.Ratings, points, c.UseRange)
	if idx < 0 {
		return "", ""
	}
	return c.Ratings[idx].ID, c.Ratings[idx].Description
}

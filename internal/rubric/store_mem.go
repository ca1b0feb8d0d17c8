package rubric

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryStore struct {
	mu            sync.RWMutex
	rubrics       map[string]Rubric
	rubricOrder   []string
	assessments   map[string]Assessment
	savedComments map[string][]string // assessorID|criterionID
}

func NewInMemoryStore() Store {
	return &memoryStore{
		rubrics:       map[string]Rubric{},
		assessments:   map[string]Assessment{},
		savedComments: map[string][]string{},
	}
}

func (m *memoryStore) PutRubric(r Rubric) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().Unix()
	}
	if _, ok := m.rubrics[r.ID]; !ok {
		m.rubricOrder = append(m.rubricOrder, r.ID)
	}
	m.rubrics[r.ID] = r
	return nil
}

func (m *memoryStore) GetRubric(id string) (Rubric, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rubrics[id]
	if !ok {
		return Rubric{}, errors.New("rubric not found")
	}
	return r, nil
}

func (m *memoryStore) ListRubrics(_ context.Context, opts ListOpts) ([]RubricSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []RubricSummary{}
	for _, id := range m.rubricOrder {
		r := m.rubrics[id]
		if opts.Q != "" && !strings.Contains(strings.ToLower(r.Title), strings.ToLower(opts.Q)) {
			continue
		}
		out = append(out, RubricSummary{
			ID:             r.ID,
			Title:          r.Title,
			PointsPossible: r.PointsPossible(),
			CriterionCount: len(r.Criteria),
			CreatedAt:      r.CreatedAt,
		})
	}
	return paginate(out, opts.Limit, opts.Offset), nil
}

func (m *memoryStore) SaveAssessment(a Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rubrics[a.RubricID]; !ok {
		return errors.New("rubric not found")
	}
	if a.SubmittedAt == 0 {
		a.SubmittedAt = time.Now().Unix()
	}
	m.assessments[a.ID] = a
	return nil
}

func (m *memoryStore) GetAssessment(id string) (Assessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assessments[id]
	if !ok {
		return Assessment{}, errors.New("assessment not found")
	}
	return a, nil
}

func (m *memoryStore) ListAssessments(_ context.Context, opts AssessmentListOpts) ([]Assessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Assessment{}
	for _, a := range m.assessments {
		if opts.RubricID != "" && a.RubricID != opts.RubricID {
			continue
		}
		if opts.AssessorID != "" && a.AssessorID != opts.AssessorID {
			continue
		}
		out = append(out, a)
	}
	sortAssessments(out)
	return paginate(out, opts.Limit, opts.Offset), nil
}

func (m *memoryStore) SavedComments(assessorID, criterionID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key := assessorID + "|" + criterionID
	out := make([]string, len(m.savedComments[key]))
	copy(out, m.savedComments[key])
	return out, nil
}

func (m *memoryStore) AppendSavedComment(assessorID, criterionID, comment string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := assessorID + "|" + criterionID
	m.savedComments[key] = appendUnique(m.savedComments[key], comment)
	return nil
}

func paginate[T any](in []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(in) {
			return []T{}
		}
		in = in[offset:]
	}
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

// newest first; ties broken on id so listings are deterministic
func sortAssessments(list []Assessment) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].SubmittedAt != list[j].SubmittedAt {
			return list[i].SubmittedAt > list[j].SubmittedAt
		}
		return list[i].ID < list[j].ID
	})
}

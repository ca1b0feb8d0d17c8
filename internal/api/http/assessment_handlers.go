package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gradeflow/rubricd/internal/draftcache"
	"github.com/gradeflow/rubricd/internal/metrics"
	"github.com/gradeflow/rubricd/internal/rubric"
)

type openAssessmentReq struct {
	RubricID     string                   `json:"rubric_id"`
	AssessorID   string                   `json:"assessor_id"`
	AssessmentID string                   `json:"assessment_id,omitempty"` // reopen an interrupted draft
	Entries      []rubric.AssessmentEntry `json:"entries,omitempty"`
	Flags        rubric.Flags             `json:"flags"`
}

type assessmentView struct {
	ID                 string                   `json:"id"`
	RubricID           string                   `json:"rubric_id"`
	AssessorID         string                   `json:"assessor_id"`
	Entries            []rubric.AssessmentEntry `json:"entries"`
	Total              float64                  `json:"total"`
	ViewMode           rubric.ViewMode          `json:"view_mode"`
	AvailableViewModes []rubric.ViewMode        `json:"available_view_modes"`
	Flags              rubric.Flags             `json:"flags"`
	SavedComments      map[string][]string      `json:"saved_comments,omitempty"`
}

type updateCriterionReq struct {
	Points               *float64 `json:"points"`
	Comments             string   `json:"comments"`
	SaveCommentsForLater bool     `json:"save_comments_for_later"`
	RatingID             string   `json:"rating_id,omitempty"`
}

// OpenAssessmentHandler opens (or reopens) a draft session for a rubric.
func OpenAssessmentHandler(store rubric.Store, registry *rubric.Registry, cache *draftcache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req openAssessmentReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if req.RubricID == "" || req.AssessorID == "" {
			http.Error(w, "rubric_id and assessor_id required", 400)
			return
		}
		rb, err := store.GetRubric(req.RubricID)
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}

		id := req.AssessmentID
		if id == "" {
			id = uuid.NewString()
		}

		entries := req.Entries
		if cached, ok, err := cache.Get(r.Context(), id); err != nil {
			log.Printf("draft cache read failed for %s: %v", id, err)
		} else if ok {
			entries = cached
		}

		flags := req.Flags
		if rb.FreeFormCriterionComments {
			flags.FreeFormCriterionComments = true
		}

		savedComments := map[string][]string{}
		for _, c := range rb.Criteria {
			comments, err := store.SavedComments(req.AssessorID, c.ID)
			if err != nil {
				http.Error(w, "saved comments: "+err.Error(), http.StatusInternalServerError)
				return
			}
			if len(comments) > 0 {
				savedComments[c.ID] = comments
			}
		}

		sess := rubric.NewSession(rb.Criteria, entries, savedComments, flags)
		sess.OnSubmit = func(entries []rubric.AssessmentEntry) {
			metrics.AssessmentsSubmittedTotal.WithLabelValues(rb.ID).Inc()
		}

		registry.Open(&rubric.OpenSession{
			ID:         id,
			RubricID:   rb.ID,
			AssessorID: req.AssessorID,
			Session:    sess,
		})

		_ = json.NewEncoder(w).Encode(viewOf(id, rb.ID, req.AssessorID, sess))
	}
}

func GetAssessmentHandler(registry *rubric.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "assessmentID")
		var view assessmentView
		err := registry.With(id, func(os *rubric.OpenSession) error {
			view = viewOf(os.ID, os.RubricID, os.AssessorID, os.Session)
			return nil
		})
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		_ = json.NewEncoder(w).Encode(view)
	}
}

// UpdateCriterionHandler applies one assessor interaction to the draft.
func UpdateCriterionHandler(store rubric.Store, registry *rubric.Registry, cache *draftcache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "assessmentID")
		criterionID := chi.URLParam(r, "criterionID")
		var req updateCriterionReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}

		var (
			entry    rubric.AssessmentEntry
			total    float64
			rubricID string
		)
		err := registry.With(id, func(os *rubric.OpenSession) error {
			e, ok := os.Session.UpdateCriterion(criterionID, req.Points, req.Comments, req.SaveCommentsForLater, req.RatingID)
			if !ok {
				return errReadOnly
			}
			if req.SaveCommentsForLater && req.Comments != "" {
				if err := store.AppendSavedComment(os.AssessorID, criterionID, req.Comments); err != nil {
					return err
				}
			}
			if err := cache.Put(r.Context(), os.ID, os.Session.Draft().Entries()); err != nil {
				log.Printf("draft cache write failed for %s: %v", os.ID, err)
			}
			entry, total, rubricID = e, os.Session.Draft().TotalPoints(), os.RubricID
			return nil
		})
		switch {
		case errors.Is(err, rubric.ErrSessionNotFound):
			http.Error(w, err.Error(), 404)
			return
		case errors.Is(err, errReadOnly):
			http.Error(w, err.Error(), 403)
			return
		case err != nil:
			http.Error(w, "update criterion: "+err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.DraftUpdatesTotal.WithLabelValues(rubricID).Inc()
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"entry": entry,
			"total": total,
		})
	}
}

func SetViewModeHandler(registry *rubric.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "assessmentID")
		var req struct {
			ViewMode rubric.ViewMode `json:"view_mode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		err := registry.With(id, func(os *rubric.OpenSession) error {
			if !os.Session.SetViewMode(req.ViewMode) {
				return errViewModeUnavailable
			}
			return nil
		})
		switch {
		case errors.Is(err, rubric.ErrSessionNotFound):
			http.Error(w, err.Error(), 404)
			return
		case err != nil:
			http.Error(w, err.Error(), 400)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"view_mode": req.ViewMode,
		})
	}
}

// SubmitAssessmentHandler persists the draft as a submitted assessment
// and closes the session.
func SubmitAssessmentHandler(store rubric.Store, registry *rubric.Registry, cache *draftcache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "assessmentID")
		var a rubric.Assessment
		err := registry.With(id, func(os *rubric.OpenSession) error {
			entries, ok := os.Session.Submit()
			if !ok {
				return errReadOnly
			}
			a = rubric.Assessment{
				ID:          os.ID,
				RubricID:    os.RubricID,
				AssessorID:  os.AssessorID,
				Entries:     entries,
				Score:       os.Session.Draft().TotalPoints(),
				SubmittedAt: time.Now().Unix(),
			}
			return store.SaveAssessment(a)
		})
		switch {
		case errors.Is(err, rubric.ErrSessionNotFound):
			http.Error(w, err.Error(), 404)
			return
		case errors.Is(err, errReadOnly):
			http.Error(w, err.Error(), 403)
			return
		case err != nil:
			http.Error(w, "submit: "+err.Error(), http.StatusInternalServerError)
			return
		}

		if err := cache.Delete(r.Context(), id); err != nil {
			log.Printf("draft cache delete failed for %s: %v", id, err)
		}
		registry.Close(id)
		metrics.AssessmentScoreHistogram.WithLabelValues(a.RubricID).Observe(a.Score)

		_ = json.NewEncoder(w).Encode(a)
	}
}

// DismissAssessmentHandler abandons the draft without submitting.
func DismissAssessmentHandler(registry *rubric.Registry, cache *draftcache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "assessmentID")
		err := registry.With(id, func(os *rubric.OpenSession) error {
			os.Session.Dismiss()
			return nil
		})
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		if err := cache.Delete(r.Context(), id); err != nil {
			log.Printf("draft cache delete failed for %s: %v", id, err)
		}
		registry.Close(id)
		w.WriteHeader(http.StatusNoContent)
	}
}

var (
	errReadOnly            = errors.New("session is read-only")
	errViewModeUnavailable = errors.New("view mode unavailable")
)

func viewOf(id, rubricID, assessorID string, s *rubric.Session) assessmentView {
	return assessmentView{
		ID:                 id,
		RubricID:           rubricID,
		AssessorID:         assessorID,
		Entries:            s.Draft().Entries(),
		Total:              s.Draft().TotalPoints(),
		ViewMode:           s.ViewMode(),
		AvailableViewModes: s.AvailableViewModes(),
		Flags:              s.Flags(),
		SavedComments:      s.SavedCommentBanks(),
	}
}

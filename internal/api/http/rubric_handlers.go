package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gradeflow/rubricd/internal/rubric"
)

func UploadRubricHandler(store rubric.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rb rubric.Rubric
		if err := json.NewDecoder(r.Body).Decode(&rb); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if err := rb.Validate(); err != nil {
			http.Error(w, "invalid rubric: "+err.Error(), 400)
			return
		}
		if rb.ID == "" {
			rb.ID = uuid.NewString()
		}
		if err := store.PutRubric(rb); err != nil {
			http.Error(w, "save rubric: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(rb)
	}
}

func GetRubricHandler(store rubric.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "rubricID")
		rb, err := store.GetRubric(id)
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		_ = json.NewEncoder(w).Encode(rb)
	}
}

func ListRubricsHandler(store rubric.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := rubric.ListOpts{
			Q:      r.URL.Query().Get("q"),
			Limit:  atoiOr(r.URL.Query().Get("limit"), 0),
			Offset: atoiOr(r.URL.Query().Get("offset"), 0),
		}
		rubrics, err := store.ListRubrics(r.Context(), opts)
		if err != nil {
			http.Error(w, "list rubrics: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"rubrics": rubrics,
		})
	}
}

func ListAssessmentsHandler(store rubric.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := rubric.AssessmentListOpts{
			RubricID:   chi.URLParam(r, "rubricID"),
			AssessorID: r.URL.Query().Get("assessor_id"),
			Limit:      atoiOr(r.URL.Query().Get("limit"), 0),
			Offset:     atoiOr(r.URL.Query().Get("offset"), 0),
		}
		assessments, err := store.ListAssessments(r.Context(), opts)
		if err != nil {
			http.Error(w, "list assessments: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"assessments": assessments,
		})
	}
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

package rubric

// ViewMode selects among the read-only renderings of the same draft; the
// draft itself does not care which is active.
type ViewMode string

const (
	ViewTraditional ViewMode = "traditional"
	ViewHorizontal  ViewMode = "horizontal"
	ViewVertical    ViewMode = "vertical"
)

// Flags carry the host-supplied capabilities for one session.
type Flags struct {
	HidePoints                bool     `json:"hide_points"`
	ReadOnly                  bool     `json:"read_only"`
	PeerReview                bool     `json:"peer_review"`
	FreeFormCriterionComments bool     `json:"free_form_criterion_comments"`
	ForcedViewMode            ViewMode `json:"forced_view_mode,omitempty"`
}

// Session hosts one draft together with the criteria definitions, the
// assessor's saved-comment bank, and the host's observers. All methods
// are synchronous; a session is owned by one caller at a time.
type Session struct {
	criteria      []Criterion
	draft         *Draft
	flags         Flags
	viewMode      ViewMode
	savedComments map[string][]string

	OnSubmit         func([]AssessmentEntry)
	OnViewModeChange func(ViewMode)
	OnDismiss        func()
}

func NewSession(criteria []Criterion, entries []AssessmentEntry, savedComments map[string][]string, flags Flags) *Session {
	mode := ViewTraditional
	if flags.ForcedViewMode != "" {
		mode = flags.ForcedViewMode
	}
	if savedComments == nil {
		savedComments = map[string][]string{}
	}
	return &Session{
		criteria:      criteria,
		draft:         NewDraft(criteria, entries),
		flags:         flags,
		viewMode:      mode,
		savedComments: savedComments,
	}
}

func (s *Session) Draft() *Draft      { return s.draft }
func (s *Session) Flags() Flags       { return s.flags }
func (s *Session) ViewMode() ViewMode { return s.viewMode }

// AvailableViewModes lists the modes the host may switch to. Vertical is
// unavailable when criteria use free-form comments; a forced mode pins
// the session to that mode.
func (s *Session) AvailableViewModes() []ViewMode {
	if s.flags.ForcedViewMode != "" {
		return []ViewMode{s.flags.ForcedViewMode}
	}
	modes := []ViewMode{ViewTraditional, ViewHorizontal}
	if !s.flags.FreeFormCriterionComments {
		modes = append(modes, ViewVertical)
	}
	return modes
}

// SetViewMode switches the rendering mode and notifies the observer.
// Unavailable modes are refused.
func (s *Session) SetViewMode(m ViewMode) bool {
	for _, allowed := range s.AvailableViewModes() {
		if m == allowed {
			s.viewMode = m
			if s.OnViewModeChange != nil {
				s.OnViewModeChange(m)
			}
			return true
		}
	}
	return false
}

// UpdateCriterion applies one interaction to the draft. Read-only
// sessions refuse the update. Comments flagged for later reuse are added
// to the saved-comment bank.
func (s *Session) UpdateCriterion(criterionID string, points *float64, comments string, saveCommentsForLater bool, ratingID string) (AssessmentEntry, bool) {
	if s.flags.ReadOnly {
		return AssessmentEntry{}, false
	}
	entry := s.draft.Update(criterionID, points, comments, saveCommentsForLater, ratingID)
	if saveCommentsForLater && comments != "" {
		s.savedComments[criterionID] = appendUnique(s.savedComments[criterionID], comments)
	}
	return entry, true
}

// SavedComments returns the comment bank for a criterion, in insertion
// order.
func (s *Session) SavedComments(criterionID string) []string {
	return s.savedComments[criterionID]
}

// SavedCommentBanks returns a copy of every criterion's comment bank, for
// hosts that render saved-comment pickers.
func (s *Session) SavedCommentBanks() map[string][]string {
	out := make(map[string][]string, len(s.savedComments))
	for k, v := range s.savedComments {
		bank := make([]string, len(v))
		copy(bank, v)
		out[k] = bank
	}
	return out
}

// Submit hands the full current collection to the host's sink. Read-only
// sessions refuse.
func (s *Session) Submit() ([]AssessmentEntry, bool) {
	if s.flags.ReadOnly {
		return nil, false
	}
	entries := s.draft.Entries()
	if s.OnSubmit != nil {
		s.OnSubmit(entries)
	}
	return entries, true
}

// Dismiss notifies the host that the session is going away.
func (s *Session) Dismiss() {
	if s.OnDismiss != nil {
		s.OnDismiss()
	}
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}

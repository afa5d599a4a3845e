package api

// Request and response shapes for the tailor service. Field names mirror the
// wire exactly; the service speaks snake_case JSON with no versioning or auth.

// StartSessionRequest begins a new interview for a resume + job posting pair.
type StartSessionRequest struct {
	ResumeText string `json:"resume_text"`
	JobPost    string `json:"job_post"`
}

// StartSessionResponse carries the new session id and the first question.
type StartSessionResponse struct {
	SessionID      string `json:"session_id"`
	FirstQuestion  string `json:"first_question"`
	TotalQuestions int    `json:"total_questions"`
}

// AnswerQuestionRequest submits an answer to the open question.
type AnswerQuestionRequest struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

// AnswerQuestionResponse returns either the next question or completion.
// When IsComplete is true NextQuestion is empty; otherwise it must be present.
type AnswerQuestionResponse struct {
	NextQuestion  string `json:"next_question,omitempty"`
	UpdatedResume string `json:"updated_resume,omitempty"`
	IsComplete    bool   `json:"is_complete"`
}

// SessionStatusResponse is a read-only snapshot used for resynchronization.
type SessionStatusResponse struct {
	SessionID       string   `json:"session_id"`
	Questions       []string `json:"questions"`
	Answers         []string `json:"answers"`
	CurrentQuestion string   `json:"current_question,omitempty"`
	Progress        string   `json:"progress"`
	CreatedAt       string   `json:"created_at"`
}

// Suggestion is a discrete proposed edit to the resume. Produced only by the
// service; immutable client-side except for its review disposition.
type Suggestion struct {
	ID                  string `json:"id"`
	Kind                string `json:"kind"`
	TargetSectionHeader string `json:"target_section_header"`
	ContextBefore       string `json:"context_before"`
	ContextAfter        string `json:"context_after"`
	OriginalSnippet     string `json:"original_snippet,omitempty"`
	ProposedSnippet     string `json:"suggested_latex_snippet"`
	Description         string `json:"description"`
}

// GetSuggestionsRequest asks for the suggestion batch of a completed interview.
type GetSuggestionsRequest struct {
	SessionID string `json:"session_id"`
}

// SuggestionsResponse carries a suggestion batch.
type SuggestionsResponse struct {
	SessionID   string       `json:"session_id"`
	Suggestions []Suggestion `json:"suggestions"`
}

// ApplySuggestionRequest applies exactly one suggestion server-side.
type ApplySuggestionRequest struct {
	SessionID    string `json:"session_id"`
	SuggestionID string `json:"suggestion_id"`
}

// ApplySuggestionsRequest applies a set of accepted suggestions against the
// given base document text. An empty accepted set is a valid no-op.
type ApplySuggestionsRequest struct {
	SessionID           string       `json:"session_id"`
	ResumeText          string       `json:"resume_text"`
	AcceptedSuggestions []Suggestion `json:"accepted_suggestions"`
}

// ApplyResponse returns the full rewritten document plus the remaining
// (unapplied) suggestion batch.
type ApplyResponse struct {
	UpdatedResumeLatex string       `json:"updated_resume_latex"`
	Suggestions        []Suggestion `json:"suggestions"`
}

// ExportRequest renders LaTeX source to PDF.
type ExportRequest struct {
	LatexCode string `json:"latex_code"`
}

// DeleteSessionResponse confirms session deletion.
type DeleteSessionResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

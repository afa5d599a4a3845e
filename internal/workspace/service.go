// Package workspace orchestrates one editing engagement: the interview loop,
// the suggestion review workflow, the transcript, and the document, all over
// the remote tailor service.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/tailor/internal/api"
	"github.com/colonyops/tailor/internal/core/chatlog"
	"github.com/colonyops/tailor/internal/core/document"
	"github.com/colonyops/tailor/internal/core/eventbus"
	"github.com/colonyops/tailor/internal/core/interview"
	"github.com/colonyops/tailor/internal/core/logging"
	"github.com/colonyops/tailor/internal/core/review"
)

// Local precondition failures. These are validation errors: they never reach
// the network and surface as transcript notices, not alerts.
var (
	ErrNoSession    = errors.New("no active session")
	ErrBusy         = errors.New("another request is still in flight")
	ErrNoBatch      = errors.New("no suggestion batch to review")
	ErrNotReviewed  = errors.New("batch is not fully reviewed or has no accepted suggestions")
	ErrEmptyMessage = errors.New("message is empty")
)

// FailureMarker prefixes transcript entries that report a failed remote call.
const FailureMarker = "⚠"

// Client is the remote surface the workspace depends on. *api.Client
// implements it; tests substitute a fake.
type Client interface {
	StartSession(ctx context.Context, req api.StartSessionRequest) (api.StartSessionResponse, error)
	AnswerQuestion(ctx context.Context, req api.AnswerQuestionRequest) (api.AnswerQuestionResponse, error)
	GetSessionStatus(ctx context.Context, sessionID string) (api.SessionStatusResponse, error)
	GetSuggestions(ctx context.Context, req api.GetSuggestionsRequest) (api.SuggestionsResponse, error)
	ApplySuggestion(ctx context.Context, req api.ApplySuggestionRequest) (api.ApplyResponse, error)
	ApplySuggestions(ctx context.Context, req api.ApplySuggestionsRequest) (api.ApplyResponse, error)
	ExportPDF(ctx context.Context, req api.ExportRequest) ([]byte, error)
	DeleteSession(ctx context.Context, sessionID string) (api.DeleteSessionResponse, error)
}

// SubmitAction reports how a submission was handled, for callers that need
// to react (e.g. kick off a suggestion fetch after completion).
type SubmitAction int

const (
	// SubmitStarted means the submission started a new session.
	SubmitStarted SubmitAction = iota
	// SubmitAnswered means the submission answered the open question.
	SubmitAnswered
	// SubmitCompleted means the answer finished the interview.
	SubmitCompleted
	// SubmitRejected means the submission was dropped with a notice.
	SubmitRejected
)

// Service owns all client-side state of one engagement. Methods are safe for
// concurrent use; remote operations are serialized by an in-flight guard and
// an overlapping call is rejected with ErrBusy rather than queued. The mutex
// is never held across a network call, so reads stay responsive while a long
// generation call is in flight.
type Service struct {
	mu      sync.Mutex
	client  Client
	machine *interview.Machine
	log     *chatlog.Log
	doc     *document.Store
	batch   *review.Batch
	bus     *eventbus.EventBus
	logger  zerolog.Logger
	busy    bool
}

// NewService creates a workspace over the given client and document text.
// bus may be nil; events are then skipped.
func NewService(client Client, resumeText string, bus *eventbus.EventBus) *Service {
	return &Service{
		client:  client,
		machine: interview.New(),
		log:     chatlog.New(),
		doc:     document.NewStore(resumeText),
		bus:     bus,
		logger:  logging.Component("workspace"),
	}
}

// Submit routes a user submission: it starts a session when none is held,
// answers the open question when one is, and otherwise rejects the input
// with a terminal notice. The transcript always gains the user message and
// exactly one assistant entry (question, completion, notice, or failure).
func (s *Service) Submit(ctx context.Context, text string) (SubmitAction, error) {
	s.mu.Lock()

	text = strings.TrimSpace(text)
	if text == "" {
		s.mu.Unlock()
		return SubmitRejected, ErrEmptyMessage
	}

	route := s.machine.Dispatch()

	if route == interview.RouteRejected {
		defer s.mu.Unlock()
		if _, err := s.log.AppendUser(text); err != nil {
			return SubmitRejected, err
		}
		// Deliberately not re-entering the start route: ambiguous re-entry
		// after completion is worse than asking the user to start over.
		s.log.ResolveLastUser(true)
		s.appendAssistant("This session is complete. Start a new engagement to tailor against another job posting.")
		return SubmitRejected, nil
	}

	if err := s.beginOp(); err != nil {
		s.mu.Unlock()
		return SubmitRejected, err
	}
	if _, err := s.log.AppendUser(text); err != nil {
		s.endOp()
		s.mu.Unlock()
		return SubmitRejected, err
	}

	if route == interview.RouteStart {
		return s.startSession(ctx, text)
	}
	return s.answerQuestion(ctx, text)
}

// startSession is entered with the lock held and the in-flight guard set; it
// drops the lock across the remote call and owns clearing both.
func (s *Service) startSession(ctx context.Context, jobPost string) (SubmitAction, error) {
	req := api.StartSessionRequest{
		ResumeText: s.doc.Text(),
		JobPost:    jobPost,
	}
	s.mu.Unlock()

	resp, err := s.client.StartSession(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endOp()

	if err != nil {
		s.reportFailure("start session", err)
		return SubmitRejected, err
	}

	if err := s.machine.Begin(resp.SessionID, resp.FirstQuestion, resp.TotalQuestions); err != nil {
		s.reportFailure("start session", err)
		return SubmitRejected, err
	}

	s.log.ResolveLastUser(true)
	s.appendAssistant(fmt.Sprintf("Question 1 of %d: %s", resp.TotalQuestions, resp.FirstQuestion))

	s.logger.Info().Str("session_id", resp.SessionID).Int("questions", resp.TotalQuestions).Msg("interview started")
	if s.bus != nil {
		s.bus.PublishInterviewStarted(eventbus.InterviewStartedPayload{
			SessionID:      resp.SessionID,
			TotalQuestions: resp.TotalQuestions,
		})
		s.bus.PublishQuestionOpened(eventbus.QuestionOpenedPayload{Question: resp.FirstQuestion, Answered: 0, Total: resp.TotalQuestions})
	}
	return SubmitStarted, nil
}

// answerQuestion is entered with the lock held and the in-flight guard set,
// same contract as startSession.
func (s *Service) answerQuestion(ctx context.Context, answer string) (SubmitAction, error) {
	req := api.AnswerQuestionRequest{
		SessionID: s.machine.SessionID(),
		Answer:    answer,
	}
	s.mu.Unlock()

	resp, err := s.client.AnswerQuestion(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endOp()

	if err != nil {
		s.reportFailure("answer question", err)
		return SubmitRejected, err
	}

	if err := s.machine.Advance(resp.NextQuestion, resp.IsComplete); err != nil {
		s.reportFailure("answer question", err)
		return SubmitRejected, err
	}

	s.log.ResolveLastUser(true)
	answered, total := s.machine.Progress()

	// The service may hand back an incrementally tailored document alongside
	// the next question.
	if resp.UpdatedResume != "" {
		s.replaceDocument(resp.UpdatedResume)
	}

	if resp.IsComplete {
		s.appendAssistant("Interview complete — ready to generate suggestions for your resume.")
		s.logger.Info().Str("session_id", s.machine.SessionID()).Msg("interview completed")
		if s.bus != nil {
			s.bus.PublishInterviewCompleted(eventbus.InterviewCompletedPayload{SessionID: s.machine.SessionID()})
		}
		return SubmitCompleted, nil
	}

	s.appendAssistant(fmt.Sprintf("Question %d of %d: %s", answered+1, total, resp.NextQuestion))
	if s.bus != nil {
		s.bus.PublishQuestionOpened(eventbus.QuestionOpenedPayload{Question: resp.NextQuestion, Answered: answered, Total: total})
	}
	return SubmitAnswered, nil
}

// FetchSuggestions requests the suggestion batch for a completed interview.
// Without a session id this fails locally; no network call is made.
func (s *Service) FetchSuggestions(ctx context.Context) error {
	s.mu.Lock()

	if s.machine.SessionID() == "" {
		s.appendAssistant(FailureMarker + " Start an interview before requesting suggestions.")
		s.mu.Unlock()
		return ErrNoSession
	}
	if err := s.beginOp(); err != nil {
		s.mu.Unlock()
		return err
	}
	req := api.GetSuggestionsRequest{SessionID: s.machine.SessionID()}
	s.mu.Unlock()

	resp, err := s.client.GetSuggestions(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endOp()

	if err != nil {
		s.reportFailure("fetch suggestions", err)
		return err
	}

	suggestions := make([]review.Suggestion, 0, len(resp.Suggestions))
	for _, sg := range resp.Suggestions {
		suggestions = append(suggestions, toReviewSuggestion(sg))
	}
	s.batch = review.NewBatch(suggestions)

	s.appendAssistant(fmt.Sprintf("%d suggestions ready for review. Accept or reject each, then apply.", s.batch.Len()))
	s.logger.Info().Int("count", s.batch.Len()).Msg("suggestions fetched")
	if s.bus != nil {
		s.bus.PublishSuggestionsFetched(eventbus.SuggestionsFetchedPayload{
			SessionID: s.machine.SessionID(),
			Count:     s.batch.Len(),
		})
	}
	return nil
}

// Accept marks a suggestion accepted.
func (s *Service) Accept(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batch == nil {
		return ErrNoBatch
	}
	return s.batch.Accept(id)
}

// Unaccept returns a suggestion to pending.
func (s *Service) Unaccept(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batch == nil {
		return ErrNoBatch
	}
	return s.batch.Unaccept(id)
}

// Reject drops a suggestion locally. Returns true when the batch emptied and
// the review surface should close.
func (s *Service) Reject(id string) (closed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batch == nil {
		return false, ErrNoBatch
	}
	if err := s.batch.Reject(id); err != nil {
		return false, err
	}
	if s.batch.Empty() {
		s.closeBatch()
		return true, nil
	}
	return false, nil
}

// ApplyOne applies a single suggestion server-side immediately. This commit
// path coexists with ApplyAccepted; either can be user-triggered. Returns
// true when the batch emptied.
func (s *Service) ApplyOne(ctx context.Context, id string) (closed bool, err error) {
	s.mu.Lock()

	if s.batch == nil {
		s.mu.Unlock()
		return false, ErrNoBatch
	}
	if _, ok := s.batch.Get(id); !ok {
		s.mu.Unlock()
		return false, review.ErrUnknownSuggestion
	}
	if err := s.beginOp(); err != nil {
		s.mu.Unlock()
		return false, err
	}
	req := api.ApplySuggestionRequest{
		SessionID:    s.machine.SessionID(),
		SuggestionID: id,
	}
	s.mu.Unlock()

	resp, err := s.client.ApplySuggestion(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endOp()

	if err != nil {
		s.reportFailure("apply suggestion", err)
		return false, err
	}

	s.replaceDocument(resp.UpdatedResumeLatex)

	// Only the applied id leaves the batch; remaining dispositions stay. The
	// batch may have been rejected away while the call was in flight.
	remaining := 0
	if s.batch != nil {
		_ = s.batch.Remove(id)
		remaining = s.batch.Len()
	}
	if s.batch == nil || s.batch.Empty() {
		s.closeBatch()
		closed = true
	}

	s.appendAssistant("Applied 1 suggestion to your resume.")
	if s.bus != nil {
		s.bus.PublishSuggestionsApplied(eventbus.SuggestionsAppliedPayload{Applied: 1, Remaining: remaining})
	}
	return closed, nil
}

// ApplyAccepted commits the accepted subset in one remote call against the
// current document text, replaces the document wholesale with the response,
// and clears the batch. Gated on the batch being fully reviewed with at
// least one accepted suggestion.
func (s *Service) ApplyAccepted(ctx context.Context) error {
	s.mu.Lock()

	if s.batch == nil {
		s.mu.Unlock()
		return ErrNoBatch
	}
	if !s.batch.CanApplyAll() {
		s.mu.Unlock()
		return ErrNotReviewed
	}
	if err := s.beginOp(); err != nil {
		s.mu.Unlock()
		return err
	}

	accepted := s.batch.Accepted()
	wire := make([]api.Suggestion, 0, len(accepted))
	for _, sg := range accepted {
		wire = append(wire, toWireSuggestion(sg))
	}
	req := api.ApplySuggestionsRequest{
		SessionID:           s.machine.SessionID(),
		ResumeText:          s.doc.Text(),
		AcceptedSuggestions: wire,
	}
	s.mu.Unlock()

	resp, err := s.client.ApplySuggestions(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endOp()

	if err != nil {
		s.reportFailure("apply suggestions", err)
		return err
	}

	s.replaceDocument(resp.UpdatedResumeLatex)
	s.closeBatch()

	s.appendAssistant(fmt.Sprintf("Applied %d accepted suggestions to your resume.", len(accepted)))
	s.logger.Info().Int("applied", len(accepted)).Msg("batch applied")
	if s.bus != nil {
		s.bus.PublishSuggestionsApplied(eventbus.SuggestionsAppliedPayload{Applied: len(accepted), Remaining: 0})
	}
	return nil
}

// AppendSnippet concatenates a free-form snippet onto the document. This is
// the raw apply path; it shares the document mutation funnel with the
// structured suggestion path.
func (s *Service) AppendSnippet(snippet string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.doc.Apply(document.Change{Kind: document.RawAppend, Snippet: snippet}); err != nil {
		return err
	}
	s.publishDocumentUpdated()
	return nil
}

// LoadDocument replaces the document with a fresh baseline, discarding any
// pending highlights. Called once at startup when the resume source is read.
func (s *Service) LoadDocument(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = document.NewStore(text)
	s.publishDocumentUpdated()
}

// SetDocumentText replaces the text on a direct user edit.
func (s *Service) SetDocumentText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.SetText(text)
	s.publishDocumentUpdated()
}

// RevertDocument restores the last baseline text.
func (s *Service) RevertDocument() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Revert()
	s.publishDocumentUpdated()
}

// Export renders the current document to PDF.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	if err := s.beginOp(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	text := s.doc.Text()
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.endOp()
		s.mu.Unlock()
	}()

	return s.client.ExportPDF(ctx, api.ExportRequest{LatexCode: text})
}

// Resync overwrites the interview state from the server-side snapshot.
func (s *Service) Resync(ctx context.Context) error {
	s.mu.Lock()

	id := s.machine.SessionID()
	if id == "" {
		s.mu.Unlock()
		return ErrNoSession
	}
	if err := s.beginOp(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	status, err := s.client.GetSessionStatus(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endOp()

	if err != nil {
		s.reportFailure("session status", err)
		return err
	}

	s.machine.Resync(status.SessionID, status.CurrentQuestion, len(status.Answers), len(status.Questions))
	s.logger.Debug().Str("progress", status.Progress).Msg("resynced from service")
	return nil
}

// Delete removes the server-side session and resets the engagement.
func (s *Service) Delete(ctx context.Context) error {
	s.mu.Lock()

	id := s.machine.SessionID()
	if id == "" {
		s.mu.Unlock()
		return ErrNoSession
	}
	if err := s.beginOp(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	_, err := s.client.DeleteSession(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endOp()

	if err != nil {
		s.reportFailure("delete session", err)
		return err
	}

	s.machine.Reset()
	s.closeBatch()
	s.appendAssistant("Session deleted. Submit a job posting to start a new interview.")
	if s.bus != nil {
		s.bus.PublishSessionDeleted(eventbus.SessionDeletedPayload{SessionID: id})
	}
	return nil
}

// Transcript returns a copy of the conversation log.
func (s *Service) Transcript() []chatlog.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Messages()
}

// DocumentText returns the current document text.
func (s *Service) DocumentText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Text()
}

// WordCount returns the markup-stripped word count for the status bar.
func (s *Service) WordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.WordCount()
}

// Highlights returns the derived highlight line ranges.
func (s *Service) Highlights() []document.Range {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Highlights()
}

// Batch returns the active suggestion batch, nil if none.
func (s *Service) Batch() *review.Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batch
}

// SessionID returns the held session id, empty if none.
func (s *Service) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.SessionID()
}

// InterviewState returns the current interview lifecycle position.
func (s *Service) InterviewState() interview.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.State()
}

// Progress returns the interview answered and total counters.
func (s *Service) Progress() (answered, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Progress()
}

// OpenQuestion returns the open question, if any.
func (s *Service) OpenQuestion() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Question()
}

// Busy reports whether a remote operation is in flight.
func (s *Service) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *Service) beginOp() error {
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

func (s *Service) endOp() { s.busy = false }

func (s *Service) closeBatch() { s.batch = nil }

func (s *Service) replaceDocument(text string) {
	_, _ = s.doc.Apply(document.Change{Kind: document.ReplaceAll, Text: text})
	s.publishDocumentUpdated()
}

func (s *Service) publishDocumentUpdated() {
	if s.bus != nil {
		s.bus.PublishDocumentUpdated(eventbus.DocumentUpdatedPayload{WordCount: s.doc.WordCount()})
	}
}

// reportFailure converts a remote-call failure into a single visible
// transcript entry. Prior state is left intact; nothing retries.
func (s *Service) reportFailure(op string, err error) {
	s.log.ResolveLastUser(false)
	s.appendAssistant(fmt.Sprintf("%s %s failed: %v", FailureMarker, op, err))
	s.logger.Error().Err(err).Str("op", op).Msg("remote call failed")
}

func (s *Service) appendAssistant(text string) {
	if _, err := s.log.AppendAssistant(text); err != nil {
		s.logger.Error().Err(err).Msg("append assistant message")
	}
}

func toReviewSuggestion(sg api.Suggestion) review.Suggestion {
	return review.Suggestion{
		ID:                  sg.ID,
		Kind:                sg.Kind,
		TargetSectionHeader: sg.TargetSectionHeader,
		ContextBefore:       sg.ContextBefore,
		ContextAfter:        sg.ContextAfter,
		OriginalSnippet:     sg.OriginalSnippet,
		ProposedSnippet:     sg.ProposedSnippet,
		Description:         sg.Description,
	}
}

func toWireSuggestion(sg review.Suggestion) api.Suggestion {
	return api.Suggestion{
		ID:                  sg.ID,
		Kind:                sg.Kind,
		TargetSectionHeader: sg.TargetSectionHeader,
		ContextBefore:       sg.ContextBefore,
		ContextAfter:        sg.ContextAfter,
		OriginalSnippet:     sg.OriginalSnippet,
		ProposedSnippet:     sg.ProposedSnippet,
		Description:         sg.Description,
	}
}

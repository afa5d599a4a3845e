package workspace

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/tailor/internal/api"
	"github.com/colonyops/tailor/internal/core/chatlog"
	"github.com/colonyops/tailor/internal/core/interview"
	"github.com/colonyops/tailor/internal/core/review"
)

type fakeClient struct {
	calls map[string]int

	startResp       api.StartSessionResponse
	answerResp      api.AnswerQuestionResponse
	statusResp      api.SessionStatusResponse
	suggestionsResp api.SuggestionsResponse
	applyOneResp    api.ApplyResponse
	applyAllResp    api.ApplyResponse
	exportResp      []byte

	err error

	lastApplyAll api.ApplySuggestionsRequest
	lastStart    api.StartSessionRequest
	lastAnswer   api.AnswerQuestionRequest
}

func newFakeClient() *fakeClient {
	return &fakeClient{calls: map[string]int{}}
}

func (f *fakeClient) StartSession(_ context.Context, req api.StartSessionRequest) (api.StartSessionResponse, error) {
	f.calls["start"]++
	f.lastStart = req
	return f.startResp, f.err
}

func (f *fakeClient) AnswerQuestion(_ context.Context, req api.AnswerQuestionRequest) (api.AnswerQuestionResponse, error) {
	f.calls["answer"]++
	f.lastAnswer = req
	return f.answerResp, f.err
}

func (f *fakeClient) GetSessionStatus(_ context.Context, _ string) (api.SessionStatusResponse, error) {
	f.calls["status"]++
	return f.statusResp, f.err
}

func (f *fakeClient) GetSuggestions(_ context.Context, _ api.GetSuggestionsRequest) (api.SuggestionsResponse, error) {
	f.calls["suggestions"]++
	return f.suggestionsResp, f.err
}

func (f *fakeClient) ApplySuggestion(_ context.Context, _ api.ApplySuggestionRequest) (api.ApplyResponse, error) {
	f.calls["apply-one"]++
	return f.applyOneResp, f.err
}

func (f *fakeClient) ApplySuggestions(_ context.Context, req api.ApplySuggestionsRequest) (api.ApplyResponse, error) {
	f.calls["apply-all"]++
	f.lastApplyAll = req
	return f.applyAllResp, f.err
}

func (f *fakeClient) ExportPDF(_ context.Context, _ api.ExportRequest) ([]byte, error) {
	f.calls["export"]++
	return f.exportResp, f.err
}

func (f *fakeClient) DeleteSession(_ context.Context, _ string) (api.DeleteSessionResponse, error) {
	f.calls["delete"]++
	return api.DeleteSessionResponse{}, f.err
}

func totalCalls(f *fakeClient) int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

const testResume = `\documentclass{article}
\begin{document}
\section{Experience}
Built things.
\end{document}`

func TestService_SubmitStartsSession(t *testing.T) {
	fake := newFakeClient()
	fake.startResp = api.StartSessionResponse{
		SessionID:      "abc123",
		FirstQuestion:  "What role are you targeting?",
		TotalQuestions: 5,
	}
	svc := NewService(fake, testResume, nil)

	action, err := svc.Submit(context.Background(), "Senior Go engineer at Acme")
	require.NoError(t, err)
	assert.Equal(t, SubmitStarted, action)
	assert.Equal(t, 1, fake.calls["start"])
	assert.Equal(t, testResume, fake.lastStart.ResumeText)
	assert.Equal(t, "Senior Go engineer at Acme", fake.lastStart.JobPost)

	assert.Equal(t, "abc123", svc.SessionID())
	assert.Equal(t, interview.StateQuestionOpen, svc.InterviewState())

	q, ok := svc.OpenQuestion()
	require.True(t, ok)
	assert.Equal(t, "What role are you targeting?", q)

	msgs := svc.Transcript()
	require.Len(t, msgs, 2)
	assert.Equal(t, chatlog.RoleUser, msgs[0].Role)
	assert.Equal(t, chatlog.DeliverySent, msgs[0].Delivery)
	assert.Equal(t, chatlog.RoleAssistant, msgs[1].Role)
	assert.Contains(t, msgs[1].Text, "Question 1 of 5")
}

func TestService_SubmitWithOpenQuestionAnswers(t *testing.T) {
	fake := newFakeClient()
	fake.startResp = api.StartSessionResponse{SessionID: "s1", FirstQuestion: "Q1", TotalQuestions: 2}
	svc := NewService(fake, testResume, nil)

	_, err := svc.Submit(context.Background(), "job post")
	require.NoError(t, err)

	fake.answerResp = api.AnswerQuestionResponse{NextQuestion: "Q2", IsComplete: false}
	action, err := svc.Submit(context.Background(), "my answer")
	require.NoError(t, err)
	assert.Equal(t, SubmitAnswered, action)
	assert.Equal(t, 1, fake.calls["start"])
	assert.Equal(t, 1, fake.calls["answer"])
	assert.Equal(t, "s1", fake.lastAnswer.SessionID)
	assert.Equal(t, "my answer", fake.lastAnswer.Answer)
}

func TestService_SubmitAfterCompleteIsRejectedLocally(t *testing.T) {
	fake := newFakeClient()
	fake.startResp = api.StartSessionResponse{SessionID: "s1", FirstQuestion: "Q1", TotalQuestions: 1}
	svc := NewService(fake, testResume, nil)

	_, err := svc.Submit(context.Background(), "job post")
	require.NoError(t, err)

	fake.answerResp = api.AnswerQuestionResponse{IsComplete: true}
	action, err := svc.Submit(context.Background(), "final answer")
	require.NoError(t, err)
	assert.Equal(t, SubmitCompleted, action)

	before := totalCalls(fake)
	action, err = svc.Submit(context.Background(), "one more thing")
	require.NoError(t, err)
	assert.Equal(t, SubmitRejected, action)
	assert.Equal(t, before, totalCalls(fake), "rejected submission must not reach the network")

	msgs := svc.Transcript()
	require.NotEmpty(t, msgs)
	tail := msgs[len(msgs)-1]
	assert.Equal(t, chatlog.RoleAssistant, tail.Role)
	assert.Contains(t, tail.Text, "session is complete")
	// The rejected user message still lands in the transcript as sent.
	assert.Equal(t, chatlog.DeliverySent, msgs[len(msgs)-2].Delivery)
}

func TestService_CompletionAppendsReadyNoticeOnce(t *testing.T) {
	fake := newFakeClient()
	fake.startResp = api.StartSessionResponse{SessionID: "s1", FirstQuestion: "Q1", TotalQuestions: 1}
	svc := NewService(fake, testResume, nil)

	_, err := svc.Submit(context.Background(), "job post")
	require.NoError(t, err)

	fake.answerResp = api.AnswerQuestionResponse{IsComplete: true}
	_, err = svc.Submit(context.Background(), "answer")
	require.NoError(t, err)

	count := 0
	for _, m := range svc.Transcript() {
		if strings.Contains(m.Text, "Interview complete") {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, interview.StateComplete, svc.InterviewState())
}

func TestService_FetchSuggestionsWithoutSessionMakesNoCall(t *testing.T) {
	fake := newFakeClient()
	svc := NewService(fake, testResume, nil)

	err := svc.FetchSuggestions(context.Background())
	require.ErrorIs(t, err, ErrNoSession)
	assert.Zero(t, totalCalls(fake), "local validation must not issue a network call")

	last, ok := svc.log.Last()
	require.True(t, ok)
	assert.Contains(t, last.Text, FailureMarker)
}

func TestService_FetchSuggestionsBuildsPendingBatch(t *testing.T) {
	svc, fake := startedService(t)

	fake.suggestionsResp = api.SuggestionsResponse{Suggestions: []api.Suggestion{
		{ID: "sg1", Kind: "rewrite", ProposedSnippet: `\item Led a team of 4`},
		{ID: "sg2", Kind: "add", ProposedSnippet: `\item Shipped v2`},
	}}

	require.NoError(t, svc.FetchSuggestions(context.Background()))

	batch := svc.Batch()
	require.NotNil(t, batch)
	assert.Equal(t, 2, batch.Len())
	assert.Equal(t, 2, batch.PendingCount())
	assert.False(t, batch.CanApplyAll())
}

func TestService_ApplyAcceptedSendsOnlyAcceptedSubset(t *testing.T) {
	svc, fake := startedService(t)

	fake.suggestionsResp = api.SuggestionsResponse{Suggestions: []api.Suggestion{
		{ID: "sg1", ProposedSnippet: "a"},
		{ID: "sg2", ProposedSnippet: "b"},
		{ID: "sg3", ProposedSnippet: "c"},
	}}
	require.NoError(t, svc.FetchSuggestions(context.Background()))

	require.NoError(t, svc.Accept("sg1"))
	require.NoError(t, svc.Accept("sg3"))

	// Not fully reviewed yet: sg2 is still pending.
	err := svc.ApplyAccepted(context.Background())
	require.ErrorIs(t, err, ErrNotReviewed)
	assert.Zero(t, fake.calls["apply-all"])

	closed, err := svc.Reject("sg2")
	require.NoError(t, err)
	assert.False(t, closed)

	updated := "\\documentclass{article}\n\\begin{document}\nUpdated.\n\\end{document}"
	fake.applyAllResp = api.ApplyResponse{UpdatedResumeLatex: updated}

	require.NoError(t, svc.ApplyAccepted(context.Background()))
	assert.Equal(t, 1, fake.calls["apply-all"])

	require.Len(t, fake.lastApplyAll.AcceptedSuggestions, 2)
	ids := []string{fake.lastApplyAll.AcceptedSuggestions[0].ID, fake.lastApplyAll.AcceptedSuggestions[1].ID}
	assert.Equal(t, []string{"sg1", "sg3"}, ids)
	assert.Equal(t, testResume, fake.lastApplyAll.ResumeText)

	assert.Equal(t, updated, svc.DocumentText(), "document replaced wholesale from response")
	assert.Nil(t, svc.Batch(), "batch cleared after apply")
}

func TestService_RejectAllClosesBatchWithoutNetwork(t *testing.T) {
	svc, fake := startedService(t)

	fake.suggestionsResp = api.SuggestionsResponse{Suggestions: []api.Suggestion{
		{ID: "sg1"}, {ID: "sg2"},
	}}
	require.NoError(t, svc.FetchSuggestions(context.Background()))
	before := totalCalls(fake)

	closed, err := svc.Reject("sg1")
	require.NoError(t, err)
	assert.False(t, closed)

	closed, err = svc.Reject("sg2")
	require.NoError(t, err)
	assert.True(t, closed)
	assert.Nil(t, svc.Batch())
	assert.Equal(t, before, totalCalls(fake), "rejection is local")
	assert.Equal(t, testResume, svc.DocumentText(), "document untouched")
}

func TestService_ApplyOneRemovesOnlyAppliedSuggestion(t *testing.T) {
	svc, fake := startedService(t)

	fake.suggestionsResp = api.SuggestionsResponse{Suggestions: []api.Suggestion{
		{ID: "sg1"}, {ID: "sg2"},
	}}
	require.NoError(t, svc.FetchSuggestions(context.Background()))
	require.NoError(t, svc.Accept("sg2"))

	fake.applyOneResp = api.ApplyResponse{UpdatedResumeLatex: "updated text"}
	closed, err := svc.ApplyOne(context.Background(), "sg1")
	require.NoError(t, err)
	assert.False(t, closed)
	assert.Equal(t, "updated text", svc.DocumentText())

	batch := svc.Batch()
	require.NotNil(t, batch)
	assert.Equal(t, 1, batch.Len())
	disp, ok := batch.Disposition("sg2")
	require.True(t, ok)
	assert.Equal(t, review.Accepted, disp, "survivors keep their dispositions")
}

func TestService_FailureLeavesStateIntact(t *testing.T) {
	svc, fake := startedService(t)

	fake.suggestionsResp = api.SuggestionsResponse{Suggestions: []api.Suggestion{{ID: "sg1"}}}
	require.NoError(t, svc.FetchSuggestions(context.Background()))
	require.NoError(t, svc.Accept("sg1"))

	fake.err = &api.TransportError{Op: "POST /session/suggestions/apply-all", Status: 500, Body: "boom"}
	docBefore := svc.DocumentText()
	msgsBefore := len(svc.Transcript())

	err := svc.ApplyAccepted(context.Background())
	require.Error(t, err)

	assert.Equal(t, docBefore, svc.DocumentText(), "no document mutation on failure")
	require.NotNil(t, svc.Batch(), "batch retained on failure")
	assert.Equal(t, 1, svc.Batch().Len())

	msgs := svc.Transcript()
	assert.Equal(t, msgsBefore+1, len(msgs), "exactly one failure artifact")
	assert.Contains(t, msgs[len(msgs)-1].Text, FailureMarker)
	assert.False(t, svc.Busy())
}

func TestService_SubmitFailureMarksUserMessageErrored(t *testing.T) {
	fake := newFakeClient()
	fake.err = errors.New("connection refused")
	svc := NewService(fake, testResume, nil)

	_, err := svc.Submit(context.Background(), "job post")
	require.Error(t, err)

	msgs := svc.Transcript()
	require.Len(t, msgs, 2)
	assert.Equal(t, chatlog.DeliveryError, msgs[0].Delivery)
	assert.Contains(t, msgs[1].Text, FailureMarker)
	assert.Equal(t, "", svc.SessionID(), "no session held after a failed start")
	assert.False(t, svc.Busy())
}

func TestService_BusyRejectsOverlap(t *testing.T) {
	fake := newFakeClient()
	svc := NewService(fake, testResume, nil)
	svc.busy = true

	_, err := svc.Submit(context.Background(), "job post")
	require.ErrorIs(t, err, ErrBusy)
	assert.Zero(t, totalCalls(fake))
	assert.Empty(t, svc.Transcript(), "busy rejection leaves the transcript alone")
}

func TestService_AppendSnippet(t *testing.T) {
	fake := newFakeClient()
	svc := NewService(fake, testResume, nil)

	require.NoError(t, svc.AppendSnippet(`\item New bullet`))
	assert.True(t, strings.HasSuffix(svc.DocumentText(), `\item New bullet`))
	assert.Zero(t, totalCalls(fake))

	err := svc.AppendSnippet("   ")
	require.Error(t, err)
}

// blockingClient parks GetSuggestions until released, so tests can observe
// the service while a remote call is in flight.
type blockingClient struct {
	*fakeClient
	started chan struct{}
	release chan struct{}
}

func (b *blockingClient) GetSuggestions(ctx context.Context, req api.GetSuggestionsRequest) (api.SuggestionsResponse, error) {
	close(b.started)
	<-b.release
	return b.fakeClient.GetSuggestions(ctx, req)
}

func TestService_ReadsStayResponsiveDuringRemoteCall(t *testing.T) {
	svc, fake := startedService(t)
	blocking := &blockingClient{
		fakeClient: fake,
		started:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	svc.client = blocking

	done := make(chan error, 1)
	go func() { done <- svc.FetchSuggestions(context.Background()) }()
	<-blocking.started

	// The status-bar reads must not queue behind the in-flight call.
	words := make(chan int, 1)
	go func() { words <- svc.WordCount() }()
	select {
	case n := <-words:
		assert.Positive(t, n)
	case <-time.After(time.Second):
		t.Fatal("WordCount blocked while a remote call was in flight")
	}

	assert.True(t, svc.Busy())
	assert.Equal(t, interview.StateQuestionOpen, svc.InterviewState())

	close(blocking.release)
	require.NoError(t, <-done)
	assert.False(t, svc.Busy())
}

func TestService_DeleteResetsEngagement(t *testing.T) {
	svc, fake := startedService(t)

	require.NoError(t, svc.Delete(context.Background()))
	assert.Equal(t, 1, fake.calls["delete"])
	assert.Equal(t, "", svc.SessionID())
	assert.Equal(t, interview.StateNoSession, svc.InterviewState())

	err := svc.Delete(context.Background())
	require.ErrorIs(t, err, ErrNoSession)
	assert.Equal(t, 1, fake.calls["delete"])
}

func TestService_ResyncWithoutSession(t *testing.T) {
	fake := newFakeClient()
	svc := NewService(fake, testResume, nil)

	err := svc.Resync(context.Background())
	require.ErrorIs(t, err, ErrNoSession)
	assert.Zero(t, totalCalls(fake))
}

func TestService_UpdatedResumeFlowsIntoDocument(t *testing.T) {
	svc, fake := startedService(t)

	fake.answerResp = api.AnswerQuestionResponse{
		NextQuestion:  "Q2",
		UpdatedResume: "revised resume text",
	}
	_, err := svc.Submit(context.Background(), "answer one")
	require.NoError(t, err)
	assert.Equal(t, "revised resume text", svc.DocumentText())
}

// startedService returns a service holding an open question on session "s1".
func startedService(t *testing.T) (*Service, *fakeClient) {
	t.Helper()
	fake := newFakeClient()
	fake.startResp = api.StartSessionResponse{SessionID: "s1", FirstQuestion: "Q1", TotalQuestions: 3}
	svc := NewService(fake, testResume, nil)
	_, err := svc.Submit(context.Background(), "job post")
	require.NoError(t, err)
	return svc, fake
}

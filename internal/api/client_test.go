package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_StartSession(t *testing.T) {
	t.Run("sends wire fields and parses response", func(t *testing.T) {
		var got map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/session/start", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			_ = json.NewEncoder(w).Encode(map[string]any{
				"session_id":      "abc123",
				"first_question":  "What backend languages have you used in production?",
				"total_questions": 5,
			})
		}))
		defer srv.Close()

		client := New(srv.URL, Options{})
		resp, err := client.StartSession(context.Background(), StartSessionRequest{
			ResumeText: "Experienced engineer...",
			JobPost:    "Seeking a backend engineer with Go experience",
		})
		require.NoError(t, err)

		assert.Equal(t, "Experienced engineer...", got["resume_text"])
		assert.Equal(t, "Seeking a backend engineer with Go experience", got["job_post"])
		assert.Equal(t, "abc123", resp.SessionID)
		assert.Equal(t, 5, resp.TotalQuestions)
		assert.NotEmpty(t, resp.FirstQuestion)
	})

	t.Run("non-success status becomes transport error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model unavailable", http.StatusBadGateway)
		}))
		defer srv.Close()

		client := New(srv.URL, Options{})
		_, err := client.StartSession(context.Background(), StartSessionRequest{})

		var terr *TransportError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, http.StatusBadGateway, terr.Status)
		assert.Contains(t, terr.Body, "model unavailable")
	})

	t.Run("missing session id rejected at boundary", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"first_question": "q"})
		}))
		defer srv.Close()

		client := New(srv.URL, Options{})
		_, err := client.StartSession(context.Background(), StartSessionRequest{})
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})
}

func TestClient_AnswerQuestion(t *testing.T) {
	tests := []struct {
		name     string
		body     map[string]any
		wantErr  bool
		wantNext string
		complete bool
	}{
		{
			name:     "next question",
			body:     map[string]any{"next_question": "Which cloud providers?", "is_complete": false},
			wantNext: "Which cloud providers?",
		},
		{
			name:     "complete without next question",
			body:     map[string]any{"is_complete": true},
			complete: true,
		},
		{
			name:    "incomplete without next question is invalid",
			body:    map[string]any{"is_complete": false},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/session/answer", r.URL.Path)

				var req map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "abc123", req["session_id"])
				assert.Equal(t, "I led a Go migration", req["answer"])

				_ = json.NewEncoder(w).Encode(tt.body)
			}))
			defer srv.Close()

			client := New(srv.URL, Options{})
			resp, err := client.AnswerQuestion(context.Background(), AnswerQuestionRequest{
				SessionID: "abc123",
				Answer:    "I led a Go migration",
			})

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNext, resp.NextQuestion)
			assert.Equal(t, tt.complete, resp.IsComplete)
		})
	}
}

func TestClient_GetSessionStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/session/abc123", r.URL.Path)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"session_id":       "abc123",
			"questions":        []string{"q1", "q2"},
			"answers":          []string{"a1"},
			"current_question": "q2",
			"progress":         "1/2",
			"created_at":       "2026-08-30T10:00:00Z",
		})
	}))
	defer srv.Close()

	client := New(srv.URL, Options{})
	resp, err := client.GetSessionStatus(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Len(t, resp.Questions, 2)
	assert.Len(t, resp.Answers, 1)
	assert.Equal(t, "q2", resp.CurrentQuestion)
	assert.Equal(t, "1/2", resp.Progress)
}

func TestClient_ApplySuggestions(t *testing.T) {
	t.Run("sends accepted subset and base document", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/session/suggestions/apply-all", r.URL.Path)

			var req ApplySuggestionsRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "abc123", req.SessionID)
			assert.Len(t, req.AcceptedSuggestions, 2)

			_ = json.NewEncoder(w).Encode(map[string]any{
				"updated_resume_latex": "\\documentclass{article}\nrewritten",
				"suggestions":          []any{},
			})
		}))
		defer srv.Close()

		client := New(srv.URL, Options{})
		resp, err := client.ApplySuggestions(context.Background(), ApplySuggestionsRequest{
			SessionID:  "abc123",
			ResumeText: "base",
			AcceptedSuggestions: []Suggestion{
				{ID: "s1", ProposedSnippet: "\\item Led Go migration"},
				{ID: "s2", ProposedSnippet: "\\item Cut costs 30\\%"},
			},
		})
		require.NoError(t, err)
		assert.Contains(t, resp.UpdatedResumeLatex, "rewritten")
		assert.Empty(t, resp.Suggestions)
	})

	t.Run("empty document rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"updated_resume_latex": ""})
		}))
		defer srv.Close()

		client := New(srv.URL, Options{})
		_, err := client.ApplySuggestions(context.Background(), ApplySuggestionsRequest{SessionID: "abc123"})
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})
}

func TestClient_ApplySuggestion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/session/suggestions/apply", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "s1", req["suggestion_id"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"updated_resume_latex": "new doc",
			"suggestions": []map[string]any{
				{"id": "s2", "suggested_latex_snippet": "\\item remaining"},
			},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, Options{})
	resp, err := client.ApplySuggestion(context.Background(), ApplySuggestionRequest{SessionID: "abc123", SuggestionID: "s1"})
	require.NoError(t, err)

	assert.Equal(t, "new doc", resp.UpdatedResumeLatex)
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, "s2", resp.Suggestions[0].ID)
}

func TestClient_ExportPDF(t *testing.T) {
	t.Run("returns binary stream", func(t *testing.T) {
		pdf := []byte("%PDF-1.5 fake")
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/export/pdf", r.URL.Path)
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write(pdf)
		}))
		defer srv.Close()

		client := New(srv.URL, Options{})
		got, err := client.ExportPDF(context.Background(), ExportRequest{LatexCode: "\\documentclass{article}"})
		require.NoError(t, err)
		assert.Equal(t, pdf, got)
	})

	t.Run("render failure becomes export error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "pdflatex failed", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := New(srv.URL, Options{})
		_, err := client.ExportPDF(context.Background(), ExportRequest{})

		var eerr *ExportError
		require.ErrorAs(t, err, &eerr)
		assert.Equal(t, http.StatusInternalServerError, eerr.Status)
	})
}

func TestClient_DeleteSession(t *testing.T) {
	t.Run("delete", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodDelete, r.Method)
			require.Equal(t, "/session/abc123", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]any{"message": "Session deleted successfully"})
		}))
		defer srv.Close()

		client := New(srv.URL, Options{})
		resp, err := client.DeleteSession(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Contains(t, resp.Message, "deleted")
	})

	t.Run("not found is idempotent", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "no such session", http.StatusNotFound)
		}))
		defer srv.Close()

		client := New(srv.URL, Options{})
		_, err := client.DeleteSession(context.Background(), "gone")
		assert.NoError(t, err)
	})
}

func TestClient_NetworkFailure(t *testing.T) {
	// Point at a closed server to exercise the network-failure path.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client := New(srv.URL, Options{})
	_, err := client.Health(context.Background())

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 0, terr.Status)
	assert.False(t, errors.Is(err, ErrInvalidResponse))
}

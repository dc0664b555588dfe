package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const pageBody = `{
  "data": {
    "problemsetQuestionList": {
      "total": 2,
      "questions": [
        {
          "acRate": 52.1,
          "difficulty": "Easy",
          "likes": 100,
          "dislikes": 3,
          "categoryTitle": "Algorithms",
          "frontendQuestionId": "1",
          "paidOnly": false,
          "title": "Two Sum",
          "titleSlug": "two-sum",
          "topicTags": [{"name": "Array", "id": "VG9waWNUYWdOb2RlOjU=", "slug": "array"}],
          "hasSolution": true,
          "hasVideoSolution": true,
          "stats": "{\"totalAcceptedRaw\": 10, \"totalSubmissionRaw\": 20}"
        },
        {
          "acRate": 40.0,
          "difficulty": "Medium",
          "likes": 50,
          "dislikes": 9,
          "categoryTitle": "Algorithms",
          "frontendQuestionId": "2",
          "paidOnly": true,
          "title": "Add Two Numbers",
          "titleSlug": "add-two-numbers",
          "topicTags": [],
          "hasSolution": false,
          "hasVideoSolution": false,
          "stats": "{}"
        }
      ]
    }
  }
}`

type capturedRequest struct {
	method    string
	headers   http.Header
	variables map[string]any
	query     string
}

func newUpstream(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.headers = r.Header.Clone()

		var payload struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			captured.query = payload.Query
			captured.variables = payload.Variables
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func TestLeetCodeClient_FetchProblems(t *testing.T) {
	srv, captured := newUpstream(t, http.StatusOK, pageBody)
	client := NewLeetCodeClient(srv.URL, 5*time.Second, zaptest.NewLogger(t))

	page, err := client.FetchProblems(context.Background(), Credentials{CFClearance: "cf", CSRFToken: "tok"}, 2, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Questions, 2)
	assert.Equal(t, "1", page.Questions[0].FrontendQuestionID)
	assert.Equal(t, "two-sum", page.Questions[0].TitleSlug)
	assert.True(t, page.Questions[1].PaidOnly)
	assert.Equal(t, `{"totalAcceptedRaw": 10, "totalSubmissionRaw": 20}`, page.Questions[0].Stats)

	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "application/json", captured.headers.Get("Content-Type"))
	assert.Equal(t, "cf_clearance=cf; csrftoken=tok", captured.headers.Get("Cookie"))
	assert.Equal(t, "tok", captured.headers.Get("X-Csrftoken"))
	assert.NotEmpty(t, captured.headers.Get("User-Agent"))
	assert.Contains(t, captured.query, "stats")
	assert.Contains(t, captured.query, "questionFrontendId")
	assert.EqualValues(t, 2, captured.variables["limit"])
	assert.EqualValues(t, 0, captured.variables["skip"])
}

func TestLeetCodeClient_FetchProblems_InvalidResponses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"missing data", http.StatusOK, `{}`},
		{"null data", http.StatusOK, `{"data": null}`},
		{"missing list", http.StatusOK, `{"data": {}}`},
		{"graphql errors", http.StatusOK, `{"errors": [{"message": "unauthorized"}], "data": null}`},
		{"not json", http.StatusOK, `<html>blocked</html>`},
		{"forbidden", http.StatusForbidden, `{"detail": "forbidden"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newUpstream(t, tt.status, tt.body)
			client := NewLeetCodeClient(srv.URL, 5*time.Second, zaptest.NewLogger(t))

			page, err := client.FetchProblems(context.Background(), goodCreds, 50, 0)
			require.ErrorIs(t, err, ErrInvalidResponse)
			assert.Nil(t, page)
		})
	}
}

func TestLeetCodeClient_FetchProblems_Unreachable(t *testing.T) {
	srv, _ := newUpstream(t, http.StatusOK, pageBody)
	srv.Close()
	client := NewLeetCodeClient(srv.URL, time.Second, zaptest.NewLogger(t))

	_, err := client.FetchProblems(context.Background(), goodCreds, 50, 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidResponse)
}

func TestLeetCodeClient_SyncEndToEnd(t *testing.T) {
	srv, _ := newUpstream(t, http.StatusOK, pageBody)
	client := NewLeetCodeClient(srv.URL, 5*time.Second, zaptest.NewLogger(t))
	store := newMemoryStore()

	result, err := newTestSync(t, client, store, goodCreds).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)

	catalog := readStoredCatalog(t, store)
	assert.Equal(t, int64(10), catalog["1"].TotalAcceptedRaw.Value)
	assert.False(t, catalog["2"].TotalAcceptedRaw.Valid)
}

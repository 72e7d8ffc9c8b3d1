package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"question-notifier/internal/domain"
	"question-notifier/internal/questions"
)

type stubScheduler struct {
	index    int
	question string
	chosen   bool

	assigned map[string]int
	err      error
}

func (s *stubScheduler) CurrentQuestion() (int, string, bool) {
	return s.index, s.question, s.chosen
}

func (s *stubScheduler) AssignQuestion(_ context.Context, userID string, index int) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.assigned == nil {
		s.assigned = map[string]int{}
	}
	s.assigned[userID] = index
	return fmt.Sprintf("question %d", index), nil
}

func doRequest(t *testing.T, srv *Server, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv := NewServer(zerolog.Nop(), &stubScheduler{}, "")
	rec := doRequest(t, srv, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSchedulerState(t *testing.T) {
	srv := NewServer(zerolog.Nop(), &stubScheduler{index: -1}, "")
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/scheduler/state", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"chosen":false,"index":-1}`, rec.Body.String())

	srv = NewServer(zerolog.Nop(), &stubScheduler{index: 7, question: "Q7", chosen: true}, "")
	rec = doRequest(t, srv, http.MethodGet, "/api/v1/scheduler/state", "", "")
	require.JSONEq(t, `{"chosen":true,"index":7,"question":"Q7"}`, rec.Body.String())
}

func TestAssignQuestionRequiresToken(t *testing.T) {
	sched := &stubScheduler{}
	srv := NewServer(zerolog.Nop(), sched, "secret")

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/users/u1/question", `{"index":3}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/users/u1/question", `{"index":3}`, "wrong")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, sched.assigned)

	disabled := NewServer(zerolog.Nop(), sched, "")
	rec = doRequest(t, disabled, http.MethodPost, "/api/v1/users/u1/question", `{"index":3}`, "anything")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAssignQuestion(t *testing.T) {
	sched := &stubScheduler{}
	srv := NewServer(zerolog.Nop(), sched, "secret")

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/users/u1/question", `{"index":3}`, "secret")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "u1", body["user"])
	require.Equal(t, "question 3", body["question"])
	require.Equal(t, map[string]int{"u1": 3}, sched.assigned)
}

func TestAssignQuestionErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"malformed body", `{"index":`, nil, http.StatusBadRequest},
		{"missing index", `{}`, nil, http.StatusBadRequest},
		{"out of range", `{"index":99}`, fmt.Errorf("%w: 99 of 51", questions.ErrIndexOutOfRange), http.StatusBadRequest},
		{"unknown user", `{"index":1}`, fmt.Errorf("%w: user x: %w", domain.ErrUpdateUser, domain.ErrUserNotFound), http.StatusNotFound},
		{"store failure", `{"index":1}`, fmt.Errorf("%w: boom", domain.ErrUpdateUser), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := NewServer(zerolog.Nop(), &stubScheduler{err: tc.err}, "secret")
			rec := doRequest(t, srv, http.MethodPost, "/api/v1/users/x/question", tc.body, "secret")
			require.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestShutdownWithoutStart(t *testing.T) {
	srv := NewServer(zerolog.Nop(), &stubScheduler{}, "")
	require.NoError(t, srv.Shutdown(context.Background()))
}

func TestMetricsServedByRouter(t *testing.T) {
	srv := NewServer(zerolog.Nop(), &stubScheduler{}, "")
	rec := doRequest(t, srv, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}

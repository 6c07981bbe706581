// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/fitfamily/auth"
	"github.com/danielhkuo/fitfamily/cliparse"
	"github.com/danielhkuo/fitfamily/db"
	"github.com/danielhkuo/fitfamily/llm"
)

// TestDBURL opens a private in-memory SQLite database. Open limits SQLite to
// one connection, so the database lives as long as the *sql.DB.
const TestDBURL = ":memory:"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(GetTestConfig())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, cliparse.DatabaseSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:              3318,
		DatabaseURL:       TestDBURL,
		DatabaseType:      cliparse.DatabaseSQLite,
		SessionSecret:     "test-session-secret",
		DefaultProvider:   "groq",
		GroqAPIKey:        "test-groq-key",
		LLMTimeout:        5 * time.Second,
		ChatRatePerMinute: 1000,
	}
}

// AuthHeaders returns request headers authenticating userID under cfg.
func AuthHeaders(cfg cliparse.Config, userID string) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + auth.SignUserID(userID, cfg.SessionSecret),
	}
}

// CreateTestHealthProfile inserts a health profile for userID.
func CreateTestHealthProfile(t *testing.T, conn *sql.DB, userID, primaryGoal string, completed bool) {
	t.Helper()

	now := time.Now().UTC()
	_, err := conn.Exec(`
		INSERT INTO health_profile (user_id, primary_goal, diet_type, stress_level,
		                            allergies, conditions, medications,
		                            onboarding_completed, created_at, updated_at)
		VALUES ($1, $2, 'OMNIVORE', 'MODERATE', '[]', '[]', '[]', $3, $4, $4)
	`, userID, primaryGoal, completed, now)
	if err != nil {
		t.Fatalf("Failed to create test health profile: %v", err)
	}
}

// CreateTestMeal logs a meal for userID at date and returns its ID.
func CreateTestMeal(t *testing.T, conn *sql.DB, userID, name string, calories int, date time.Time) string {
	t.Helper()

	id := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO meal (id, user_id, name, meal_type, calories, date)
		VALUES ($1, $2, $3, 'LUNCH', $4, $5)
	`, id, userID, name, calories, date.UTC())
	if err != nil {
		t.Fatalf("Failed to create test meal: %v", err)
	}
	return id
}

// CreateTestWorkout logs a completed workout for userID at date.
func CreateTestWorkout(t *testing.T, conn *sql.DB, userID string, duration, calories int, date time.Time) string {
	t.Helper()

	id := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO workout (id, user_id, name, type, duration, calories, completed, date)
		VALUES ($1, $2, 'Run', 'cardio', $3, $4, $5, $6)
	`, id, userID, duration, calories, true, date.UTC())
	if err != nil {
		t.Fatalf("Failed to create test workout: %v", err)
	}
	return id
}

// CreateTestSupplement adds an active supplement for userID.
func CreateTestSupplement(t *testing.T, conn *sql.DB, userID, name string) string {
	t.Helper()

	id := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO supplement (id, user_id, name, frequency, active, created_at)
		VALUES ($1, $2, $3, 'daily', $4, $5)
	`, id, userID, name, true, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test supplement: %v", err)
	}
	return id
}

// CountRows returns the number of rows in table matching user_id.
func CountRows(t *testing.T, conn *sql.DB, table, userID string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE user_id = $1", userID).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s rows: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// UserRequest creates a request that has already passed RequireUser as
// userID.
func UserRequest(method, path string, body interface{}, userID string) *http.Request {
	req := MakeRequest(method, path, body, nil)
	return req.WithContext(auth.WithUserID(req.Context(), userID))
}

// StubModel is an llm.Source and llm.Client answering from a script.
// Every request is recorded. When Err is set every call fails with it.
type StubModel struct {
	mu       sync.Mutex
	Replies  []string
	Err      error
	Requests []llm.Request
}

func (s *StubModel) ClientFor(context.Context, string) (llm.Client, error) {
	return s, nil
}

func (s *StubModel) Provider() string { return "stub" }

func (s *StubModel) Complete(_ context.Context, req llm.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Requests = append(s.Requests, req)
	if s.Err != nil {
		return "", s.Err
	}
	if len(s.Replies) == 0 {
		return "", fmt.Errorf("%w: stub: no scripted reply", llm.ErrUnavailable)
	}
	reply := s.Replies[0]
	s.Replies = s.Replies[1:]
	return reply, nil
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

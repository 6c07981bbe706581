// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/fitfamily/llm"
	"github.com/danielhkuo/fitfamily/models"
	"github.com/danielhkuo/fitfamily/testutil"
)

func TestSendMessage(t *testing.T) {
	testCases := []struct {
		name           string
		body           interface{}
		replies        []string
		modelErr       error
		expectedStatus int
		check          func(t *testing.T, resp models.ChatResponse)
	}{
		{
			name:           "plain reply",
			body:           models.ChatRequest{Message: "Hello"},
			replies:        []string{"Hi! How can I help?"},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, resp models.ChatResponse) {
				if resp.Message != "Hi! How can I help?" {
					t.Errorf("Unexpected message '%s'", resp.Message)
				}
				if resp.ActionsExecuted {
					t.Error("Expected no actions")
				}
			},
		},
		{
			name: "directive is applied and hidden",
			body: models.ChatRequest{Message: "I'm 82 kg and want to live longer"},
			replies: []string{`<<<ACTIONS>>>{"updateProfile": true, "profileData": {"weight": 82, "primaryGoal": "LONGEVITY"}, "generateRecommendations": true}<<<END_ACTIONS>>>
Saved! Here is your plan.`},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, resp models.ChatResponse) {
				if strings.Contains(resp.Message, "ACTIONS") {
					t.Errorf("Directive leaked into message: %s", resp.Message)
				}
				if !resp.ProfileUpdated || !resp.RecommendationsGenerated {
					t.Errorf("Expected profile update and generation, got %+v", resp)
				}
			},
		},
		{
			name:           "missing message",
			body:           models.ChatRequest{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "blank message",
			body:           models.ChatRequest{Message: "   "},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "provider failure",
			body:           models.ChatRequest{Message: "Hello"},
			modelErr:       fmt.Errorf("%w: stub: timeout", llm.ErrUnavailable),
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:           "provider not configured",
			body:           models.ChatRequest{Message: "Hello"},
			modelErr:       fmt.Errorf("%w: groq", llm.ErrNotConfigured),
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			model := &testutil.StubModel{Replies: tc.replies, Err: tc.modelErr}
			handler := NewChatHandler(db, newTestAssistant(db, model))

			w := httptest.NewRecorder()
			handler.SendMessage(w, testutil.UserRequest("POST", "/chat", tc.body, "user-1"))

			testutil.AssertStatus(t, w, tc.expectedStatus)
			if tc.check != nil {
				var resp models.ChatResponse
				testutil.AssertJSON(t, w, &resp)
				tc.check(t, resp)
			}
		})
	}
}

func TestSendMessage_PartialFailureReported(t *testing.T) {
	db := testutil.SetupTestDB(t)
	model := &testutil.StubModel{Replies: []string{
		`<<<ACTIONS>>>{"updateProfile": false, "generateRecommendations": true}<<<END_ACTIONS>>>Let me build that.`,
	}}
	handler := NewChatHandler(db, newTestAssistant(db, model))

	w := httptest.NewRecorder()
	handler.SendMessage(w, testutil.UserRequest("POST", "/chat", models.ChatRequest{Message: "plan?"}, "user-1"))

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.ChatResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.RecommendationsGenerated {
		t.Error("Expected no recommendations without a health profile")
	}
	if resp.RecommendationsError != "health profile required" {
		t.Errorf("Expected recommendations_error, got '%s'", resp.RecommendationsError)
	}
}

func TestChatHistoryAndClear(t *testing.T) {
	db := testutil.SetupTestDB(t)
	model := &testutil.StubModel{Replies: []string{"one", "two"}}
	asst := newTestAssistant(db, model)
	chat := NewChatHandler(db, asst)
	onboarding := NewOnboardingHandler(db, asst)

	w := httptest.NewRecorder()
	chat.SendMessage(w, testutil.UserRequest("POST", "/chat", models.ChatRequest{Message: "first"}, "user-1"))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	onboarding.SendMessage(w, testutil.UserRequest("POST", "/onboarding", models.ChatRequest{Message: "hi"}, "user-1"))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	chat.GetHistory(w, testutil.UserRequest("GET", "/chat", nil, "user-1"))
	var history models.ChatHistoryResponse
	testutil.AssertJSON(t, w, &history)
	if len(history.Messages) != 2 {
		t.Fatalf("Expected 2 chat messages, got %d", len(history.Messages))
	}
	if history.Messages[0].Role != models.RoleUser || history.Messages[1].Content != "one" {
		t.Errorf("Unexpected history order: %+v", history.Messages)
	}

	w = httptest.NewRecorder()
	chat.ClearHistory(w, testutil.UserRequest("DELETE", "/chat", nil, "user-1"))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	chat.GetHistory(w, testutil.UserRequest("GET", "/chat", nil, "user-1"))
	history = models.ChatHistoryResponse{}
	testutil.AssertJSON(t, w, &history)
	if len(history.Messages) != 0 {
		t.Errorf("Expected empty chat history, got %d", len(history.Messages))
	}

	w = httptest.NewRecorder()
	onboarding.GetStatus(w, testutil.UserRequest("GET", "/onboarding", nil, "user-1"))
	var status models.OnboardingStatusResponse
	testutil.AssertJSON(t, w, &status)
	if len(status.Messages) != 2 {
		t.Errorf("Expected onboarding messages to survive, got %d", len(status.Messages))
	}
}

func TestOnboardingEndpoints(t *testing.T) {
	db := testutil.SetupTestDB(t)
	model := &testutil.StubModel{Replies: []string{
		"Welcome! What's your main goal?",
		"Great, thanks.\nPROFILE_COMPLETE\n{\"primaryGoal\": \"ENERGY\", \"age\": 30, \"weight\": 60, \"height\": 165, \"gender\": \"FEMALE\"}",
	}}
	handler := NewOnboardingHandler(db, newTestAssistant(db, model))

	send := func(msg string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.SendMessage(w, testutil.UserRequest("POST", "/onboarding", models.ChatRequest{Message: msg}, "user-1"))
		return w
	}
	status := func() models.OnboardingStatusResponse {
		w := httptest.NewRecorder()
		handler.GetStatus(w, testutil.UserRequest("GET", "/onboarding", nil, "user-1"))
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.OnboardingStatusResponse
		testutil.AssertJSON(t, w, &resp)
		return resp
	}

	// Reset before anything happened
	w := httptest.NewRecorder()
	handler.Reset(w, testutil.UserRequest("DELETE", "/onboarding", nil, "user-1"))
	testutil.AssertStatus(t, w, http.StatusConflict)

	if s := status(); s.State != models.OnboardingNotStarted {
		t.Errorf("Expected NOT_STARTED, got %s", s.State)
	}

	testutil.AssertStatus(t, send("Hi"), http.StatusOK)
	if s := status(); s.State != models.OnboardingInProgress {
		t.Errorf("Expected IN_PROGRESS, got %s", s.State)
	}

	w = send("More energy. 30, 60 kg, 165 cm, female")
	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.OnboardingResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.Completed || !resp.RecommendationsGenerated {
		t.Errorf("Expected completion with recommendations, got %+v", resp)
	}
	if strings.Contains(resp.Message, "PROFILE_COMPLETE") {
		t.Errorf("Sentinel leaked into message: %s", resp.Message)
	}

	s := status()
	if s.State != models.OnboardingCompleted || !s.Completed || s.HealthProfile == nil {
		t.Fatalf("Expected COMPLETED with health profile, got %+v", s)
	}
	if s.HealthProfile.PrimaryGoal != models.HealthGoalEnergy {
		t.Errorf("Expected ENERGY goal, got %s", s.HealthProfile.PrimaryGoal)
	}

	testutil.AssertStatus(t, send("anything else?"), http.StatusConflict)

	w = httptest.NewRecorder()
	handler.Reset(w, testutil.UserRequest("DELETE", "/onboarding", nil, "user-1"))
	testutil.AssertStatus(t, w, http.StatusOK)
	if s := status(); s.State != models.OnboardingNotStarted || len(s.Messages) != 0 {
		t.Errorf("Expected clean NOT_STARTED after reset, got %+v", s)
	}
}

func TestSubmitOnboardingForm(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewOnboardingHandler(db, newTestAssistant(db, &testutil.StubModel{}))

	testCases := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{"valid form", map[string]interface{}{"primary_goal": "COGNITIVE", "diet_type": "VEGAN", "sleep_hours": 7}, http.StatusOK},
		{"unknown goal", map[string]interface{}{"primary_goal": "FLYING"}, http.StatusBadRequest},
		{"negative budget", map[string]interface{}{"monthly_budget": -5}, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.SubmitForm(w, testutil.UserRequest("POST", "/onboarding/form", tc.body, "user-1"))
			testutil.AssertStatus(t, w, tc.expectedStatus)
		})
	}

	if n := testutil.CountRows(t, db, "recommendation", "user-1"); n == 0 {
		t.Error("Expected recommendations after form submission")
	}
}

func TestRecommendationEndpoints(t *testing.T) {
	db := testutil.SetupTestDB(t)
	model := &testutil.StubModel{Replies: []string{
		`{"supplements": [{"name": "Creatine", "dosage": "5 g", "timing": "morning", "priority": 1, "reason": "strength", "monthlyPrice": 15}, {"name": "Omega-3", "priority": 2, "monthlyPrice": 1200}]}`,
	}}
	handler := NewRecommendationHandler(db, newTestAssistant(db, model))

	// No health profile yet
	w := httptest.NewRecorder()
	handler.Generate(w, testutil.UserRequest("POST", "/recommendations", nil, "user-1"))
	testutil.AssertStatus(t, w, http.StatusPreconditionFailed)

	testutil.CreateTestHealthProfile(t, db, "user-1", models.HealthGoalMuscleGain, true)

	w = httptest.NewRecorder()
	handler.Generate(w, testutil.UserRequest("POST", "/recommendations", nil, "user-1"))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var gen models.RecommendationsResponse
	testutil.AssertJSON(t, w, &gen)
	if gen.Source != "model" {
		t.Errorf("Expected model source, got %s", gen.Source)
	}
	if gen.MonthlyCost != "€1,215" {
		t.Errorf("Expected monthly cost €1,215, got %s", gen.MonthlyCost)
	}

	w = httptest.NewRecorder()
	handler.List(w, testutil.UserRequest("GET", "/recommendations", nil, "user-1"))
	testutil.AssertStatus(t, w, http.StatusOK)
	var list models.RecommendationsResponse
	testutil.AssertJSON(t, w, &list)
	if len(list.Recommendations) != len(gen.Recommendations) {
		t.Fatalf("Expected %d recommendations, got %d", len(gen.Recommendations), len(list.Recommendations))
	}
	for i := 1; i < len(list.Recommendations); i++ {
		prev, cur := list.Recommendations[i-1], list.Recommendations[i]
		if prev.Priority > cur.Priority || (prev.Priority == cur.Priority && prev.Position > cur.Position) {
			t.Errorf("Recommendations out of order at %d: %+v then %+v", i, prev, cur)
		}
	}
}

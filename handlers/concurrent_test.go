// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/fitfamily/models"
	"github.com/danielhkuo/fitfamily/recommend"
	"github.com/danielhkuo/fitfamily/testutil"
)

// TestConcurrentRegenerations verifies that simultaneous regenerations for
// one user leave exactly one recommendation set behind.
func TestConcurrentRegenerations(t *testing.T) {
	db := testutil.SetupTestDB(t)

	const numRequests = 8
	replies := make([]string, numRequests)
	for i := range replies {
		replies[i] = "no plan today"
	}
	model := &testutil.StubModel{Replies: replies}
	recHandler := NewRecommendationHandler(db, newTestAssistant(db, model))

	testutil.CreateTestHealthProfile(t, db, "regen-user", models.HealthGoalMuscleGain, true)

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := httptest.NewRecorder()
			recHandler.Generate(w, testutil.UserRequest("POST", "/recommendations", nil, "regen-user"))
			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if int(successCount.Load()) != numRequests {
		t.Errorf("Expected %d successful regenerations, got %d", numRequests, successCount.Load())
	}

	expected := len(recommend.FromCatalog(models.HealthGoalMuscleGain))
	if n := testutil.CountRows(t, db, "recommendation", "regen-user"); n != expected {
		t.Errorf("Expected a single set of %d recommendations, got %d rows", expected, n)
	}
}

// TestConcurrentChatsAcrossUsers verifies that parallel conversations keep
// each user's history separate.
func TestConcurrentChatsAcrossUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)

	const numUsers = 6
	replies := make([]string, numUsers)
	for i := range replies {
		replies[i] = "Hello!"
	}
	model := &testutil.StubModel{Replies: replies}
	chatHandler := NewChatHandler(db, newTestAssistant(db, model))

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numUsers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			user := fmt.Sprintf("chat-user-%d", idx)
			w := httptest.NewRecorder()
			chatHandler.SendMessage(w, testutil.UserRequest("POST", "/chat", models.ChatRequest{Message: "hi from " + user}, user))
			if w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numUsers {
		t.Fatalf("Expected %d successful chats, got %d", numUsers, successCount.Load())
	}

	for i := 0; i < numUsers; i++ {
		user := fmt.Sprintf("chat-user-%d", i)
		w := httptest.NewRecorder()
		chatHandler.GetHistory(w, testutil.UserRequest("GET", "/chat", nil, user))

		var history models.ChatHistoryResponse
		testutil.AssertJSON(t, w, &history)
		if len(history.Messages) != 2 {
			t.Errorf("Expected 2 messages for %s, got %d", user, len(history.Messages))
			continue
		}
		if history.Messages[0].Content != "hi from "+user {
			t.Errorf("Expected %s to see their own message, got %q", user, history.Messages[0].Content)
		}
	}
}

// TestConcurrentMealLogging verifies that simultaneous meal inserts are all
// counted in today's stats.
func TestConcurrentMealLogging(t *testing.T) {
	db := testutil.SetupTestDB(t)

	mealHandler := NewMealHandler(db, newTestAssistant(db, &testutil.StubModel{}))
	statsHandler := NewStatsHandler(db)

	const numMeals = 10
	var wg sync.WaitGroup
	var successCount atomic.Int32

	for i := 0; i < numMeals; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req := models.CreateMealRequest{Name: fmt.Sprintf("Meal %d", idx), Calories: intPtr(100)}
			w := httptest.NewRecorder()
			mealHandler.CreateMeal(w, testutil.UserRequest("POST", "/meals", req, "meal-user"))
			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numMeals {
		t.Fatalf("Expected %d meals created, got %d", numMeals, successCount.Load())
	}

	w := httptest.NewRecorder()
	statsHandler.Today(w, testutil.UserRequest("GET", "/stats/today", nil, "meal-user"))
	var stats models.TodayStatsResponse
	testutil.AssertJSON(t, w, &stats)
	if stats.MealsLogged != numMeals || stats.CaloriesEaten != numMeals*100 {
		t.Errorf("Expected %d meals and %d kcal, got %+v", numMeals, numMeals*100, stats)
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/fitfamily/models"
)

// captureLogs routes the default logger to a buffer for the rest of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

// logEntry returns the first record with msg, or nil.
func logEntry(t *testing.T, buf *bytes.Buffer, msg string) map[string]interface{} {
	t.Helper()
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for sc.Scan() {
		var entry map[string]interface{}
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			t.Fatalf("Log line is not JSON: %s", sc.Text())
		}
		if entry["msg"] == msg {
			return entry
		}
	}
	return nil
}

func TestWithLoggingRecordsStatus(t *testing.T) {
	testCases := []struct {
		name     string
		handler  http.HandlerFunc
		expected int
	}{
		{
			name: "explicit created",
			handler: func(w http.ResponseWriter, r *http.Request) {
				JSONResponse(w, http.StatusCreated, models.SuccessResponse{Success: true})
			},
			expected: http.StatusCreated,
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				ErrorResponse(w, http.StatusTooManyRequests, "Too many requests, slow down")
			},
			expected: http.StatusTooManyRequests,
		},
		{
			name: "body without header",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("FitFamily API v1"))
			},
			expected: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := captureLogs(t)

			req := httptest.NewRequest("POST", "/chat", nil)
			w := httptest.NewRecorder()
			WithLogging(tc.handler)(w, req)

			if w.Code != tc.expected {
				t.Errorf("Expected response status %d, got %d", tc.expected, w.Code)
			}

			entry := logEntry(t, buf, "request completed")
			if entry == nil {
				t.Fatalf("Expected a completion log line, got:\n%s", buf.String())
			}
			if got := entry["status"]; got != float64(tc.expected) {
				t.Errorf("Expected logged status %d, got %v", tc.expected, got)
			}
			if entry["path"] != "/chat" || entry["method"] != "POST" {
				t.Errorf("Expected POST /chat in log, got %v %v", entry["method"], entry["path"])
			}
		})
	}
}

func TestWithLoggingLogsClientIP(t *testing.T) {
	buf := captureLogs(t)

	req := httptest.NewRequest("GET", "/stats/today", nil)
	req.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.2")
	WithLogging(func(w http.ResponseWriter, r *http.Request) {})(httptest.NewRecorder(), req)

	entry := logEntry(t, buf, "request started")
	if entry == nil {
		t.Fatal("Expected a start log line")
	}
	if entry["remote"] != "203.0.113.7" {
		t.Errorf("Expected remote 203.0.113.7, got %v", entry["remote"])
	}
}

func TestWithLoggingSharesRecorderWithInstrument(t *testing.T) {
	buf := captureLogs(t)

	// Instrument runs inside WithLogging on every route, so both must see
	// the same status.
	h := WithLogging(Instrument("GET /supplements/{id}", func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(w, http.StatusNotFound, "Supplement not found")
	}))
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest("GET", "/supplements/missing", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
	entry := logEntry(t, buf, "request completed")
	if entry == nil || entry["status"] != float64(http.StatusNotFound) {
		t.Errorf("Expected logged status 404, got %v", entry)
	}
}

func TestErrorResponseMessages(t *testing.T) {
	testCases := []struct {
		status  int
		message string
	}{
		{http.StatusBadRequest, "Invalid JSON"},
		{http.StatusUnauthorized, "Authentication required"},
		{http.StatusNotFound, "Supplement not found"},
		{http.StatusConflict, "Onboarding already completed"},
		{http.StatusPreconditionFailed, "Complete onboarding before generating recommendations"},
		{http.StatusBadGateway, "Could not get a response from the model provider"},
		{http.StatusServiceUnavailable, "No model provider is configured. Add an API key in settings."},
	}

	for _, tc := range testCases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			w := httptest.NewRecorder()
			ErrorResponse(w, tc.status, tc.message)

			if w.Code != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected application/json, got %s", ct)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error body: %v", err)
			}
			if resp.Error != http.StatusText(tc.status) {
				t.Errorf("Expected error %q, got %q", http.StatusText(tc.status), resp.Error)
			}
			if resp.Message != tc.message {
				t.Errorf("Expected message %q, got %q", tc.message, resp.Message)
			}
		})
	}
}

func TestJSONResponseEncodesChatReply(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResponse(w, http.StatusOK, models.ChatResponse{
		Message:         "Noted!",
		ActionsExecuted: true,
		ProfileUpdated:  true,
	})

	body := w.Body.String()
	for _, want := range []string{`"message":"Noted!"`, `"profile_updated":true`, `"recommendations_generated":false`} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %s in body, got %s", want, body)
		}
	}
	// Partial-failure fields only appear when set.
	if strings.Contains(body, "profile_error") || strings.Contains(body, "recommendations_error") {
		t.Errorf("Expected no error fields in body, got %s", body)
	}
}

func TestParseJSONBodyChatRequest(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		wantErr bool
		want    string
	}{
		{"message", `{"message": "I weigh 82 kg"}`, false, "I weigh 82 kg"},
		{"unknown fields ignored", `{"message": "hi", "channel": "onboarding"}`, false, "hi"},
		{"truncated", `{"message": "hi"`, true, ""},
		{"empty body", ``, true, ""},
		{"wrong type", `{"message": 42}`, true, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/chat", strings.NewReader(tc.body))

			var got models.ChatRequest
			err := ParseJSONBody(req, &got)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tc.body)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got.Message != tc.want {
				t.Errorf("Expected message %q, got %q", tc.want, got.Message)
			}
		})
	}
}

func TestCORSAllowsBearerTokens(t *testing.T) {
	var reached bool
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		if r.Header.Get("Authorization") != "Bearer u1.sig" {
			t.Errorf("Expected Authorization to reach the handler, got %q", r.Header.Get("Authorization"))
		}
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/chat", nil)
		req.Header.Set("Origin", "https://app.fitfamily.example")
		req.Header.Set("Access-Control-Request-Headers", "authorization, content-type")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 for preflight, got %d", w.Code)
		}
		if reached {
			t.Error("Preflight must not reach the handler")
		}
		allowed := w.Header().Get("Access-Control-Allow-Headers")
		if !strings.Contains(allowed, "Authorization") {
			t.Errorf("Expected Authorization in allowed headers, got %q", allowed)
		}
		if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "https://app.fitfamily.example" {
			t.Errorf("Expected origin to be echoed, got %q", origin)
		}
		if methods := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(methods, "PUT") || !strings.Contains(methods, "DELETE") {
			t.Errorf("Expected PUT and DELETE to be allowed, got %q", methods)
		}
	})

	t.Run("authenticated request", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/chat", nil)
		req.Header.Set("Authorization", "Bearer u1.sig")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if !reached {
			t.Error("Expected request to reach the handler")
		}
		if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
			t.Errorf("Expected wildcard origin without Origin header, got %q", origin)
		}
	})
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:       "forwarded chain with spaces",
			headers:    map[string]string{"X-Forwarded-For": "  198.51.100.4  ,  10.0.0.1 , 10.0.0.2"},
			remoteAddr: "10.0.0.9:4000",
			expected:   "198.51.100.4",
		},
		{
			name:       "forwarded wins over real ip",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.4", "X-Real-IP": "192.0.2.1"},
			remoteAddr: "10.0.0.9:4000",
			expected:   "198.51.100.4",
		},
		{
			name:       "real ip",
			headers:    map[string]string{"X-Real-IP": "192.0.2.1"},
			remoteAddr: "10.0.0.9:4000",
			expected:   "192.0.2.1",
		},
		{
			name:       "ipv6 remote addr keeps brackets",
			remoteAddr: "[2001:db8::1]:8080",
			expected:   "[2001:db8::1]",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "192.0.2.55",
			expected:   "192.0.2.55",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/chat", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			if got := GetClientIP(req); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

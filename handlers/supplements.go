// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/fitfamily/auth"
	"github.com/danielhkuo/fitfamily/middleware"
	"github.com/danielhkuo/fitfamily/models"
)

type SupplementHandler struct {
	db *sql.DB
}

func NewSupplementHandler(db *sql.DB) *SupplementHandler {
	return &SupplementHandler{db: db}
}

const supplementColumns = `id, user_id, name, brand, dosage, frequency, time_of_day, purchase_url, notes, active, created_at`

func scanSupplement(row interface{ Scan(...any) error }) (models.Supplement, error) {
	var s models.Supplement
	err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.Brand, &s.Dosage, &s.Frequency,
		&s.TimeOfDay, &s.PurchaseURL, &s.Notes, &s.Active, &s.CreatedAt)
	s.Logs = []models.SupplementLog{}
	return s, err
}

// loadSupplement returns the supplement only if userID owns it.
func (h *SupplementHandler) loadSupplement(ctx context.Context, id, userID string) (models.Supplement, error) {
	row := h.db.QueryRowContext(ctx,
		"SELECT "+supplementColumns+" FROM supplement WHERE id = $1 AND user_id = $2", id, userID)
	return scanSupplement(row)
}

// todayLogs attaches the logs of the current UTC day.
func (h *SupplementHandler) todayLogs(ctx context.Context, sups []models.Supplement) error {
	if len(sups) == 0 {
		return nil
	}
	index := make(map[string]int, len(sups))
	for i, s := range sups {
		index[s.ID] = i
	}

	start, end := dayBounds(time.Now())
	rows, err := h.db.QueryContext(ctx, `
		SELECT l.id, l.supplement_id, l.taken_at
		FROM supplement_log l
		JOIN supplement s ON s.id = l.supplement_id
		WHERE s.user_id = $1 AND l.taken_at >= $2 AND l.taken_at < $3
		ORDER BY l.taken_at ASC
	`, sups[0].UserID, start, end)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var l models.SupplementLog
		if err := rows.Scan(&l.ID, &l.SupplementID, &l.TakenAt); err != nil {
			return err
		}
		if i, ok := index[l.SupplementID]; ok {
			sups[i].Logs = append(sups[i].Logs, l)
		}
	}
	return rows.Err()
}

// ListSupplements handles GET /supplements
func (h *SupplementHandler) ListSupplements(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	rows, err := h.db.QueryContext(r.Context(),
		"SELECT "+supplementColumns+" FROM supplement WHERE user_id = $1 ORDER BY created_at ASC", userID)
	if err != nil {
		slog.Error("failed to query supplements", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	sups := []models.Supplement{}
	for rows.Next() {
		s, err := scanSupplement(rows)
		if err != nil {
			slog.Error("failed to scan supplement", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		sups = append(sups, s)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate supplements", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := h.todayLogs(r.Context(), sups); err != nil {
		slog.Error("failed to query supplement logs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SupplementsResponse{Supplements: sups})
}

// CreateSupplement handles POST /supplements
func (h *SupplementHandler) CreateSupplement(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.SupplementRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	s := models.Supplement{
		ID:        auth.NewID(),
		UserID:    userID,
		Frequency: "daily",
		Active:    true,
		CreatedAt: time.Now().UTC(),
		Logs:      []models.SupplementLog{},
	}
	applySupplement(&s, req)

	_, err := h.db.ExecContext(r.Context(), `
		INSERT INTO supplement (id, user_id, name, brand, dosage, frequency, time_of_day, purchase_url, notes, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, s.ID, s.UserID, s.Name, s.Brand, s.Dosage, s.Frequency, s.TimeOfDay, s.PurchaseURL, s.Notes, s.Active, s.CreatedAt)
	if err != nil {
		slog.Error("failed to insert supplement", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create supplement")
		return
	}

	slog.Info("supplement created", "user_id", userID, "supplement_id", s.ID)
	middleware.JSONResponse(w, http.StatusCreated, s)
}

func applySupplement(s *models.Supplement, req models.SupplementRequest) {
	if req.Name != nil {
		s.Name = strings.TrimSpace(*req.Name)
	}
	if req.Brand != nil {
		s.Brand = req.Brand
	}
	if req.Dosage != nil {
		s.Dosage = req.Dosage
	}
	if req.Frequency != nil && *req.Frequency != "" {
		s.Frequency = *req.Frequency
	}
	if req.TimeOfDay != nil {
		s.TimeOfDay = req.TimeOfDay
	}
	if req.PurchaseURL != nil {
		s.PurchaseURL = req.PurchaseURL
	}
	if req.Notes != nil {
		s.Notes = req.Notes
	}
	if req.Active != nil {
		s.Active = *req.Active
	}
}

// GetSupplement handles GET /supplements/{id}
func (h *SupplementHandler) GetSupplement(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	s, err := h.loadSupplement(r.Context(), r.PathValue("id"), userID)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Supplement not found")
		return
	}
	if err != nil {
		slog.Error("failed to query supplement", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	sups := []models.Supplement{s}
	if err := h.todayLogs(r.Context(), sups); err != nil {
		slog.Error("failed to query supplement logs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, sups[0])
}

// UpdateSupplement handles PUT /supplements/{id}. Absent fields are kept.
func (h *SupplementHandler) UpdateSupplement(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.SupplementRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name cannot be empty")
		return
	}

	s, err := h.loadSupplement(r.Context(), r.PathValue("id"), userID)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Supplement not found")
		return
	}
	if err != nil {
		slog.Error("failed to query supplement", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	applySupplement(&s, req)

	_, err = h.db.ExecContext(r.Context(), `
		UPDATE supplement
		SET name = $1, brand = $2, dosage = $3, frequency = $4, time_of_day = $5,
		    purchase_url = $6, notes = $7, active = $8
		WHERE id = $9 AND user_id = $10
	`, s.Name, s.Brand, s.Dosage, s.Frequency, s.TimeOfDay, s.PurchaseURL, s.Notes, s.Active, s.ID, userID)
	if err != nil {
		slog.Error("failed to update supplement", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update supplement")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, s)
}

// DeleteSupplement handles DELETE /supplements/{id}. Its logs go with it.
func (h *SupplementHandler) DeleteSupplement(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(r.Context(), "DELETE FROM supplement WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		slog.Error("failed to delete supplement", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete supplement")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Supplement not found")
		return
	}

	// SQLite only enforces the cascade with foreign_keys on.
	if _, err := tx.ExecContext(r.Context(), "DELETE FROM supplement_log WHERE supplement_id = $1", id); err != nil {
		slog.Error("failed to delete supplement logs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete supplement")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit supplement delete", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete supplement")
		return
	}

	slog.Info("supplement deleted", "user_id", userID, "supplement_id", id)
	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// LogTaken handles POST /supplements/{id}/log. Logging twice on the same
// day keeps a single entry.
func (h *SupplementHandler) LogTaken(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	if _, err := h.loadSupplement(r.Context(), id, userID); errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Supplement not found")
		return
	} else if err != nil {
		slog.Error("failed to query supplement", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	now := time.Now().UTC()
	start, end := dayBounds(now)

	var existing models.SupplementLog
	err := h.db.QueryRowContext(r.Context(), `
		SELECT id, supplement_id, taken_at FROM supplement_log
		WHERE supplement_id = $1 AND taken_at >= $2 AND taken_at < $3
		ORDER BY taken_at ASC
		LIMIT 1
	`, id, start, end).Scan(&existing.ID, &existing.SupplementID, &existing.TakenAt)
	if err == nil {
		middleware.JSONResponse(w, http.StatusOK, existing)
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("failed to query supplement log", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	entry := models.SupplementLog{ID: auth.NewID(), SupplementID: id, TakenAt: now}
	_, err = h.db.ExecContext(r.Context(),
		"INSERT INTO supplement_log (id, supplement_id, taken_at) VALUES ($1, $2, $3)",
		entry.ID, entry.SupplementID, entry.TakenAt)
	if err != nil {
		slog.Error("failed to insert supplement log", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log supplement")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, entry)
}

// UnlogTaken handles DELETE /supplements/{id}/log, removing today's entries.
func (h *SupplementHandler) UnlogTaken(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	if _, err := h.loadSupplement(r.Context(), id, userID); errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Supplement not found")
		return
	} else if err != nil {
		slog.Error("failed to query supplement", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	start, end := dayBounds(time.Now())
	_, err := h.db.ExecContext(r.Context(),
		"DELETE FROM supplement_log WHERE supplement_id = $1 AND taken_at >= $2 AND taken_at < $3",
		id, start, end)
	if err != nil {
		slog.Error("failed to delete supplement log", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to unlog supplement")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

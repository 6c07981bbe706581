// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token format")
	ErrBadSignature = errors.New("invalid token signature")
)

type contextKey struct{}

// NewID returns a random identifier for a database record.
func NewID() string {
	return uuid.NewString()
}

// sign computes the HMAC of a user id under secret.
// Use URL-safe base64 and trim padding for cleaner tokens
func sign(userID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(userID))
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}

// SignUserID creates the bearer token the session layer hands out for a
// user: "<userID>.<hmac>".
func SignUserID(userID, secret string) string {
	return userID + "." + sign(userID, secret)
}

// VerifyToken checks a bearer token and returns the user id it carries.
func VerifyToken(token, secret string) (string, error) {
	if token == "" {
		return "", ErrMissingToken
	}
	dot := strings.LastIndexByte(token, '.')
	if dot <= 0 || dot == len(token)-1 {
		return "", ErrInvalidToken
	}

	userID, mac := token[:dot], token[dot+1:]
	if !hmac.Equal([]byte(mac), []byte(sign(userID, secret))) {
		return "", ErrBadSignature
	}
	return userID, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// CurrentUserID returns the authenticated user id, if any.
func CurrentUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

// MaskKey hides all but the last four characters of a stored API key.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

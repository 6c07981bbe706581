// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth verifies the identity supplied by the session layer and
generates record identifiers.

# Bearer Tokens

Sessions are issued elsewhere. A request carries

	Authorization: Bearer <userID>.<signature>

where the signature is the HMAC-SHA256 of the user id under the shared
session secret, URL-safe base64 encoded without padding:

	token := auth.SignUserID(userID, secret)
	userID, err := auth.VerifyToken(token, secret)

Verification is constant-time. The user id may itself contain dots; the
signature is everything after the last one.

# Request Context

middleware.RequireUser stores the verified id in the request context:

	ctx = auth.WithUserID(ctx, userID)
	userID, ok := auth.CurrentUserID(ctx)

# ID Generation

Record identifiers are random UUIDs:

	id := auth.NewID()

# Key Masking

Provider API keys are never returned in full:

	auth.MaskKey("gsk_1234567890abcd") // "****abcd"
*/
package auth

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists the records the assistant pipeline works on: body and
health profiles, the recommendation set, chat and onboarding history, and
per-user settings.

Absent profiles are reported as ErrNotFound. Absent settings are returned as
empty settings.

# Recommendation Sets

ReplaceRecommendations swaps a user's whole set in one transaction:

	recs, err := st.ReplaceRecommendations(ctx, userID, generated, now)

A failure rolls back, leaving the previous set in place. Listing orders by
priority, then by generation order.

# Message Channels

Chat and onboarding histories share one table, separated by channel. IDs
increase with insertion, so RecentMessages returns the last N messages in
conversation order.
*/
package store

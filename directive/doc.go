// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package directive extracts machine instructions embedded in assistant replies.

# Directive Blocks

A chat reply may carry one block between OpenMarker and CloseMarker:

	<<<ACTIONS>>>
	{
	  "updateProfile": true,
	  "profileData": {"age": 40, "weight": 82, "primaryGoal": "LONGEVITY"},
	  "generateRecommendations": true
	}
	<<<END_ACTIONS>>>
	Great, I saved your profile.

Parse returns the visible text and the decoded Actions:

	r := directive.Parse(reply)
	if r.Actions != nil && r.Actions.UpdateProfile {
		// apply r.Actions.ProfileData
	}

Rules:

  - No complete marker pair: Visible is the reply unchanged, Actions is nil.
  - Marker pair present: the block is always removed from Visible and the
    remainder trimmed, even when the content fails to decode.
  - Content that does not decode to one object leaves Actions nil; callers
    must not mutate anything.
  - Null or absent profile fields mean "unchanged". Unknown keys are
    ignored. Enum values outside their set are dropped.

# Onboarding Sentinel

The onboarding conversation ends when the reply contains
ProfileCompleteSentinel followed by a JSON object:

	r := directive.ParseOnboarding(reply)
	if r.Complete() {
		// upsert from r.Profile
	}

The sentinel and everything after it are never shown to the user.
*/
package directive

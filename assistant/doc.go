// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package assistant runs the conversational side of FitFamily: chat turns,
the onboarding conversation, recommendation generation and meal analysis.

A chat turn persists the user message, sends the recent history to the
user's model provider and splits the reply with the directive package. A
decoded directive may update the profiles and regenerate recommendations;
each action reports its own error so one failing never hides the other.
Malformed directives are logged and otherwise ignored.

Onboarding moves NOT_STARTED -> IN_PROGRESS -> COMPLETED. It completes when
the model emits the PROFILE_COMPLETE sentinel with a decodable profile, or
when the form is submitted. ResetOnboarding returns to NOT_STARTED without
touching chat history or activity logs.

Recommendations come either from the embedded catalog (ModeCatalog) or from
the model with a catalog fallback (ModeModel); see package recommend.
*/
package assistant

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package recommend turns a health goal or a model-produced plan into an
ordered recommendation set.

The static catalog is embedded from catalog.yaml. Goals map to supplement
stacks as follows:

	WEIGHT_LOSS  weight_loss
	MUSCLE_GAIN  muscle_gain
	COGNITIVE    base + cognitive
	SLEEP        base + sleep
	(other)      longevity

Every set ends with one exercise plan and one diet plan. Position records
insertion order so that a list sorted by priority keeps source order for
ties.

A model reply is accepted only through ParsePlan, which validates it with
go-playground/validator. Callers fall back to FromCatalog on any error.
*/
package recommend

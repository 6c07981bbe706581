// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metabolism computes BMI, BMR, TDEE and the daily calorie target.

# Formulas

	BMI  = weight(kg) / height(m)^2
	BMR  = 10*weight + 6.25*height - 5*age + 5    (male)
	BMR  = 10*weight + 6.25*height - 5*age - 161  (female)
	TDEE = BMR * activity multiplier

Multipliers: SEDENTARY 1.2, LIGHT 1.375, MODERATE 1.55, ACTIVE 1.725,
VERY_ACTIVE 1.9. The daily target is TDEE-500 for LOSE, TDEE+300 for GAIN
and TDEE otherwise, rounded to the nearest integer.

# Age

Age always comes from a birth date via AgeOn. There is no fallback age: when
the birth date or gender is unknown only BMI is produced.
*/
package metabolism

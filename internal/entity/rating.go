// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package entity

// Rating holds the agency ratings of an instrument.
type Rating struct {
	ID           int64  `json:"id"`
	MoodysRating string `json:"moodysRating"`
	SandPRating  string `json:"sandPRating"`
	FitchRating  string `json:"fitchRating"`
	OrderNumber  int    `json:"orderNumber"`
}

// KindRating names Rating records.
const KindRating = "rating"

func (Rating) Kind() string { return KindRating }

func (r Rating) EntityID() int64 { return r.ID }

func (r Rating) WithID(id int64) Rating {
	r.ID = id
	return r
}

func (r Rating) Replace(stored Rating) Rating {
	r.ID = stored.ID
	return r
}

func (r Rating) Validate() error {
	return firstInvalid(
		required("moodysRating", r.MoodysRating),
		required("sandPRating", r.SandPRating),
		required("fitchRating", r.FitchRating),
	)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package entity

import "time"

// CurvePoint is one point of a yield curve.
type CurvePoint struct {
	ID           int64      `json:"id"`
	CurveID      int        `json:"curveId"`
	AsOfDate     *time.Time `json:"asOfDate,omitempty"`
	Term         float64    `json:"term"`
	Value        float64    `json:"value"`
	CreationDate *time.Time `json:"creationDate,omitempty"`
}

// KindCurvePoint names CurvePoint records.
const KindCurvePoint = "curve_point"

func (CurvePoint) Kind() string { return KindCurvePoint }

func (c CurvePoint) EntityID() int64 { return c.ID }

func (c CurvePoint) WithID(id int64) CurvePoint {
	c.ID = id
	return c
}

func (c CurvePoint) Replace(stored CurvePoint) CurvePoint {
	c.ID = stored.ID
	c.CreationDate = stored.CreationDate
	return c
}

func (c CurvePoint) Validate() error {
	if c.CurveID <= 0 {
		return &ValidationError{Field: "curveId", Message: "must be greater than zero"}
	}
	return nil
}

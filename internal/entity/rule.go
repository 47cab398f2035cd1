// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package entity

// Rule is a named rule definition.
type Rule struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	JSON        string `json:"json"`
	Template    string `json:"template"`
	SQLStr      string `json:"sqlStr"`
	SQLPart     string `json:"sqlPart"`
}

// KindRule names Rule records.
const KindRule = "rule"

func (Rule) Kind() string { return KindRule }

func (r Rule) EntityID() int64 { return r.ID }

func (r Rule) WithID(id int64) Rule {
	r.ID = id
	return r
}

func (r Rule) Replace(stored Rule) Rule {
	r.ID = stored.ID
	return r
}

func (r Rule) Validate() error {
	return firstInvalid(
		required("name", r.Name),
		required("description", r.Description),
	)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package entity

import "github.com/poseiden/backoffice/internal/access"

// User is a back-office account. Password holds the hash once stored and is
// never serialised.
type User struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Password string      `json:"-"`
	Fullname string      `json:"fullname"`
	Role     access.Role `json:"role"`
}

// KindUser names User records.
const KindUser = "user"

func (User) Kind() string { return KindUser }

func (u User) EntityID() int64 { return u.ID }

func (u User) WithID(id int64) User {
	u.ID = id
	return u
}

func (u User) Replace(stored User) User {
	u.ID = stored.ID
	return u
}

func (u User) Validate() error {
	var role *ValidationError
	if !u.Role.Valid() {
		role = &ValidationError{Field: "role", Message: "must be USER or ADMIN"}
	}
	return firstInvalid(
		required("username", u.Username),
		required("password", u.Password),
		required("fullname", u.Fullname),
		role,
	)
}

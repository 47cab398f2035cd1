// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package users

import (
	"unicode"

	"github.com/samber/oops"

	"github.com/poseiden/backoffice/internal/entity"
)

// MinPasswordLength is the shortest password the policy accepts.
const MinPasswordLength = 8

// PasswordPolicyMessage describes the policy to users.
const PasswordPolicyMessage = "the password must contain at least 8 characters, 1 uppercase letter, 1 lowercase letter, 1 number and a special character"

// ValidatePasswordPolicy checks a plaintext password against the account
// password rules. Failures are USER_WEAK_PASSWORD errors wrapping an
// *entity.ValidationError for field "password".
func ValidatePasswordPolicy(password string) error {
	var upper, lower, digit, special bool
	length := 0
	for _, r := range password {
		length++
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && r != '_':
			special = true
		}
	}

	if length >= MinPasswordLength && upper && lower && digit && special {
		return nil
	}
	return oops.Code("USER_WEAK_PASSWORD").
		With("length", length).
		Wrap(&entity.ValidationError{Field: "password", Message: PasswordPolicyMessage})
}

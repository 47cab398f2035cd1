// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package errutil_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"

	"github.com/poseiden/backoffice/pkg/errutil"
)

func TestCode(t *testing.T) {
	sentinel := errors.New("not found")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain error", sentinel, ""},
		{"coded", oops.Code("ENTITY_NOT_FOUND").Wrap(sentinel), "ENTITY_NOT_FOUND"},
		{"wrapped by fmt", fmt.Errorf("outer: %w", oops.Code("INNER").Wrap(sentinel)), "INNER"},
		{"innermost wins", oops.Code("OUTER").Wrap(oops.Code("INNER").Wrap(sentinel)), "INNER"},
		{"uncoded oops", oops.With("k", "v").Wrap(sentinel), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errutil.Code(tt.err))
		})
	}
}

func TestHasCode(t *testing.T) {
	err := oops.Code("USER_DUPLICATE_USERNAME").Errorf("taken")
	assert.True(t, errutil.HasCode(err, "USER_DUPLICATE_USERNAME"))
	assert.False(t, errutil.HasCode(err, "ENTITY_NOT_FOUND"))
	assert.False(t, errutil.HasCode(nil, ""))
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poseiden/backoffice/pkg/errutil"
)

func TestGenerateSchema_DescribesConfigKeys(t *testing.T) {
	raw, err := GenerateSchema()
	require.NoError(t, err)

	var schema struct {
		Title      string                     `json:"title"`
		Properties map[string]json.RawMessage `json:"properties"`
		Required   []string                   `json:"required"`
	}
	require.NoError(t, json.Unmarshal(raw, &schema))

	assert.Equal(t, "Poseiden Configuration", schema.Title)
	for _, key := range []string{"http", "metrics", "log", "database", "session", "static", "cors", "storage"} {
		assert.Contains(t, schema.Properties, key)
	}
	assert.Empty(t, schema.Required)
	assert.Contains(t, string(schema.Properties["database"]), `"pattern"`)
}

func TestValidateDocument_Valid(t *testing.T) {
	doc := `
http:
  addr: 0.0.0.0:8080
metrics:
  addr: ""
log:
  format: text
  level: debug
database:
  url: postgres://poseiden@db/poseiden
  connect_timeout: 1m30s
session:
  ttl: 12h
  cookie_name: backoffice
static:
  dir: /srv/static
cors:
  allowed_origins:
    - https://a.example.com
    - https://b.example.com
storage: postgres
`
	assert.NoError(t, ValidateDocument([]byte(doc)))
}

func TestValidateDocument_Empty(t *testing.T) {
	assert.NoError(t, ValidateDocument(nil))
	assert.NoError(t, ValidateDocument([]byte("# comments only\n")))
}

func TestValidateDocument_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown top-level key", "listen: :8080\n"},
		{"unknown nested key", "session:\n  lifetime: 1h\n"},
		{"duration as number", "session:\n  ttl: 3600\n"},
		{"duration without unit", "database:\n  connect_timeout: \"30\"\n"},
		{"bad log format", "log:\n  format: xml\n"},
		{"origins not a list", "cors:\n  allowed_origins: https://a.example.com\n"},
		{"section not a map", "http: 8080\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument([]byte(tt.doc))
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "CONFIG_SCHEMA_INVALID")
		})
	}
}

func TestValidateDocument_MalformedYAML(t *testing.T) {
	err := ValidateDocument([]byte("cors: [unterminated\n"))
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_PARSE_FAILED")
}

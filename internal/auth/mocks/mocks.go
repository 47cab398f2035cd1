// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

// Package mocks provides testify mocks for the auth package interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/poseiden/backoffice/internal/auth"
)

// TestingT is the subset of *testing.T the mock constructors need.
type TestingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockCredentialStore is a mock of auth.CredentialStore.
type MockCredentialStore struct {
	mock.Mock
}

// NewMockCredentialStore creates a MockCredentialStore that asserts its
// expectations when the test ends.
func NewMockCredentialStore(t TestingT) *MockCredentialStore {
	m := &MockCredentialStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// FindCredential implements auth.CredentialStore.
func (m *MockCredentialStore) FindCredential(ctx context.Context, username string) (*auth.Credential, error) {
	args := m.Called(ctx, username)
	var cred *auth.Credential
	if v := args.Get(0); v != nil {
		cred = v.(*auth.Credential)
	}
	return cred, args.Error(1)
}

// UpdatePasswordHash implements auth.CredentialStore.
func (m *MockCredentialStore) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	return m.Called(ctx, username, hash).Error(0)
}

// MockSessionRepository is a mock of auth.SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

// NewMockSessionRepository creates a MockSessionRepository that asserts its
// expectations when the test ends.
func NewMockSessionRepository(t TestingT) *MockSessionRepository {
	m := &MockSessionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Create implements auth.SessionRepository.
func (m *MockSessionRepository) Create(ctx context.Context, session *auth.Session) error {
	return m.Called(ctx, session).Error(0)
}

// GetByTokenHash implements auth.SessionRepository.
func (m *MockSessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*auth.Session, error) {
	args := m.Called(ctx, tokenHash)
	var s *auth.Session
	if v := args.Get(0); v != nil {
		s = v.(*auth.Session)
	}
	return s, args.Error(1)
}

// UpdateLastSeen implements auth.SessionRepository.
func (m *MockSessionRepository) UpdateLastSeen(ctx context.Context, id ulid.ULID, lastSeen time.Time) error {
	return m.Called(ctx, id, lastSeen).Error(0)
}

// Delete implements auth.SessionRepository.
func (m *MockSessionRepository) Delete(ctx context.Context, id ulid.ULID) error {
	return m.Called(ctx, id).Error(0)
}

// DeleteExpired implements auth.SessionRepository.
func (m *MockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockPasswordHasher is a mock of auth.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a MockPasswordHasher that asserts its
// expectations when the test ends.
func NewMockPasswordHasher(t TestingT) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Hash implements auth.PasswordHasher.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

// Verify implements auth.PasswordHasher.
func (m *MockPasswordHasher) Verify(password, hash string) (bool, error) {
	args := m.Called(password, hash)
	return args.Bool(0), args.Error(1)
}

// NeedsUpgrade implements auth.PasswordHasher.
func (m *MockPasswordHasher) NeedsUpgrade(hash string) bool {
	return m.Called(hash).Bool(0)
}

var (
	_ auth.CredentialStore   = (*MockCredentialStore)(nil)
	_ auth.SessionRepository = (*MockSessionRepository)(nil)
	_ auth.PasswordHasher    = (*MockPasswordHasher)(nil)
)

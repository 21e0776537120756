package credentials_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-credentials"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// MockUserStore implements credentials.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*credentials.User, error) {
	args := m.Called(ctx, email)
	var user *credentials.User
	if u := args.Get(0); u != nil {
		user = u.(*credentials.User)
	}
	return user, args.Error(1)
}

func (m *MockUserStore) Register(ctx context.Context, user *credentials.User) (*credentials.User, error) {
	args := m.Called(ctx, user)
	var created *credentials.User
	if u := args.Get(0); u != nil {
		created = u.(*credentials.User)
	}
	return created, args.Error(1)
}

// MockIdentityProvider implements credentials.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (*credentials.User, error) {
	args := m.Called(ctx, identifier, password)
	var user *credentials.User
	if u := args.Get(0); u != nil {
		user = u.(*credentials.User)
	}
	return user, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByEmail(ctx context.Context, email string) (*credentials.User, error) {
	args := m.Called(ctx, email)
	var user *credentials.User
	if u := args.Get(0); u != nil {
		user = u.(*credentials.User)
	}
	return user, args.Error(1)
}

// MockLogger implements credentials.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

type noopLogger struct{}

func (noopLogger) Debug(format string, args ...any) {}
func (noopLogger) Info(format string, args ...any)  {}
func (noopLogger) Warn(format string, args ...any)  {}
func (noopLogger) Error(format string, args ...any) {}

func newTestConfig() *credentials.SimpleConfig {
	return &credentials.SimpleConfig{
		SigningKey:      "test-signing-key",
		SigningMethod:   "HS256",
		Issuer:          "test-issuer",
		Audience:        []string{"test-audience"},
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

const testPassword = "correct-horse-battery"

var (
	testHashOnce sync.Once
	testHash     string
	testHashErr  error
)

// testPasswordHash hashes testPassword exactly once per test binary; the
// hash cost makes per-test hashing prohibitively slow.
func testPasswordHash(t *testing.T) string {
	t.Helper()
	testHashOnce.Do(func() {
		testHash, testHashErr = credentials.HashPassword(testPassword)
	})
	require.NoError(t, testHashErr)
	return testHash
}

func activeUser(t *testing.T, email string) *credentials.User {
	t.Helper()
	return &credentials.User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     "Test User",
		PasswordHash: testPasswordHash(t),
		IsActive:     true,
	}
}

func notFoundErr(email string) error {
	return repository.NewRecordNotFound().WithMetadata(map[string]any{"email": email})
}

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = db.NewCreateTable().
		Model((*credentials.User)(nil)).
		IfNotExists().
		Exec(context.Background())
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return db
}

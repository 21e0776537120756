package credentials

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// UserProvider resolves and verifies accounts against a UserStore. It never
// caches records; every call re-fetches from the store so concurrent status
// changes are observed.
type UserProvider struct {
	store  UserStore
	logger Logger
}

var _ IdentityProvider = (*UserProvider)(nil)

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and check status.
// An unknown email and a wrong password both fail with the same
// ErrInvalidCredentials value so the response never reveals whether the
// account exists.
func (u *UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (*User, error) {
	user, err := u.store.GetByEmail(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			u.logger.Warn("authentication failed, user not found", "identifier", identifier)
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if !errors.Is(err, ErrMismatchedHashAndPassword) {
			// Stored hash did not parse; surface the same credential error
			// but flag the record for operators.
			u.logger.Error("stored password hash failed verification", "user_id", user.ID.String(), "error", err)
		} else {
			u.logger.Warn("authentication failed, invalid password", "identifier", identifier)
		}
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		u.logger.Warn("authentication blocked, inactive account", "identifier", identifier)
		return nil, ErrAccountInactive
	}

	return user, nil
}

// FindIdentityByEmail fetches the account for a token subject. A missing
// account maps to ErrAccountNotFound; active status is left for callers to
// interpret per operation.
func (u *UserProvider) FindIdentityByEmail(ctx context.Context, email string) (*User, error) {
	user, err := u.store.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user by email")
	}

	return user, nil
}

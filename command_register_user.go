package credentials

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// RegisterUserMessage carries a new account request. Active defaults to true
// when nil, Superuser defaults to false, matching the account record
// defaults.
type RegisterUserMessage struct {
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Password  string `json:"password"`
	Active    *bool  `json:"is_active"`
	Superuser bool   `json:"is_superuser"`
	UseHashid bool
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// RegisterUserHandler orchestrates duplicate-check, hash, and persist for a
// new account. The steps are linear with no retries: a uniqueness violation
// raised by the store after the pre-check passed (a concurrent registration
// of the same email) resolves to ErrDuplicateAccount, and the transaction
// rollback guarantees no partial account is left committed.
type RegisterUserHandler struct {
	repo   RepositoryManager
	logger Logger
}

var _ AccountRegistrerer = (*RegisterUserHandler)(nil)

func NewRegisterUserHandler(repo RepositoryManager) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

// execute runs under the caller's context as-is: deadlines belong to the
// caller, the handler imposes none of its own.
func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	user := &User{}

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := h.repo.Users().GetByEmailTx(ctx, tx, event.Email); err == nil {
			return ErrDuplicateAccount
		} else if !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing account")
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.PasswordHash = hash
		user.Email = event.Email
		user.FullName = event.FullName
		user.IsActive = true
		if event.Active != nil {
			user.IsActive = *event.Active
		}
		user.IsSuperuser = event.Superuser
		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = h.repo.Users().CreateTx(ctx, tx, user); err != nil {
			if IsUniqueViolation(err) {
				return ErrDuplicateAccount
			}
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		return nil
	})

	if err != nil {
		if goerrors.Is(err, ErrDuplicateAccount) {
			h.logger.Warn("registration rejected, duplicate account", "email", event.Email)
			return nil, ErrDuplicateAccount
		}

		h.logger.Error("user registration failed", "error", err)
		return nil, goerrors.Wrap(err, ErrRegistrationFailed.Category, ErrRegistrationFailed.Message).
			WithTextCode(ErrRegistrationFailed.TextCode)
	}

	h.logger.Info("user registered", "email", user.Email, "id", user.ID.String())
	return user, nil
}

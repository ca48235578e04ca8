package scholar

import (
	"context"
	stderrors "errors"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if stderrors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// CredentialStore is the lookup surface credential verification needs.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// CredentialVerifier checks a submitted email/password pair against the
// stored hash. Lookup misses and hash mismatches collapse into the same
// rejection so callers cannot probe which emails exist.
type CredentialVerifier struct {
	store  CredentialStore
	logger Logger
}

// NewCredentialVerifier will create a new CredentialVerifier
func NewCredentialVerifier(store CredentialStore) *CredentialVerifier {
	return &CredentialVerifier{
		store:  store,
		logger: defLogger{},
	}
}

func (v *CredentialVerifier) WithLogger(l Logger) *CredentialVerifier {
	if l != nil {
		v.logger = l
	}
	return v
}

// VerifyCredentials compares the submitted password with the stored hash for
// email. A nil return means the credentials are valid.
func (v *CredentialVerifier) VerifyCredentials(ctx context.Context, email, password string) error {
	user, err := v.store.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) || errors.IsNotFound(err) {
			return ErrMismatchedHashAndPassword
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user.PasswordHash == "" {
		// Record was created without a credential (e.g. social signup).
		return ErrMismatchedHashAndPassword
	}

	return ComparePasswordAndHash(password, user.PasswordHash)
}

package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/davryn/identity-service/internal/application"
	"github.com/davryn/identity-service/internal/domain/repository"
	"github.com/davryn/identity-service/internal/infrastructure/memory"
	"github.com/davryn/identity-service/pkg/helpers"
)

type fixture struct {
	svc     *application.Service
	repo    *memory.UserRepository
	mail    *memory.Mailer
	events  *memory.EventLog
	reset   *memory.TokenStore
	confirm *memory.TokenStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := memory.NewUserRepository()
	mail := &memory.Mailer{}
	events := &memory.EventLog{}
	reset := memory.NewTokenStore()
	confirm := memory.NewTokenStore()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	svc := application.NewService(repo, helpers.NewJWTManager("test-secret", time.Hour), mail, events, reset, confirm, logger)
	svc.BcryptCost = bcrypt.MinCost
	svc.ResetURL = "https://app.example.com/reset-password"
	return &fixture{svc: svc, repo: repo, mail: mail, events: events, reset: reset, confirm: confirm}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, "alice@example.com", u.Email.Address())
	require.False(t, u.IsVerified)
	require.True(t, u.VerifyPassword("password123"))

	evts := f.events.Events()
	require.Len(t, evts, 1)
	require.Equal(t, u.ID, evts[0].UserID)
	require.NotEmpty(t, evts[0].ConfirmationToken)

	// The confirmation token from the event redeems to this user.
	uid, err := f.confirm.Redeem(ctx, evts[0].ConfirmationToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, uid)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, "alice@EXAMPLE.com", "otherpassword")
	require.ErrorIs(t, err, application.ErrDuplicateEmail)

	// Local-part case variants collide too; matching folds the whole
	// address like the storage index does.
	_, err = f.svc.Register(ctx, "Alice@example.com", "otherpassword")
	require.ErrorIs(t, err, application.ErrDuplicateEmail)
}

func TestRegisterInvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "not-an-email", "password123")
	require.ErrorIs(t, err, application.ErrInvalidInput)

	_, err = f.svc.Register(ctx, "bob@example.com", "")
	require.ErrorIs(t, err, application.ErrInvalidInput)
}

func TestRegisterEventDispatchFailure(t *testing.T) {
	f := newFixture(t)
	f.events.Err = errors.New("broker down")
	ctx := context.Background()

	u, err := f.svc.Register(ctx, "carol@example.com", "password123")
	require.ErrorIs(t, err, application.ErrEventDispatchFailed)
	require.NotNil(t, u, "the created user is still returned")

	// The record survives the failed dispatch.
	got, err := f.repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email.Address(), got.Email.Address())
}

func TestRegisterConfirmTokenStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.confirm.Err = errors.New("redis down")
	ctx := context.Background()

	u, err := f.svc.Register(ctx, "dina@example.com", "password123")
	require.NoError(t, err, "registration survives a token-store outage")
	require.NotNil(t, u)

	// The event must not carry a token nothing can redeem.
	evts := f.events.Events()
	require.Len(t, evts, 1)
	require.Empty(t, evts[0].ConfirmationToken)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.svc.Register(ctx, "dave@example.com", "password123")
	require.NoError(t, err)

	got, token, exp, err := f.svc.Login(ctx, "dave@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.NotEmpty(t, token)
	require.True(t, exp.After(time.Now()))

	sub, err := f.svc.JWT.Verify(token)
	require.NoError(t, err)
	require.Equal(t, u.ID, sub)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "erin@example.com", "password123")
	require.NoError(t, err)

	cases := map[string][2]string{
		"wrong password":  {"erin@example.com", "nope-nope-nope"},
		"unknown email":   {"ghost@example.com", "password123"},
		"malformed email": {"not-an-email", "password123"},
		"empty password":  {"erin@example.com", ""},
	}
	for name, c := range cases {
		_, _, _, err := f.svc.Login(ctx, c[0], c[1])
		require.ErrorIs(t, err, application.ErrInvalidCredentials, name)
	}
}

func TestPasswordResetCycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.svc.Register(ctx, "frank@example.com", "oldpassword1")
	require.NoError(t, err)

	token, err := f.svc.RequestPasswordReset(ctx, "frank@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sent := f.mail.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, "frank@example.com", sent[0].To)
	require.Contains(t, sent[0].Body, token)
	require.Contains(t, sent[0].Body, f.svc.ResetURL)

	require.NoError(t, f.svc.ConfirmPasswordReset(ctx, token, "newpassword1"))

	got, err := f.repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.VerifyPassword("newpassword1"))
	require.False(t, got.VerifyPassword("oldpassword1"))
}

func TestPasswordResetTokenSingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "gina@example.com", "oldpassword1")
	require.NoError(t, err)

	token, err := f.svc.RequestPasswordReset(ctx, "gina@example.com")
	require.NoError(t, err)
	require.NoError(t, f.svc.ConfirmPasswordReset(ctx, token, "newpassword1"))

	err = f.svc.ConfirmPasswordReset(ctx, token, "anotherpass1")
	require.ErrorIs(t, err, application.ErrResetTokenInvalid)
}

func TestPasswordResetRejectedPasswordKeepsToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "hilda@example.com", "oldpassword1")
	require.NoError(t, err)

	token, err := f.svc.RequestPasswordReset(ctx, "hilda@example.com")
	require.NoError(t, err)

	err = f.svc.ConfirmPasswordReset(ctx, token, "")
	require.ErrorIs(t, err, application.ErrInvalidInput)

	// The rejected attempt must not burn the token.
	require.NoError(t, f.svc.ConfirmPasswordReset(ctx, token, "newpassword1"))
}

func TestPasswordResetBadToken(t *testing.T) {
	f := newFixture(t)
	err := f.svc.ConfirmPasswordReset(context.Background(), "no-such-token", "newpassword1")
	require.ErrorIs(t, err, application.ErrResetTokenInvalid)
}

func TestPasswordResetExpiredToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "henry@example.com", "oldpassword1")
	require.NoError(t, err)

	token, err := f.svc.RequestPasswordReset(ctx, "henry@example.com")
	require.NoError(t, err)

	f.reset.Now = func() time.Time { return time.Now().Add(time.Hour) }
	err = f.svc.ConfirmPasswordReset(ctx, token, "newpassword1")
	require.ErrorIs(t, err, application.ErrResetTokenInvalid)
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, application.ErrUserNotFound)
	require.Empty(t, f.mail.Sent())
}

func TestConfirmEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.svc.Register(ctx, "iris@example.com", "password123")
	require.NoError(t, err)
	require.False(t, u.IsVerified)

	token := f.events.Events()[0].ConfirmationToken
	got, err := f.svc.ConfirmEmail(ctx, token)
	require.NoError(t, err)
	require.True(t, got.IsVerified)

	// Single use here too.
	_, err = f.svc.ConfirmEmail(ctx, token)
	require.ErrorIs(t, err, application.ErrResetTokenInvalid)
}

func TestUpdateProfilePartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.svc.Register(ctx, "jack@example.com", "password123")
	require.NoError(t, err)

	// Password only: email untouched.
	got, err := f.svc.UpdateProfile(ctx, u.ID, application.UpdateProfileInput{NewPassword: "changed-pw-1"})
	require.NoError(t, err)
	require.Equal(t, "jack@example.com", got.Email.Address())
	require.True(t, got.VerifyPassword("changed-pw-1"))

	// The old address still resolves the account.
	byEmail, err := f.repo.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	// Email only: password untouched.
	got, err = f.svc.UpdateProfile(ctx, u.ID, application.UpdateProfileInput{NewEmail: "jack2@example.com"})
	require.NoError(t, err)
	require.Equal(t, "jack2@example.com", got.Email.Address())
	require.True(t, got.VerifyPassword("changed-pw-1"))
}

func TestUpdateProfileEmailTaken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "kate@example.com", "password123")
	require.NoError(t, err)
	u, err := f.svc.Register(ctx, "liam@example.com", "password123")
	require.NoError(t, err)

	_, err = f.svc.UpdateProfile(ctx, u.ID, application.UpdateProfileInput{NewEmail: "kate@example.com"})
	require.ErrorIs(t, err, application.ErrEmailTaken)

	// Re-submitting your own address is not a conflict.
	_, err = f.svc.UpdateProfile(ctx, u.ID, application.UpdateProfileInput{NewEmail: "liam@example.com"})
	require.NoError(t, err)
}

func TestSoftDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.svc.Register(ctx, "mona@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, u.ID, false))

	// Gone from the authentication surface.
	_, _, _, err = f.svc.Login(ctx, "mona@example.com", "password123")
	require.ErrorIs(t, err, application.ErrInvalidCredentials)

	_, err = f.svc.GetProfile(ctx, u.ID)
	require.ErrorIs(t, err, application.ErrUserNotFound)

	// Still on record by id for audit.
	got, err := f.repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.IsDeleted)

	// The freed address can be registered again.
	_, err = f.svc.Register(ctx, "mona@example.com", "password123")
	require.NoError(t, err)
}

func TestHardDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.svc.Register(ctx, "nick@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, u.ID, true))

	_, err = f.repo.GetByID(ctx, u.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

// noHardDeleteRepo wraps the in-memory directory with a backend that
// cannot erase records.
type noHardDeleteRepo struct {
	*memory.UserRepository
}

func (noHardDeleteRepo) HardDelete(ctx context.Context, id string) error {
	return repository.ErrHardDeleteUnsupported
}

func TestHardDeleteUnsupported(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.svc.Register(ctx, "olga@example.com", "password123")
	require.NoError(t, err)

	f.svc.Repo = noHardDeleteRepo{f.repo}
	err = f.svc.Delete(ctx, u.ID, true)
	require.ErrorIs(t, err, application.ErrHardDeleteUnsupported)

	// The record is untouched.
	_, err = f.repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
}

func TestDeleteUnknownUser(t *testing.T) {
	f := newFixture(t)
	err := f.svc.Delete(context.Background(), "no-such-id", false)
	require.ErrorIs(t, err, application.ErrUserNotFound)
}

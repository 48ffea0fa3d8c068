package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/davryn/identity-service/internal/domain/entity"
	"github.com/davryn/identity-service/internal/domain/event"
	"github.com/davryn/identity-service/internal/domain/repository"
	"github.com/davryn/identity-service/internal/domain/valueobject"
	"github.com/davryn/identity-service/pkg/helpers"
)

const tokenBytes = 32

// Service carries the identity workflows: registration, login,
// password reset, email confirmation, profile update and deletion.
// Every invocation is request-scoped and synchronous; the only shared
// state lives behind the injected collaborators.
type Service struct {
	Repo          repository.UserRepository
	JWT           *helpers.JWTManager
	Mail          Mailer
	Events        EventPublisher
	ResetTokens   TokenStore
	ConfirmTokens TokenStore
	Logger        *logrus.Logger

	BcryptCost    int
	ResetTokenTTL time.Duration
	ResetURL      string
}

func NewService(repo repository.UserRepository, jwt *helpers.JWTManager, mail Mailer, events EventPublisher, resetTokens, confirmTokens TokenStore, logger *logrus.Logger) *Service {
	return &Service{
		Repo:          repo,
		JWT:           jwt,
		Mail:          mail,
		Events:        events,
		ResetTokens:   resetTokens,
		ConfirmTokens: confirmTokens,
		Logger:        logger,
		BcryptCost:    bcrypt.DefaultCost,
		ResetTokenTTL: 30 * time.Minute,
	}
}

// Register validates input, checks uniqueness, persists a new user and
// emits a UserRegistered event. The repository's unique index is the
// authoritative duplicate guard; the lookup here is the fast path.
func (s *Service) Register(ctx context.Context, email, password string) (*entity.User, error) {
	em, err := valueobject.ParseEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if existing, err := s.Repo.GetByEmail(ctx, em); err == nil && existing != nil {
		return nil, ErrDuplicateEmail
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("uniqueness check: %w", err)
	}

	hash, err := valueobject.NewPasswordHashWithCost(password, s.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	u := entity.NewUser(em, hash)
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("persist user: %w", err)
	}

	confirmToken, err := helpers.GenerateToken(tokenBytes)
	if err != nil {
		return nil, err
	}
	if s.ConfirmTokens != nil {
		if err := s.ConfirmTokens.Save(ctx, confirmToken, u.ID, 24*time.Hour); err != nil {
			// Registration still succeeds, but the event must not carry
			// a token that can never redeem.
			s.logError("store confirmation token", err, u.ID)
			confirmToken = ""
		}
	}

	if s.Events != nil {
		evt := event.UserRegistered{
			UserID:            u.ID,
			Email:             u.Email.Address(),
			RegisteredAt:      u.CreatedAt,
			ConfirmationToken: confirmToken,
		}
		if err := s.Events.PublishUserRegistered(ctx, evt); err != nil {
			s.logError("publish user registered", err, u.ID)
			// The user record stays persisted; compensating cleanup is
			// the caller's decision.
			return u, fmt.Errorf("%w: %v", ErrEventDispatchFailed, err)
		}
	}
	return u, nil
}

// Login authenticates by email and password and issues a bearer token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	em, err := valueobject.ParseEmail(email)
	if err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	u, err := s.Repo.GetByEmail(ctx, em)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, fmt.Errorf("lookup user: %w", err)
	}
	if !u.VerifyPassword(password) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	token, exp, err := s.JWT.Issue(u.ID)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}
	return u, token, exp, nil
}

// GetProfile returns the user for an authenticated id. Soft-deleted
// accounts are not visible through the profile surface.
func (s *Service) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if u.IsDeleted {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// RequestPasswordReset generates a single-use reset token, stores it
// server-side for later redemption and mails the reset link. The token
// is returned for the caller's response body.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	em, err := valueobject.ParseEmail(email)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	u, err := s.Repo.GetByEmail(ctx, em)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	token, err := helpers.GenerateToken(tokenBytes)
	if err != nil {
		return "", err
	}
	if err := s.ResetTokens.Save(ctx, token, u.ID, s.ResetTokenTTL); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}

	body := fmt.Sprintf(
		"You requested a password reset. Open the link below to choose a new password:\n\n%s?token=%s\n\nThe link expires in %s. If you did not request this, ignore this email.",
		s.ResetURL, token, s.ResetTokenTTL,
	)
	if err := s.Mail.Send(ctx, u.Email.Address(), "Reset your password", body); err != nil {
		return "", fmt.Errorf("send reset email: %w", err)
	}
	return token, nil
}

// ConfirmPasswordReset redeems a reset token and installs the new
// password. The password is validated before redemption so a rejected
// password does not burn the single-use token.
func (s *Service) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	hash, err := valueobject.NewPasswordHashWithCost(newPassword, s.BcryptCost)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	userID, err := s.ResetTokens.Redeem(ctx, token)
	if err != nil {
		return ErrResetTokenInvalid
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	u.Password = hash
	u.UpdatedAt = time.Now().UTC()
	return s.Repo.Update(ctx, u)
}

// ConfirmEmail redeems a registration confirmation token and marks the
// account verified.
func (s *Service) ConfirmEmail(ctx context.Context, token string) (*entity.User, error) {
	userID, err := s.ConfirmTokens.Redeem(ctx, token)
	if err != nil {
		return nil, ErrResetTokenInvalid
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.IsVerified = true
	u.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateProfileInput carries the optional fields of a partial update.
// Empty strings leave the field unchanged.
type UpdateProfileInput struct {
	NewEmail    string
	NewPassword string
}

// UpdateProfile applies only the provided fields after revalidating
// email uniqueness.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if u.IsDeleted {
		return nil, ErrUserNotFound
	}

	if in.NewEmail != "" {
		em, err := valueobject.ParseEmail(in.NewEmail)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		existing, err := s.Repo.GetByEmail(ctx, em)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("uniqueness check: %w", err)
		}
		if existing != nil && existing.ID != u.ID {
			return nil, ErrEmailTaken
		}
		u.Email = em
	}
	if in.NewPassword != "" {
		hash, err := valueobject.NewPasswordHashWithCost(in.NewPassword, s.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		u.Password = hash
	}

	u.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Lost the uniqueness race to a concurrent writer.
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Delete removes an account. Soft delete flags the record and keeps it
// queryable by id; hard delete removes it permanently and backings
// without support return ErrHardDeleteUnsupported.
func (s *Service) Delete(ctx context.Context, userID string, hard bool) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if hard {
		return s.Repo.HardDelete(ctx, u.ID)
	}
	u.IsDeleted = true
	u.UpdatedAt = time.Now().UTC()
	return s.Repo.Update(ctx, u)
}

func (s *Service) logError(msg string, err error, userID string) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Error(msg)
	}
}

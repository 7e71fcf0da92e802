package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/agromart/internal/apperr"
	"github.com/mmeshcher/agromart/internal/model"
	"github.com/mmeshcher/agromart/internal/notify"
	"github.com/mmeshcher/agromart/internal/otp"
	"github.com/mmeshcher/agromart/internal/repository"
	"github.com/mmeshcher/agromart/internal/secret"
	"github.com/mmeshcher/agromart/internal/validation"
)

// SignupInput содержит данные регистрации.
type SignupInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required,phone"`
}

// AccountService регистрирует покупателей, подтверждает email и выдаёт токены.
type AccountService struct {
	repo     AccountRepository
	hasher   secret.Hasher
	otps     *otp.Manager
	tokens   TokenIssuer
	notifier Notifier
	validate *validation.Validator
	logger   *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAccountService создаёт сервис аккаунтов.
func NewAccountService(
	repo AccountRepository,
	hasher secret.Hasher,
	otps *otp.Manager,
	tokens TokenIssuer,
	notifier Notifier,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		repo:     repo,
		hasher:   hasher,
		otps:     otps,
		tokens:   tokens,
		notifier: notifier,
		validate: validation.New(),
		logger:   logger,
	}
}

// NormalizeEmail приводит email к виду, в котором он хранится.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup создаёт неподтверждённый аккаунт и отправляет код подтверждения.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*model.Account, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	_, err := s.repo.GetAccountByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, apperr.New(apperr.KindDuplicateEmail, apperr.MsgDuplicateEmail)
	case !errors.Is(err, repository.ErrAccountNotFound):
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acc := &model.Account{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: passwordHash,
	}

	code, err := s.otps.Issue(acc)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, repository.ErrAccountExists) {
			return nil, apperr.Wrap(apperr.KindDuplicateEmail, apperr.MsgDuplicateEmail, err)
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.notifier.Go(notify.VerificationMessage(acc, code, s.otps.TTL()))
	s.logger.Info("account registered", zap.String("account_id", acc.ID.String()))

	return acc, nil
}

func (s *AccountService) pendingAccount(ctx context.Context, email string) (*model.Account, error) {
	acc, err := s.repo.GetAccountByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, apperr.Wrap(apperr.KindNotFound, apperr.MsgUserNotFound, err)
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if acc.IsVerified {
		return nil, apperr.New(apperr.KindAlreadyVerified, apperr.MsgAlreadyVerified)
	}
	return acc, nil
}

// VerifyOTP подтверждает email кодом и выдаёт токен сессии.
func (s *AccountService) VerifyOTP(ctx context.Context, email, code string) (string, *model.Account, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(code) == "" {
		return "", nil, apperr.New(apperr.KindValidation, "Email and OTP are required")
	}

	acc, err := s.pendingAccount(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if !s.otps.Verify(acc, strings.TrimSpace(code)) {
		return "", nil, apperr.New(apperr.KindInvalidOTP, apperr.MsgInvalidOTP)
	}

	acc.IsVerified = true
	s.otps.Clear(acc)

	if err := s.repo.UpdateAccount(ctx, acc); err != nil {
		return "", nil, fmt.Errorf("save verified account: %w", err)
	}

	token, err := s.tokens.Issue(acc.ID)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("account verified", zap.String("account_id", acc.ID.String()))
	return token, acc, nil
}

// ResendOTP выдаёт новый код с учётом интервала и лимита повторных отправок.
// Возвращает число сделанных повторных отправок.
func (s *AccountService) ResendOTP(ctx context.Context, email string) (int, error) {
	if strings.TrimSpace(email) == "" {
		return 0, apperr.New(apperr.KindValidation, "Email is required")
	}

	acc, err := s.pendingAccount(ctx, email)
	if err != nil {
		return 0, err
	}

	now := s.otps.Now()
	if !s.otps.CanResend(acc, now) {
		return 0, apperr.New(apperr.KindRateLimited, apperr.MsgRateLimited)
	}

	code, err := s.otps.Issue(acc)
	if err != nil {
		return 0, err
	}
	s.otps.RecordResend(acc, now)

	if err := s.repo.UpdateAccount(ctx, acc); err != nil {
		return 0, fmt.Errorf("save resent otp: %w", err)
	}

	s.notifier.Go(notify.VerificationMessage(acc, code, s.otps.TTL()))
	return acc.OTPResendCount, nil
}

// MaxResends возвращает лимит повторных отправок кода.
func (s *AccountService) MaxResends() int {
	return s.otps.MaxResends()
}

// Login проверяет пароль подтверждённого аккаунта и выдаёт токен.
// Неизвестный email и неверный пароль неотличимы для клиента.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *model.Account, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, apperr.New(apperr.KindValidation, "Email and password are required")
	}

	acc, err := s.repo.GetAccountByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, repository.ErrAccountNotFound) {
			return "", nil, fmt.Errorf("lookup account: %w", err)
		}
		// Сравнение с фиктивным хешем выравнивает время ответа.
		s.hasher.Verify(password, s.dummy())
		return "", nil, apperr.New(apperr.KindInvalidCredentials, apperr.MsgInvalidCredentials)
	}

	if !s.hasher.Verify(password, acc.PasswordHash) {
		return "", nil, apperr.New(apperr.KindInvalidCredentials, apperr.MsgInvalidCredentials)
	}

	if !acc.IsVerified {
		return "", nil, apperr.New(apperr.KindUnverifiedAccount, apperr.MsgUnverified)
	}

	token, err := s.tokens.Issue(acc.ID)
	if err != nil {
		return "", nil, err
	}
	return token, acc, nil
}

func (s *AccountService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("agromart-dummy-password")
		if err != nil {
			s.logger.Warn("dummy hash", zap.Error(err))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// Authenticate возвращает аккаунт, которому выдан токен.
// Любой непригодный токен даёт одну и ту же ошибку InvalidToken.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*model.Account, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidToken, apperr.MsgInvalidToken, err)
	}

	acc, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, apperr.Wrap(apperr.KindInvalidToken, apperr.MsgInvalidToken, err)
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	return acc, nil
}

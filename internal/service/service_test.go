package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/agromart/internal/notify"
	"github.com/mmeshcher/agromart/internal/ordernum"
	"github.com/mmeshcher/agromart/internal/otp"
	"github.com/mmeshcher/agromart/internal/repository"
	"github.com/mmeshcher/agromart/internal/secret"
	"github.com/mmeshcher/agromart/internal/token"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// recordingNotifier запоминает письма вместо отправки.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (n *recordingNotifier) Go(msg notify.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *recordingNotifier) messages() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Message(nil), n.sent...)
}

// lastCode возвращает код из последнего письма с подтверждением.
func (n *recordingNotifier) lastCode(t *testing.T) string {
	t.Helper()
	msgs := n.messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if data, ok := msgs[i].Data.(notify.OTPData); ok {
			return data.Code
		}
	}
	t.Fatal("no verification message sent")
	return ""
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Go(msg notify.Message) {
	m.Called(msg)
}

type fixture struct {
	repo     *repository.MemoryRepository
	clock    *fakeClock
	notifier *recordingNotifier
	accounts *AccountService
	tokens   *token.Issuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := &fakeClock{t: time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)}
	repo := repository.NewMemoryRepository()
	hasher := secret.NewBcryptHasher(bcrypt.MinCost)
	notifier := &recordingNotifier{}
	tokens := token.NewIssuer("test-secret", 0)

	accounts := NewAccountService(
		repo,
		hasher,
		otp.NewManager(hasher, otp.WithClock(clock.Now)),
		tokens,
		notifier,
		zap.NewNop(),
	)

	return &fixture{
		repo:     repo,
		clock:    clock,
		notifier: notifier,
		accounts: accounts,
		tokens:   tokens,
	}
}

func (f *fixture) orderService(notifier Notifier, operatorEmail string) *OrderService {
	return NewOrderService(
		f.repo,
		f.repo,
		ordernum.NewGenerator(ordernum.DefaultPrefix, ordernum.WithClock(f.clock.Now)),
		nil,
		notifier,
		operatorEmail,
		zap.NewNop(),
	)
}

func ravi() SignupInput {
	return SignupInput{
		Name:     "Ravi",
		Email:    "ravi@x.in",
		Password: "secret1",
		Phone:    "9876543210",
	}
}

func (f *fixture) verifiedAccount(t *testing.T) (string, SignupInput) {
	t.Helper()
	in := ravi()
	ctx := context.Background()

	_, err := f.accounts.Signup(ctx, in)
	require.NoError(t, err)

	tok, _, err := f.accounts.VerifyOTP(ctx, in.Email, f.notifier.lastCode(t))
	require.NoError(t, err)
	return tok, in
}

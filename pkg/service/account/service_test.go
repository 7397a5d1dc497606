package account_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	infraeventbus "github.com/amirasaad/ledger/infra/eventbus"
	"github.com/amirasaad/ledger/infra/repository/memory"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/dto"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/metrics"
	"github.com/amirasaad/ledger/pkg/notification"
	accountsvc "github.com/amirasaad/ledger/pkg/service/account"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeMetrics struct {
	mu        sync.Mutex
	transfers map[string]int
	created   int
}

func (m *fakeMetrics) TransferAttempt(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.transfers == nil {
		m.transfers = make(map[string]int)
	}
	m.transfers[result]++
}

func (m *fakeMetrics) AccountCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}

type mockBus struct {
	mock.Mock
}

func (b *mockBus) Emit(ctx context.Context, e events.Event) error {
	return b.Called(ctx, e).Error(0)
}

func (b *mockBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.Called(eventType, handler)
}

type ServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	bus     *infraeventbus.MemoryEventBus
	metrics *fakeMetrics
	svc     *accountsvc.Service
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.bus = infraeventbus.NewWithMemory(slog.Default())
	s.metrics = &fakeMetrics{}
	s.svc = accountsvc.NewService(accountsvc.Deps{
		Accounts: memory.NewAccountStore(slog.Default()),
		EventBus: s.bus,
		Metrics:  s.metrics,
		Logger:   slog.Default(),
	})
}

func (s *ServiceTestSuite) create(id string, balance int64) {
	_, err := s.svc.CreateAccount(s.ctx, dto.AccountCreate{AccountID: id, Balance: decimal.NewFromInt(balance)})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) balanceOf(id string) decimal.Decimal {
	acc, err := s.svc.GetAccount(s.ctx, id)
	s.Require().NoError(err)
	return acc.Balance()
}

func (s *ServiceTestSuite) TestCreateAccount() {
	acc, err := s.svc.CreateAccount(s.ctx, dto.AccountCreate{AccountID: "Id-123", Balance: decimal.NewFromInt(1000)})
	s.Require().NoError(err)
	s.Equal("Id-123", acc.ID())
	s.Equal(1, s.metrics.created)

	published := s.bus.Published()
	s.Require().Len(published, 1)
	s.Equal(events.EventTypeAccountCreated.String(), published[0].Type())
}

func (s *ServiceTestSuite) TestCreateAccountDefaultsToZero() {
	acc, err := s.svc.CreateAccount(s.ctx, dto.AccountCreate{AccountID: "Id-0"})
	s.Require().NoError(err)
	s.True(acc.Balance().IsZero())
}

func (s *ServiceTestSuite) TestCreateAccountRejects() {
	_, err := s.svc.CreateAccount(s.ctx, dto.AccountCreate{AccountID: "Id-neg", Balance: decimal.NewFromInt(-1)})
	s.ErrorIs(err, domain.ErrInvalidAmount)

	s.create("Id-123", 1000)
	_, err = s.svc.CreateAccount(s.ctx, dto.AccountCreate{AccountID: "Id-123", Balance: decimal.NewFromInt(1)})
	s.ErrorIs(err, domain.ErrDuplicateAccountID)
	s.True(s.balanceOf("Id-123").Equal(decimal.NewFromInt(1000)))
}

func (s *ServiceTestSuite) TestTransferSuccess() {
	s.create("AC1", 4000)
	s.create("AC2", 3000)
	s.bus.ClearPublished()

	out, err := s.svc.Transfer(s.ctx, dto.TransferRequest{FromID: "AC2", ToID: "AC1", Amount: decimal.NewFromInt(200)})
	s.Require().NoError(err)
	s.True(out.Success)
	s.Equal("200 amount has been transferred from account AC2 to AC1", out.Message)

	s.True(s.balanceOf("AC1").Equal(decimal.NewFromInt(4200)))
	s.True(s.balanceOf("AC2").Equal(decimal.NewFromInt(2800)))
	s.Equal(1, s.metrics.transfers[metrics.ResultSuccess])

	published := s.bus.Published()
	s.Require().Len(published, 1)
	evt, ok := published[0].(*events.TransferCompleted)
	s.Require().True(ok)
	s.Equal("AC2", evt.FromAccountID)
	s.Equal("AC1", evt.ToAccountID)
	s.True(evt.Amount.Equal(decimal.NewFromInt(200)))
}

func (s *ServiceTestSuite) TestTransferInsufficientBalance() {
	s.create("AC1", 4000)
	s.create("AC2", 3000)
	s.bus.ClearPublished()

	out, err := s.svc.Transfer(s.ctx, dto.TransferRequest{FromID: "AC2", ToID: "AC1", Amount: decimal.NewFromInt(3200)})
	s.Require().ErrorIs(err, domain.ErrInsufficientBalance)
	s.False(out.Success)
	s.Equal("Account AC2 does not have sufficient amount to debit from.", out.Message)

	s.True(s.balanceOf("AC1").Equal(decimal.NewFromInt(4000)))
	s.True(s.balanceOf("AC2").Equal(decimal.NewFromInt(3000)))
	s.Empty(s.bus.Published())
	s.Equal(1, s.metrics.transfers[metrics.ResultInsufficient])
}

func (s *ServiceTestSuite) TestTransferUnknownAccount() {
	s.create("AC1", 4000)

	out, err := s.svc.Transfer(s.ctx, dto.TransferRequest{FromID: "AC1", ToID: "AC9", Amount: decimal.NewFromInt(1)})
	s.Require().ErrorIs(err, domain.ErrAccountNotFound)
	s.Equal("Account with id AC9 not found.", out.Message)

	id, ok := domain.AccountIDOf(err)
	s.True(ok)
	s.Equal("AC9", id)
	s.True(s.balanceOf("AC1").Equal(decimal.NewFromInt(4000)))
}

func (s *ServiceTestSuite) TestTransferInvalidRequests() {
	s.create("AC1", 10)
	s.create("AC2", 10)

	cases := []struct {
		name string
		req  dto.TransferRequest
		want error
	}{
		{"zero amount", dto.TransferRequest{FromID: "AC1", ToID: "AC2", Amount: decimal.Zero}, domain.ErrInvalidAmount},
		{"negative amount", dto.TransferRequest{FromID: "AC1", ToID: "AC2", Amount: decimal.NewFromInt(-3)}, domain.ErrInvalidAmount},
		{"same account", dto.TransferRequest{FromID: "AC1", ToID: "AC1", Amount: decimal.NewFromInt(1)}, domain.ErrSameAccount},
		{"missing id", dto.TransferRequest{ToID: "AC1", Amount: decimal.NewFromInt(1)}, domain.ErrInvalidAccountID},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			out, err := s.svc.Transfer(s.ctx, tc.req)
			s.ErrorIs(err, tc.want)
			s.False(out.Success)
		})
	}
	s.True(s.balanceOf("AC1").Equal(decimal.NewFromInt(10)))
	s.True(s.balanceOf("AC2").Equal(decimal.NewFromInt(10)))
	s.Equal(len(cases), s.metrics.transfers[metrics.ResultInvalid])
}

func (s *ServiceTestSuite) TestConcurrentTransfersConserveTotal() {
	ids := []string{"A", "B", "C"}
	for _, id := range ids {
		s.create(id, 100)
	}

	var wg sync.WaitGroup
	for i := 0; i < 300; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			from, to := ids[i%3], ids[(i+1)%3]
			_, _ = s.svc.Transfer(s.ctx, dto.TransferRequest{FromID: from, ToID: to, Amount: decimal.RequireFromString("1.5")})
		}(i)
	}
	wg.Wait()

	total := decimal.Zero
	for _, id := range ids {
		b := s.balanceOf(id)
		s.False(b.IsNegative())
		total = total.Add(b)
	}
	s.True(total.Equal(decimal.NewFromInt(300)), "total drifted to %s", total)
}

func (s *ServiceTestSuite) TestClearAccounts() {
	s.create("AC1", 1)
	s.Require().NoError(s.svc.ClearAccounts(s.ctx))
	_, err := s.svc.GetAccount(s.ctx, "AC1")
	s.ErrorIs(err, domain.ErrAccountNotFound)
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []string
}

func (n *recordingNotifier) NotifyAboutTransfer(_ context.Context, accountID, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, fmt.Sprintf("%s: %s", accountID, message))
	return nil
}

func TestTransfer_NotifiesBothHoldersAsync(t *testing.T) {
	ctx := context.Background()
	bus := infraeventbus.NewWithMemoryAsync(slog.Default(), 2, 16)
	notifier := &recordingNotifier{}
	notification.NewHandler(notifier, time.Second, nil, slog.Default()).Subscribe(bus)

	svc := accountsvc.NewService(accountsvc.Deps{
		Accounts: memory.NewAccountStore(slog.Default()),
		EventBus: bus,
	})
	_, err := svc.CreateAccount(ctx, dto.AccountCreate{AccountID: "AC1", Balance: decimal.NewFromInt(4000)})
	require.NoError(t, err)
	_, err = svc.CreateAccount(ctx, dto.AccountCreate{AccountID: "AC2", Balance: decimal.NewFromInt(3000)})
	require.NoError(t, err)

	_, err = svc.Transfer(ctx, dto.TransferRequest{FromID: "AC2", ToID: "AC1", Amount: decimal.NewFromInt(200)})
	require.NoError(t, err)
	require.NoError(t, bus.Close())

	assert.ElementsMatch(t, []string{
		"AC2: Your account has been debited with 200",
		"AC1: Your account has been credited with 200",
	}, notifier.notices)
}

func TestTransfer_BusFailureDoesNotFailTransfer(t *testing.T) {
	ctx := context.Background()
	bus := new(mockBus)
	bus.On("Emit", mock.Anything, mock.Anything).Return(errors.New("broker unavailable"))

	svc := accountsvc.NewService(accountsvc.Deps{
		Accounts: memory.NewAccountStore(slog.Default()),
		EventBus: bus,
	})
	_, err := svc.CreateAccount(ctx, dto.AccountCreate{AccountID: "AC1", Balance: decimal.NewFromInt(10)})
	require.NoError(t, err)
	_, err = svc.CreateAccount(ctx, dto.AccountCreate{AccountID: "AC2"})
	require.NoError(t, err)

	out, err := svc.Transfer(ctx, dto.TransferRequest{FromID: "AC1", ToID: "AC2", Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.True(t, out.Success)

	acc, err := svc.GetAccount(ctx, "AC2")
	require.NoError(t, err)
	assert.True(t, acc.Balance().Equal(decimal.NewFromInt(10)))
	bus.AssertNumberOfCalls(t, "Emit", 3)
}

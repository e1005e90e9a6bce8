package ledgerservice

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bankops/backoffice/internal/customerrepo"
	"github.com/bankops/backoffice/internal/domain"
	"github.com/bankops/backoffice/internal/snapshot"
	"github.com/bankops/backoffice/pkg/errorspkg"
	"github.com/bankops/backoffice/pkg/randompkg"
)

type recordingPersister struct {
	mu    sync.Mutex
	saves int
	err   error
}

func (p *recordingPersister) Save(ctx context.Context, dir snapshot.Directory) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}

	p.saves++

	return nil
}

type fixture struct {
	service *Service
	repo    *customerrepo.RepoMem
	store   *recordingPersister
}

// newFixture builds a directory with one customer owning an account per
// given currency/balance pair and returns the account numbers in order.
func newFixture(t *testing.T, balances ...[2]string) (fixture, []string) {
	t.Helper()

	ctx := context.Background()
	repo := customerrepo.NewRepoMem()

	customer, err := repo.Create(ctx, randompkg.Name(), randompkg.Email(), randompkg.Age())
	require.NoError(t, err)

	numbers := make([]string, 0, len(balances))

	for _, cb := range balances {
		currency, balance := cb[0], cb[1]

		account, err := repo.AddAccount(ctx, customer.ID, currency)
		require.NoError(t, err)

		if balance != "0" {
			_, live, err := repo.FindAccountOwner(ctx, account.Number)
			require.NoError(t, err)

			money, err := domain.ParseMoney(balance, currency)
			require.NoError(t, err)

			_, err = live.Deposit(money)
			require.NoError(t, err)
		}

		numbers = append(numbers, account.Number)
	}

	store := &recordingPersister{}

	return fixture{service: New(repo, store), repo: repo, store: store}, numbers
}

func TestServiceDeposit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	testCases := []struct {
		name    string
		amount  string
		want    string
		wantErr error
	}{
		{name: "OK", amount: "25.50", want: "125.50"},
		{name: "Zero", amount: "0", wantErr: domain.ErrInvalidAmount},
		{name: "Negative", amount: "-10", wantErr: domain.ErrInvalidAmount},
		{name: "Malformed", amount: "ten", wantErr: domain.ErrInvalidAmount},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f, numbers := newFixture(t, [2]string{"USD", "100"})

			account, err := f.service.Deposit(ctx, numbers[0], tc.amount)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Equal(t, 0, f.store.saves)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, account.Balance)
			require.Equal(t, 1, f.store.saves)
		})
	}

	t.Run("UnknownAccount", func(t *testing.T) {
		t.Parallel()

		f, _ := newFixture(t, [2]string{"USD", "100"})

		_, err := f.service.Deposit(ctx, "unknown", "10")
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}

func TestServiceWithdraw(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	testCases := []struct {
		name    string
		amount  string
		want    string
		wantErr error
	}{
		{name: "OK", amount: "40", want: "60.00"},
		{name: "OverBalance", amount: "100.01", wantErr: domain.ErrInsufficientFunds},
		{name: "Zero", amount: "0", wantErr: domain.ErrInvalidAmount},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f, numbers := newFixture(t, [2]string{"USD", "100"})

			account, err := f.service.Withdraw(ctx, numbers[0], tc.amount)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				// A rejected withdrawal leaves the balance unchanged.
				got, err := f.service.Deposit(ctx, numbers[0], "1")
				require.NoError(t, err)
				require.Equal(t, "101.00", got.Balance)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, account.Balance)
		})
	}
}

func TestServiceTransfer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("OK", func(t *testing.T) {
		t.Parallel()

		f, numbers := newFixture(t, [2]string{"USD", "100"}, [2]string{"USD", "0"})

		result, err := f.service.Transfer(ctx, numbers[0], numbers[1], "40")
		require.NoError(t, err)
		require.Equal(t, "60.00", result.FromAccount.Balance)
		require.Equal(t, "40.00", result.ToAccount.Balance)

		// Exactly one write-through for the whole transfer.
		require.Equal(t, 1, f.store.saves)
	})

	t.Run("CurrencyMismatch", func(t *testing.T) {
		t.Parallel()

		f, numbers := newFixture(t, [2]string{"USD", "100"}, [2]string{"EUR", "0"})

		_, err := f.service.Transfer(ctx, numbers[0], numbers[1], "40")
		require.ErrorIs(t, err, domain.ErrCurrencyMismatch)

		_, from, err := f.repo.FindAccountOwner(ctx, numbers[0])
		require.NoError(t, err)
		require.Equal(t, "100.00", from.Balance().String())

		_, to, err := f.repo.FindAccountOwner(ctx, numbers[1])
		require.NoError(t, err)
		require.Equal(t, "0.00", to.Balance().String())
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		t.Parallel()

		f, numbers := newFixture(t, [2]string{"USD", "30"}, [2]string{"USD", "0"})

		_, err := f.service.Transfer(ctx, numbers[0], numbers[1], "40")
		require.ErrorIs(t, err, domain.ErrInsufficientFunds)

		_, from, err := f.repo.FindAccountOwner(ctx, numbers[0])
		require.NoError(t, err)
		require.Equal(t, "30.00", from.Balance().String())
	})

	t.Run("SameAccount", func(t *testing.T) {
		t.Parallel()

		f, numbers := newFixture(t, [2]string{"USD", "100"})

		_, err := f.service.Transfer(ctx, numbers[0], numbers[0], "40")
		require.ErrorIs(t, err, domain.ErrSameAccount)
	})

	t.Run("UnknownDestination", func(t *testing.T) {
		t.Parallel()

		f, numbers := newFixture(t, [2]string{"USD", "100"})

		_, err := f.service.Transfer(ctx, numbers[0], "unknown", "40")
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("PersistFails", func(t *testing.T) {
		t.Parallel()

		f, numbers := newFixture(t, [2]string{"USD", "100"}, [2]string{"USD", "0"})
		f.store.err = errors.New("disk full")

		_, err := f.service.Transfer(ctx, numbers[0], numbers[1], "40")
		require.ErrorIs(t, err, errorspkg.ErrInternal)
	})
}

func TestServiceDepositWithdrawRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	f, numbers := newFixture(t, [2]string{"USD", "100"})
	amount := randompkg.MoneyAmountBetween(1, 100)

	_, err := f.service.Deposit(ctx, numbers[0], amount)
	require.NoError(t, err)

	account, err := f.service.Withdraw(ctx, numbers[0], amount)
	require.NoError(t, err)
	require.Equal(t, "100.00", account.Balance)
}

// The back-office scenario: transfer, rejected withdrawal, deposit.
func TestServiceScenario(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	f, numbers := newFixture(t, [2]string{"USD", "100"}, [2]string{"USD", "0"})
	a, b := numbers[0], numbers[1]

	result, err := f.service.Transfer(ctx, a, b, "40")
	require.NoError(t, err)
	require.Equal(t, "60.00", result.FromAccount.Balance)
	require.Equal(t, "40.00", result.ToAccount.Balance)

	_, err = f.service.Withdraw(ctx, a, "100")
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	account, err := f.service.Deposit(ctx, b, "10")
	require.NoError(t, err)
	require.Equal(t, "50.00", account.Balance)

	_, from, err := f.repo.FindAccountOwner(ctx, a)
	require.NoError(t, err)
	require.Equal(t, "60.00", from.Balance().String())
}

func TestServiceConcurrentOppositeTransfers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	f, numbers := newFixture(t, [2]string{"USD", "50"}, [2]string{"USD", "50"})
	a, b := numbers[0], numbers[1]

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		_, err := f.service.Transfer(ctx, a, b, "30")
		require.NoError(t, err)
	}()

	go func() {
		defer wg.Done()

		_, err := f.service.Transfer(ctx, b, a, "20")
		require.NoError(t, err)
	}()

	wg.Wait()

	_, fromA, err := f.repo.FindAccountOwner(ctx, a)
	require.NoError(t, err)
	require.Equal(t, "40.00", fromA.Balance().String())

	_, fromB, err := f.repo.FindAccountOwner(ctx, b)
	require.NoError(t, err)
	require.Equal(t, "60.00", fromB.Balance().String())
}

func TestServiceListCustomers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	f, _ := newFixture(t, [2]string{"USD", "100"})

	customers, err := f.service.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	require.Len(t, customers[0].Accounts, 1)
	require.Equal(t, "100.00", customers[0].Accounts[0].Balance)
}

// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bankops/backoffice/pkg/currencypkg"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrUnsupportedCurrency indicates an unrecognized currency code.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	// ErrSameAccount indicates a transfer whose source equals its destination.
	ErrSameAccount = errors.New("transfer source and destination are the same account")
)

// Account holds a balance in a single currency.
//
// The externally visible Number is assigned once at creation and never
// changes; the same holds for the currency. Balance mutations serialize
// on the account's own guard, so concurrent deposits and withdrawals on
// the same account each take effect exactly once and the balance never
// transiently goes negative.
type Account struct {
	id        string
	number    string
	currency  string
	createdAt time.Time

	mu      sync.Mutex
	balance Money
}

// NewAccount returns a zero-balance account in the given currency
// with a freshly assigned account number.
func NewAccount(currency string) (*Account, error) {
	if !currencypkg.IsSupportedCurrency(currency) {
		return nil, ErrUnsupportedCurrency
	}

	return &Account{
		id:        uuid.NewString(),
		number:    uuid.NewString(),
		currency:  currency,
		createdAt: time.Now().UTC(),
		balance:   ZeroMoney(currency),
	}, nil
}

// RestoreAccount rebuilds an account from persisted state.
func RestoreAccount(id, number, currency, balance string, createdAt time.Time) (*Account, error) {
	if !currencypkg.IsSupportedCurrency(currency) {
		return nil, ErrUnsupportedCurrency
	}

	b, err := ParseMoney(balance, currency)
	if err != nil {
		return nil, err
	}

	return &Account{
		id:        id,
		number:    number,
		currency:  currency,
		createdAt: createdAt,
		balance:   b,
	}, nil
}

// ID returns the internal account identifier.
func (a *Account) ID() string {
	return a.id
}

// Number returns the externally visible account number.
func (a *Account) Number() string {
	return a.number
}

// Currency returns the account currency code.
func (a *Account) Currency() string {
	return a.currency
}

// Balance returns the current balance.
func (a *Account) Balance() Money {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.balance
}

// Deposit adds a positive amount in the account currency and returns the new balance.
func (a *Account) Deposit(amount Money) (Money, error) {
	if amount.Currency() != a.currency {
		return Money{}, ErrCurrencyMismatch
	}

	if !amount.IsPositive() {
		return Money{}, ErrInvalidAmount
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	newBalance, err := a.balance.Add(amount)
	if err != nil {
		return Money{}, err
	}

	a.balance = newBalance

	return newBalance, nil
}

// Withdraw removes a positive amount in the account currency and returns
// the new balance. A withdrawal exceeding the balance fails with
// ErrInsufficientFunds and leaves the balance unchanged.
func (a *Account) Withdraw(amount Money) (Money, error) {
	if amount.Currency() != a.currency {
		return Money{}, ErrCurrencyMismatch
	}

	if !amount.IsPositive() {
		return Money{}, ErrInvalidAmount
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	newBalance, err := a.balance.Subtract(amount)
	if err != nil {
		return Money{}, err
	}

	a.balance = newBalance

	return newBalance, nil
}

// TransferFunds moves a positive amount between two accounts of the same
// currency as a single all-or-nothing step and returns both new balances.
//
// Both account guards are held across the mutation. They are always
// acquired in ascending account number order regardless of transfer
// direction, so two opposite transfers over the same pair of accounts
// cannot deadlock.
func TransferFunds(from, to *Account, amount Money) (Money, Money, error) {
	if from.number == to.number {
		return Money{}, Money{}, ErrSameAccount
	}

	if from.currency != to.currency {
		return Money{}, Money{}, ErrCurrencyMismatch
	}

	if amount.Currency() != from.currency {
		return Money{}, Money{}, ErrCurrencyMismatch
	}

	if !amount.IsPositive() {
		return Money{}, Money{}, ErrInvalidAmount
	}

	first, second := from, to
	if second.number < first.number {
		first, second = second, first
	}

	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	newFromBalance, err := from.balance.Subtract(amount)
	if err != nil {
		return Money{}, Money{}, err
	}

	newToBalance, err := to.balance.Add(amount)
	if err != nil {
		// Neither balance has been assigned yet, so the withdrawal
		// leg is implicitly rolled back.
		return Money{}, Money{}, err
	}

	from.balance = newFromBalance
	to.balance = newToBalance

	return newFromBalance, newToBalance, nil
}

// AccountView is the read-only snapshot of an account used for serialization.
type AccountView struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Currency  string    `json:"currency"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot returns a read-only view of the account.
func (a *Account) Snapshot() AccountView {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.viewLocked()
}

// viewLocked builds the view. The caller must hold the account guard.
func (a *Account) viewLocked() AccountView {
	return AccountView{
		ID:        a.id,
		Number:    a.number,
		Currency:  a.currency,
		Balance:   a.balance.String(),
		CreatedAt: a.createdAt,
	}
}

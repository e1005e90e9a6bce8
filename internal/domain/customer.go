package domain

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MinCustomerAge is the minimum age accepted for a customer profile.
const MinCustomerAge = 18

var (
	// ErrCustomerNotFound indicates that the customer is not found.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrInvalidAge indicates a customer age below the accepted minimum.
	ErrInvalidAge = errors.New("customer must be at least 18 years old")
	// ErrInvalidProfile indicates profile fields that fail validation.
	ErrInvalidProfile = errors.New("invalid customer profile")
)

// Customer holds a back-office customer profile and its accounts.
//
// The account collection preserves creation order. Profile and account
// collection mutations serialize on the customer's own guard.
type Customer struct {
	id        string
	createdAt time.Time

	mu       sync.Mutex
	name     string
	email    string
	age      int
	accounts []*Account
}

func validateProfile(name string, age int) error {
	if name == "" {
		return ErrInvalidProfile
	}

	if age < MinCustomerAge {
		return ErrInvalidAge
	}

	return nil
}

// NewCustomer returns a customer with the given profile and no accounts.
func NewCustomer(name, email string, age int) (*Customer, error) {
	if err := validateProfile(name, age); err != nil {
		return nil, err
	}

	return &Customer{
		id:        uuid.NewString(),
		createdAt: time.Now().UTC(),
		name:      name,
		email:     email,
		age:       age,
	}, nil
}

// RestoreCustomer rebuilds a customer from persisted state.
func RestoreCustomer(id, name, email string, age int, createdAt time.Time, accounts []*Account) (*Customer, error) {
	if err := validateProfile(name, age); err != nil {
		return nil, err
	}

	return &Customer{
		id:        id,
		createdAt: createdAt,
		name:      name,
		email:     email,
		age:       age,
		accounts:  accounts,
	}, nil
}

// ID returns the customer identifier.
func (c *Customer) ID() string {
	return c.id
}

// UpdateProfile replaces the profile fields after validation.
// It does not touch the account collection.
func (c *Customer) UpdateProfile(name, email string, age int) error {
	if err := validateProfile(name, age); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.name = name
	c.email = email
	c.age = age

	return nil
}

// AddAccount allocates a zero-balance account in the given currency and
// appends it to the customer's collection.
func (c *Customer) AddAccount(currency string) (*Account, error) {
	account, err := NewAccount(currency)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.accounts = append(c.accounts, account)

	return account, nil
}

// RemoveAccount removes the account with the given id regardless of its
// balance and reports whether it was present.
func (c *Customer) RemoveAccount(accountID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, account := range c.accounts {
		if account.ID() == accountID {
			c.accounts = append(c.accounts[:i], c.accounts[i+1:]...)
			return true
		}
	}

	return false
}

// Accounts returns a copy of the account collection in creation order.
func (c *Customer) Accounts() []*Account {
	c.mu.Lock()
	defer c.mu.Unlock()

	accounts := make([]*Account, len(c.accounts))
	copy(accounts, c.accounts)

	return accounts
}

// FindAccount returns the owned account with the given number.
func (c *Customer) FindAccount(number string) (*Account, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, account := range c.accounts {
		if account.Number() == number {
			return account, nil
		}
	}

	return nil, ErrAccountNotFound
}

// CustomerView is the read-only snapshot of a customer used for serialization.
type CustomerView struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Age       int           `json:"age"`
	Accounts  []AccountView `json:"accounts"`
	CreatedAt time.Time     `json:"created_at"`
}

// Snapshot returns a consistent read-only view of the customer and its accounts.
func (c *Customer) Snapshot() CustomerView {
	c.mu.Lock()
	accounts := make([]*Account, len(c.accounts))
	copy(accounts, c.accounts)
	name, email, age := c.name, c.email, c.age
	c.mu.Unlock()

	views := make([]AccountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, account.Snapshot())
	}

	return CustomerView{
		ID:        c.id,
		Name:      name,
		Email:     email,
		Age:       age,
		Accounts:  views,
		CreatedAt: c.createdAt,
	}
}

// SnapshotCustomers returns views of the given customers with every
// account balance captured as one consistent cut.
//
// All account guards are held together during view extraction, acquired
// in ascending account number order like TransferFunds, so a concurrent
// transfer is either fully visible in the result or not at all.
func SnapshotCustomers(customers []*Customer) []CustomerView {
	type profile struct {
		name  string
		email string
		age   int
	}

	profiles := make([]profile, len(customers))
	accounts := make([][]*Account, len(customers))

	var all []*Account

	for i, c := range customers {
		c.mu.Lock()
		accs := make([]*Account, len(c.accounts))
		copy(accs, c.accounts)
		profiles[i] = profile{name: c.name, email: c.email, age: c.age}
		c.mu.Unlock()

		accounts[i] = accs
		all = append(all, accs...)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].number < all[j].number })

	for _, account := range all {
		account.mu.Lock()
	}

	views := make([]CustomerView, 0, len(customers))

	for i, c := range customers {
		accountViews := make([]AccountView, 0, len(accounts[i]))
		for _, account := range accounts[i] {
			accountViews = append(accountViews, account.viewLocked())
		}

		views = append(views, CustomerView{
			ID:        c.id,
			Name:      profiles[i].name,
			Email:     profiles[i].email,
			Age:       profiles[i].age,
			Accounts:  accountViews,
			CreatedAt: c.createdAt,
		})
	}

	for _, account := range all {
		account.mu.Unlock()
	}

	return views
}

// Package customerrepo manages the in-memory repository layer of customers.
//
// The repository is the process-wide authoritative directory: customers
// keyed by id plus a secondary index from account number to owning
// customer. Both maps are guarded by a single directory lock, held only
// across map mutations so balance operations on existing accounts never
// contend with account creation elsewhere.
package customerrepo

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bankops/backoffice/internal/domain"
	"github.com/bankops/backoffice/internal/snapshot"
)

// RepoMem facilitates customer repository layer logic.
type RepoMem struct {
	mu           sync.RWMutex
	customers    map[string]*domain.Customer
	order        []string
	accountIndex map[string]string
}

// NewRepoMem returns an empty customer RepoMem.
func NewRepoMem() *RepoMem {
	return &RepoMem{
		customers:    make(map[string]*domain.Customer),
		accountIndex: make(map[string]string),
	}
}

// Create validates the profile, stores the new customer and returns its view.
func (r *RepoMem) Create(ctx context.Context, name, email string, age int) (domain.CustomerView, error) {
	l := zerolog.Ctx(ctx)

	customer, err := domain.NewCustomer(name, email, age)
	if err != nil {
		l.Info().Err(err).Str("name", name).Int("age", age).Msg("rejected customer profile")
		return domain.CustomerView{}, err
	}

	r.mu.Lock()
	r.customers[customer.ID()] = customer
	r.order = append(r.order, customer.ID())
	r.mu.Unlock()

	return customer.Snapshot(), nil
}

// Get returns the customer view for the given id.
func (r *RepoMem) Get(ctx context.Context, id string) (domain.CustomerView, error) {
	r.mu.RLock()
	customer, ok := r.customers[id]
	r.mu.RUnlock()

	if !ok {
		return domain.CustomerView{}, domain.ErrCustomerNotFound
	}

	return customer.Snapshot(), nil
}

// Update replaces the customer profile fields and returns the updated view.
func (r *RepoMem) Update(ctx context.Context, id, name, email string, age int) (domain.CustomerView, error) {
	l := zerolog.Ctx(ctx)

	r.mu.RLock()
	customer, ok := r.customers[id]
	r.mu.RUnlock()

	if !ok {
		return domain.CustomerView{}, domain.ErrCustomerNotFound
	}

	if err := customer.UpdateProfile(name, email, age); err != nil {
		l.Info().Err(err).Str("customer_id", id).Msg("rejected profile update")
		return domain.CustomerView{}, err
	}

	return customer.Snapshot(), nil
}

// Delete removes the customer, its accounts and their index entries.
func (r *RepoMem) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	customer, ok := r.customers[id]
	if !ok {
		return domain.ErrCustomerNotFound
	}

	for _, account := range customer.Accounts() {
		delete(r.accountIndex, account.Number())
	}

	delete(r.customers, id)

	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}

// List returns all customer views in insertion order.
func (r *RepoMem) List(ctx context.Context) ([]domain.CustomerView, error) {
	r.mu.RLock()
	customers := make([]*domain.Customer, 0, len(r.order))
	for _, id := range r.order {
		customers = append(customers, r.customers[id])
	}
	r.mu.RUnlock()

	views := make([]domain.CustomerView, 0, len(customers))
	for _, customer := range customers {
		views = append(views, customer.Snapshot())
	}

	return views, nil
}

// AddAccount creates an account for the customer and registers its number
// in the account index within the same critical section, so the index is
// never observably stale.
func (r *RepoMem) AddAccount(ctx context.Context, customerID, currency string) (domain.AccountView, error) {
	l := zerolog.Ctx(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	customer, ok := r.customers[customerID]
	if !ok {
		return domain.AccountView{}, domain.ErrCustomerNotFound
	}

	account, err := customer.AddAccount(currency)
	if err != nil {
		l.Info().Err(err).Str("customer_id", customerID).Str("currency", currency).Msg("rejected account creation")
		return domain.AccountView{}, err
	}

	r.accountIndex[account.Number()] = customerID

	return account.Snapshot(), nil
}

// FindAccountOwner resolves an account number to the owning customer and
// the live account.
func (r *RepoMem) FindAccountOwner(ctx context.Context, number string) (*domain.Customer, *domain.Account, error) {
	r.mu.RLock()
	customerID, ok := r.accountIndex[number]
	customer := r.customers[customerID]
	r.mu.RUnlock()

	if !ok || customer == nil {
		return nil, nil, domain.ErrAccountNotFound
	}

	account, err := customer.FindAccount(number)
	if err != nil {
		return nil, nil, err
	}

	return customer, account, nil
}

// Snapshot returns the serialized form of the whole directory as one
// consistent cut: all account guards are held together during view
// extraction, so a persisted snapshot never records a half-applied
// transfer.
func (r *RepoMem) Snapshot(ctx context.Context) snapshot.Directory {
	r.mu.RLock()
	customers := make([]*domain.Customer, 0, len(r.order))
	for _, id := range r.order {
		customers = append(customers, r.customers[id])
	}
	r.mu.RUnlock()

	return snapshot.Directory{Customers: domain.SnapshotCustomers(customers)}
}

// Restore rebuilds the directory from a persisted snapshot, replacing any
// current content. It is meant to be called once at startup.
func (r *RepoMem) Restore(ctx context.Context, dir snapshot.Directory) error {
	l := zerolog.Ctx(ctx)

	customers := make(map[string]*domain.Customer, len(dir.Customers))
	order := make([]string, 0, len(dir.Customers))
	accountIndex := make(map[string]string)

	for _, cv := range dir.Customers {
		accounts := make([]*domain.Account, 0, len(cv.Accounts))

		for _, av := range cv.Accounts {
			account, err := domain.RestoreAccount(av.ID, av.Number, av.Currency, av.Balance, av.CreatedAt)
			if err != nil {
				l.Error().Err(err).Str("account_number", av.Number).Msg("cannot restore account")
				return err
			}

			accounts = append(accounts, account)
			accountIndex[account.Number()] = cv.ID
		}

		customer, err := domain.RestoreCustomer(cv.ID, cv.Name, cv.Email, cv.Age, cv.CreatedAt, accounts)
		if err != nil {
			l.Error().Err(err).Str("customer_id", cv.ID).Msg("cannot restore customer")
			return err
		}

		customers[cv.ID] = customer
		order = append(order, cv.ID)
	}

	r.mu.Lock()
	r.customers = customers
	r.order = order
	r.accountIndex = accountIndex
	r.mu.Unlock()

	return nil
}

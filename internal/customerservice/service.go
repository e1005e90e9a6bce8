// Package customerservice manages business logic layer of customers.
//
// Mutations apply to the in-memory directory first and then write
// through to the snapshot store. A failed write-through surfaces as an
// internal error while the in-memory mutation stays applied, so callers
// must not blindly retry a failed mutating call.
package customerservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bankops/backoffice/internal/domain"
	"github.com/bankops/backoffice/internal/snapshot"
	"github.com/bankops/backoffice/pkg/errorspkg"
)

// Repo provides data access layer interface needed by customer service layer.
type Repo interface {
	Create(ctx context.Context, name, email string, age int) (domain.CustomerView, error)
	Get(ctx context.Context, id string) (domain.CustomerView, error)
	Update(ctx context.Context, id, name, email string, age int) (domain.CustomerView, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.CustomerView, error)
	AddAccount(ctx context.Context, customerID, currency string) (domain.AccountView, error)
	Snapshot(ctx context.Context) snapshot.Directory
}

// Persister applies every acknowledged directory mutation to durable storage.
type Persister interface {
	Save(ctx context.Context, dir snapshot.Directory) error
}

// Service facilitates customer service layer logic.
type Service struct {
	repo  Repo
	store Persister
}

// New returns customer service struct to manage customer business logic.
func New(cr Repo, store Persister) *Service {
	return &Service{repo: cr, store: store}
}

func (s *Service) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.repo.Snapshot(ctx)); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("cannot persist directory snapshot")
		return errorspkg.ErrInternal
	}

	return nil
}

// Create validates and stores a new customer.
func (s *Service) Create(ctx context.Context, name, email string, age int) (domain.CustomerView, error) {
	customer, err := s.repo.Create(ctx, name, email, age)
	if err != nil {
		return domain.CustomerView{}, err
	}

	if err := s.persist(ctx); err != nil {
		return domain.CustomerView{}, err
	}

	return customer, nil
}

// Get returns the customer with the given id.
func (s *Service) Get(ctx context.Context, id string) (domain.CustomerView, error) {
	return s.repo.Get(ctx, id)
}

// Update replaces the customer profile fields.
func (s *Service) Update(ctx context.Context, id, name, email string, age int) (domain.CustomerView, error) {
	customer, err := s.repo.Update(ctx, id, name, email, age)
	if err != nil {
		return domain.CustomerView{}, err
	}

	if err := s.persist(ctx); err != nil {
		return domain.CustomerView{}, err
	}

	return customer, nil
}

// Delete removes the customer and cascades to its accounts.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	return s.persist(ctx)
}

// List returns all customers in insertion order.
func (s *Service) List(ctx context.Context) ([]domain.CustomerView, error) {
	return s.repo.List(ctx)
}

// AddAccount creates an account in the given currency for the customer.
func (s *Service) AddAccount(ctx context.Context, customerID, currency string) (domain.AccountView, error) {
	account, err := s.repo.AddAccount(ctx, customerID, currency)
	if err != nil {
		return domain.AccountView{}, err
	}

	if err := s.persist(ctx); err != nil {
		return domain.AccountView{}, err
	}

	return account, nil
}

// Package ledgerservice manages business logic layer of balance operations.
//
// Balance mutations apply to the live accounts first and then write
// through to the snapshot store. A failed write-through surfaces as an
// internal error while the mutation stays applied, so callers must not
// blindly retry a failed deposit, withdrawal or transfer.
package ledgerservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bankops/backoffice/internal/domain"
	"github.com/bankops/backoffice/internal/snapshot"
	"github.com/bankops/backoffice/pkg/errorspkg"
)

// Repo provides data access layer interface needed by ledger service layer.
type Repo interface {
	FindAccountOwner(ctx context.Context, number string) (*domain.Customer, *domain.Account, error)
	List(ctx context.Context) ([]domain.CustomerView, error)
	Snapshot(ctx context.Context) snapshot.Directory
}

// Persister applies every acknowledged balance mutation to durable storage.
type Persister interface {
	Save(ctx context.Context, dir snapshot.Directory) error
}

// TransferResult holds both account views after a completed transfer.
type TransferResult struct {
	FromAccount domain.AccountView `json:"from_account"`
	ToAccount   domain.AccountView `json:"to_account"`
}

// Service facilitates ledger service layer logic.
//
// All multi-account operations live here; accounts and customers stay
// free of orchestration concerns.
type Service struct {
	repo  Repo
	store Persister
}

// New returns ledger service struct to manage balance operations.
func New(r Repo, store Persister) *Service {
	return &Service{repo: r, store: store}
}

func (s *Service) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.repo.Snapshot(ctx)); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("cannot persist directory snapshot")
		return errorspkg.ErrInternal
	}

	return nil
}

// Deposit adds the amount to the account with the given number and
// returns the updated account view.
func (s *Service) Deposit(ctx context.Context, number, amount string) (domain.AccountView, error) {
	l := zerolog.Ctx(ctx)

	_, account, err := s.repo.FindAccountOwner(ctx, number)
	if err != nil {
		return domain.AccountView{}, err
	}

	money, err := domain.ParseMoney(amount, account.Currency())
	if err != nil {
		l.Info().Err(err).Str("amount", amount).Msg("rejected deposit amount")
		return domain.AccountView{}, err
	}

	if _, err := account.Deposit(money); err != nil {
		return domain.AccountView{}, err
	}

	if err := s.persist(ctx); err != nil {
		return domain.AccountView{}, err
	}

	return account.Snapshot(), nil
}

// Withdraw removes the amount from the account with the given number and
// returns the updated account view. A rejected withdrawal leaves the
// balance unchanged.
func (s *Service) Withdraw(ctx context.Context, number, amount string) (domain.AccountView, error) {
	l := zerolog.Ctx(ctx)

	_, account, err := s.repo.FindAccountOwner(ctx, number)
	if err != nil {
		return domain.AccountView{}, err
	}

	money, err := domain.ParseMoney(amount, account.Currency())
	if err != nil {
		l.Info().Err(err).Str("amount", amount).Msg("rejected withdrawal amount")
		return domain.AccountView{}, err
	}

	if _, err := account.Withdraw(money); err != nil {
		return domain.AccountView{}, err
	}

	if err := s.persist(ctx); err != nil {
		return domain.AccountView{}, err
	}

	return account.Snapshot(), nil
}

// Transfer moves the amount between the two accounts as a single
// all-or-nothing step and returns both updated views.
//
// The snapshot is persisted once, after both legs have applied, so a
// half-applied transfer is never written out.
func (s *Service) Transfer(ctx context.Context, fromNumber, toNumber, amount string) (TransferResult, error) {
	l := zerolog.Ctx(ctx)

	if fromNumber == toNumber {
		return TransferResult{}, domain.ErrSameAccount
	}

	_, fromAccount, err := s.repo.FindAccountOwner(ctx, fromNumber)
	if err != nil {
		return TransferResult{}, err
	}

	_, toAccount, err := s.repo.FindAccountOwner(ctx, toNumber)
	if err != nil {
		return TransferResult{}, err
	}

	if fromAccount.Currency() != toAccount.Currency() {
		return TransferResult{}, domain.ErrCurrencyMismatch
	}

	money, err := domain.ParseMoney(amount, fromAccount.Currency())
	if err != nil {
		l.Info().Err(err).Str("amount", amount).Msg("rejected transfer amount")
		return TransferResult{}, err
	}

	if _, _, err := domain.TransferFunds(fromAccount, toAccount, money); err != nil {
		return TransferResult{}, err
	}

	if err := s.persist(ctx); err != nil {
		return TransferResult{}, err
	}

	return TransferResult{
		FromAccount: fromAccount.Snapshot(),
		ToAccount:   toAccount.Snapshot(),
	}, nil
}

// ListCustomers returns the full directory snapshot for display.
func (s *Service) ListCustomers(ctx context.Context) ([]domain.CustomerView, error) {
	return s.repo.List(ctx)
}

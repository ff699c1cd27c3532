// Package transaction records income, expenses and trades.
package transaction

import (
	"context"
	"log/slog"

	"github.com/amirasaad/findash/pkg/domain/events"
	"github.com/amirasaad/findash/pkg/domain/transaction"
	"github.com/amirasaad/findash/pkg/dto"
	"github.com/amirasaad/findash/pkg/eventbus"
	"github.com/amirasaad/findash/pkg/repository"
)

type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.Bus
	logger *slog.Logger
}

// New creates a new Service. bus may be nil when no events are wanted.
func New(
	uow repository.UnitOfWork,
	bus eventbus.Bus,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{uow: uow, bus: bus, logger: logger}
}

// CreateTransaction validates p, checks that the owning user exists and
// stores the transaction in the same database transaction. It returns
// transaction.ErrUnknownUser when p.UserID references no user.
func (s *Service) CreateTransaction(
	ctx context.Context,
	p transaction.Params,
) (tx *dto.TransactionRead, err error) {
	candidate, err := transaction.New(p)
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		tx, err = Store(ctx, uow, candidate)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transaction created",
		"transaction_id", tx.ID,
		"user_id", tx.UserID,
		"type", tx.Type,
	)
	s.emitCreated(ctx, tx)
	return tx, nil
}

// Store writes an already validated transaction through uow after checking
// its user. Callers own the surrounding database transaction.
func Store(
	ctx context.Context,
	uow repository.UnitOfWork,
	t *transaction.Transaction,
) (*dto.TransactionRead, error) {
	users, err := uow.UserRepository()
	if err != nil {
		return nil, err
	}
	exists, err := users.Exists(ctx, t.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, transaction.ErrUnknownUser
	}

	repo, err := uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return repo.Create(ctx, dto.TransactionCreate{
		UserID:       t.UserID,
		Date:         t.Date,
		Type:         t.Type.String(),
		Category:     t.Category,
		Amount:       t.Amount,
		AssetSymbol:  t.AssetSymbol,
		Shares:       t.Shares,
		PriceAtTrade: t.PriceAtTrade,
	})
}

func (s *Service) emitCreated(ctx context.Context, tx *dto.TransactionRead) {
	if s.bus == nil {
		return
	}
	symbol := ""
	if tx.AssetSymbol != nil {
		symbol = *tx.AssetSymbol
	}
	if err := s.bus.Emit(ctx, events.NewTransactionCreated(tx.ID, tx.UserID, tx.Type, symbol)); err != nil {
		s.logger.Error("failed to emit TransactionCreated", "transaction_id", tx.ID, "error", err)
	}
}

// GetTransaction retrieves a transaction by ID.
func (s *Service) GetTransaction(
	ctx context.Context,
	id uint,
) (tx *dto.TransactionRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		tx, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		tx = nil
	}
	return
}

// ListTransactions returns transactions ordered by date then ID.
func (s *Service) ListTransactions(
	ctx context.Context,
	filter dto.TransactionFilter,
) (txs []*dto.TransactionRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err = repo.List(ctx, filter)
		return err
	})
	if err != nil {
		txs = nil
	}
	return
}

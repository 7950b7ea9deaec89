package repository

import (
	"context"

	"shareit/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TxFunc receives a Repository whose members are bound to the running transaction
type TxFunc func(ctx context.Context, tx *Repository) error

type Transactor interface {
	ExecuteTransaction(ctx context.Context, fn TxFunc) error
}

type Repository struct {
	User    UserRepository
	Item    ItemRepository
	Booking BookingRepository
	Transactor
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepositorySet(db, log)
	repo.Transactor = &pgxTransactor{db: db, log: log}
	return repo
}

func newRepositorySet(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Item:    NewItemRepository(db, log),
		Booking: NewBookingRepository(db, log),
	}
}

type pgxTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func (t *pgxTransactor) ExecuteTransaction(ctx context.Context, fn TxFunc) error {
	return database.WithTx(ctx, t.db, func(tx pgx.Tx) error {
		txRepo := newRepositorySet(tx, t.log)
		txRepo.Transactor = nestedTransactor{repo: txRepo}
		return fn(ctx, txRepo)
	})
}

// nestedTransactor joins the transaction that is already running
type nestedTransactor struct {
	repo *Repository
}

func (n nestedTransactor) ExecuteTransaction(ctx context.Context, fn TxFunc) error {
	return fn(ctx, n.repo)
}

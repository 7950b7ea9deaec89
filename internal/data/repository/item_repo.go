package repository

import (
	"context"
	"errors"
	"fmt"

	"shareit/internal/data/entity"
	"shareit/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ItemRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Item, error)
	// FindByIDForShare locks the row against concurrent updates until the transaction ends
	FindByIDForShare(ctx context.Context, id int64) (*entity.Item, error)
	FindByOwnerID(ctx context.Context, ownerID int64, page Page) ([]*entity.Item, error)
}

type itemRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewItemRepository(db database.Querier, log *zap.Logger) ItemRepository {
	return &itemRepository{
		db:  db,
		log: log.With(zap.String("repository", "item")),
	}
}

const itemSelect = `
		SELECT id, name, description, owner_id, available, request_id
		FROM items
`

func scanItem(row rowScanner) (*entity.Item, error) {
	var item entity.Item
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.OwnerID,
		&item.Available,
		&item.RequestID,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindByID(ctx context.Context, id int64) (*entity.Item, error) {
	return r.findOne(ctx, itemSelect+` WHERE id = $1`, id)
}

func (r *itemRepository) FindByIDForShare(ctx context.Context, id int64) (*entity.Item, error) {
	return r.findOne(ctx, itemSelect+` WHERE id = $1 FOR SHARE`, id)
}

func (r *itemRepository) findOne(ctx context.Context, query string, id int64) (*entity.Item, error) {
	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find item by ID",
			zap.Error(err),
			zap.Int64("item_id", id),
		)
		return nil, fmt.Errorf("find item by ID %d: %w", id, err)
	}

	return item, nil
}

func (r *itemRepository) FindByOwnerID(ctx context.Context, ownerID int64, page Page) ([]*entity.Item, error) {
	query := itemSelect + `
		WHERE owner_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, ownerID, page.Limit, page.Offset)
	if err != nil {
		r.log.Error("Failed to find items by owner ID",
			zap.Error(err),
			zap.Int64("owner_id", ownerID),
			zap.Int("limit", page.Limit),
			zap.Int("offset", page.Offset),
		)
		return nil, fmt.Errorf("find items by owner ID %d: %w", ownerID, err)
	}
	defer rows.Close()

	var items []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			r.log.Error("Failed to scan item row", zap.Error(err))
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

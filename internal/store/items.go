package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/erazemk/almoxarifado/internal/model"
)

const itemColumns = `id, category, name, description, quantity, image_mime, created_at, updated_at`

func scanItem(row rowScanner) (*model.Item, error) {
	item := &model.Item{}
	var description, imageMime sql.NullString
	if err := row.Scan(&item.ID, &item.Category, &item.Name, &description, &item.Quantity,
		&imageMime, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	item.Description = description.String
	item.ImageMime = imageMime.String
	return item, nil
}

func getItem(ctx context.Context, q querier, id int64) (*model.Item, error) {
	item, err := scanItem(q.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

func listItems(ctx context.Context, q querier, category string) ([]model.Item, error) {
	var rows *sql.Rows
	var err error

	if category != "" {
		rows, err = q.QueryContext(ctx,
			`SELECT `+itemColumns+` FROM items WHERE category = ? ORDER BY name, id`, category,
		)
	} else {
		rows, err = q.QueryContext(ctx,
			`SELECT `+itemColumns+` FROM items ORDER BY category, name, id`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// ensureUniqueName fails if another item in the category already uses name,
// compared with Unicode case folding.
func ensureUniqueName(ctx context.Context, q querier, category, name string, exceptID int64) error {
	rows, err := q.QueryContext(ctx,
		`SELECT id, name FROM items WHERE category = ?`, category,
	)
	if err != nil {
		return fmt.Errorf("checking item names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var existing string
		if err := rows.Scan(&id, &existing); err != nil {
			return fmt.Errorf("scanning item name: %w", err)
		}
		if id != exceptID && strings.EqualFold(strings.TrimSpace(existing), name) {
			return fmt.Errorf("%q: %w", name, model.ErrDuplicateItemName)
		}
	}
	return rows.Err()
}

func setItemQuantity(ctx context.Context, q querier, id int64, quantity int) error {
	_, err := q.ExecContext(ctx,
		`UPDATE items SET quantity = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		quantity, id,
	)
	if err != nil {
		return fmt.Errorf("updating item quantity: %w", err)
	}
	return nil
}

// CreateItem creates a new item in the given category.
func CreateItem(ctx context.Context, db *sql.DB, category, name, description string, quantity int) (*model.Item, error) {
	name, err := model.ValidateItem(category, name, quantity)
	if err != nil {
		return nil, err
	}

	var id int64
	err = withTx(ctx, db, func(tx *sql.Tx) error {
		if err := ensureUniqueName(ctx, tx, category, name, 0); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO items (category, name, description, quantity) VALUES (?, ?, ?, ?)`,
			category, name, description, quantity,
		)
		if err != nil {
			return fmt.Errorf("inserting item: %w", err)
		}

		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting item id: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or an error wrapping model.ErrNotFound.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	return getItem(ctx, db, id)
}

// ListItems returns all items of a category ordered by name. An empty
// category lists every item.
func ListItems(ctx context.Context, db *sql.DB, category string) ([]model.Item, error) {
	return listItems(ctx, db, category)
}

// UpdateItem edits an item's name, description and on-hand quantity. The
// category is fixed at creation.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, name, description string, quantity int) (*model.Item, error) {
	err := withTx(ctx, db, func(tx *sql.Tx) error {
		item, err := getItem(ctx, tx, id)
		if err != nil {
			return err
		}

		name, err = model.ValidateItem(item.Category, name, quantity)
		if err != nil {
			return err
		}
		if err := ensureUniqueName(ctx, tx, item.Category, name, id); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE items SET name = ?, description = ?, quantity = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ?`,
			name, description, quantity, id,
		)
		if err != nil {
			return fmt.Errorf("writing item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// DeleteItem removes an item. Withdrawals referencing it are kept with their
// snapshot fields; the number of those still pending is returned so callers
// can warn about them.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) (int, error) {
	var pending int
	err := withTx(ctx, db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("removing item: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking affected rows: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("item %d: %w", id, model.ErrNotFound)
		}

		return tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM withdrawals WHERE item_id = ? AND status != ?`,
			id, model.StatusReturned,
		).Scan(&pending)
	})
	if err != nil {
		return 0, fmt.Errorf("deleting item: %w", err)
	}
	return pending, nil
}

// SetItemImage sets an item's photo.
func SetItemImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %d: %w", id, model.ErrNotFound)
	}
	return nil
}

// GetItemImage returns an item's photo and MIME type. Data is nil when the
// item has no photo.
func GetItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("item %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}

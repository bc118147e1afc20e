package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/erazemk/almoxarifado/internal/model"
)

// Each operation below reads the withdrawal and its item, checks the guards
// and writes both records inside one transaction. A failed guard rolls the
// transaction back, so neither record changes.

const withdrawalColumns = `id, item_id, item_name, item_type, person_name, quantity,
	original_quantity, status, withdrawn_at, updated_at`

func scanWithdrawal(row rowScanner) (*model.Withdrawal, error) {
	w := &model.Withdrawal{}
	if err := row.Scan(&w.ID, &w.ItemID, &w.ItemName, &w.ItemType, &w.PersonName, &w.Quantity,
		&w.OriginalQuantity, &w.Status, &w.WithdrawnAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return w, nil
}

func getWithdrawal(ctx context.Context, q querier, id int64) (*model.Withdrawal, error) {
	w, err := scanWithdrawal(q.QueryRowContext(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("withdrawal %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting withdrawal: %w", err)
	}
	return w, nil
}

// listWithdrawals returns withdrawals newest first, optionally only those
// drawn from one item.
func listWithdrawals(ctx context.Context, q querier, itemID int64) ([]model.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals`
	var args []any
	if itemID > 0 {
		query += ` WHERE item_id = ?`
		args = append(args, itemID)
	}
	query += ` ORDER BY withdrawn_at DESC, id DESC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing withdrawals: %w", err)
	}
	defer rows.Close()

	var withdrawals []model.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning withdrawal: %w", err)
		}
		withdrawals = append(withdrawals, *w)
	}
	return withdrawals, rows.Err()
}

func writeWithdrawal(ctx context.Context, q querier, id int64, quantity, original int, status string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE withdrawals SET quantity = ?, original_quantity = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		quantity, original, status, id,
	)
	if err != nil {
		return fmt.Errorf("writing withdrawal: %w", err)
	}
	return nil
}

// CreateWithdrawal checks out quantity units of an item to a person,
// decrementing the item's on-hand quantity.
func CreateWithdrawal(ctx context.Context, db *sql.DB, personName string, itemID int64, quantity int) (*model.Withdrawal, error) {
	personName = strings.TrimSpace(personName)
	if personName == "" {
		return nil, &model.ValidationError{Field: "person_name", Message: "informe quem está retirando"}
	}
	if quantity <= 0 {
		return nil, &model.ValidationError{Field: "quantity", Message: "a quantidade deve ser positiva"}
	}

	var id int64
	err := withTx(ctx, db, func(tx *sql.Tx) error {
		item, err := getItem(ctx, tx, itemID)
		if err != nil {
			return err
		}

		if item.Quantity < quantity {
			return fmt.Errorf("have %d, need %d: %w", item.Quantity, quantity, model.ErrInsufficientStock)
		}

		if err := setItemQuantity(ctx, tx, item.ID, item.Quantity-quantity); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO withdrawals (item_id, item_name, item_type, person_name, quantity, original_quantity, status)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			item.ID, item.Name, item.Category, personName, quantity, quantity, model.StatusWithdrawn,
		)
		if err != nil {
			return fmt.Errorf("recording withdrawal: %w", err)
		}

		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting withdrawal id: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating withdrawal: %w", err)
	}

	return GetWithdrawal(ctx, db, id)
}

// ReturnWithdrawal gives back everything still out under a withdrawal and
// marks it returned. Returning an already returned withdrawal fails with
// model.ErrAlreadyReturned.
func ReturnWithdrawal(ctx context.Context, db *sql.DB, id int64) (*model.Withdrawal, error) {
	err := withTx(ctx, db, func(tx *sql.Tx) error {
		w, err := getWithdrawal(ctx, tx, id)
		if err != nil {
			return err
		}
		if w.Status == model.StatusReturned {
			return fmt.Errorf("withdrawal %d: %w", id, model.ErrAlreadyReturned)
		}

		item, err := getItem(ctx, tx, w.ItemID)
		if err != nil {
			return err
		}

		if err := setItemQuantity(ctx, tx, item.ID, item.Quantity+w.Quantity); err != nil {
			return err
		}
		return writeWithdrawal(ctx, tx, w.ID, 0, w.OriginalQuantity, model.StatusReturned)
	})
	if err != nil {
		return nil, fmt.Errorf("returning withdrawal: %w", err)
	}

	return GetWithdrawal(ctx, db, id)
}

// EditWithdrawal sets the amount still out under a withdrawal.
//
// With isReturn the edit is a (partial) return: newQuantity may not exceed the
// amount still out, the difference goes back to the item, and the status
// moves to partially returned or returned. Otherwise the edit corrects the
// withdrawn amount itself: the item absorbs the difference in either
// direction and the status is left alone. A returned withdrawal can no
// longer be corrected and fails with model.ErrAlreadyReturned.
func EditWithdrawal(ctx context.Context, db *sql.DB, id int64, newQuantity int, isReturn bool) (*model.Withdrawal, error) {
	if newQuantity < 0 {
		return nil, &model.ValidationError{Field: "quantity", Message: "a quantidade não pode ser negativa"}
	}

	err := withTx(ctx, db, func(tx *sql.Tx) error {
		w, err := getWithdrawal(ctx, tx, id)
		if err != nil {
			return err
		}
		item, err := getItem(ctx, tx, w.ItemID)
		if err != nil {
			return err
		}

		if isReturn {
			if newQuantity > w.Quantity {
				return fmt.Errorf("still out %d, asked %d: %w", w.Quantity, newQuantity, model.ErrInvalidReturnQuantity)
			}
			if returned := w.Quantity - newQuantity; returned > 0 {
				if err := setItemQuantity(ctx, tx, item.ID, item.Quantity+returned); err != nil {
					return err
				}
			}
			status := model.ReturnStatus(w.Status, w.Quantity, newQuantity)
			return writeWithdrawal(ctx, tx, w.ID, newQuantity, w.OriginalQuantity, status)
		}

		if w.Status == model.StatusReturned {
			return fmt.Errorf("withdrawal %d: %w", id, model.ErrAlreadyReturned)
		}

		difference := w.Quantity - newQuantity
		switch {
		case difference < 0:
			needed := -difference
			if item.Quantity < needed {
				return fmt.Errorf("have %d, need %d more: %w", item.Quantity, needed, model.ErrInsufficientStock)
			}
			if err := setItemQuantity(ctx, tx, item.ID, item.Quantity-needed); err != nil {
				return err
			}
		case difference > 0:
			if err := setItemQuantity(ctx, tx, item.ID, item.Quantity+difference); err != nil {
				return err
			}
		}
		return writeWithdrawal(ctx, tx, w.ID, newQuantity, w.OriginalQuantity-difference, w.Status)
	})
	if err != nil {
		return nil, fmt.Errorf("editing withdrawal: %w", err)
	}

	return GetWithdrawal(ctx, db, id)
}

// DeleteWithdrawal removes a withdrawal record. The item's quantity is not
// touched: return the withdrawal first to give the units back.
func DeleteWithdrawal(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM withdrawals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting withdrawal: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("deleting withdrawal %d: %w", id, model.ErrNotFound)
	}
	return nil
}

// GetWithdrawal returns a withdrawal by ID, or an error wrapping
// model.ErrNotFound.
func GetWithdrawal(ctx context.Context, db *sql.DB, id int64) (*model.Withdrawal, error) {
	return getWithdrawal(ctx, db, id)
}

// ListWithdrawals returns all withdrawals, newest first.
func ListWithdrawals(ctx context.Context, db *sql.DB) ([]model.Withdrawal, error) {
	return listWithdrawals(ctx, db, 0)
}

// GetItemHistory returns the withdrawals drawn from one item, newest first.
func GetItemHistory(ctx context.Context, db *sql.DB, itemID int64) ([]model.Withdrawal, error) {
	return listWithdrawals(ctx, db, itemID)
}

// LoadSummary aggregates both tables read from one transaction, so the
// totals describe a single consistent snapshot.
func LoadSummary(ctx context.Context, db *sql.DB, threshold int) (model.Summary, error) {
	var items []model.Item
	var withdrawals []model.Withdrawal
	err := withTx(ctx, db, func(tx *sql.Tx) error {
		var err error
		if items, err = listItems(ctx, tx, ""); err != nil {
			return err
		}
		withdrawals, err = listWithdrawals(ctx, tx, 0)
		return err
	})
	if err != nil {
		return model.Summary{}, fmt.Errorf("loading summary: %w", err)
	}
	return model.Summarize(items, withdrawals, threshold), nil
}

package repos

import (
	"dcpstore/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) Lines(userID int64) ([]domain.CartLine, error) {
	lines := []domain.CartLine{}
	err := r.db.Select(&lines, `
	  SELECT product_id, quantity FROM carts
	  WHERE user_id = ?
	  ORDER BY product_id`, userID)
	return lines, err
}

// AddLine inserts a line or increments an existing one.
func (r *CartRepo) AddLine(userID int64, productID, qty int) error {
	_, err := r.db.Exec(`
		INSERT INTO carts(user_id,product_id,quantity)
		VALUES(?,?,?)
		ON CONFLICT(user_id,product_id) DO UPDATE
		SET quantity = quantity + excluded.quantity, updated_at = CURRENT_TIMESTAMP
	`, userID, productID, qty)
	return err
}

// ReplaceLine inserts a line or replaces its quantity outright.
func (r *CartRepo) ReplaceLine(userID int64, productID, qty int) error {
	_, err := r.db.Exec(`
		INSERT INTO carts(user_id,product_id,quantity,updated_at)
		VALUES(?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(user_id,product_id) DO UPDATE
		SET quantity = excluded.quantity, updated_at = CURRENT_TIMESTAMP
	`, userID, productID, qty)
	return err
}

func (r *CartRepo) DeleteLine(userID int64, productID int) error {
	_, err := r.db.Exec(`DELETE FROM carts WHERE user_id=? AND product_id=?`, userID, productID)
	return err
}

func (r *CartRepo) Clear(userID int64) error {
	_, err := r.db.Exec(`DELETE FROM carts WHERE user_id=?`, userID)
	return err
}

// MergeLines folds guest-accumulated lines into the user's cart in one
// transaction, adding quantities where a (user, product) row already exists.
func (r *CartRepo) MergeLines(userID int64, lines []domain.CartLine) error {
	if len(lines) == 0 {
		return nil
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, ln := range lines {
		if ln.Quantity < 1 {
			continue
		}
		if _, err := tx.Exec(`
			INSERT INTO carts(user_id,product_id,quantity)
			VALUES(?,?,?)
			ON CONFLICT(user_id,product_id) DO UPDATE
			SET quantity = quantity + excluded.quantity, updated_at = CURRENT_TIMESTAMP
		`, userID, ln.ProductID, ln.Quantity); err != nil {
			return err
		}
	}
	return tx.Commit()
}

package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `id, store_id, customer_id, customer_name, items, total_amount, shipping_cost,
	delivery_method, delivery_address, status, created_at, updated_at`

func scanOrder(scan func(...interface{}) error) (*Order, error) {
	o := &Order{}
	var items []byte
	err := scan(&o.ID, &o.StoreID, &o.CustomerID, &o.CustomerName, &items,
		&o.TotalAmount, &o.ShippingCost, &o.DeliveryMethod, &o.DeliveryAddress,
		&o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items of order %s: %w", o.ID, err)
	}
	o.GrandTotal = o.TotalAmount.Add(o.ShippingCost)
	return o, nil
}

func (r *postgresRepo) ListByStore(ctx context.Context, storeID string, status Status) ([]*Order, error) {
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return nil, apperr.NotFound("store", storeID)
	}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE store_id=$1`
	args := []interface{}{sid}
	if status != "" {
		query += ` AND status=$2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, storeID, id string) (*Order, error) {
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return nil, apperr.NotFound("order", id)
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("order", id)
	}
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1 AND store_id=$2`, uid, sid).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("order", id)
	}
	return o, err
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, storeID, id string, from, to Status) error {
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return apperr.NotFound("order", id)
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.NotFound("order", id)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2 AND store_id=$3 AND status=$4`,
		to, uid, sid, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.Conflict("stale_status", fmt.Sprintf("order %s is no longer %s", id, from))
	}
	return nil
}

package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/georgemunganga/akistapp-admin/internal/modules/catalog"
	"github.com/georgemunganga/akistapp-admin/internal/modules/store"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const entryColumns = `id, store_id, product_id, price, is_available, store_specific_image,
	name, brand, category, global_image, created_at, updated_at`

func scanEntry(scan func(...interface{}) error) (*Entry, error) {
	e := &Entry{}
	var image sql.NullString
	err := scan(&e.ID, &e.StoreID, &e.ProductID, &e.Price, &e.IsAvailable, &image,
		&e.Name, &e.Brand, &e.Category, &e.GlobalImage, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.StoreSpecificImage = image.String
	return e, nil
}

// Admit serializes admissions per store: the first statement of every
// admission locks the store row, so a second admission for the same store
// waits until the first has committed its entry.
func (r *postgresRepo) Admit(ctx context.Context, fn func(tx AdmissionTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&admissionTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

type admissionTx struct{ tx *sql.Tx }

func (a *admissionTx) LockStore(ctx context.Context, storeID string) (*store.Store, error) {
	uid, err := uuid.Parse(storeID)
	if err != nil {
		return nil, apperr.NotFound("store", storeID)
	}
	s, err := store.Scan(a.tx.QueryRowContext(ctx,
		`SELECT `+store.Columns+` FROM stores WHERE id=$1 FOR UPDATE`, uid).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("store", storeID)
	}
	return s, err
}

func (a *admissionTx) GetProduct(ctx context.Context, productID string) (*catalog.Product, error) {
	uid, err := uuid.Parse(productID)
	if err != nil {
		return nil, apperr.NotFound("product", productID)
	}
	p, err := catalog.Scan(a.tx.QueryRowContext(ctx,
		`SELECT `+catalog.Columns+` FROM products WHERE id=$1`, uid).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("product", productID)
	}
	return p, err
}

func (a *admissionTx) EntryExists(ctx context.Context, storeID, productID string) (bool, error) {
	var exists bool
	err := a.tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM inventory WHERE store_id=$1 AND product_id=$2)`,
		storeID, productID).Scan(&exists)
	return exists, err
}

func (a *admissionTx) CountEntries(ctx context.Context, storeID string) (int, error) {
	var n int
	err := a.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory WHERE store_id=$1`, storeID).Scan(&n)
	return n, err
}

func (a *admissionTx) CreateEntry(ctx context.Context, e *Entry) error {
	err := a.tx.QueryRowContext(ctx, `
		INSERT INTO inventory
		  (id, store_id, product_id, price, is_available, store_specific_image,
		   name, brand, category, global_image)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at`,
		e.ID, e.StoreID, e.ProductID, e.Price, e.IsAvailable, e.StoreSpecificImage,
		e.Name, e.Brand, e.Category, e.GlobalImage,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if apperr.IsUniqueViolation(err) {
		return errDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert inventory entry: %w", err)
	}
	return nil
}

func (r *postgresRepo) ListByStore(ctx context.Context, storeID string) ([]*Entry, error) {
	uid, err := uuid.Parse(storeID)
	if err != nil {
		return nil, apperr.NotFound("store", storeID)
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM inventory WHERE store_id=$1 ORDER BY name`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Entry, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("inventory entry", id)
	}
	e, err := scanEntry(r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM inventory WHERE id=$1`, uid).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("inventory entry", id)
	}
	return e, err
}

func (r *postgresRepo) Update(ctx context.Context, e *Entry) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inventory
		SET price=$1, is_available=$2, store_specific_image=$3, updated_at=NOW()
		WHERE id=$4 AND store_id=$5`,
		e.Price, e.IsAvailable, e.StoreSpecificImage, e.ID, e.StoreID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("inventory entry", e.ID.String())
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, storeID, id string) error {
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return apperr.NotFound("inventory entry", id)
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.NotFound("inventory entry", id)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM inventory WHERE id=$1 AND store_id=$2`, uid, sid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("inventory entry", id)
	}
	return nil
}

func (r *postgresRepo) CountByStore(ctx context.Context, storeID string) (int, error) {
	uid, err := uuid.Parse(storeID)
	if err != nil {
		return 0, apperr.NotFound("store", storeID)
	}
	var n int
	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory WHERE store_id=$1`, uid).Scan(&n)
	return n, err
}

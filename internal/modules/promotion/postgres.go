package promotion

import (
	"context"
	"database/sql"
	"errors"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const promotionColumns = `id, title, content, image_url, store_id, store_name, city_id, type, is_active, created_at, updated_at`

func scanPromotion(scan func(...interface{}) error) (*Promotion, error) {
	p := &Promotion{}
	err := scan(&p.ID, &p.Title, &p.Content, &p.ImageURL, &p.StoreID, &p.StoreName,
		&p.CityID, &p.Type, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p *Promotion) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO promotions (id, title, content, image_url, store_id, store_name, city_id, type, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		p.ID, p.Title, p.Content, p.ImageURL, p.StoreID, p.StoreName, p.CityID, p.Type, p.IsActive,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Promotion, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("promotion", id)
	}
	p, err := scanPromotion(r.db.QueryRowContext(ctx,
		`SELECT `+promotionColumns+` FROM promotions WHERE id=$1`, uid).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("promotion", id)
	}
	return p, err
}

func (r *postgresRepo) list(ctx context.Context, query string, args ...interface{}) ([]*Promotion, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promotions []*Promotion
	for rows.Next() {
		p, err := scanPromotion(rows.Scan)
		if err != nil {
			return nil, err
		}
		promotions = append(promotions, p)
	}
	return promotions, rows.Err()
}

func (r *postgresRepo) List(ctx context.Context) ([]*Promotion, error) {
	return r.list(ctx, `SELECT `+promotionColumns+` FROM promotions ORDER BY created_at DESC`)
}

func (r *postgresRepo) ListByStore(ctx context.Context, storeID string) ([]*Promotion, error) {
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return nil, apperr.NotFound("store", storeID)
	}
	return r.list(ctx,
		`SELECT `+promotionColumns+` FROM promotions WHERE store_id=$1 ORDER BY created_at DESC`, sid)
}

func (r *postgresRepo) Update(ctx context.Context, p *Promotion) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE promotions
		SET title=$1, content=$2, image_url=$3, store_id=$4, store_name=$5, city_id=$6,
		    is_active=$7, updated_at=NOW()
		WHERE id=$8`,
		p.Title, p.Content, p.ImageURL, p.StoreID, p.StoreName, p.CityID, p.IsActive, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("promotion", p.ID.String())
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.NotFound("promotion", id)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM promotions WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("promotion", id)
	}
	return nil
}

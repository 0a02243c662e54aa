package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/google/uuid"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL store repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

// Columns is the select list understood by Scan.
const Columns = `id, name, city, zipcode, address, latitude, longitude, phone, image_url, is_open,
	subscription_plan, max_products, allow_reservations, featured, created_at, updated_at`

// Scan reads one row selected with Columns.
func Scan(scan func(...interface{}) error) (*Store, error) {
	s := &Store{}
	err := scan(
		&s.ID, &s.Name, &s.City, &s.Zipcode, &s.Address, &s.Latitude, &s.Longitude,
		&s.Phone, &s.ImageURL, &s.IsOpen,
		&s.SubscriptionPlan, &s.MaxProducts, &s.AllowReservations, &s.Featured,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *postgresRepository) Create(ctx context.Context, s *Store) error {
	query := `
		INSERT INTO stores (id, name, city, zipcode, address, latitude, longitude, phone, image_url, is_open,
		                    subscription_plan, max_products, allow_reservations, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		s.ID, s.Name, s.City, s.Zipcode, s.Address, s.Latitude, s.Longitude, s.Phone, s.ImageURL, s.IsOpen,
		s.SubscriptionPlan, s.MaxProducts, s.AllowReservations, s.Featured,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*Store, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("store", id)
	}
	s, err := Scan(r.db.QueryRowContext(ctx, `SELECT `+Columns+` FROM stores WHERE id = $1`, uid).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("store", id)
	}
	return s, err
}

func (r *postgresRepository) List(ctx context.Context) ([]*Store, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+Columns+` FROM stores ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []*Store
	for rows.Next() {
		s, err := Scan(rows.Scan)
		if err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, s *Store) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE stores
		SET name=$1, city=$2, zipcode=$3, address=$4, latitude=$5, longitude=$6, phone=$7,
		    image_url=$8, is_open=$9, subscription_plan=$10, max_products=$11,
		    allow_reservations=$12, featured=$13, updated_at=NOW()
		WHERE id=$14`,
		s.Name, s.City, s.Zipcode, s.Address, s.Latitude, s.Longitude, s.Phone,
		s.ImageURL, s.IsOpen, s.SubscriptionPlan, s.MaxProducts,
		s.AllowReservations, s.Featured, s.ID)
	return expectOne(res, err, s.ID.String())
}

// UpdatePlan writes the plan and its derived fields in one statement.
func (r *postgresRepository) UpdatePlan(ctx context.Context, id string, plan Plan, limits PlanLimits) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.NotFound("store", id)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE stores
		SET subscription_plan=$1, max_products=$2, allow_reservations=$3, featured=$4, updated_at=NOW()
		WHERE id=$5`,
		plan, limits.MaxProducts, limits.AllowReservations, limits.Featured, uid)
	return expectOne(res, err, id)
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.NotFound("store", id)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM stores WHERE id = $1`, uid)
	return expectOne(res, err, id)
}

func (r *postgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stores`).Scan(&n)
	return n, err
}

func expectOne(res sql.Result, err error, id string) error {
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("store", id)
	}
	return nil
}

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// Columns is the select list understood by Scan.
const Columns = `id, name, normalized_name, brand, category, description, image, tags, created_at, updated_at`

// Scan reads one row selected with Columns.
func Scan(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	err := scan(&p.ID, &p.Name, &p.NormalizedName, &p.Brand, &p.Category,
		&p.Description, &p.Image, pq.Array(&p.Tags), &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO products (id, name, normalized_name, brand, category, description, image, tags)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.NormalizedName, p.Brand, p.Category, p.Description, p.Image, pq.Array(p.Tags),
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("product", id)
	}
	p, err := Scan(r.db.QueryRowContext(ctx, `SELECT `+Columns+` FROM products WHERE id=$1`, uid).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("product", id)
	}
	return p, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]*Product, error) {
	query := `SELECT ` + Columns + ` FROM products WHERE 1=1`
	args := []interface{}{}
	n := 1
	if f.Query != "" {
		query += fmt.Sprintf(` AND normalized_name LIKE $%d`, n)
		args = append(args, likeEscaper.Replace(f.Query)+"%")
		n++
	}
	if f.Category != "" {
		query += fmt.Sprintf(` AND category=$%d`, n)
		args = append(args, f.Category)
		n++
	}
	query += ` ORDER BY normalized_name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := Scan(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name=$1, normalized_name=$2, brand=$3, category=$4, description=$5,
		    image=$6, tags=$7, updated_at=NOW()
		WHERE id=$8`,
		p.Name, p.NormalizedName, p.Brand, p.Category, p.Description,
		p.Image, pq.Array(p.Tags), p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("product", p.ID.String())
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.NotFound("product", id)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("product", id)
	}
	return nil
}

func (r *postgresRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

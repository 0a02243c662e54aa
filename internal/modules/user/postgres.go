package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/georgemunganga/akistapp-admin/internal/postgres"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const userColumns = `id, email, password_hash, name, display_name, photo_url, city_id, city_name,
	favorite_store_ids, role, store_id, created_at, updated_at`

func (r *postgresRepository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, display_name, photo_url, city_id, city_name,
		                   favorite_store_ids, role, store_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.DisplayName, user.PhotoURL,
		user.CityID, user.CityName, pq.Array(user.FavoriteStoreIDs), user.Role, postgres.NullString(user.StoreID),
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if apperr.IsUniqueViolation(err) {
		return apperr.Conflict("email", "a user with this email already exists")
	}
	return err
}

func scanUser(scan func(...interface{}) error) (*User, error) {
	user := &User{}
	var (
		photo   sql.NullString
		storeID sql.NullString
	)
	err := scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.DisplayName,
		&photo,
		&user.CityID,
		&user.CityName,
		pq.Array(&user.FavoriteStoreIDs),
		&user.Role,
		&storeID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if photo.Valid {
		user.PhotoURL = &photo.String
	}
	user.StoreID = storeID.String
	return user, nil
}

func (r *postgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user", email)
	}
	return user, err
}

func (r *postgresRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("user", id)
	}
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, parsedID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user", id)
	}
	return user, err
}

func (r *postgresRepository) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *postgresRepository) UpdateUser(ctx context.Context, user *User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET name=$1, display_name=$2, role=$3, store_id=$4, updated_at=NOW()
		WHERE id=$5`,
		user.Name, user.DisplayName, user.Role, postgres.NullString(user.StoreID), user.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("user", user.ID.String())
	}
	return nil
}

func (r *postgresRepository) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// internal/repository/users.go
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"lawdesk-api/internal/common/errors"
	"lawdesk-api/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, nome_completo, password_hash, ativo, created_at, last_login_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	var lastLogin sql.NullTime
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName,
		&u.PasswordHash, &u.Active, &u.CreatedAt, &lastLogin)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	u.ID = uuid.New().String()
	u.Active = true
	u.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO usuarios (id, username, email, nome_completo, password_hash, ativo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Username, u.Email, u.FullName, u.PasswordHash, u.Active, u.CreatedAt)
	if err != nil {
		if uniqueViolation(err, "") {
			return errors.NewValidationError([]errors.FieldError{{
				Field:   "username",
				Message: "usuário ou e-mail já cadastrado",
				Code:    "DUPLICATE_USER",
			}})
		}
		return errors.NewQueryExecutionFailedError("create user", err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM usuarios WHERE username = $1 AND ativo = TRUE`, username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewRecordNotFoundError("usuario", username)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get user", err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM usuarios WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewRecordNotFoundError("usuario", id)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get user", err)
	}
	return u, nil
}

func (r *UserRepository) TouchLogin(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE usuarios SET last_login_at = $2 WHERE id = $1`,
		id, time.Now().UTC())
	if err != nil {
		return errors.NewQueryExecutionFailedError("touch login", err)
	}
	return nil
}

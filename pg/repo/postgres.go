package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portaldesa.com/gate/pg/model"
)

// PostgresDB implements model.DB on a pgx connection pool.
type PostgresDB struct {
	pool *pgxpool.Pool
}

func NewPostgresDB(pool *pgxpool.Pool) *PostgresDB {
	return &PostgresDB{pool: pool}
}

func (p *PostgresDB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, username, email, role, password_hash, is_active
		FROM portal_user WHERE username = $1`

	err := p.pool.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.Role,
		&user.PasswordHash, &user.IsActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user not found")
	}
	return user, err
}

func (p *PostgresDB) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, username, email, role, password_hash, is_active
		FROM portal_user WHERE id = $1`

	err := p.pool.QueryRow(ctx, query, userID).Scan(
		&user.ID, &user.Username, &user.Email, &user.Role,
		&user.PasswordHash, &user.IsActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user not found")
	}
	return user, err
}

func (p *PostgresDB) CreateUser(ctx context.Context, user *model.User) error {
	query := `INSERT INTO portal_user (id, username, email, role, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := p.pool.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.Role,
		user.PasswordHash, user.IsActive,
	)
	return err
}

// IsTokenDenied reports whether a credential's jti has been revoked. Expired
// denylist rows are ignored; the credential is already dead by then.
func (p *PostgresDB) IsTokenDenied(ctx context.Context, jti string) (bool, error) {
	var denied bool
	query := `SELECT EXISTS (
		SELECT 1 FROM token_denylist WHERE jti = $1 AND expires_at > now()
	)`

	err := p.pool.QueryRow(ctx, query, jti).Scan(&denied)
	return denied, err
}

// DenyToken revokes a credential until its natural expiry.
func (p *PostgresDB) DenyToken(ctx context.Context, jti string, expiresAt time.Time) error {
	query := `INSERT INTO token_denylist (jti, expires_at)
		VALUES ($1, $2) ON CONFLICT (jti) DO NOTHING`

	_, err := p.pool.Exec(ctx, query, jti, expiresAt)
	return err
}

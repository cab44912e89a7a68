package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const createSSHUsersTable = `
CREATE TABLE IF NOT EXISTS ssh_users (
    id              BIGSERIAL   PRIMARY KEY,
    username        TEXT        NOT NULL UNIQUE,
    fingerprint     TEXT        NOT NULL UNIQUE,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    last_login_at   TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_ssh_users_fingerprint
    ON ssh_users (fingerprint);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// SSHUser is an account allowed to open the SSH dashboard, keyed by the
// SHA256 fingerprint of its public key.
type SSHUser struct {
	ID          int64
	Username    string
	Fingerprint string
	CreatedAt   time.Time
	LastLoginAt *time.Time
}

type SSHUserRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewSSHUserRepository(pool PgxPool, tracer trace.Tracer) *SSHUserRepository {
	return &SSHUserRepository{pool: pool, tracer: tracer}
}

func (r *SSHUserRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "ssh-user-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createSSHUsersTable)
	return err
}

// FindByFingerprint returns nil without an error when no user matches.
func (r *SSHUserRepository) FindByFingerprint(ctx context.Context, fingerprint string) (*SSHUser, error) {
	_, span := r.tracer.Start(ctx, "ssh-user-repo.find-by-fingerprint")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT id, username, fingerprint, created_at, last_login_at
		 FROM ssh_users
		 WHERE fingerprint = $1`,
		fingerprint,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	u := &SSHUser{}
	if err := rows.Scan(&u.ID, &u.Username, &u.Fingerprint, &u.CreatedAt, &u.LastLoginAt); err != nil {
		return nil, err
	}
	return u, rows.Err()
}

func (r *SSHUserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	_, span := r.tracer.Start(ctx, "ssh-user-repo.update-last-login")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`UPDATE ssh_users SET last_login_at = NOW() WHERE id = $1`,
		id,
	)
	return err
}

// Upsert grants access for username with the given key fingerprint,
// replacing the fingerprint if the username already exists.
func (r *SSHUserRepository) Upsert(ctx context.Context, username, fingerprint string) (*SSHUser, error) {
	_, span := r.tracer.Start(ctx, "ssh-user-repo.upsert")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`INSERT INTO ssh_users (username, fingerprint)
		 VALUES ($1, $2)
		 ON CONFLICT (username) DO UPDATE SET fingerprint = EXCLUDED.fingerprint
		 RETURNING id, username, fingerprint, created_at, last_login_at`,
		username, fingerprint,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	u := &SSHUser{}
	if err := rows.Scan(&u.ID, &u.Username, &u.Fingerprint, &u.CreatedAt, &u.LastLoginAt); err != nil {
		return nil, err
	}
	return u, rows.Err()
}

package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const usage = "usage: go run ./cmd/migrate [up|down|status|version] [steps]"

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	loadEnvFunc = godotenv.Load
	openPool    = pgxpool.New
)

// migrationName captures version, name and direction from an embedded path,
// e.g. migrations/0001_create_ssh_users.up.sql.
var migrationName = regexp.MustCompile(`^migrations/([0-9]+)_([a-z0-9_]+)\.(up|down)\.sql$`)

type migration struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

type migrator struct {
	pool *pgxpool.Pool
	set  []migration
}

func main() {
	loadEnvFunc()

	if len(os.Args) < 2 {
		log.Fatal(usage)
	}
	if err := run(context.Background(), os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string) error {
	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		return errors.New("DATABASE_URL is required")
	}

	set, err := readMigrations(migrationsFS)
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	pool, err := openPool(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	m := &migrator{pool: pool, set: set}
	if err := m.bootstrap(ctx); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	switch args[0] {
	case "up":
		n, err := m.up(ctx)
		if err != nil {
			return err
		}
		log.Printf("applied %d migration(s)", n)
	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid down steps %q", args[1])
			}
			steps = n
		}
		n, err := m.down(ctx, steps)
		if err != nil {
			return err
		}
		log.Printf("rolled back %d migration(s)", n)
	case "status":
		report, err := m.status(ctx)
		if err != nil {
			return err
		}
		for _, line := range report {
			fmt.Println(line)
		}
	case "version":
		version, name, err := m.version(ctx)
		if err != nil {
			return err
		}
		if version == 0 {
			fmt.Println("no migrations applied")
			return nil
		}
		fmt.Printf("%d (%s)\n", version, name)
	default:
		return fmt.Errorf("unknown command %q. %s", args[0], usage)
	}
	return nil
}

// readMigrations pairs up and down files by version. Every version must
// carry both directions so a rollback is always possible.
func readMigrations(fsys fs.FS) ([]migration, error) {
	paths, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New("no migration files embedded")
	}

	byVersion := make(map[int64]*migration)
	for _, path := range paths {
		groups := migrationName.FindStringSubmatch(path)
		if groups == nil {
			return nil, fmt.Errorf("migration filename %s does not match NNNN_name.up|down.sql", path)
		}
		version, err := strconv.ParseInt(groups[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("migration %s: %w", path, err)
		}

		body, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, err
		}
		stmt := strings.TrimSpace(string(body))
		if stmt == "" {
			return nil, fmt.Errorf("migration %s is empty", path)
		}

		m := byVersion[version]
		if m == nil {
			m = &migration{Version: version, Name: groups[2]}
			byVersion[version] = m
		}
		if m.Name != groups[2] {
			return nil, fmt.Errorf("version %d names disagree: %s vs %s", version, m.Name, groups[2])
		}
		if groups[3] == "up" {
			if m.UpSQL != "" {
				return nil, fmt.Errorf("version %d has two up files", version)
			}
			m.UpSQL = stmt
		} else {
			if m.DownSQL != "" {
				return nil, fmt.Errorf("version %d has two down files", version)
			}
			m.DownSQL = stmt
		}
	}

	set := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.UpSQL == "" || m.DownSQL == "" {
			return nil, fmt.Errorf("version %d needs both up and down files", m.Version)
		}
		set = append(set, *m)
	}
	sort.Slice(set, func(i, j int) bool { return set[i].Version < set[j].Version })
	return set, nil
}

func (m *migrator) bootstrap(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    BIGINT PRIMARY KEY,
		name       TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	return err
}

func (m *migrator) applied(ctx context.Context) (map[int64]struct{}, error) {
	rows, err := m.pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	done := make(map[int64]struct{})
	for rows.Next() {
		var version int64
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		done[version] = struct{}{}
	}
	return done, rows.Err()
}

// inTx rolls back when fn fails, commits otherwise.
func (m *migrator) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (m *migrator) up(ctx context.Context) (int, error) {
	done, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, mig := range m.set {
		if _, ok := done[mig.Version]; ok {
			continue
		}
		err := m.inTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return fmt.Errorf("version %d up: %w", mig.Version, err)
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
				mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (m *migrator) down(ctx context.Context, steps int) (int, error) {
	if steps <= 0 {
		return 0, errors.New("steps must be positive")
	}

	byVersion := make(map[int64]migration, len(m.set))
	for _, mig := range m.set {
		byVersion[mig.Version] = mig
	}

	rows, err := m.pool.Query(ctx,
		`SELECT version FROM schema_migrations ORDER BY version DESC LIMIT $1`, steps)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	versions := make([]int64, 0, steps)
	for rows.Next() {
		var version int64
		if err := rows.Scan(&version); err != nil {
			return 0, err
		}
		versions = append(versions, version)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	count := 0
	for _, version := range versions {
		mig, ok := byVersion[version]
		if !ok {
			return count, fmt.Errorf("version %d is applied but has no embedded source", version)
		}
		err := m.inTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.DownSQL); err != nil {
				return fmt.Errorf("version %d down: %w", mig.Version, err)
			}
			_, err := tx.Exec(ctx,
				`DELETE FROM schema_migrations WHERE version = $1`, mig.Version)
			return err
		})
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// status lists every embedded migration with its applied state.
func (m *migrator) status(ctx context.Context) ([]string, error) {
	done, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}
	return statusReport(m.set, done), nil
}

func statusReport(set []migration, done map[int64]struct{}) []string {
	lines := make([]string, 0, len(set))
	for _, mig := range set {
		state := "pending"
		if _, ok := done[mig.Version]; ok {
			state = "applied"
		}
		lines = append(lines, fmt.Sprintf("%04d %-40s %s", mig.Version, mig.Name, state))
	}
	return lines
}

func (m *migrator) version(ctx context.Context) (int64, string, error) {
	var version int64
	var name string
	err := m.pool.QueryRow(ctx,
		`SELECT version, name FROM schema_migrations ORDER BY version DESC LIMIT 1`,
	).Scan(&version, &name)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return 0, "", nil
	case err != nil:
		return 0, "", err
	}
	return version, name, nil
}

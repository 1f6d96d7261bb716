package leads

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/vit0-9/breachsignal_api/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresStore keeps leads in a Postgres table.
type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// ConnectPostgres opens a pool, checks connectivity and applies pending
// migrations.
func ConnectPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool, now: time.Now}, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() { s.pool.Close() }

func (s *PostgresStore) Append(ctx context.Context, lead models.LeadRecord) (models.LeadRecord, error) {
	lead.ID = uuid.NewString()
	if lead.Timestamp.IsZero() {
		lead.Timestamp = s.now().UTC()
	}
	details, err := EncodeBreachDetails(lead.BreachDetails)
	if err != nil {
		return lead, fmt.Errorf("encode breach details: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO leads (id, email, name, company, breach_count, breach_details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, lead.ID, lead.Email, lead.Name, lead.Company, lead.BreachCount, details, lead.Timestamp)
	if err != nil {
		return lead, fmt.Errorf("insert lead: %w", err)
	}
	return lead, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.LeadRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, email, name, company, breach_count, breach_details, created_at
		FROM leads
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	out := []models.LeadRecord{}
	for rows.Next() {
		var (
			l       models.LeadRecord
			details string
		)
		if err := rows.Scan(&l.ID, &l.Email, &l.Name, &l.Company, &l.BreachCount, &details, &l.Timestamp); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		l.BreachDetails = ParseBreachDetails(details)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return out, nil
}

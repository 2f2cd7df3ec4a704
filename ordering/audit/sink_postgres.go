package audit

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// auditRow is the relational form of a Record. The formatted tail is kept
// alongside the parsed columns so operator queries and raw-line tooling
// read the same truth.
type auditRow struct {
	bun.BaseModel `bun:"table:order_audit"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Timestamp time.Time `bun:"ts,notnull"`
	Event     string    `bun:"event,notnull"`
	Outcome   string    `bun:"outcome,notnull"`
	Detail    string    `bun:"detail"`
}

// PostgresSink appends audit records to an append-only table. Nothing in
// this package updates or deletes rows.
type PostgresSink struct {
	db *bun.DB
}

type PostgresSinkConfig struct {
	DSN string `envconfig:"DSN" split_words:"true"`
}

func NewPostgresSink(cfg PostgresSinkConfig) (*PostgresSink, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("audit postgres dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return &PostgresSink{db: bun.NewDB(sqldb, pgdialect.New())}, nil
}

// EnsureSchema creates the audit table when missing. Called once at startup.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*auditRow)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (s *PostgresSink) Append(ctx context.Context, rec Record) error {
	tail := make([]string, 0, len(rec.Fields))
	for _, f := range rec.Fields {
		tail = append(tail, f.Key+"="+f.Value)
	}

	row := &auditRow{
		Timestamp: rec.Timestamp.UTC(),
		Event:     rec.Event,
		Outcome:   rec.Outcome,
		Detail:    strings.Join(tail, " | "),
	}
	_, err := s.db.NewInsert().Model(row).Exec(ctx)
	return err
}

func (s *PostgresSink) Close() error {
	return s.db.Close()
}

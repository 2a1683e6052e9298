package notify

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medflowhq/apptkit/pkg/pg"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrations returns the goose migrations for the delivery log, rooted at
// the .sql files. Apply them with pg.Migrate.
func Migrations() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		panic(fmt.Sprintf("notify: embedded migrations missing: %v", err))
	}
	return sub
}

// PGStorage persists the delivery log in Postgres.
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage creates a Postgres-backed delivery log on an existing pool.
// The appointment_deliveries table must exist; see Migrations.
func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

func (s *PGStorage) Create(ctx context.Context, d Delivery) error {
	if err := validateDelivery(d); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO appointment_deliveries
			(id, appointment_id, channel, recipient, subject, tag, status, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.ID, d.AppointmentID, d.Channel.String(), d.Recipient, d.Subject,
		d.Tag, d.Status.String(), d.Error, d.CreatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return fmt.Errorf("notify: delivery %s already exists", d.ID)
		}
		return fmt.Errorf("notify: insert delivery: %w", err)
	}
	return nil
}

func (s *PGStorage) Get(ctx context.Context, id uuid.UUID) (Delivery, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, appointment_id, channel, recipient, subject, tag, status, error, created_at
		FROM appointment_deliveries
		WHERE id = $1`, id)

	d, err := scanDelivery(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Delivery{}, ErrDeliveryNotFound
		}
		return Delivery{}, fmt.Errorf("notify: get delivery: %w", err)
	}
	return d, nil
}

func (s *PGStorage) List(ctx context.Context, appointmentID string, opts ListOptions) ([]Delivery, error) {
	var (
		conds = []string{"appointment_id = $1"}
		args  = []any{appointmentID}
	)
	if opts.Channel != "" {
		args = append(args, opts.Channel.String())
		conds = append(conds, "channel = $"+strconv.Itoa(len(args)))
	}
	if opts.Status != "" {
		args = append(args, opts.Status.String())
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}

	query := `
		SELECT id, appointment_id, channel, recipient, subject, tag, status, error, created_at
		FROM appointment_deliveries
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY created_at DESC`
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("notify: list deliveries: %w", err)
	}
	defer rows.Close()

	deliveries := []Delivery{}
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("notify: scan delivery: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("notify: list deliveries: %w", err)
	}

	return deliveries, nil
}

func scanDelivery(row pgx.Row) (Delivery, error) {
	var (
		d       Delivery
		channel string
		status  string
	)
	err := row.Scan(&d.ID, &d.AppointmentID, &channel, &d.Recipient, &d.Subject,
		&d.Tag, &status, &d.Error, &d.CreatedAt)
	if err != nil {
		return Delivery{}, err
	}
	d.Channel = Channel(channel)
	d.Status = DeliveryStatus(status)
	return d, nil
}

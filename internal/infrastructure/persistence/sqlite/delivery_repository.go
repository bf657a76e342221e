package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/checkout"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/delivery"
)

type DeliveryRepository struct {
	db *sql.DB
}

func NewDeliveryRepository(db *sql.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

const deliveryColumns = `id, session_id, invoice_id, customer_email, amount_paid, trigger_path, status, reason, attempted_at`

func (r *DeliveryRepository) Save(ctx context.Context, d *delivery.Delivery) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO deliveries (`+deliveryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID,
		d.SessionID,
		d.InvoiceID,
		d.CustomerEmail,
		d.AmountPaid,
		string(d.Trigger),
		string(d.Status),
		d.Reason,
		d.AttemptedAt.UnixMilli(),
	)
	return err
}

func (r *DeliveryRepository) FindDelivered(ctx context.Context, sessionID string) (*delivery.Delivery, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+deliveryColumns+`
		 FROM deliveries
		 WHERE session_id = ? AND status = ?
		 ORDER BY attempted_at
		 LIMIT 1`,
		sessionID,
		string(delivery.StatusDelivered),
	)

	d, err := scanDelivery(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, delivery.ErrDeliveryNotFound
		}
		return nil, err
	}

	return d, nil
}

func (r *DeliveryRepository) ListBySession(ctx context.Context, sessionID string) ([]delivery.Delivery, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+deliveryColumns+`
		 FROM deliveries
		 WHERE session_id = ?
		 ORDER BY attempted_at`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []delivery.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}

	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDelivery(s scanner) (*delivery.Delivery, error) {
	var (
		d           delivery.Delivery
		trigger     string
		status      string
		attemptedAt int64
	)

	if err := s.Scan(
		&d.ID,
		&d.SessionID,
		&d.InvoiceID,
		&d.CustomerEmail,
		&d.AmountPaid,
		&trigger,
		&status,
		&d.Reason,
		&attemptedAt,
	); err != nil {
		return nil, err
	}

	d.Trigger = checkout.Trigger(trigger)
	d.Status = delivery.Status(status)
	d.AttemptedAt = time.UnixMilli(attemptedAt).UTC()
	return &d, nil
}

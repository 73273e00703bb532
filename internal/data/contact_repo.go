package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "github.com/damedesign/portfolio/internal/errors"
	"github.com/damedesign/portfolio/internal/data/pgxutil"
	"github.com/damedesign/portfolio/internal/domain/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// ContactChannel is the LISTEN/NOTIFY channel carrying model.ContactEvent payloads.
const ContactChannel = "contact_submissions"

const contactColumns = `id, created_at, email, subject, message, attachment_urls, is_read`

// ContactRepo persists contact form submissions and publishes their changes.
type ContactRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewContactRepo creates a new ContactRepo.
func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewContactRepoWithTimeProvider creates a ContactRepo with a custom time provider (useful for tests).
func NewContactRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ContactRepo {
	return &ContactRepo{DB: db, timeProvider: tp}
}

// Create inserts a submission and notifies listeners in the same transaction.
func (r *ContactRepo) Create(ctx context.Context, req *model.ContactRequest) (*model.ContactSubmission, error) {
	if req == nil {
		return nil, errors.New("contact request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out model.ContactSubmission
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			INSERT INTO contact_submissions (email, subject, message, attachment_urls, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+contactColumns,
			req.Email, req.Subject, req.Message, nonNilStrings(req.AttachmentURLs()), r.timeProvider.Now().UTC())
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ContactSubmission])
		if err != nil {
			return err
		}
		return notifyContact(ctx, tx, model.ContactEvent{Op: model.ContactEventInsert, ID: out.ID})
	}})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List returns submissions newest first.
func (r *ContactRepo) List(ctx context.Context, limit int) ([]model.ContactSubmission, error) {
	if limit <= 0 {
		limit = 100
	}
	out, err := queryRows[model.ContactSubmission](ctx, r.DB,
		`SELECT `+contactColumns+` FROM contact_submissions ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact submissions: %w", err)
	}
	return out, nil
}

// CountUnread counts submissions not yet marked read.
func (r *ContactRepo) CountUnread(ctx context.Context) (int, error) {
	var n int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `SELECT count(*) FROM contact_submissions WHERE NOT is_read`).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread submissions: %w", err)
	}
	return n, nil
}

// MarkRead flags a submission as read.
func (r *ContactRepo) MarkRead(ctx context.Context, id int64) error {
	return r.mutate(ctx, model.ContactEvent{Op: model.ContactEventUpdate, ID: id},
		`UPDATE contact_submissions SET is_read = TRUE WHERE id = $1`)
}

// Delete removes a submission by ID.
func (r *ContactRepo) Delete(ctx context.Context, id int64) error {
	return r.mutate(ctx, model.ContactEvent{Op: model.ContactEventDelete, ID: id},
		`DELETE FROM contact_submissions WHERE id = $1`)
}

func (r *ContactRepo) mutate(ctx context.Context, ev model.ContactEvent, stmt string) error {
	return pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, stmt, ev.ID)
		if err != nil {
			return fmt.Errorf("contact %s: %w", ev.Op, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrContactNotFound
		}
		return notifyContact(ctx, tx, ev)
	}})
}

func notifyContact(ctx context.Context, tx pgx.Tx, ev model.ContactEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal contact event: %w", err)
	}
	if _, err := tx.Exec(ctx, `SELECT pg_notify($1::text, $2::text)`, ContactChannel, string(payload)); err != nil {
		return fmt.Errorf("notify %s: %w", ContactChannel, err)
	}
	return nil
}

// WaitForNotification blocks until the next contact change is published or ctx ends.
func (r *ContactRepo) WaitForNotification(ctx context.Context) (model.ContactEvent, error) {
	var ev model.ContactEvent

	conn, err := r.DB.Conn(ctx)
	if err != nil {
		return ev, fmt.Errorf("get conn from pool: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			_ = cerr
		}
	}()

	quoted := pgx.Identifier{ContactChannel}.Sanitize()
	if _, execErr := conn.ExecContext(ctx, "LISTEN "+quoted); execErr != nil {
		return ev, fmt.Errorf("listen %s: %w", ContactChannel, execErr)
	}
	defer func() {
		if _, execErr := conn.ExecContext(context.Background(), "UNLISTEN "+quoted); execErr != nil {
			_ = execErr
		}
	}()

	err = conn.Raw(func(dc any) error {
		sc, ok := dc.(*stdlib.Conn)
		if !ok {
			return errors.New("unexpected driver connection type; expected *stdlib.Conn")
		}
		n, notifyErr := sc.Conn().WaitForNotification(ctx)
		if notifyErr != nil {
			return notifyErr
		}
		if jsonErr := json.Unmarshal([]byte(n.Payload), &ev); jsonErr != nil {
			// Unknown payloads still signal a change.
			ev = model.ContactEvent{Op: model.ContactEventUpdate}
		}
		return nil
	})
	return ev, err
}

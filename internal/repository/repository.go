package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samandr77/microservices/bills/internal/entity"
)

var billColumns = []string{
	"id::text",
	"email",
	"type",
	"name",
	"amount",
	"date",
	"vat",
	"pct",
	"commentary",
	"file_url",
	"file_name",
	"status",
	"comment_admin",
}

type Repository struct {
	db *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{
		db: pool,
	}
}

// CreateDraft inserts the row a receipt upload creates before the form is submitted.
func (r *Repository) CreateDraft(ctx context.Context, bill entity.Bill) error {
	id, err := parseID(bill.ID)
	if err != nil {
		return err
	}

	sqlQuery :=
		`INSERT INTO bills (id, email, file_url, file_name, status, pct)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.Exec(ctx, sqlQuery,
		id,
		bill.Email,
		bill.FileURL,
		bill.FileName,
		string(entity.BillStatusPending),
		entity.DefaultPct,
	)
	if err != nil {
		return fmt.Errorf("insert draft: %w", err)
	}

	return nil
}

// CompleteBill fills a draft with the submitted form values. Completed bills are never overwritten.
func (r *Repository) CompleteBill(ctx context.Context, bill entity.Bill) (entity.Bill, error) {
	id, err := parseID(bill.ID)
	if err != nil {
		return entity.Bill{}, err
	}

	stmt := sq.Update("bills").
		Set("type", bill.Type).
		Set("name", bill.Name).
		Set("amount", bill.Amount).
		Set("date", bill.Date).
		Set("vat", string(bill.VAT)).
		Set("pct", int(bill.Pct)).
		Set("commentary", bill.Commentary).
		Set("status", string(entity.BillStatusPending)).
		Set("completed_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "email": bill.Email, "completed_at": nil}).
		Suffix("RETURNING " + strings.Join(billColumns, ", ")).
		PlaceholderFormat(sq.Dollar)

	sqlQuery, args, err := stmt.ToSql()
	if err != nil {
		return entity.Bill{}, err
	}

	completed, err := scanBill(r.db.QueryRow(ctx, sqlQuery, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Bill{}, fmt.Errorf("%w: draft %s", entity.ErrNotFound, bill.ID)
		}

		return entity.Bill{}, err
	}

	return completed, nil
}

// ListBills returns submitted bills; drafts stay hidden.
func (r *Repository) ListBills(ctx context.Context, filter entity.BillFilter) ([]entity.Bill, error) {
	stmt := sq.Select(billColumns...).
		From("bills").
		Where(sq.NotEq{"completed_at": nil}).
		OrderBy("date DESC", "created_at").
		PlaceholderFormat(sq.Dollar)

	if filter.Email != "" {
		stmt = stmt.Where(sq.Eq{"email": filter.Email})
	}

	sqlQuery, args, err := stmt.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	bills := make([]entity.Bill, 0)

	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}

		bills = append(bills, bill)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return bills, nil
}

func (r *Repository) BillByID(ctx context.Context, id string) (entity.Bill, error) {
	billID, err := parseID(id)
	if err != nil {
		return entity.Bill{}, err
	}

	sqlQuery, args, err := sq.Select(billColumns...).
		From("bills").
		Where(sq.Eq{"id": billID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return entity.Bill{}, err
	}

	bill, err := scanBill(r.db.QueryRow(ctx, sqlQuery, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Bill{}, fmt.Errorf("%w: bill %s", entity.ErrNotFound, id)
		}

		return entity.Bill{}, err
	}

	return bill, nil
}

// SetStatus moves a bill from one status to another only if it is still in from.
func (r *Repository) SetStatus(ctx context.Context, id string, from, to entity.BillStatus, commentAdmin string) error {
	billID, err := parseID(id)
	if err != nil {
		return err
	}

	sqlQuery :=
		`UPDATE bills
		SET status = $1, comment_admin = $2
		WHERE id = $3 AND status = $4`

	tag, err := r.db.Exec(ctx, sqlQuery, string(to), commentAdmin, billID, string(from))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: bill %s is no longer %s", entity.ErrInvalidTransition, id, from)
	}

	return nil
}

func (r *Repository) DeleteStaleDrafts(ctx context.Context, createdBefore time.Time) (int64, error) {
	sqlQuery :=
		`DELETE FROM bills
		WHERE completed_at IS NULL AND created_at < $1`

	tag, err := r.db.Exec(ctx, sqlQuery, createdBefore)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func scanBill(row pgx.Row) (entity.Bill, error) {
	var (
		bill   entity.Bill
		vat    string
		pct    int
		status string
	)

	err := row.Scan(
		&bill.ID,
		&bill.Email,
		&bill.Type,
		&bill.Name,
		&bill.Amount,
		&bill.Date,
		&vat,
		&pct,
		&bill.Commentary,
		&bill.FileURL,
		&bill.FileName,
		&status,
		&bill.CommentAdmin,
	)
	if err != nil {
		return entity.Bill{}, err
	}

	bill.VAT = entity.VAT(vat)
	bill.Pct = entity.Percent(pct)
	bill.Status = entity.BillStatus(status)

	return bill, nil
}

func parseID(id string) (uuid.UUID, error) {
	billID, err := uuid.FromString(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bill %s", entity.ErrNotFound, id)
	}

	return billID, nil
}

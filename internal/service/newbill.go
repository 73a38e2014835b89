package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/samandr77/microservices/bills/internal/entity"
)

type FormState int

const (
	FormStateDrafting FormState = iota
	FormStateFileAttached
	FormStateSubmitted
)

func (s FormState) String() string {
	switch s {
	case FormStateDrafting:
		return "drafting"
	case FormStateFileAttached:
		return "file_attached"
	case FormStateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// NewBillForm drives the creation of one bill: a receipt upload creates a pending
// draft in the store, submitting the form completes it.
type NewBillForm struct {
	deps Deps

	submitMu sync.Mutex

	mu    sync.Mutex
	seq   uint64
	state FormState
	draft entity.Draft
}

func NewNewBillForm(deps Deps) *NewBillForm {
	return &NewBillForm{deps: deps}
}

func (f *NewBillForm) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state
}

func (f *NewBillForm) Draft() entity.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.draft
}

// SelectFile validates and uploads a receipt. Only the latest accepted selection
// may attach its upload result; older uploads that resolve later get ErrStaleUpload.
func (f *NewBillForm) SelectFile(ctx context.Context, file entity.ReceiptFile) (entity.Draft, error) {
	session, err := requireEmployee(ctx, f.deps.Session)
	if err != nil {
		return entity.Draft{}, err
	}

	if !file.HasAllowedExtension() {
		return entity.Draft{}, &entity.ValidationError{
			Field:   "file",
			Message: "only jpg, jpeg and png receipts are accepted",
		}
	}

	if f.deps.Store == nil {
		return entity.Draft{}, &entity.TransportError{Op: "create", Err: entity.ErrStoreNotConfigured}
	}

	f.mu.Lock()
	if f.state == FormStateSubmitted {
		f.mu.Unlock()
		return entity.Draft{}, entity.ErrFormSubmitted
	}

	f.seq++
	seq := f.seq
	f.mu.Unlock()

	res, err := f.deps.Store.Create(ctx, entity.UploadRequest{
		Email: session.Email,
		File:  file,
	})
	if err != nil {
		slog.ErrorContext(ctx, "upload receipt", "file_name", file.Name, "selection", seq, "error", err)
		return entity.Draft{}, &entity.TransportError{Op: "create", Err: err}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if seq != f.seq {
		slog.InfoContext(ctx, "discard stale upload", "bill_id", res.BillID(), "selection", seq, "latest", f.seq)
		return entity.Draft{}, entity.ErrStaleUpload
	}

	if f.state == FormStateSubmitted {
		return entity.Draft{}, entity.ErrFormSubmitted
	}

	fileName := res.FileName
	if fileName == "" {
		fileName = file.Name
	}

	f.draft = entity.Draft{
		BillID:   res.BillID(),
		FileURL:  res.FileURL,
		FileName: fileName,
	}
	f.state = FormStateFileAttached

	slog.InfoContext(ctx, "receipt attached", "bill_id", f.draft.BillID, "selection", seq)

	return f.draft, nil
}

// Submit completes the draft created by SelectFile and navigates back to the bills list.
func (f *NewBillForm) Submit(ctx context.Context, values entity.FormValues) (entity.Bill, error) {
	session, err := requireEmployee(ctx, f.deps.Session)
	if err != nil {
		return entity.Bill{}, err
	}

	f.submitMu.Lock()
	defer f.submitMu.Unlock()

	f.mu.Lock()
	state, draft := f.state, f.draft
	f.mu.Unlock()

	if state == FormStateSubmitted {
		return entity.Bill{}, entity.ErrFormSubmitted
	}

	if draft.BillID == "" {
		return entity.Bill{}, entity.ErrNoDraft
	}

	bill, err := BuildBill(session.Email, draft, values)
	if err != nil {
		return entity.Bill{}, err
	}

	if f.deps.Store != nil {
		_, err = f.deps.Store.Update(ctx, bill)
		if err != nil {
			slog.ErrorContext(ctx, "update bill", "bill_id", bill.ID, "error", err)
			return entity.Bill{}, &entity.TransportError{Op: "update", Err: err}
		}

		if f.deps.Notifier != nil {
			f.deps.Notifier.BillSubmitted(ctx, bill)
		}
	}

	f.mu.Lock()
	f.state = FormStateSubmitted
	f.mu.Unlock()

	if f.deps.Navigator != nil {
		f.deps.Navigator.Navigate(ctx, entity.RouteBills)
	}

	return bill, nil
}

// BuildBill assembles the completed record. pct falls back to 20 when blank or not a number.
func BuildBill(email string, draft entity.Draft, values entity.FormValues) (entity.Bill, error) {
	amount, err := strconv.Atoi(strings.TrimSpace(values.Amount))
	if err != nil {
		return entity.Bill{}, &entity.ValidationError{Field: "amount", Message: "must be an integer"}
	}

	date := strings.TrimSpace(values.Date)
	if date == "" {
		return entity.Bill{}, &entity.ValidationError{Field: "date", Message: "is required"}
	}

	return entity.Bill{
		ID:         draft.BillID,
		Email:      email,
		Type:       values.Type,
		Name:       values.Name,
		Amount:     amount,
		Date:       date,
		VAT:        normalizeVAT(values.VAT),
		Pct:        ParsePct(values.Pct),
		Commentary: values.Commentary,
		FileURL:    draft.FileURL,
		FileName:   draft.FileName,
		Status:     entity.BillStatusPending,
	}, nil
}

func ParsePct(raw string) entity.Percent {
	pct, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return entity.DefaultPct
	}

	return entity.Percent(pct)
}

func normalizeVAT(raw string) entity.VAT {
	raw = strings.TrimSpace(raw)

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return entity.VAT(raw)
	}

	return entity.VAT(d.String())
}

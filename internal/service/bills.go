package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/samandr77/microservices/bills/internal/entity"
)

var frenchMonths = [12]string{"Jan", "Fév", "Mar", "Avr", "Mai", "Jui", "Jui", "Aoû", "Sep", "Oct", "Nov", "Déc"}

type BillList struct {
	deps Deps
}

func NewBillList(deps Deps) *BillList {
	return &BillList{deps: deps}
}

// Load returns the session owner's bills, most recent first.
func (b *BillList) Load(ctx context.Context) ([]entity.BillView, error) {
	session, err := requireEmployee(ctx, b.deps.Session)
	if err != nil {
		return nil, err
	}

	if b.deps.Store == nil {
		return []entity.BillView{}, nil
	}

	bills, err := b.deps.Store.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "list bills", "error", err)
		return nil, &entity.TransportError{Op: "list", Err: err}
	}

	owned := make([]entity.Bill, 0, len(bills))

	for _, bill := range bills {
		if bill.Email == session.Email {
			owned = append(owned, bill)
		}
	}

	SortByDateDesc(owned)

	views := make([]entity.BillView, 0, len(owned))

	for _, bill := range owned {
		views = append(views, toView(ctx, bill))
	}

	return views, nil
}

func (b *BillList) ByID(ctx context.Context, id string) (entity.BillView, error) {
	views, err := b.Load(ctx)
	if err != nil {
		return entity.BillView{}, err
	}

	for _, v := range views {
		if v.ID == id {
			return v, nil
		}
	}

	return entity.BillView{}, fmt.Errorf("%w: bill %s", entity.ErrNotFound, id)
}

func (b *BillList) OnClickNewBill(ctx context.Context) {
	if b.deps.Navigator != nil {
		b.deps.Navigator.Navigate(ctx, entity.RouteNewBill)
	}
}

func (b *BillList) OnClickIconEye(bill entity.BillView) entity.Preview {
	if bill.FileURL == "" {
		return entity.Preview{BillID: bill.ID, Placeholder: true}
	}

	return entity.Preview{
		BillID:   bill.ID,
		FileURL:  bill.FileURL,
		FileName: bill.FileName,
	}
}

// SortByDateDesc compares the raw ISO-8601 strings, keeping fetch order for equal dates.
func SortByDateDesc(bills []entity.Bill) {
	sort.SliceStable(bills, func(i, j int) bool {
		return bills[i].Date > bills[j].Date
	})
}

// FormatDate renders an ISO date as "4 Avr. 04".
func FormatDate(raw string) (string, error) {
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		t, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return "", fmt.Errorf("parse date %q: %w", raw, err)
		}
	}

	return fmt.Sprintf("%d %s. %02d", t.Day(), frenchMonths[t.Month()-1], t.Year()%100), nil
}

func toView(ctx context.Context, bill entity.Bill) entity.BillView {
	date, err := FormatDate(bill.Date)
	if err != nil {
		slog.WarnContext(ctx, "keep raw bill date", "bill_id", bill.ID, "error", err)

		date = bill.Date
	}

	return entity.BillView{
		ID:           bill.ID,
		Email:        bill.Email,
		Type:         bill.Type,
		Name:         bill.Name,
		Amount:       bill.Amount,
		Date:         date,
		RawDate:      bill.Date,
		VAT:          bill.VAT,
		Pct:          bill.Pct,
		Commentary:   bill.Commentary,
		FileURL:      bill.FileURL,
		FileName:     bill.FileName,
		Status:       bill.Status.Label(),
		StatusCode:   string(bill.Status),
		CommentAdmin: bill.CommentAdmin,
	}
}

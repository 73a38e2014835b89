package service

import (
	"context"
	"time"

	"github.com/samandr77/microservices/bills/internal/entity"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=service.go -destination=../mocks/service.go -package=mocks

// StoreGateway is the remote persistence for bill records and receipt files.
type StoreGateway interface {
	Create(ctx context.Context, req entity.UploadRequest) (entity.UploadResult, error)
	Update(ctx context.Context, bill entity.Bill) (entity.Bill, error)
	List(ctx context.Context) ([]entity.Bill, error)
}

type SessionAccessor interface {
	Session(ctx context.Context) (entity.Session, bool)
}

type Navigator interface {
	Navigate(ctx context.Context, route entity.Route)
}

type Notifier interface {
	BillSubmitted(ctx context.Context, bill entity.Bill)
}

type ReviewRepository interface {
	BillByID(ctx context.Context, id string) (entity.Bill, error)
	SetStatus(ctx context.Context, id string, from, to entity.BillStatus, commentAdmin string) error
}

type DraftRepository interface {
	DeleteStaleDrafts(ctx context.Context, createdBefore time.Time) (int64, error)
}

// Deps are shared by BillList and NewBillForm. A nil Store means offline mode.
type Deps struct {
	Store     StoreGateway
	Session   SessionAccessor
	Navigator Navigator
	Notifier  Notifier
}

func requireEmployee(ctx context.Context, sessions SessionAccessor) (entity.Session, error) {
	if sessions == nil {
		return entity.Session{}, entity.ErrUnauthorized
	}

	s, ok := sessions.Session(ctx)
	if !ok {
		return entity.Session{}, entity.ErrUnauthorized
	}

	if !s.IsEmployee() {
		return entity.Session{}, entity.ErrForbidden
	}

	return s, nil
}

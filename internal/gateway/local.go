package gateway

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/samandr77/microservices/bills/internal/entity"
)

type BillRepository interface {
	CreateDraft(ctx context.Context, bill entity.Bill) error
	CompleteBill(ctx context.Context, bill entity.Bill) (entity.Bill, error)
	ListBills(ctx context.Context, filter entity.BillFilter) ([]entity.Bill, error)
}

type ObjectStorage interface {
	UploadObject(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// Local is the Store Gateway of the postgres driver: receipts go to object
// storage, bill rows to the repository.
type Local struct {
	repo    BillRepository
	objects ObjectStorage
}

func NewLocal(repo BillRepository, objects ObjectStorage) *Local {
	return &Local{
		repo:    repo,
		objects: objects,
	}
}

func (l *Local) Create(ctx context.Context, req entity.UploadRequest) (entity.UploadResult, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return entity.UploadResult{}, fmt.Errorf("generate bill id: %w", err)
	}

	key := id.String() + "." + req.File.Ext()

	fileURL, err := l.objects.UploadObject(ctx, key, req.File.ContentType, req.File.Data)
	if err != nil {
		return entity.UploadResult{}, fmt.Errorf("upload receipt: %w", err)
	}

	err = l.repo.CreateDraft(ctx, entity.Bill{
		ID:       id.String(),
		Email:    req.Email,
		FileURL:  fileURL,
		FileName: req.File.Name,
	})
	if err != nil {
		return entity.UploadResult{}, fmt.Errorf("create draft: %w", err)
	}

	return entity.UploadResult{
		ID:       id.String(),
		FileURL:  fileURL,
		FileName: req.File.Name,
		Key:      key,
	}, nil
}

func (l *Local) Update(ctx context.Context, bill entity.Bill) (entity.Bill, error) {
	updated, err := l.repo.CompleteBill(ctx, bill)
	if err != nil {
		return entity.Bill{}, fmt.Errorf("complete bill: %w", err)
	}

	return updated, nil
}

func (l *Local) List(ctx context.Context) ([]entity.Bill, error) {
	bills, err := l.repo.ListBills(ctx, entity.BillFilter{})
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}

	return bills, nil
}

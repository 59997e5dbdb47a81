package handler

import (
	"context"

	"larder/internal/events"
	"larder/internal/expiry"
	"larder/internal/model"
	"larder/internal/taxonomy"
	"larder/internal/transfer"

	"github.com/stretchr/testify/mock"
)

// MockInventoryService is a mock implementation of InventoryService.
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) AddProduct(ctx context.Context, req model.NewProduct) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockInventoryService) ScanAndAdd(ctx context.Context, req model.ScanRequest) (*model.ScanResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScanResult), args.Error(1)
}

func (m *MockInventoryService) LookupProduct(ctx context.Context, barcode string) (*model.ProductInfo, bool, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.ProductInfo), args.Bool(1), args.Error(2)
}

func (m *MockInventoryService) RemoveProduct(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryService) UpdateQuantity(ctx context.Context, id string, quantity int) (bool, error) {
	args := m.Called(ctx, id, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryService) UpdateProduct(ctx context.Context, id string, update model.ProductUpdate) (bool, error) {
	args := m.Called(ctx, id, update)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryService) ListProducts(ctx context.Context, loc model.Location) ([]model.ProductView, error) {
	args := m.Called(ctx, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductView), args.Error(1)
}

func (m *MockInventoryService) ExpiringWithin(ctx context.Context, days int) []model.ProductView {
	args := m.Called(ctx, days)
	return args.Get(0).([]model.ProductView)
}

func (m *MockInventoryService) History(ctx context.Context) []model.HistoryEntry {
	args := m.Called(ctx)
	return args.Get(0).([]model.HistoryEntry)
}

func (m *MockInventoryService) ClearLocation(ctx context.Context, loc model.Location) (int, error) {
	args := m.Called(ctx, loc)
	return args.Int(0), args.Error(1)
}

func (m *MockInventoryService) ResetAll(ctx context.Context) (model.ResetResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.ResetResult), args.Error(1)
}

func (m *MockInventoryService) ListTaxonomy(ctx context.Context, kind taxonomy.Kind, loc model.Location) ([]string, error) {
	args := m.Called(ctx, kind, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockInventoryService) AddTaxonomy(ctx context.Context, kind taxonomy.Kind, name string, loc model.Location) (bool, error) {
	args := m.Called(ctx, kind, name, loc)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryService) RemoveTaxonomy(ctx context.Context, kind taxonomy.Kind, name string, loc model.Location) (bool, error) {
	args := m.Called(ctx, kind, name, loc)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryService) RenameTaxonomy(ctx context.Context, kind taxonomy.Kind, oldName, newName string, loc model.Location) (bool, error) {
	args := m.Called(ctx, kind, oldName, newName, loc)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryService) ResetTaxonomy(ctx context.Context, kind taxonomy.Kind, loc model.Location) ([]string, error) {
	args := m.Called(ctx, kind, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockInventoryService) Export(ctx context.Context, shape transfer.Shape) (transfer.Document, error) {
	args := m.Called(ctx, shape)
	return args.Get(0).(transfer.Document), args.Error(1)
}

func (m *MockInventoryService) Import(ctx context.Context, raw []byte) (*model.ImportResult, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportResult), args.Error(1)
}

func (m *MockInventoryService) ExportToBackup(ctx context.Context, shape transfer.Shape) (string, error) {
	args := m.Called(ctx, shape)
	return args.String(0), args.Error(1)
}

func (m *MockInventoryService) ImportFromBackup(ctx context.Context, key string) (*model.ImportResult, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportResult), args.Error(1)
}

func (m *MockInventoryService) Sweep(ctx context.Context) (expiry.Summary, error) {
	args := m.Called(ctx)
	return args.Get(0).(expiry.Summary), args.Error(1)
}

func (m *MockInventoryService) Summary(ctx context.Context) expiry.Summary {
	args := m.Called(ctx)
	return args.Get(0).(expiry.Summary)
}

func (m *MockInventoryService) DrainEvents(ctx context.Context) []events.Event {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]events.Event)
}

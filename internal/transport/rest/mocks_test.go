package rest

import (
	"context"
	"encoding/json"

	"github.com/abgdnv/storefront/internal/model"
	"github.com/abgdnv/storefront/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockSaleService struct {
	mock.Mock
}

func (m *MockSaleService) RecordSale(ctx context.Context, req service.SaleCreateDto) (*model.Sale, error) {
	args := m.Called(ctx, req)
	sale, _ := args.Get(0).(*model.Sale)
	return sale, args.Error(1)
}

func (m *MockSaleService) List(ctx context.Context) ([]model.Sale, error) {
	args := m.Called(ctx)
	sales, _ := args.Get(0).([]model.Sale)
	return sales, args.Error(1)
}

func (m *MockSaleService) Get(ctx context.Context, id string) (*model.Sale, error) {
	args := m.Called(ctx, id)
	sale, _ := args.Get(0).(*model.Sale)
	return sale, args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context) ([]model.UserView, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.UserView)
	return users, args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id string) (*model.UserView, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*model.UserView)
	return user, args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, dto service.UserCreateDto) (*model.UserView, error) {
	args := m.Called(ctx, dto)
	user, _ := args.Get(0).(*model.UserView)
	return user, args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id string, dto service.UserUpdateDto) (*model.UserView, error) {
	args := m.Called(ctx, id, dto)
	user, _ := args.Get(0).(*model.UserView)
	return user, args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserService) Authenticate(ctx context.Context, username, password string) (*model.UserView, error) {
	args := m.Called(ctx, username, password)
	user, _ := args.Get(0).(*model.UserView)
	return user, args.Error(1)
}

type MockRecordService[T model.Record] struct {
	mock.Mock
}

func (m *MockRecordService[T]) List(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]T)
	return list, args.Error(1)
}

func (m *MockRecordService[T]) Get(ctx context.Context, id string) (*T, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*T)
	return rec, args.Error(1)
}

func (m *MockRecordService[T]) Create(ctx context.Context, rec T) (*T, error) {
	args := m.Called(ctx, rec)
	created, _ := args.Get(0).(*T)
	return created, args.Error(1)
}

func (m *MockRecordService[T]) Update(ctx context.Context, id string, patch json.RawMessage) (*T, error) {
	args := m.Called(ctx, id, patch)
	updated, _ := args.Get(0).(*T)
	return updated, args.Error(1)
}

func (m *MockRecordService[T]) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(subject, role string) (string, error) {
	args := m.Called(subject, role)
	return args.String(0), args.Error(1)
}

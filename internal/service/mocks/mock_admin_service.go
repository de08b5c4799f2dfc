package mocks

import (
	"context"
	"io"

	"github.com/encarrerauy/encarreraok/internal/model"
	"github.com/encarrerauy/encarreraok/internal/repository"
	"github.com/encarrerauy/encarreraok/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) List(ctx context.Context, eventID string, page repository.PageQuery) (*repository.PageResult[model.Acceptance], error) {
	args := m.Called(ctx, eventID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Acceptance]), args.Error(1)
}

func (m *MockAdminService) Get(ctx context.Context, id string) (*model.Acceptance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Acceptance), args.Error(1)
}

func (m *MockAdminService) Verify(ctx context.Context, id string) (*service.VerificationReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VerificationReport), args.Error(1)
}

func (m *MockAdminService) Export(ctx context.Context, id string, w io.Writer) error {
	args := m.Called(ctx, id, w)
	if fn, ok := args.Get(0).(func(io.Writer)); ok {
		fn(w)
		return args.Error(1)
	}
	return args.Error(0)
}

func (m *MockAdminService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

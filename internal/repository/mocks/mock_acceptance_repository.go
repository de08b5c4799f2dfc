package mocks

import (
	"context"

	"github.com/encarrerauy/encarreraok/internal/model"
	"github.com/encarrerauy/encarreraok/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockAcceptanceRepository struct {
	mock.Mock
}

func (m *MockAcceptanceRepository) Create(ctx context.Context, acc *model.Acceptance) (*model.Acceptance, error) {
	args := m.Called(ctx, acc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Acceptance), args.Error(1)
}

func (m *MockAcceptanceRepository) FindByID(ctx context.Context, id string) (*model.Acceptance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Acceptance), args.Error(1)
}

func (m *MockAcceptanceRepository) List(ctx context.Context, eventID string, pq repository.PageQuery) (*repository.PageResult[model.Acceptance], error) {
	args := m.Called(ctx, eventID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Acceptance]), args.Error(1)
}

func (m *MockAcceptanceRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

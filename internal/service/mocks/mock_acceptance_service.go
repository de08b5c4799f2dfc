package mocks

import (
	"context"

	"github.com/encarrerauy/encarreraok/internal/model"
	"github.com/encarrerauy/encarreraok/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAcceptanceService struct {
	mock.Mock
}

func (m *MockAcceptanceService) Submit(ctx context.Context, req service.SubmitRequest) (*model.Acceptance, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Acceptance), args.Error(1)
}

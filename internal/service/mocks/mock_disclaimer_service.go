package mocks

import (
	"context"

	"github.com/encarrerauy/encarreraok/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockDisclaimerService struct {
	mock.Mock
}

func (m *MockDisclaimerService) CreateVersion(ctx context.Context, eventID, text, createdBy string) (*model.DisclaimerVersion, error) {
	args := m.Called(ctx, eventID, text, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DisclaimerVersion), args.Error(1)
}

func (m *MockDisclaimerService) GetActive(ctx context.Context, eventID string) (*model.DisclaimerVersion, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DisclaimerVersion), args.Error(1)
}

func (m *MockDisclaimerService) GetByHash(ctx context.Context, eventID, hashSHA256 string) (*model.DisclaimerVersion, error) {
	args := m.Called(ctx, eventID, hashSHA256)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DisclaimerVersion), args.Error(1)
}

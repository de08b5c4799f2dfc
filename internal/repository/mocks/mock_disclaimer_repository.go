package mocks

import (
	"context"

	"github.com/encarrerauy/encarreraok/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockDisclaimerRepository struct {
	mock.Mock
}

func (m *MockDisclaimerRepository) CreateVersion(ctx context.Context, ver *model.DisclaimerVersion) (*model.DisclaimerVersion, error) {
	args := m.Called(ctx, ver)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DisclaimerVersion), args.Error(1)
}

func (m *MockDisclaimerRepository) FindActive(ctx context.Context, eventID string) (*model.DisclaimerVersion, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DisclaimerVersion), args.Error(1)
}

func (m *MockDisclaimerRepository) FindLatest(ctx context.Context, eventID string) (*model.DisclaimerVersion, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DisclaimerVersion), args.Error(1)
}

func (m *MockDisclaimerRepository) FindByHash(ctx context.Context, eventID, hashSHA256 string) (*model.DisclaimerVersion, error) {
	args := m.Called(ctx, eventID, hashSHA256)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DisclaimerVersion), args.Error(1)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/encarrerauy/encarreraok/internal/model"
	repoMocks "github.com/encarrerauy/encarreraok/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		input      CreateEventInput
		setupMocks func(mRepo *repoMocks.MockEventRepository)
		wantErr    error
		checkRes   func(t *testing.T, ev *model.Event)
	}{
		{
			name: "happy path",
			input: CreateEventInput{
				Name:             "  Rural del Prado 10K  ",
				EventDate:        time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
				Organizer:        "Club Atletismo",
				RequireSignature: true,
				RequireDocument:  true,
			},
			setupMocks: func(mRepo *repoMocks.MockEventRepository) {
				mRepo.On("Create", ctx, mock.MatchedBy(func(ev *model.Event) bool {
					return ev.ID != "" && ev.Name == "Rural del Prado 10K" && ev.Active
				})).Return(&model.Event{
					ID:               "gen-id",
					Name:             "Rural del Prado 10K",
					Active:           true,
					RequireSignature: true,
					RequireDocument:  true,
				}, nil)
			},
			checkRes: func(t *testing.T, ev *model.Event) {
				assert.Equal(t, "Rural del Prado 10K", ev.Name)
				assert.True(t, ev.Active)
				assert.True(t, ev.RequireSignature)
				assert.False(t, ev.RequireAudio)
			},
		},
		{
			name:       "blank name rejected",
			input:      CreateEventInput{Name: "   "},
			setupMocks: func(mRepo *repoMocks.MockEventRepository) {},
			wantErr:    ErrNameRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockEventRepository)
			svc := NewEventService(mRepo)

			tt.setupMocks(mRepo)

			ev, err := svc.Create(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				tt.checkRes(t, ev)
			}

			mRepo.AssertExpectations(t)
		})
	}
}

func TestEventService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mRepo *repoMocks.MockEventRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   "ev-1",
			setupMocks: func(mRepo *repoMocks.MockEventRepository) {
				mRepo.On("FindByID", ctx, "ev-1").
					Return(&model.Event{ID: "ev-1", Name: "10K"}, nil)
			},
		},
		{
			name: "not found maps sentinel",
			id:   "missing",
			setupMocks: func(mRepo *repoMocks.MockEventRepository) {
				mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrEventNotFound,
		},
		{
			name:       "empty id",
			id:         "",
			setupMocks: func(mRepo *repoMocks.MockEventRepository) {},
			wantErr:    ErrIDRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockEventRepository)
			svc := NewEventService(mRepo)

			tt.setupMocks(mRepo)

			ev, err := svc.Get(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.id, ev.ID)
			}

			mRepo.AssertExpectations(t)
		})
	}
}

func TestEventService_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockEventRepository)
		mRepo.On("SetActive", ctx, "ev-1", false).Return(nil)

		err := NewEventService(mRepo).Deactivate(ctx, "ev-1")
		assert.NoError(t, err)
		mRepo.AssertExpectations(t)
	})

	t.Run("missing event", func(t *testing.T) {
		mRepo := new(repoMocks.MockEventRepository)
		mRepo.On("SetActive", ctx, "ghost", false).Return(sql.ErrNoRows)

		err := NewEventService(mRepo).Deactivate(ctx, "ghost")
		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("repo error passes through", func(t *testing.T) {
		mRepo := new(repoMocks.MockEventRepository)
		repoErr := errors.New("db down")
		mRepo.On("SetActive", ctx, "ev-1", false).Return(repoErr)

		err := NewEventService(mRepo).Deactivate(ctx, "ev-1")
		assert.ErrorIs(t, err, repoErr)
	})
}

package settings_test

import (
	"context"
	"encoding/json"
	"testing"

	"go-portal/internal/settings"
	settingserrors "go-portal/internal/settings/errors"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeSettingsRepository struct {
	findFn func(ctx context.Context) (*settings.Settings, error)
	saveFn func(ctx context.Context, s *settings.Settings) error
}

func (f *fakeSettingsRepository) Find(ctx context.Context) (*settings.Settings, error) {
	if f.findFn != nil {
		return f.findFn(ctx)
	}
	return &settings.Settings{
		ID:                          1,
		MaxConsecutiveLeaveDays:     14,
		WorkHoursPerDay:             decimal.NewFromInt(8),
		CarryoverCap:                10,
		ChatEnabled:                 true,
		ReservationApprovalRequired: true,
	}, nil
}

func (f *fakeSettingsRepository) Save(ctx context.Context, s *settings.Settings) error {
	if f.saveFn != nil {
		return f.saveFn(ctx, s)
	}
	return nil
}

func TestSettingsGet_LoadsDefaults(t *testing.T) {
	svc := settings.NewService(&fakeSettingsRepository{}, nil)

	got, err := svc.Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 14, got.MaxConsecutiveLeaveDays)
	assert.True(t, got.WorkHoursPerDay.Equal(decimal.NewFromInt(8)))
	assert.True(t, got.ChatEnabled)
}

func TestSettingsGet_ServesFromCache(t *testing.T) {
	cached := settings.Settings{
		ID:                      1,
		MaxConsecutiveLeaveDays: 21,
		WorkHoursPerDay:         decimal.RequireFromString("7.5"),
	}
	payload, err := json.Marshal(cached)
	assert.NoError(t, err)

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("settings:global").SetVal(string(payload))

	repoHit := false
	repo := &fakeSettingsRepository{
		findFn: func(ctx context.Context) (*settings.Settings, error) {
			repoHit = true
			return nil, nil
		},
	}

	svc := settings.NewService(repo, rdb)

	got, err := svc.Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 21, got.MaxConsecutiveLeaveDays)
	assert.False(t, repoHit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsUpdate_RejectsBadWorkHours(t *testing.T) {
	svc := settings.NewService(&fakeSettingsRepository{}, nil)

	for _, hours := range []string{"0", "-1", "25", "eight"} {
		_, err := svc.Update(context.Background(), settings.UpdateSettingsRequest{
			MaxConsecutiveLeaveDays: 14,
			WorkHoursPerDay:         hours,
		})
		assert.ErrorIs(t, err, settingserrors.ErrInvalidWorkHours, "hours=%s", hours)
	}
}

func TestSettingsUpdate_PersistsAllFields(t *testing.T) {
	var saved *settings.Settings
	repo := &fakeSettingsRepository{
		saveFn: func(ctx context.Context, s *settings.Settings) error {
			saved = s
			return nil
		},
	}

	svc := settings.NewService(repo, nil)

	resp, err := svc.Update(context.Background(), settings.UpdateSettingsRequest{
		MaxConsecutiveLeaveDays:     21,
		WorkHoursPerDay:             "7.5",
		CarryoverCap:                5,
		ChatEnabled:                 false,
		ReservationApprovalRequired: false,
	})
	assert.NoError(t, err)
	assert.NotNil(t, saved)
	assert.Equal(t, 21, saved.MaxConsecutiveLeaveDays)
	assert.True(t, saved.WorkHoursPerDay.Equal(decimal.RequireFromString("7.5")))
	assert.Equal(t, "7.5", resp.WorkHoursPerDay)
	assert.False(t, resp.ChatEnabled)
	assert.False(t, resp.ReservationApprovalRequired)
}

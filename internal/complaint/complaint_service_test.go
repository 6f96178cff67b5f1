package complaint_test

import (
	"context"
	"testing"
	"time"

	"go-portal/internal/complaint"
	complainterrors "go-portal/internal/complaint/errors"
	"go-portal/internal/employee"
	"go-portal/internal/rbac"
	"go-portal/internal/settings"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeComplaintRepository struct {
	createFn         func(ctx context.Context, c *complaint.Complaint) error
	findByIDFn       func(ctx context.Context, id string) (*complaint.Complaint, error)
	appendMessageFn  func(ctx context.Context, m *complaint.Message) error
	updateStatusFn   func(ctx context.Context, id, status string) error
	setDirectRespFn  func(ctx context.Context, id, response string, at time.Time) error
	findByEmployeeFn func(ctx context.Context, employeeID string) ([]complaint.Complaint, error)
	findAllFn        func(ctx context.Context) ([]complaint.Complaint, error)
}

func (f *fakeComplaintRepository) Create(ctx context.Context, c *complaint.Complaint) error {
	if f.createFn != nil {
		return f.createFn(ctx, c)
	}
	return nil
}

func (f *fakeComplaintRepository) FindByID(ctx context.Context, id string) (*complaint.Complaint, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeComplaintRepository) FindByEmployee(ctx context.Context, employeeID string) ([]complaint.Complaint, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeComplaintRepository) FindAll(ctx context.Context) ([]complaint.Complaint, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeComplaintRepository) AppendMessage(ctx context.Context, m *complaint.Message) error {
	if f.appendMessageFn != nil {
		return f.appendMessageFn(ctx, m)
	}
	return nil
}

func (f *fakeComplaintRepository) UpdateStatus(ctx context.Context, id, status string) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (f *fakeComplaintRepository) SetDirectResponse(ctx context.Context, id, response string, at time.Time) error {
	if f.setDirectRespFn != nil {
		return f.setDirectRespFn(ctx, id, response, at)
	}
	return nil
}

type fakeSettingsService struct {
	cfg settings.Settings
}

func (f *fakeSettingsService) Get(ctx context.Context) (settings.Settings, error) {
	return f.cfg, nil
}
func (f *fakeSettingsService) Update(ctx context.Context, req settings.UpdateSettingsRequest) (settings.SettingsResponse, error) {
	return settings.SettingsResponse{}, nil
}
func (f *fakeSettingsService) GetResponse(ctx context.Context) (settings.SettingsResponse, error) {
	return settings.SettingsResponse{}, nil
}

type complaintServiceDeps struct {
	service  complaint.Service
	repo     *fakeComplaintRepository
	settings *fakeSettingsService
	broker   *complaint.Broker
}

func setupComplaintServiceTest(t *testing.T) *complaintServiceDeps {
	t.Helper()

	repo := &fakeComplaintRepository{}
	settingsSvc := &fakeSettingsService{cfg: settings.Settings{
		WorkHoursPerDay: decimal.NewFromInt(8),
		ChatEnabled:     true,
	}}
	rbacSvc, err := rbac.NewService()
	assert.NoError(t, err)

	// An unmocked redis client makes every publish fall back to the local
	// broker, which is exactly what we want to observe in tests.
	rdb, _ := redismock.NewClientMock()
	broker := complaint.NewBroker()
	bridge := complaint.NewBridge(rdb, broker)

	svc := complaint.NewService(repo, settingsSvc, rbacSvc, bridge)
	return &complaintServiceDeps{
		service:  svc,
		repo:     repo,
		settings: settingsSvc,
		broker:   broker,
	}
}

func threadWith(owner uuid.UUID, hrA, hrB uuid.UUID) *complaint.Complaint {
	c := &complaint.Complaint{
		ID:         uuid.New(),
		EmployeeID: owner,
		Subject:    "broken chair",
		Status:     complaint.StatusBacklog,
		Employee:   &employee.Employee{ID: owner, FullName: "Owner Person"},
	}
	c.Messages = []complaint.Message{
		{ID: uuid.New(), ComplaintID: c.ID, AuthorID: owner, Content: "help",
			Author: &employee.Employee{ID: owner, FullName: "Owner Person"}},
		{ID: uuid.New(), ComplaintID: c.ID, AuthorID: hrA, Content: "looking into it", IsFromHR: true,
			Author: &employee.Employee{ID: hrA, FullName: "Hana HR"}},
		{ID: uuid.New(), ComplaintID: c.ID, AuthorID: hrB, Content: "ordered a new one", IsFromHR: true,
			Author: &employee.Employee{ID: hrB, FullName: "Budi HR"}},
		{ID: uuid.New(), ComplaintID: c.ID, AuthorID: hrA, Content: "arriving friday", IsFromHR: true,
			Author: &employee.Employee{ID: hrA, FullName: "Hana HR"}},
	}
	return c
}

func TestComplaintService_GetThread(t *testing.T) {
	ctx := context.Background()

	t.Run("hr read anonymizes owner and enumerates staff stably", func(t *testing.T) {
		deps := setupComplaintServiceTest(t)

		owner, hrA, hrB := uuid.New(), uuid.New(), uuid.New()
		thread := threadWith(owner, hrA, hrB)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*complaint.Complaint, error) {
			return thread, nil
		}

		resp, err := deps.service.GetThread(ctx, thread.ID.String(), uuid.New().String(), "HR")
		assert.NoError(t, err)
		assert.Equal(t, "Anonymous Employee", resp.OwnerName)
		assert.Equal(t, "Anonymous Employee", resp.Messages[0].SenderName)
		assert.Equal(t, "HR Staff 1", resp.Messages[1].SenderName)
		assert.Equal(t, "HR Staff 2", resp.Messages[2].SenderName)
		// Same sender keeps the same pseudonym within one read.
		assert.Equal(t, "HR Staff 1", resp.Messages[3].SenderName)
	})

	t.Run("owner read keeps real names", func(t *testing.T) {
		deps := setupComplaintServiceTest(t)

		owner, hrA, hrB := uuid.New(), uuid.New(), uuid.New()
		thread := threadWith(owner, hrA, hrB)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*complaint.Complaint, error) {
			return thread, nil
		}

		resp, err := deps.service.GetThread(ctx, thread.ID.String(), owner.String(), "EMPLOYEE")
		assert.NoError(t, err)
		assert.Equal(t, "Owner Person", resp.OwnerName)
		assert.Equal(t, "Hana HR", resp.Messages[1].SenderName)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		deps := setupComplaintServiceTest(t)

		thread := threadWith(uuid.New(), uuid.New(), uuid.New())
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*complaint.Complaint, error) {
			return thread, nil
		}

		_, err := deps.service.GetThread(ctx, thread.ID.String(), uuid.New().String(), "EMPLOYEE")
		assert.ErrorIs(t, err, complainterrors.ErrThreadForbidden)
	})
}

func TestComplaintService_PostMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects when chat disabled", func(t *testing.T) {
		deps := setupComplaintServiceTest(t)
		deps.settings.cfg.ChatEnabled = false

		_, err := deps.service.PostMessage(ctx, uuid.New().String(), uuid.New().String(), "EMPLOYEE", complaint.PostMessageRequest{
			Content: "hello",
		})
		assert.ErrorIs(t, err, complainterrors.ErrChatDisabled)
	})

	t.Run("owner message fans out to subscribers", func(t *testing.T) {
		deps := setupComplaintServiceTest(t)

		owner := uuid.New()
		thread := threadWith(owner, uuid.New(), uuid.New())
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*complaint.Complaint, error) {
			return thread, nil
		}
		sub := deps.broker.Subscribe(thread.ID.String())
		defer deps.broker.Unsubscribe(thread.ID.String(), sub)

		resp, err := deps.service.PostMessage(ctx, thread.ID.String(), owner.String(), "EMPLOYEE", complaint.PostMessageRequest{
			Content: "any update?",
		})
		assert.NoError(t, err)
		assert.False(t, resp.IsFromHR)

		ev := <-sub
		assert.Equal(t, "message", ev.Name)
	})

	t.Run("hr message is tagged", func(t *testing.T) {
		deps := setupComplaintServiceTest(t)

		thread := threadWith(uuid.New(), uuid.New(), uuid.New())
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*complaint.Complaint, error) {
			return thread, nil
		}
		var appended *complaint.Message
		deps.repo.appendMessageFn = func(ctx context.Context, m *complaint.Message) error {
			appended = m
			return nil
		}

		resp, err := deps.service.PostMessage(ctx, thread.ID.String(), uuid.New().String(), "HR", complaint.PostMessageRequest{
			Content: "resolved",
		})
		assert.NoError(t, err)
		assert.True(t, appended.IsFromHR)
		assert.True(t, resp.IsFromHR)
	})
}

func TestComplaintService_SetStatus(t *testing.T) {
	ctx := context.Background()

	deps := setupComplaintServiceTest(t)

	thread := threadWith(uuid.New(), uuid.New(), uuid.New())
	deps.repo.findByIDFn = func(ctx context.Context, id string) (*complaint.Complaint, error) {
		return thread, nil
	}
	sub := deps.broker.Subscribe(thread.ID.String())
	defer deps.broker.Unsubscribe(thread.ID.String(), sub)

	resp, err := deps.service.SetStatus(ctx, thread.ID.String(), complaint.SetStatusRequest{
		Status: complaint.StatusInProgress,
	})
	assert.NoError(t, err)
	assert.Equal(t, complaint.StatusInProgress, resp.Status)

	ev := <-sub
	assert.Equal(t, "status", ev.Name)
}

func TestComplaintService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("starts in backlog", func(t *testing.T) {
		deps := setupComplaintServiceTest(t)
		var created *complaint.Complaint
		deps.repo.createFn = func(ctx context.Context, c *complaint.Complaint) error {
			created = c
			return nil
		}

		resp, err := deps.service.Create(ctx, uuid.New().String(), complaint.CreateComplaintRequest{
			Subject:     "parking",
			Description: "no spots left by 9am",
		})
		assert.NoError(t, err)
		assert.Equal(t, complaint.StatusBacklog, created.Status)
		assert.Equal(t, complaint.StatusBacklog, resp.Status)
	})

	t.Run("rejects malformed employee id", func(t *testing.T) {
		deps := setupComplaintServiceTest(t)
		persisted := false
		deps.repo.createFn = func(ctx context.Context, c *complaint.Complaint) error {
			persisted = true
			return nil
		}

		_, err := deps.service.Create(ctx, "not-a-uuid", complaint.CreateComplaintRequest{
			Subject:     "parking",
			Description: "no spots left by 9am",
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "employee id is invalid")
		assert.False(t, persisted)
	})
}

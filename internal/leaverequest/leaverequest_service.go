package leaverequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-portal/internal/employee"
	"go-portal/internal/events"
	leaverequesterrors "go-portal/internal/leaverequest/errors"
	"go-portal/internal/leavetype"
	"go-portal/internal/messaging/kafka"
	"go-portal/internal/rbac"
	"go-portal/internal/settings"
	"go-portal/internal/shared/apperror"
	"go-portal/internal/shared/contextutil"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusCanceled = "CANCELLED"
)

//go:generate mockgen -source=leaverequest_service.go -destination=mock/leaverequest_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, employeeID string, req CreateLeaveRequest) (LeaveRequestResponse, error)
	Decide(ctx context.Context, requestID, actorID, actorRole string, req DecideLeaveRequest) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, requestID, actorID, actorRole string) (LeaveRequestResponse, error)
	GetByID(ctx context.Context, id, actorID, actorRole string) (LeaveRequestResponse, error)
	ListMine(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error)
	ListPendingForApprover(ctx context.Context, approverID string) ([]LeaveRequestResponse, error)
	ListAll(ctx context.Context) ([]LeaveRequestResponse, error)
}

type service struct {
	db            *sql.DB
	repo          Repository
	employeeRepo  employee.Repository
	leaveTypeRepo leavetype.Repository
	settings      settings.Service
	outbox        kafka.OutboxRepository
	rbac          rbac.Service
	logger        *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	leaveTypeRepo leavetype.Repository,
	settingsService settings.Service,
	outboxRepo kafka.OutboxRepository,
	rbacService rbac.Service,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	return &service{
		db:            db,
		repo:          repo,
		employeeRepo:  employeeRepo,
		leaveTypeRepo: leaveTypeRepo,
		settings:      settingsService,
		outbox:        outboxRepo,
		rbac:          rbacService,
		logger:        l,
	}
}

func (s *service) Create(ctx context.Context, employeeID string, req CreateLeaveRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("create leave request requested",
		zap.String("employee_id", employeeID),
		zap.String("type_code", req.TypeCode),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidDateRange
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Error("create leave request settings read failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	span := int(endDate.Sub(startDate).Hours()/24) + 1
	if span > cfg.MaxConsecutiveLeaveDays {
		return LeaveRequestResponse{}, apperror.Newf(
			apperror.CodeInvalidInput, http.StatusBadRequest,
			"requested span of %d days exceeds the maximum of %d consecutive days",
			span, cfg.MaxConsecutiveLeaveDays,
		)
	}

	lt, err := s.leaveTypeRepo.FindByCode(ctx, req.TypeCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrUnknownLeaveType
		}
		return LeaveRequestResponse{}, err
	}

	if req.HalfDay {
		if !lt.AllowHalfDay {
			return LeaveRequestResponse{}, leaverequesterrors.ErrHalfDayNotAllowed
		}
		if req.HalfDayPortion == nil {
			return LeaveRequestResponse{}, leaverequesterrors.ErrHalfDayPortionRequired
		}
		// A half day weighs 0.5 against the balance, so it cannot block
		// more than one calendar day.
		if !startDate.Equal(endDate) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrHalfDayMultiDay
		}
	}

	emp, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if lt.RequiredWorkDays != nil {
		worked := emp.TenureDays(time.Now().UTC())
		if worked < *lt.RequiredWorkDays {
			return LeaveRequestResponse{}, apperror.Newf(
				apperror.CodeInvalidInput, http.StatusBadRequest,
				"insufficient tenure for %s: %d days worked / %d required",
				lt.Code, worked, *lt.RequiredWorkDays,
			)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave request begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// The advisory lock serializes overlap checks per employee so two
	// concurrent creates cannot both pass validation and both commit.
	if err := qtx.LockEmployeeLeaves(ctx, employeeID); err != nil {
		s.logger.Error("create leave request lock failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	overlap, err := qtx.HasOverlappingPeriod(ctx, employeeID, startDate, endDate)
	if err != nil {
		s.logger.Error("create leave request overlap check failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave request overlap detected",
			zap.String("employee_id", employeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveRequestResponse{}, leaverequesterrors.ErrLeaveOverlap
	}

	l := &LeaveRequest{
		ID:             uuid.New(),
		EmployeeID:     emp.ID,
		LeaveTypeID:    lt.ID,
		Reason:         req.Reason,
		StartDate:      startDate,
		EndDate:        endDate,
		HalfDay:        req.HalfDay,
		HalfDayPortion: req.HalfDayPortion,
		Status:         StatusPending,
	}
	// One approval row per current manager. Zero managers leaves the request
	// pending until an HR direct decision resolves it.
	for _, m := range emp.Managers {
		l.Approvals = append(l.Approvals, Approval{
			ID:             uuid.New(),
			LeaveRequestID: l.ID,
			ApproverID:     m.ID,
		})
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave request persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave request commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	s.logger.Info("create leave request success",
		zap.String("request_id", l.ID.String()),
		zap.String("employee_id", employeeID),
		zap.Int("approvers", len(l.Approvals)),
	)

	l.Employee = emp
	l.LeaveType = lt
	return mapToResponse(*l), nil
}

func (s *service) Decide(ctx context.Context, requestID, actorID, actorRole string, req DecideLeaveRequest) (LeaveRequestResponse, error) {
	approved := req.Approved != nil && *req.Approved
	s.logger.Debug("decide leave request requested",
		zap.String("request_id", requestID),
		zap.String("actor_id", actorID),
		zap.Bool("approved", approved),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, apperror.InvalidField("actor id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave request begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.LockRequest(ctx, requestID); err != nil {
		s.logger.Error("decide leave request lock failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	status, err := qtx.GetStatus(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if status != StatusPending {
		return LeaveRequestResponse{}, leaverequesterrors.ErrNotPending
	}

	now := time.Now().UTC()
	finalStatus := ""

	if s.rbac.Can(actorRole, "leave", "decide-direct") {
		// Direct decision: every undecided approval row is force-marked so
		// none is left in tri-state limbo.
		if approved {
			finalStatus = StatusApproved
		} else {
			finalStatus = StatusRejected
		}
		if err := qtx.ForceDecideAll(ctx, requestID, approved, req.Comment, now); err != nil {
			s.logger.Error("decide leave request force mark failed", zap.Error(err))
			return LeaveRequestResponse{}, err
		}
	} else {
		approvals, err := qtx.ListApprovals(ctx, requestID)
		if err != nil {
			return LeaveRequestResponse{}, err
		}
		var mine *Approval
		for i := range approvals {
			if approvals[i].ApproverID == actorUUID {
				mine = &approvals[i]
				break
			}
		}
		if mine == nil {
			return LeaveRequestResponse{}, leaverequesterrors.ErrNotAnApprover
		}
		if mine.Approved != nil {
			return LeaveRequestResponse{}, leaverequesterrors.ErrAlreadyResponded
		}
		if err := qtx.RecordDecision(ctx, mine.ID.String(), approved, req.Comment, now); err != nil {
			s.logger.Error("decide leave request record failed", zap.Error(err))
			return LeaveRequestResponse{}, err
		}
		mine.Approved = &approved

		finalStatus = evaluateQuorum(approvals)
	}

	if finalStatus != "" && finalStatus != StatusPending {
		if err := qtx.UpdateStatus(ctx, requestID, finalStatus); err != nil {
			s.logger.Error("decide leave request status update failed", zap.Error(err))
			return LeaveRequestResponse{}, err
		}
		s.enqueueDecisionEvent(ctx, tx, requestID, finalStatus, actorID)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave request commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	s.logger.Info("decide leave request success",
		zap.String("request_id", requestID),
		zap.String("status", finalStatus),
	)

	return s.GetByID(ctx, requestID, actorID, actorRole)
}

// evaluateQuorum resolves the overall status from the approval rows: any
// rejection wins immediately, unanimity approves, anything else stays pending.
func evaluateQuorum(approvals []Approval) string {
	allApproved := len(approvals) > 0
	for _, a := range approvals {
		if a.Approved == nil {
			allApproved = false
			continue
		}
		if !*a.Approved {
			return StatusRejected
		}
	}
	if allApproved {
		return StatusApproved
	}
	return StatusPending
}

func (s *service) Cancel(ctx context.Context, requestID, actorID, actorRole string) (LeaveRequestResponse, error) {
	l, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	isOwner := l.EmployeeID.String() == actorID
	if !isOwner && !s.rbac.Can(actorRole, "leave", "decide-direct") {
		return LeaveRequestResponse{}, leaverequesterrors.ErrCancelForbidden
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.LockRequest(ctx, requestID); err != nil {
		return LeaveRequestResponse{}, err
	}
	status, err := qtx.GetStatus(ctx, requestID)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if status != StatusPending && status != StatusApproved {
		return LeaveRequestResponse{}, leaverequesterrors.ErrCancelInvalidState
	}
	if err := qtx.UpdateStatus(ctx, requestID, StatusCanceled); err != nil {
		return LeaveRequestResponse{}, err
	}
	s.enqueueDecisionEvent(ctx, tx, requestID, StatusCanceled, actorID)

	if err := tx.Commit(); err != nil {
		return LeaveRequestResponse{}, err
	}
	s.logger.Info("cancel leave request success",
		zap.String("request_id", requestID),
		zap.String("actor_id", actorID),
	)

	l.Status = StatusCanceled
	return mapToResponse(*l), nil
}

func (s *service) GetByID(ctx context.Context, id, actorID, actorRole string) (LeaveRequestResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}

	allowed := l.EmployeeID.String() == actorID ||
		s.rbac.Can(actorRole, "employee", "manage")
	if !allowed {
		for _, a := range l.Approvals {
			if a.ApproverID.String() == actorID {
				allowed = true
				break
			}
		}
	}
	if !allowed {
		return LeaveRequestResponse{}, leaverequesterrors.ErrReadForbidden
	}
	return mapToResponse(*l), nil
}

func (s *service) ListMine(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error) {
	list, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(list), nil
}

func (s *service) ListPendingForApprover(ctx context.Context, approverID string) ([]LeaveRequestResponse, error) {
	list, err := s.repo.FindPendingForApprover(ctx, approverID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(list), nil
}

func (s *service) ListAll(ctx context.Context) ([]LeaveRequestResponse, error) {
	list, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(list), nil
}

// enqueueDecisionEvent stages the notification event in the outbox inside the
// same transaction. A staging failure is logged and swallowed so notification
// plumbing never blocks the workflow mutation itself.
func (s *service) enqueueDecisionEvent(ctx context.Context, tx *sql.Tx, requestID, status, actorID string) {
	l, err := s.repo.FindByID(ctx, requestID)
	employeeID := ""
	if err == nil {
		employeeID = l.EmployeeID.String()
	}

	payload, err := json.Marshal(events.LeaveDecisionEvent{
		EventType:  "leave_request_decided",
		RequestID:  contextutil.GetRequestID(ctx),
		LeaveID:    requestID,
		EmployeeID: employeeID,
		Status:     status,
		DecidedBy:  actorID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("decision event marshal failed", zap.Error(err))
		return
	}

	err = s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   requestID,
		EventType:     "leave_request_decided",
		Topic:         events.LeaveDecisionTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		s.logger.Warn("decision event enqueue failed",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
	}
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaverequesterrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:             l.ID.String(),
		EmployeeID:     l.EmployeeID.String(),
		LeaveTypeID:    l.LeaveTypeID.String(),
		Reason:         l.Reason,
		StartDate:      l.StartDate.Format("2006-01-02"),
		EndDate:        l.EndDate.Format("2006-01-02"),
		TotalDays:      l.SpanDays(),
		HalfDay:        l.HalfDay,
		HalfDayPortion: l.HalfDayPortion,
		Status:         l.Status,
		Approvals:      make([]ApprovalResponse, 0, len(l.Approvals)),
		CreatedAt:      l.CreatedAt.Format(time.RFC3339),
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.FullName
	}
	if l.LeaveType != nil {
		resp.LeaveTypeCode = l.LeaveType.Code
	}
	for _, a := range l.Approvals {
		ar := ApprovalResponse{
			ID:         a.ID.String(),
			ApproverID: a.ApproverID.String(),
			Approved:   a.Approved,
			Comment:    a.Comment,
		}
		if a.Approver != nil {
			ar.ApproverName = a.Approver.FullName
		}
		if a.RespondedAt != nil {
			v := a.RespondedAt.Format(time.RFC3339)
			ar.RespondedAt = &v
		}
		resp.Approvals = append(resp.Approvals, ar)
	}
	return resp
}

func mapToListResponse(list []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(list))
	for i, l := range list {
		resp[i] = mapToResponse(l)
	}
	return resp
}

package reservation

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-portal/internal/employee"
	"go-portal/internal/rbac"
	reservationerrors "go-portal/internal/reservation/errors"
	"go-portal/internal/settings"
	"go-portal/internal/shared/apperror"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusCanceled = "CANCELLED"
)

//go:generate mockgen -source=reservation_service.go -destination=mock/reservation_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, requesterID string, req CreateReservationRequest) (ReservationResponse, error)
	Respond(ctx context.Context, id, actorID, actorRole string, req RespondReservationRequest) (ReservationResponse, error)
	Update(ctx context.Context, id, actorID string, req UpdateReservationRequest) (ReservationResponse, error)
	Cancel(ctx context.Context, id, actorID, actorRole string) (ReservationResponse, error)
	GetByID(ctx context.Context, id, actorID, actorRole string) (ReservationResponse, error)
	ListMine(ctx context.Context, requesterID string) ([]ReservationResponse, error)
	ListOwned(ctx context.Context, ownerID string) ([]ReservationResponse, error)
	ListAll(ctx context.Context) ([]ReservationResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	settings     settings.Service
	rbac         rbac.Service
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	settingsService settings.Service,
	rbacService rbac.Service,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("reservation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("reservation.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		settings:     settingsService,
		rbac:         rbacService,
		logger:       l,
	}
}

func (s *service) Create(ctx context.Context, requesterID string, req CreateReservationRequest) (ReservationResponse, error) {
	s.logger.Debug("create reservation requested",
		zap.String("requester_id", requesterID),
		zap.String("resource_id", req.ResourceID),
		zap.String("date", req.Date),
		zap.String("hours", req.Hours),
	)

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return ReservationResponse{}, reservationerrors.ErrInvalidDateFormat
	}
	hours, err := parseHours(req.Hours)
	if err != nil {
		return ReservationResponse{}, err
	}
	resourceUUID, err := uuid.Parse(req.ResourceID)
	if err != nil {
		return ReservationResponse{}, apperror.InvalidField("resource id")
	}
	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return ReservationResponse{}, apperror.InvalidField("requester id")
	}

	resource, err := s.employeeRepo.FindByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReservationResponse{}, reservationerrors.ErrResourceNotFound
		}
		return ReservationResponse{}, err
	}
	if len(resource.Managers) == 0 {
		return ReservationResponse{}, reservationerrors.ErrUnmanagedResource
	}
	owner := resource.Managers[0]
	if owner.ID.String() == requesterID {
		return ReservationResponse{}, reservationerrors.ErrSelfReservation
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Error("create reservation settings read failed", zap.Error(err))
		return ReservationResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create reservation begin tx failed", zap.Error(err))
		return ReservationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Serialize capacity checks per (resource, date) so two concurrent
	// requests cannot both pass and overbook the day.
	if err := qtx.LockResourceDate(ctx, req.ResourceID, date); err != nil {
		s.logger.Error("create reservation lock failed", zap.Error(err))
		return ReservationResponse{}, err
	}
	booked, err := qtx.SumBookedHours(ctx, req.ResourceID, date)
	if err != nil {
		s.logger.Error("create reservation capacity read failed", zap.Error(err))
		return ReservationResponse{}, err
	}
	if booked.Add(hours).GreaterThan(cfg.WorkHoursPerDay) {
		remaining := cfg.WorkHoursPerDay.Sub(booked)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		s.logger.Warn("create reservation capacity exceeded",
			zap.String("resource_id", req.ResourceID),
			zap.String("date", req.Date),
			zap.String("booked", booked.String()),
			zap.String("requested", hours.String()),
		)
		return ReservationResponse{}, apperror.Newf(
			apperror.CodeConflict, http.StatusConflict,
			"daily capacity exceeded: %s hours remaining for this resource on %s",
			remaining.String(), req.Date,
		)
	}

	status := StatusPending
	if !cfg.ReservationApprovalRequired {
		status = StatusApproved
	}
	res := &Reservation{
		ID:          uuid.New(),
		ResourceID:  resourceUUID,
		OwnerID:     owner.ID,
		RequesterID: requesterUUID,
		Date:        date,
		Hours:       hours,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
	}
	if err := qtx.Create(ctx, res); err != nil {
		s.logger.Error("create reservation persist failed", zap.Error(err))
		return ReservationResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create reservation commit failed", zap.Error(err))
		return ReservationResponse{}, err
	}
	s.logger.Info("create reservation success",
		zap.String("reservation_id", res.ID.String()),
		zap.String("resource_id", req.ResourceID),
		zap.String("status", status),
	)

	res.Owner = &owner
	return mapToResponse(*res), nil
}

func (s *service) Respond(ctx context.Context, id, actorID, actorRole string, req RespondReservationRequest) (ReservationResponse, error) {
	res, err := s.findOr404(ctx, id)
	if err != nil {
		return ReservationResponse{}, err
	}
	isOwner := res.OwnerID.String() == actorID
	if !isOwner && !s.rbac.Can(actorRole, "reservation", "admin") {
		return ReservationResponse{}, reservationerrors.ErrRespondForbidden
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ReservationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.LockReservation(ctx, id); err != nil {
		return ReservationResponse{}, err
	}
	status, err := qtx.GetStatus(ctx, id)
	if err != nil {
		return ReservationResponse{}, err
	}
	if status != StatusPending {
		return ReservationResponse{}, reservationerrors.ErrNotPending
	}

	newStatus := StatusRejected
	if req.Approved != nil && *req.Approved {
		newStatus = StatusApproved
	}
	now := time.Now().UTC()
	if err := qtx.RecordResponse(ctx, id, newStatus, req.Comment, now); err != nil {
		return ReservationResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return ReservationResponse{}, err
	}
	s.logger.Info("respond reservation success",
		zap.String("reservation_id", id),
		zap.String("status", newStatus),
	)

	res.Status = newStatus
	res.RespondedAt = &now
	if req.Comment != "" {
		res.ResponseComment = &req.Comment
	}
	return mapToResponse(*res), nil
}

// Update is a plain data patch: any status, no capacity re-validation.
func (s *service) Update(ctx context.Context, id, actorID string, req UpdateReservationRequest) (ReservationResponse, error) {
	res, err := s.findOr404(ctx, id)
	if err != nil {
		return ReservationResponse{}, err
	}
	if res.RequesterID.String() != actorID && res.OwnerID.String() != actorID {
		return ReservationResponse{}, reservationerrors.ErrUpdateForbidden
	}

	hours, err := parseHours(req.Hours)
	if err != nil {
		return ReservationResponse{}, err
	}
	res.Hours = hours
	res.Title = req.Title
	if req.Description != nil {
		res.Description = req.Description
	}

	if err := s.repo.Update(ctx, res); err != nil {
		s.logger.Error("update reservation persist failed",
			zap.String("reservation_id", id),
			zap.Error(err),
		)
		return ReservationResponse{}, err
	}
	return mapToResponse(*res), nil
}

func (s *service) Cancel(ctx context.Context, id, actorID, actorRole string) (ReservationResponse, error) {
	res, err := s.findOr404(ctx, id)
	if err != nil {
		return ReservationResponse{}, err
	}
	if res.RequesterID.String() != actorID && !s.rbac.Can(actorRole, "reservation", "admin") {
		return ReservationResponse{}, reservationerrors.ErrCancelForbidden
	}
	if res.Status == StatusCanceled {
		return ReservationResponse{}, reservationerrors.ErrAlreadyCancelled
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ReservationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.LockReservation(ctx, id); err != nil {
		return ReservationResponse{}, err
	}
	status, err := qtx.GetStatus(ctx, id)
	if err != nil {
		return ReservationResponse{}, err
	}
	if status == StatusCanceled {
		return ReservationResponse{}, reservationerrors.ErrAlreadyCancelled
	}
	if err := qtx.UpdateStatus(ctx, id, StatusCanceled); err != nil {
		return ReservationResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return ReservationResponse{}, err
	}
	s.logger.Info("cancel reservation success", zap.String("reservation_id", id))

	res.Status = StatusCanceled
	return mapToResponse(*res), nil
}

func (s *service) GetByID(ctx context.Context, id, actorID, actorRole string) (ReservationResponse, error) {
	res, err := s.findOr404(ctx, id)
	if err != nil {
		return ReservationResponse{}, err
	}
	allowed := res.RequesterID.String() == actorID ||
		res.OwnerID.String() == actorID ||
		res.ResourceID.String() == actorID ||
		s.rbac.Can(actorRole, "reservation", "admin")
	if !allowed {
		return ReservationResponse{}, reservationerrors.ErrReadForbidden
	}
	return mapToResponse(*res), nil
}

func (s *service) ListMine(ctx context.Context, requesterID string) ([]ReservationResponse, error) {
	list, err := s.repo.FindByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(list), nil
}

func (s *service) ListOwned(ctx context.Context, ownerID string) ([]ReservationResponse, error) {
	list, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(list), nil
}

func (s *service) ListAll(ctx context.Context) ([]ReservationResponse, error) {
	list, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(list), nil
}

func (s *service) findOr404(ctx context.Context, id string) (*Reservation, error) {
	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reservationerrors.ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

func parseHours(v string) (decimal.Decimal, error) {
	h, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, reservationerrors.ErrInvalidHours
	}
	if !h.IsPositive() || h.Exponent() < -2 || h.GreaterThan(decimal.NewFromInt(24)) {
		return decimal.Zero, reservationerrors.ErrInvalidHours
	}
	return h, nil
}

func mapToResponse(r Reservation) ReservationResponse {
	resp := ReservationResponse{
		ID:              r.ID.String(),
		ResourceID:      r.ResourceID.String(),
		OwnerID:         r.OwnerID.String(),
		RequesterID:     r.RequesterID.String(),
		Date:            r.Date.Format("2006-01-02"),
		Hours:           r.Hours.String(),
		Title:           r.Title,
		Description:     r.Description,
		Status:          r.Status,
		ResponseComment: r.ResponseComment,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
	if r.Resource != nil {
		resp.ResourceName = r.Resource.FullName
	}
	if r.Owner != nil {
		resp.OwnerName = r.Owner.FullName
	}
	if r.Requester != nil {
		resp.RequesterName = r.Requester.FullName
	}
	if r.RespondedAt != nil {
		v := r.RespondedAt.Format(time.RFC3339)
		resp.RespondedAt = &v
	}
	return resp
}

func mapToListResponse(list []Reservation) []ReservationResponse {
	resp := make([]ReservationResponse, len(list))
	for i, r := range list {
		resp[i] = mapToResponse(r)
	}
	return resp
}

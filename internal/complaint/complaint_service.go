package complaint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	complainterrors "go-portal/internal/complaint/errors"
	"go-portal/internal/rbac"
	"go-portal/internal/settings"
	"go-portal/internal/shared/apperror"
)

const (
	anonymousOwnerLabel = "Anonymous Employee"
	hrStaffLabelFormat  = "HR Staff %d"
)

//go:generate mockgen -source=complaint_service.go -destination=mock/complaint_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, employeeID string, req CreateComplaintRequest) (ComplaintResponse, error)
	GetThread(ctx context.Context, id, actorID, actorRole string) (ComplaintResponse, error)
	ListMine(ctx context.Context, employeeID string) ([]ComplaintResponse, error)
	ListAll(ctx context.Context) ([]ComplaintResponse, error)
	PostMessage(ctx context.Context, id, actorID, actorRole string, req PostMessageRequest) (MessageResponse, error)
	SetStatus(ctx context.Context, id string, req SetStatusRequest) (ComplaintResponse, error)
	SetDirectResponse(ctx context.Context, id string, req DirectResponseRequest) (ComplaintResponse, error)
	// AuthorizeStream gates the SSE endpoint: thread must exist, chat must be
	// enabled, and the actor must be the owner or hold the manage capability.
	AuthorizeStream(ctx context.Context, id, actorID, actorRole string) error
}

type service struct {
	repo     Repository
	settings settings.Service
	rbac     rbac.Service
	bridge   *Bridge
	logger   *zap.Logger
}

func NewService(
	repo Repository,
	settingsService settings.Service,
	rbacService rbac.Service,
	bridge *Bridge,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("complaint.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("complaint.service")
	}
	return &service{
		repo:     repo,
		settings: settingsService,
		rbac:     rbacService,
		bridge:   bridge,
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, employeeID string, req CreateComplaintRequest) (ComplaintResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return ComplaintResponse{}, apperror.InvalidField("employee id")
	}
	c := &Complaint{
		ID:          uuid.New(),
		EmployeeID:  employeeUUID,
		Subject:     req.Subject,
		Description: req.Description,
		Status:      StatusBacklog,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("create complaint persist failed", zap.Error(err))
		return ComplaintResponse{}, err
	}
	s.logger.Info("create complaint success",
		zap.String("complaint_id", c.ID.String()),
	)
	return s.mapThread(*c, false), nil
}

func (s *service) GetThread(ctx context.Context, id, actorID, actorRole string) (ComplaintResponse, error) {
	c, err := s.findOr404(ctx, id)
	if err != nil {
		return ComplaintResponse{}, err
	}
	isOwner := c.EmployeeID.String() == actorID
	canManage := s.rbac.Can(actorRole, "complaint", "manage")
	if !isOwner && !canManage {
		return ComplaintResponse{}, complainterrors.ErrThreadForbidden
	}
	return s.mapThread(*c, canManage && !isOwner), nil
}

func (s *service) ListMine(ctx context.Context, employeeID string) ([]ComplaintResponse, error) {
	list, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	resp := make([]ComplaintResponse, len(list))
	for i, c := range list {
		resp[i] = s.mapThread(c, false)
	}
	return resp, nil
}

func (s *service) ListAll(ctx context.Context) ([]ComplaintResponse, error) {
	list, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]ComplaintResponse, len(list))
	for i, c := range list {
		resp[i] = s.mapThread(c, true)
	}
	return resp, nil
}

func (s *service) PostMessage(ctx context.Context, id, actorID, actorRole string, req PostMessageRequest) (MessageResponse, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return MessageResponse{}, err
	}
	if !cfg.ChatEnabled {
		return MessageResponse{}, complainterrors.ErrChatDisabled
	}

	c, err := s.findOr404(ctx, id)
	if err != nil {
		return MessageResponse{}, err
	}
	isOwner := c.EmployeeID.String() == actorID
	canManage := s.rbac.Can(actorRole, "complaint", "manage")
	if !isOwner && !canManage {
		return MessageResponse{}, complainterrors.ErrThreadForbidden
	}

	authorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return MessageResponse{}, apperror.InvalidField("actor id")
	}
	m := &Message{
		ID:             uuid.New(),
		ComplaintID:    c.ID,
		AuthorID:       authorUUID,
		Content:        req.Content,
		IsFromHR:       canManage,
		AttachmentURL:  req.AttachmentURL,
		AttachmentName: req.AttachmentName,
	}
	if err := s.repo.AppendMessage(ctx, m); err != nil {
		s.logger.Error("append complaint message failed",
			zap.String("complaint_id", id),
			zap.Error(err),
		)
		return MessageResponse{}, err
	}

	resp := MessageResponse{
		ID:             m.ID.String(),
		SenderName:     genericSenderLabel(m.IsFromHR),
		Content:        m.Content,
		IsFromHR:       m.IsFromHR,
		AttachmentURL:  m.AttachmentURL,
		AttachmentName: m.AttachmentName,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	// Live fan-out carries generic sender labels only; real names never cross
	// the shared channel.
	s.bridge.Publish(ctx, id, Event{Name: "message", Data: resp})

	s.logger.Info("post complaint message success",
		zap.String("complaint_id", id),
		zap.Bool("is_from_hr", m.IsFromHR),
	)
	return resp, nil
}

func (s *service) SetStatus(ctx context.Context, id string, req SetStatusRequest) (ComplaintResponse, error) {
	c, err := s.findOr404(ctx, id)
	if err != nil {
		return ComplaintResponse{}, err
	}
	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		s.logger.Error("update complaint status failed",
			zap.String("complaint_id", id),
			zap.Error(err),
		)
		return ComplaintResponse{}, err
	}
	c.Status = req.Status

	s.bridge.Publish(ctx, id, Event{Name: "status", Data: map[string]string{
		"complaint_id": id,
		"status":       req.Status,
	}})
	s.logger.Info("update complaint status success",
		zap.String("complaint_id", id),
		zap.String("status", req.Status),
	)
	return s.mapThread(*c, true), nil
}

func (s *service) SetDirectResponse(ctx context.Context, id string, req DirectResponseRequest) (ComplaintResponse, error) {
	c, err := s.findOr404(ctx, id)
	if err != nil {
		return ComplaintResponse{}, err
	}
	now := time.Now().UTC()
	if err := s.repo.SetDirectResponse(ctx, id, req.Response, now); err != nil {
		return ComplaintResponse{}, err
	}
	c.DirectResponse = &req.Response
	c.DirectResponseAt = &now
	return s.mapThread(*c, true), nil
}

func (s *service) AuthorizeStream(ctx context.Context, id, actorID, actorRole string) error {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if !cfg.ChatEnabled {
		return complainterrors.ErrChatDisabled
	}
	c, err := s.findOr404(ctx, id)
	if err != nil {
		return err
	}
	if c.EmployeeID.String() != actorID && !s.rbac.Can(actorRole, "complaint", "manage") {
		return complainterrors.ErrThreadForbidden
	}
	return nil
}

func (s *service) findOr404(ctx context.Context, id string) (*Complaint, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, complainterrors.ErrComplaintNotFound
		}
		return nil, err
	}
	return c, nil
}

// mapThread renders the thread. When anonymize is set the owner is displayed
// as a fixed placeholder and every other sender gets a pseudonym numbered by
// first appearance; the numbering is recomputed on every read, never stored.
func (s *service) mapThread(c Complaint, anonymize bool) ComplaintResponse {
	resp := ComplaintResponse{
		ID:             c.ID.String(),
		Subject:        c.Subject,
		Description:    c.Description,
		Status:         c.Status,
		DirectResponse: c.DirectResponse,
		Messages:       make([]MessageResponse, 0, len(c.Messages)),
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
	if c.DirectResponseAt != nil {
		v := c.DirectResponseAt.Format(time.RFC3339)
		resp.DirectResponseAt = &v
	}

	if anonymize {
		resp.OwnerName = anonymousOwnerLabel
	} else if c.Employee != nil {
		resp.OwnerName = c.Employee.FullName
	}

	pseudonyms := make(map[uuid.UUID]string)
	for _, m := range c.Messages {
		mr := MessageResponse{
			ID:             m.ID.String(),
			Content:        m.Content,
			IsFromHR:       m.IsFromHR,
			AttachmentURL:  m.AttachmentURL,
			AttachmentName: m.AttachmentName,
			CreatedAt:      m.CreatedAt.Format(time.RFC3339),
		}
		switch {
		case anonymize && m.AuthorID == c.EmployeeID:
			mr.SenderName = anonymousOwnerLabel
		case anonymize:
			label, ok := pseudonyms[m.AuthorID]
			if !ok {
				label = fmt.Sprintf(hrStaffLabelFormat, len(pseudonyms)+1)
				pseudonyms[m.AuthorID] = label
			}
			mr.SenderName = label
		case m.Author != nil:
			mr.SenderName = m.Author.FullName
		default:
			mr.SenderName = genericSenderLabel(m.IsFromHR)
		}
		resp.Messages = append(resp.Messages, mr)
	}
	return resp
}

func genericSenderLabel(isFromHR bool) string {
	if isFromHR {
		return "HR Staff"
	}
	return anonymousOwnerLabel
}

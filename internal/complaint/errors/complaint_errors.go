package complainterrors

import (
	"net/http"

	"go-portal/internal/shared/apperror"
)

var (
	ErrComplaintNotFound = apperror.New(
		apperror.CodeNotFound,
		"complaint not found",
		http.StatusNotFound,
	)
	ErrThreadForbidden = apperror.New(
		apperror.CodeForbidden,
		"only the complaint owner or HR may access this thread",
		http.StatusForbidden,
	)
	ErrChatDisabled = apperror.New(
		apperror.CodeInvalidState,
		"complaint chat is currently disabled",
		http.StatusConflict,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be one of BACKLOG, IN_PROGRESS, DONE",
		http.StatusBadRequest,
	)
)

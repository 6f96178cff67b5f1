package reservationerrors

import (
	"net/http"

	"go-portal/internal/shared/apperror"
)

var (
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidHours = apperror.New(
		apperror.CodeInvalidInput,
		"hours must be a positive number with at most two decimals",
		http.StatusBadRequest,
	)
	ErrResourceNotFound = apperror.New(
		apperror.CodeNotFound,
		"resource employee not found",
		http.StatusNotFound,
	)
	ErrUnmanagedResource = apperror.New(
		apperror.CodeInvalidState,
		"resource employee has no manager and cannot be reserved",
		http.StatusConflict,
	)
	ErrSelfReservation = apperror.New(
		apperror.CodeForbidden,
		"a manager cannot reserve their own report through this flow",
		http.StatusForbidden,
	)
	ErrReservationNotFound = apperror.New(
		apperror.CodeNotFound,
		"reservation not found",
		http.StatusNotFound,
	)
	ErrRespondForbidden = apperror.New(
		apperror.CodeForbidden,
		"only the captured resource owner may respond to this reservation",
		http.StatusForbidden,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"reservation is no longer pending",
		http.StatusConflict,
	)
	ErrUpdateForbidden = apperror.New(
		apperror.CodeForbidden,
		"only the requester or the resource owner may edit this reservation",
		http.StatusForbidden,
	)
	ErrCancelForbidden = apperror.New(
		apperror.CodeForbidden,
		"only the requester may cancel this reservation",
		http.StatusForbidden,
	)
	ErrAlreadyCancelled = apperror.New(
		apperror.CodeInvalidState,
		"reservation is already cancelled",
		http.StatusConflict,
	)
	ErrReadForbidden = apperror.New(
		apperror.CodeForbidden,
		"you do not have access to this reservation",
		http.StatusForbidden,
	)
)

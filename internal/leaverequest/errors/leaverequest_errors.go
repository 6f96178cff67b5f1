package leaverequesterrors

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
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrUnknownLeaveType = apperror.New(
		apperror.CodeNotFound,
		"unknown leave type code",
		http.StatusNotFound,
	)
	ErrHalfDayNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"this leave type does not allow half-day requests",
		http.StatusBadRequest,
	)
	ErrHalfDayPortionRequired = apperror.New(
		apperror.CodeInvalidInput,
		"half_day_portion is required for a half-day request",
		http.StatusBadRequest,
	)
	ErrHalfDayMultiDay = apperror.New(
		apperror.CodeInvalidInput,
		"a half-day request must start and end on the same date",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"an existing pending or approved request overlaps this period",
		http.StatusConflict,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"leave request is no longer pending",
		http.StatusConflict,
	)
	ErrNotAnApprover = apperror.New(
		apperror.CodeForbidden,
		"you are not an assigned approver for this request",
		http.StatusForbidden,
	)
	ErrAlreadyResponded = apperror.New(
		apperror.CodeConflict,
		"you have already responded to this request",
		http.StatusConflict,
	)
	ErrCancelForbidden = apperror.New(
		apperror.CodeForbidden,
		"only the request owner or HR may cancel a leave request",
		http.StatusForbidden,
	)
	ErrCancelInvalidState = apperror.New(
		apperror.CodeInvalidState,
		"only pending or approved requests can be cancelled",
		http.StatusConflict,
	)
	ErrReadForbidden = apperror.New(
		apperror.CodeForbidden,
		"you do not have access to this leave request",
		http.StatusForbidden,
	)
)

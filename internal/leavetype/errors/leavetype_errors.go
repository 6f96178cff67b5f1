package leavetypeerrors

import (
	"net/http"

	"go-portal/internal/shared/apperror"
)

var (
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrDuplicateCode = apperror.New(
		apperror.CodeConflict,
		"leave type code already exists",
		http.StatusConflict,
	)
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrCarryoverDisabled = apperror.New(
		apperror.CodeInvalidInput,
		"carryover is not allowed for this leave type",
		http.StatusBadRequest,
	)
)

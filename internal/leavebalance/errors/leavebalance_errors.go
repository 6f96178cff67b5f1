package leavebalanceerrors

import (
	"net/http"

	"go-portal/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"year must be a four digit year",
		http.StatusBadRequest,
	)
	ErrOverrideNotFound = apperror.New(
		apperror.CodeNotFound,
		"balance override not found",
		http.StatusNotFound,
	)
	ErrCarryoverExceedsCap = apperror.New(
		apperror.CodeInvalidInput,
		"carried over days exceed the configured carryover cap",
		http.StatusBadRequest,
	)
)

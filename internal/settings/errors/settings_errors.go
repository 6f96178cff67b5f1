package settingserrors

import (
	"net/http"

	"go-portal/internal/shared/apperror"
)

var (
	ErrInvalidWorkHours = apperror.New(
		apperror.CodeInvalidInput,
		"work_hours_per_day must be a positive number of hours, at most 24",
		http.StatusBadRequest,
	)
)

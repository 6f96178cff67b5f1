package noteerrors

import (
	"net/http"

	"go-portal/internal/shared/apperror"
)

var ErrNoteNotFound = apperror.New(
	apperror.CodeNotFound,
	"note not found",
	http.StatusNotFound,
)

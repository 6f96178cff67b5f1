package announcementerrors

import (
	"net/http"

	"go-portal/internal/shared/apperror"
)

var ErrAnnouncementNotFound = apperror.New(
	apperror.CodeNotFound,
	"announcement not found",
	http.StatusNotFound,
)

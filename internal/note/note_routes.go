package note

import (
	"github.com/gin-gonic/gin"

	"go-portal/internal/middleware"
	"go-portal/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	notes := r.Group("/notes")
	notes.Use(middleware.AuthMiddleware())
	notes.Use(middleware.RBACAuthorize(rbacService, "note", "use"))
	{
		notes.POST("", handler.Create)
		notes.GET("", handler.List)
		notes.PUT("/:id", handler.Update)
		notes.DELETE("/:id", handler.Delete)
	}
}

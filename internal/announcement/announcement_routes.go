package announcement

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
	announcements := r.Group("/announcements")
	announcements.Use(middleware.AuthMiddleware())
	{
		announcements.GET("", middleware.RBACAuthorize(rbacService, "announcement", "read"), handler.List)
		announcements.POST("", middleware.RBACAuthorize(rbacService, "announcement", "manage"), handler.Create)
		announcements.PUT("/:id", middleware.RBACAuthorize(rbacService, "announcement", "manage"), handler.Update)
		announcements.DELETE("/:id", middleware.RBACAuthorize(rbacService, "announcement", "manage"), handler.Delete)
	}
}

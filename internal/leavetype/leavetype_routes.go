package leavetype

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
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware())
	{
		types.GET("/eligible", middleware.RBACAuthorize(rbacService, "leavetype", "read"), handler.Eligible)
		types.GET("", middleware.RBACAuthorize(rbacService, "leavetype", "read"), handler.GetAll)
		types.GET("/:id", middleware.RBACAuthorize(rbacService, "leavetype", "read"), handler.GetByID)
		types.POST("", middleware.RBACAuthorize(rbacService, "leavetype", "manage"), handler.Create)
		types.PUT("/:id", middleware.RBACAuthorize(rbacService, "leavetype", "manage"), handler.Update)
		types.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leavetype", "manage"), handler.Delete)
	}
}

package complaint

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
	complaints := r.Group("/complaints")
	complaints.Use(middleware.AuthMiddleware())
	{
		complaints.POST("", middleware.RBACAuthorize(rbacService, "complaint", "create"), handler.Create)
		complaints.GET("/mine", middleware.RBACAuthorize(rbacService, "complaint", "read"), handler.Mine)
		complaints.GET("", middleware.RBACAuthorize(rbacService, "complaint", "manage"), handler.GetAll)
		complaints.GET("/:id", middleware.RBACAuthorize(rbacService, "complaint", "read"), handler.GetThread)
		complaints.GET("/:id/stream", middleware.RBACAuthorize(rbacService, "complaint", "read"), handler.Stream)
		complaints.POST("/:id/messages", middleware.RBACAuthorize(rbacService, "complaint", "read"), handler.PostMessage)
		complaints.PUT("/:id/status", middleware.RBACAuthorize(rbacService, "complaint", "manage"), handler.SetStatus)
		complaints.PUT("/:id/direct-response", middleware.RBACAuthorize(rbacService, "complaint", "manage"), handler.SetDirectResponse)
	}
}

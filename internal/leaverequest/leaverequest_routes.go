package leaverequest

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"go-portal/internal/middleware"
	"go-portal/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	requests := r.Group("/leave-requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), middleware.Idempotency(rdb), handler.Create)
		requests.GET("/mine", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.Mine)
		requests.GET("/inbox", middleware.RBACAuthorize(rbacService, "leave", "decide"), handler.Inbox)
		requests.GET("", middleware.RBACAuthorize(rbacService, "leave", "decide-direct"), handler.GetAll)
		requests.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByID)
		requests.POST("/:id/decision", middleware.RBACAuthorize(rbacService, "leave", "decide"), handler.Decide)
		requests.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave", "cancel"), handler.Cancel)
	}
}

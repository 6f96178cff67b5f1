package reservation

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
	reservations := r.Group("/reservations")
	reservations.Use(middleware.AuthMiddleware())
	{
		reservations.POST("", middleware.RBACAuthorize(rbacService, "reservation", "create"), middleware.Idempotency(rdb), handler.Create)
		reservations.GET("/mine", middleware.RBACAuthorize(rbacService, "reservation", "read"), handler.Mine)
		reservations.GET("/owned", middleware.RBACAuthorize(rbacService, "reservation", "respond"), handler.Owned)
		reservations.GET("", middleware.RBACAuthorize(rbacService, "reservation", "admin"), handler.GetAll)
		reservations.GET("/:id", middleware.RBACAuthorize(rbacService, "reservation", "read"), handler.GetByID)
		reservations.POST("/:id/response", middleware.RBACAuthorize(rbacService, "reservation", "respond"), handler.Respond)
		reservations.PUT("/:id", middleware.RBACAuthorize(rbacService, "reservation", "update"), handler.Update)
		reservations.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "reservation", "cancel"), handler.Cancel)
	}
}

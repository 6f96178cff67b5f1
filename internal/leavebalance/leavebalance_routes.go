package leavebalance

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
	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/me", handler.Mine)
		balances.GET("/employees/:id", middleware.RBACAuthorize(rbacService, "leavebalance", "manage"), handler.ForEmployee)
		balances.GET("/employees/:id/overrides", middleware.RBACAuthorize(rbacService, "leavebalance", "manage"), handler.ListOverrides)
		balances.PUT("/overrides", middleware.RBACAuthorize(rbacService, "leavebalance", "manage"), handler.UpsertOverride)
		balances.DELETE("/employees/:id/overrides/:typeId", middleware.RBACAuthorize(rbacService, "leavebalance", "manage"), handler.DeleteOverride)
	}
}

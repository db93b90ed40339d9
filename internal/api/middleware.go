package api

import (
	"net/http"

	"github.com/Xushengqwer/gateway/pkg/response"
	"github.com/Xushengqwer/go-common/core"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// adminRoleValue 是网关在 X-User-Role 头中为管理员注入的角色值。
// 本服务只部署在网关之后，信任网关完成了身份认证并注入了用户头。
const adminRoleValue = "admin"

// RequireAdmin 返回一个 Gin 中间件，拦截所有非管理员的请求。
// 角色来自网关注入的 X-User-Role 请求头；缺失或不匹配一律按 403 处理，
// 不区分"未登录"和"权限不足"，避免向探测者泄露信息。
func RequireAdmin(logger *core.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetHeader("X-User-Role")
		if role != adminRoleValue {
			logger.Warn("拒绝非管理员访问管理端接口",
				zap.String("path", c.Request.URL.Path),
				zap.String("user_id", c.GetHeader("X-User-ID")),
				zap.String("user_role", role),
			)
			response.RespondError(c, http.StatusForbidden, response.ErrCodeClientInvalidInput, "无权执行此操作")
			c.Abort()
			return
		}
		c.Next()
	}
}

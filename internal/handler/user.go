package handler

import (
	"lifelog/internal/store"
	"lifelog/internal/util"

	"github.com/gin-gonic/gin"
)

// GetMe 返回当前登录用户信息（需要经过 AuthMiddleware）
func GetMe(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	util.Success(c, util.Response{
		"user": gin.H{
			"id":           user.ID,
			"username":     user.Username,
			"display_name": user.DisplayName,
			"created_at":   user.CreatedAt,
		},
	})
}

// Logout 注销会话：拆除该进程内所有活动订阅并丢弃缓存。
// JWT 本身无状态，客户端丢弃 token 即可。
func Logout(s *store.RecordsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			return
		}

		s.UnsubscribeAll()

		util.Success(c, util.Response{
			"message": "ログアウトしました",
		})
	}
}

package middlewares

import (
	"net/http"
	"strings"

	"orderdesk/pkg/resp"
	"orderdesk/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware ตรวจ token ของพนักงานจาก header Authorization หรือจาก
// query "token" (websocket ใส่ header เองไม่ได้)
// ถ้า required เป็น false คำขอที่ไม่มี token จะผ่านไปเลย
func AuthMiddleware(secret string, required bool, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearer(c)
		if tokenStr == "" {
			if !required {
				c.Next()
				return
			}
			resp.Unauthorized(c, "missing or invalid token")
			return
		}

		claims, err := utils.ParseToken(tokenStr, secret)
		if err != nil {
			resp.Unauthorized(c, "invalid token")
			return
		}
		c.Set(utils.CtxStaffID, claims.StaffID)
		c.Set(utils.CtxRole, claims.Role)

		if len(roles) > 0 {
			allowed := false
			for _, r := range roles {
				if claims.Role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				resp.Forbidden(c, "forbidden")
				return
			}
		}
		c.Next()
	}
}

// WriteGuard ใช้ auth เฉพาะ method ที่แก้ข้อมูล
func WriteGuard(auth gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
		default:
			auth(c)
		}
	}
}

func bearer(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return c.Query("token")
}

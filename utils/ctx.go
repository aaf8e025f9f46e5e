package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	CtxStaffID   = "staffId"
	CtxRole      = "role"
	CtxRequestID = "requestId"
)

func CurrentStaffID(c *gin.Context) uint {
	return c.GetUint(CtxStaffID)
}

func CurrentRole(c *gin.Context) string {
	return c.GetString(CtxRole)
}

func RequestID(c *gin.Context) string {
	return c.GetString(CtxRequestID)
}

// ParamID reads a positive numeric path parameter.
func ParamID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

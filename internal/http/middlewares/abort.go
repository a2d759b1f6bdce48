package middlewares

import "github.com/gin-gonic/gin"

// abort stops the chain with the same error envelope the handlers use.
func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":      code,
			"message":   msg,
			"requestId": c.GetString(CtxRequestID),
		},
	})
}

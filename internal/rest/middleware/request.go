package middleware

import (
	"context"

	"github.com/vetpoint/vetpoint/internal/types"

	"github.com/gin-gonic/gin"
)

// RequestIDMiddleware attaches a request ID to the context and response
func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = types.GenerateUUID()
	}

	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)
	c.Request = c.Request.WithContext(ctx)

	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}

// TenantMiddleware resolves the tenant and acting user from request headers
// into the context. Every downstream query is scoped by the tenant ID.
func TenantMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	tenantID := c.GetHeader(types.HeaderTenantID)
	if tenantID == "" {
		tenantID = types.DefaultTenantID
	}
	userID := c.GetHeader(types.HeaderUserID)
	if userID == "" {
		userID = types.DefaultUserID
	}

	ctx = types.SetTenantID(ctx, tenantID)
	ctx = types.SetUserID(ctx, userID)
	c.Request = c.Request.WithContext(ctx)

	c.Next()
}

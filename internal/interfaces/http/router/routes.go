package router

import (
	"github.com/custreg/backend/internal/interfaces/http/handler"
)

// CustomerRoutes maps the customer registration endpoints
func CustomerRoutes(h *handler.CustomerHandler) *DomainGroup {
	return NewDomainGroup("customers", "/customers").
		GET("", h.List).
		GET("/:id", h.GetByID).
		POST("", h.Create).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

// SystemRoutes maps the informational endpoints
func SystemRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("system", "/system").
		GET("/info", h.GetSystemInfo).
		GET("/ping", h.Ping)
}

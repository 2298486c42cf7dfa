package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/KKTT/catalog-shop-sub000/config"
	"github.com/KKTT/catalog-shop-sub000/models"
	"github.com/KKTT/catalog-shop-sub000/services"
)

// UpdateOrderStatusRequest represents the request body for a status transition
type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// adminUser loads the authenticated user and requires the admin role.
// Non-admin actors are rejected here, before any order workflow runs.
func adminUser(c *gin.Context) (*models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}

	if !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Admin privileges required",
			},
		})
		return nil, false
	}

	return user, true
}

// writeOrderServiceError maps order service errors onto the JSON envelope
func writeOrderServiceError(c *gin.Context, err error) {
	var invalidTransition *services.InvalidTransitionError
	var storeUnavailable *services.StoreUnavailableError

	switch {
	case errors.As(err, &invalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TRANSITION",
				"message": invalidTransition.Error(),
			},
		})
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONFLICT",
				"message": "Order was modified concurrently, refresh and try again",
			},
		})
	case errors.As(err, &storeUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORE_UNAVAILABLE",
				"message": "Order store is unavailable, try again",
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Unexpected error",
			},
		})
	}
}

// ListOrders handles GET /api/v1/admin/orders - joined order listing with
// optional ?status=a,b and ?search= filters, newest first
func ListOrders(c *gin.Context) {
	if _, ok := adminUser(c); !ok {
		return
	}

	filter := services.OrderFilter{
		Search: strings.TrimSpace(c.Query("search")),
	}

	if statusParam := c.Query("status"); statusParam != "" {
		for _, raw := range strings.Split(statusParam, ",") {
			status := models.OrderStatus(strings.TrimSpace(raw))
			if !status.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INVALID_STATUS",
						"message": "Unknown order status: " + string(status),
					},
				})
				return
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	orders, err := services.NewOrderService(config.GetDB()).ListOrders(filter)
	if err != nil {
		writeOrderServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrderCounts handles GET /api/v1/admin/orders/counts - per-status
// counts plus the monitoring bucket, for the console's tab badges
func GetOrderCounts(c *gin.Context) {
	if _, ok := adminUser(c); !ok {
		return
	}

	counts, err := services.NewOrderService(config.GetDB()).CountByStatus()
	if err != nil {
		writeOrderServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    counts,
	})
}

// UpdateOrderStatus handles PATCH /api/v1/admin/orders/:id/status - moves
// an order along one edge of the workflow
func UpdateOrderStatus(c *gin.Context) {
	user, ok := adminUser(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": "Unknown order status: " + string(req.Status),
			},
		})
		return
	}

	order, err := services.NewOrderService(config.GetDB()).
		Transition(c.Param("id"), req.Status, user, req.Note)
	if err != nil {
		writeOrderServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetOrderActions handles GET /api/v1/admin/orders/:id/actions - the
// contextual controls available for the order's current status
func GetOrderActions(c *gin.Context) {
	if _, ok := adminUser(c); !ok {
		return
	}

	order, err := services.NewOrderService(config.GetDB()).GetOrder(c.Param("id"))
	if err != nil {
		writeOrderServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"status":  order.Status,
			"actions": order.Status.Actions(),
		},
	})
}

// GetOrderInvoice handles GET /api/v1/admin/orders/:id/invoice - renders
// the printable invoice document. Generated on demand, never persisted.
func GetOrderInvoice(c *gin.Context) {
	if _, ok := adminUser(c); !ok {
		return
	}

	order, err := services.NewOrderService(config.GetDB()).GetOrder(c.Param("id"))
	if err != nil {
		writeOrderServiceError(c, err)
		return
	}

	html, err := services.RenderInvoice(order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RENDER_ERROR",
				"message": "Failed to render invoice",
			},
		})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

// GetOrderHistory handles GET /api/v1/admin/orders/:id/history - the
// order's status audit trail, oldest first
func GetOrderHistory(c *gin.Context) {
	if _, ok := adminUser(c); !ok {
		return
	}

	svc := services.NewOrderService(config.GetDB())
	if _, err := svc.GetOrder(c.Param("id")); err != nil {
		writeOrderServiceError(c, err)
		return
	}

	history, err := svc.History(c.Param("id"))
	if err != nil {
		writeOrderServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    history,
	})
}

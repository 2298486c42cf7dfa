package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/KKTT/catalog-shop-sub000/config"
	"github.com/KKTT/catalog-shop-sub000/middleware"
	"github.com/KKTT/catalog-shop-sub000/models"
	"github.com/KKTT/catalog-shop-sub000/services"
	"gorm.io/gorm"
)

// CheckoutItemRequest is one line item of a checkout request. Name, price
// and image key are snapshots of the product at order time.
type CheckoutItemRequest struct {
	ProductID   string  `json:"product_id" binding:"required"`
	ProductName string  `json:"product_name" binding:"required"`
	Price       float64 `json:"price" binding:"gte=0"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
	ImageS3Key  *string `json:"image_s3_key"`
}

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	Items             []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	DeliveryAddressID *uint                 `json:"delivery_address_id"`
	DeliveryFee       *float64              `json:"delivery_fee" binding:"omitempty,gte=0"`
}

// currentUser loads the authenticated user's profile from the database.
// On failure it writes the error response and returns false.
func currentUser(c *gin.Context) (*models.User, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "USER_NOT_FOUND",
					"message": "User profile not found. Please create a profile first.",
				},
			})
			return nil, false
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORE_UNAVAILABLE",
				"message": "Failed to load user profile",
			},
		})
		return nil, false
	}

	return &user, true
}

// CreateOrder handles POST /api/v1/orders - checkout (customers only).
// The order and its line items are created atomically; total amount and
// delivery fee are fixed here and never recomputed afterwards.
func CreateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	// Only customers place orders
	if user.Role != "customer" {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only customers can place orders",
			},
		})
		return
	}

	var req CreateOrderRequest
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

	db := config.GetDB()

	// A delivery address must belong to the ordering customer
	if req.DeliveryAddressID != nil {
		var address models.DeliveryAddress
		if err := db.First(&address, *req.DeliveryAddressID).Error; err != nil || address.CustomerID != user.ID {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_ADDRESS",
					"message": "Delivery address not found for this customer",
				},
			})
			return
		}
	}

	deliveryFee := models.DefaultDeliveryFee
	if req.DeliveryFee != nil {
		deliveryFee = *req.DeliveryFee
	}

	order := models.Order{
		ID:                uuid.NewString(),
		CustomerID:        user.ID,
		Status:            models.StatusPending,
		DeliveryFee:       deliveryFee,
		DeliveryAddressID: req.DeliveryAddressID,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
			ImageS3Key:  item.ImageS3Key,
		})
		order.TotalAmount += item.Price * float64(item.Quantity)
	}
	order.TotalAmount += deliveryFee

	// gorm creates the order and its items in a single transaction
	if err := db.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	created, err := services.NewOrderService(db).GetOrder(order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    created,
	})
}

// GetMyOrders handles GET /api/v1/orders/mine - lists the authenticated
// customer's orders, newest first
func GetMyOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orders, err := services.NewOrderService(config.GetDB()).ListOrders(services.OrderFilter{
		CustomerID: &user.ID,
	})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORE_UNAVAILABLE",
				"message": "Failed to load orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

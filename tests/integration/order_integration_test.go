package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/KKTT/catalog-shop-sub000/config"
	"github.com/KKTT/catalog-shop-sub000/controllers"
	"github.com/KKTT/catalog-shop-sub000/models"
	"github.com/KKTT/catalog-shop-sub000/services"
	"github.com/KKTT/catalog-shop-sub000/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OrderIntegrationTestSuite drives the order endpoints through real
// routing against an in-memory database: checkout as a customer, then
// working the order through the console as an admin.
type OrderIntegrationTestSuite struct {
	suite.Suite
	db       *gorm.DB
	customer models.User
	admin    models.User
}

func (suite *OrderIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("GO_ENV", "test")
}

// SetupTest gives each test a fresh database and users
func (suite *OrderIntegrationTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	suite.Require().NoError(db.AutoMigrate(
		&models.User{},
		&models.DeliveryAddress{},
		&models.Order{},
		&models.OrderItem{},
		&models.StatusChange{},
	))

	suite.db = db
	config.SetDB(db)

	suite.customer = models.User{
		Auth0ID: "auth0|customer",
		Name:    "Jane Smith",
		Email:   "jane.smith@example.com",
		Role:    "customer",
	}
	suite.Require().NoError(db.Create(&suite.customer).Error)

	suite.admin = models.User{
		Auth0ID: "auth0|admin",
		Name:    "Admin User",
		Email:   "admin@example.com",
		Role:    "admin",
	}
	suite.Require().NoError(db.Create(&suite.admin).Error)
}

// newRouter wires the order routes behind a mock-authenticated identity
func (suite *OrderIntegrationTestSuite) newRouter(user models.User) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(func(c *gin.Context) {
		testutil.SetMockAuthContext(c, user.Auth0ID, "https://test.auth0.com/", user.Role, nil)
		c.Next()
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/orders", controllers.CreateOrder)
		v1.GET("/orders/mine", controllers.GetMyOrders)

		admin := v1.Group("/admin")
		{
			admin.GET("/orders", controllers.ListOrders)
			admin.GET("/orders/counts", controllers.GetOrderCounts)
			admin.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)
			admin.GET("/orders/:id/actions", controllers.GetOrderActions)
			admin.GET("/orders/:id/invoice", controllers.GetOrderInvoice)
			admin.GET("/orders/:id/history", controllers.GetOrderHistory)
		}
	}

	return router
}

func (suite *OrderIntegrationTestSuite) request(router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		suite.Require().NoError(err)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reqBody)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	return w, response
}

// checkout places an order as the suite's customer and returns its id
func (suite *OrderIntegrationTestSuite) checkout() string {
	router := suite.newRouter(suite.customer)

	w, response := suite.request(router, http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": "prod-1", "product_name": "Ceramic Mug", "price": 10.00, "quantity": 2},
		},
	})
	suite.Require().Equal(http.StatusCreated, w.Code, "Response body: %s", w.Body.String())

	data := response["data"].(map[string]interface{})
	return data["id"].(string)
}

func (suite *OrderIntegrationTestSuite) TestFullOrderLifecycle() {
	orderID := suite.checkout()
	adminRouter := suite.newRouter(suite.admin)

	// Fresh orders start pending and offer confirm or reject
	w, response := suite.request(adminRouter, http.MethodGet, "/api/v1/admin/orders/"+orderID+"/actions", nil)
	suite.Equal(http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	suite.Equal("pending", data["status"])
	suite.Len(data["actions"].([]interface{}), 2)

	// Walk the happy path one edge at a time
	steps := []string{"confirmed", "shipping", "delivered", "complete"}
	for _, target := range steps {
		w, response = suite.request(adminRouter, http.MethodPatch, "/api/v1/admin/orders/"+orderID+"/status",
			map[string]string{"status": target})
		suite.Require().Equal(http.StatusOK, w.Code, "transition to %s: %s", target, w.Body.String())

		data = response["data"].(map[string]interface{})
		suite.Equal(target, data["status"])
	}

	// Terminal: no further actions
	w, response = suite.request(adminRouter, http.MethodGet, "/api/v1/admin/orders/"+orderID+"/actions", nil)
	suite.Equal(http.StatusOK, w.Code)
	data = response["data"].(map[string]interface{})
	suite.Empty(data["actions"])

	// The audit trail holds every edge in order
	w, response = suite.request(adminRouter, http.MethodGet, "/api/v1/admin/orders/"+orderID+"/history", nil)
	suite.Equal(http.StatusOK, w.Code)
	history := response["data"].([]interface{})
	suite.Require().Len(history, len(steps))
	suite.Equal("pending", history[0].(map[string]interface{})["from_status"])
	suite.Equal("complete", history[len(history)-1].(map[string]interface{})["to_status"])
}

func (suite *OrderIntegrationTestSuite) TestInvalidTransitionLeavesOrderUntouched() {
	orderID := suite.checkout()
	adminRouter := suite.newRouter(suite.admin)

	w, response := suite.request(adminRouter, http.MethodPatch, "/api/v1/admin/orders/"+orderID+"/status",
		map[string]string{"status": "delivered"})
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	errorData := response["error"].(map[string]interface{})
	suite.Equal("INVALID_TRANSITION", errorData["code"])

	var stored models.Order
	suite.Require().NoError(suite.db.First(&stored, "id = ?", orderID).Error)
	suite.Equal(models.StatusPending, stored.Status)

	var changes int64
	suite.db.Model(&models.StatusChange{}).Where("order_id = ?", orderID).Count(&changes)
	suite.Equal(int64(0), changes)
}

func (suite *OrderIntegrationTestSuite) TestCustomerCannotUseConsole() {
	orderID := suite.checkout()
	customerRouter := suite.newRouter(suite.customer)

	endpoints := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, "/api/v1/admin/orders", nil},
		{http.MethodGet, "/api/v1/admin/orders/counts", nil},
		{http.MethodPatch, "/api/v1/admin/orders/" + orderID + "/status", map[string]string{"status": "confirmed"}},
		{http.MethodGet, "/api/v1/admin/orders/" + orderID + "/actions", nil},
		{http.MethodGet, "/api/v1/admin/orders/" + orderID + "/invoice", nil},
		{http.MethodGet, "/api/v1/admin/orders/" + orderID + "/history", nil},
	}

	for _, ep := range endpoints {
		w, response := suite.request(customerRouter, ep.method, ep.path, ep.body)
		suite.Equal(http.StatusForbidden, w.Code, "%s %s", ep.method, ep.path)

		errorData := response["error"].(map[string]interface{})
		suite.Equal("FORBIDDEN", errorData["code"])
	}

	// Nothing moved
	var stored models.Order
	suite.Require().NoError(suite.db.First(&stored, "id = ?", orderID).Error)
	suite.Equal(models.StatusPending, stored.Status)
}

func (suite *OrderIntegrationTestSuite) TestCountsTrackTransitions() {
	adminRouter := suite.newRouter(suite.admin)

	ids := make([]string, 3)
	for i := range ids {
		ids[i] = suite.checkout()
	}

	// Confirm one, cancel another
	w, _ := suite.request(adminRouter, http.MethodPatch, "/api/v1/admin/orders/"+ids[0]+"/status",
		map[string]string{"status": "confirmed"})
	suite.Require().Equal(http.StatusOK, w.Code)
	w, _ = suite.request(adminRouter, http.MethodPatch, "/api/v1/admin/orders/"+ids[1]+"/status",
		map[string]string{"status": "cancelled"})
	suite.Require().Equal(http.StatusOK, w.Code)

	w, response := suite.request(adminRouter, http.MethodGet, "/api/v1/admin/orders/counts", nil)
	suite.Equal(http.StatusOK, w.Code)

	data := response["data"].(map[string]interface{})
	byStatus := data["by_status"].(map[string]interface{})
	suite.Equal(float64(1), byStatus["pending"])
	suite.Equal(float64(1), byStatus["confirmed"])
	suite.Equal(float64(1), byStatus["cancelled"])
	suite.Equal(float64(2), data["monitoring"], "cancelled orders leave the monitoring bucket")
	suite.Equal(float64(3), data["total"])
}

func (suite *OrderIntegrationTestSuite) TestListingFiltersByStatusAndSearch() {
	adminRouter := suite.newRouter(suite.admin)

	first := suite.checkout()
	second := suite.checkout()

	w, _ := suite.request(adminRouter, http.MethodPatch, "/api/v1/admin/orders/"+second+"/status",
		map[string]string{"status": "confirmed"})
	suite.Require().Equal(http.StatusOK, w.Code)

	w, response := suite.request(adminRouter, http.MethodGet, "/api/v1/admin/orders?status=pending", nil)
	suite.Equal(http.StatusOK, w.Code)
	orders := response["data"].([]interface{})
	suite.Require().Len(orders, 1)
	suite.Equal(first, orders[0].(map[string]interface{})["id"])

	// Customer-name search hits both of Jane's orders
	w, response = suite.request(adminRouter, http.MethodGet, "/api/v1/admin/orders?search=smith", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Len(response["data"].([]interface{}), 2)

	w, response = suite.request(adminRouter, http.MethodGet, "/api/v1/admin/orders?search="+first, nil)
	suite.Equal(http.StatusOK, w.Code)
	orders = response["data"].([]interface{})
	suite.Require().Len(orders, 1)
	suite.Equal(first, orders[0].(map[string]interface{})["id"])
}

func (suite *OrderIntegrationTestSuite) TestInvoiceRendersCurrentState() {
	orderID := suite.checkout()
	adminRouter := suite.newRouter(suite.admin)

	w, _ := suite.request(adminRouter, http.MethodGet, "/api/v1/admin/orders/"+orderID+"/invoice", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("text/html; charset=utf-8", w.Header().Get("Content-Type"))

	page := w.Body.String()
	suite.Contains(page, "Ceramic Mug")
	suite.Contains(page, "Jane Smith")
	suite.Contains(page, "Pending")
	suite.Contains(page, "$25.00")

	// The invoice reflects the order's status at render time
	w, _ = suite.request(adminRouter, http.MethodPatch, "/api/v1/admin/orders/"+orderID+"/status",
		map[string]string{"status": "confirmed"})
	suite.Require().Equal(http.StatusOK, w.Code)

	w, _ = suite.request(adminRouter, http.MethodGet, "/api/v1/admin/orders/"+orderID+"/invoice", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Confirmed")
}

func (suite *OrderIntegrationTestSuite) TestMyOrdersReflectConsoleActions() {
	orderID := suite.checkout()
	adminRouter := suite.newRouter(suite.admin)
	customerRouter := suite.newRouter(suite.customer)

	w, _ := suite.request(adminRouter, http.MethodPatch, "/api/v1/admin/orders/"+orderID+"/status",
		map[string]string{"status": "confirmed"})
	suite.Require().Equal(http.StatusOK, w.Code)

	w, response := suite.request(customerRouter, http.MethodGet, "/api/v1/orders/mine", nil)
	suite.Equal(http.StatusOK, w.Code)

	orders := response["data"].([]interface{})
	suite.Require().Len(orders, 1)
	suite.Equal("confirmed", orders[0].(map[string]interface{})["status"])
}

func TestOrderIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderIntegrationTestSuite))
}

// TestTransitionDirectlyAgainstStore checks the conditional write outside
// the HTTP surface: a stale status guard must match zero rows.
func TestTransitionDirectlyAgainstStore(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.DeliveryAddress{},
		&models.Order{},
		&models.OrderItem{},
		&models.StatusChange{},
	))

	admin := models.User{Auth0ID: "auth0|admin", Name: "Admin", Email: "admin@example.com", Role: "admin"}
	require.NoError(t, db.Create(&admin).Error)

	order := models.Order{ID: "order-guard", CustomerID: admin.ID, Status: models.StatusPending, TotalAmount: 10}
	require.NoError(t, db.Create(&order).Error)

	svc := services.NewOrderService(db)

	got, err := svc.Transition("order-guard", models.StatusConfirmed, &admin, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	// A write guarded on the now-stale pending status matches nothing
	result := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", "order-guard", models.StatusPending).
		Update("status", models.StatusCancelled)
	require.NoError(t, result.Error)
	assert.Equal(t, int64(0), result.RowsAffected)

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", "order-guard").Error)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
}

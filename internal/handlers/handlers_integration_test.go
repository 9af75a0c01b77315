package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jmvsevilleja/shop-graphql/internal/handlers"
	"github.com/jmvsevilleja/shop-graphql/internal/middleware"
	"github.com/jmvsevilleja/shop-graphql/internal/models"
	"github.com/jmvsevilleja/shop-graphql/internal/repositories"
	"github.com/jmvsevilleja/shop-graphql/internal/services"
)

// setupApp wires a Fiber app against in-memory SQLite and an in-memory cart
// store, mirroring the production route layout.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()

	// A unique shared-cache DSN per app keeps every pooled connection on the
	// same database while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Product{}, &models.Category{}, &models.Order{})
	assert.NoError(t, err)

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	cartRepo := repositories.NewMockCartRepository()

	authService := services.NewAuthService(userRepo, viper.GetString("JWT_SECRET"))
	productService := services.NewProductService(productRepo, categoryRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	orderService := services.NewOrderService(orderRepo, nil)
	cartService := services.NewCartService(cartRepo, nil, productService, orderService)

	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	authHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	admin := middleware.RequireRole(models.RoleAdmin)

	authHandler.RegisterProtectedRoutes(protected, admin)
	productHandler.RegisterRoutes(protected, admin)
	categoryHandler.RegisterRoutes(protected, admin)
	cartHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected, admin)

	return app, db
}

// doJSON performs a request with an optional bearer token and JSON body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// registerAndLogin registers a fresh account and returns its token.
func registerAndLogin(t *testing.T, app *fiber.App, username, email, password string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	return login(t, app, email, password)
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp map[string]string
	decodeBody(t, resp, &loginResp)
	assert.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

// adminToken creates an account, promotes it directly in the database and logs
// in again so the token carries the admin role claim.
func adminToken(t *testing.T, app *fiber.App, db *gorm.DB) string {
	t.Helper()

	email := "admin@example.com"
	registerAndLogin(t, app, "admin", email, "adminpassword")

	err := db.Model(&models.User{}).Where("email = ?", email).Update("role", models.RoleAdmin).Error
	assert.NoError(t, err)

	return login(t, app, email, "adminpassword")
}

// seedCatalog creates a category and product through the admin API and returns
// the product id.
func seedCatalog(t *testing.T, app *fiber.App, token string, price float64, stock int) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/v1/categories", token, map[string]interface{}{
		"name":      "Electronics",
		"slug":      "electronics-" + uuid.New().String(),
		"is_active": true,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var category models.Category
	decodeBody(t, resp, &category)
	assert.NotEmpty(t, category.ID)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"name":           "Test Laptop",
		"slug":           "test-laptop-" + uuid.New().String(),
		"description":    "For testing purposes",
		"price":          price,
		"stock_quantity": stock,
		"category_id":    category.ID,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var product models.Product
	decodeBody(t, resp, &product)
	assert.NotEmpty(t, product.ID)

	return product.ID
}

// TestMain suppresses logging during tests for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, _ := setupApp(t)

	userToRegister := map[string]string{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "password123",
	}
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", userToRegister)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var registerResp map[string]interface{}
	decodeBody(t, resp, &registerResp)
	assert.Equal(t, "User registered successfully", registerResp["message"])

	// Duplicate registration conflicts
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", userToRegister)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Login by email
	token := login(t, app, "test@example.com", "password123")

	// Wrong password is unauthorized
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "test@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// /users/me reflects the account, with the password blanked
	resp = doJSON(t, app, http.MethodGet, "/api/v1/users/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var me models.User
	decodeBody(t, resp, &me)
	assert.Equal(t, "testuser", me.Username)
	assert.Equal(t, models.RoleCustomer, me.Role)
	assert.Empty(t, me.Password)
}

func TestUnauthenticatedAccess(t *testing.T) {
	app, _ := setupApp(t)

	for _, path := range []string{
		"/api/v1/products",
		"/api/v1/categories",
		"/api/v1/cart",
		"/api/v1/orders",
	} {
		resp := doJSON(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "expected 401 for %s", path)
		resp.Body.Close()
	}
}

func TestAdminGuard(t *testing.T) {
	app, _ := setupApp(t)

	customerToken := registerAndLogin(t, app, "customer", "customer@example.com", "password123")

	// Customers cannot reach the admin mutations
	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", customerToken, map[string]interface{}{
		"name":        "Nope Product",
		"slug":        "nope-product",
		"price":       10.0,
		"category_id": "whatever",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/categories", customerToken, map[string]interface{}{
		"name": "Nope",
		"slug": "nope",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/users", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/all", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestCatalogAdminFlow(t *testing.T) {
	app, db := setupApp(t)
	token := adminToken(t, app, db)

	productID := seedCatalog(t, app, token, 1200.0, 5)

	// The catalog listing includes the new product
	resp := doJSON(t, app, http.MethodGet, "/api/v1/products", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var listing struct {
		Items []models.Product `json:"items"`
		Total int64            `json:"total"`
	}
	decodeBody(t, resp, &listing)
	assert.Equal(t, int64(1), listing.Total)
	assert.Equal(t, productID, listing.Items[0].ID)

	// Restock through the admin stock route
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/products/"+productID+"/stock", token, map[string]int{"delta": 10})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var product models.Product
	decodeBody(t, resp, &product)
	assert.Equal(t, 15, product.StockQuantity)

	// Stock check is a read for any authenticated caller
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/"+productID+"/stock?quantity=15", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var stockResp map[string]bool
	decodeBody(t, resp, &stockResp)
	assert.True(t, stockResp["available"])

	// A missing product is a 404
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/"+uuid.New().String(), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCartCheckoutFlow(t *testing.T) {
	app, db := setupApp(t)
	admin := adminToken(t, app, db)
	productID := seedCatalog(t, app, admin, 19.99, 10)

	customer := registerAndLogin(t, app, "shopper", "shopper@example.com", "password123")

	// The cart starts empty
	resp := doJSON(t, app, http.MethodGet, "/api/v1/cart", customer, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var cart models.Cart
	decodeBody(t, resp, &cart)
	assert.Empty(t, cart.Items)

	// Add two units
	resp = doJSON(t, app, http.MethodPost, "/api/v1/cart/items", customer, map[string]interface{}{
		"product_id": productID,
		"quantity":   2,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cart)
	assert.Len(t, cart.Items, 1)
	assert.InDelta(t, 39.98, cart.Total, 1e-9)

	// More than the available stock is rejected
	resp = doJSON(t, app, http.MethodPost, "/api/v1/cart/items", customer, map[string]interface{}{
		"product_id": productID,
		"quantity":   11,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Overwrite the quantity
	resp = doJSON(t, app, http.MethodPut, "/api/v1/cart/items/"+productID, customer, map[string]int{"quantity": 3})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cart)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.InDelta(t, 59.97, cart.Total, 1e-9)

	// Checkout turns the cart into a pending order
	resp = doJSON(t, app, http.MethodPost, "/api/v1/cart/checkout", customer, map[string]string{
		"shipping_address": "1 Test Street",
		"billing_address":  "1 Test Street",
		"payment_method":   "card",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decodeBody(t, resp, &order)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.InDelta(t, 59.97, order.Total, 1e-9)
	assert.Len(t, order.Items, 1)

	// The cart is empty again
	resp = doJSON(t, app, http.MethodGet, "/api/v1/cart", customer, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cart)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)

	// A second checkout on the now-empty cart fails
	resp = doJSON(t, app, http.MethodPost, "/api/v1/cart/checkout", customer, map[string]string{
		"shipping_address": "1 Test Street",
		"billing_address":  "1 Test Street",
		"payment_method":   "card",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// The order shows up in the customer's history
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders", customer, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []models.Order
	decodeBody(t, resp, &orders)
	assert.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	// The owner can read it; another customer cannot
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+order.ID, customer, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	stranger := registerAndLogin(t, app, "stranger", "stranger@example.com", "password123")
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+order.ID, stranger, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Admins move the order through the status machine
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", admin, map[string]string{
		"status": models.OrderStatusPaid,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Skipping ahead is rejected
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", admin, map[string]string{
		"status": models.OrderStatusDelivered,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Customers cannot touch the status at all
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", customer, map[string]string{
		"status": models.OrderStatusShipped,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestCartCouponAndSaveForLater(t *testing.T) {
	app, db := setupApp(t)
	admin := adminToken(t, app, db)
	productID := seedCatalog(t, app, admin, 10.0, 20)

	customer := registerAndLogin(t, app, "saver", "saver@example.com", "password123")

	resp := doJSON(t, app, http.MethodPost, "/api/v1/cart/items", customer, map[string]interface{}{
		"product_id": productID,
		"quantity":   2,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Coupons are stored verbatim; the default policy grants nothing
	resp = doJSON(t, app, http.MethodPost, "/api/v1/cart/coupon", customer, map[string]string{"code": "WELCOME10"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var cart models.Cart
	decodeBody(t, resp, &cart)
	assert.Equal(t, "WELCOME10", cart.CouponCode)
	assert.Zero(t, cart.Discount)

	// Save the only line for later: totals drop to zero, line is preserved
	resp = doJSON(t, app, http.MethodPost, "/api/v1/cart/items/"+productID+"/save-for-later", customer, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cart)
	assert.Empty(t, cart.Items)
	assert.Len(t, cart.SavedForLater, 1)
	assert.Equal(t, 2, cart.SavedForLater[0].Quantity)
	assert.Zero(t, cart.Total)

	// Clearing also drops saved-for-later and the coupon
	resp = doJSON(t, app, http.MethodDelete, "/api/v1/cart", customer, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	// Decode into a fresh struct: coupon_code is omitempty, so reusing the
	// populated cart would keep the stale value when the field is absent.
	var cleared models.Cart
	decodeBody(t, resp, &cleared)
	assert.Empty(t, cleared.SavedForLater)
	assert.Empty(t, cleared.CouponCode)
}

func TestCategoryTreeEndpoints(t *testing.T) {
	app, db := setupApp(t)
	admin := adminToken(t, app, db)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/categories", admin, map[string]interface{}{
		"name": "Electronics", "slug": "electronics", "is_active": true,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var root models.Category
	decodeBody(t, resp, &root)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/categories", admin, map[string]interface{}{
		"name": "Laptops", "slug": "laptops", "parent_id": root.ID, "is_active": true,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var child models.Category
	decodeBody(t, resp, &child)

	// Path is root-first
	resp = doJSON(t, app, http.MethodGet, "/api/v1/categories/"+child.ID+"/path", admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var path []models.Category
	decodeBody(t, resp, &path)
	assert.Len(t, path, 2)
	assert.Equal(t, root.ID, path[0].ID)
	assert.Equal(t, child.ID, path[1].ID)

	// Deleting a parent with children is a 400
	resp = doJSON(t, app, http.MethodDelete, "/api/v1/categories/"+root.ID, admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Children listing
	resp = doJSON(t, app, http.MethodGet, "/api/v1/categories/"+root.ID+"/children", admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var children []models.Category
	decodeBody(t, resp, &children)
	assert.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)
}

package http

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/store-service/internal/api/http/handlers"
	"github.com/spec-kit/store-service/internal/auth"
	"github.com/spec-kit/store-service/internal/events"
	"github.com/spec-kit/store-service/internal/observability"
	"github.com/spec-kit/store-service/internal/repository/memory"
	"github.com/spec-kit/store-service/internal/service"
)

var (
	keyOnce sync.Once
	testKey *rsa.PrivateKey
	keyErr  error
)

type apiFixture struct {
	app *fiber.App
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	keyOnce.Do(func() {
		testKey, keyErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	require.NoError(t, keyErr)

	logger := zap.NewNop()
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	dispatcher := events.NewInMemoryDispatcher()
	tokens := auth.NewTokenManager(testKey, nil, "http://localhost:3000/api", 120)

	authService := service.NewAuthService(4, service.AuthDependencies{
		UserRepo:     memory.NewUserRepository(),
		TokenManager: tokens,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	productService := service.NewProductService(service.ProductDependencies{
		ProductRepo: memory.NewProductRepository(),
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	app := NewApp("store-service-test", logger, metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Root:           handlers.NewRootHandler("1.0.0"),
		Health:         handlers.NewHealthHandler("store-service", "1.0.0", map[string]handlers.Pinger{"postgres": nil}),
		Users:          handlers.NewUsersHandler(authService),
		Products:       handlers.NewProductsHandler(productService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		Gatherer:       registry,
	})
	return &apiFixture{app: app}
}

type response struct {
	status      int
	contentType string
	body        string
}

func (f *apiFixture) do(t *testing.T, method, path, token, accept, body string) response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	if accept != "" {
		req.Header.Set(fiber.HeaderAccept, accept)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, contentType: resp.Header.Get(fiber.HeaderContentType), body: string(raw)}
}

type authBody struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
	UserRole int    `json:"userRole"`
}

func (f *apiFixture) register(t *testing.T, body string) authBody {
	t.Helper()
	resp := f.do(t, fiber.MethodPost, "/api/user/register", "", "", body)
	require.Equal(t, fiber.StatusCreated, resp.status, resp.body)
	var out authBody
	require.NoError(t, json.Unmarshal([]byte(resp.body), &out))
	return out
}

func TestRegisterAndLogin(t *testing.T) {
	f := newAPIFixture(t)

	alice := f.register(t, `{"username":"alice","email":"a@x.com","password":"pw"}`)
	assert.Equal(t, "alice", alice.Username)
	assert.Equal(t, "a@x.com", alice.Email)
	assert.Equal(t, 2, alice.UserRole)
	assert.NotZero(t, alice.UserID)

	claims, err := auth.ParseClaims(alice.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, claims.Subject)
	assert.Equal(t, 2, claims.Role)
	assert.Equal(t, int64(7200), claims.ExpiresAt-claims.IssuedAt)

	resp := f.do(t, fiber.MethodPost, "/api/user/register", "", "", `{"username":"bob","email":"a@x.com","password":"pw"}`)
	assert.Equal(t, fiber.StatusConflict, resp.status)
	assert.JSONEq(t, `{"error":"User Already Exist. Please Login"}`, resp.body)

	resp = f.do(t, fiber.MethodPost, "/api/user/register", "", "", `{"email":"c@x.com"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.status)
	assert.JSONEq(t, `{"error":"username, email, password are required"}`, resp.body)

	resp = f.do(t, fiber.MethodPost, "/api/user/login", "", "", `{"email":"a@x.com","password":"pw"}`)
	require.Equal(t, fiber.StatusOK, resp.status)
	var login authBody
	require.NoError(t, json.Unmarshal([]byte(resp.body), &login))
	assert.Equal(t, alice.UserID, login.UserID)

	resp = f.do(t, fiber.MethodPost, "/api/user/login", "", "", `{"email":"a@x.com","password":"nope"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.status)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, resp.body)
}

func TestProductAccessControl(t *testing.T) {
	f := newAPIFixture(t)
	member := f.register(t, `{"username":"alice","email":"a@x.com","password":"pw"}`)

	resp := f.do(t, fiber.MethodGet, "/api/product", "", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.status)
	assert.JSONEq(t, `{"error":"a token is required for authentication"}`, resp.body)

	resp = f.do(t, fiber.MethodGet, "/api/product", "malformed.token", "", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.status)
	assert.JSONEq(t, `{"error":"invalid token"}`, resp.body)

	resp = f.do(t, fiber.MethodGet, "/api/product", member.Token, "", "")
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.JSONEq(t, `[]`, resp.body)

	body := `{"product_name":"desk","quantity":1,"price":10}`
	resp = f.do(t, fiber.MethodPost, "/api/product", member.Token, "", body)
	assert.Equal(t, fiber.StatusForbidden, resp.status)
	assert.JSONEq(t, `{"error":"insufficient permissions"}`, resp.body)

	resp = f.do(t, fiber.MethodPost, "/api/product", member.Token, "application/xml", body)
	assert.Equal(t, fiber.StatusForbidden, resp.status)
	assert.Equal(t, "application/xml; charset=utf-8", resp.contentType)
	assert.Equal(t, xml.Header+"<error>insufficient permissions</error>", resp.body)
}

func TestProductCRUD(t *testing.T) {
	f := newAPIFixture(t)
	admin := f.register(t, `{"username":"root","email":"root@x.com","password":"pw","role":1}`)
	require.Equal(t, 1, admin.UserRole)

	resp := f.do(t, fiber.MethodPost, "/api/product", admin.Token, "", `{"product_name":"desk","quantity":2}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.status)
	assert.JSONEq(t, `{"error":"product_name, quantity, price are required"}`, resp.body)

	resp = f.do(t, fiber.MethodPost, "/api/product", admin.Token, "", `{"product_name":"desk","quantity":2,"price":10.5}`)
	require.Equal(t, fiber.StatusCreated, resp.status)
	assert.JSONEq(t, `{"message":"Product added successfully!","product":{"productId":1,"product_name":"desk","quantity":2,"price":10.5}}`, resp.body)

	resp = f.do(t, fiber.MethodGet, "/api/product/1", admin.Token, "", "")
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.JSONEq(t, `{"productId":1,"product_name":"desk","quantity":2,"price":10.5}`, resp.body)

	resp = f.do(t, fiber.MethodGet, "/api/product/abc", admin.Token, "", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.status)
	assert.JSONEq(t, `{"error":"Wrong id - should be number"}`, resp.body)

	resp = f.do(t, fiber.MethodGet, "/api/product/99", admin.Token, "", "")
	assert.Equal(t, fiber.StatusNotFound, resp.status)
	assert.JSONEq(t, `{"error":"Product with id 99 not found"}`, resp.body)

	resp = f.do(t, fiber.MethodPatch, "/api/product/1", admin.Token, "", `{"quantity":5}`)
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.JSONEq(t, `{"productId":1,"product_name":"desk","quantity":5,"price":10.5}`, resp.body)

	resp = f.do(t, fiber.MethodPut, "/api/product/1", admin.Token, "", `{"product_name":"table","quantity":1,"price":3}`)
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.JSONEq(t, `{"productId":1,"product_name":"table","quantity":1,"price":3}`, resp.body)

	resp = f.do(t, fiber.MethodGet, "/api/product/search?name=TAB", admin.Token, "application/xml", "")
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.Equal(t, xml.Header+`<response><product><productId>1</productId><product_name>table</product_name>`+
		`<quantity>1</quantity><price>3</price></product></response>`, resp.body)

	resp = f.do(t, fiber.MethodDelete, "/api/product/1", admin.Token, "", "")
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.JSONEq(t, `{"message":"Product with id 1 has been deleted"}`, resp.body)

	resp = f.do(t, fiber.MethodDelete, "/api/product/1", admin.Token, "", "")
	assert.Equal(t, fiber.StatusNotFound, resp.status)
}

func TestIndexHealthAndNotFound(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, fiber.MethodGet, "/api", "", "", "")
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.JSONEq(t, `{"success":"true","message":"Run testing app","version":"1.0.0"}`, resp.body)

	resp = f.do(t, fiber.MethodGet, "/nope?x=1", "", "", "")
	assert.Equal(t, fiber.StatusNotFound, resp.status)
	assert.JSONEq(t, `{"error":"404 - resource not found http://example.com/nope?x=1"}`, resp.body)

	resp = f.do(t, fiber.MethodGet, "/health/ready", "", "", "")
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.JSONEq(t, `{"status":"ready","dependencies":{"postgres":"disabled"}}`, resp.body)

	resp = f.do(t, fiber.MethodGet, "/metrics", "", "", "")
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.Contains(t, resp.body, "http_requests_total")
}

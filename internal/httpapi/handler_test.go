package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/foodz/foodz-api/internal/ai"
	"github.com/foodz/foodz-api/internal/auth"
	"github.com/foodz/foodz-api/internal/orders"
	"github.com/foodz/foodz-api/internal/requestid"
	"github.com/foodz/foodz-api/pkg/ratelimit"
)

func init() {
	auth.PasswordCost = bcrypt.MinCost
}

type testEnv struct {
	router  http.Handler
	catalog *mockCatalog
	orders  *mockOrders
	limiter *mockLimiterStore
	tokens  *auth.TokenManager
	ai      *ai.Service
	logs    *observer.ObservedLogs
}

func setupTest(t *testing.T, settings ai.Settings) *testEnv {
	t.Helper()

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	tokens, err := auth.NewTokenManager("test-secret", "HS256", time.Hour)
	require.NoError(t, err)

	adminHash, err := auth.HashPassword("admin123")
	require.NoError(t, err)
	staffHash, err := auth.HashPassword("staff123")
	require.NoError(t, err)
	users := &mockUsers{users: map[string]*auth.User{
		"admin": {ID: 1, Username: "admin", HashedPassword: adminHash, Role: "admin"},
		"staff": {ID: 2, Username: "staff", HashedPassword: staffHash, Role: "staff"},
	}}

	env := &testEnv{
		catalog: newMockCatalog(),
		orders:  newMockOrders(),
		limiter: &mockLimiterStore{allowed: true},
		tokens:  tokens,
		ai:      ai.NewService(settings, ai.WithServiceLogger(logger)),
		logs:    logs,
	}
	t.Cleanup(env.ai.Shutdown)

	env.router = NewRouter(Deps{
		Catalog:   env.catalog,
		Orders:    orders.NewService(env.catalog, env.orders),
		Users:     users,
		UserCache: noCache{},
		Tokens:    tokens,
		AI:        env.ai,
		Limiter:   ratelimit.NewTestLimiter(env.limiter),
		Tracer:    noop.NewTracerProvider().Tracer("test"),
		Logger:    logger,
	})
	return env
}

func (e *testEnv) token(t *testing.T, username string) string {
	t.Helper()
	tok, err := e.tokens.Issue(username)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) admin(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	return e.do(method, path, body, map[string]string{"Authorization": "Bearer " + e.token(t, "admin")})
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	d, _ := decode(t, w)["detail"].(string)
	return d
}

func TestHealthz(t *testing.T) {
	env := setupTest(t, ai.Settings{})
	w := env.do("GET", "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
	assert.NotEmpty(t, w.Header().Get(requestid.Header))
}

func TestListBrands(t *testing.T) {
	env := setupTest(t, ai.Settings{})
	w := env.do("GET", "/brands/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var brands []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &brands))
	require.Len(t, brands, 2)
	assert.Equal(t, "healthy-foodz", brands[0]["slug"])
}

func TestGetMenu(t *testing.T) {
	env := setupTest(t, ai.Settings{})

	for _, ref := range []string{"2", "tazty-foodz"} {
		w := env.do("GET", "/menu/"+ref, "", nil)
		require.Equal(t, http.StatusOK, w.Code, ref)
		body := decode(t, w)
		assert.Equal(t, "Tazty Foodz", body["brand"])
		assert.Equal(t, "tazty-foodz", body["slug"])
		menu := body["menu"].([]any)
		require.Len(t, menu, 1, "unavailable items are hidden")
		assert.Equal(t, "Chicken Pizza", menu[0].(map[string]any)["name"])
	}

	w := env.do("GET", "/menu/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Brand not found", detail(t, w))

	w = env.do("GET", "/menu/99", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlaceOrder(t *testing.T) {
	env := setupTest(t, ai.Settings{})

	w := env.do("POST", "/orders/", `{"brand_slug":"tazty-foodz","items":[{"menu_item_id":10,"quantity":2}],"customer_name":"Asha"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, 498.0, body["total"])
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "COD", body["payment_method"])

	id := int64(body["id"].(float64))
	w = env.do("GET", "/orders/"+jsonNumber(id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, 249.0, items[0].(map[string]any)["price"])
}

func TestPlaceOrderErrors(t *testing.T) {
	env := setupTest(t, ai.Settings{})

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed", `{`, http.StatusUnprocessableEntity},
		{"no items", `{"brand_slug":"tazty-foodz","items":[],"customer_name":"A"}`, http.StatusUnprocessableEntity},
		{"zero quantity", `{"brand_slug":"tazty-foodz","items":[{"menu_item_id":10,"quantity":0}],"customer_name":"A"}`, http.StatusUnprocessableEntity},
		{"unknown brand", `{"brand_slug":"nope","items":[{"menu_item_id":10,"quantity":1}],"customer_name":"A"}`, http.StatusNotFound},
		{"unavailable item", `{"brand_slug":"tazty-foodz","items":[{"menu_item_id":11,"quantity":1}],"customer_name":"A"}`, http.StatusNotFound},
		{"other brand item", `{"brand_slug":"tazty-foodz","items":[{"menu_item_id":12,"quantity":1}],"customer_name":"A"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do("POST", "/orders", tt.body, nil)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.NotEmpty(t, detail(t, w))
		})
	}
	assert.Empty(t, env.orders.orders)
}

func TestGetOrderNotFound(t *testing.T) {
	env := setupTest(t, ai.Settings{})

	w := env.do("GET", "/orders/42", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Order not found", detail(t, w))

	w = env.do("GET", "/orders/abc", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLogin(t *testing.T) {
	env := setupTest(t, ai.Settings{})

	w := env.do("POST", "/auth/login", `{"username":"admin","password":"admin123"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "bearer", body["token_type"])
	sub, err := env.tokens.Parse(body["access_token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "admin", sub)

	for _, creds := range []string{
		`{"username":"admin","password":"wrong"}`,
		`{"username":"ghost","password":"admin123"}`,
	} {
		w := env.do("POST", "/auth/login", creds, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid credentials", detail(t, w))
	}
}

func TestAdminRequiresAdmin(t *testing.T) {
	env := setupTest(t, ai.Settings{})

	w := env.do("GET", "/admin/menu/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	w = env.do("GET", "/admin/menu/", "", map[string]string{"Authorization": "Bearer " + env.token(t, "staff")})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.admin(t, "GET", "/admin/menu/", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminMenuLifecycle(t *testing.T) {
	env := setupTest(t, ai.Settings{})

	w := env.admin(t, "POST", "/admin/menu/", `{"brand_id":2,"name":"Egg Pizza","price":219,"category":"Pizza"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, true, created["available"])
	id := jsonNumber(int64(created["id"].(float64)))

	w = env.admin(t, "POST", "/admin/menu/", `{"brand_id":9,"name":"Ghost","price":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Brand not found", detail(t, w))

	w = env.admin(t, "POST", "/admin/menu/", `{"brand_id":2,"name":"","price":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.admin(t, "PUT", "/admin/menu/"+id, `{"price":199}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 199.0, decode(t, w)["price"])
	assert.Equal(t, "Egg Pizza", decode(t, w)["name"])

	w = env.admin(t, "PATCH", "/admin/menu/"+id+"/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["available"])

	w = env.admin(t, "GET", "/admin/menu?brand_id=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 3, "admin listing includes unavailable items")

	w = env.admin(t, "PUT", "/admin/menu/999", `{"price":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Menu item not found", detail(t, w))
}

func TestAdminDeleteMenuItem(t *testing.T) {
	env := setupTest(t, ai.Settings{})
	env.catalog.refs[10] = 3

	w := env.admin(t, "DELETE", "/admin/menu/10", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot delete menu item referenced by orders", detail(t, w))

	w = env.admin(t, "DELETE", "/admin/menu/12", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "deleted (soft)", detail(t, w))
	assert.False(t, env.catalog.items[12].Available)

	w = env.admin(t, "DELETE", "/admin/menu/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminOrders(t *testing.T) {
	env := setupTest(t, ai.Settings{})

	w := env.do("POST", "/orders", `{"brand_slug":"tazty-foodz","items":[{"menu_item_id":10,"quantity":1}],"customer_name":"A"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.admin(t, "GET", "/admin/orders", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	item := list[0]["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "Chicken Pizza", item["name"])

	w = env.admin(t, "PATCH", "/admin/orders/1/status", `{"status":"preparing"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "preparing", decode(t, w)["status"])

	w = env.admin(t, "PATCH", "/admin/orders/1/status", `{"status":"lost"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid status", detail(t, w))

	w = env.admin(t, "PATCH", "/admin/orders/7/status", `{"status":"ready"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "order not found", detail(t, w))

	for _, path := range []string{"/admin/orders/stats", "/admin/stats"} {
		w = env.admin(t, "GET", path, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		stats := decode(t, w)
		assert.Equal(t, 1.0, stats["total_orders"])
		assert.Equal(t, 249.0, stats["total_revenue"])
		assert.Equal(t, 1.0, stats["preparing_count"])
	}
}

func jsonNumber(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

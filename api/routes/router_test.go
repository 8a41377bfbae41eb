package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/meetpatel1235/rrrr/internal/inventory"
	"github.com/meetpatel1235/rrrr/internal/orders"
	pkgAuth "github.com/meetpatel1235/rrrr/pkg/auth"
	"github.com/meetpatel1235/rrrr/pkg/auth/session"
	"github.com/meetpatel1235/rrrr/pkg/config"
	"github.com/meetpatel1235/rrrr/pkg/enums"
	"github.com/meetpatel1235/rrrr/pkg/logger"
	"github.com/meetpatel1235/rrrr/pkg/metrics"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type stubSessions struct {
	revoked map[string]bool
}

func (s stubSessions) Active(ctx context.Context, sessionID string) (bool, error) {
	return !s.revoked[sessionID], nil
}

type stubInventoryService struct {
	inventory.Service
	created int
}

func (s *stubInventoryService) List(ctx context.Context, filters inventory.ListFilters) ([]inventory.ItemDTO, error) {
	return []inventory.ItemDTO{{ID: uuid.New(), Name: "Pot"}}, nil
}

func (s *stubInventoryService) Create(ctx context.Context, req inventory.CreateItemRequest) (*inventory.ItemDTO, error) {
	s.created++
	return &inventory.ItemDTO{ID: uuid.New(), Name: req.Name, Category: req.Category, TotalQuantity: *req.TotalQuantity}, nil
}

type stubOrdersService struct {
	orders.Service
	lastStatus enums.OrderStatus
}

func (s *stubOrdersService) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*orders.OrderDTO, error) {
	s.lastStatus = status
	return &orders.OrderDTO{ID: id, OrderNumber: "ORD0001"}, nil
}

type memoryIdempotency struct {
	data map[string]string
}

func (m *memoryIdempotency) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (m *memoryIdempotency) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *memoryIdempotency) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	return true, m.Set(ctx, key, value, ttl)
}

func (m *memoryIdempotency) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryIdempotency) IdempotencyKey(scope, id string) string {
	return scope + ":" + id
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{
			Secret:            "router-secret",
			Issuer:            "rasoi-test",
			ExpirationMinutes: 60,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func testDeps() Dependencies {
	return Dependencies{
		DB:        stubPinger{},
		Redis:     stubPinger{},
		Sessions:  stubSessions{},
		Inventory: &stubInventoryService{},
		Orders:    &stubOrdersService{},
	}
}

func newTestRouter(cfg *config.Config, deps Dependencies) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: "debug", Output: io.Discard})
	if deps.Tokens == nil {
		deps.Tokens = pkgAuth.MustTokens(cfg.JWT)
	}
	return NewRouter(cfg, logg, deps)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole, sessionID string) string {
	t.Helper()
	token, err := pkgAuth.MustTokens(cfg.JWT).Mint(pkgAuth.Subject{
		UserID:    uuid.New(),
		Role:      role,
		SessionID: sessionID,
	}, time.Now())
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig(), testDeps())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestHealthReadyReportsDependencyFailure(t *testing.T) {
	deps := testDeps()
	deps.Redis = stubPinger{err: context.DeadlineExceeded}
	router := newTestRouter(testConfig(), deps)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"redis"`) {
		t.Fatalf("expected failing dependency in details, got %s", resp.Body.String())
	}
}

func TestPrivateRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter(testConfig(), testDeps())
	for _, path := range []string{"/api/inventory", "/api/orders", "/api/invoices", "/api/dashboard/stats", "/api/auth/me"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without token got %d", path, resp.Code)
		}
	}
}

func TestPrivateRoutesRejectInvalidToken(t *testing.T) {
	router := newTestRouter(testConfig(), testDeps())
	req := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for invalid token got %d", resp.Code)
	}
}

func TestRevokedSessionIsForbidden(t *testing.T) {
	cfg := testConfig()
	sessionID := session.NewID()
	deps := testDeps()
	deps.Sessions = stubSessions{revoked: map[string]bool{sessionID: true}}
	router := newTestRouter(cfg, deps)

	req := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin, sessionID))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for revoked session got %d", resp.Code)
	}
}

func TestWorkerCanReadInventory(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, testDeps())

	req := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleWorker, session.NewID()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestInventoryWritesRequireAdmin(t *testing.T) {
	cfg := testConfig()
	deps := testDeps()
	inv := &stubInventoryService{}
	deps.Inventory = inv
	router := newTestRouter(cfg, deps)
	body := `{"name":"Pot","category":"Vessels","totalQuantity":10,"price":"50"}`

	worker := httptest.NewRequest(http.MethodPost, "/api/inventory", strings.NewReader(body))
	worker.Header.Set("Content-Type", "application/json")
	worker.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleWorker, session.NewID()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, worker)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for worker got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodPost, "/api/inventory", strings.NewReader(body))
	admin.Header.Set("Content-Type", "application/json")
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin, session.NewID()))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin got %d: %s", resp.Code, resp.Body.String())
	}
	if inv.created != 1 {
		t.Fatalf("expected one create call got %d", inv.created)
	}
}

func TestAdminOnlyRoutesRejectWorker(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, testDeps())
	token := buildToken(t, cfg, enums.UserRoleWorker, session.NewID())

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/users"},
		{http.MethodPost, "/api/auth/register"},
		{http.MethodGet, "/api/reports/orders.csv"},
		{http.MethodPut, "/api/invoices/" + uuid.NewString()},
		{http.MethodPost, "/api/invoices/" + uuid.NewString() + "/payments"},
		{http.MethodDelete, "/api/inventory/" + uuid.NewString()},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusForbidden {
			t.Fatalf("%s %s: expected 403 got %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestWorkerCanTransitionOrder(t *testing.T) {
	cfg := testConfig()
	deps := testDeps()
	svc := &stubOrdersService{}
	deps.Orders = svc
	router := newTestRouter(cfg, deps)

	req := httptest.NewRequest(http.MethodPut, "/api/orders/"+uuid.NewString()+"/status", strings.NewReader(`{"status":"pending"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleWorker, session.NewID()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastStatus != enums.OrderStatusPending {
		t.Fatalf("expected pending transition got %q", svc.lastStatus)
	}
}

func TestIdempotencyKeyOnlyGuardsCreates(t *testing.T) {
	cfg := testConfig()
	deps := testDeps()
	deps.Idempotency = &memoryIdempotency{data: map[string]string{}}
	router := newTestRouter(cfg, deps)
	token := buildToken(t, cfg, enums.UserRoleWorker, session.NewID())

	create := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{}`))
	create.Header.Set("Content-Type", "application/json")
	create.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, create)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key got %d", resp.Code)
	}

	transition := httptest.NewRequest(http.MethodPut, "/api/orders/"+uuid.NewString()+"/status", strings.NewReader(`{"status":"completed"}`))
	transition.Header.Set("Content-Type", "application/json")
	transition.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, transition)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status change without key to pass, got %d", resp.Code)
	}
}

func TestMetricsEndpointServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	deps := testDeps()
	deps.HTTPMetrics = metrics.NewHTTPMetrics(reg)
	deps.Gatherer = reg
	router := newTestRouter(testConfig(), deps)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "/health/live") {
		t.Fatalf("expected route label in metrics output")
	}
}

func TestCORSPreflightAllowsConfiguredOrigin(t *testing.T) {
	router := newTestRouter(testConfig(), testDeps())
	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allow-origin header got %q", got)
	}
}

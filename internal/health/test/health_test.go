package health_test

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/binhbb2204/manga-catalog/internal/health"
	"github.com/binhbb2204/manga-catalog/pkg/logger"
	"github.com/binhbb2204/manga-catalog/pkg/store"
	"github.com/gin-gonic/gin"
)

func setupHealthTest(t *testing.T) (*health.Handler, string, func()) {
	root := filepath.Join(t.TempDir(), "data")
	logger.Init(logger.INFO, false, nil)
	st, err := store.NewFileStore(root)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	handler := health.NewHandler(st)

	cleanup := func() {
		st.Close()
	}

	return handler, root, cleanup
}

func serve(handler gin.HandlerFunc, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET(path, handler)

	req := httptest.NewRequest("GET", path, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHealthz_AlwaysReturnsOK(t *testing.T) {
	handler, _, cleanup := setupHealthTest(t)
	defer cleanup()

	resp := serve(handler.Healthz, "/healthz")
	if resp.Code != 200 {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	body := resp.Body.String()
	if body != `{"status":"alive"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestReadyz_HealthySystem(t *testing.T) {
	handler, _, cleanup := setupHealthTest(t)
	defer cleanup()

	resp := serve(handler.Readyz, "/readyz")
	if resp.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	body := resp.Body.String()
	if body != `{"status":"ready"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestReadyz_StoreRemoved(t *testing.T) {
	handler, root, cleanup := setupHealthTest(t)
	defer cleanup()

	if err := os.RemoveAll(root); err != nil {
		t.Fatalf("remove store root: %v", err)
	}

	resp := serve(handler.Readyz, "/readyz")
	if resp.Code != 503 {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestReadyz_NoStore(t *testing.T) {
	handler := health.NewHandler(nil)

	resp := serve(handler.Readyz, "/readyz")
	if resp.Code != 503 {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestHealth_ReportsStore(t *testing.T) {
	handler, _, cleanup := setupHealthTest(t)
	defer cleanup()

	resp := serve(handler.Health, "/health")
	if resp.Code != 200 {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["store"] != "ok" || body["success"] != true {
		t.Fatalf("unexpected body: %v", body)
	}
}

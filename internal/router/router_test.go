package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubhub/ads-backend/internal/config"
	"github.com/clubhub/ads-backend/internal/i18n"
	"github.com/clubhub/ads-backend/internal/repository/repotest"
	"github.com/clubhub/ads-backend/internal/services"
	"github.com/clubhub/ads-backend/internal/utils"
)

func newTestRouter(t *testing.T) (*gin.Engine, *repotest.AuditLogRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, i18n.Initialize())

	cfg := &config.Config{
		JWT:       config.JWTConfig{SecretKey: "router-test-secret"},
		Auth:      config.AuthConfig{ApproverRoles: []string{"system_admin"}},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"https://admin.example.com"}},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100, UploadsPerMinute: 10},
		Storage:   config.StorageConfig{UploadDir: t.TempDir(), PublicBaseURL: "http://localhost:8080", MaxUploadMB: 5},
	}

	storage, err := services.NewStorageService(cfg)
	require.NoError(t, err)

	clock := func() time.Time { return time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC) }
	adService := services.NewAdService(repotest.NewAdRepository(), storage, clock)
	audit := &repotest.AuditLogRepository{}

	r := Initialize(cfg, Dependencies{
		AdService:      adService,
		PricingService: services.NewPricingService(repotest.NewPricingRepository()),
		ExportService:  services.NewExportService(adService),
		Storage:        storage,
		AuditLog:       audit,
		Version:        "test",
	})
	return r, audit
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestModerationRoutesRequireApproverRole(t *testing.T) {
	r, _ := newTestRouter(t)

	clubToken, err := utils.GenerateJWT("club-1", "club", "club_admin", "test", time.Hour)
	require.NoError(t, err)

	path := "/ads/6f1c2b9e-3d4a-4e5f-8a7b-9c0d1e2f3a4b/approve"

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("Authorization", "Bearer "+clubToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken, err := utils.GenerateJWT("admin-1", "ops", "system_admin", "test", time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicRoutesAndAudit(t *testing.T) {
	r, audit := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ads/pricing", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	token, err := utils.GenerateJWT("club-1", "club", "club_admin", "test", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/ads/create", strings.NewReader(`{
		"club_id": 3,
		"ad_name": "Spring promo",
		"ad_type": "APP_BANNER",
		"start_date": "2024-06-01",
		"duration_days": 7,
		"price_per_day": 10,
		"payment_method": "CASH"
	}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept-Language", "zh-TW")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEqual(t, "Ad created successfully", body["message"])

	assert.Eventually(t, func() bool { return len(audit.Snapshot()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "POST /ads/create", audit.Snapshot()[0].Action)
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/ads/create", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

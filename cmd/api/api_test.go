package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authRepo "corretora-backend/internal/auth/repository"
	authUsecase "corretora-backend/internal/auth/usecase"
	clientRepo "corretora-backend/internal/client/repository"
	clientUsecase "corretora-backend/internal/client/usecase"
	kanbanRepo "corretora-backend/internal/kanban/repository"
	kanbanUsecase "corretora-backend/internal/kanban/usecase"
	"corretora-backend/internal/testutil"
	whatsappRepo "corretora-backend/internal/whatsapp/repository"
	whatsappUsecase "corretora-backend/internal/whatsapp/usecase"
	"corretora-backend/pkg/cloudapi"
	"corretora-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, provider http.HandlerFunc) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	graph := httptest.NewServer(provider)
	t.Cleanup(graph.Close)

	cfg := &config.Config{
		JWTSecret:             "test-secret",
		JWTAccessExpiry:       time.Minute,
		JWTRefreshExpiry:      time.Hour,
		CORSOrigins:           []string{"*"},
		WhatsAppProvider:      config.WhatsAppProviderCloud,
		WhatsAppAPIURL:        graph.URL,
		WhatsAppAPIToken:      "super-secret-token",
		WhatsAppPhoneNumberID: "123",
		WhatsAppVerifyToken:   "verify-me",
	}

	db := testutil.NewTestDB(t)
	clients := clientRepo.NewClientRepository(db)
	policies := clientRepo.NewPolicyRepository(db)
	clientUc := clientUsecase.NewClientUsecase(clients, policies)
	kanbanUc := kanbanUsecase.NewKanbanUsecase(kanbanRepo.NewColumnRepository(db), kanbanRepo.NewCardRepository(db), clientUc)
	authUc := authUsecase.NewAuthUsecase(authRepo.NewUserRepository(db), cfg)
	svc := whatsappUsecase.NewCloudService(cloudapi.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppAPIToken, cfg.WhatsAppPhoneNumberID), whatsappRepo.NewMessageRepository(db))

	require.NoError(t, authUc.EnsureAdmin("admin123"))
	_, err := kanbanUc.EnsureDefaultColumns()
	require.NoError(t, err)

	h := NewHandler(authUc, kanbanUc, clientUc, clientUsecase.NewPolicyUsecase(clients, policies), svc, db, cfg)
	return h.Router()
}

func request(srv http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func adminToken(t *testing.T, srv http.Handler) string {
	t.Helper()
	w := request(srv, http.MethodPost, "/api/auth/login", "", `{"username":"admin","password":"admin123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}

func phoneNumberOK(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(`{"id":"123","verified_name":"Corretora"}`))
}

func TestHealthAndRequestID(t *testing.T) {
	srv := newTestServer(t, phoneNumberOK)

	w := request(srv, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	srv := newTestServer(t, phoneNumberOK)

	for _, path := range []string{"/api/kanban", "/api/clients", "/api/dashboard", "/api/whatsapp/status", "/api/whatsapp/contacts", "/api/whatsapp/chats", "/api/settings/whatsapp", "/api/users"} {
		assert.Equal(t, http.StatusUnauthorized, request(srv, http.MethodGet, path, "", "").Code, path)
	}
}

func TestWebhookIsPublic(t *testing.T) {
	srv := newTestServer(t, phoneNumberOK)

	w := request(srv, http.MethodGet, "/webhook/whatsapp?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=42", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Body.String())

	w = request(srv, http.MethodPost, "/webhook/whatsapp", "", `not json`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDashboard(t *testing.T) {
	srv := newTestServer(t, phoneNumberOK)
	token := adminToken(t, srv)

	w := request(srv, http.MethodPost, "/api/clients", token, `{"name":"Ana","status":"prospect"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = request(srv, http.MethodGet, "/api/dashboard", token, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp DashboardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp.Clients.Total)
	assert.EqualValues(t, 1, resp.Clients.Prospects)
	assert.Len(t, resp.Kanban, 5)
	assert.Zero(t, resp.TotalCards)
	assert.True(t, resp.WhatsAppConnected)
	assert.Equal(t, config.WhatsAppProviderCloud, resp.WhatsAppProvider)
}

func TestWhatsAppSettings(t *testing.T) {
	srv := newTestServer(t, phoneNumberOK)
	token := adminToken(t, srv)

	w := request(srv, http.MethodGet, "/api/settings/whatsapp", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "super-secret-token")

	var settings WhatsAppSettings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.Equal(t, config.WhatsAppProviderCloud, settings.Provider)
	assert.Equal(t, "123", settings.PhoneNumberID)
	assert.True(t, settings.APITokenSet)
	assert.Empty(t, settings.WPPConnectURL)

	w = request(srv, http.MethodPost, "/api/settings/whatsapp/test", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWhatsAppSettings_ProviderDown(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token"}}`))
	})
	token := adminToken(t, srv)

	w := request(srv, http.MethodPost, "/api/settings/whatsapp/test", token, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid OAuth access token")

	// the dashboard still renders
	w = request(srv, http.MethodGet, "/api/dashboard", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"whatsapp_connected":false`)
}

func TestWhatsAppContactsOnCloudProvider(t *testing.T) {
	srv := newTestServer(t, phoneNumberOK)
	token := adminToken(t, srv)

	assert.Equal(t, http.StatusNotImplemented, request(srv, http.MethodGet, "/api/whatsapp/contacts", token, "").Code)
	assert.Equal(t, http.StatusNotImplemented, request(srv, http.MethodGet, "/api/whatsapp/chats", token, "").Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, phoneNumberOK)

	req := httptest.NewRequest(http.MethodOptions, "/api/clients", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Less(t, w.Code, 300)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

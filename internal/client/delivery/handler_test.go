package delivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"corretora-backend/internal/client/domain"
	"corretora-backend/internal/client/repository"
	"corretora-backend/internal/client/usecase"
	"corretora-backend/internal/testutil"
	whatsappdomain "corretora-backend/internal/whatsapp/domain"
	whatsapprepo "corretora-backend/internal/whatsapp/repository"
	whatsapp "corretora-backend/internal/whatsapp/usecase"
	"corretora-backend/pkg/cloudapi"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRouter(t *testing.T, provider http.HandlerFunc) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(provider)
	t.Cleanup(srv.Close)

	db := testutil.NewTestDB(t)
	clients := repository.NewClientRepository(db)
	policies := repository.NewPolicyRepository(db)
	svc := whatsapp.NewCloudService(cloudapi.NewClient(srv.URL, "tok", "123"), whatsapprepo.NewMessageRepository(db))
	h := NewClientHandler(usecase.NewClientUsecase(clients, policies), usecase.NewPolicyUsecase(clients, policies), svc)

	r := gin.New()
	r.GET("/api/clients", h.ListClients)
	r.POST("/api/clients", h.CreateClient)
	r.GET("/api/clients/:id", h.GetClient)
	r.PUT("/api/clients/:id", h.UpdateClient)
	r.POST("/api/clients/:id/whatsapp", h.SendWhatsApp)
	r.GET("/api/clients/:id/policies", h.ListPolicies)
	r.POST("/api/clients/:id/policies", h.CreatePolicy)
	r.GET("/api/policies/:id", h.GetPolicy)
	r.PUT("/api/policies/:id", h.UpdatePolicy)
	return r, db
}

func okProvider(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.C1"}]}`))
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createClient(t *testing.T, r *gin.Engine, body string) domain.Client {
	t.Helper()
	w := do(r, http.MethodPost, "/api/clients", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var c domain.Client
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	return c
}

func TestClientCRUD(t *testing.T) {
	r, _ := newRouter(t, okProvider)

	w := do(r, http.MethodPost, "/api/clients", `{"email":"not-an-email","state":"SAO"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var invalid struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invalid))
	assert.Contains(t, invalid.Errors, "name")
	assert.Contains(t, invalid.Errors, "email")
	assert.Contains(t, invalid.Errors, "state")

	c := createClient(t, r, `{"name":"Ana Souza","email":"ana@example.com","status":"prospect"}`)
	assert.Equal(t, domain.ClientStatusProspect, c.Status)

	w = do(r, http.MethodPut, fmt.Sprintf("/api/clients/%d", c.ID), `{"name":"Ana S. Souza","status":"active"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodGet, fmt.Sprintf("/api/clients/%d", c.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ana S. Souza")

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/clients/999", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/clients/abc", "").Code)
}

func TestListClients(t *testing.T) {
	r, _ := newRouter(t, okProvider)
	createClient(t, r, `{"name":"João Conceição"}`)
	createClient(t, r, `{"name":"Bruno Lima","status":"inactive"}`)

	w := do(r, http.MethodGet, "/api/clients?search=conceicao", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Clients []domain.Client `json:"clients"`
		Total   int             `json:"total"`
		Fuzzy   bool            `json:"fuzzy"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Fuzzy)
	require.NotEmpty(t, resp.Clients)
	assert.Equal(t, "João Conceição", resp.Clients[0].Name)

	w = do(r, http.MethodGet, "/api/clients?status=inactive", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bruno Lima")
	assert.NotContains(t, w.Body.String(), "Conceição")

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/clients?status=vip", "").Code)
}

func TestPolicyEndpoints(t *testing.T) {
	r, _ := newRouter(t, okProvider)
	c := createClient(t, r, `{"name":"Ana"}`)
	base := fmt.Sprintf("/api/clients/%d/policies", c.ID)
	body := `{"policy_number":"AP-1","insurance_company":"Allianz","insurance_type":"auto","premium_amount":900,"start_date":"2025-01-01","end_date":"2026-01-01"}`

	w := do(r, http.MethodPost, base, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p domain.Policy
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))

	w = do(r, http.MethodPost, base, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "policy_number")

	w = do(r, http.MethodPost, base, `{"policy_number":"AP-2","insurance_company":"Allianz","insurance_type":"auto","premium_amount":900,"start_date":"2025-01-01","end_date":"2024-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "end_date")

	w = do(r, http.MethodPost, "/api/clients/999/policies", body)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []domain.Policy
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = do(r, http.MethodPut, fmt.Sprintf("/api/policies/%d", p.ID),
		`{"policy_number":"AP-1","insurance_company":"Allianz","insurance_type":"auto","premium_amount":950,"start_date":"2025-01-01","end_date":"2026-01-01","status":"cancelled"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"cancelled"`)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/policies/999", "").Code)
}

func TestSendWhatsApp(t *testing.T) {
	var to string
	r, db := newRouter(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		to, _ = body["to"].(string)
		okProvider(w, r)
	})

	withWhatsApp := createClient(t, r, `{"name":"Ana","phone":"1133334444","whatsapp":"11987654321"}`)
	noPhone := createClient(t, r, `{"name":"Bruno"}`)

	w := do(r, http.MethodPost, fmt.Sprintf("/api/clients/%d/whatsapp", withWhatsApp.ID), `{"message":"Sua apólice vence em breve"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "5511987654321", to)

	var msgs []whatsappdomain.Message
	require.NoError(t, db.Find(&msgs).Error)
	require.Len(t, msgs, 1)
	require.NotNil(t, msgs[0].ClientID)
	assert.Equal(t, withWhatsApp.ID, *msgs[0].ClientID)

	w = do(r, http.MethodPost, fmt.Sprintf("/api/clients/%d/whatsapp", noPhone.ID), `{"message":"oi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, fmt.Sprintf("/api/clients/%d/whatsapp", withWhatsApp.ID), `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/clients/999/whatsapp", `{"message":"oi"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendWhatsApp_PhoneWithoutDigits(t *testing.T) {
	r, db := newRouter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Fail(t, "provider must not be called")
	})
	c := createClient(t, r, `{"name":"Carla","phone":"ramal interno"}`)

	w := do(r, http.MethodPost, fmt.Sprintf("/api/clients/%d/whatsapp", c.ID), `{"message":"oi"}`)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var resp struct {
		Success bool                `json:"success"`
		Errors  map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, []string{whatsappdomain.ErrInvalidPhone.Error()}, resp.Errors["phone"])

	var n int64
	require.NoError(t, db.Model(&whatsappdomain.Message{}).Count(&n).Error)
	assert.Zero(t, n)
}

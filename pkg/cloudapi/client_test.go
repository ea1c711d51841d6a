package cloudapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/123/messages", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "whatsapp", body["messaging_product"])
		assert.Equal(t, "5511987654321", body["to"])
		assert.Equal(t, "text", body["type"])
		assert.Equal(t, "oi", body["text"].(map[string]interface{})["body"])

		_, _ = w.Write([]byte(`{"messaging_product":"whatsapp","messages":[{"id":"wamid.ABC"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", "123")
	resp, err := c.SendText(context.Background(), "5511987654321", "oi")
	require.NoError(t, err)
	assert.Equal(t, "wamid.ABC", resp.MessageID())
}

func TestSendText_GraphError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid parameter","code":100}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", "123")
	_, err := c.SendText(context.Background(), "55", "oi")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid parameter", apiErr.Message)
}

func TestPhoneNumber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/123", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"123","verified_name":"Corretora","quality_rating":"GREEN"}`))
	}))
	defer srv.Close()

	info, err := NewClient(srv.URL, "tok", "123").PhoneNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Corretora", info.VerifiedName)
	assert.Equal(t, "GREEN", info.QualityRating)
}

func TestParseWebhook(t *testing.T) {
	body := []byte(`{
	  "object": "whatsapp_business_account",
	  "entry": [{"id": "1", "changes": [{"field": "messages", "value": {
	    "messaging_product": "whatsapp",
	    "messages": [
	      {"from": "5511987654321", "id": "wamid.1", "timestamp": "1700000000", "type": "text", "text": {"body": "Olá"}},
	      {"from": "5511987654321", "id": "wamid.2", "timestamp": "bad", "type": "image", "image": {"caption": ""}}
	    ]
	  }}]}]
	}`)

	payload, err := ParseWebhook(body)
	require.NoError(t, err)

	msgs := payload.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Olá", msgs[0].Text.Body)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), msgs[0].Time())
	assert.NotNil(t, msgs[1].Image)
	assert.True(t, msgs[1].Time().IsZero())
}

func TestWebhookMessages_Empty(t *testing.T) {
	payload, err := ParseWebhook([]byte(`{"object":"whatsapp_business_account","entry":[]}`))
	require.NoError(t, err)
	assert.Nil(t, payload.Messages())

	_, err = ParseWebhook([]byte(`not json`))
	assert.Error(t, err)
}

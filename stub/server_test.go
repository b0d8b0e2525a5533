package stub

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labprobe/models"
)

func post(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func TestServer_DuplicateAddressConflicts(t *testing.T) {
	server := httptest.NewServer(New(Options{}).Engine())
	defer server.Close()

	addr := map[string]string{"user_id": "u1", "name": "Home", "lat": "17.4", "lng": "78.4"}

	first := post(t, server.URL+"/address/addAddress", addr)
	assert.Equal(t, http.StatusOK, first.StatusCode)
	first.Body.Close()

	second := post(t, server.URL+"/address/addAddress", addr)
	assert.Equal(t, http.StatusConflict, second.StatusCode)
	second.Body.Close()
}

func TestServer_CartBindsPostedLines(t *testing.T) {
	opts := Options{Catalog: []models.CatalogItem{{
		ProductID:      "p1",
		TestName:       "CBC",
		Price:          models.NewFlexInt(800),
		HomeCollection: models.FlexBool(true),
	}}}
	server := httptest.NewServer(New(opts).Engine())
	defer server.Close()

	added := post(t, server.URL+"/carts/v2/addCart", map[string]interface{}{
		"user_id": "u1",
		"product_details": []map[string]interface{}{
			{"product_id": "p1", "quantity": 1},
		},
	})
	require.Equal(t, http.StatusOK, added.StatusCode)
	added.Body.Close()

	resp, err := http.Get(server.URL + "/carts/v2/getCartById/u1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env struct {
		Data struct {
			TotalPrice int `json:"totalPrice"`
			Lines      []struct {
				ProductID string `json:"product_id"`
				Price     int    `json:"price"`
				Quantity  int    `json:"quantity"`
			} `json:"product_details"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.Len(t, env.Data.Lines, 1)
	assert.Equal(t, "p1", env.Data.Lines[0].ProductID)
	assert.Equal(t, 800, env.Data.Lines[0].Price)
	assert.Equal(t, 1, env.Data.Lines[0].Quantity)
	assert.Equal(t, 1050, env.Data.TotalPrice)
}

func TestServer_TrackingRejectsRegression(t *testing.T) {
	opts := Options{Catalog: []models.CatalogItem{{
		ProductID:      "p1",
		TestName:       "CBC",
		Price:          models.NewFlexInt(800),
		HomeCollection: models.FlexBool(true),
	}}}
	server := httptest.NewServer(New(opts).Engine())
	defer server.Close()

	created := post(t, server.URL+"/gateway/v2/CreateOrder", map[string]interface{}{"user_id": "u1", "amount": 800})
	require.Equal(t, http.StatusOK, created.StatusCode)
	var env struct {
		Data struct {
			OrderGUID string `json:"order_guid"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(created.Body).Decode(&env))
	created.Body.Close()
	require.NotEmpty(t, env.Data.OrderGUID)

	forward := post(t, server.URL+"/order_tracking/updateOrderTracking",
		map[string]string{"order_guid": env.Data.OrderGUID, "status": "inprogress"})
	assert.Equal(t, http.StatusOK, forward.StatusCode)
	forward.Body.Close()

	backward := post(t, server.URL+"/order_tracking/updateOrderTracking",
		map[string]string{"order_guid": env.Data.OrderGUID, "status": "created"})
	assert.Equal(t, http.StatusBadRequest, backward.StatusCode)
	backward.Body.Close()
}

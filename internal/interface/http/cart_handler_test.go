package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type cartResponse struct {
	Lines []struct {
		Product struct {
			Id   string `json:"productId"`
			Name string `json:"name"`
		} `json:"product"`
		Quantity int     `json:"quantity"`
		Subtotal float64 `json:"subtotal"`
	} `json:"lines"`
	ItemCount int     `json:"itemCount"`
	Total     float64 `json:"total"`
}

func createSession(t *testing.T, api *API) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/session", nil)
	rec := doRequest(api, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotEmpty(t, payload["token"])
	return payload["token"]
}

func authedRequest(method, target, token string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartResponse {
	t.Helper()
	var cart cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	return cart
}

func TestCartRoutes_RequireSession(t *testing.T) {
	api := newTestAPI(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me/cart", nil)
	rec := doRequest(api, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/me/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = doRequest(api, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetCart_StartsEmpty(t *testing.T) {
	api := newTestAPI(nil, nil)
	token := createSession(t, api)

	rec := doRequest(api, authedRequest(http.MethodGet, "/api/v1/me/cart", token, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	cart := decodeCart(t, rec)
	require.Empty(t, cart.Lines)
	require.Zero(t, cart.ItemCount)
	require.Zero(t, cart.Total)
}

func TestAddCartItem_AccumulatesQuantity(t *testing.T) {
	api := newTestAPI(nil, nil)
	token := createSession(t, api)

	body := map[string]string{"product_id": "1"}
	rec := doRequest(api, authedRequest(http.MethodPost, "/api/v1/me/cart/items", token, body))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(api, authedRequest(http.MethodPost, "/api/v1/me/cart/items", token, body))
	require.Equal(t, http.StatusCreated, rec.Code)

	cart := decodeCart(t, rec)
	require.Len(t, cart.Lines, 1)
	require.Equal(t, 2, cart.Lines[0].Quantity)
	require.Equal(t, 2, cart.ItemCount)
	require.InDelta(t, 399.98, cart.Total, 1e-9)
}

func TestAddCartItem_UnknownProduct(t *testing.T) {
	api := newTestAPI(nil, nil)
	token := createSession(t, api)

	body := map[string]string{"product_id": "999"}
	rec := doRequest(api, authedRequest(http.MethodPost, "/api/v1/me/cart/items", token, body))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddCartItem_OutOfStockRejected(t *testing.T) {
	api := newTestAPI(nil, nil)
	token := createSession(t, api)

	// Product 4 is out of stock; the handler refuses it even though the
	// store itself would accept it.
	body := map[string]string{"product_id": "4"}
	rec := doRequest(api, authedRequest(http.MethodPost, "/api/v1/me/cart/items", token, body))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doRequest(api, authedRequest(http.MethodGet, "/api/v1/me/cart", token, nil))
	require.Zero(t, decodeCart(t, rec).ItemCount)
}

func TestAddCartItem_MissingProductID(t *testing.T) {
	api := newTestAPI(nil, nil)
	token := createSession(t, api)

	rec := doRequest(api, authedRequest(http.MethodPost, "/api/v1/me/cart/items", token, map[string]string{}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCartItem_SetAndRemove(t *testing.T) {
	api := newTestAPI(nil, nil)
	token := createSession(t, api)

	doRequest(api, authedRequest(http.MethodPost, "/api/v1/me/cart/items", token, map[string]string{"product_id": "1"}))

	rec := doRequest(api, authedRequest(http.MethodPut, "/api/v1/me/cart/items/1", token, map[string]int{"quantity": 5}))
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeCart(t, rec)
	require.Equal(t, 5, cart.ItemCount)

	// Zero removes the line.
	rec = doRequest(api, authedRequest(http.MethodPut, "/api/v1/me/cart/items/1", token, map[string]int{"quantity": 0}))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeCart(t, rec).Lines)
}

func TestUpdateCartItem_UnknownProductIsNoOp(t *testing.T) {
	api := newTestAPI(nil, nil)
	token := createSession(t, api)

	rec := doRequest(api, authedRequest(http.MethodPut, "/api/v1/me/cart/items/999", token, map[string]int{"quantity": 3}))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeCart(t, rec).Lines)
}

func TestRemoveCartItem(t *testing.T) {
	api := newTestAPI(nil, nil)
	token := createSession(t, api)

	doRequest(api, authedRequest(http.MethodPost, "/api/v1/me/cart/items", token, map[string]string{"product_id": "1"}))
	doRequest(api, authedRequest(http.MethodPost, "/api/v1/me/cart/items", token, map[string]string{"product_id": "2"}))

	rec := doRequest(api, authedRequest(http.MethodDelete, "/api/v1/me/cart/items/1", token, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	cart := decodeCart(t, rec)
	require.Len(t, cart.Lines, 1)
	require.Equal(t, "2", cart.Lines[0].Product.Id)

	// Removing an absent line is a silent no-op.
	rec = doRequest(api, authedRequest(http.MethodDelete, "/api/v1/me/cart/items/1", token, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeCart(t, rec).Lines, 1)
}

func TestClearCart(t *testing.T) {
	api := newTestAPI(nil, nil)
	token := createSession(t, api)

	doRequest(api, authedRequest(http.MethodPost, "/api/v1/me/cart/items", token, map[string]string{"product_id": "1"}))

	rec := doRequest(api, authedRequest(http.MethodDelete, "/api/v1/me/cart", token, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	cart := decodeCart(t, rec)
	require.Empty(t, cart.Lines)
	require.Zero(t, cart.ItemCount)
	require.Zero(t, cart.Total)
}

func TestCarts_AreSessionScoped(t *testing.T) {
	api := newTestAPI(nil, nil)
	first := createSession(t, api)
	second := createSession(t, api)

	doRequest(api, authedRequest(http.MethodPost, "/api/v1/me/cart/items", first, map[string]string{"product_id": "1"}))

	rec := doRequest(api, authedRequest(http.MethodGet, "/api/v1/me/cart", second, nil))
	require.Zero(t, decodeCart(t, rec).ItemCount)

	rec = doRequest(api, authedRequest(http.MethodGet, "/api/v1/me/cart", first, nil))
	require.Equal(t, 1, decodeCart(t, rec).ItemCount)
}

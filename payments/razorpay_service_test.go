package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *RazorpayClient {
	return &RazorpayClient{
		KeyID:      "rzp_test_key",
		KeySecret:  "rzp_test_secret",
		BaseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "rzp_test_secret", pass)

		var req createOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(50000), req.Amount)
		assert.Equal(t, "INR", req.Currency)
		assert.Equal(t, 1, req.PaymentCapture)

		json.NewEncoder(w).Encode(RazorpayOrder{
			ID:       "order_test123",
			Amount:   req.Amount,
			Currency: req.Currency,
			Status:   "created",
		})
	}))
	defer server.Close()

	order, err := testClient(server.URL).CreateOrder(50000, "INR")
	require.NoError(t, err)
	assert.Equal(t, "order_test123", order.ID)
	assert.Equal(t, int64(50000), order.Amount)
}

func TestCreateOrderGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := testClient(server.URL).CreateOrder(50000, "INR")
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestCreateOrderGatewayUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := testClient(server.URL).CreateOrder(50000, "INR")
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestFetchOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/orders/order_test123", r.URL.Path)

		json.NewEncoder(w).Encode(RazorpayOrder{
			ID:       "order_test123",
			Amount:   75000,
			Currency: "INR",
			Status:   "paid",
		})
	}))
	defer server.Close()

	order, err := testClient(server.URL).FetchOrder("order_test123")
	require.NoError(t, err)
	assert.Equal(t, int64(75000), order.Amount)
	assert.Equal(t, "paid", order.Status)
}

func TestVerifySignature(t *testing.T) {
	client := testClient("")

	mac := hmac.New(sha256.New, []byte("rzp_test_secret"))
	mac.Write([]byte("order_abc|pay_abc"))
	good := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.VerifySignature("order_abc", "pay_abc", good))
	assert.False(t, client.VerifySignature("order_abc", "pay_abc", "deadbeef"))
	assert.False(t, client.VerifySignature("order_abc", "pay_other", good))
	assert.False(t, client.VerifySignature("order_abc", "pay_abc", ""))
}

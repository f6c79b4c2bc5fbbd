package payments

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	config "github.com/menttalk/mentor_marketplace/configs"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

// ErrGatewayUnavailable wraps transport and non-2xx failures from Razorpay so
// callers can keep the booking alive and let the unpaid-expiry sweep clean up.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

type RazorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type createOrderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	PaymentCapture int    `json:"payment_capture"`
}

type RazorpayClient struct {
	KeyID     string
	KeySecret string
	BaseURL   string

	httpClient *http.Client
}

func NewRazorpayClient() *RazorpayClient {
	return &RazorpayClient{
		KeyID:      config.Config("RAZORPAY_KEY_ID"),
		KeySecret:  config.Config("RAZORPAY_KEY_SECRET"),
		BaseURL:    razorpayBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateOrder opens a Razorpay order for the given amount in minor units
// (paise) with automatic capture enabled.
func (c *RazorpayClient) CreateOrder(amountPaise int64, currency string) (*RazorpayOrder, error) {
	payload := createOrderRequest{
		Amount:         amountPaise,
		Currency:       currency,
		PaymentCapture: 1,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order payload: %v", err)
	}

	req, err := http.NewRequest("POST", c.BaseURL+"/orders", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create order request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.KeyID, c.KeySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read order response: %v", ErrGatewayUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("Razorpay API error: %s", string(respBody))
		return nil, fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	var order RazorpayOrder
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal order response: %v", ErrGatewayUnavailable, err)
	}
	return &order, nil
}

// FetchOrder retrieves an order by id, used to read back the authoritative
// amount when confirming wallet top-ups.
func (c *RazorpayClient) FetchOrder(orderID string) (*RazorpayOrder, error) {
	req, err := http.NewRequest("GET", c.BaseURL+"/orders/"+orderID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch request: %v", err)
	}
	req.SetBasicAuth(c.KeyID, c.KeySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read fetch response: %v", ErrGatewayUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("Razorpay API error: %s", string(respBody))
		return nil, fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	var order RazorpayOrder
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal fetch response: %v", ErrGatewayUnavailable, err)
	}
	return &order, nil
}

// VerifySignature checks the checkout callback signature: HMAC-SHA256 of
// "order_id|payment_id" keyed with the secret, hex encoded.
func (c *RazorpayClient) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

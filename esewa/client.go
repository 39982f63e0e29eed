package esewa

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// StatusComplete is the gateway's terminal success state; other values
// (PENDING, CANCELED, FULL_REFUND, NOT_FOUND) are stored as reported.
const StatusComplete = "COMPLETE"

var ErrGateway = errors.New("payment gateway error")

type Config struct {
	MerchantID string
	Secret     string
	PaymentURL string
	StatusURL  string
	SuccessURL string
	FailureURL string
}

func ConfigFromEnv() (Config, error) {
	cfg := Config{
		MerchantID: os.Getenv("ESEWA_MERCHANT_ID"),
		Secret:     os.Getenv("ESEWA_SECRET"),
		PaymentURL: os.Getenv("ESEWA_PAYMENT_URL"),
		StatusURL:  os.Getenv("ESEWA_STATUS_URL"),
		SuccessURL: os.Getenv("ESEWA_SUCCESS_URL"),
		FailureURL: os.Getenv("ESEWA_FAILURE_URL"),
	}
	if cfg.MerchantID == "" || cfg.Secret == "" || cfg.PaymentURL == "" || cfg.StatusURL == "" {
		return Config{}, fmt.Errorf("esewa configuration missing")
	}
	return cfg, nil
}

// Client talks to the eSewa ePay endpoints. Both calls are synchronous HTTP
// to a third party; callers must expect latency and transient failure.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: 15 * time.Second,
			// The payment endpoint answers with a redirect to the hosted
			// payment page; the Location header is the result, not a hop.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// sign produces the base64 HMAC-SHA256 signature over the signed-field list
// the gateway expects.
func (c *Client) sign(totalAmount, transactionUUID string) string {
	payload := fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s",
		totalAmount, transactionUUID, c.cfg.MerchantID)
	h := hmac.New(sha256.New, []byte(c.cfg.Secret))
	h.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// Initiate requests a payment session for the given amount and order
// reference. On acceptance it returns the URL the customer is redirected to;
// any other outcome is an ErrGateway with no side effects.
func (c *Client) Initiate(ctx context.Context, amount float64, orderRef string) (string, error) {
	totalAmount := formatAmount(amount)

	form := url.Values{}
	form.Set("amount", totalAmount)
	form.Set("tax_amount", "0")
	form.Set("product_service_charge", "0")
	form.Set("product_delivery_charge", "0")
	form.Set("total_amount", totalAmount)
	form.Set("transaction_uuid", orderRef)
	form.Set("product_code", c.cfg.MerchantID)
	form.Set("success_url", c.cfg.SuccessURL)
	form.Set("failure_url", c.cfg.FailureURL)
	form.Set("signed_field_names", "total_amount,transaction_uuid,product_code")
	form.Set("signature", c.sign(totalAmount, orderRef))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.PaymentURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		loc := resp.Header.Get("Location")
		if loc == "" {
			return "", fmt.Errorf("%w: redirect without location", ErrGateway)
		}
		return loc, nil
	case resp.StatusCode == http.StatusOK:
		var body struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.URL == "" {
			return "", fmt.Errorf("%w: unexpected initiate response", ErrGateway)
		}
		return body.URL, nil
	default:
		return "", fmt.Errorf("%w: initiate returned %d", ErrGateway, resp.StatusCode)
	}
}

// StatusResult is the gateway's view of one transaction.
type StatusResult struct {
	Status string `json:"status"`
	RefID  string `json:"ref_id"`
}

// CheckStatus polls the gateway for the current state of an order reference.
func (c *Client) CheckStatus(ctx context.Context, amount float64, orderRef string) (*StatusResult, error) {
	q := url.Values{}
	q.Set("product_code", c.cfg.MerchantID)
	q.Set("total_amount", formatAmount(amount))
	q.Set("transaction_uuid", orderRef)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.StatusURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status check returned %d", ErrGateway, resp.StatusCode)
	}

	var result StatusResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: malformed status response", ErrGateway)
	}
	if result.Status == "" {
		return nil, fmt.Errorf("%w: empty status", ErrGateway)
	}
	return &result, nil
}

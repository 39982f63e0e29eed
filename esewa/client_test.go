package esewa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(paymentURL, statusURL string) Config {
	return Config{
		MerchantID: "EPAYTEST",
		Secret:     "8gBm/:&EnhH.1/q",
		PaymentURL: paymentURL,
		StatusURL:  statusURL,
		SuccessURL: "http://localhost:5173/payment/success",
		FailureURL: "http://localhost:5173/payment/failure",
	}
}

func TestInitiateFollowsRedirect(t *testing.T) {
	var gotForm map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"total_amount":     r.PostFormValue("total_amount"),
			"transaction_uuid": r.PostFormValue("transaction_uuid"),
			"product_code":     r.PostFormValue("product_code"),
			"signature":        r.PostFormValue("signature"),
		}
		http.Redirect(w, r, "https://pay.example/session/abc", http.StatusFound)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, srv.URL))

	redirect, err := client.Initiate(context.Background(), 760, "TXN-1")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/session/abc", redirect)

	assert.Equal(t, "760", gotForm["total_amount"])
	assert.Equal(t, "TXN-1", gotForm["transaction_uuid"])
	assert.Equal(t, "EPAYTEST", gotForm["product_code"])
	assert.NotEmpty(t, gotForm["signature"])
}

func TestInitiateAcceptsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"url":"https://pay.example/session/json"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, srv.URL))

	redirect, err := client.Initiate(context.Background(), 100.5, "TXN-2")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/session/json", redirect)
}

func TestInitiateGatewayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, srv.URL))

	_, err := client.Initiate(context.Background(), 100, "TXN-3")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGateway)
}

func TestCheckStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "EPAYTEST", r.URL.Query().Get("product_code"))
		assert.Equal(t, "TXN-4", r.URL.Query().Get("transaction_uuid"))
		assert.Equal(t, "450", r.URL.Query().Get("total_amount"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"COMPLETE","ref_id":"0001TX"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, srv.URL))

	result, err := client.CheckStatus(context.Background(), 450, "TXN-4")
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, result.Status)
	assert.Equal(t, "0001TX", result.RefID)
}

func TestCheckStatusMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, srv.URL))

	_, err := client.CheckStatus(context.Background(), 100, "TXN-5")
	assert.ErrorIs(t, err, ErrGateway)
}

func TestCheckStatusGatewayDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, srv.URL))

	_, err := client.CheckStatus(context.Background(), 100, "TXN-6")
	assert.ErrorIs(t, err, ErrGateway)
}

func TestSignatureIsDeterministic(t *testing.T) {
	client := NewClient(testConfig("http://x", "http://x"))
	assert.Equal(t, client.sign("100", "TXN-1"), client.sign("100", "TXN-1"))
	assert.NotEqual(t, client.sign("100", "TXN-1"), client.sign("100", "TXN-2"))
}

func TestConfigFromEnvMissing(t *testing.T) {
	t.Setenv("ESEWA_MERCHANT_ID", "")
	t.Setenv("ESEWA_SECRET", "")
	t.Setenv("ESEWA_PAYMENT_URL", "")
	t.Setenv("ESEWA_STATUS_URL", "")
	_, err := ConfigFromEnv()
	assert.Error(t, err)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ESEWA_MERCHANT_ID", "EPAYTEST")
	t.Setenv("ESEWA_SECRET", "secret")
	t.Setenv("ESEWA_PAYMENT_URL", "https://rc-epay.esewa.com.np/api/epay/main/v2/form")
	t.Setenv("ESEWA_STATUS_URL", "https://rc.esewa.com.np/api/epay/transaction/status/")
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "EPAYTEST", cfg.MerchantID)
}

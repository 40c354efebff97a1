package libs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookstore/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentClient_CreatePaymentIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		assert.Equal(t, "checkout-1", r.Header.Get("Idempotency-Key"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "2599", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "pm_card", r.PostForm.Get("payment_method"))
		assert.Equal(t, "42", r.PostForm.Get("metadata[user_id]"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":            "pi_123",
			"amount":        2599,
			"currency":      "usd",
			"status":        "requires_confirmation",
			"client_secret": "pi_123_secret",
		})
	}))
	defer srv.Close()

	client := NewPaymentClient(srv.URL+"/", "sk_test")
	intent, err := client.CreatePaymentIntent(context.Background(), models.CreatePaymentIntentParams{
		Amount:         2599,
		Currency:       "USD",
		PaymentMethod:  "pm_card",
		IdempotencyKey: "checkout-1",
		Metadata:       map[string]string{"user_id": "42"},
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, 2599, intent.Amount)
	assert.Equal(t, models.IntentRequiresConfirmation, intent.Status)
	assert.Equal(t, "pi_123_secret", intent.ClientSecret)
}

func TestPaymentClient_ProcessorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
	}))
	defer srv.Close()

	client := NewPaymentClient(srv.URL, "sk_test")
	_, err := client.GetPaymentIntent(context.Background(), "pi_123")

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrPaymentGateway)
	assert.Contains(t, err.Error(), "card_declined")
}

func TestPaymentClient_CancelPaymentIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents/pi_9/cancel", r.URL.Path)
		w.Write([]byte(`{"id":"pi_9","amount":100,"currency":"usd","status":"canceled"}`))
	}))
	defer srv.Close()

	intent, err := NewPaymentClient(srv.URL, "sk").CancelPaymentIntent(context.Background(), "pi_9")
	require.NoError(t, err)
	assert.Equal(t, models.IntentCanceled, intent.Status)
}

func TestSandboxGateway_IdempotentCreate(t *testing.T) {
	g := NewSandboxGateway()
	ctx := context.Background()
	params := models.CreatePaymentIntentParams{Amount: 1000, Currency: "usd", IdempotencyKey: "k1"}

	first, err := g.CreatePaymentIntent(ctx, params)
	require.NoError(t, err)
	second, err := g.CreatePaymentIntent(ctx, params)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.IntentSucceeded, first.Status)

	canceled, err := g.CancelPaymentIntent(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IntentCanceled, canceled.Status)

	_, err = g.GetPaymentIntent(ctx, "pi_missing")
	assert.ErrorIs(t, err, models.ErrPaymentGateway)
}

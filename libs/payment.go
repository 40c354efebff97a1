package libs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bookstore/models"
)

// PaymentClient talks to the payment processor's payment-intent REST API.
type PaymentClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewPaymentClient(baseURL, secretKey string) *PaymentClient {
	return &PaymentClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type processorError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *PaymentClient) CreatePaymentIntent(ctx context.Context, params models.CreatePaymentIntentParams) (*models.PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.Itoa(params.Amount))
	form.Set("currency", strings.ToLower(params.Currency))
	if params.PaymentMethod != "" {
		form.Set("payment_method", params.PaymentMethod)
	} else {
		form.Set("automatic_payment_methods[enabled]", "true")
	}
	if params.CustomerEmail != "" {
		form.Set("receipt_email", params.CustomerEmail)
	}
	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	return c.do(ctx, http.MethodPost, "/v1/payment_intents", form, params.IdempotencyKey)
}

func (c *PaymentClient) GetPaymentIntent(ctx context.Context, id string) (*models.PaymentIntent, error) {
	return c.do(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(id), nil, "")
}

func (c *PaymentClient) CancelPaymentIntent(ctx context.Context, id string) (*models.PaymentIntent, error) {
	return c.do(ctx, http.MethodPost, "/v1/payment_intents/"+url.PathEscape(id)+"/cancel", url.Values{}, "")
}

func (c *PaymentClient) do(ctx context.Context, method, path string, form url.Values, idempotencyKey string) (*models.PaymentIntent, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrPaymentGateway, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", models.ErrPaymentGateway, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var perr processorError
		if json.Unmarshal(data, &perr) == nil && perr.Error.Message != "" {
			return nil, fmt.Errorf("%w: %s (%s)", models.ErrPaymentGateway, perr.Error.Message, perr.Error.Code)
		}
		return nil, fmt.Errorf("%w: status %d", models.ErrPaymentGateway, resp.StatusCode)
	}

	var intent models.PaymentIntent
	if err := json.Unmarshal(data, &intent); err != nil {
		return nil, fmt.Errorf("%w: decode intent: %v", models.ErrPaymentGateway, err)
	}
	return &intent, nil
}

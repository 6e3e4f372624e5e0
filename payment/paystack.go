package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/config"
)

// VerifiedPayment is the gateway's answer for one reference. Amounts come
// back in kobo and are converted to naira here.
type VerifiedPayment struct {
	Reference     string
	Success       bool
	Amount        float64
	Currency      string
	TransactionID string
}

// Verifier is the payment gateway collaborator. The client-supplied
// "payment succeeded" flag is never trusted; every confirmation goes
// through Verify.
type Verifier interface {
	Verify(ctx context.Context, reference string) (*VerifiedPayment, error)
}

// PaystackClient verifies transactions against the Paystack API.
type PaystackClient struct {
	baseURL string
	secret  string
	http    *http.Client
}

func NewPaystackClient(cfg *config.Config) *PaystackClient {
	return &PaystackClient{
		baseURL: cfg.PaystackBaseURL,
		secret:  cfg.PaystackSecretKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type paystackVerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		ID        int64   `json:"id"`
		Status    string  `json:"status"`
		Reference string  `json:"reference"`
		Amount    float64 `json:"amount"`
		Currency  string  `json:"currency"`
	} `json:"data"`
}

func (p *PaystackClient) Verify(ctx context.Context, reference string) (*VerifiedPayment, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", p.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack verify: %w", err)
	}
	defer resp.Body.Close()

	var body paystackVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("paystack verify: decode: %w", err)
	}
	if !body.Status {
		return nil, fmt.Errorf("paystack verify: %s", body.Message)
	}

	return &VerifiedPayment{
		Reference:     body.Data.Reference,
		Success:       body.Data.Status == "success",
		Amount:        body.Data.Amount / 100, // kobo → naira
		Currency:      body.Data.Currency,
		TransactionID: fmt.Sprintf("%d", body.Data.ID),
	}, nil
}

package phonepe

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/skota27/bus_booking/internal/core/domain"
	"github.com/tidwall/gjson"
)

const payPath = "/pg/v1/pay"

type Config struct {
	MerchantID  string
	SaltKey     string
	SaltIndex   string
	BaseURL     string
	RedirectURL string
	CallbackURL string
}

// Client is a stateless translation layer to the PhonePe pay-page API. Every
// request body is base64-encoded and signed into the X-VERIFY header with
// the merchant salt.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) checksum(message string) string {
	sum := sha256.Sum256([]byte(message))
	return hex.EncodeToString(sum[:]) + "###" + c.cfg.SaltIndex
}

func (c *Client) Initiate(ctx context.Context, requesterID, transactionID string, amount float64) (string, error) {
	payload := map[string]any{
		"merchantId":            c.cfg.MerchantID,
		"merchantTransactionId": transactionID,
		"merchantUserId":        requesterID,
		"amount":                int64(amount * 100),
		"redirectUrl":           fmt.Sprintf("%s/%s", c.cfg.RedirectURL, transactionID),
		"redirectMode":          "REDIRECT",
		"paymentInstrument":     map[string]string{"type": "PAY_PAGE"},
		"callbackUrl":           c.cfg.CallbackURL,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", &domain.GatewayError{Op: "initiate", Err: err}
	}

	encoded := base64.StdEncoding.EncodeToString(raw)

	body, err := json.Marshal(map[string]string{"request": encoded})
	if err != nil {
		return "", &domain.GatewayError{Op: "initiate", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+payPath, bytes.NewReader(body))
	if err != nil {
		return "", &domain.GatewayError{Op: "initiate", Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-VERIFY", c.checksum(encoded+payPath+c.cfg.SaltKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.GatewayError{Op: "initiate", Err: err}
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.GatewayError{Op: "initiate", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &domain.GatewayError{Op: "initiate", Err: fmt.Errorf("provider returned status %d", resp.StatusCode)}
	}

	result := gjson.ParseBytes(respBody)
	if !result.Get("success").Bool() {
		msg := result.Get("message").String()
		if msg == "" {
			msg = "payment initiation rejected"
		}

		return "", &domain.GatewayError{Op: "initiate", Err: errors.New(msg)}
	}

	redirectURL := result.Get("data.instrumentResponse.redirectInfo.url").String()
	if redirectURL == "" {
		return "", &domain.GatewayError{Op: "initiate", Err: errors.New("provider response missing redirect url")}
	}

	return redirectURL, nil
}

func (c *Client) CheckStatus(ctx context.Context, transactionID string) (domain.PaymentVerdict, error) {
	statusPath := fmt.Sprintf("/pg/v1/status/%s/%s", c.cfg.MerchantID, transactionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+statusPath, nil)
	if err != nil {
		return "", &domain.GatewayError{Op: "status", Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-VERIFY", c.checksum(statusPath+c.cfg.SaltKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.GatewayError{Op: "status", Err: err}
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.GatewayError{Op: "status", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &domain.GatewayError{Op: "status", Err: fmt.Errorf("provider returned status %d", resp.StatusCode)}
	}

	code := gjson.GetBytes(respBody, "code").String()

	return domain.ClassifyReportedStatus(code), nil
}

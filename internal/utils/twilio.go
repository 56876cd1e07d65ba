package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// TwilioClient — SMS via the Twilio Messages API (form POST + basic auth).
type TwilioClient struct {
	AccountSID string
	AuthToken  string
	From       string // sending phone number
	DryRun     bool   // dry-run режим: лог вместо HTTP
	baseURL    string
	client     *http.Client
}

type twilioMessageResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewTwilioClient(accountSID, authToken, from string, dryRun bool) *TwilioClient {
	return &TwilioClient{
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		DryRun:     dryRun,
		baseURL:    twilioAPIBase,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

// SendSMS — single send attempt, no retry. The caller surfaces any error to
// the user and gives up on the current verification.
func (c *TwilioClient) SendSMS(ctx context.Context, to, body string) error {
	// DRY-RUN: no HTTP request
	if c.DryRun || c.AccountSID == "" || c.AccountSID == "dry-run" {
		fmt.Printf("📩 [twilio][dry-run] to=%s from=%q body=%q\n", to, c.From, body)
		return nil
	}

	apiURL := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.baseURL, c.AccountSID)
	form := url.Values{
		"To":   {to},
		"From": {c.From},
		"Body": {body},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("twilio request: %w", err)
	}
	req.SetBasicAuth(c.AccountSID, c.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	var result twilioMessageResponse
	_ = json.Unmarshal(respBody, &result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if result.Message != "" {
			return fmt.Errorf("twilio error %d: %s", result.Code, result.Message)
		}
		return fmt.Errorf("twilio http %d: %s", resp.StatusCode, string(respBody))
	}

	fmt.Printf("📤 [twilio] sent to=%s sid=%s status=%s\n", to, result.SID, result.Status)
	return nil
}

package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// KavenegarClient calls the Kavenegar verify/lookup endpoint.
type KavenegarClient struct {
	baseURL  string
	apiKey   string
	template string
	http     *http.Client
}

func NewKavenegarClient(baseURL, apiKey, template string) *KavenegarClient {
	return &KavenegarClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		template: template,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

type kavenegarResponse struct {
	Return struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"return"`
}

func (c *KavenegarClient) SendCode(ctx context.Context, phone, code string) error {
	q := url.Values{}
	q.Set("receptor", phone)
	q.Set("token", code)
	q.Set("template", c.template)
	endpoint := fmt.Sprintf("%s/v1/%s/verify/lookup.json?%s", c.baseURL, url.PathEscape(c.apiKey), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("kavenegar request: %w", err)
	}
	defer resp.Body.Close()

	var body kavenegarResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("kavenegar response (http %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || body.Return.Status != http.StatusOK {
		return fmt.Errorf("kavenegar status %d: %s", body.Return.Status, body.Return.Message)
	}
	return nil
}

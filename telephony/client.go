package telephony

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CallPayload is the provider's call-creation request body.
type CallPayload struct {
	From         string `json:"from"`
	To           string `json:"to"`
	AnswerURL    string `json:"answer_url"`
	AnswerMethod string `json:"answer_method"`
}

// Client talks to the telephony provider's account-scoped REST API.
type Client struct {
	authID    string
	authToken string
	baseURL   string
	http      *http.Client
}

// NewClient builds a provider client. baseURL is the account API root, e.g.
// https://api.example.com/v1/Account.
func NewClient(authID, authToken, baseURL string) *Client {
	return &Client{
		authID:    authID,
		authToken: authToken,
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateCall places an outbound call that will hit answerURL for
// instructions once the callee picks up. Returns the provider's response
// body.
func (c *Client) CreateCall(from, to, answerURL string) (map[string]interface{}, error) {
	payload := CallPayload{
		From:         from,
		To:           to,
		AnswerURL:    answerURL,
		AnswerMethod: "POST",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal call payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/Call/", c.baseURL, c.authID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("create call request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider call request failed: %w", err)
	}
	defer resp.Body.Close()

	var providerResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&providerResp); err != nil {
		providerResp = nil
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("provider returned status %d: %v", resp.StatusCode, providerResp)
	}
	return providerResp, nil
}

// EndCall tells the provider to tear down a live call.
func (c *Client) EndCall(callID string) error {
	url := fmt.Sprintf("%s/%s/Call/%s/", c.baseURL, c.authID, callID)
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("create hangup request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("provider hangup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider returned error status: %s", resp.Status)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-Auth-ID", c.authID)
	req.Header.Set("X-Auth-Token", c.authToken)
	req.Header.Set("Content-Type", "application/json")
}

// Package notify delivers phone notifications through Pushover.
package notify

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const pushoverURL = "https://api.pushover.net/1/messages.json"

// Sink delivers a titled text message to the user's phone. Fire-and-forget:
// callers log failures, nothing retries.
type Sink interface {
	Send(message, title string) error
}

type Pushover struct {
	token    string
	user     string
	endpoint string
	client   *http.Client
}

func NewPushover(token, user string) *Pushover {
	return &Pushover{
		token:    token,
		user:     user,
		endpoint: pushoverURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *Pushover) Send(message, title string) error {
	form := url.Values{}
	form.Set("token", p.token)
	form.Set("user", p.user)
	form.Set("message", message)
	form.Set("title", title)

	resp, err := p.client.PostForm(p.endpoint, form)
	if err != nil {
		return fmt.Errorf("pushover request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("pushover returned error status: %s", resp.Status)
	}
	return nil
}

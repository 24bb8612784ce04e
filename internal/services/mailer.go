package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// Email is an outbound message handed to the mail provider.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers templated emails. Callers block on delivery so that a
// failed send surfaces as a request failure.
type Mailer interface {
	Send(email Email) error
}

// HTTPMailer sends email through an HTTP mail-provider API.
type HTTPMailer struct {
	apiURL string
	apiKey string
	from   string
	client *http.Client
}

// NewHTTPMailer creates a new HTTPMailer.
func NewHTTPMailer(apiURL, apiKey, from string) *HTTPMailer {
	return &HTTPMailer{
		apiURL: apiURL,
		apiKey: apiKey,
		from:   from,
		client: http.DefaultClient,
	}
}

type mailPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Send posts the message to the provider and waits for delivery acceptance.
func (m *HTTPMailer) Send(email Email) error {
	if m.apiKey == "" {
		log.Println("[Mail] API key not configured, dropping message")
		return nil
	}

	payload := mailPayload{
		From:    m.from,
		To:      email.To,
		Subject: email.Subject,
		HTML:    email.HTML,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, m.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		log.Printf("[Mail] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[Mail] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("mail provider returned status %d", resp.StatusCode)
	}

	return nil
}

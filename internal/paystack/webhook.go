package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// SignatureHeader carries the hex HMAC-SHA512 digest of the raw webhook
// body, keyed with the shared secret.
const SignatureHeader = "X-Signature"

// EventChargeSuccess is the only event type that triggers reconciliation;
// all other recognized-or-not types are acknowledged and ignored.
const EventChargeSuccess = "charge.success"

// Signature computes the hex HMAC-SHA512 digest of body under secret.
func Signature(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares the provided digest against the one computed
// over body, in constant time. An empty provided signature never matches.
func VerifySignature(secret string, body []byte, provided string) bool {
	if provided == "" {
		return false
	}
	expected := Signature(secret, body)
	return hmac.Equal([]byte(expected), []byte(provided))
}

// WebhookEvent is the envelope of a provider-initiated event delivery.
// Data retains the raw payload; reconciliation only needs the reference.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// ParseWebhookEvent decodes a verified webhook body.
func ParseWebhookEvent(body []byte) (WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return event, fmt.Errorf("json.Unmarshal: %w", err)
	}
	return event, nil
}

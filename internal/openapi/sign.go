package openapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// authHeaders holds the per-request signing material sent to the vendor API.
type authHeaders struct {
	Authorization string
	Sign          string
	Nonce         string
	Timestamp     string
}

// signRequest produces the vendor's request signature.
//
// The signature is base64(HMAC-SHA256(secret, token + t + nonce)) where t
// is the current time in milliseconds and nonce is a fresh UUID. Each
// request gets its own nonce and timestamp.
//
// Parameters:
//   - token: Account API token (sent verbatim as Authorization)
//   - secret: Account signing secret (never sent on the wire)
//
// Returns:
//   - authHeaders: The four headers to attach to the request
func signRequest(token, secret string) authHeaders {
	t := strconv.FormatInt(time.Now().UnixMilli(), 10)
	nonce := uuid.NewString()

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token + t + nonce))
	sign := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return authHeaders{
		Authorization: token,
		Sign:          sign,
		Nonce:         nonce,
		Timestamp:     t,
	}
}

// verifySignature recomputes a signature from its inputs.
//
// Used in tests to confirm the signing scheme matches the vendor's spec.
func verifySignature(token, secret, t, nonce, sign string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token + t + nonce))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sign))
}

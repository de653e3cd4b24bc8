package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
)

// SignatureHeader carries "t=<unix seconds>,v1=<hex hmac-sha256 of t.body>".
const SignatureHeader = "X-Finorn-Signature"

const DefaultTolerance = 5 * time.Minute

var (
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrMalformedHeader  = errors.New("malformed webhook signature header")
	ErrStaleTimestamp   = errors.New("webhook timestamp outside tolerance")
	ErrSignatureInvalid = errors.New("webhook signature mismatch")
)

// HMACVerifier authenticates webhook deliveries signed with a shared secret.
type HMACVerifier struct {
	secret    []byte
	tolerance time.Duration
}

var _ portssvc.WebhookVerifier = (*HMACVerifier)(nil)

func NewHMACVerifier(secret string, tolerance time.Duration) *HMACVerifier {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &HMACVerifier{secret: []byte(secret), tolerance: tolerance}
}

func (v *HMACVerifier) Verify(payload []byte, signatureHeader string, now time.Time) error {
	if strings.TrimSpace(signatureHeader) == "" {
		return ErrMissingSignature
	}

	var (
		timestamp  int64
		haveTime   bool
		signatures [][]byte
	)
	for _, part := range strings.Split(signatureHeader, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return ErrMalformedHeader
		}
		switch k {
		case "t":
			ts, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return ErrMalformedHeader
			}
			timestamp, haveTime = ts, true
		case "v1":
			sig, err := hex.DecodeString(val)
			if err != nil {
				return ErrMalformedHeader
			}
			signatures = append(signatures, sig)
		}
	}
	if !haveTime || len(signatures) == 0 {
		return ErrMalformedHeader
	}

	age := now.Sub(time.Unix(timestamp, 0))
	if age > v.tolerance || age < -v.tolerance {
		return fmt.Errorf("%w: %s", ErrStaleTimestamp, age.Round(time.Second))
	}

	expected := v.mac(timestamp, payload)
	for _, sig := range signatures {
		if hmac.Equal(sig, expected) {
			return nil
		}
	}
	return ErrSignatureInvalid
}

func (v *HMACVerifier) mac(timestamp int64, payload []byte) []byte {
	h := hmac.New(sha256.New, v.secret)
	h.Write([]byte(strconv.FormatInt(timestamp, 10)))
	h.Write([]byte("."))
	h.Write(payload)
	return h.Sum(nil)
}

// Sign builds the header value a provider would send for payload at time t.
func (v *HMACVerifier) Sign(payload []byte, t time.Time) string {
	ts := t.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(v.mac(ts, payload)))
}

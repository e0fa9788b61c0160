package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ExpectedSignature computes the hex HMAC-SHA256 over "orderID|paymentID"
// with the gateway key secret.
func ExpectedSignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether the provided signature matches the
// expected one, in constant time.
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	expected := ExpectedSignature(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

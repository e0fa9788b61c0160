package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignatureAcceptsMatchingSignature(t *testing.T) {
	secret := "test-key-secret"
	sig := ExpectedSignature(secret, "order_123", "pay_456")

	assert.True(t, VerifySignature(secret, "order_123", "pay_456", sig))
}

func TestVerifySignatureRejectsSingleBitFlip(t *testing.T) {
	secret := "test-key-secret"
	sig := ExpectedSignature(secret, "order_123", "pay_456")
	require.NotEmpty(t, sig)

	// flip one hex character
	mutated := []byte(sig)
	if mutated[0] == 'a' {
		mutated[0] = 'b'
	} else {
		mutated[0] = 'a'
	}

	assert.False(t, VerifySignature(secret, "order_123", "pay_456", string(mutated)))
}

func TestVerifySignatureRejectsWrongInputs(t *testing.T) {
	secret := "test-key-secret"
	sig := ExpectedSignature(secret, "order_123", "pay_456")

	assert.False(t, VerifySignature(secret, "order_124", "pay_456", sig), "different order id")
	assert.False(t, VerifySignature(secret, "order_123", "pay_457", sig), "different payment id")
	assert.False(t, VerifySignature("other-secret", "order_123", "pay_456", sig), "different secret")
	assert.False(t, VerifySignature(secret, "order_123", "pay_456", ""), "empty signature")
}

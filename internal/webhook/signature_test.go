package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	body := []byte(`{"message":"hello"}`)

	sig := Sign("topsecret", body)
	require.NoError(t, Verify("topsecret", body, sig))
}

func TestVerifyRejectsTampering(t *testing.T) {
	body := []byte(`{"message":"hello"}`)
	sig := Sign("topsecret", body)

	assert.Error(t, Verify("topsecret", []byte(`{"message":"evil"}`), sig))
	assert.Error(t, Verify("wrongsecret", body, sig))
	assert.Error(t, Verify("topsecret", body, ""))
	assert.Error(t, Verify("topsecret", body, "md5=abc"))
}

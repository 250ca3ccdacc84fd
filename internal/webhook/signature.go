package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const signaturePrefix = "sha256="

// Sign 计算消息体的HMAC-SHA256签名（消息平台回调的通用格式）
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify 校验签名头，恒定时间比较
func Verify(secret string, body []byte, header string) error {
	if header == "" {
		return fmt.Errorf("missing signature header")
	}
	if !strings.HasPrefix(header, signaturePrefix) {
		return fmt.Errorf("unexpected signature format")
	}

	expected := Sign(secret, body)
	if !hmac.Equal([]byte(expected), []byte(header)) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

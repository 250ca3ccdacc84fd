package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateToken(t *testing.T) {
	service := NewJWTService("test-secret-key", "chatbot-admin", time.Hour)

	token, err := service.GenerateToken("ops", "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestJWTService_ValidateToken(t *testing.T) {
	service := NewJWTService("test-secret-key", "chatbot-admin", time.Hour)

	// 生成token
	token, err := service.GenerateToken("ops", "admin")
	require.NoError(t, err)

	// 验证token
	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.NoError(t, claims.RequireRole("admin"))
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	service := NewJWTService("test-secret-key", "chatbot-admin", -time.Hour) // 已过期

	token, err := service.GenerateToken("ops", "admin")
	require.NoError(t, err)

	// 验证过期token
	_, err = service.ValidateToken(token)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestJWTService_ValidateToken_WrongSecret(t *testing.T) {
	service := NewJWTService("test-secret-key", "chatbot-admin", time.Hour)

	// 使用错误的密钥签发
	wrongService := NewJWTService("wrong-secret-key", "chatbot-admin", time.Hour)
	token, err := wrongService.GenerateToken("ops", "admin")
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_ValidateToken_Tampered(t *testing.T) {
	service := NewJWTService("test-secret-key", "chatbot-admin", time.Hour)

	token, err := service.GenerateToken("ops", "admin")
	require.NoError(t, err)

	// 签名段被篡改的token必须拒绝
	_, err = service.ValidateToken(token + "x")
	assert.Error(t, err)
}

func TestAdminClaims_RequireRole(t *testing.T) {
	service := NewJWTService("test-secret-key", "chatbot-admin", time.Hour)

	token, err := service.GenerateToken("viewer", "readonly")
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Error(t, claims.RequireRole("admin"))
}

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuer(t *testing.T, secret string, ttl time.Duration) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(secret, "cognicursos", ttl)
	require.NoError(t, err)
	return issuer
}

func TestTokenIssuer_IssueAndValidate(t *testing.T) {
	issuer := newIssuer(t, "test-secret-key", time.Hour)

	token, err := issuer.Issue(42, "professora")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "professora", claims.Username)
	assert.Equal(t, "42", claims.Subject)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := newIssuer(t, "test-secret-key", -time.Hour)

	token, err := issuer.Issue(1, "aluno")
	require.NoError(t, err)

	_, err = issuer.Validate(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestTokenIssuer_WrongSecretOrIssuer(t *testing.T) {
	issuer := newIssuer(t, "test-secret-key", time.Hour)

	foreign := newIssuer(t, "wrong-secret-key", time.Hour)
	token, err := foreign.Issue(1, "aluno")
	require.NoError(t, err)
	_, err = issuer.Validate(token)
	assert.Error(t, err)

	other, err := NewTokenIssuer("test-secret-key", "outro", time.Hour)
	require.NoError(t, err)
	token, err = other.Issue(1, "aluno")
	require.NoError(t, err)
	_, err = issuer.Validate(token)
	assert.Error(t, err)
}

func TestNewTokenIssuer_EmptySecret(t *testing.T) {
	_, err := NewTokenIssuer("", "cognicursos", time.Hour)
	assert.Error(t, err)
}

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "valid", header: "Bearer abc.def", want: "abc.def"},
		{name: "lowercase scheme", header: "bearer abc", want: "abc"},
		{name: "empty", header: "", wantErr: ErrMissingToken},
		{name: "basic scheme", header: "Basic dXNlcg==", wantErr: ErrMalformed},
		{name: "no token", header: "Bearer   ", wantErr: ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearer(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3nh@forte")
	require.NoError(t, err)
	assert.NotEqual(t, "s3nh@forte", hash)

	assert.True(t, CheckPassword(hash, "s3nh@forte"))
	assert.False(t, CheckPassword(hash, "errada"))
	assert.False(t, CheckPassword("not-a-hash", "s3nh@forte"))
}

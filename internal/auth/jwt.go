package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("authorization header is empty")
	ErrMalformed    = errors.New("authorization header must start with 'Bearer '")
)

// Claims 访问令牌声明
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenIssuer 签发并校验 HS256 访问令牌
type TokenIssuer struct {
	secretKey []byte
	issuer    string
	expiresIn time.Duration
}

func NewTokenIssuer(secretKey, issuer string, expiresIn time.Duration) (*TokenIssuer, error) {
	if secretKey == "" {
		return nil, errors.New("jwt secret key cannot be empty")
	}
	return &TokenIssuer{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		expiresIn: expiresIn,
	}, nil
}

// ExpiresIn 令牌有效期
func (j *TokenIssuer) ExpiresIn() time.Duration {
	return j.expiresIn
}

// Issue 为用户签发令牌
func (j *TokenIssuer) Issue(userID uint, username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expiresIn)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
}

// Validate 校验签名、签发方与有效期
func (j *TokenIssuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) { return j.secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ExtractBearer 从 Authorization 头提取令牌
func ExtractBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrMalformed
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", ErrMalformed
	}
	return token, nil
}

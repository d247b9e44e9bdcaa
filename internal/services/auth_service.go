package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ibercasa/ibercasa/internal/utils"
)

const adminTokenTTL = 24 * time.Hour

type AuthConfig struct {
	// AdminPassword is the shared secret, compared in constant time.
	// AdminPasswordHash, when set, takes precedence and is verified with
	// bcrypt instead.
	AdminPassword     string
	AdminPasswordHash string
	JWTSecret         string
}

type LoginResult struct {
	Token     string `json:"token"`
	ExpiresIn string `json:"expires_in"`
}

type TokenInfo struct {
	Role      string `json:"role"`
	LoginTime int64  `json:"login_time"`
}

type AuthService interface {
	Login(ctx context.Context, password string) (*LoginResult, error)
	Verify(ctx context.Context, token string) (*TokenInfo, error)
}

type authService struct {
	cfg AuthConfig
}

func NewAuthService(cfg AuthConfig) AuthService {
	return &authService{cfg: cfg}
}

type adminClaims struct {
	jwt.RegisteredClaims
	Role      string `json:"role"`
	LoginTime int64  `json:"login_time"`
}

func (s *authService) Login(ctx context.Context, password string) (*LoginResult, error) {
	const op = "AuthService.Login"

	if password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "password is required", nil)
	}
	if !utils.VerifyAdminSecret(s.cfg.AdminPasswordHash, s.cfg.AdminPassword, password) {
		return nil, utils.E(utils.CodeUnauthorized, op, "invalid admin password", nil)
	}

	now := time.Now().UTC()
	claims := adminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(adminTokenTTL)),
		},
		Role:      "admin",
		LoginTime: now.UnixMilli(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to sign token", err)
	}

	return &LoginResult{Token: token, ExpiresIn: "24h"}, nil
}

func (s *authService) Verify(ctx context.Context, token string) (*TokenInfo, error) {
	const op = "AuthService.Verify"

	if token == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "token is required", nil)
	}

	claims := &adminClaims{}
	tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || tok == nil || !tok.Valid {
		return nil, utils.E(utils.CodeUnauthorized, op, "invalid token", err)
	}
	if claims.Role != "admin" {
		return nil, utils.E(utils.CodeUnauthorized, op, "invalid token role", nil)
	}

	return &TokenInfo{Role: claims.Role, LoginTime: claims.LoginTime}, nil
}

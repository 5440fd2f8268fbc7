package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// ServiceSubject identifies the dashboard when it calls the statistics endpoint
const ServiceSubject = "facturaflow-dashboard"

// TokenTypeService is the "type" claim accepted by the statistics endpoint
const TokenTypeService = "service"

type Service interface {
	GenerateServiceToken() (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	serviceTokenExpirationTime string
	tokenAuth                  *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, serviceTokenExpirationTime string) Service {
	return &JWTService{
		serviceTokenExpirationTime: serviceTokenExpirationTime,
		tokenAuth:                  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateServiceToken issues a short-lived token for a single stats request
func (j *JWTService) GenerateServiceToken() (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.serviceTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"sub":  ServiceSubject,
		"type": TokenTypeService,
		"exp":  expiresAt,
	})
	return tokenString, expiresAt, err
}

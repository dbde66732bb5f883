package tokens

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/messhub/messhub.go/common"
)

type jwtCustomClaims struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`

	jwt.StandardClaims
}

// GenerateAccessToken mints a signed token for a student or admin login.
func GenerateAccessToken(secret []byte, expiry int, id int64, role string) (string, error) {
	claims := &jwtCustomClaims{
		ID:   id,
		Role: role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Duration(expiry) * time.Second).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken validates the signature and expiry and returns the claims.
func ParseToken(secret []byte, tokenString string) (id int64, role string, err error) {
	claims := &jwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return 0, "", err
	}
	if !token.Valid {
		return 0, "", fmt.Errorf("invalid token")
	}
	return claims.ID, claims.Role, nil
}

// Middleware authenticates the bearer token and stores UserID/Role on the
// request context.
func Middleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			id, role, err := ParseToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "bad auth")
			}
			c.Set("UserID", id)
			c.Set("Role", role)
			return next(c)
		}
	}
}

// RequireRole rejects authenticated requests whose token carries a
// different role.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Get("Role") != role {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}

func RequireAdmin() echo.MiddlewareFunc   { return RequireRole(common.RoleAdmin) }
func RequireStudent() echo.MiddlewareFunc { return RequireRole(common.RoleStudent) }

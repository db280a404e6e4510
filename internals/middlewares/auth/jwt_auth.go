package auth

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	helper "scuoladigitale_backend/internals/helpers"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool
}

// AuthJWT valida il bearer token e idrata i Locals con identità e ruoli.
// Claims attesi: sub (uuid docente), ruoli ([]string), nome (string).
func AuthJWT(opts AuthJWTOpts) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := extractToken(c, opts.AllowCookieFallback)
		if raw == "" {
			return helper.Error(c, fiber.StatusUnauthorized, "Token mancante")
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("metodo di firma inatteso: %v", t.Header["alg"])
			}
			return []byte(opts.Secret), nil
		})
		if err != nil || !token.Valid {
			return helper.Error(c, fiber.StatusUnauthorized, "Token non valido o scaduto")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return helper.Error(c, fiber.StatusUnauthorized, "Claims non validi")
		}

		c.Locals(helper.LocalsDocenteID, strClaim(claims, "sub"))
		c.Locals(helper.LocalsNome, strClaim(claims, "nome"))
		c.Locals(helper.LocalsRuoli, sliceClaim(claims, "ruoli"))

		return c.Next()
	}
}

// OnlyRoles consente il passaggio solo se il token porta uno dei ruoli dati.
func OnlyRoles(message string, ruoli ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, r := range ruoli {
			if helper.HasRuolo(c, r) {
				return c.Next()
			}
		}
		return helper.Error(c, fiber.StatusForbidden, message)
	}
}

func extractToken(c *fiber.Ctx, cookieFallback bool) string {
	h := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookieFallback {
		return c.Cookies("access_token")
	}
	return ""
}

func strClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

func sliceClaim(claims jwt.MapClaims, key string) []string {
	out := []string{}
	switch v := claims[key].(type) {
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	case string:
		if v != "" {
			out = strings.Split(v, ",")
		}
	}
	return out
}

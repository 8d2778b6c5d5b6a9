package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/asap-api/internal/utils"
)

// SubjectLocal is the fiber local holding the authenticated token subject.
const SubjectLocal = "subject"

var (
	errMissingAuthorization = errors.New("authorization header missing")
	errMalformedBearer      = errors.New("invalid authorization header")
)

// JWTProtected guards report and config routes with HS256 bearer tokens.
// An empty secret disables the check so local runs work without tokens.
func JWTProtected(secret string) fiber.Handler {
	if strings.TrimSpace(secret) == "" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{
		jwt.SigningMethodHS256.Alg(),
		jwt.SigningMethodHS384.Alg(),
		jwt.SigningMethodHS512.Alg(),
	}))

	return func(c *fiber.Ctx) error {
		raw, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
		}

		claims := jwt.MapClaims{}
		if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) { return key, nil }); err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		if subject := subjectFromClaims(claims); subject != "" {
			c.Locals(SubjectLocal, subject)
		}
		return c.Next()
	}
}

// SubjectFromContext returns the authenticated subject, if any.
func SubjectFromContext(c *fiber.Ctx) string {
	subject, _ := c.Locals(SubjectLocal).(string)
	return subject
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errMissingAuthorization
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errMalformedBearer
	}
	return strings.TrimSpace(token), nil
}

// subjectFromClaims prefers the registered sub claim; numeric ids come from older token issuers.
func subjectFromClaims(claims jwt.MapClaims) string {
	if sub, err := claims.GetSubject(); err == nil && strings.TrimSpace(sub) != "" {
		return strings.TrimSpace(sub)
	}
	for _, key := range []string{"user_id", "id"} {
		switch v := claims[key].(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

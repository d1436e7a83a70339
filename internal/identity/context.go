package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// LocalsKey is where the JWT middleware stores the verified token.
const LocalsKey = "user"

var ErrNoIdentity = errors.New("no authenticated identity")

// Subject extracts the "sub" claim of the verified bearer token in context.
func Subject(c *fiber.Ctx) (string, error) {
	token, ok := c.Locals(LocalsKey).(*jwt.Token)
	if !ok {
		return "", ErrNoIdentity
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("missing sub claim")
	}
	return sub, nil
}

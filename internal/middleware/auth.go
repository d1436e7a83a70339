package middleware

import (
	"github.com/ahmetcoskunkizilkaya/journey/internal/config"
	"github.com/ahmetcoskunkizilkaya/journey/internal/identity"
	"github.com/ahmetcoskunkizilkaya/journey/internal/trpc"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// OptionalJWT verifies a bearer token when one is sent and stores it for
// identity.Subject. Requests without Authorization pass through; procedures
// decide whether they need an identity. Without JWT_SECRET it does nothing.
func OptionalJWT(cfg *config.Config) fiber.Handler {
	if cfg.JWTSecret == "" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ContextKey: identity.LocalsKey,
		Filter: func(c *fiber.Ctx) bool {
			return c.Get(fiber.HeaderAuthorization) == ""
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			te := trpc.NewError(trpc.CodeUnauthorized, "Unauthorized: invalid or expired token")
			te.Path = c.Params("procedure")
			return c.Status(te.HTTPStatus).JSON(trpc.ErrorEnvelope(te))
		},
	})
}

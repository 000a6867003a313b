package middleware

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/auth"
	"catalogapi/internal/repository"
)

// UserIDHeader carries the account ID established by the upstream authenticator.
const UserIDHeader = "X-User-ID"

// Principal resolves UserIDHeader to an auth.Principal and stores it on the request's user context.
// Requests without the header stay anonymous. An unknown or malformed ID is rejected with 401.
func Principal(users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(UserIDHeader)
		if raw == "" {
			return c.Next()
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid user id")
		}

		u, err := users.FindByID(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fiber.NewError(fiber.StatusUnauthorized, "unknown user")
			}
			return err
		}

		c.SetUserContext(auth.WithPrincipal(c.UserContext(), &auth.Principal{ID: u.ID, Role: u.Role.Name}))
		return c.Next()
	}
}

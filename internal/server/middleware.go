package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-auth-server/internal/auth"
)

const (
	localUserKey  = "auth:user"
	localTokenKey = "auth:token"
)

// RequireAuth guards a route behind a valid session. The token comes
// from the session cookie or an Authorization Bearer header; the
// authenticator runs the blacklist, signature, expiry, and identity
// checks. Every failure terminates the request with the same 401.
func (s *Server) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := s.tokenFromRequest(c)
		if token == "" {
			return auth.ErrUnableToFindSession
		}

		user, err := s.auther.SessionFromToken(c.UserContext(), token)
		if err != nil {
			return err
		}

		c.Locals(localUserKey, user)
		c.Locals(localTokenKey, token)
		c.SetUserContext(auth.WithContext(c.UserContext(), user))

		return c.Next()
	}
}

func (s *Server) tokenFromRequest(c *fiber.Ctx) string {
	if cookie := c.Cookies(s.cfg.CookieName); cookie != "" {
		return cookie
	}

	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}

	const scheme = "Bearer "
	if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
		return strings.TrimSpace(header[len(scheme):])
	}

	return ""
}

// UserFromLocals returns the session user resolved by RequireAuth.
func UserFromLocals(c *fiber.Ctx) (*auth.User, bool) {
	user, ok := c.Locals(localUserKey).(*auth.User)
	return user, ok
}

// TokenFromLocals returns the raw token the session was resolved from.
func TokenFromLocals(c *fiber.Ctx) (string, bool) {
	token, ok := c.Locals(localTokenKey).(string)
	return token, ok
}

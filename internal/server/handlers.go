package server

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"

	"github.com/goliatone/go-auth-server/internal/auth"
)

// Register handles POST /register: validate, hash, create, issue token.
func (s *Server) Register(c *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": err,
		})
	}

	user, token, err := s.auther.Register(c.UserContext(), payload.Input())
	if err != nil {
		return err
	}

	if s.cfg.Debug {
		s.logger.Debug("registered user", "user", print.MaybePrettyJSON(user))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles POST /login: verify credentials, issue token, set the
// session cookie, and return the redacted user view.
func (s *Server) Login(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": err,
		})
	}

	user, token, err := s.auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "login failed")
	}

	s.setCookieToken(c, token)

	return c.JSON(fiber.Map{
		"success": true,
		"user":    NewUserView(user),
		"token":   token,
	})
}

// Profile handles GET /profile: return the session's resolved user.
func (s *Server) Profile(c *fiber.Ctx) error {
	user, ok := UserFromLocals(c)
	if !ok {
		return auth.ErrUnableToFindSession
	}

	return c.JSON(user)
}

// Logout handles GET /logout: clear the cookie and blacklist the token.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.clearCookieToken(c)

	token, ok := TokenFromLocals(c)
	if !ok {
		return auth.ErrUnableToFindSession
	}

	if err := s.auther.Logout(c.UserContext(), token); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}

// Package server wires the authentication flows to HTTP. Handlers stay
// thin: parse and validate at the boundary, delegate to the
// authenticator, and let the central error handler map failures to
// status codes.
package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-auth-server/internal/auth"
	"github.com/goliatone/go-auth-server/internal/config"
	"github.com/goliatone/go-auth-server/internal/logging"
)

type Server struct {
	app    *fiber.App
	cfg    *config.Config
	auther *auth.Authenticator
	logger logging.Logger
}

// New builds the fiber app and registers the auth routes.
func New(cfg *config.Config, auther *auth.Authenticator, logger logging.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		auther: auther,
		logger: logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "go-auth-server",
		ErrorHandler: s.errorHandler,
	})

	s.registerRoutes()

	return s
}

// App exposes the fiber app, used by tests to drive requests through
// the full middleware chain.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until the listener fails or Shutdown is called.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes() {
	s.app.Post("/register", s.Register)
	s.app.Post("/login", s.Login)
	s.app.Get("/profile", s.RequireAuth(), s.Profile)
	s.app.Get("/logout", s.RequireAuth(), s.Logout)
}

func (s *Server) setCookieToken(c *fiber.Ctx, val string) {
	c.Cookie(&fiber.Cookie{
		Name:     s.cfg.CookieName,
		Value:    val,
		Expires:  time.Now().Add(s.auther.TokenService().TTL()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (s *Server) clearCookieToken(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// errorHandler maps error categories to status codes. Auth failures all
// render the same body so responses never reveal which check failed,
// and internal errors never leak their message to the client.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		switch richErr.Category {
		case goerrors.CategoryAuth, goerrors.CategoryAuthz:
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "unauthorized",
			})
		case goerrors.CategoryConflict:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": richErr.Message,
			})
		case goerrors.CategoryValidation, goerrors.CategoryBadInput:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": richErr.Message,
			})
		case goerrors.CategoryNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": richErr.Message,
			})
		}

		s.logger.Error("request failed",
			"category", string(richErr.Category),
			"path", c.Path(),
			"error", err,
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "an unexpected error occurred",
		})
	}

	var fiberErr *fiber.Error
	if goerrors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
		})
	}

	s.logger.Error("request failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "an unexpected error occurred",
	})
}

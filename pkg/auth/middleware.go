package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/circdesk/circdesk/pkg/errcodes"
	"github.com/circdesk/circdesk/pkg/models"
)

// Echo context keys for the authenticated person.
const (
	ContextKeyPersonID = "person_id"
	ContextKeyPerson   = "person"
)

// Middleware provides authentication middleware.
type Middleware struct {
	authService *Service
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{
		authService: authService,
	}
}

// Authenticate extracts and validates the JWT from the cookie. If valid, it
// verifies the person still exists and adds them to the context. If not
// authenticated, it returns 401.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		cookie, err := c.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			return errcodes.Unauthorized("Authentication required")
		}

		claims, err := m.authService.ValidateToken(cookie.Value)
		if err != nil {
			return errcodes.Unauthorized("Invalid or expired token")
		}

		person, err := m.authService.GetPersonByID(ctx, claims.PersonID)
		if err != nil {
			return errcodes.Unauthorized("Person not found")
		}

		c.Set(ContextKeyPersonID, person.ID)
		c.Set(ContextKeyPerson, person)

		return next(c)
	}
}

// RequirePermission returns middleware that checks if the person has the
// required permission. It fails closed: no loaded role means no access. Must
// be used after Authenticate middleware.
func (m *Middleware) RequirePermission(resource, operation string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			person, ok := c.Get(ContextKeyPerson).(*models.Person)
			if !ok {
				return errcodes.Unauthorized("Authentication required")
			}

			if !person.HasPermission(resource, operation) {
				return errcodes.Forbidden(operation + " " + resource)
			}

			return next(c)
		}
	}
}

// PersonFromContext retrieves the authenticated person from the Echo context.
func PersonFromContext(c echo.Context) (*models.Person, bool) {
	person, ok := c.Get(ContextKeyPerson).(*models.Person)
	return person, ok
}

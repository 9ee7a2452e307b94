package fiber

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"portaldesa.com/gate/auth"
)

// ClaimsKey is the fiber.Ctx locals key carrying the verified claims of an
// allowed request.
const ClaimsKey = "gate_claims"

// Guard is the request-interception boundary. It runs one access decision
// per inbound request: excluded paths pass straight through, allowed requests
// continue with identity headers attached, and every denial becomes a
// redirect. No credential failure ever surfaces as a raw error page.
func Guard(engine *auth.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()

		if engine.Rules().Excluded(path) {
			return c.Next()
		}

		token, _ := auth.CredentialFrom(c.Cookies(auth.CookieName), c.Get(fiber.HeaderAuthorization))
		outcome := engine.Decide(path, token)

		if outcome.Kind == auth.OutcomeAllow {
			for k, v := range outcome.Headers {
				c.Set(k, v)
			}
			if outcome.Claims != nil {
				c.Locals(ClaimsKey, outcome.Claims)
			}
			return c.Next()
		}

		// The stored credential is poisoned on an invalid-credential denial;
		// clear it in the same response as the redirect.
		if outcome.ClearCredential {
			c.Cookie(&fiber.Cookie{
				Name:     auth.CookieName,
				Value:    "",
				Expires:  time.Unix(0, 0),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		return c.Redirect(outcome.RedirectTo, fiber.StatusFound)
	}
}

// ClaimsFromCtx returns the verified claims the guard stored for an allowed
// request.
func ClaimsFromCtx(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(ClaimsKey).(*auth.Claims)
	return claims, ok
}

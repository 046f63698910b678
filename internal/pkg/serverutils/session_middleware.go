package serverutils

import (
	"ai-jobadvisor-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const sessionCookieName = "session_id"

// SessionMiddleware bootstraps the anonymous session id carried by an
// HTTP-only cookie with a rolling 30-minute lifetime.
//
// X-Force-New-Session always starts fresh; X-Page-Load starts fresh
// only when the stored session is due for renewal (expiring or idle).
func SessionMiddleware(sessions store.SessionStore, secure bool) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sid := ctx.Cookies(sessionCookieName)

		switch {
		case sid == "" || ctx.Get("X-Force-New-Session") == "true":
			sid = uuid.NewString()
		case ctx.Get("X-Page-Load") == "true":
			if renew, err := sessions.ShouldRenew(ctx.Context(), sid); err == nil && renew {
				sid = uuid.NewString()
			}
		}

		ctx.Locals(sessionCookieName, sid)
		// Rolling lifetime: every response pushes the expiry forward.
		ctx.Cookie(&fiber.Cookie{
			Name:     sessionCookieName,
			Value:    sid,
			MaxAge:   int(store.SessionTTL.Seconds()),
			HTTPOnly: true,
			Secure:   secure,
			SameSite: "Lax",
			Path:     "/",
		})
		return ctx.Next()
	}
}

// SessionID returns the session id bound to the request.
func SessionID(ctx *fiber.Ctx) string {
	if sid, ok := ctx.Locals(sessionCookieName).(string); ok {
		return sid
	}
	return ""
}

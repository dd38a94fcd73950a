package handlers

import (
	"time"

	"dcpstore/internal/apperror"
	applog "dcpstore/internal/log"
	"dcpstore/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth *services.AuthService
}

// ensureSID returns the client's sid cookie, minting one when absent. The
// cookie is not marked Secure by default; that is a deployment concern.
func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
			Expires:  time.Now().Add(services.SessionTTL),
		})
	}
	return sid
}

func jsonError(c *fiber.Ctx, err error) error {
	return c.Status(apperror.SafeCode(err)).JSON(fiber.Map{"error": apperror.SafeMessage(err)})
}

type credentialsReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req credentialsReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, apperror.Validation("invalid request body"))
	}
	u, err := h.Auth.Register(sid, req.Username, req.Email, req.Password)
	if err != nil {
		if apperror.IsKind(err, apperror.KindInfra) {
			applog.Error(c, "auth.register.fail", err, nil)
		} else {
			applog.Security(c, "auth.register.reject", map[string]any{"username": req.Username})
		}
		return jsonError(c, err)
	}
	applog.Audit(c, "auth.register.success", map[string]any{"user_id": u.ID})
	return c.JSON(fiber.Map{"success": true, "user": u})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req credentialsReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, apperror.Validation("invalid request body"))
	}
	// The username field carries a username or an email.
	u, err := h.Auth.Login(sid, req.Username, req.Password)
	if err != nil {
		if apperror.IsKind(err, apperror.KindInfra) {
			applog.Error(c, "auth.login.fail", err, nil)
		} else {
			applog.Security(c, "auth.login.reject", map[string]any{"ident": req.Username})
		}
		return jsonError(c, err)
	}
	applog.Audit(c, "auth.login.success", map[string]any{"user_id": u.ID})
	return c.JSON(fiber.Map{"success": true, "user": u})
}

// Logout is idempotent at the transport boundary: no session, or a second
// logout, still answers success.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := c.Cookies("sid")
	if err := h.Auth.Logout(sid); err != nil {
		applog.Error(c, "auth.logout.fail", err, nil)
		return jsonError(c, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	applog.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"success": true})
}

func (h *AuthHandler) Session(c *fiber.Ctx) error {
	return c.JSON(h.Auth.CurrentSession(c.Cookies("sid")))
}

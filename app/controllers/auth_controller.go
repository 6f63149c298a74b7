package controllers

import (
	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/services"
	"github.com/inkwell-studio/atelier/pkg/auth"
	"github.com/inkwell-studio/atelier/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{service: services.NewAuthService(db)}
}

func (a *AuthController) Signup(c *ctx.Context) {
	var in services.SignupInput
	if !bindLoose(c, &in) {
		return
	}
	sess, err := a.service.Signup(c.Context(), in)
	if err != nil {
		fail(c, err, "create user")
		return
	}
	auth.SetCookie(c.W, sess.Token)
	c.Created(map[string]any{"user": sess.User.Summary(), "token": sess.Token})
}

func (a *AuthController) Login(c *ctx.Context) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bindLoose(c, &in) {
		return
	}
	sess, err := a.service.Login(c.Context(), in.Email, in.Password)
	if err != nil {
		fail(c, err, "log in")
		return
	}
	auth.SetCookie(c.W, sess.Token)
	c.Success(map[string]any{"user": sess.User.Summary(), "token": sess.Token})
}

// Me verifies the token itself so a missing token and a bad one get
// distinct messages.
func (a *AuthController) Me(c *ctx.Context) {
	tok := auth.TokenFromRequest(c.R)
	if tok == "" {
		c.Unauthorized("No token provided")
		return
	}
	claims, err := auth.ValidateToken(tok)
	if err != nil {
		c.Unauthorized("Invalid token")
		return
	}
	user, err := a.service.Me(c.Context(), claims.UserID)
	if err != nil {
		fail(c, err, "load user")
		return
	}
	c.Success(map[string]any{"user": user})
}

func (a *AuthController) Logout(c *ctx.Context) {
	auth.ClearCookie(c.W)
	c.Message("Logged out successfully")
}

func (a *AuthController) ForgotPassword(c *ctx.Context) {
	var in struct {
		Email string `json:"email"`
	}
	if !bindLoose(c, &in) {
		return
	}
	if err := a.service.ForgotPassword(c.Context(), in.Email); err != nil {
		fail(c, err, "request password reset")
		return
	}
	c.Message("If an account exists for that email, a reset link is on its way")
}

func (a *AuthController) ResetPassword(c *ctx.Context) {
	var in struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !bindLoose(c, &in) {
		return
	}
	if err := a.service.ResetPassword(c.Context(), in.Token, in.Password); err != nil {
		fail(c, err, "reset password")
		return
	}
	c.Message("Password has been reset")
}

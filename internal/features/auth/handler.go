package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/xyz-asif/gotours/internal/config"
	"github.com/xyz-asif/gotours/internal/pkg/apperror"
	"github.com/xyz-asif/gotours/internal/pkg/crud"
	"github.com/xyz-asif/gotours/internal/pkg/email"
)

const (
	bcryptCost       = 12
	resetTokenExpiry = 10 * time.Minute
)

// Handler serves signup, login and password lifecycle endpoints.
type Handler struct {
	repo   *Repository
	cfg    *config.Config
	mailer email.Sender
	logger zerolog.Logger
}

func NewHandler(repo *Repository, cfg *config.Config, mailer email.Sender, logger zerolog.Logger) *Handler {
	return &Handler{repo: repo, cfg: cfg, mailer: mailer, logger: logger}
}

// Signup creates an account and logs the new user straight in.
// @Summary Create a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup payload"
// @Success 201 {object} map[string]interface{}
// @Router /api/v1/users/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		crud.Fail(c, apperror.Validation("Invalid input data"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		crud.Fail(c, err)
		return
	}

	user := &User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Role:     RoleUser,
	}
	if err := h.repo.CreateUser(c.Request.Context(), user); err != nil {
		crud.Fail(c, err)
		return
	}

	// Delivery failure must not block the signup.
	accountURL := h.cfg.FrontendURL + "/me"
	if err := h.mailer.SendWelcome(user.Email, user.FirstName(), accountURL); err != nil {
		h.logger.Warn().Err(err).Str("email", user.Email).Msg("welcome email failed")
	}

	h.createSendToken(c, user, http.StatusCreated)
}

// Login verifies credentials and issues a session token.
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/users/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		crud.Fail(c, apperror.BadRequest("Please provide email and password!"))
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		crud.Fail(c, err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		crud.Fail(c, apperror.Unauthorized("Incorrect email or password"))
		return
	}

	h.createSendToken(c, user, http.StatusOK)
}

// Logout overwrites the session cookie with a short-lived dummy value.
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("jwt", "loggedout", 10, "/", "", h.cfg.IsProduction(), true)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ForgotPassword emails a single-use reset link. Only a hash of the token
// is stored.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		crud.Fail(c, apperror.BadRequest("Please provide your email address."))
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		crud.Fail(c, err)
		return
	}
	if user == nil {
		crud.Fail(c, apperror.NotFound("There is no user with that email address."))
		return
	}

	rawToken, tokenHash, err := newResetToken()
	if err != nil {
		crud.Fail(c, err)
		return
	}

	expires := time.Now().Add(resetTokenExpiry)
	if err := h.repo.SetResetToken(c.Request.Context(), user.ID, tokenHash, expires); err != nil {
		crud.Fail(c, err)
		return
	}

	resetURL := fmt.Sprintf("%s/api/v1/users/resetPassword/%s", h.cfg.FrontendURL, rawToken)
	if err := h.mailer.SendPasswordReset(user.Email, user.FirstName(), resetURL); err != nil {
		// Without the email the token is unreachable; roll it back.
		if clearErr := h.repo.ClearResetToken(c.Request.Context(), user.ID); clearErr != nil {
			h.logger.Error().Err(clearErr).Msg("failed to clear reset token")
		}
		crud.Fail(c, apperror.Internal("There was an error sending the email. Try again later!", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Token sent to email!",
	})
}

// ResetPassword consumes the emailed token and sets a new password.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		crud.Fail(c, apperror.Validation("Invalid input data"))
		return
	}

	sum := sha256.Sum256([]byte(c.Param("token")))
	tokenHash := hex.EncodeToString(sum[:])

	user, err := h.repo.GetByResetToken(c.Request.Context(), tokenHash, time.Now())
	if err != nil {
		crud.Fail(c, err)
		return
	}
	if user == nil {
		crud.Fail(c, apperror.BadRequest("Token is invalid or has expired"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		crud.Fail(c, err)
		return
	}
	if err := h.repo.UpdatePassword(c.Request.Context(), user.ID, string(hash)); err != nil {
		crud.Fail(c, err)
		return
	}

	h.createSendToken(c, user, http.StatusOK)
}

// UpdatePassword lets a logged-in user rotate their password after
// re-proving the current one.
func (h *Handler) UpdatePassword(c *gin.Context) {
	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		crud.Fail(c, apperror.Validation("Invalid input data"))
		return
	}

	current := CurrentUser(c)
	if current == nil {
		crud.Fail(c, apperror.Unauthorized("You are not logged in! Please log in to get access."))
		return
	}

	// Re-read so the comparison runs against the stored hash, not a stale
	// copy from the middleware.
	user, err := h.repo.GetByID(c.Request.Context(), current.ID.Hex())
	if err != nil {
		crud.Fail(c, err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.PasswordCurrent)) != nil {
		crud.Fail(c, apperror.Unauthorized("Your current password is wrong."))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		crud.Fail(c, err)
		return
	}
	if err := h.repo.UpdatePassword(c.Request.Context(), user.ID, string(hash)); err != nil {
		crud.Fail(c, err)
		return
	}

	h.createSendToken(c, user, http.StatusOK)
}

// createSendToken signs a session token, sets it as an httpOnly cookie and
// writes the standard auth envelope.
func (h *Handler) createSendToken(c *gin.Context, user *User, status int) {
	token, err := SignToken(user.ID.Hex(), h.cfg)
	if err != nil {
		crud.Fail(c, err)
		return
	}

	maxAge := int(h.cfg.JWTCookieExpiry.Seconds())
	c.SetCookie("jwt", token, maxAge, "/", "", h.cfg.IsProduction(), true)

	c.JSON(status, gin.H{
		"status": "success",
		"token":  token,
		"data":   gin.H{"user": user},
	})
}

// newResetToken returns the raw token for the email link and the hash for
// storage.
func newResetToken() (raw string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	sum := sha256.Sum256([]byte(raw))
	return raw, hex.EncodeToString(sum[:]), nil
}

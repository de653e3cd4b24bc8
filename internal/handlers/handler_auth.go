package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/SscSPs/finorn_backend/internal/middleware"
	"github.com/SscSPs/finorn_backend/internal/platform/config"
	"github.com/SscSPs/finorn_backend/internal/platform/links"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const (
	oauthStateCookie = "finorn_oauth_state"
	oauthStateTTL    = 10 * time.Minute
)

// authHandler handles authentication related requests.
type authHandler struct {
	authService  portssvc.AuthSvcFacade
	links        *links.Builder
	secureCookie bool
}

func newAuthHandler(as portssvc.AuthSvcFacade, linkBuilder *links.Builder, cfg *config.Config) *authHandler {
	return &authHandler{
		authService:  as,
		links:        linkBuilder,
		secureCookie: cfg.IsProduction,
	}
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, authService portssvc.AuthSvcFacade, linkBuilder *links.Builder) {
	h := newAuthHandler(authService, linkBuilder, cfg)

	// 5 requests per minute per IP on credential endpoints
	rate, _ := limiter.NewRateFromFormatted("5-M")
	limitMiddleware := limitergin.NewMiddleware(limiter.New(memory.NewStore(), rate))

	auth := r.Group("/auth")
	{
		auth.POST("/register", limitMiddleware, h.register)
		auth.POST("/login", limitMiddleware, h.login)
		auth.GET("/google/login", h.googleLogin)
		auth.GET("/google/callback", h.googleCallback)
	}
}

func (h *authHandler) respondWithToken(c *gin.Context, logger *slog.Logger, status int, user *domain.User, org *domain.Organization) {
	token, expiresAt, err := h.authService.IssueAccessToken(c.Request.Context(), user)
	if err != nil {
		respondError(c, logger, err, "issue access token")
		return
	}
	resp := dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		User:        dto.ToUserResponse(user),
	}
	if org != nil {
		resp.OrganizationID = &org.OrganizationID
	}
	c.JSON(status, resp)
}

// register godoc
// @Summary Register a new account
// @Description Creates an individual or business account. Business accounts also get their first organization.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   request body dto.RegisterRequest true "Account details"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	user, org, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "register account")
		return
	}
	logger.Info("Account registered", slog.String("user_id", user.UserID), slog.String("account_type", string(user.AccountType)))
	h.respondWithToken(c, logger, http.StatusCreated, user, org)
}

// login godoc
// @Summary Log in
// @Description Authenticates with email and password and returns an access token.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   credentials body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Invalid email or password"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, logger, err, "log in")
		return
	}
	h.respondWithToken(c, logger, http.StatusOK, user, nil)
}

// googleLogin godoc
// @Summary Start Google sign-in
// @Description Redirects to the Google consent screen.
// @Tags auth
// @Success 302
// @Failure 503 {object} dto.ErrorResponse "Google sign-in is not configured"
// @Router /auth/google/login [get]
func (h *authHandler) googleLogin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	url, state, err := h.authService.GoogleLoginURL(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "start Google sign-in")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, int(oauthStateTTL.Seconds()), "/auth/google", "", h.secureCookie, true)
	c.Redirect(http.StatusFound, url)
}

// googleCallback godoc
// @Summary Complete Google sign-in
// @Description Validates state, exchanges the code and redirects to the web app with an access token.
// @Tags auth
// @Param   state query string true "OAuth state"
// @Param   code query string true "Authorization code"
// @Success 302
// @Failure 400 {object} dto.ErrorResponse "Invalid state"
// @Failure 401 {object} dto.ErrorResponse "Google sign-in failed"
// @Router /auth/google/callback [get]
func (h *authHandler) googleCallback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	expected, err := c.Cookie(oauthStateCookie)
	state := c.Query("state")
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		logger.Warn("OAuth state mismatch")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/auth/google", "", h.secureCookie, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Authorization code is required"})
		return
	}

	user, err := h.authService.CompleteGoogleLogin(c.Request.Context(), code)
	if err != nil {
		respondError(c, logger, err, "complete Google sign-in")
		return
	}
	token, _, err := h.authService.IssueAccessToken(c.Request.Context(), user)
	if err != nil {
		respondError(c, logger, err, "issue access token")
		return
	}
	logger.Info("Google sign-in completed", slog.String("user_id", user.UserID))
	c.Redirect(http.StatusFound, h.links.OAuthCompleteURL(token))
}

// Package stubfront is a development stand-in for the remote
// storefront REST backend. It speaks the same wire contract the agent
// expects (register, login, identity, design upload) so the agent can
// be run end-to-end without the hosted backend.
package stubfront

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

const (
	defaultTokenTTL  = 24 * time.Hour
	defaultMaxUpload = 10 << 20
)

type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
	MaxUpload int64

	// AdminUsername/AdminPassword seed a ready-made admin account so
	// role-gated paths can be exercised without registering one first.
	// Registration itself only ever creates customers.
	AdminUsername string
	AdminPassword string
}

type Server struct {
	cfg   Config
	users *UserStore
	log   zerolog.Logger
}

func New(cfg Config, users *UserStore, log zerolog.Logger) *Server {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.MaxUpload <= 0 {
		cfg.MaxUpload = defaultMaxUpload
	}
	if cfg.AdminUsername != "" {
		email := cfg.AdminUsername + "@stubfront.local"
		if _, err := users.Create(cfg.AdminUsername, email, cfg.AdminPassword, "admin"); err != nil && !errors.Is(err, ErrUserExists) {
			log.Warn().Err(err).Msg("admin seeding failed")
		}
	}
	return &Server{cfg: cfg, users: users, log: log}
}

// Router builds the Echo instance with the storefront wire contract.
func (s *Server) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())

	e.POST("/users/register", s.register)
	e.POST("/users/login", s.login)
	e.GET("/users/me", s.me, s.auth)
	e.POST("/api/designs/upload", s.upload, s.auth)

	return e
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "username, email and password are required"})
	}

	if _, err := s.users.Create(req.Username, req.Email, req.Password, "customer"); err != nil {
		if errors.Is(err, ErrUserExists) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "Username already taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "registration failed"})
	}

	s.log.Info().Str("username", req.Username).Msg("user registered")
	return c.JSON(http.StatusCreated, echo.Map{"message": "Registration successful"})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
	}

	user, err := s.users.Authenticate(req.Username, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid username or password"})
	}

	token, err := s.mintToken(user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "token generation failed"})
	}

	// Token and user fields at the top level, as the hosted backend
	// returns them.
	return c.JSON(http.StatusOK, echo.Map{
		"token":    token,
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
}

func (s *Server) me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"id":       c.Get("user_id"),
		"username": c.Get("username"),
		"email":    c.Get("email"),
		"role":     c.Get("role"),
	})
}

func (s *Server) upload(c echo.Context) error {
	fh, err := c.FormFile("designFile")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "designFile is required"})
	}
	if fh.Size > s.cfg.MaxUpload {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"message": "design file too large"})
	}

	file, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "design file unreadable"})
	}
	defer file.Close()
	// Content is accepted and discarded; the stub stores nothing.
	if _, err := io.Copy(io.Discard, io.LimitReader(file, s.cfg.MaxUpload)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "upload failed"})
	}

	id := uuid.NewString()
	s.log.Info().
		Str("artifact_id", id).
		Str("filename", fh.Filename).
		Str("user_id", asString(c.Get("user_id"))).
		Msg("design uploaded")

	return c.JSON(http.StatusCreated, echo.Map{
		"id":       id,
		"colors":   c.FormValue("colors"),
		"quantity": c.FormValue("quantity"),
		"sizes":    c.FormValue("sizes"),
		"userId":   c.FormValue("userId"),
	})
}

// auth validates the bearer JWT and injects claims into context.
func (s *Server) auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing authorization header"})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid authorization header"})
		}

		claims := jwt.MapClaims{}
		tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(s.cfg.JWTSecret), nil
		})
		if err != nil || !tkn.Valid {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid token"})
		}

		c.Set("user_id", claims["sub"])
		c.Set("username", claims["username"])
		c.Set("email", claims["email"])
		c.Set("role", claims["role"])

		return next(c)
	}
}

func (s *Server) mintToken(user *User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
		"exp":      time.Now().Add(s.cfg.TokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lonedevel/jrnurl-project/internal/config"
	"github.com/lonedevel/jrnurl-project/internal/db"
	"github.com/lonedevel/jrnurl-project/internal/service"
)

type (
	CustomValidator struct {
		validator *validator.Validate
	}

	HTTPServer struct {
		svc    *service.General
		logger *zap.SugaredLogger
	}
)

func NewHTTPServer(lc fx.Lifecycle, cfg *config.Config, svc *service.General, logger *zap.SugaredLogger) *HTTPServer {
	e := echo.New()

	instance := HTTPServer{
		svc:    svc,
		logger: logger,
	}

	e.POST("/user/create", instance.UserCreate)
	e.POST("/user/token", instance.UserToken)
	e.GET("/user/me", instance.UserMe)
	e.PATCH("/user/me", instance.UserMeUpdate)

	collectionG := e.Group("/urlcollection")
	collectionG.GET("/", instance.CollectionList)
	collectionG.POST("/", instance.CollectionCreate)
	collectionG.GET("/:id/", instance.CollectionGet)
	collectionG.PUT("/:id/", instance.CollectionUpdate)
	collectionG.PATCH("/:id/", instance.CollectionUpdate)
	collectionG.DELETE("/:id/", instance.CollectionDelete)

	itemG := e.Group("/urlitem")
	itemG.GET("/", instance.ItemList)
	itemG.POST("/", instance.ItemCreate)
	itemG.DELETE("/:id/", instance.ItemDelete)

	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	e.Use(middleware.CORS())
	e.Use(middleware.BodyDumpWithConfig(middleware.BodyDumpConfig{
		Handler: func(c echo.Context, reqBody, resBody []byte) {
			logger.Infow("request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"body", string(censorBody(reqBody)),
			)
		},
	}))
	e.Use(middleware.Recover())

	e.Use(instance.AuthMiddleware)

	e.Validator = &CustomValidator{validator: validator.New()}

	echo.NotFoundHandler = func(c echo.Context) error {
		return c.NoContent(http.StatusNotFound)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				listen := cfg.Host + ":" + cfg.Port
				if err := e.Start(listen); err != nil && err != http.ErrServerClosed {
					e.Logger.Fatal("shutting down the server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server.")
			return e.Shutdown(ctx)
		},
	})

	return &instance
}

func (s *HTTPServer) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		switch c.Path() {
		case "/user/create", "/user/token", "/ping":
			return next(c)
		}
		token := ""
		for key, values := range c.Request().Header {
			if strings.ToLower(key) == "x-token" {
				token = values[0]
				break
			}
		}
		if token == "" {
			return c.NoContent(http.StatusUnauthorized)
		}
		user, err := s.svc.UserByToken(token)
		if err != nil {
			s.logger.Error(errors.Wrap(err, "find user by token"))
			return c.NoContent(http.StatusUnauthorized)
		}

		c.Set("user", user)
		return next(c)
	}
}

////////

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return nil
}

func BindAndValidate(c echo.Context, v interface{}) error {
	var err error
	if err = c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err = c.Validate(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func GetUserFromContext(c echo.Context) (*db.User, error) {
	user, ok := c.Get("user").(*db.User)
	if !ok || user == nil {
		return nil, errors.New("no user found in context")
	}
	return user, nil
}

// GetUUIDParam treats a malformed id the same as a nonexistent one.
func GetUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	value := c.Param(name)
	if value == "" {
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound)
	}
	return id, nil
}

// mapServiceError translates service sentinels into HTTP responses. The two
// login sentinels collapse into one generic message so a caller cannot probe
// which field was wrong.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound)
	case errors.Is(err, service.ErrEmailRequired),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrPasswordTooShort):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrLoginUserNotFound),
		errors.Is(err, service.ErrLoginPasswordDoesNotMatch):
		return echo.NewHTTPError(http.StatusBadRequest, "unable to authenticate with provided credentials")
	}
	return err
}

func censorBody(body []byte) []byte {
	decoded := map[string]interface{}{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return body
	}
	if _, ok := decoded["password"]; ok {
		decoded["password"] = "$censored"
	}
	censored, err := json.Marshal(decoded)
	if err != nil {
		return body
	}
	return censored
}

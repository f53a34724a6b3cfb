package bootstrap

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	app "github.com/mohammadpnp/alumni-sync/internal/application/alumni"
	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
	"github.com/mohammadpnp/alumni-sync/internal/infrastructure/repository"
	httpecho "github.com/mohammadpnp/alumni-sync/internal/interfaces/http/echo"
)

type ServerDeps struct {
	Importer      app.AlumniImporter
	Results       domain.ImportResultReader
	ImportJobs    *repository.ImportJobRepository
	MemberQueries *repository.MemberQueryRepository
	Log           zerolog.Logger
}

func NewHTTPServer(deps ServerDeps) *echo.Echo {
	server := echo.New()
	server.HideBanner = true
	server.HidePort = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(middleware.BodyLimit("50M"))
	server.Use(requestLogger(deps.Log))

	startImport := app.NewStartImportFromFile(deps.ImportJobs)
	getImportJob := app.NewGetImportJob(deps.ImportJobs)
	importHandler := httpecho.NewImportHandler(startImport, getImportJob)
	memberHandler := httpecho.NewMemberHandler(app.NewGetMember(deps.MemberQueries))
	externalDataHandler := httpecho.NewExternalDataHandler(deps.Importer, deps.Results)

	httpecho.RegisterRoutes(server, externalDataHandler, importHandler, memberHandler)

	server.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return server
}

// requestLogger puts a request scoped logger into the request context and
// writes one line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		BeforeNextFunc: func(c echo.Context) {
			reqLog := log.With().Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).Logger()
			c.SetRequest(c.Request().WithContext(reqLog.WithContext(c.Request().Context())))
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("http request")
			return nil
		},
	})
}

package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qrave1/proctorlink/internal/application/metric"
)

// PrometheusMiddleware создает middleware для сбора метрик HTTP запросов
func PrometheusMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			method := c.Request().Method

			err := next(c)

			// шаблон маршрута, а не сырой URI, иначе /api/events/:session_id раздувает кардинальность
			endpoint := c.Path()
			if endpoint == "" {
				endpoint = "unmatched"
			}

			statusCode := c.Response().Status
			if statusCode == 0 {
				statusCode = 200
			}

			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					statusCode = he.Code
				} else if statusCode < 400 {
					statusCode = 500
				}
			}

			metric.RecordHTTPMetrics(method, endpoint, statusCode, time.Since(start))

			return err
		}
	}
}

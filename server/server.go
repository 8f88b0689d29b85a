package server

import (
	"context"
	"feedstitch/models"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Pipeline produces the display sections and the raw upstream records
type Pipeline interface {
	Run(ctx context.Context) ([]models.Section, error)
	FetchRecords(ctx context.Context) ([]models.Record, error)
}

// RawFetcher loads thumbnail bytes and reports the final request URL
type RawFetcher interface {
	FetchRaw(ctx context.Context, u *url.URL) ([]byte, *url.URL, error)
}

type ServerConfig struct {

	// Pipeline run on every sections request
	Pipeline Pipeline

	// Fetcher used to proxy thumbnails
	Thumbnails RawFetcher

	// Origins allowed to call the API from a browser
	AllowOrigins string
}

type errorResponse struct {
	Error string `json:"error"`
}

// requestContext is cancelled once the handler returns. fasthttp does not
// report client disconnects, so upstream calls are bounded by the handler
// and the fetcher's client timeout.
func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithCancel(c.UserContext())
}

// thumbnailURLs lists the thumbnails of every item in the sections
func thumbnailURLs(sections []models.Section) []string {
	return lo.FlatMap(sections, func(s models.Section, _ int) []string {
		return lo.FilterMap(s.Items(), func(item models.MergedItem, _ int) (string, bool) {
			if item.ThumbnailURL == nil {
				return "", false
			}
			return *item.ThumbnailURL, true
		})
	})
}

// Returns a fiber.App instance serving the sections to a rendering layer
func Server(config *ServerConfig) *fiber.App {

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New())

	allowOrigins := config.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET",
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Runs the pipeline and returns the ordered sections. Either every
	// section is returned or the request fails.
	app.Get("/sections", func(c *fiber.Ctx) error {
		ctx, cancel := requestContext(c)
		defer cancel()

		sections, err := config.Pipeline.Run(ctx)
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error building sections")
			return c.Status(http.StatusBadGateway).JSON(errorResponse{Error: err.Error()})
		}
		return c.JSON(sections)
	})

	// Combined upstream records in their wire shape
	app.Get("/records", func(c *fiber.Ctx) error {
		ctx, cancel := requestContext(c)
		defer cancel()

		records, err := config.Pipeline.FetchRecords(ctx)
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error fetching records")
			return c.Status(http.StatusBadGateway).JSON(errorResponse{Error: err.Error()})
		}
		return c.JSON(models.Feed{Models: records})
	})

	// Proxies the thumbnail of an item in the current sections. Any other URL
	// is refused so the endpoint cannot be used to reach arbitrary hosts.
	app.Get("/thumbnail", func(c *fiber.Ctx) error {
		raw := c.Query("url", "")
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return c.Status(http.StatusBadRequest).JSON(errorResponse{Error: "invalid thumbnail url"})
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		sections, err := config.Pipeline.Run(ctx)
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error building sections")
			return c.Status(http.StatusBadGateway).JSON(errorResponse{Error: err.Error()})
		}
		if !lo.Contains(thumbnailURLs(sections), raw) {
			log.WithFields(log.Fields{
				"url": raw,
			}).Warn("Refusing unknown thumbnail")
			return c.Status(http.StatusNotFound).JSON(errorResponse{Error: "unknown thumbnail"})
		}

		data, finalURL, err := config.Thumbnails.FetchRaw(ctx, u)
		if err != nil {
			log.WithFields(log.Fields{
				"url":   raw,
				"error": err,
			}).Warn("Error fetching thumbnail")
			return c.Status(http.StatusBadGateway).JSON(errorResponse{Error: err.Error()})
		}

		// Only serve the image when it came from the URL that was asked for
		if finalURL.String() != u.String() {
			log.WithFields(log.Fields{
				"url":      raw,
				"finalUrl": finalURL.String(),
			}).Warn("Thumbnail was redirected")
			return c.Status(http.StatusBadGateway).JSON(errorResponse{Error: "thumbnail was redirected"})
		}

		contentType := http.DetectContentType(data)
		if !strings.HasPrefix(contentType, "image/") {
			log.WithFields(log.Fields{
				"url":         raw,
				"contentType": contentType,
			}).Warn("Thumbnail is not an image")
			return c.Status(http.StatusBadGateway).JSON(errorResponse{Error: "thumbnail is not an image"})
		}

		c.Set(fiber.HeaderContentType, contentType)
		return c.Send(data)
	})

	return app
}

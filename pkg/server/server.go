package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"

	"github.com/chemviz/chemviz/pkg/config"
	"github.com/chemviz/chemviz/pkg/contract"
)

const authRealm = `Basic realm="chemviz reports", charset="UTF-8"`

func newApp(cfg *config.Config, service contract.DatasetService) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.BodyLimit,
		ReadBufferSize:        16384,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          120 * time.Second,
		IdleTimeout:           120 * time.Second,
		ServerHeader:          "chemviz/" + cfg.Version,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(compress.New())
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
		Output: logrus.StandardLogger().Writer(),
	}))

	apiApp, err := newAPIApp(service)
	if err != nil {
		return nil, err
	}
	app.Mount("/api", apiApp)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.SendString(cfg.Version)
	})

	return app, nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	var e *contract.Error
	if !errors.As(err, &e) {
		code := contract.ErrorCode_INTERNAL_ERROR

		var f *fiber.Error
		if errors.As(err, &f) {
			switch f.Code {
			case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity, fiber.StatusRequestEntityTooLarge:
				code = contract.ErrorCode_BAD_REQUEST
			case fiber.StatusServiceUnavailable:
				code = contract.ErrorCode_STORE_UNAVAILABLE
			case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
				code = contract.ErrorCode_ENDPOINT_NOT_FOUND
			}
		}

		e = contract.NewError(code, err.Error())
	}

	var fn func(format string, args ...any)

	switch e.StatusCode() {
	case fiber.StatusBadRequest, fiber.StatusUnauthorized:
		fn = logrus.Infof
	case fiber.StatusServiceUnavailable:
		fn = logrus.Warnf
	case fiber.StatusNotFound:
		fn = logrus.Debugf
	default:
		fn = logrus.Errorf
	}

	fn("Error encountered in %s %s: %s", c.Method(), c.Path(), err)

	if e.Code == contract.ErrorCode_PERMISSION_DENIED {
		c.Set(fiber.HeaderWWWAuthenticate, authRealm)
	}

	return c.Status(e.StatusCode()).JSON(e)
}

func newAPIApp(service contract.DatasetService) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	parser, err := NewHTTPRequestParser()
	if err != nil {
		return nil, err
	}

	contract.RegisterDatasetServiceRoutes(service, parser, app)

	return app, nil
}

func launchServer(ctx context.Context, cfg *config.Config, service contract.DatasetService) error {
	app, err := newApp(cfg, service)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout.Duration); err != nil {
			logrus.Errorf("Failed to gracefully shutdown chemviz server: %v", err)
		}
	}()

	logrus.Infof("Starting chemviz server on %s", cfg.Address)

	if err := app.Listen(cfg.Address); err != nil {
		return fmt.Errorf("failed to start chemviz server: %w", err)
	}

	return nil
}

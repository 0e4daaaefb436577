package contract

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RegisterDatasetServiceRoutes mounts the dataset endpoints on app.
//
//nolint:funlen
func RegisterDatasetServiceRoutes(service DatasetService, parser HTTPRequestParser, app *fiber.App) {
	app.Post("/datasets/upload", func(ctx *fiber.Ctx) error {
		file, err := ctx.FormFile("file")
		if err != nil {
			return NewError(ErrorCode_BAD_REQUEST, "No file provided")
		}

		content, err := readUpload(file)
		if err != nil {
			return NewErrorWith(ErrorCode_BAD_REQUEST, "failed to read uploaded file", err)
		}

		input := &IngestDataset{
			Name:     ctx.FormValue("name"),
			Filename: file.Filename,
			Content:  content,
		}
		if err := parser.Validate(input); err != nil {
			return err
		}

		output, cErr := service.IngestDataset(ctx.Context(), input)
		if cErr != nil {
			return cErr
		}

		return ctx.Status(fiber.StatusCreated).JSON(output)
	})

	app.Post("/datasets", func(ctx *fiber.Ctx) error {
		input := &IngestDataset{}
		if err := parser.ParseBody(ctx, input); err != nil {
			return err
		}

		output, err := service.IngestDataset(ctx.Context(), input)
		if err != nil {
			return err
		}

		return ctx.Status(fiber.StatusCreated).JSON(output)
	})

	app.Get("/datasets", func(ctx *fiber.Ctx) error {
		input := &ListDatasets{}
		if err := parser.ParseQuery(ctx, input); err != nil {
			return err
		}

		output, err := service.ListDatasets(ctx.Context(), input)
		if err != nil {
			return err
		}

		return ctx.JSON(output)
	})

	app.Get("/datasets/:id", func(ctx *fiber.Ctx) error {
		input := &GetDataset{}
		if err := parser.ParseParams(ctx, input); err != nil {
			return err
		}

		output, err := service.GetDataset(ctx.Context(), input)
		if err != nil {
			return err
		}

		return ctx.JSON(output)
	})

	exportReport := func(ctx *fiber.Ctx, input *ExportReport) error {
		output, err := service.ExportReport(ctx.Context(), input)
		if err != nil {
			return err
		}

		ctx.Set(fiber.HeaderContentType, output.ContentType)
		ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", output.Filename))

		return ctx.Send(output.Content)
	}

	app.Get("/datasets/:id/generate_report", func(ctx *fiber.Ctx) error {
		input := &ExportReport{}
		if err := parser.ParseParams(ctx, input); err != nil {
			return err
		}

		input.Username, input.Password = basicAuth(ctx)

		return exportReport(ctx, input)
	})

	app.Post("/datasets/:id/generate_report", func(ctx *fiber.Ctx) error {
		input := &ExportReport{}
		if err := parser.ParseParams(ctx, input); err != nil {
			return err
		}

		if len(ctx.Body()) == 0 {
			input.Username, input.Password = basicAuth(ctx)
		} else if err := parser.ParseBody(ctx, input); err != nil {
			return err
		}

		return exportReport(ctx, input)
	})
}

func readUpload(file *multipart.FileHeader) (string, error) {
	handle, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer handle.Close()

	content, err := io.ReadAll(handle)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	return string(content), nil
}

// basicAuth extracts HTTP Basic credentials. A missing or malformed header yields empty
// strings, which the report gate denies.
func basicAuth(ctx *fiber.Ctx) (string, string) {
	const prefix = "basic "

	header := ctx.Get(fiber.HeaderAuthorization)
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ""
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		return "", ""
	}

	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", ""
	}

	return username, password
}

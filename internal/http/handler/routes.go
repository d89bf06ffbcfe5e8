package handler

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"healthdocs/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers are
// thin: they parse parameters, call the document core, and map its errors.
//
// Authentication is out of scope for this service, so the caller's access
// level arrives as an explicit parameter supplied by the upstream gateway.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health endpoint: checks DB connectivity only
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// Simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	docs := app.Group("/api/v1/documents")

	// Upload a PDF (multipart/form-data: file, category, access_level, user_id)
	docs.Post("/", func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		category := c.FormValue("category")
		if category == "" {
			return writeError(c, fiber.StatusBadRequest, "CATEGORY_REQUIRED", "category is required")
		}
		level, err := strconv.Atoi(c.FormValue("access_level"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ACCESS_LEVEL", "invalid access_level")
		}
		userID := c.FormValue("user_id")
		if userID == "" {
			return writeError(c, fiber.StatusBadRequest, "USER_ID_REQUIRED", "user_id is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		id, err := docSvc.Ingest(c.UserContext(), f, fh.Size, fh.Filename, category, level, userID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	})

	// Full-text search, filtered by the caller's access level
	docs.Get("/search", func(c *fiber.Ctx) error {
		query := c.Query("query")
		level, err := strconv.Atoi(c.Query("access_level"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ACCESS_LEVEL", "invalid access_level")
		}

		res, err := docSvc.Search(c.UserContext(), query, c.Query("category"), level)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"result": res})
	})

	// List all documents visible at the caller's access level
	docs.Get("/list", func(c *fiber.Ctx) error {
		level, err := strconv.Atoi(c.Query("access_level"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ACCESS_LEVEL", "invalid access_level")
		}

		res, err := docSvc.List(c.UserContext(), level)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	// Extracted text of one document
	docs.Get("/:id/markdown", func(c *fiber.Ctx) error {
		doc, err := docSvc.GetMarkdown(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"id":       doc.ID,
			"filename": doc.Filename,
			"content":  doc.Content,
		})
	})

	// Original binary, access-checked
	docs.Get("/download/:id", func(c *fiber.Ctx) error {
		level, err := strconv.Atoi(c.Query("access_level"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ACCESS_LEVEL", "invalid access_level")
		}

		rc, info, err := docSvc.Download(c.UserContext(), c.Params("id"), level)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", info.Filename))
		if info.Size > 0 {
			return c.SendStream(rc, int(info.Size))
		}
		return c.SendStream(rc)
	})
}

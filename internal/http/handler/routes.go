package handler

import (
	"context"
	"database/sql"
	"fmt"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/encarrerauy/encarreraok/internal/repository"
	"github.com/encarrerauy/encarreraok/internal/service"
)

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Events      service.EventService
	Disclaimers service.DisclaimerService
	Acceptances service.AcceptanceService
	Admin       service.AdminService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin: parse, delegate, map errors.
func RegisterRoutes(app *fiber.App, db *sql.DB, svcs Services) {
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

	registerEventRoutes(app, svcs)
	registerAcceptanceRoutes(app, svcs)
}

func registerEventRoutes(app *fiber.App, svcs Services) {
	app.Post("/events", func(c *fiber.Ctx) error {
		var in service.CreateEventInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		ev, err := svcs.Events.Create(c.UserContext(), in)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(ev)
	})

	app.Get("/events/:id", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		ev, err := svcs.Events.Get(c.UserContext(), id)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(ev)
	})

	app.Post("/events/:id/deactivate", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svcs.Events.Deactivate(c.UserContext(), id); err != nil {
			return writeDomainError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Post("/events/:id/disclaimers", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in struct {
			Text      string `json:"text"`
			CreatedBy string `json:"created_by"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		ver, err := svcs.Disclaimers.CreateVersion(c.UserContext(), id, in.Text, in.CreatedBy)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(ver)
	})

	app.Get("/events/:id/disclaimers/active", func(c *fiber.Ctx) error {
		ver, err := svcs.Disclaimers.GetActive(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(ver)
	})

	app.Get("/events/:id/disclaimers/:hash", func(c *fiber.Ctx) error {
		ver, err := svcs.Disclaimers.GetByHash(c.UserContext(), c.Params("id"), c.Params("hash"))
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(ver)
	})
}

func registerAcceptanceRoutes(app *fiber.App, svcs Services) {
	app.Post("/events/:id/acceptances", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		req := service.SubmitRequest{
			RequestID:       requestIDFromCtx(c),
			EventID:         id,
			ParticipantName: c.FormValue("participant_name"),
			DocumentNumber:  c.FormValue("document_number"),
			Accepted:        parseCheckbox(c.FormValue("accepted")),
			IP:              c.IP(),
			UserAgent:       c.Get(fiber.HeaderUserAgent),
		}

		slots := []struct {
			field  string
			target **service.EvidencePayload
		}{
			{"signature", &req.Signature},
			{"document_front", &req.DocumentFront},
			{"document_back", &req.DocumentBack},
			{"audio", &req.Audio},
		}
		var opened []multipart.File
		defer func() {
			for _, f := range opened {
				f.Close()
			}
		}()
		for _, slot := range slots {
			fh, err := c.FormFile(slot.field)
			if err != nil {
				continue
			}
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR",
					fmt.Sprintf("cannot open uploaded file %q", slot.field))
			}
			opened = append(opened, f)
			*slot.target = &service.EvidencePayload{
				Filename: fh.Filename,
				Size:     fh.Size,
				Body:     f,
			}
		}

		acc, err := svcs.Acceptances.Submit(c.UserContext(), req)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(acc)
	})

	app.Get("/acceptances", func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "50"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		res, err := svcs.Admin.List(c.UserContext(), c.Query("event_id"), repository.PageQuery{Limit: limit, Offset: offset})
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(res)
	})

	app.Get("/acceptances/:id", func(c *fiber.Ctx) error {
		acc, err := svcs.Admin.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(acc)
	})

	app.Get("/acceptances/:id/verify", func(c *fiber.Ctx) error {
		report, err := svcs.Admin.Verify(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(report)
	})

	app.Get("/acceptances/:id/export", func(c *fiber.Ctx) error {
		id := c.Params("id")
		c.Set(fiber.HeaderContentType, "application/zip")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="acceptance-`+id+`.zip"`)
		if err := svcs.Admin.Export(c.UserContext(), id, c.Response().BodyWriter()); err != nil {
			// Drop the partial archive before writing the error envelope.
			c.Response().ResetBody()
			c.Response().Header.Del(fiber.HeaderContentDisposition)
			return writeDomainError(c, err)
		}
		return nil
	})

	app.Delete("/acceptances/:id", func(c *fiber.Ctx) error {
		if err := svcs.Admin.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeDomainError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// parseCheckbox accepts the usual HTML form spellings of a checked box.
func parseCheckbox(v string) bool {
	switch v {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

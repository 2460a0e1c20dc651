package handler

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docissuer/internal/model"
	"docissuer/internal/service"
)

// dateLayout is the wire format of calendar dates in request bodies.
const dateLayout = "2006-01-02"

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, model.InvalidField(field, "expected YYYY-MM-DD")
	}
	return t, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// listHandler serves limit, offset, search and ordering. The student filter
// is accepted only when byStudent is set; custom invoices have no student.
func listHandler[T any](list func(ctx context.Context, q service.ListQuery) (*service.ListResult[T], error), byStudent bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		q := service.ListQuery{
			Limit:    limit,
			Offset:   offset,
			Search:   c.Query("search"),
			Ordering: c.Query("ordering"),
		}
		if raw := c.Query("student"); raw != "" {
			if !byStudent {
				return writeFieldError(c, fiber.StatusBadRequest, "INVALID_FILTER", "student filter is not supported here", "student")
			}
			q.StudentID, err = strconv.ParseInt(raw, 10, 64)
			if err != nil || q.StudentID <= 0 {
				return writeFieldError(c, fiber.StatusBadRequest, "INVALID_FILTER", "invalid student", "student")
			}
		}
		res, err := list(c.UserContext(), q)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

func getHandler[T any](get func(ctx context.Context, id string) (*T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if !validID(id) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rec, err := get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rec)
	}
}

func deleteHandler(del func(ctx context.Context, id string) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if !validID(id) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := del(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func downloadHandler(download func(ctx context.Context, id string) (model.RenderedArtifact, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if !validID(id) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		art, err := download(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, art.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, art.Filename))
		return c.Send(art.Data)
	}
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/service"
)

// GetCover streams a stored cover. Covers are content addressed so responses never go stale.
//
// @Summary  Download a cover
// @Tags     covers
// @Param    id  path  int  true  "asset id"
// @Success  200
// @Failure  404  {object}  errorPayload
// @Router   /covers/{id} [get]
func GetCover(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		rc, a, err := svc.OpenCover(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentType, a.ContentType)
		c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
		c.Set(fiber.HeaderETag, `"`+a.Digest+`"`)
		return c.SendStream(rc)
	}
}

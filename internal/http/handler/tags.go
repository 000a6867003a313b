package handler

import (
	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/service"
)

// ListTags returns every tag by name.
//
// @Summary  List tags
// @Tags     tags
// @Success  200  {array}  model.Tag
// @Router   /tags [get]
func ListTags(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tags, err := svc.ListTags(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(tags)
	}
}

// CreateTag adds a tag.
//
// @Summary  Create a tag
// @Tags     tags
// @Param    name  formData  string  true  "tag name"
// @Success  201  {object}  model.Tag
// @Failure  409  {object}  errorPayload
// @Router   /tags [post]
func CreateTag(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := svc.CreateTag(c.UserContext(), c.FormValue("name"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	}
}

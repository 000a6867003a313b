package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/auth"
	"catalogapi/internal/model"
	"catalogapi/internal/service"
)

// entryResponse is an entry plus an optional warning about its cover file.
type entryResponse struct {
	*model.Entry
	Warning string `json:"warning,omitempty"`
}

const (
	coverWriteWarning  = "entry saved but the cover file could not be written; upload the same cover again to repair it"
	coverDeleteWarning = "entry deleted but the cover file could not be removed"
)

// ListEntries returns entries newest year first.
//
// @Summary  List entries
// @Tags     entries
// @Param    limit   query  int  false  "page size"  default(10)
// @Param    offset  query  int  false  "offset"     default(0)
// @Success  200  {object}  service.EntryListResult
// @Router   /entries [get]
func ListEntries(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.ListEntries(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// CreateEntry accepts a multipart form with the entry fields, tags and the cover file.
//
// @Summary  Create an entry
// @Tags     entries
// @Accept   multipart/form-data
// @Param    title        formData  string  true  "title"
// @Param    description  formData  string  true  "description"
// @Param    year         formData  int     true  "release year"
// @Param    label        formData  string  true  "label"
// @Param    author       formData  string  true  "author"
// @Param    pages        formData  int     true  "track count"
// @Param    tags         formData  []int   true  "tag ids"
// @Param    file         formData  file    true  "cover (png, jpg, jpeg)"
// @Success  201  {object}  model.Entry
// @Failure  400  {object}  errorPayload
// @Failure  409  {object}  errorPayload
// @Router   /entries [post]
func CreateEntry(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fields, err := entryFields(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		up, err := readUpload(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot read uploaded file", "file")
		}

		e, err := svc.CreateEntry(c.UserContext(), fields, up)
		var fe *service.FileError
		if errors.As(err, &fe) && e != nil {
			return c.Status(fiber.StatusCreated).JSON(entryResponse{Entry: e, Warning: coverWriteWarning})
		}
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(entryResponse{Entry: e})
	}
}

// GetEntry returns an entry with its reviews.
//
// @Summary  Get an entry
// @Tags     entries
// @Param    id  path  int  true  "entry id"
// @Success  200  {object}  service.EntryView
// @Failure  404  {object}  errorPayload
// @Router   /entries/{id} [get]
func GetEntry(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var viewer int64
		if p := auth.FromContext(c.UserContext()); p != nil {
			viewer = p.ID
		}

		view, err := svc.GetEntry(c.UserContext(), id, viewer)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(view)
	}
}

// UpdateEntry replaces the editable fields and tags of an entry. The cover stays.
//
// @Summary  Update an entry
// @Tags     entries
// @Param    id  path  int  true  "entry id"
// @Success  200  {object}  model.Entry
// @Failure  400  {object}  errorPayload
// @Failure  404  {object}  errorPayload
// @Router   /entries/{id} [put]
func UpdateEntry(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		fields, err := entryFields(c)
		if err != nil {
			return writeServiceError(c, err)
		}

		e, err := svc.UpdateEntry(c.UserContext(), id, fields)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(e)
	}
}

// DeleteEntry removes an entry, its reviews and, when unshared, its cover.
//
// @Summary  Delete an entry
// @Tags     entries
// @Param    id  path  int  true  "entry id"
// @Success  204
// @Failure  404  {object}  errorPayload
// @Router   /entries/{id} [delete]
func DeleteEntry(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		err := svc.DeleteEntry(c.UserContext(), id)
		var fe *service.FileError
		if errors.As(err, &fe) {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"warning": coverDeleteWarning})
		}
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// AddReview records the caller's review of an entry.
//
// @Summary  Review an entry
// @Tags     reviews
// @Param    id     path      int     true  "entry id"
// @Param    score  formData  int     true  "score 0-5"
// @Param    text   formData  string  true  "review text"
// @Success  201  {object}  model.Review
// @Failure  409  {object}  errorPayload
// @Router   /entries/{id}/reviews [post]
func AddReview(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		score, err := strconv.Atoi(c.FormValue("score"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "please fill in all fields", "score")
		}
		var author int64
		if p := auth.FromContext(c.UserContext()); p != nil {
			author = p.ID
		}

		r, err := svc.AddReview(c.UserContext(), id, author, score, c.FormValue("text"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(r)
	}
}

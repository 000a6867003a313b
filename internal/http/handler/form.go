package handler

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/model"
	"catalogapi/internal/service"
)

// pathID parses the :id route parameter as a positive integer.
func pathID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// formValues returns every value of a repeated form field, accepting both "key" and "key[]",
// from multipart and url-encoded bodies.
func formValues(c *fiber.Ctx, key string) []string {
	if form, err := c.MultipartForm(); err == nil {
		if v := form.Value[key]; len(v) > 0 {
			return v
		}
		return form.Value[key+"[]"]
	}

	var out []string
	args := c.Request().PostArgs()
	for _, k := range []string{key, key + "[]"} {
		for _, b := range args.PeekMulti(k) {
			out = append(out, string(b))
		}
	}
	return out
}

// formInt reads an integer form field. Empty or malformed input reads as zero, which the
// catalog reports as a missing field.
func formInt(c *fiber.Ctx, key string) int {
	n, err := strconv.Atoi(c.FormValue(key))
	if err != nil {
		return 0
	}
	return n
}

func entryFields(c *fiber.Ctx) (model.EntryFields, error) {
	f := model.EntryFields{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Year:        formInt(c, "year"),
		Label:       c.FormValue("label"),
		Author:      c.FormValue("author"),
		Pages:       formInt(c, "pages"),
	}
	for _, raw := range formValues(c, "tags") {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return f, &service.ValidationError{Fields: []string{"tags"}, Reason: "invalid tag id"}
		}
		f.TagIDs = append(f.TagIDs, id)
	}
	return f, nil
}

// readUpload buffers the "file" part. A missing part yields nil so the catalog can report it.
func readUpload(c *fiber.Ctx) (*model.Upload, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &model.Upload{
		Content:     content,
		ContentType: fh.Header.Get("Content-Type"),
		Filename:    fh.Filename,
	}, nil
}

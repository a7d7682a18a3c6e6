package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
	"merchantportal/internal/validate"
)

type FileHandler struct {
	Files *services.FileService
}

// GET /files?page&pageSize
func (h *FileHandler) List(c *fiber.Ctx) error {
	page := validate.Page(c.Query("page"))
	size := validate.Clamp(c.Query("pageSize"), services.FilePageSize, 1, services.MaxFilePageSize)
	files, err := h.Files.List(apiCtx(c), page, size)
	if err != nil {
		degrade(c, "files.list.fail", err, nil)
	}
	return render(c, "files", fiber.Map{"View": domain.FilesView{Files: files}, "MaxSizeMB": services.MaxFileSize >> 20})
}

// POST /files/upload (multipart "file")
func (h *FileHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "file"})
		flash(c, "error", tr(c, "files.choose", "Choose a file to upload."))
		return c.Redirect("/files")
	}
	if fh.Size > services.MaxFileSize {
		applog.Security(c, "validation.fail", map[string]any{"field": "file", "size": fh.Size})
		flash(c, "error", tr(c, "files.too_large", "Files may be at most 10 MB."))
		return c.Redirect("/files")
	}
	part, err := readPart(fh)
	if err != nil {
		applog.Error(c, "files.read.fail", err, nil)
		flash(c, "error", tr(c, "files.read_failed", "The file could not be read."))
		return c.Redirect("/files")
	}
	res, err := h.Files.Upload(apiCtx(c), part)
	if err != nil {
		actionFail(c, "files.upload.fail", err, map[string]any{"file": part.FileName})
		return c.Redirect("/files")
	}
	applog.Audit(c, "files.upload", map[string]any{"file": part.FileName, "size": len(part.Content), "url": res.BlobURL})
	flash(c, "success", tr(c, "files.uploaded", "File uploaded."))
	return c.Redirect("/files")
}

// POST /files/:container/:name/delete
func (h *FileHandler) Delete(c *fiber.Ctx) error {
	container, errC := url.PathUnescape(c.Params("container"))
	name, errN := url.PathUnescape(c.Params("name"))
	if errC != nil || errN != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "file"})
		return renderError(c, fiber.StatusBadRequest, "Invalid file name")
	}
	if err := h.Files.Delete(apiCtx(c), container, name); err != nil {
		actionFail(c, "files.delete.fail", err, map[string]any{"container": container, "file": name})
		return c.Redirect("/files")
	}
	applog.Audit(c, "files.delete", map[string]any{"container": container, "file": name})
	flash(c, "success", tr(c, "files.deleted", "File deleted."))
	return c.Redirect("/files")
}

package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
	"merchantportal/internal/validate"
)

const maxDocumentSize = 10 << 20

type DocumentHandler struct {
	Documents *services.DocumentService
}

// GET /documents?documentType&status&page
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	view, err := h.Documents.Page(apiCtx(c), merchantOf(c),
		strings.TrimSpace(c.Query("documentType")), strings.TrimSpace(c.Query("status")),
		validate.Page(c.Query("page")))
	if err != nil {
		degrade(c, "documents.list.fail", err, nil)
	}
	return render(c, "documents", fiber.Map{"View": view})
}

// POST /documents/upload
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil || fh.Size == 0 || fh.Size > maxDocumentSize {
		applog.Security(c, "validation.fail", map[string]any{"field": "file"})
		flash(c, "error", tr(c, "documents.file.invalid", "Choose a file up to 10 MB."))
		return c.Redirect("/documents")
	}
	part, err := readPart(fh)
	if err != nil {
		applog.Error(c, "documents.upload.read.fail", err, nil)
		flash(c, "error", tr(c, "documents.file.invalid", "Choose a file up to 10 MB."))
		return c.Redirect("/documents")
	}
	doc, err := h.Documents.Upload(apiCtx(c), domain.DocumentUpload{
		MerchantID:   merchantOf(c),
		DocumentType: strings.TrimSpace(c.FormValue("documentType")),
		Notes:        strings.TrimSpace(c.FormValue("notes")),
		FileName:     part.FileName,
		ContentType:  part.ContentType,
		Content:      part.Content,
	})
	if err != nil {
		applog.Error(c, "documents.upload.fail", err, map[string]any{"file": fh.Filename, "size": fh.Size})
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/documents")
	}
	applog.Audit(c, "documents.upload", map[string]any{"document_id": doc.ID.String(), "size": fh.Size})
	flash(c, "success", tr(c, "documents.uploaded", "Document uploaded."))
	return c.Redirect("/documents")
}

// GET /documents/:id/download
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Document not found")
	}
	dl, err := h.Documents.Download(apiCtx(c), id)
	if err != nil {
		applog.Error(c, "documents.download.fail", err, map[string]any{"document_id": id.String()})
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/documents")
	}
	name := dl.FileName
	if name == "" {
		name = id.String()
	}
	ct := dl.ContentType
	if ct == "" {
		ct = fiber.MIMEOctetStream
	}
	applog.Audit(c, "documents.download", map[string]any{"document_id": id.String()})
	c.Set(fiber.HeaderContentType, ct)
	c.Attachment(name)
	return c.Send(dl.Content)
}

// POST /documents/:id/delete
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid document")
	}
	if err := h.Documents.Delete(apiCtx(c), id); err != nil {
		applog.Error(c, "documents.delete.fail", err, map[string]any{"document_id": id.String()})
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/documents")
	}
	applog.Audit(c, "documents.delete", map[string]any{"document_id": id.String()})
	flash(c, "success", tr(c, "documents.deleted", "Document deleted."))
	return c.Redirect("/documents")
}

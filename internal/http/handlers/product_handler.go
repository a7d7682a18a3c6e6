package handlers

import (
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
	"merchantportal/internal/validate"
)

const maxImageSize = 5 << 20

type ProductHandler struct {
	Products *services.ProductService
}

// GET /products?page&q&categoryId
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page := validate.Page(c.Query("page"))
	view := domain.ProductListView{CategoryID: c.Query("categoryId")}
	ctx := apiCtx(c)

	var err error
	rawQ := c.Query("q")
	if rawQ != "" || view.CategoryID != "" {
		q, ok := validate.Q(rawQ)
		if rawQ != "" && !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "q"})
			q = ""
		}
		view.Query = q
		view.Products, err = h.Products.Search(ctx, q, view.CategoryID, page)
	} else {
		view.Products, err = h.Products.List(ctx, page)
	}
	if err != nil {
		degrade(c, "products.list.fail", err, map[string]any{"page": page})
		view.Products = domain.EmptyPage[domain.Product](page, services.ProductPageSize)
	}
	view.Categories = h.categories(c)
	return render(c, "products", fiber.Map{"View": view})
}

func (h *ProductHandler) categories(c *fiber.Ctx) []domain.ProductCategory {
	cats, err := h.Products.MyCategories(apiCtx(c))
	if err != nil {
		applog.Error(c, "products.categories.fail", err, nil)
	}
	if cats == nil {
		return []domain.ProductCategory{}
	}
	return cats
}

// GET /products/new
func (h *ProductHandler) New(c *fiber.Ctx) error {
	return render(c, "product_form", fiber.Map{
		"Product":    domain.Product{IsActive: true, IsAvailable: true},
		"Categories": h.categories(c),
	})
}

// GET /products/:id/edit
func (h *ProductHandler) Edit(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Product not found")
	}
	p, err := h.Products.Get(apiCtx(c), id)
	if err != nil {
		applog.Error(c, "products.get.fail", err, map[string]any{"product_id": id.String()})
		return renderError(c, fiber.StatusNotFound, "Product not found")
	}
	return render(c, "product_form", fiber.Map{"Product": p, "Categories": h.categories(c)})
}

// POST /products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	return h.save(c, uuid.Nil)
}

// POST /products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid product")
	}
	return h.save(c, id)
}

func (h *ProductHandler) save(c *fiber.Ctx, id uuid.UUID) error {
	req, field := productRequest(c)
	if field == "" {
		if err := validate.Struct(req); err != nil {
			for f := range validate.Fields(err) {
				field = f
				break
			}
		}
	}
	if field != "" {
		applog.Security(c, "validation.fail", map[string]any{"field": field})
		return h.formError(c, id, req, tr(c, "validation.fields", "Please check the highlighted fields."))
	}

	ctx := apiCtx(c)
	if fh, err := c.FormFile("image"); err == nil && fh.Size > 0 {
		if fh.Size > maxImageSize || !strings.HasPrefix(fh.Header.Get(fiber.HeaderContentType), "image/") {
			applog.Security(c, "validation.fail", map[string]any{"field": "image"})
			return h.formError(c, id, req, tr(c, "products.image.invalid", "The image must be a picture of at most 5 MB."))
		}
		part, err := readPart(fh)
		if err == nil {
			var url string
			if url, err = h.Products.UploadImage(ctx, part); err == nil {
				req.ImageURL = url
			}
		}
		if err != nil {
			applog.Error(c, "products.image.upload.fail", err, nil)
			return h.formError(c, id, req, userMessage(c, err))
		}
	}

	var (
		p   domain.Product
		err error
	)
	if id == uuid.Nil {
		p, err = h.Products.Create(ctx, req)
	} else {
		p, err = h.Products.Update(ctx, id, req)
	}
	if err != nil {
		applog.Error(c, "products.save.fail", err, map[string]any{"product_id": id.String()})
		return h.formError(c, id, req, userMessage(c, err))
	}
	applog.Audit(c, "products.save", map[string]any{"product_id": p.ID.String(), "created": id == uuid.Nil})
	flash(c, "success", tr(c, "products.saved", "Product saved."))
	return c.Redirect("/products")
}

func (h *ProductHandler) formError(c *fiber.Ctx, id uuid.UUID, req domain.ProductRequest, msg string) error {
	p := domain.Product{
		ID:                id,
		ProductCategoryID: req.ProductCategoryID,
		Name:              req.Name,
		Description:       req.Description,
		ImageURL:          req.ImageURL,
		Price:             req.Price,
		DiscountedPrice:   req.DiscountedPrice,
		StockQuantity:     req.StockQuantity,
		Unit:              req.Unit,
		IsAvailable:       req.IsAvailable,
		IsActive:          req.IsActive,
		DisplayOrder:      req.DisplayOrder,
	}
	flashNow(c, "error", msg)
	c.Status(fiber.StatusBadRequest)
	return render(c, "product_form", fiber.Map{"Product": p, "Categories": h.categories(c)})
}

// POST /products/:id/delete
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid product")
	}
	if err := h.Products.Delete(apiCtx(c), id); err != nil {
		applog.Error(c, "products.delete.fail", err, map[string]any{"product_id": id.String()})
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/products")
	}
	applog.Audit(c, "products.delete", map[string]any{"product_id": id.String()})
	flash(c, "success", tr(c, "products.deleted", "Product deleted."))
	return c.Redirect("/products")
}

// productRequest reads the product form. The returned field names the first value that
// does not parse.
func productRequest(c *fiber.Ctx) (domain.ProductRequest, string) {
	req := domain.ProductRequest{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: strings.TrimSpace(c.FormValue("description")),
		ImageURL:    strings.TrimSpace(c.FormValue("imageUrl")),
		Unit:        strings.TrimSpace(c.FormValue("unit")),
		IsAvailable: formBool(c, "isAvailable"),
		IsActive:    formBool(c, "isActive"),
	}
	if cid, ok := validate.ID(c.FormValue("productCategoryId")); ok {
		req.ProductCategoryID = &cid
	}
	price, ok := formDecimal(c.FormValue("price"))
	if !ok || !price.Valid || price.Decimal.IsNegative() {
		return req, "price"
	}
	req.Price = price.Decimal
	if req.DiscountedPrice, ok = formDecimal(c.FormValue("discountedPrice")); !ok {
		return req, "discountedPrice"
	}
	var err error
	if req.StockQuantity, err = formInt(c.FormValue("stockQuantity")); err != nil {
		return req, "stockQuantity"
	}
	if req.DisplayOrder, err = formInt(c.FormValue("displayOrder")); err != nil {
		return req, "displayOrder"
	}
	return req, ""
}

// formDecimal parses an optional money value; both "12.5" and "12,5" are accepted.
func formDecimal(s string) (decimal.NullDecimal, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.NullDecimal{}, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, false
	}
	return decimal.NewNullDecimal(d), true
}

// formInt treats an empty value as zero.
func formInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// formBool accepts the values checkboxes and hidden inputs send.
func formBool(c *fiber.Ctx, key string) bool {
	switch strings.ToLower(strings.TrimSpace(c.FormValue(key))) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// formValues returns every value posted under key, for urlencoded and multipart bodies.
func formValues(c *fiber.Ctx, key string) []string {
	if form, err := c.MultipartForm(); err == nil {
		return form.Value[key]
	}
	var out []string
	for _, v := range c.Request().PostArgs().PeekMulti(key) {
		out = append(out, string(v))
	}
	return out
}

// readPart loads an uploaded file into memory for forwarding to the backend.
func readPart(fh *multipart.FileHeader) (apiclient.FilePart, error) {
	f, err := fh.Open()
	if err != nil {
		return apiclient.FilePart{}, err
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return apiclient.FilePart{}, err
	}
	return apiclient.FilePart{FileName: fh.Filename, ContentType: fh.Header.Get(fiber.HeaderContentType), Content: b}, nil
}

package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/store-service/internal/api/dto"
	"github.com/spec-kit/store-service/internal/auth"
	"github.com/spec-kit/store-service/internal/render"
	"github.com/spec-kit/store-service/internal/repository"
	"github.com/spec-kit/store-service/internal/service"
	apperrors "github.com/spec-kit/store-service/pkg/util/errorutil"
)

const msgProductFieldsRequired = "product_name, quantity, price are required"

// ProductsHandler exposes the catalog.
type ProductsHandler struct {
	products *service.ProductService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(products *service.ProductService) *ProductsHandler {
	return &ProductsHandler{products: products}
}

// Create handles POST /api/product.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req, msgProductFieldsRequired); err != nil {
		return err
	}

	product, err := h.products.CreateProduct(c.UserContext(), actorID(c), req.Input())
	if err != nil {
		return err
	}
	return render.Send(c, http.StatusCreated, render.Success(render.RootResponse, dto.ProductCreatedResponse{
		Message: "Product added successfully!",
		Product: *product,
	}))
}

// List handles GET /api/product.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	return h.list(c, "")
}

// Search handles GET /api/product/search?name=.
func (h *ProductsHandler) Search(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return apperrors.NewValidationError("name query parameter is required", nil)
	}
	return h.list(c, name)
}

func (h *ProductsHandler) list(c *fiber.Ctx, name string) error {
	products, err := h.products.ListProducts(c.UserContext(), repository.ProductFilter{
		Name:   name,
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	})
	if err != nil {
		return err
	}
	return render.Send(c, http.StatusOK, render.Success(render.RootResponse, products).WithItemTag(render.RootProduct))
}

// Get handles GET /api/product/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	product, err := h.products.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return render.Send(c, http.StatusOK, render.Success(render.RootProduct, product))
}

// Replace handles PUT /api/product/:id.
func (h *ProductsHandler) Replace(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req, msgProductFieldsRequired); err != nil {
		return err
	}

	product, err := h.products.ReplaceProduct(c.UserContext(), actorID(c), id, req.Input())
	if err != nil {
		return err
	}
	return render.Send(c, http.StatusOK, render.Success(render.RootProduct, product))
}

// Patch handles PATCH /api/product/:id.
func (h *ProductsHandler) Patch(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	var req dto.ProductPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req, msgProductFieldsRequired); err != nil {
		return err
	}

	product, err := h.products.PatchProduct(c.UserContext(), actorID(c), id, req.Patch())
	if err != nil {
		return err
	}
	return render.Send(c, http.StatusOK, render.Success(render.RootProduct, product))
}

// Delete handles DELETE /api/product/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	if err := h.products.DeleteProduct(c.UserContext(), actorID(c), id); err != nil {
		return err
	}
	return render.Send(c, http.StatusOK, render.Message(fmt.Sprintf("Product with id %d has been deleted", id)))
}

func productID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("Wrong id - should be number", nil)
	}
	return id, nil
}

func actorID(c *fiber.Ctx) int64 {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return 0
	}
	return claims.SubjectID()
}

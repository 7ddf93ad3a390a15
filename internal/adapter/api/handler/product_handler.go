package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"marketcore/internal/domain/entity"
	"marketcore/internal/usecase"
	"marketcore/pkg/locale"
	"marketcore/pkg/response"
	"marketcore/pkg/utils"
)

type ProductHandler struct {
	catalogUseCase *usecase.CatalogUseCase
	loc            Localization
}

func NewProductHandler(catalogUseCase *usecase.CatalogUseCase, loc Localization) *ProductHandler {
	return &ProductHandler{
		catalogUseCase: catalogUseCase,
		loc:            loc,
	}
}

type listProductsRequest struct {
	Query    string `query:"q" validate:"max=200"`
	Category string `query:"category" validate:"max=100"`
	Sort     string `query:"sort" validate:"omitempty,oneof=newest price-low price-high featured"`
}

type productResponse struct {
	*entity.Product
	DisplayPrice locale.Price `json:"display_price"`
}

func (h *ProductHandler) present(c echo.Context, products []*entity.Product) []productResponse {
	lang := h.loc.language(c)
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = productResponse{Product: p, DisplayPrice: locale.DisplayPrice(p.Price, lang, h.loc.THBRate)}
	}
	return out
}

// ListProducts returns the filtered, sorted listing. Pagination applies to
// the derived view.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	var req listProductsRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	view, err := h.catalogUseCase.ViewWith(c.Request().Context(), entity.FilterState{
		Query:    req.Query,
		Category: req.Category,
		Sort:     entity.ParseSortKey(req.Sort),
	})
	if err != nil {
		return response.Error(c, err)
	}

	page := utils.GetPaginationParams(c)
	start, end := page.Window(len(view))
	return response.Paginated(c, h.present(c, view[start:end]), int64(len(view)), page.Page, page.PageSize)
}

func (h *ProductHandler) GetFeatured(c echo.Context) error {
	limit := usecase.DefaultFeaturedLimit
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	products, err := h.catalogUseCase.Featured(c.Request().Context(), limit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, h.present(c, products))
}

func (h *ProductHandler) GetCategories(c echo.Context) error {
	categories, err := h.catalogUseCase.Categories(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, categories)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.catalogUseCase.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, h.present(c, []*entity.Product{product})[0])
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gogomarket/gogomarket-BE/internal/db"
	"github.com/gogomarket/gogomarket-BE/internal/util"
	"github.com/rs/zerolog/log"
)

type createProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"required,gt=0"`
	Quantity    int64  `json:"quantity" binding:"required,min=0"`
}

//	@Summary	Create a product listing
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Param		createProductRequest	body		createProductRequest	true	"Product details"
//	@Success	201						{object}	db.Product
//	@Security	accessToken
//	@Router		/sellers/me/products [post]
func (server *Server) createProduct(ctx *gin.Context) {
	authPayload := getAuthPayload(ctx)

	req := new(createProductRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	product, err := server.dbStore.CreateProduct(ctx, db.CreateProductParams{
		SellerID:    authPayload.Subject,
		Name:        req.Name,
		Slug:        util.GenerateRandomSlug(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Status:      db.ProductStatusActive,
	})
	if err != nil {
		log.Err(err).Msg("failed to create product")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

//	@Summary	List all active products
//	@Tags		products
//	@Produce	json
//	@Success	200	{array}	db.Product
//	@Router		/products [get]
func (server *Server) listProducts(ctx *gin.Context) {
	products, err := server.dbStore.ListProducts(ctx)
	if err != nil {
		log.Err(err).Msg("failed to list products")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, products)
}

//	@Summary	Get a product by slug
//	@Tags		products
//	@Produce	json
//	@Param		slug	path		string	true	"Product slug"
//	@Success	200		{object}	db.Product
//	@Failure	404		{object}	gin.H
//	@Router		/products/{slug} [get]
func (server *Server) getProductBySlug(ctx *gin.Context) {
	product, err := server.dbStore.GetProductBySlug(ctx, ctx.Param("slug"))
	if err != nil {
		server.handleDomainError(ctx, "", err)
		return
	}

	ctx.JSON(http.StatusOK, product)
}

//	@Summary	List the authenticated seller's products
//	@Tags		products
//	@Produce	json
//	@Success	200	{array}	db.Product
//	@Security	accessToken
//	@Router		/sellers/me/products [get]
func (server *Server) listSellerProducts(ctx *gin.Context) {
	authPayload := getAuthPayload(ctx)

	products, err := server.dbStore.ListProductsBySeller(ctx, authPayload.Subject)
	if err != nil {
		log.Err(err).Msg("failed to list seller products")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, products)
}

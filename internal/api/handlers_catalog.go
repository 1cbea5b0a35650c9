package api

import (
	"net/http"

	"tienda-api/internal/service"

	"github.com/gin-gonic/gin"
)

// listProducts handles GET /api/products
func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// getProduct handles GET /api/products/:id
func (h *Handler) getProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	product, images, reviews, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"producto": product,
		"imagenes": images,
		"resenas":  reviews,
	})
}

// listProductReviews handles GET /api/products/:id/reviews
func (h *Handler) listProductReviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	reviews, err := h.reviews.ListProductReviews(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// listCategories handles GET /api/categories
func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// createProduct handles POST /api/admin/products
func (h *Handler) createProduct(c *gin.Context) {
	var req service.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// updateProduct handles PUT /api/admin/products/:id
func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// deleteProduct handles DELETE /api/admin/products/:id
func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Producto desactivado"})
}

// adjustStock handles PUT /api/admin/products/:id/stock
func (h *Handler) adjustStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Delta int `json:"delta" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	newStock, err := h.catalog.AdjustStock(c.Request.Context(), id, req.Delta, CurrentPrincipal(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock": newStock})
}

// createCategory handles POST /api/admin/categories
func (h *Handler) createCategory(c *gin.Context) {
	var req service.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// deleteCategory handles DELETE /api/admin/categories/:id
func (h *Handler) deleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	message, err := h.catalog.DeleteCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// uploadProductImages handles POST /api/admin/products/:id/images
func (h *Handler) uploadProductImages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No se recibió ninguna imagen"})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No se recibió ninguna imagen"})
		return
	}

	saved := make([]interface{}, 0, len(files))
	for _, file := range files {
		url, err := h.uploads.SaveProductImage(c, file, id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "La imagen no es válida (máximo 2 MB, formato JPG/PNG/WebP)"})
			return
		}

		img, err := h.catalog.AddProductImage(c.Request.Context(), id, url)
		if err != nil {
			h.uploads.Remove(url)
			respondError(c, err)
			return
		}
		saved = append(saved, img)
	}
	c.JSON(http.StatusCreated, gin.H{"imagenes": saved})
}

// setPrincipalImage handles PUT /api/admin/products/:id/images/:imageId/principal
func (h *Handler) setPrincipalImage(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	imageID, ok := pathID(c, "imageId")
	if !ok {
		return
	}

	img, err := h.catalog.SetPrincipalImage(c.Request.Context(), productID, imageID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, img)
}

// deleteProductImage handles DELETE /api/admin/products/:id/images/:imageId
func (h *Handler) deleteProductImage(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	imageID, ok := pathID(c, "imageId")
	if !ok {
		return
	}

	img, err := h.catalog.DeleteProductImage(c.Request.Context(), productID, imageID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.uploads.Remove(img.URL)
	c.JSON(http.StatusOK, gin.H{"message": "Imagen eliminada"})
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// CatalogHandler expõe o catálogo usado pela agenda (somente leitura).
type CatalogHandler struct {
	db *gorm.DB
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// activeFilter aplica ?active=true|false; vazio lista tudo.
func activeFilter(c *gin.Context, q *gorm.DB) *gorm.DB {
	switch strings.TrimSpace(c.Query("active")) {
	case "true":
		return q.Where("active = ?", true)
	case "false":
		return q.Where("active = ?", false)
	}
	return q
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	q := activeFilter(c, h.db.WithContext(c.Request.Context()).Model(&models.Service{}))

	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+query+"%")
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_services"})
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *CatalogHandler) ListProfessionals(c *gin.Context) {
	q := activeFilter(c, h.db.WithContext(c.Request.Context()).Model(&models.Professional{}))

	var professionals []models.Professional
	if err := q.Order("name ASC").Find(&professionals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_professionals"})
		return
	}

	c.JSON(http.StatusOK, professionals)
}

func (h *CatalogHandler) ListPaymentMethods(c *gin.Context) {
	q := activeFilter(c, h.db.WithContext(c.Request.Context()).Model(&models.PaymentMethod{}))

	var methods []models.PaymentMethod
	if err := q.Order("name ASC").Find(&methods).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_payment_methods"})
		return
	}

	c.JSON(http.StatusOK, methods)
}

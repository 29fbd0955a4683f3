package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"snapbook/internal/apperr"
	"snapbook/internal/services"
)

func GetServices(s *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := s.ListServices(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

func GetServiceByID(s *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		service, err := s.GetServiceByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, service)
	}
}

func CreateService(s *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CreateServiceInput
		if err := c.ShouldBindJSON(&in); err != nil {
			_ = c.Error(apperr.Validation("invalid request body: %v", err))
			return
		}

		created, err := s.CreateService(c.Request.Context(), callerFrom(c), in)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusCreated, created)
	}
}

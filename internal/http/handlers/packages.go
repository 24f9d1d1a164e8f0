package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tripbook/internal/services"
)

// GET /api/packages?agentId=
func (a API) ListPackages(c *gin.Context) {
	var agentID int64
	if v := c.Query("agentId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id < 0 {
			RespondError(c, http.StatusBadRequest, "agentId tidak valid", err)
			return
		}
		agentID = id
	}
	out, err := a.Packages.List(c.Request.Context(), agentID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/packages/:id
func (a API) GetPackage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	p, err := a.Packages.Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /api/packages
func (a API) CreatePackage(c *gin.Context) {
	var req services.CreatePackageInput
	if !BindJSONOrError(c, &req) {
		return
	}
	p, err := a.Packages.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GET /api/packages/:id/reviews
func (a API) ListPackageReviews(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	out, err := a.Reviews.ListForPackage(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripbook/internal/services"
)

// POST /api/reviews
func (a API) SubmitReview(c *gin.Context) {
	var req services.SubmitReviewInput
	if !BindJSONOrError(c, &req) {
		return
	}
	rv, err := a.Reviews.Submit(c.Request.Context(), actor(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rv)
}

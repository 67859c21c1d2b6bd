package handlers

import (
	"net/http"

	"tutorhive/utils"

	"github.com/gin-gonic/gin"
)

// Health reports the latest stored health snapshot.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}

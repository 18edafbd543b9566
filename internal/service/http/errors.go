package httpsvc

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
)

const (
	msgGameNotFound   = "Game not found"
	msgOrderNotFound  = "Order not found"
	msgInvalidBody    = "invalid request body"
	msgInvalidGameID  = "invalid game id"
	msgInvalidOrderID = "invalid order id"
)

type errorResponse struct {
	Error string `json:"error"`
}

// respondError переводит доменную ошибку в HTTP-ответ. Детали ошибок хранилища
// уходят только в лог, клиенту возвращается failureMsg.
func respondError(c *gin.Context, logger *log.Entry, err error, notFoundMsg, failureMsg string) {
	var validationErr *domain.ValidationError
	switch {
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, errorResponse{Error: notFoundMsg})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: validationErr.Error()})
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		requestLogger(c, logger).WithError(err).Error(failureMsg)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: failureMsg})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

// parseID разбирает положительный :id; false означает, что ответ уже записан.
func parseID(c *gin.Context, invalidMsg string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, invalidMsg)
		return 0, false
	}
	return id, true
}

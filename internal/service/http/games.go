package httpsvc

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
)

// GameHandlers обслуживает /games.
type GameHandlers struct {
	repo   domain.GameRepository
	logger *log.Entry
}

// NewGameHandlers создаёт обработчики каталога.
func NewGameHandlers(repo domain.GameRepository, logger *log.Entry) *GameHandlers {
	if logger == nil {
		logger = log.WithField("component", "game-handlers")
	}
	return &GameHandlers{repo: repo, logger: logger}
}

// List обрабатывает GET /games.
func (h *GameHandlers) List(c *gin.Context) {
	games, err := h.repo.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, msgGameNotFound, "Failed to list games")
		return
	}

	resp := make([]GameResponse, 0, len(games))
	for _, g := range games {
		resp = append(resp, newGameResponse(g))
	}
	c.JSON(http.StatusOK, resp)
}

// Get обрабатывает GET /games/:id.
func (h *GameHandlers) Get(c *gin.Context) {
	id, ok := parseID(c, msgInvalidGameID)
	if !ok {
		return
	}

	game, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, msgGameNotFound, "Failed to get game")
		return
	}
	c.JSON(http.StatusOK, newGameResponse(game))
}

// Create обрабатывает POST /games.
func (h *GameHandlers) Create(c *gin.Context) {
	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	game, err := h.repo.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err, msgGameNotFound, "Failed to create game")
		return
	}
	c.JSON(http.StatusCreated, newGameResponse(game))
}

// Update обрабатывает PUT /games/:id: все четыре поля перезаписываются.
func (h *GameHandlers) Update(c *gin.Context) {
	id, ok := parseID(c, msgInvalidGameID)
	if !ok {
		return
	}
	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	game, err := h.repo.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err, msgGameNotFound, "Failed to update game")
		return
	}
	c.JSON(http.StatusOK, newGameResponse(game))
}

// Delete обрабатывает DELETE /games/:id.
func (h *GameHandlers) Delete(c *gin.Context) {
	id, ok := parseID(c, msgInvalidGameID)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, msgGameNotFound, "Failed to delete game")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Game deleted successfully"})
}

func (h *GameHandlers) bindInput(c *gin.Context) (domain.GameInput, bool) {
	var req GameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidBody)
		return domain.GameInput{}, false
	}

	in, err := req.toInput()
	if err != nil {
		respondError(c, h.logger, err, msgGameNotFound, "Failed to validate game")
		return domain.GameInput{}, false
	}
	return in, true
}

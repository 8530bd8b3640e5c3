package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/jyotishdesk/jyotish-api/internal/http/response"
)

// Handler отвечает на проверки живости сервиса.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}

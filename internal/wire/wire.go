package wire

import (
	"net/http"

	"event-checkin/internal/adaptor"
	"event-checkin/internal/usecase"
	"event-checkin/pkg/middleware"
	"event-checkin/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the assembled HTTP surface
type App struct {
	Router *chi.Mux
}

// Wiring builds handlers and the router on top of an assembled service
func Wiring(service *usecase.Service, config *utils.Config, logger *zap.Logger) *App {
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router: setupRouter(handler, service, config, logger),
	}
}

func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))

	adminOnly := middleware.AuthSession(service.Auth, logger)

	wireAuth(r, handler.Auth, adminOnly)
	r.Route("/api/events", func(r chi.Router) {
		wireEvent(r, handler.Event, handler.Registration, adminOnly)
		wireAttendance(r, handler.Attendance)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})

	return r
}

package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/app"
	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/utils"
)

func SetupRoutes(app *app.Application) *chi.Mux {
	r := chi.NewRouter()

	r.Use(httprate.LimitAll(200, time.Minute))
	r.Use(app.MiddlewareHandler.RequestLogger)
	r.Use(app.MiddlewareHandler.Security)
	r.Use(app.MiddlewareHandler.Cors)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, utils.Envelope{"msg": "Server Running good"})
	})

	r.Route("/user", func(r chi.Router) {
		r.Use(httprate.LimitAll(100, time.Minute))

		r.Post("/register/by-email", app.UserHandler.HandlerRegisterByEmail)
		r.Post("/login/by-email", app.UserHandler.HandlerLoginByEmail)
		r.Get("/{userId}", app.UserHandler.HandlerGetUserByID)

		r.Group(func(r chi.Router) {
			r.Use(app.MiddlewareHandler.Authenticate)
			r.Post("/update/{userId}", app.UserHandler.HandlerUpdateProfile)
		})
	})

	r.Route("/video", func(r chi.Router) {
		r.Use(httprate.LimitAll(100, time.Minute))

		r.Get("/home-videos", app.VideoHandler.HandlerGetHomeVideos)
		r.Get("/user-videos/{userId}", app.VideoHandler.HandlerGetUserVideos)

		r.Group(func(r chi.Router) {
			r.Use(app.MiddlewareHandler.Authenticate)
			r.Post("/upload/{userId}", app.VideoHandler.HandlerUploadVideo)
			r.Put("/update/{videoId}", app.VideoHandler.HandlerUpdateVideo)
			r.Delete("/delete/{videoId}/{userId}", app.VideoHandler.HandlerDeleteVideo)
		})
	})

	return r
}

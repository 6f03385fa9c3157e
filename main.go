package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/app"
	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/routes"
)

const defaultPort = "8000"

func main() {

	app, err := app.NewApplication()
	if err != nil {
		log.Fatal("Failed to start application:", err)
	}

	r := routes.SetupRoutes(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	app.Logger.Println("Server started on port", port)

	err = server.ListenAndServe()
	if err != nil {
		app.Logger.Fatal("Error starting server", err)
	}

}

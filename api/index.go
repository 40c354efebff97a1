package api

import (
	"context"
	"log"
	"net/http"
	"sync"

	"bookstore/app"
	"bookstore/config"

	"github.com/gin-gonic/gin"
)

var (
	application *app.App
	initErr     error
	once        sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)
		cfg := config.LoadConfig()
		application, initErr = app.New(context.Background(), cfg)
		if initErr != nil {
			log.Printf("Failed to initialize application: %v", initErr)
		}
	})
}

// Handler is the serverless entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"success":false,"message":"Service unavailable"}`))
		return
	}
	application.Router.ServeHTTP(w, r)
}

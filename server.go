package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// startHTTP runs the gin router in the background so main can block on the
// shutdown signal while Discord and the sweeper keep running.
func startHTTP(router *gin.Engine, address string) *http.Server {
	srv := &http.Server{Addr: address, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed:", err)
		}
	}()
	return srv
}

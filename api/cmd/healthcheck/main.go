package main

import (
	"net/http"
	"os"
	"time"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "80"
	}

	c := &http.Client{Timeout: 3 * time.Second}
	resp, err := c.Get("http://localhost:" + port + "/health")
	if err != nil || resp.StatusCode != http.StatusOK {
		os.Exit(1) // Docker marks as UNHEALTHY
	}
	os.Exit(0) // Docker marks as HEALTHY
}

package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] recovered from panic: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondWithError(c *gin.Context, status int, route, message string) {
	log.Printf("[%s] %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// parsePage mirrors the admin console contract: a missing or malformed page
// parameter means page one.
func parsePage(pageStr string) int64 {
	page, err := strconv.ParseInt(pageStr, 10, 64)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

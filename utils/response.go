package utils

import "github.com/gin-gonic/gin"

// JSONResponse is the error envelope: a numeric application code plus a human message.
type JSONResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error writes the error envelope with the given HTTP status.
func Error(ctx *gin.Context, status int, code int, message string) {
	ctx.JSON(status, JSONResponse{Code: code, Message: message})
}

// Message writes a bare {"message": ...} body, used by acknowledgement-style endpoints.
func Message(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"message": message})
}

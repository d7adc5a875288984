package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/syncup/syncup/middleware"
	"github.com/syncup/syncup/services"
	"github.com/syncup/syncup/utils"
)

type errorMapping struct {
	target  error
	status  int
	code    int
	message string
}

var errorTable = []errorMapping{
	{services.ErrUnauthenticated, http.StatusUnauthorized, 40110, "unauthorized"},
	{services.ErrInvalidCredentials, http.StatusBadRequest, 40003, "invalid email or password"},
	{services.ErrForbidden, http.StatusForbidden, 40301, "not authorized to modify this resource"},
	{services.ErrPostNotFound, http.StatusNotFound, 40401, "post not found"},
	{services.ErrCommentNotFound, http.StatusNotFound, 40402, "comment not found"},
	{services.ErrClubNotFound, http.StatusNotFound, 40403, "club not found"},
	{services.ErrUserNotFound, http.StatusNotFound, 40404, "user not found"},
	{services.ErrConflict, http.StatusConflict, 40901, "already a member"},
}

// respondError writes the envelope for a service error. Anything unmapped is
// logged and answered with a generic 500.
func respondError(ctx *gin.Context, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		utils.Error(ctx, http.StatusBadRequest, 40002, verr.Reason)
		return
	}
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			utils.Error(ctx, m.status, m.code, m.message)
			return
		}
	}

	utils.Logger.Error("request failed",
		zap.String("method", ctx.Request.Method),
		zap.String("route", ctx.FullPath()),
		zap.String(utils.RequestIDKey, ctx.GetString(utils.RequestIDKey)),
		zap.Error(err),
	)
	utils.Error(ctx, http.StatusInternalServerError, 50000, "internal server error")
}

func badPayload(ctx *gin.Context) {
	utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
}

// pathID parses a numeric path parameter. A malformed id cannot name an
// existing row, so it reports notFound.
func pathID(ctx *gin.Context, name string, notFound error) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(ctx, notFound)
		return 0, false
	}
	return uint(id), true
}

func getUserID(ctx *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(ctx)
	if !ok {
		respondError(ctx, services.ErrUnauthenticated)
	}
	return id, ok
}

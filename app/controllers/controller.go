// Package controllers adapts HTTP requests to the studio services.
package controllers

import (
	"errors"
	"net/http"

	"github.com/inkwell-studio/atelier/app/services"
	"github.com/inkwell-studio/atelier/pkg/bind"
	"github.com/inkwell-studio/atelier/pkg/ctx"
	"github.com/inkwell-studio/atelier/pkg/logger"
)

// fail writes err to the client. A *services.Error carries its own status
// and message; anything else is logged and reported as "Failed to <op>".
func fail(c *ctx.Context, err error, op string) {
	var se *services.Error
	if errors.As(err, &se) {
		c.Error(se.Code, se.Message)
		return
	}
	logger.WithCtx(c.Context()).Error("request failed", "op", op, "error", err)
	c.Error(http.StatusInternalServerError, "Failed to "+op)
}

// bindLoose decodes an optional JSON body without running validation, for
// endpoints whose services report missing fields with their own message.
func bindLoose(c *ctx.Context, dest any) bool {
	if _, err := bind.JSON(c.R, dest); err != nil && !errors.Is(err, bind.ErrEmptyBody) {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// idParam reads a numeric path parameter, answering 404 with notFound when
// it is not a positive integer.
func idParam(c *ctx.Context, key, notFound string) (uint, bool) {
	id, ok := c.ParamUint(key)
	if !ok {
		c.NotFound(notFound)
	}
	return id, ok
}

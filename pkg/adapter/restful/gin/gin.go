// Copyright (c) 2023-2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin wraps the gin-gonic web framework and provides the
// middlewares which are shared by all resources: a structured request
// logger, a catch-all recovery which translates panics to a generic
// internal server error, and a readiness guard which rejects requests
// while the document store has not been reached.
package gin

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/momeni/cpweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/cpweb/pkg/core/cerr"
	"github.com/momeni/cpweb/pkg/core/log"
	"github.com/momeni/cpweb/pkg/core/repo"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

// RequestIDHeader is the header which carries the request identifier.
// A client provided value is kept, otherwise, a random UUID is used.
const RequestIDHeader = "X-Request-ID"

// ErrStoreUnreachable is reported with a 503 status while the document
// store has not been reached.
var ErrStoreUnreachable = errors.New("document store is not reachable")

// New instantiates a gin-gonic engine which uses the given middlewares.
// The engine contexts fall back to their request contexts, so values
// which are attached to a request context (e.g., logging attributes)
// are visible to the use cases which receive a *gin.Context.
func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.ContextWithFallback = true
	e.Use(middlewares...)
	return e
}

// Logger returns a middleware which logs one record per request using
// the default slog logger. The request identifier is attached to the
// request context, so records which are logged while serving it can be
// correlated.
func Logger() HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header(RequestIDHeader, rid)
		ctx := log.With(c.Request.Context(), slog.String("request_id", rid))
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			attrs = append(attrs, slog.String("errors", errs.String()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Warn(ctx, "request served", attrs...)
			return
		}
		log.Info(ctx, "request served", attrs...)
	}
}

// Recovery returns a catch-all middleware which recovers from panics
// in the next handlers, logs the panic value and stack trace, and
// replies with a generic 500 status. Broken connections are detected
// by gin itself and are not replied to.
func Recovery() HandlerFunc {
	return gin.CustomRecoveryWithWriter(
		io.Discard, func(c *gin.Context, err any) {
			log.Error(
				c.Request.Context(), "request handler panicked",
				slog.Any("panic", err),
				log.Stack("stack", debug.Stack()),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"detail": serdser.InternalErrorDetail,
			})
		},
	)
}

// RequireReady returns a middleware which rejects requests with a 503
// status as long as the p prober reports that the document store has
// not been reached.
func RequireReady(p repo.Prober) HandlerFunc {
	return func(c *gin.Context) {
		if !p.Ready(c.Request.Context()) {
			serdser.SerErr(c, cerr.Unavailable(ErrStoreUnreachable))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Health returns a handler which reports the readiness of p, with a
// 200 status when it is ready and a 503 status otherwise.
func Health(p repo.Prober) HandlerFunc {
	return func(c *gin.Context) {
		if !p.Ready(c.Request.Context()) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ready": true})
	}
}

// Copyright (c) 2023-2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serdser contains the (de)serialization helpers which are
// shared by all resources. The SerErr function is the one place where
// errors of the use cases are translated to REST API responses.
package serdser

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/momeni/cpweb/pkg/core/cerr"
	"github.com/momeni/cpweb/pkg/core/log"
)

// InternalErrorDetail is the detail of all 500 responses. The actual
// error is logged and is not revealed to clients.
const InternalErrorDetail = "internal server error"

// Bind deserializes the request into req using the b binding and
// validates it based on its binding tags. In case of errors, a 400
// response is written and false is returned. Validation errors are
// reported as a map from the field names to their error messages.
func Bind(c *gin.Context, req any, b binding.Binding) bool {
	switch err := c.ShouldBindWith(req, b).(type) {
	case *validator.InvalidValidationError:
		log.Error(c, "invalid validation", log.Err("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": InternalErrorDetail,
		})
	case validator.ValidationErrors:
		var nameToErrs map[string][]string
		for _, ferr := range err {
			AddErr(&nameToErrs, ferr.Field(), ferr.Error())
		}
		c.JSON(http.StatusBadRequest, nameToErrs)
	default:
		if err == nil {
			return true
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	if elist, ok := (*errs)[name]; !ok {
		(*errs)[name] = msgs
	} else {
		(*errs)[name] = append(elist, msgs...)
	}
}

// SerErr writes err as a response. A *cerr.Error in the err chain
// decides the status code and its wrapped error is reported as the
// detail. Other errors are logged and reported as a generic 500.
func SerErr(c *gin.Context, err error) {
	var ce *cerr.Error
	if errors.As(err, &ce) {
		c.JSON(ce.HTTPStatusCode, gin.H{
			"detail": ce.Err.Error(),
		})
		return
	}
	_ = c.Error(err)
	log.Error(c, "request failed", log.Err("error", err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"detail": InternalErrorDetail,
	})
}

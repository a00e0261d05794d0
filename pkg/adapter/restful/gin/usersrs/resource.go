// Copyright (c) 2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersrs realizes the users resource. In addition to the
// generic documents REST APIs (see docsrs), it accepts the users
// authentication requests and delegates them to the users use case.
package usersrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/cpweb/pkg/adapter/restful/gin/docsrs"
	"github.com/momeni/cpweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/cpweb/pkg/core/usecase/usersuc"
)

type resource struct {
	users *usersuc.UseCase
}

// authReq carries the credentials as query parameters. Passing them in
// the URL exposes them to access logs and proxies. It is kept because
// existing clients depend on it.
type authReq struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Register instantiates a resource adapting the users use case instance
// with the relevant REST APIs including:
//  1. The CRUD APIs under /user (see docsrs.Register),
//  2. GET request to /user/Authentication?username=X&password=Y
//     in order to look up the X user and check its Y password.
func Register(r gin.IRouter, users *usersuc.UseCase) {
	rs := &resource{users: users}
	r.GET("user/Authentication", rs.Authenticate)
	docsrs.Register(r, "user", users.Docs)
}

func (rs *resource) Authenticate(c *gin.Context) {
	req := &authReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return
	}
	u, err := rs.users.Authenticate(c, req.Username, req.Password)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Copyright (c) 2023-2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package docsrs realizes the generic documents resource, allowing the
// CRUD REST APIs of one entity type to be accepted and delegated to
// the corresponding documents use case.
package docsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/cpweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/cpweb/pkg/core/model"
	"github.com/momeni/cpweb/pkg/core/usecase/docsuc"
)

type resource[E any, P model.Entity[E]] struct {
	docs *docsuc.UseCase[E, P]
}

// DeleteResp is the response of a successful DELETE request.
type DeleteResp struct {
	ID      string `json:"_id"`
	Deleted bool   `json:"deleted"`
}

// Register instantiates a resource adapting the docs use case instance
// with the relevant REST APIs under the name path, including:
//  1. POST request to /name in order to create a document,
//  2. GET request to /name in order to list all documents,
//  3. GET request to /name/:id in order to fetch one document,
//  4. PUT request to /name/:id in order to merge fields into it,
//  5. DELETE request to /name/:id in order to delete it.
func Register[E any, P model.Entity[E]](
	r gin.IRouter, name string, docs *docsuc.UseCase[E, P],
) {
	rs := &resource[E, P]{docs: docs}
	g := r.Group(name)
	g.POST("", rs.Create)
	g.GET("", rs.List)
	g.GET("/:id", rs.Get)
	g.PUT("/:id", rs.Update)
	g.DELETE("/:id", rs.Delete)
}

func (rs *resource[E, P]) Create(c *gin.Context) {
	req := new(E)
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	e, err := rs.docs.Create(c, req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (rs *resource[E, P]) List(c *gin.Context) {
	docs, err := rs.docs.List(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (rs *resource[E, P]) Get(c *gin.Context) {
	e, err := rs.docs.Get(c, c.Param("id"))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (rs *resource[E, P]) Update(c *gin.Context) {
	req := new(E)
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	e, err := rs.docs.Update(c, c.Param("id"), req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (rs *resource[E, P]) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := rs.docs.Delete(c, id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, DeleteResp{ID: id, Deleted: true})
}

// Copyright (c) 2023-2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	gingonic "github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/momeni/cpweb/internal/test/memrp"
	"github.com/momeni/cpweb/pkg/adapter/hash/plain"
	"github.com/momeni/cpweb/pkg/adapter/restful/gin"
	"github.com/momeni/cpweb/pkg/adapter/restful/gin/routes"
	"github.com/momeni/cpweb/pkg/core/model"
	"github.com/stretchr/testify/suite"
)

type IntegrationGinTestSuite struct {
	suite.Suite

	Gin    *gin.Engine
	Prober *memrp.Prober
	Users  *memrp.Collection[model.User, *model.User]
}

func TestIntegrationGinTestSuite(t *testing.T) {
	suite.Run(t, &IntegrationGinTestSuite{})
}

func (igts *IntegrationGinTestSuite) SetupSuite() {
	gingonic.SetMode(gingonic.TestMode)
}

func (igts *IntegrationGinTestSuite) SetupTest() {
	igts.Prober = memrp.NewProber(true)
	igts.Users = memrp.New[model.User]("username")
	igts.Gin = gin.New(gin.Logger(), gin.Recovery())
	igts.Require().NotNil(igts.Gin, "cannot instantiate Gin engine")
	err := routes.Register(igts.Gin, igts.Prober, routes.Repos{
		Parkings:     memrp.New[model.Parking](),
		Users:        igts.Users,
		Reservations: memrp.New[model.Reservation](),
		Payments:     memrp.New[model.Payment](),
	}, plain.New())
	igts.Require().NoError(err, "failed to register Gin routes")
	igts.Gin.GET("/panic", func(*gingonic.Context) {
		panic("handler is broken")
	})
}

// do sends a request with the optional JSON body (a string is sent
// as-is) and decodes the JSON response into res (if not nil).
func (igts *IntegrationGinTestSuite) do(
	method, path string, body, res any,
) int {
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		igts.Require().NoError(err, "cannot marshal request body")
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, path, r)
	igts.Require().NoError(err, "cannot create %s request", method)
	if r != nil {
		req.Header.Add("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	igts.Gin.ServeHTTP(w, req)
	if res != nil {
		igts.NoError(
			json.Unmarshal(w.Body.Bytes(), res),
			"body is not json: %s", w.Body.String(),
		)
	}
	return w.Code
}

type object = map[string]any

func withoutID(o object) object {
	c := make(object, len(o))
	for k, v := range o {
		if k != "_id" {
			c[k] = v
		}
	}
	return c
}

func (igts *IntegrationGinTestSuite) samples() map[string]object {
	return map[string]object{
		"parking": {
			"name":         "Central",
			"address":      "1 Main St.",
			"location":     object{"lat": 35.7, "lon": 51.4},
			"capacity":     float64(120),
			"pricePerHour": 2.5,
		},
		"user": {
			"username":  "alice",
			"password":  "s3cret",
			"email":     "alice@example.com",
			"firstName": "Alice",
		},
		"reservation": {
			"parkingId": "p1",
			"userId":    "u1",
			"startsAt":  "2026-01-02T10:00:00Z",
			"endsAt":    "2026-01-02T12:00:00Z",
			"status":    "pending",
		},
		"payment": {
			"reservationId": "r1",
			"userId":        "u1",
			"amount":        5.0,
			"currency":      "EUR",
			"method":        "card",
			"status":        "paid",
		},
	}
}

func (igts *IntegrationGinTestSuite) TestCreateGetEquality() {
	for name, in := range igts.samples() {
		igts.Run(name, func() {
			created := object{}
			code := igts.do(http.MethodPost, "/"+name, in, &created)
			igts.Require().Equal(http.StatusCreated, code)
			id, ok := created["_id"].(string)
			igts.Require().True(ok, "missing _id: %v", created)
			igts.NotEmpty(id)
			igts.Equal(in, withoutID(created), "stored != posted")

			fetched := object{}
			code = igts.do(http.MethodGet, "/"+name+"/"+id, nil, &fetched)
			igts.Equal(http.StatusOK, code)
			igts.Equal(created, fetched, "fetched != created")
		})
	}
}

func (igts *IntegrationGinTestSuite) TestClientIDIsIgnored() {
	in := object{"_id": "chosen-by-client", "name": "North"}
	created := object{}
	code := igts.do(http.MethodPost, "/parking", in, &created)
	igts.Require().Equal(http.StatusCreated, code)
	igts.NotEqual("chosen-by-client", created["_id"])
}

func (igts *IntegrationGinTestSuite) TestUnknownID() {
	const id = "000000000000000000000000"
	for name := range igts.samples() {
		igts.Run(name, func() {
			res := &struct{ Detail string }{}
			code := igts.do(http.MethodGet, "/"+name+"/"+id, nil, res)
			igts.Equal(http.StatusNotFound, code, "GET")
			igts.Equal("document not found", res.Detail)

			code = igts.do(http.MethodPut, "/"+name+"/"+id, object{}, nil)
			igts.Equal(http.StatusNotFound, code, "PUT")

			code = igts.do(http.MethodDelete, "/"+name+"/"+id, nil, nil)
			igts.Equal(http.StatusNotFound, code, "DELETE")
		})
	}
}

func (igts *IntegrationGinTestSuite) TestListLength() {
	var list []object
	code := igts.do(http.MethodGet, "/payment", nil, &list)
	igts.Equal(http.StatusOK, code)
	igts.NotNil(list, "empty list must be [] not null")
	igts.Empty(list)

	ids := make([]string, 0, 3)
	for _, amount := range []float64{1, 2, 3} {
		created := object{}
		code = igts.do(
			http.MethodPost, "/payment", object{"amount": amount}, &created,
		)
		igts.Require().Equal(http.StatusCreated, code)
		ids = append(ids, created["_id"].(string))
	}
	code = igts.do(http.MethodDelete, "/payment/"+ids[1], nil, nil)
	igts.Require().Equal(http.StatusOK, code)

	list = nil
	code = igts.do(http.MethodGet, "/payment", nil, &list)
	igts.Equal(http.StatusOK, code)
	igts.Require().Len(list, 2)
	igts.Equal(ids[0], list[0]["_id"], "insertion order")
	igts.Equal(ids[2], list[1]["_id"], "insertion order")
}

func (igts *IntegrationGinTestSuite) TestParkingScenario() {
	created := &model.Parking{}
	code := igts.do(http.MethodPost, "/parking", object{
		"name":     "A",
		"location": object{"lat": 1.5, "lon": 2.5},
	}, created)
	igts.Require().Equal(http.StatusCreated, code)
	igts.Require().NotEmpty(created.ID)
	path := "/parking/" + created.ID

	updated := &model.Parking{}
	code = igts.do(http.MethodPut, path, object{"name": "B"}, updated)
	igts.Equal(http.StatusOK, code)
	igts.Equal(model.Parking{
		Identity: model.Identity{ID: created.ID},
		Name:     "B",
		Location: &model.Coordinate{Lat: 1.5, Lon: 2.5},
	}, *updated, "PUT must keep the omitted fields")

	fetched := &model.Parking{}
	code = igts.do(http.MethodGet, path, nil, fetched)
	igts.Equal(http.StatusOK, code)
	igts.Equal(updated, fetched)

	res := object{}
	code = igts.do(http.MethodDelete, path, nil, &res)
	igts.Equal(http.StatusOK, code)
	igts.Equal(object{"_id": created.ID, "deleted": true}, res)

	code = igts.do(http.MethodGet, path, nil, nil)
	igts.Equal(http.StatusNotFound, code, "deleted parking is found")
	code = igts.do(http.MethodDelete, path, nil, nil)
	igts.Equal(http.StatusNotFound, code, "deleted twice")
}

func (igts *IntegrationGinTestSuite) TestUpdateToZero() {
	created := &model.Parking{}
	code := igts.do(http.MethodPost, "/parking", object{
		"name": "A", "capacity": 5, "pricePerHour": 1.5,
	}, created)
	igts.Require().Equal(http.StatusCreated, code)
	path := "/parking/" + created.ID

	code = igts.do(http.MethodPut, path, object{"capacity": 0}, nil)
	igts.Require().Equal(http.StatusOK, code)
	fetched := object{}
	code = igts.do(http.MethodGet, path, nil, &fetched)
	igts.Equal(http.StatusOK, code)
	igts.Equal(object{
		"_id":          created.ID,
		"name":         "A",
		"capacity":     float64(0),
		"pricePerHour": 1.5,
	}, fetched, "capacity is not set to zero")
}

func (igts *IntegrationGinTestSuite) TestUpdateReversedReservation() {
	created := &model.Reservation{}
	in := igts.samples()["reservation"]
	code := igts.do(http.MethodPost, "/reservation", in, created)
	igts.Require().Equal(http.StatusCreated, code)
	path := "/reservation/" + created.ID

	res := object{}
	code = igts.do(http.MethodPut, path, object{
		"startsAt": "2026-01-02T13:00:00Z",
		"endsAt":   "2026-01-02T11:00:00Z",
	}, &res)
	igts.Equal(http.StatusBadRequest, code)
	igts.Equal(model.ErrReservationEndsEarly.Error(), res["detail"])

	fetched := &model.Reservation{}
	code = igts.do(http.MethodGet, path, nil, fetched)
	igts.Equal(http.StatusOK, code)
	igts.Equal(created, fetched, "rejected update is stored")
}

func authPath(username, password string) string {
	q := url.Values{}
	if username != "" {
		q.Set("username", username)
	}
	if password != "" {
		q.Set("password", password)
	}
	return "/user/Authentication?" + q.Encode()
}

func (igts *IntegrationGinTestSuite) TestAuthentication() {
	created := &model.User{}
	code := igts.do(http.MethodPost, "/user", object{
		"username": "bob",
		"password": "pw1",
	}, created)
	igts.Require().Equal(http.StatusCreated, code)

	user := &model.User{}
	code = igts.do(http.MethodGet, authPath("bob", "pw1"), nil, user)
	igts.Equal(http.StatusOK, code)
	igts.Equal(created, user)
	igts.Equal(int64(2), igts.Users.RoundTrips(), "one lookup per login")

	for _, tc := range []struct {
		name, username, password string
		code                     int
	}{
		{"wrong password", "bob", "pw2", http.StatusUnauthorized},
		{"unknown user", "carol", "pw1", http.StatusUnauthorized},
		{"missing password", "bob", "", http.StatusBadRequest},
		{"missing username", "", "pw1", http.StatusBadRequest},
	} {
		igts.Run(tc.name, func() {
			res := object{}
			path := authPath(tc.username, tc.password)
			code := igts.do(http.MethodGet, path, nil, &res)
			igts.Equal(tc.code, code)
			if tc.code == http.StatusUnauthorized {
				igts.Equal(
					object{"detail": "invalid username or password"}, res,
				)
			}
		})
	}
}

func (igts *IntegrationGinTestSuite) TestDuplicateUsername() {
	u := object{"username": "dave", "password": "pw"}
	code := igts.do(http.MethodPost, "/user", u, nil)
	igts.Require().Equal(http.StatusCreated, code)
	code = igts.do(http.MethodPost, "/user", u, nil)
	igts.Equal(http.StatusConflict, code)

	erin := &model.User{}
	code = igts.do(http.MethodPost, "/user", object{
		"username": "erin", "password": "pw",
	}, erin)
	igts.Require().Equal(http.StatusCreated, code)
	path := "/user/" + erin.ID
	code = igts.do(http.MethodPut, path, object{"username": "dave"}, nil)
	igts.Equal(http.StatusConflict, code, "renamed to a taken username")

	fetched := &model.User{}
	code = igts.do(http.MethodGet, path, nil, fetched)
	igts.Equal(http.StatusOK, code)
	igts.Equal("erin", fetched.Username, "rejected rename is stored")

	code = igts.do(http.MethodPut, path, object{"username": "erin"}, nil)
	igts.Equal(http.StatusOK, code, "own username is a conflict")
}

func (igts *IntegrationGinTestSuite) TestBadRequest() {
	for _, tc := range []struct {
		name, method, path string
		body               any
		detail             string
		field, tag         string
	}{
		{
			name: "malformed json", method: http.MethodPost,
			path: "/parking", body: `{"name":`,
			detail: "unexpected EOF",
		},
		{
			name: "missing parking name", method: http.MethodPost,
			path: "/parking", body: object{"capacity": 3},
			detail: model.ErrParkingNameMissing.Error(),
		},
		{
			name: "missing password", method: http.MethodPost,
			path: "/user", body: object{"username": "eve"},
			detail: model.ErrPasswordMissing.Error(),
		},
		{
			name: "non-positive amount", method: http.MethodPost,
			path: "/payment", body: object{"currency": "USD"},
			detail: model.ErrPaymentAmountMissing.Error(),
		},
		{
			name: "reversed reservation", method: http.MethodPost,
			path: "/reservation", body: object{
				"parkingId": "p", "userId": "u",
				"startsAt": "2026-01-02T12:00:00Z",
				"endsAt":   "2026-01-02T10:00:00Z",
			},
			detail: model.ErrReservationEndsEarly.Error(),
		},
		{
			name: "reversed reservation update", method: http.MethodPut,
			path: "/reservation/000000000000000000000000", body: object{
				"startsAt": "2026-01-02T12:00:00Z",
				"endsAt":   "2026-01-02T10:00:00Z",
			},
			detail: model.ErrReservationEndsEarly.Error(),
		},
		{
			name: "zero amount update", method: http.MethodPut,
			path: "/payment/000000000000000000000000",
			body:   object{"amount": 0},
			detail: model.ErrPaymentAmountMissing.Error(),
		},
		{
			name: "negative capacity update", method: http.MethodPut,
			path: "/parking/000000000000000000000000",
			body:  object{"capacity": -1},
			field: "Capacity", tag: "min",
		},
		{
			name: "latitude out of range", method: http.MethodPost,
			path: "/parking", body: object{
				"name": "X", "location": object{"lat": 91, "lon": 0},
			},
			field: "Lat", tag: "max",
		},
		{
			name: "invalid email", method: http.MethodPost,
			path: "/user", body: object{
				"username": "eve", "password": "pw", "email": "eve",
			},
			field: "Email", tag: "email",
		},
		{
			name: "invalid reservation status", method: http.MethodPut,
			path: "/reservation/000000000000000000000000",
			body:  object{"status": "lost"},
			field: "Status", tag: "oneof",
		},
		{
			name: "invalid currency", method: http.MethodPost,
			path: "/payment", body: object{"amount": 1, "currency": "EU"},
			field: "Currency", tag: "len",
		},
	} {
		igts.Run(tc.name, func() {
			res := map[string]any{}
			code := igts.do(tc.method, tc.path, tc.body, &res)
			igts.Equal(http.StatusBadRequest, code)
			if tc.detail != "" {
				igts.Equal(tc.detail, res["detail"], "wrong detail")
				return
			}
			msgs, ok := res[tc.field].([]any)
			igts.Require().True(ok, "missing %s errors: %v", tc.field, res)
			igts.Require().Len(msgs, 1)
			igts.Contains(
				msgs[0], "failed on the '"+tc.tag+"' tag",
				"wrong %s error", tc.field,
			)
		})
	}
}

func (igts *IntegrationGinTestSuite) TestNotReady() {
	igts.Prober.SetReady(false)
	res := object{}
	code := igts.do(http.MethodGet, "/parking", nil, &res)
	igts.Equal(http.StatusServiceUnavailable, code)
	igts.Equal(object{"detail": gin.ErrStoreUnreachable.Error()}, res)

	health := object{}
	code = igts.do(http.MethodGet, "/healthz", nil, &health)
	igts.Equal(http.StatusServiceUnavailable, code)
	igts.Equal(object{"ready": false}, health)

	igts.Prober.SetReady(true)
	code = igts.do(http.MethodGet, "/parking", nil, nil)
	igts.Equal(http.StatusOK, code)
	code = igts.do(http.MethodGet, "/healthz", nil, &health)
	igts.Equal(http.StatusOK, code)
	igts.Equal(object{"ready": true}, health)
}

func (igts *IntegrationGinTestSuite) TestPanicRecovery() {
	res := object{}
	code := igts.do(http.MethodGet, "/panic", nil, &res)
	igts.Equal(http.StatusInternalServerError, code)
	igts.Equal(object{"detail": "internal server error"}, res)
}

func (igts *IntegrationGinTestSuite) TestRequestID() {
	req, err := http.NewRequest(http.MethodGet, "/healthz", nil)
	igts.Require().NoError(err)
	w := httptest.NewRecorder()
	igts.Gin.ServeHTTP(w, req)
	igts.NotEmpty(w.Header().Get(gin.RequestIDHeader), "generated id")

	req.Header.Set(gin.RequestIDHeader, "req-1")
	w = httptest.NewRecorder()
	igts.Gin.ServeHTTP(w, req)
	igts.Equal("req-1", w.Header().Get(gin.RequestIDHeader), "kept id")
}

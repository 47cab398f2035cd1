// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/oops"

	"github.com/poseiden/backoffice/internal/access"
	"github.com/poseiden/backoffice/internal/entity"
	"github.com/poseiden/backoffice/internal/users"
)

// maxBodyBytes bounds record request bodies.
const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

func badRequest(msg string, cause error) error {
	b := oops.Code("WEB_BAD_REQUEST")
	if cause != nil {
		b = b.With("cause", cause.Error())
	}
	return b.Wrapf(errBadRequest, "%s", msg)
}

// family serves the list/validate/update/delete routes of one record kind.
type family[T any] struct {
	s   *Server
	svc RecordService[T]
	// decode reads a T from the request body. Defaults to JSON into T.
	decode func(r *http.Request) (T, error)
	// present shapes a T for the response. Defaults to T itself.
	present func(T) any
	// stamp sets provenance from the caller and clock. Optional.
	stamp func(v T, actor string, at time.Time, creating bool) T
}

func mountFamily[T any](r chi.Router, base string, f family[T]) {
	if f.decode == nil {
		f.decode = decodeJSON[T]
	}
	if f.present == nil {
		f.present = func(v T) any { return v }
	}

	r.Route("/"+base, func(r chi.Router) {
		r.Get("/list", f.list)
		r.Get("/add", f.add)
		r.Post("/validate", f.create)
		r.Get("/update/{id}", f.show)
		r.Post("/update/{id}", f.update)
		r.Get("/delete/{id}", f.remove)
		r.Post("/delete/{id}", f.remove)
	})
}

func (f family[T]) list(w http.ResponseWriter, r *http.Request) {
	all, err := f.svc.FindAll(r.Context())
	if err != nil {
		f.s.fail(w, r, err)
		return
	}
	out := make([]any, 0, len(all))
	for _, v := range all {
		out = append(out, f.present(v))
	}
	writeJSON(w, http.StatusOK, out)
}

// add returns an empty form.
func (f family[T]) add(w http.ResponseWriter, _ *http.Request) {
	var zero T
	writeJSON(w, http.StatusOK, f.present(zero))
}

func (f family[T]) create(w http.ResponseWriter, r *http.Request) {
	v, err := f.decode(r)
	if err != nil {
		f.s.fail(w, r, err)
		return
	}
	if f.stamp != nil {
		v = f.stamp(v, actorFrom(r), f.s.now(), true)
	}

	created, err := f.svc.Create(r.Context(), v)
	if err != nil {
		f.s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f.present(created))
}

func (f family[T]) show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		f.s.fail(w, r, err)
		return
	}
	found, err := f.svc.FindByID(r.Context(), id)
	if err != nil {
		f.s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f.present(found))
}

func (f family[T]) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		f.s.fail(w, r, err)
		return
	}
	v, err := f.decode(r)
	if err != nil {
		f.s.fail(w, r, err)
		return
	}
	if f.stamp != nil {
		v = f.stamp(v, actorFrom(r), f.s.now(), false)
	}

	updated, err := f.svc.Update(r.Context(), id, v)
	if err != nil {
		f.s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f.present(updated))
}

func (f family[T]) remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		f.s.fail(w, r, err)
		return
	}
	if err := f.svc.Delete(r.Context(), id); err != nil {
		f.s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid id "+strconv.Quote(raw), err)
	}
	return id, nil
}

func decodeJSON[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, badRequest("malformed request body", err)
	}
	return v, nil
}

func actorFrom(r *http.Request) string {
	if p := principalFrom(r.Context()); p != nil {
		return p.Username
	}
	return ""
}

func stampBid(b entity.Bid, actor string, at time.Time, creating bool) entity.Bid {
	b.Provenance = b.Provenance.Stamp(actor, at, creating)
	return b
}

func stampTrade(t entity.Trade, actor string, at time.Time, creating bool) entity.Trade {
	t.Provenance = t.Provenance.Stamp(actor, at, creating)
	return t
}

func stampCurvePoint(c entity.CurvePoint, _ string, at time.Time, creating bool) entity.CurvePoint {
	if creating {
		c.CreationDate = &at
	}
	return c
}

// userForm is the wire shape of an account. Password is only ever read;
// responses carry it blank.
type userForm struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Password string      `json:"password"`
	Fullname string      `json:"fullname"`
	Role     access.Role `json:"role"`
}

// decodeUser reads an account and applies the password policy. Both create
// and update carry a new plaintext password.
func decodeUser(r *http.Request) (entity.User, error) {
	form, err := decodeJSON[userForm](r)
	if err != nil {
		return entity.User{}, err
	}
	if err := users.ValidatePasswordPolicy(form.Password); err != nil {
		return entity.User{}, err
	}
	return entity.User{
		ID:       form.ID,
		Username: form.Username,
		Password: form.Password,
		Fullname: form.Fullname,
		Role:     form.Role,
	}, nil
}

func presentUser(u entity.User) userForm {
	return userForm{
		ID:       u.ID,
		Username: u.Username,
		Fullname: u.Fullname,
		Role:     u.Role,
	}
}

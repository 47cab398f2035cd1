// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/poseiden/backoffice/internal/access"
	"github.com/poseiden/backoffice/internal/entity"
)

const (
	adminPassword = "Adm1n!pass"
	userPassword  = "Us3r!pass"
)

func login(client *http.Client, username, password string) *http.Response {
	form := url.Values{"username": {username}, "password": {password}}
	resp, err := client.PostForm(server.URL+access.PathLogin, form)
	Expect(err).NotTo(HaveOccurred())
	Expect(resp.Body.Close()).To(Succeed())
	return resp
}

func getJSON(client *http.Client, path string, out any) int {
	resp, err := client.Get(server.URL + path)
	Expect(err).NotTo(HaveOccurred())
	defer func() { _ = resp.Body.Close() }()
	if out != nil && resp.StatusCode == http.StatusOK {
		Expect(json.NewDecoder(resp.Body).Decode(out)).To(Succeed())
	}
	return resp.StatusCode
}

func postJSON(client *http.Client, path string, body, out any) int {
	data, err := json.Marshal(body)
	Expect(err).NotTo(HaveOccurred())
	resp, err := client.Post(server.URL+path, "application/json", bytes.NewReader(data))
	Expect(err).NotTo(HaveOccurred())
	defer func() { _ = resp.Body.Close() }()
	if out != nil && resp.StatusCode < http.StatusMultipleChoices {
		Expect(json.NewDecoder(resp.Body).Decode(out)).To(Succeed())
	}
	return resp.StatusCode
}

var _ = Describe("Back office", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		resetDatabase(ctx)

		_, err := userSvc.Create(ctx, entity.User{Username: "admin", Password: adminPassword, Fullname: "Admin", Role: access.RoleAdmin})
		Expect(err).NotTo(HaveOccurred())
		_, err = userSvc.Create(ctx, entity.User{Username: "alice", Password: userPassword, Fullname: "Alice", Role: access.RoleUser})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("login", func() {
		It("starts a persisted session and lands on the home view", func() {
			client := newClient()
			resp := login(client, "alice", userPassword)

			Expect(resp.StatusCode).To(Equal(http.StatusFound))
			Expect(resp.Header.Get("Location")).To(Equal(access.PathHome))

			var profile map[string]any
			Expect(getJSON(client, access.PathHome, &profile)).To(Equal(http.StatusOK))
			Expect(profile).To(HaveKeyWithValue("username", "alice"))

			var count int
			Expect(db.Pool.QueryRow(ctx, "SELECT count(*) FROM sessions").Scan(&count)).To(Succeed())
			Expect(count).To(Equal(1))
		})

		It("rejects a wrong password without revealing which part failed", func() {
			wrongPassword := login(newClient(), "alice", "Wr0ng!pass")
			unknownUser := login(newClient(), "nobody", userPassword)

			Expect(wrongPassword.StatusCode).To(Equal(http.StatusFound))
			Expect(wrongPassword.Header.Get("Location")).To(Equal(access.LoginErrorURL))
			Expect(unknownUser.Header.Get("Location")).To(Equal(wrongPassword.Header.Get("Location")))
		})

		It("ends the session on logout", func() {
			client := newClient()
			login(client, "alice", userPassword)

			resp, err := client.Get(server.URL + access.PathLogout)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Body.Close()).To(Succeed())
			Expect(resp.StatusCode).To(Equal(http.StatusFound))
			Expect(resp.Header.Get("Location")).To(Equal(access.LoggedOutURL))

			Expect(getJSON(client, access.PathHome, nil)).To(Equal(http.StatusFound))
		})
	})

	Describe("records", func() {
		It("runs a bid through create, update, list and delete", func() {
			client := newClient()
			login(client, "alice", userPassword)

			var created entity.Bid
			Expect(postJSON(client, "/bidList/validate", map[string]any{
				"account": "ACC-1", "type": "SPOT", "bidQuantity": 12.5,
			}, &created)).To(Equal(http.StatusCreated))
			Expect(created.ID).To(BeNumerically(">", 0))
			Expect(created.CreationName).To(Equal("alice"))

			path := "/bidList/update/" + strconv.FormatInt(created.ID, 10)
			var updated entity.Bid
			Expect(postJSON(client, path, map[string]any{
				"account": "ACC-2", "type": "SPOT", "bidQuantity": 20,
			}, &updated)).To(Equal(http.StatusOK))
			Expect(updated.Account).To(Equal("ACC-2"))
			Expect(updated.CreationName).To(Equal("alice"))

			var all []entity.Bid
			Expect(getJSON(client, "/bidList/list", &all)).To(Equal(http.StatusOK))
			Expect(all).To(HaveLen(1))

			Expect(postJSON(client, "/bidList/delete/"+strconv.FormatInt(created.ID, 10), nil, nil)).To(Equal(http.StatusNoContent))
			Expect(getJSON(client, path, nil)).To(Equal(http.StatusNotFound))
		})

		It("rejects an invalid trade", func() {
			client := newClient()
			login(client, "alice", userPassword)

			Expect(postJSON(client, "/trade/validate", map[string]any{"account": "", "type": "T"}, nil)).
				To(Equal(http.StatusBadRequest))
		})
	})

	Describe("accounts", func() {
		It("keeps user management to administrators", func() {
			client := newClient()
			login(client, "alice", userPassword)

			Expect(getJSON(client, "/user/list", nil)).To(Equal(http.StatusForbidden))
		})

		It("lets an administrator create accounts without echoing passwords", func() {
			client := newClient()
			login(client, "admin", adminPassword)

			var created map[string]any
			Expect(postJSON(client, "/user/validate", map[string]any{
				"username": "bob", "password": "B0b!secret", "fullname": "Bob", "role": "USER",
			}, &created)).To(Equal(http.StatusCreated))
			Expect(created).To(HaveKeyWithValue("password", ""))

			var stored string
			Expect(db.Pool.QueryRow(ctx, "SELECT password FROM users WHERE username = 'bob'").Scan(&stored)).To(Succeed())
			Expect(stored).NotTo(Equal("B0b!secret"))
			Expect(strings.HasPrefix(stored, "$argon2id$")).To(BeTrue())

			Expect(postJSON(client, "/user/validate", map[string]any{
				"username": "bob", "password": "B0b!secret", "fullname": "Bob", "role": "USER",
			}, nil)).To(Equal(http.StatusConflict))
		})

		It("drops the session of a deleted user", func() {
			client := newClient()
			login(client, "alice", userPassword)

			all, err := userSvc.FindAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			for _, u := range all {
				if u.Username == "alice" {
					Expect(userSvc.Delete(ctx, u.ID)).To(Succeed())
				}
			}

			Expect(getJSON(client, access.PathHome, nil)).To(Equal(http.StatusFound))

			var count int
			Expect(db.Pool.QueryRow(ctx, "SELECT count(*) FROM sessions").Scan(&count)).To(Succeed())
			Expect(count).To(BeZero())
		})
	})
})

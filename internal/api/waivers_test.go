package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/reactlift/internal/storage"
)

func TestWaiversRequireSession(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Router()

	rec := doReq(t, h, http.MethodGet, "/api/v1/waivers", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doReq(t, h, http.MethodPost, "/api/v1/waivers", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWaiverCreate_AdminOnly(t *testing.T) {
	srv, db := newTestServer(t)
	seedUser(t, db, "viewer", "pw", "viewer")
	h := srv.Router()

	cookie := login(t, h, "viewer", "pw")
	rec := doReq(t, h, http.MethodPost, "/api/v1/waivers", waiverCreateReq{
		RuleID:    "js-console-log",
		Reason:    "legacy tracing",
		ExpiresAt: time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	}, cookie)

	require.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "admin role required", body["error"])

	// Viewers can still read the list.
	rec = doReq(t, h, http.MethodGet, "/api/v1/waivers", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWaiverLifecycle(t *testing.T) {
	srv, db := newTestServer(t)
	seedUser(t, db, "admin", "pw", "admin")
	h := srv.Router()
	cookie := login(t, h, "admin", "pw")

	rec := doReq(t, h, http.MethodPost, "/api/v1/waivers", waiverCreateReq{
		RuleID:     "js-console-log",
		PathPrefix: "src/legacy/",
		Reason:     "instrumented build",
		ExpiresAt:  time.Now().Add(30 * 24 * time.Hour).Format(time.RFC3339),
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[struct {
		ID int64 `json:"id"`
	}](t, rec)
	require.Greater(t, created.ID, int64(0))

	type listResp struct {
		Items      []storage.Waiver `json:"items"`
		ActiveOnly bool             `json:"active_only"`
	}

	rec = doReq(t, h, http.MethodGet, "/api/v1/waivers?active=true", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	active := decodeBody[listResp](t, rec)
	assert.True(t, active.ActiveOnly)
	require.Len(t, active.Items, 1)
	assert.Equal(t, "js-console-log", active.Items[0].RuleID)
	assert.Equal(t, "src/legacy/", active.Items[0].PathPrefix)
	assert.Equal(t, "admin", active.Items[0].CreatedBy)

	rec = doReq(t, h, http.MethodPost, fmt.Sprintf("/api/v1/waivers/%d/revoke", created.ID), nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doReq(t, h, http.MethodGet, "/api/v1/waivers?active=1", nil, cookie)
	assert.Empty(t, decodeBody[listResp](t, rec).Items)

	rec = doReq(t, h, http.MethodGet, "/api/v1/waivers", nil, cookie)
	all := decodeBody[listResp](t, rec)
	require.Len(t, all.Items, 1)
	assert.NotNil(t, all.Items[0].RevokedAt)
}

func TestWaiverCreate_Validation(t *testing.T) {
	srv, db := newTestServer(t)
	seedUser(t, db, "admin", "pw", "admin")
	h := srv.Router()
	cookie := login(t, h, "admin", "pw")

	expires := time.Now().Add(time.Hour).Format(time.RFC3339)

	cases := []struct {
		name string
		req  waiverCreateReq
		want string
	}{
		{"missing rule", waiverCreateReq{Reason: "r", ExpiresAt: expires}, "required"},
		{"missing reason", waiverCreateReq{RuleID: "js-console-log", ExpiresAt: expires}, "required"},
		{"missing expiry", waiverCreateReq{RuleID: "js-console-log", Reason: "r"}, "required"},
		{"unknown rule", waiverCreateReq{RuleID: "made-up-rule", Reason: "r", ExpiresAt: expires}, "unknown rule_id"},
		{"bad expiry", waiverCreateReq{RuleID: "js-console-log", Reason: "r", ExpiresAt: "next tuesday"}, "expires_at"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doReq(t, h, http.MethodPost, "/api/v1/waivers", tc.req, cookie)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeBody[map[string]string](t, rec)["error"], tc.want)
		})
	}
}

func TestWaiverRevoke_BadID(t *testing.T) {
	srv, db := newTestServer(t)
	seedUser(t, db, "admin", "pw", "admin")
	h := srv.Router()
	cookie := login(t, h, "admin", "pw")

	rec := doReq(t, h, http.MethodPost, "/api/v1/waivers/zero/revoke", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doReq(t, h, http.MethodPost, "/api/v1/waivers/-3/revoke", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

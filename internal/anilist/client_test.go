package anilist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	c := NewClient()
	c.apiURL = url
	c.tokenURL = url + "/token"
	return c
}

func TestViewer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req gqlRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "Viewer")

		w.Write([]byte(`{"data":{"Viewer":{"id":5,"name":"tester"}}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.SetToken("tok")

	u, err := c.Viewer(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 5, u.ID)
	assert.Equal(t, "tester", u.Name)
}

func TestLookupUserNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"User":null}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).LookupUser(context.Background(), "nobody")
	assert.ErrorContains(t, err, "user not found: nobody")
}

func TestMangaList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "MediaListCollection")
		assert.EqualValues(t, 5, req.Variables["userID"])

		w.Write([]byte(`{"data":{"MediaListCollection":{"lists":[
			{"status":"CURRENT","entries":[
				{"status":"CURRENT","score":9,"progress":3,"media":{
					"id":21,"idMal":13,
					"title":{"english":"One Piece","romaji":"One Piece"},
					"format":"MANGA","status":"RELEASING",
					"chapters":1100,"volumes":0,
					"synonyms":["OP"]}}
			]}
		]}}}`))
	}))
	defer srv.Close()

	lists, err := newTestClient(srv.URL).MangaList(context.Background(), 5)
	require.NoError(t, err)

	require.Len(t, lists, 1)
	assert.Equal(t, "CURRENT", lists[0].Status)
	require.Len(t, lists[0].Entries, 1)
	e := lists[0].Entries[0]
	assert.Equal(t, 3, e.Progress)
	assert.EqualValues(t, 21, e.Media.ID)
	assert.Equal(t, "One Piece", e.Media.Title.English)
	assert.Equal(t, 1100, e.Media.Chapters)
	assert.Equal(t, []string{"OP"}, e.Media.Synonyms)
}

func TestInBandGraphQLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"Invalid token","status":401}]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Viewer(context.Background())
	assert.ErrorContains(t, err, "api error: Invalid token (401)")
}

func TestUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Viewer(context.Background())
	assert.ErrorContains(t, err, "unexpected status 503")
}

func TestExchangeCode(t *testing.T) {
	auth := AuthForm{ClientID: "123", ClientSecret: "shh", RedirectURL: DefaultRedirectURL}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "authorization_code", body["grant_type"])
		assert.Equal(t, "123", body["client_id"])
		assert.Equal(t, "shh", body["client_secret"])
		assert.Equal(t, DefaultRedirectURL, body["redirect_uri"])
		assert.Equal(t, "pasted-code", body["code"])

		w.Write([]byte(`{"access_token":"granted","token_type":"Bearer"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	require.NoError(t, c.ExchangeCode(context.Background(), auth, "pasted-code"))
	assert.Equal(t, "granted", c.token)
}

func TestExchangeCodeFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	err := c.ExchangeCode(context.Background(), AuthForm{}, "bad-code")
	assert.ErrorContains(t, err, "token exchange failed")

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type":"Bearer"}`))
	}))
	defer empty.Close()

	c = newTestClient(empty.URL)
	err = c.ExchangeCode(context.Background(), AuthForm{}, "code")
	assert.ErrorContains(t, err, "missing access_token")
}

func TestAuthCodeURL(t *testing.T) {
	got := AuthCodeURL("123", DefaultRedirectURL)
	assert.Equal(t,
		"https://anilist.co/api/v2/oauth/authorize?client_id=123&redirect_uri=https%3A%2F%2Fanilist.co%2Fapi%2Fv2%2Foauth%2Fpin&response_type=code",
		got)
}

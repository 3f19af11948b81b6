package test_functional

import (
	"net/http"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
)

func TestItemCreate(t *testing.T) {
	u := AppBaseURL
	u.Path = "/urlitem/"

	t.Run("unauthorized without token", func(t *testing.T) {
		resp, err := resty.New().R().
			SetHeader("Content-Type", "application/json").
			SetBody(`{"title": "Google Search", "url": "http://google.com", "visits": 1}`).
			Post(u.String())
		assert.Nil(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
	})

	t.Run("successful create", func(t *testing.T) {
		defer FlushDB()

		token := RegisterAndLogin(t, "testuser1@testdomain.com", "testuser1234")

		got := ItemResp{}
		resp, err := resty.New().R().
			SetHeader("X-Token", token).
			SetHeader("Content-Type", "application/json").
			SetResult(&got).
			SetBody(`{"title": "Google Search", "url": "http://google.com", "visits": 1}`).
			Post(u.String())
		assert.Nil(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode())
		assert.NotEmpty(t, got.ID)
		assert.Equal(t, "Google Search", got.Title)
		assert.Equal(t, UserIDByEmail(t, "testuser1@testdomain.com"), got.User)
	})

	t.Run("owner comes from the session, not the payload", func(t *testing.T) {
		defer FlushDB()

		token := RegisterAndLogin(t, "testuser1@testdomain.com", "testuser1234")
		RegisterAndLogin(t, "testuser2@testdomain.com", "testuser1234")
		otherID := UserIDByEmail(t, "testuser2@testdomain.com")

		got := ItemResp{}
		resp, err := resty.New().R().
			SetHeader("X-Token", token).
			SetHeader("Content-Type", "application/json").
			SetResult(&got).
			SetBody(map[string]interface{}{
				"title":  "Google Search",
				"url":    "http://google.com",
				"visits": 1,
				"user":   otherID,
			}).
			Post(u.String())
		assert.Nil(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode())
		assert.Equal(t, UserIDByEmail(t, "testuser1@testdomain.com"), got.User)
	})

	t.Run("tags round trip", func(t *testing.T) {
		defer FlushDB()

		token := RegisterAndLogin(t, "testuser1@testdomain.com", "testuser1234")

		got := ItemResp{}
		resp, err := resty.New().R().
			SetHeader("X-Token", token).
			SetHeader("Content-Type", "application/json").
			SetResult(&got).
			SetBody(`{"title": "HTML5test", "url": "https://html5test.com", "visits": 1, "tags": ["html", "web", "browser"]}`).
			Post(u.String())
		assert.Nil(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode())
		assert.Equal(t, []string{"html", "web", "browser"}, got.Tags)

		list := make([]ItemResp, 0)
		resp, err = resty.New().R().
			SetHeader("X-Token", token).
			SetResult(&list).
			Get(u.String())
		assert.Nil(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.Len(t, list, 1)
		assert.Equal(t, []string{"html", "web", "browser"}, list[0].Tags)
	})

	t.Run("tag longer than 45 chars", func(t *testing.T) {
		defer FlushDB()

		token := RegisterAndLogin(t, "testuser1@testdomain.com", "testuser1234")

		resp, err := resty.New().R().
			SetHeader("X-Token", token).
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]interface{}{
				"title":  "Tagged",
				"url":    "http://example.com",
				"visits": 1,
				"tags":   []string{strings.Repeat("a", 46)},
			}).
			Post(u.String())
		assert.Nil(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode())

		assert.Equal(t, 0, CountRows(t, "url_items"))
	})

	t.Run("malformed url", func(t *testing.T) {
		defer FlushDB()

		token := RegisterAndLogin(t, "testuser1@testdomain.com", "testuser1234")

		resp, err := resty.New().R().
			SetHeader("X-Token", token).
			SetHeader("Content-Type", "application/json").
			SetBody(`{"title": "Broken", "url": "not a url", "visits": 1}`).
			Post(u.String())
		assert.Nil(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	})

	t.Run("missing visits", func(t *testing.T) {
		defer FlushDB()

		token := RegisterAndLogin(t, "testuser1@testdomain.com", "testuser1234")

		resp, err := resty.New().R().
			SetHeader("X-Token", token).
			SetHeader("Content-Type", "application/json").
			SetBody(`{"title": "Google Search", "url": "http://google.com"}`).
			Post(u.String())
		assert.Nil(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode())

		n := CountRows(t, "url_items")
		assert.Equal(t, 0, n)
	})
}

func TestItemList(t *testing.T) {
	u := AppBaseURL
	u.Path = "/urlitem/"

	t.Run("only own items, ordered by title", func(t *testing.T) {
		defer FlushDB()

		token1 := RegisterAndLogin(t, "testuser1@testdomain.com", "testuser1234")
		token2 := RegisterAndLogin(t, "testuser2@testdomain.com", "testuser1234")

		for _, body := range []string{
			`{"title": "Tryit Editor v3.6", "url": "https://www.w3schools.com/html/tryit.asp", "visits": 1}`,
			`{"title": "HTML5test", "url": "https://html5test.com", "visits": 1}`,
		} {
			resp, err := resty.New().R().
				SetHeader("X-Token", token1).
				SetHeader("Content-Type", "application/json").
				SetBody(body).
				Post(u.String())
			assert.Nil(t, err)
			assert.Equal(t, http.StatusCreated, resp.StatusCode())
		}

		resp, err := resty.New().R().
			SetHeader("X-Token", token2).
			SetHeader("Content-Type", "application/json").
			SetBody(`{"title": "Someone else's", "url": "http://example.com", "visits": 3}`).
			Post(u.String())
		assert.Nil(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode())

		got := make([]ItemResp, 0)
		resp, err = resty.New().R().
			SetHeader("X-Token", token1).
			SetResult(&got).
			Get(u.String())
		assert.Nil(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.Len(t, got, 2)
		assert.Equal(t, "HTML5test", got[0].Title)
		assert.Equal(t, "Tryit Editor v3.6", got[1].Title)
	})
}

func TestItemDelete(t *testing.T) {
	u := AppBaseURL
	u.Path = "/urlitem/"

	t.Run("successful delete", func(t *testing.T) {
		defer FlushDB()

		token := RegisterAndLogin(t, "testuser1@testdomain.com", "testuser1234")

		got := ItemResp{}
		resp, err := resty.New().R().
			SetHeader("X-Token", token).
			SetHeader("Content-Type", "application/json").
			SetResult(&got).
			SetBody(`{"title": "Tryit Editor v3.6", "url": "https://www.w3schools.com/html/tryit.asp", "visits": 1}`).
			Post(u.String())
		assert.Nil(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode())

		deleteURL := AppBaseURL
		deleteURL.Path = "/urlitem/" + got.ID + "/"
		resp, err = resty.New().R().
			SetHeader("X-Token", token).
			Delete(deleteURL.String())
		assert.Nil(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode())

		n := CountRows(t, "url_items")
		assert.Equal(t, 0, n)
	})

	t.Run("another user's item looks nonexistent", func(t *testing.T) {
		defer FlushDB()

		token1 := RegisterAndLogin(t, "testuser1@testdomain.com", "testuser1234")
		token2 := RegisterAndLogin(t, "testuser2@testdomain.com", "testuser1234")

		got := ItemResp{}
		resp, err := resty.New().R().
			SetHeader("X-Token", token1).
			SetHeader("Content-Type", "application/json").
			SetResult(&got).
			SetBody(`{"title": "Mine", "url": "http://example.com", "visits": 1}`).
			Post(u.String())
		assert.Nil(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode())

		deleteURL := AppBaseURL
		deleteURL.Path = "/urlitem/" + got.ID + "/"
		resp, err = resty.New().R().
			SetHeader("X-Token", token2).
			Delete(deleteURL.String())
		assert.Nil(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode())

		n := CountRows(t, "url_items")
		assert.Equal(t, 1, n)
	})

	t.Run("delete removes memberships referencing the item", func(t *testing.T) {
		defer FlushDB()

		token := RegisterAndLogin(t, "testuser1@testdomain.com", "testuser1234")

		collectionURL := AppBaseURL
		collectionURL.Path = "/urlcollection/"
		gotCollection := CollectionResp{}
		resp, err := resty.New().R().
			SetHeader("X-Token", token).
			SetHeader("Content-Type", "application/json").
			SetResult(&gotCollection).
			SetBody(`{
				"name": "Collection with one item",
				"items": [{"title": "HTML5test", "url": "https://html5test.com", "visits": 1}]
			}`).
			Post(collectionURL.String())
		assert.Nil(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode())
		assert.Len(t, gotCollection.Items, 1)

		deleteURL := AppBaseURL
		deleteURL.Path = "/urlitem/" + gotCollection.Items[0].ID + "/"
		resp, err = resty.New().R().
			SetHeader("X-Token", token).
			Delete(deleteURL.String())
		assert.Nil(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode())

		assert.Equal(t, 0, CountRows(t, "collection_memberships"))
		assert.Equal(t, 1, CountRows(t, "url_collections"))
	})
}

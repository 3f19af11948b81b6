package test_functional

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/require"
)

var (
	AppBaseURL url.URL
	DBConn     *pgx.Conn
)

type (
	TokenResp struct {
		Token string `json:"token"`
	}

	UserResp struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	ItemResp struct {
		ID     string   `json:"id"`
		Title  string   `json:"title"`
		URL    string   `json:"url"`
		Visits int      `json:"visits"`
		Tags   []string `json:"tags"`
		User   string   `json:"user"`
	}

	CollectionResp struct {
		ID             string     `json:"id"`
		Name           string     `json:"name"`
		Description    *string    `json:"description"`
		CollectionType int        `json:"collection_type"`
		Favorite       *bool      `json:"favorite"`
		Tags           []string   `json:"tags"`
		User           string     `json:"user"`
		Items          []ItemResp `json:"items"`
	}
)

func FlushDB() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	_, err := DBConn.Exec(ctx, "TRUNCATE collection_memberships, url_collections, url_items, users")
	if err != nil {
		panic(err)
	}
}

func RegisterAndLogin(t *testing.T, email, password string) string {
	t.Helper()

	createURL := AppBaseURL
	createURL.Path = "/user/create"
	resp, err := resty.New().R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"email":    email,
			"password": password,
			"name":     "Test User",
		}).
		Post(createURL.String())
	require.Nil(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())

	tokenURL := AppBaseURL
	tokenURL.Path = "/user/token"
	got := TokenResp{}
	resp, err = resty.New().R().
		SetHeader("Content-Type", "application/json").
		SetResult(&got).
		SetBody(map[string]interface{}{
			"email":    email,
			"password": password,
		}).
		Post(tokenURL.String())
	require.Nil(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.NotEmpty(t, got.Token)

	return got.Token
}

func UserIDByEmail(t *testing.T, email string) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	var id string
	err := DBConn.QueryRow(ctx, "SELECT id FROM users WHERE email=$1", email).Scan(&id)
	require.Nil(t, err)
	return id
}

func CountRows(t *testing.T, table string) int {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	var n int
	err := DBConn.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	require.Nil(t, err)
	return n
}

package transport

import (
	"time"

	"github.com/google/uuid"

	"github.com/lonedevel/jrnurl-project/internal/db"
	"github.com/lonedevel/jrnurl-project/internal/service"
)

type (
	UserCreateReq struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=5"`
		Name     string `json:"name"`
	}

	UserResp struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	TokenReq struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	TokenResp struct {
		Token string `json:"token"`
	}

	MeUpdateReq struct {
		Name     *string `json:"name"`
		Password *string `json:"password" validate:"omitempty,min=5"`
	}

	ItemReq struct {
		Title  string   `json:"title" validate:"required,max=255"`
		URL    string   `json:"url" validate:"required,url,max=2048"`
		Visits *int     `json:"visits" validate:"required"`
		Tags   []string `json:"tags" validate:"omitempty,dive,max=45"`
	}

	ItemResp struct {
		ID       uuid.UUID `json:"id"`
		Title    string    `json:"title"`
		URL      string    `json:"url"`
		Visits   int       `json:"visits"`
		Tags     []string  `json:"tags,omitempty"`
		Created  time.Time `json:"created"`
		Modified time.Time `json:"modified"`
		User     uuid.UUID `json:"user"`
	}

	CollectionCreateReq struct {
		Name           string    `json:"name" validate:"required,max=255"`
		Description    *string   `json:"description"`
		CollectionType *int      `json:"collection_type" validate:"omitempty,oneof=100 200 300 400 500 600 900"`
		Favorite       *bool     `json:"favorite"`
		Tags           []string  `json:"tags" validate:"omitempty,max=25,dive,max=45"`
		Items          []ItemReq `json:"items" validate:"omitempty,dive"`
	}

	CollectionUpdateReq struct {
		Name           *string  `json:"name" validate:"omitempty,max=255"`
		Description    *string  `json:"description"`
		CollectionType *int     `json:"collection_type" validate:"omitempty,oneof=100 200 300 400 500 600 900"`
		Favorite       *bool    `json:"favorite"`
		Tags           []string `json:"tags" validate:"omitempty,max=25,dive,max=45"`
	}

	CollectionResp struct {
		ID             uuid.UUID  `json:"id"`
		Name           string     `json:"name"`
		Description    *string    `json:"description,omitempty"`
		CollectionType int        `json:"collection_type"`
		Favorite       *bool      `json:"favorite,omitempty"`
		Tags           []string   `json:"tags,omitempty"`
		Created        time.Time  `json:"created"`
		Modified       time.Time  `json:"modified"`
		User           uuid.UUID  `json:"user"`
		Items          []ItemResp `json:"items"`
	}
)

func toItemResp(item *db.URLItem) ItemResp {
	return ItemResp{
		ID:       item.ID,
		Title:    item.Title,
		URL:      item.URL,
		Visits:   item.Visits,
		Tags:     item.Tags,
		Created:  item.CreatedAt,
		Modified: item.UpdatedAt,
		User:     item.UserID,
	}
}

func toCollectionResp(cw *service.CollectionWithItems) CollectionResp {
	items := make([]ItemResp, len(cw.Items))
	for i := range cw.Items {
		items[i] = toItemResp(&cw.Items[i])
	}
	return CollectionResp{
		ID:             cw.Collection.ID,
		Name:           cw.Collection.Name,
		Description:    cw.Collection.Description,
		CollectionType: cw.Collection.CollectionType,
		Favorite:       cw.Collection.Favorite,
		Tags:           cw.Collection.Tags,
		Created:        cw.Collection.CreatedAt,
		Modified:       cw.Collection.UpdatedAt,
		User:           cw.Collection.UserID,
		Items:          items,
	}
}

package transport

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lonedevel/jrnurl-project/internal/service"
)

func (s *HTTPServer) ItemList(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	var collectionID *uuid.UUID
	if raw := c.QueryParam("collection"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid query param 'collection'")
		}
		collectionID = &id
	}

	items, err := s.svc.ItemList(user, collectionID)
	if err != nil {
		return mapServiceError(err)
	}

	resp := make([]ItemResp, len(items))
	for i := range items {
		resp[i] = toItemResp(&items[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) ItemCreate(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := ItemReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := s.svc.ItemCreate(user, service.ItemParams{
		Title:  req.Title,
		URL:    req.URL,
		Visits: *req.Visits,
		Tags:   req.Tags,
	})
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, toItemResp(item))
}

func (s *HTTPServer) ItemDelete(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := s.svc.ItemDelete(user, id); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lonedevel/jrnurl-project/internal/db"
	"github.com/lonedevel/jrnurl-project/internal/service"
)

func (s *HTTPServer) CollectionList(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	collections, err := s.svc.CollectionList(user)
	if err != nil {
		return mapServiceError(err)
	}

	resp := make([]CollectionResp, len(collections))
	for i := range collections {
		resp[i] = toCollectionResp(&collections[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) CollectionGet(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetUUIDParam(c, "id")
	if err != nil {
		return err
	}

	collection, err := s.svc.CollectionGet(user, id)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, toCollectionResp(collection))
}

func (s *HTTPServer) CollectionCreate(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := CollectionCreateReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	collectionType := db.CollectionTypeCaptured
	if req.CollectionType != nil {
		collectionType = *req.CollectionType
	}
	items := make([]service.ItemParams, len(req.Items))
	for i := range req.Items {
		items[i] = service.ItemParams{
			Title:  req.Items[i].Title,
			URL:    req.Items[i].URL,
			Visits: *req.Items[i].Visits,
			Tags:   req.Items[i].Tags,
		}
	}

	collection, err := s.svc.CollectionCreate(user, service.CollectionParams{
		Name:           req.Name,
		Description:    req.Description,
		CollectionType: collectionType,
		Favorite:       req.Favorite,
		Tags:           req.Tags,
		Items:          items,
	})
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, toCollectionResp(collection))
}

func (s *HTTPServer) CollectionUpdate(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetUUIDParam(c, "id")
	if err != nil {
		return err
	}

	req := CollectionUpdateReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	collection, err := s.svc.CollectionUpdate(user, id, service.CollectionUpdateParams{
		Name:           req.Name,
		Description:    req.Description,
		CollectionType: req.CollectionType,
		Favorite:       req.Favorite,
		Tags:           req.Tags,
	})
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, toCollectionResp(collection))
}

func (s *HTTPServer) CollectionDelete(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := s.svc.CollectionDelete(user, id); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

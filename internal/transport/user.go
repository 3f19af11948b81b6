package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *HTTPServer) UserCreate(c echo.Context) error {
	req := UserCreateReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := s.svc.Register(req.Email, req.Password, req.Name)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, UserResp{
		Email: user.Email,
		Name:  user.Name,
	})
}

func (s *HTTPServer) UserToken(c echo.Context) error {
	req := TokenReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := s.svc.Login(req.Email, req.Password)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, TokenResp{Token: token})
}

func (s *HTTPServer) UserMe(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, UserResp{
		Email: user.Email,
		Name:  user.Name,
	})
}

func (s *HTTPServer) UserMeUpdate(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := MeUpdateReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := s.svc.ProfileUpdate(user, req.Name, req.Password)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, UserResp{
		Email: updated.Email,
		Name:  updated.Name,
	})
}

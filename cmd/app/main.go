package main

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lonedevel/jrnurl-project/internal/config"
	"github.com/lonedevel/jrnurl-project/internal/db"
	"github.com/lonedevel/jrnurl-project/internal/service"
	"github.com/lonedevel/jrnurl-project/internal/transport"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			db.NewGormClient,
			service.NewGeneral,
			transport.NewHTTPServer,
			func() (*zap.SugaredLogger, error) {
				l, err := zap.NewProduction()
				if err != nil {
					return nil, err
				}
				return l.Sugar(), nil
			},
		),
		fx.Invoke(func(server *transport.HTTPServer) {}),
	)

	app.Run()
}

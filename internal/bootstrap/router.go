package bootstrap

import (
	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/internal/web"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Environment string
	Answerer    web.Answerer
	Logger      *zap.Logger
}

func SetGinMode(env string) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	SetGinMode(dep.Environment)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(web.RequestLogger(dep.Logger))

	web.New(dep.Answerer, dep.Logger).Register(r)

	return r
}

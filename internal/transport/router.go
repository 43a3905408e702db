package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter assembles the HTTP API. The sandbox handler is optional and only
// mounted when the simulator is in use.
func NewRouter(bridge *BridgeHandler, sandbox *SandboxHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/bridge/initiate", bridge.InitiatePayout)
		api.POST("/bridge/webhook", bridge.Webhook)
		api.GET("/bridge/price", bridge.Price)

		if sandbox != nil {
			api.GET("/sandbox/payouts", sandbox.List)
			api.GET("/sandbox/payouts/:id", sandbox.Get)
		}
	}

	return r
}

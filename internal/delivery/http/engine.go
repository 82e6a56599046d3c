package http

import (
	"net/http"
	"strconv"

	"kis-trading/config"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupEngine(base *echo.Group) {
	engineGroup := base.Group("/engine")
	engineGroup.POST("/start", h.engineStart)
	engineGroup.POST("/stop", h.engineStop)
	engineGroup.POST("/pause", h.enginePause)
	engineGroup.POST("/resume", h.engineResume)
	engineGroup.GET("/status", h.engineStatus)
	engineGroup.GET("/stocks", h.engineStocks)
	engineGroup.GET("/logs", h.engineLogs)

	tradingGroup := base.Group("/trading")
	tradingGroup.GET("/config", h.tradingConfig)
	tradingGroup.PUT("/config", h.tradingUpdateConfig)
}

func (h *HttpAPIHandler) engineStart(c echo.Context) error {
	if err := h.service.Trading.Start(); err != nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, h.service.Trading.Status())
}

func (h *HttpAPIHandler) engineStop(c echo.Context) error {
	h.service.Trading.Stop()
	return c.JSON(http.StatusOK, h.service.Trading.Status())
}

func (h *HttpAPIHandler) enginePause(c echo.Context) error {
	if err := h.service.Trading.Pause(); err != nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, h.service.Trading.Status())
}

func (h *HttpAPIHandler) engineResume(c echo.Context) error {
	if err := h.service.Trading.Resume(); err != nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, h.service.Trading.Status())
}

func (h *HttpAPIHandler) engineStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Trading.Status())
}

func (h *HttpAPIHandler) engineStocks(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Trading.Stocks())
}

func (h *HttpAPIHandler) engineLogs(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return c.JSON(http.StatusOK, h.service.Trading.Logs(limit))
}

func (h *HttpAPIHandler) tradingConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Trading.TradingConfig())
}

func (h *HttpAPIHandler) tradingUpdateConfig(c echo.Context) error {
	tc := new(config.TradingConfig)
	if err := c.Bind(tc); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.service.Trading.UpdateTradingConfig(tc); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, tc)
}

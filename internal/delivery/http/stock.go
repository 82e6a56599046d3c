package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupStock(base *echo.Group) {
	stockGroup := base.Group("/stocks")
	stockGroup.GET("/:code/price", h.stockPrice)
	stockGroup.GET("/:code/orderbook", h.stockOrderBook)
	stockGroup.GET("/:code/daily", h.stockDailyPrices)
}

func (h *HttpAPIHandler) stockPrice(c echo.Context) error {
	ctx := c.Request().Context()

	price, err := h.repo.KISStock.GetPrice(ctx, c.Param("code"))
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, price)
}

func (h *HttpAPIHandler) stockOrderBook(c echo.Context) error {
	ctx := c.Request().Context()

	book, err := h.repo.KISStock.GetOrderBook(ctx, c.Param("code"))
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, book)
}

func (h *HttpAPIHandler) stockDailyPrices(c echo.Context) error {
	ctx := c.Request().Context()

	bars, err := h.repo.KISStock.GetDailyPrices(ctx, c.Param("code"))
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, bars)
}

package http

import (
	"net/http"

	"kis-trading/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupAccount(base *echo.Group) {
	accountGroup := base.Group("/account")
	accountGroup.GET("/balance", h.accountBalance)
	accountGroup.GET("/deposit", h.accountDeposit)

	base.GET("/orders", h.listOrders)
	base.POST("/orders", h.placeOrder)
}

func (h *HttpAPIHandler) accountBalance(c echo.Context) error {
	ctx := c.Request().Context()

	balance, err := h.repo.KISAccount.GetBalance(ctx)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, balance)
}

func (h *HttpAPIHandler) accountDeposit(c echo.Context) error {
	ctx := c.Request().Context()

	deposit, err := h.repo.KISAccount.GetAvailableDeposit(ctx)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, deposit)
}

func (h *HttpAPIHandler) listOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.repo.KISOrder.GetOrders(ctx, c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *HttpAPIHandler) placeOrder(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.OrderRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.service.Trading.PlaceOrder(ctx, req)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, result)
}

// Package handler はstocksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_tracker/internal/feature/stocks/domain/entity"
	"stock_tracker/internal/feature/stocks/transport/http/dto"
	"stock_tracker/internal/feature/stocks/usecase"
	"stock_tracker/web"
)

// StockUsecase は銘柄操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type StockUsecase interface {
	CreateStock(ctx context.Context, symbol string) (uint, error)
	ListStocks(ctx context.Context) ([]entity.Stock, error)
}

// StockHandler は銘柄登録とダッシュボードのHTTPリクエストを処理します。
type StockHandler struct {
	uc StockUsecase
}

// NewStockHandler は指定されたusecaseでStockHandlerの新しいインスタンスを生成します。
func NewStockHandler(uc StockUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Create は銘柄登録APIエンドポイントを処理します。
// - リクエストJSONをバインドし、不正な場合は400を返却
// - 銘柄の形式が不正な場合は400を返却
// - 既に登録済みの場合は409を返却
// - 成功時はエンリッチメントの完了を待たずに200を返却
//
// POST /stock {"symbol": "AAPL"}
func (h *StockHandler) Create(c *gin.Context) {
	var req dto.CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create stock validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Code: dto.CodeError, Message: "invalid request"})
		return
	}

	id, err := h.uc.CreateStock(c.Request.Context(), req.Symbol)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidSymbol):
			c.JSON(http.StatusBadRequest, dto.MessageResponse{Code: dto.CodeError, Message: "invalid symbol"})
		case errors.Is(err, usecase.ErrSymbolAlreadyExists):
			c.JSON(http.StatusConflict, dto.MessageResponse{Code: dto.CodeError, Message: "stock already exists"})
		default:
			slog.Error("create stock failed", "error", err, "symbol", req.Symbol)
			c.JSON(http.StatusInternalServerError, dto.MessageResponse{Code: dto.CodeError, Message: "internal server error"})
		}
		return
	}

	slog.Info("stock created", "stock_id", id, "symbol", req.Symbol, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.MessageResponse{Code: dto.CodeSuccess, Message: "stock created"})
}

// Dashboard は登録済みの全銘柄をHTMLテーブルで表示します。
//
// GET /
func (h *StockHandler) Dashboard(c *gin.Context) {
	stocks, err := h.uc.ListStocks(c.Request.Context())
	if err != nil {
		slog.Error("list stocks failed", "error", err)
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}

	rows := make([]dto.DashboardRow, 0, len(stocks))
	for _, s := range stocks {
		rows = append(rows, dto.NewDashboardRow(s))
	}

	c.HTML(http.StatusOK, web.DashboardTemplate, gin.H{"Rows": rows})
}

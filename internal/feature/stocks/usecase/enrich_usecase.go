package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"stock_tracker/internal/feature/stocks/domain/entity"
)

// ColumnScale は数値カラムの小数点以下の桁数です（NUMERIC(10,2)）。
const ColumnScale = 2

var hundred = decimal.NewFromInt(100)

// MarketDataProvider は外部の株価データ提供元を抽象化します。
type MarketDataProvider interface {
	GetQuote(ctx context.Context, symbol string) (*entity.Quote, error)
}

// EnrichUsecase は銘柄レコードに最新のファンダメンタルズを書き込むユースケースです。
type EnrichUsecase struct {
	repo     StockRepository
	provider MarketDataProvider
}

// NewEnrichUsecase は新しい EnrichUsecase を作成します。
func NewEnrichUsecase(repo StockRepository, provider MarketDataProvider) *EnrichUsecase {
	return &EnrichUsecase{repo: repo, provider: provider}
}

// Enrich は指定IDの銘柄について外部データを取得し、レコードを上書きします。
// レコードが存在しない場合、取得に失敗した場合、必須項目が欠けている場合は何も書き込みません。
func (u *EnrichUsecase) Enrich(ctx context.Context, id uint) error {
	stock, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	quote, err := u.provider.GetQuote(ctx, stock.Symbol)
	if err != nil {
		return fmt.Errorf("fetch quote %s: %w", stock.Symbol, err)
	}

	f, err := ToFundamentals(quote)
	if err != nil {
		return fmt.Errorf("quote %s: %w", stock.Symbol, err)
	}

	if err := u.repo.UpdateFundamentals(ctx, id, f); err != nil {
		return err
	}

	slog.Info("stock enriched", "stock_id", id, "symbol", stock.Symbol, "price", f.Price.StringFixed(ColumnScale))
	return nil
}

// ToFundamentals はプロバイダーの値を保存用の値に変換します。
// 配当利回りは割合からパーセントに変換し、未提供の場合は未設定のままにします。
func ToFundamentals(q *entity.Quote) (entity.Fundamentals, error) {
	if q == nil {
		return entity.Fundamentals{}, ErrIncompleteQuote
	}

	required := []struct {
		name  string
		value *float64
	}{
		{"previous close", q.PreviousClose},
		{"50-day average", q.FiftyDayAverage},
		{"200-day average", q.TwoHundredDayAverage},
		{"forward P/E", q.ForwardPE},
		{"forward EPS", q.ForwardEPS},
	}
	for _, r := range required {
		if r.value == nil {
			return entity.Fundamentals{}, fmt.Errorf("%w: missing %s", ErrIncompleteQuote, r.name)
		}
	}

	f := entity.Fundamentals{
		Price:      truncate(*q.PreviousClose),
		ForwardPE:  truncate(*q.ForwardPE),
		ForwardEPS: truncate(*q.ForwardEPS),
		MA200:      truncate(*q.TwoHundredDayAverage),
		MA50:       truncate(*q.FiftyDayAverage),
	}
	if q.DividendYield != nil {
		f.DividendYield = decimal.NewNullDecimal(
			decimal.NewFromFloat(*q.DividendYield).Mul(hundred).Truncate(ColumnScale),
		)
	}
	return f, nil
}

func truncate(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Truncate(ColumnScale)
}

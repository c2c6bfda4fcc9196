// Package yahoo はYahoo Financeから株価データを取得するMarketDataProvider実装を提供します。
package yahoo

import (
	"context"
	"fmt"
	"net/http"

	"github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"

	"stock_tracker/internal/feature/stocks/domain/entity"
	"stock_tracker/internal/feature/stocks/usecase"
)

// EquityGetter は1銘柄のエクイティ情報を取得する関数です。テストで差し替えます。
type EquityGetter func(symbol string) (*finance.Equity, error)

// Provider はfinance-goのequity APIを使うMarketDataProvider実装です。
type Provider struct {
	get EquityGetter
}

// ProviderがMarketDataProviderを実装していることをコンパイル時に検証します。
var _ usecase.MarketDataProvider = (*Provider)(nil)

// NewProvider はYahoo Finance用のProviderを生成します。
// clientを指定した場合、finance-goのバックエンドが使うHTTPクライアントを差し替えます。
func NewProvider(client *http.Client) *Provider {
	if client != nil {
		finance.SetHTTPClient(client)
	}
	return &Provider{get: equity.Get}
}

// NewProviderWithGetter は取得関数を指定してProviderを生成します。
func NewProviderWithGetter(get EquityGetter) *Provider {
	return &Provider{get: get}
}

type result struct {
	eq  *finance.Equity
	err error
}

// GetQuote はシンボルのエクイティ情報を取得してQuoteに変換します。
// finance-goはcontextを受け取らないため、キャンセル時は結果を待たずに戻ります。
func (p *Provider) GetQuote(ctx context.Context, symbol string) (*entity.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := make(chan result, 1)
	go func() {
		eq, err := p.get(symbol)
		ch <- result{eq: eq, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("yahoo: %w", r.err)
		}
		if r.eq == nil {
			return nil, usecase.ErrQuoteNotFound
		}
		return toQuote(symbol, r.eq), nil
	}
}

// toQuote はfinance.EquityをQuoteに変換します。
// finance-goは未提供の値をゼロ値で返すため、ゼロは未提供として扱います。
func toQuote(symbol string, eq *finance.Equity) *entity.Quote {
	return &entity.Quote{
		Symbol:               symbol,
		PreviousClose:        nonZero(eq.RegularMarketPreviousClose),
		FiftyDayAverage:      nonZero(eq.FiftyDayAverage),
		TwoHundredDayAverage: nonZero(eq.TwoHundredDayAverage),
		ForwardPE:            nonZero(eq.ForwardPE),
		ForwardEPS:           nonZero(eq.EpsForward),
		DividendYield:        nonZero(eq.TrailingAnnualDividendYield),
	}
}

func nonZero(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}

package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"stock_tracker/internal/feature/stocks/domain/entity"
	"stock_tracker/internal/feature/stocks/usecase"
	"stock_tracker/internal/platform/externalapi/alphavantage/dto"
)

// Provider はAlpha Vantage外部APIから株価データを取得するMarketDataProvider実装です。
type Provider struct {
	cfg    Config
	client *http.Client
}

// ProviderがMarketDataProviderを実装していることをコンパイル時に検証します。
var _ usecase.MarketDataProvider = (*Provider)(nil)

// NewProvider は指定された設定とHTTPクライアントでProviderの新しいインスタンスを生成します。
func NewProvider(cfg Config, client *http.Client) *Provider {
	return &Provider{cfg: cfg, client: client}
}

// GetQuote はGLOBAL_QUOTEから前日終値を、OVERVIEWから移動平均・予想PER・配当利回りを取得します。
// OVERVIEWには予想EPSがないため、前日終値 / 予想PER で算出します。
func (p *Provider) GetQuote(ctx context.Context, symbol string) (*entity.Quote, error) {
	var gq dto.GlobalQuoteResponse
	if err := p.query(ctx, "GLOBAL_QUOTE", symbol, &gq); err != nil {
		return nil, err
	}
	if gq.GlobalQuote.Symbol == "" {
		return nil, usecase.ErrQuoteNotFound
	}

	var ov dto.OverviewResponse
	if err := p.query(ctx, "OVERVIEW", symbol, &ov); err != nil {
		return nil, err
	}
	if ov.Symbol == "" {
		return nil, usecase.ErrQuoteNotFound
	}

	q := &entity.Quote{Symbol: symbol}
	fields := []struct {
		name string
		raw  string
		dst  **float64
	}{
		{"previous close", gq.GlobalQuote.PreviousClose, &q.PreviousClose},
		{"50DayMovingAverage", ov.MovingAverage50Day, &q.FiftyDayAverage},
		{"200DayMovingAverage", ov.MovingAverage200Day, &q.TwoHundredDayAverage},
		{"ForwardPE", ov.ForwardPE, &q.ForwardPE},
		{"DividendYield", ov.DividendYield, &q.DividendYield},
	}
	for _, f := range fields {
		v, err := parseOptional(f.raw)
		if err != nil {
			return nil, fmt.Errorf("alphavantage: parse %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = v
	}

	if q.PreviousClose != nil && q.ForwardPE != nil && *q.ForwardPE != 0 {
		eps := *q.PreviousClose / *q.ForwardPE
		q.ForwardEPS = &eps
	}
	return q, nil
}

// query は function と symbol を指定してAPIを呼び出し、結果をoutにデコードします。
func (p *Provider) query(ctx context.Context, function, symbol string, out any) error {
	q := url.Values{}
	// クエリパラメータを追加
	q.Set("function", function)
	q.Set("symbol", symbol)
	q.Set("apikey", p.cfg.APIKey)

	// URLを生成
	u := fmt.Sprintf("%s/query?%s", strings.TrimRight(p.cfg.BaseURL, "/"), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	res, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("alphavantage http %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	// レート制限やキー不正は HTTP 200 で本文に含まれる
	var env dto.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("alphavantage: decode %s: %w", function, err)
	}
	switch {
	case env.ErrorMessage != "":
		return fmt.Errorf("alphavantage: %s", env.ErrorMessage)
	case env.Note != "":
		return fmt.Errorf("alphavantage: %s", env.Note)
	case env.Information != "":
		return fmt.Errorf("alphavantage: %s", env.Information)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("alphavantage: decode %s: %w", function, err)
	}
	return nil
}

// parseOptional は数値文字列をパースします。"None"、"-"、空文字は未提供としてnilを返します。
func parseOptional(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "None", "-":
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

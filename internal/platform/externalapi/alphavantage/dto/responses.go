// Package dto はAlpha Vantage APIのレスポンス構造を定義します。
package dto

// Envelope はAlpha Vantageがエラー時に HTTP 200 で返す本文です。
type Envelope struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

// GlobalQuoteResponse は function=GLOBAL_QUOTE のレスポンスです。
type GlobalQuoteResponse struct {
	GlobalQuote GlobalQuote `json:"Global Quote"`
}

// GlobalQuote は直近の取引日の価格情報です。値はすべて文字列で返されます。
type GlobalQuote struct {
	Symbol           string `json:"01. symbol"`
	Price            string `json:"05. price"`
	LatestTradingDay string `json:"07. latest trading day"`
	PreviousClose    string `json:"08. previous close"`
}

// OverviewResponse は function=OVERVIEW のレスポンスのうち利用する項目です。
// 値が存在しない場合は "None" または "-" が返されます。
type OverviewResponse struct {
	Symbol              string `json:"Symbol"`
	Name                string `json:"Name"`
	ForwardPE           string `json:"ForwardPE"`
	DividendYield       string `json:"DividendYield"` // 割合（0.0309 = 3.09%）
	MovingAverage50Day  string `json:"50DayMovingAverage"`
	MovingAverage200Day string `json:"200DayMovingAverage"`
}

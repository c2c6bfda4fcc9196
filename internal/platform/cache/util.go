package cache

import (
	"time"
	_ "time/tzdata" // tzdataを持たないコンテナイメージ向け
)

// marketCloseHour は米国市場の取引終了時刻（ニューヨーク時間）です。
const marketCloseHour = 16

var newYork = loadNewYork()

func loadNewYork() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}

// TimeUntilNextMarketClose はnowから次の米国市場終了時刻（16:00 ニューヨーク時間）までの期間を返します。
// 終値は市場終了後に更新されるため、キャッシュはそれ以上保持しません。
func TimeUntilNextMarketClose(now time.Time) time.Duration {
	local := now.In(newYork)

	next := time.Date(local.Year(), local.Month(), local.Day(), marketCloseHour, 0, 0, 0, newYork)
	// 今日の終了時刻を過ぎている場合は翌日
	if !local.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(local)
}

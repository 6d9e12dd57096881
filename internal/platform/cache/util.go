package cache

import (
	"time"
)

// TimeUntilNextMarketMorning は次の午前8時（ニューヨーク時間）までの期間を返します。
// 日次終値キャッシュのTTLとして使用します。
func TimeUntilNextMarketMorning() time.Duration {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)

	// 次の午前8時を計算
	next := time.Date(now.Year(), now.Month(), now.Day(), 8, 0, 0, 0, loc)

	// 今日の午前8時が既に過ぎている場合は明日の午前8時を使用
	if now.After(next) {
		next = next.Add(24 * time.Hour)
	}

	return next.Sub(now)
}

package model

// DailyBar is one OHLCV observation for a single trading day.
// Prices are whole KRW. Values are never mutated after construction.
type DailyBar struct {
	Date   string `json:"date"` // YYYYMMDD
	Open   int64  `json:"open"`
	High   int64  `json:"high"`
	Low    int64  `json:"low"`
	Close  int64  `json:"close"`
	Volume int64  `json:"volume"`
}

// MinuteBar is one OHLCV observation for a single intraday interval.
type MinuteBar struct {
	Datetime string `json:"datetime"` // YYYYMMDDHHMMSS
	Open     int64  `json:"open"`
	High     int64  `json:"high"`
	Low      int64  `json:"low"`
	Close    int64  `json:"close"`
	Volume   int64  `json:"volume"`
}

// Date returns the YYYYMMDD portion of the bar timestamp.
func (m MinuteBar) Date() string {
	if len(m.Datetime) < 8 {
		return m.Datetime
	}
	return m.Datetime[:8]
}

// Time returns the HHMMSS portion of the bar timestamp.
func (m MinuteBar) Time() string {
	if len(m.Datetime) < 14 {
		return ""
	}
	return m.Datetime[8:14]
}

// AtOrAfterMarketClose reports whether the bar falls at or after the 15:30 KRX close.
func (m MinuteBar) AtOrAfterMarketClose() bool {
	t := m.Time()
	return t != "" && t >= "153000"
}

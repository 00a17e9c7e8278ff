package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"AssetAnalyzer/internal/model"
	"AssetAnalyzer/internal/platform/httpclient"
)

// RESTFetcher implements Fetcher against a generic OHLCV bars endpoint:
//
//	GET {BaseURL}/api/v1/bars?symbol=..&interval=..&period=..
//	GET {BaseURL}/api/v1/bars?symbol=..&interval=..&start=<unix>&end=<unix>
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *httpclient.Client
}

// NewRESTFetcher creates a new fetcher for baseURL.
func NewRESTFetcher(baseURL, apiKey string, client *httpclient.Client) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  client,
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the bars API.
type restBar struct {
	Timestamp int64    `json:"timestamp"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
	Volume    *float64 `json:"volume"`
	AdjClose  *float64 `json:"adj_close"`
}

func orNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

func (f *RESTFetcher) Fetch(ctx context.Context, q Query) (*model.Series, error) {
	params := url.Values{}
	params.Set("symbol", q.Ticker)
	params.Set("interval", string(q.Interval))
	if q.IsRange() {
		params.Set("start", strconv.FormatInt(q.Start.Unix(), 10))
		params.Set("end", strconv.FormatInt(q.End.Unix(), 10))
	} else {
		params.Set("period", string(q.Period))
	}
	endpoint := fmt.Sprintf("%s/api/v1/bars?%s", f.BaseURL, params.Encode())

	header := http.Header{}
	if f.APIKey != "" {
		header.Set("Authorization", "Bearer "+f.APIKey)
	}
	body, err := f.Client.Get(ctx, endpoint, header)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}

	var rows []restBar
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}

	series := &model.Series{
		Ticker:   q.Ticker,
		Interval: string(q.Interval),
		Bars:     make([]model.OHLCV, len(rows)),
	}
	for i, r := range rows {
		series.Bars[i] = model.OHLCV{
			Time:     time.Unix(r.Timestamp, 0).UTC(),
			Open:     orNaN(r.Open),
			High:     orNaN(r.High),
			Low:      orNaN(r.Low),
			Close:    orNaN(r.Close),
			Volume:   orNaN(r.Volume),
			AdjClose: orNaN(r.AdjClose),
		}
		if r.Volume != nil {
			series.HasVolume = true
		}
		if r.AdjClose != nil {
			series.HasAdjClose = true
		}
	}
	return series, nil
}

package api

import (
	"math"
	"time"

	"AssetAnalyzer/internal/analyzer"
	"AssetAnalyzer/internal/model"
	"AssetAnalyzer/internal/timeframe"
)

// NaN and ±Inf have no JSON encoding; undefined values are sent as null.
func num(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

type timeframeDTO struct {
	Period    string `json:"period"`
	Interval  string `json:"interval"`
	Requested string `json:"requested_interval"`
	Resample  bool   `json:"resample"`
	Advisory  string `json:"advisory,omitempty"`
}

type rowDTO struct {
	Time            time.Time `json:"time"`
	Open            *float64  `json:"open"`
	High            *float64  `json:"high"`
	Low             *float64  `json:"low"`
	Close           *float64  `json:"close"`
	Volume          *float64  `json:"volume"`
	MA21            *float64  `json:"ma21"`
	MA200           *float64  `json:"ma200"`
	EMA17           *float64  `json:"ema17"`
	EMA72           *float64  `json:"ema72"`
	EMA305          *float64  `json:"ema305"`
	RSI             *float64  `json:"rsi"`
	MACD            *float64  `json:"macd"`
	Signal          *float64  `json:"signal"`
	FinancialVolume *float64  `json:"financial_volume"`
}

type fibonacciDTO struct {
	Label string   `json:"label"`
	Ratio float64  `json:"ratio"`
	Price *float64 `json:"price"`
}

type diagnosisDTO struct {
	Label string   `json:"label"`
	Text  string   `json:"text"`
	RSI   *float64 `json:"rsi"`
}

type analysisResponse struct {
	ID        string         `json:"id"`
	Ticker    string         `json:"ticker"`
	Name      string         `json:"name"`
	Status    string         `json:"status"`
	Timeframe timeframeDTO   `json:"timeframe"`
	RawBars   int            `json:"raw_bars"`
	Bars      int            `json:"bars"`
	Head      []rowDTO       `json:"head"`
	Rows      []rowDTO       `json:"rows"`
	Fibonacci []fibonacciDTO `json:"fibonacci"`
	Diagnosis *diagnosisDTO  `json:"diagnosis,omitempty"`
	ElapsedMS int64          `json:"elapsed_ms"`
}

func toRow(r model.FrameRow) rowDTO {
	return rowDTO{
		Time:            r.Bar.Time,
		Open:            num(r.Bar.Open),
		High:            num(r.Bar.High),
		Low:             num(r.Bar.Low),
		Close:           num(r.Bar.Close),
		Volume:          num(r.Bar.Volume),
		MA21:            num(r.MA21),
		MA200:           num(r.MA200),
		EMA17:           num(r.EMA17),
		EMA72:           num(r.EMA72),
		EMA305:          num(r.EMA305),
		RSI:             num(r.RSI),
		MACD:            num(r.MACD),
		Signal:          num(r.Signal),
		FinancialVolume: num(r.FinancialVolume),
	}
}

func toTimeframe(tf timeframe.Result) timeframeDTO {
	return timeframeDTO{
		Period:    string(tf.Period),
		Interval:  string(tf.Interval),
		Requested: string(tf.Requested),
		Resample:  tf.Resample,
		Advisory:  tf.Advisory,
	}
}

func newAnalysisResponse(res *analyzer.Result, head int) analysisResponse {
	out := analysisResponse{
		ID:        res.ID,
		Ticker:    res.Request.Ticker,
		Name:      res.Request.Name,
		Status:    string(res.Status),
		Timeframe: toTimeframe(res.Timeframe),
		RawBars:   res.RawBars,
		Bars:      res.Frame.Len(),
		Head:      []rowDTO{},
		Rows:      []rowDTO{},
		Fibonacci: []fibonacciDTO{},
		ElapsedMS: res.Elapsed.Milliseconds(),
	}
	if res.Status != analyzer.StatusOK {
		return out
	}

	for _, r := range res.Frame.Head(head) {
		out.Head = append(out.Head, toRow(r))
	}
	out.Rows = make([]rowDTO, res.Frame.Len())
	for i := range out.Rows {
		out.Rows[i] = toRow(res.Frame.Row(i))
	}
	for _, lvl := range res.Fibonacci {
		out.Fibonacci = append(out.Fibonacci, fibonacciDTO{Label: lvl.Label, Ratio: lvl.Ratio, Price: num(lvl.Price)})
	}
	out.Diagnosis = &diagnosisDTO{
		Label: string(res.Diagnosis.Label),
		Text:  res.Diagnosis.Label.Text(),
		RSI:   num(res.Diagnosis.RSI),
	}
	return out
}

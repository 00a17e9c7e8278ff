package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AssetAnalyzer/internal/model"
)

func makeSeries(closes []float64, withVolume bool) *model.Series {
	s := &model.Series{Ticker: "TEST", Interval: "1d", HasVolume: withVolume}
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		s.Bars = append(s.Bars, model.OHLCV{
			Time:   t0.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: float64(1000 + i),
		})
	}
	return s
}

func wave(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 10*math.Sin(float64(i)/7) + float64(i)*0.05
	}
	return out
}

func TestSMA_UndefinedUntilWindowFull(t *testing.T) {
	values := wave(250)
	for _, window := range []int{21, 200} {
		sma := SMA(values, window)
		require.Len(t, sma, len(values))
		for i := 0; i < window-1; i++ {
			assert.True(t, math.IsNaN(sma[i]), "window %d index %d", window, i)
		}
		for i := window - 1; i < len(values); i++ {
			sum := 0.0
			for _, v := range values[i-window+1 : i+1] {
				sum += v
			}
			assert.InDelta(t, sum/float64(window), sma[i], 1e-9, "window %d index %d", window, i)
		}
	}
}

func TestSMA_ShortInput(t *testing.T) {
	sma := SMA([]float64{1, 2, 3}, 21)
	require.Len(t, sma, 3)
	for _, v := range sma {
		assert.True(t, math.IsNaN(v))
	}
	assert.Empty(t, SMA(nil, 21))
}

func TestSMA_FlatWindowIsExact(t *testing.T) {
	values := []float64{0.1, 0.7, 1.3, 0.01, 2.9, 0.33, 0.07, 1.1, 0.6, 3.3, 0.2, 0.9, 0.45, 1.7, 0.03, 2.2}
	for i := 0; i < 18; i++ {
		values = append(values, 0)
	}
	sma := SMA(values, 14)
	last := len(values) - 1
	assert.Equal(t, 0.0, sma[last])
	assert.Equal(t, 0.0, sma[last-4])

	flat := SMA([]float64{3.7, 3.7, 3.7, 3.7}, 3)
	assert.Equal(t, []float64{3.7, 3.7}, flat[2:])
}

func TestCalculateRSI_FlatTailIsUndefined(t *testing.T) {
	closes := []float64{100}
	for _, d := range []float64{0.1, 0.7, 1.3, 0.01, 2.9, 0.33, 0.07, 1.1, 0.6, 3.3, 0.2, 0.9, 0.45, 1.7, 0.03, 2.2} {
		closes = append(closes, closes[len(closes)-1]+d)
	}
	for i := 0; i < 18; i++ {
		closes = append(closes, closes[len(closes)-1])
	}
	rsi := CalculateRSI(closes, 14)
	assert.True(t, math.IsNaN(rsi[len(rsi)-1]), "no movement in the window: 0/0")
}

func TestEMA_RecursiveProperty(t *testing.T) {
	values := wave(120)
	for _, span := range []int{9, 12, 17, 26, 72, 305} {
		ema := EMA(values, span)
		alpha := 2.0 / float64(span+1)
		require.Len(t, ema, len(values))
		assert.Equal(t, values[0], ema[0])
		for i := 1; i < len(values); i++ {
			assert.InDelta(t, alpha*values[i]+(1-alpha)*ema[i-1], ema[i], 1e-12)
		}
	}
}

func TestEMA_KnownValues(t *testing.T) {
	// span 3 -> alpha 0.5
	ema := EMA([]float64{2, 4, 8}, 3)
	assert.Equal(t, []float64{2, 3, 5.5}, ema)
	assert.Empty(t, EMA(nil, 3))
}

func TestMACD(t *testing.T) {
	closes := wave(60)
	macd, sig := MACD(closes, 12, 26, 9)
	fast, slow := EMA(closes, 12), EMA(closes, 26)
	for i := range closes {
		assert.InDelta(t, fast[i]-slow[i], macd[i], 1e-12)
	}
	assert.Equal(t, 0.0, macd[0])
	assert.Equal(t, EMA(macd, 9), sig)
}

func TestCalculateRSI_FirstDefinedAtPeriod(t *testing.T) {
	rsi := CalculateRSI(wave(40), 14)
	require.Len(t, rsi, 40)
	for i := 0; i < 14; i++ {
		assert.True(t, math.IsNaN(rsi[i]), "index %d", i)
	}
	for i := 14; i < 40; i++ {
		assert.False(t, math.IsNaN(rsi[i]), "index %d", i)
		assert.GreaterOrEqual(t, rsi[i], 0.0)
		assert.LessOrEqual(t, rsi[i], 100.0)
	}
}

func TestCalculateRSI_KnownValue(t *testing.T) {
	// alternating +2 / -1 deltas: 7 gains of 2, 7 losses of 1 in any 14 window
	closes := []float64{100}
	for i := 0; i < 14; i++ {
		if i%2 == 0 {
			closes = append(closes, closes[len(closes)-1]+2)
		} else {
			closes = append(closes, closes[len(closes)-1]-1)
		}
	}
	rsi := CalculateRSI(closes, 14)
	// rs = (14/14)/(7/14) = 2 -> 100 - 100/3
	assert.InDelta(t, 100-100.0/3, rsi[14], 1e-9)
}

func TestCalculateRSI_ZeroLoss(t *testing.T) {
	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = float64(100 + i)
	}
	rsi := CalculateRSI(rising, 14)
	assert.Equal(t, 100.0, rsi[19], "gain/0 is +Inf, which maps to 100")

	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 50
	}
	rsi = CalculateRSI(flat, 14)
	assert.True(t, math.IsNaN(rsi[19]), "0/0 stays undefined")
}

func TestCalculateRSI_Short(t *testing.T) {
	assert.Len(t, CalculateRSI([]float64{1}, 14), 1)
	assert.True(t, math.IsNaN(CalculateRSI([]float64{1}, 14)[0]))
	assert.Empty(t, CalculateRSI(nil, 14))
}

func TestFinancialVolume(t *testing.T) {
	s := makeSeries([]float64{10, 20}, true)
	assert.Equal(t, []float64{10000, 20020}, FinancialVolume(s))

	s = makeSeries([]float64{10, 20}, false)
	assert.Equal(t, []float64{0, 0}, FinancialVolume(s))
}

func TestFibonacciLevels(t *testing.T) {
	s := makeSeries([]float64{120, 100, 150, 130}, true)
	levels := FibonacciLevels(s)
	require.Len(t, levels, 6)

	m := levels.Map()
	assert.Equal(t, 150.0, m["0.0%"])
	assert.InDelta(t, 150-0.236*50, m["23.6%"], 1e-9)
	assert.InDelta(t, 150-0.382*50, m["38.2%"], 1e-9)
	assert.InDelta(t, 125.0, m["50.0%"], 1e-9)
	assert.InDelta(t, 150-0.618*50, m["61.8%"], 1e-9)
	assert.Equal(t, 100.0, m["100.0%"])

	labels := []string{"0.0%", "23.6%", "38.2%", "50.0%", "61.8%", "100.0%"}
	for i, lvl := range levels {
		assert.Equal(t, labels[i], lvl.Label)
		if i > 0 {
			assert.LessOrEqual(t, lvl.Price, levels[i-1].Price)
		}
	}
}

func TestFibonacciLevels_FlatAndEmpty(t *testing.T) {
	levels := FibonacciLevels(makeSeries([]float64{42, 42}, true))
	for _, lvl := range levels {
		assert.Equal(t, 42.0, lvl.Price)
	}
	assert.Empty(t, FibonacciLevels(&model.Series{}))
	assert.Empty(t, FibonacciLevels(nil).Map())
}

func TestComputeFrame_Aligned(t *testing.T) {
	s := makeSeries(wave(230), true)
	before := append([]model.OHLCV(nil), s.Bars...)

	f := ComputeFrame(s)
	n := s.Len()
	for name, col := range map[string][]float64{
		"MA21": f.MA21, "MA200": f.MA200, "EMA17": f.EMA17, "EMA72": f.EMA72, "EMA305": f.EMA305,
		"RSI": f.RSI, "MACD": f.MACD, "Signal": f.Signal, "FinancialVolume": f.FinancialVolume,
	} {
		assert.Len(t, col, n, name)
	}
	assert.True(t, math.IsNaN(f.MA200[198]))
	assert.False(t, math.IsNaN(f.MA200[199]))
	assert.True(t, math.IsNaN(f.MA21[19]))
	assert.False(t, math.IsNaN(f.MA21[20]))
	assert.Equal(t, s.Bars[0].Close, f.EMA305[0])
	assert.Equal(t, before, s.Bars, "input series must not be modified")

	row := f.Row(n - 1)
	assert.Equal(t, f.RSI[n-1], row.RSI)
	assert.Equal(t, f.LatestRSI(), row.RSI)
	assert.Len(t, f.Head(5), 5)
}

func TestComputeFrame_Empty(t *testing.T) {
	f := ComputeFrame(&model.Series{})
	assert.Zero(t, f.Len())
	assert.True(t, math.IsNaN(f.LatestRSI()))
	assert.Empty(t, f.Head(5))
}

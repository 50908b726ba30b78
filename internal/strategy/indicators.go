package strategy

import "math"

// Indicator helpers operate on close-price slices and return slices of the
// same length. Positions before the warm-up period hold NaN; crossing logic
// must check validity via notNaN before comparing.

// SMA returns the simple moving average with the given period.
func SMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA returns the exponential moving average with the given period, seeded
// with the SMA of the first period values.
func EMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	var seed float64
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	seed /= float64(period)
	out[period-1] = seed

	k := 2.0 / float64(period+1)
	for i := period; i < len(values); i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}
	return out
}

// RSI returns the Wilder relative strength index with the given period.
func RSI(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period+1 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MACD returns the MACD line (fast EMA − slow EMA) and its signal line
// (EMA of the MACD line with the given signal period).
func MACD(values []float64, fast, slow, signalPeriod int) (macd, signal []float64) {
	fastEMA := EMA(values, fast)
	slowEMA := EMA(values, slow)

	macd = nanSlice(len(values))
	for i := range values {
		if notNaN(fastEMA[i]) && notNaN(slowEMA[i]) {
			macd[i] = fastEMA[i] - slowEMA[i]
		}
	}

	// Signal line: EMA over the valid portion of the MACD line.
	signal = nanSlice(len(values))
	start := -1
	for i, v := range macd {
		if notNaN(v) {
			start = i
			break
		}
	}
	if start < 0 || len(values)-start < signalPeriod {
		return macd, signal
	}
	sub := EMA(macd[start:], signalPeriod)
	copy(signal[start:], sub)
	return macd, signal
}

// Bollinger returns the middle band (SMA) plus upper and lower bands at
// numStd standard deviations.
func Bollinger(values []float64, period int, numStd float64) (middle, upper, lower []float64) {
	middle = SMA(values, period)
	upper = nanSlice(len(values))
	lower = nanSlice(len(values))

	for i := period - 1; i < len(values); i++ {
		if !notNaN(middle[i]) {
			continue
		}
		var variance float64
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - middle[i]
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(period))
		upper[i] = middle[i] + numStd*sd
		lower[i] = middle[i] - numStd*sd
	}
	return middle, upper, lower
}

// PercentB returns the %B oscillator: where the price sits within the
// Bollinger bands (0 = lower band, 1 = upper band).
func PercentB(values []float64, period int, numStd float64) []float64 {
	_, upper, lower := Bollinger(values, period, numStd)
	out := nanSlice(len(values))
	for i := range values {
		if notNaN(upper[i]) && upper[i] != lower[i] {
			out[i] = (values[i] - lower[i]) / (upper[i] - lower[i])
		}
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func notNaN(v float64) bool {
	return !math.IsNaN(v)
}

// CrossedAbove reports whether series a crossed above series b at index i.
func CrossedAbove(a, b []float64, i int) bool {
	if i < 1 {
		return false
	}
	if !notNaN(a[i]) || !notNaN(b[i]) || !notNaN(a[i-1]) || !notNaN(b[i-1]) {
		return false
	}
	return a[i-1] <= b[i-1] && a[i] > b[i]
}

// CrossedBelow reports whether series a crossed below series b at index i.
func CrossedBelow(a, b []float64, i int) bool {
	if i < 1 {
		return false
	}
	if !notNaN(a[i]) || !notNaN(b[i]) || !notNaN(a[i-1]) || !notNaN(b[i-1]) {
		return false
	}
	return a[i-1] >= b[i-1] && a[i] < b[i]
}

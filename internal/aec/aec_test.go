package aec

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = 48000

// testEchoPath is a sparse room response well inside 32 taps.
var testEchoPath = map[int]float64{3: 0.5, 10: -0.3, 17: 0.1}

// noise returns n samples of deterministic white noise at -12 dBFS peak.
func noise(n int, seed uint64) []int16 {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(r.IntN(16385) - 8192)
	}
	return out
}

// echo convolves far with testEchoPath.
func echo(far []int16) []int16 {
	out := make([]int16, len(far))
	for i := range far {
		var v float64
		for d, g := range testEchoPath {
			if i-d >= 0 {
				v += g * float64(far[i-d])
			}
		}
		out[i] = int16(math.Round(v))
	}
	return out
}

// erle returns the echo return loss enhancement over the tail quarter.
func erle(mic, out []int16) float64 {
	start := len(mic) * 3 / 4
	var pm, po float64
	for i := start; i < len(mic); i++ {
		pm += float64(mic[i]) * float64(mic[i])
		po += float64(out[i]) * float64(out[i])
	}
	if po == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(pm/po)
}

func runBlocks(t *testing.T, c Canceller, far, near []int16, block int) []int16 {
	t.Helper()
	out := make([]int16, len(far))
	for i := 0; i+block <= len(far); i += block {
		require.NoError(t, c.Process(out[i:i+block], far[i:i+block], near[i:i+block]))
	}
	return out
}

func TestNew(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		algorithm string
		size      int
		mu        float64
		wantType  Canceller
		wantErr   error
	}{
		{name: "default is lms", algorithm: "", wantType: &Lms{}},
		{name: "lms by name", algorithm: "LMS", size: 64, mu: 0.01, wantType: &Lms{}},
		{name: "nlms by name", algorithm: "nlms", size: 128, mu: 1.0, wantType: &Nlms{}},
		{name: "negative size", algorithm: "lms", size: -4, wantErr: ErrInvalidFilterSize},
		{name: "lms mu too large", algorithm: "lms", mu: 1.5, wantErr: ErrInvalidMu},
		{name: "nlms mu too large", algorithm: "nlms", mu: 2, wantErr: ErrInvalidMu},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c, err := New(tc.algorithm, tc.size, tc.mu)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tc.wantType, c)
			if tc.size != 0 {
				assert.Len(t, c.Filter(), tc.size)
			} else {
				assert.Len(t, c.Filter(), DefaultFilterSize)
			}
		})
	}

	_, err := New("rls", 0, 0)
	require.ErrorContains(t, err, `unknown algorithm "rls"`)
}

func TestProcess_BlockSizeErrors(t *testing.T) {
	t.Parallel()

	for _, c := range []Canceller{NewLms(), NewNlms()} {
		err := c.Process(make([]int16, 4), make([]int16, 4), make([]int16, 3))
		assert.ErrorIs(t, err, ErrBlockSize)

		err = c.Process(nil, nil, nil)
		assert.ErrorIs(t, err, ErrBlockSize)
	}
}

func TestToInt16_Saturates(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int16(math.MaxInt16), toInt16(2))
	assert.Equal(t, int16(math.MinInt16), toInt16(-2))
	assert.Equal(t, int16(0), toInt16(math.NaN()))
	assert.Equal(t, int16(-1234), toInt16(toFloat(-1234)))
}

func TestFilter_HistoryWindowIsNewestFirst(t *testing.T) {
	t.Parallel()

	f := newFilter(3, 0.1)
	f.push(1)
	f.push(2)
	w := f.push(3)
	assert.Equal(t, []float64{3, 2, 1}, w)

	w = f.push(4)
	assert.Equal(t, []float64{4, 3, 2}, w)
}

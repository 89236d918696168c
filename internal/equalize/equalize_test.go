package equalize

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"histoenhance/internal/models"
)

func TestBuildCumulative(t *testing.T) {
	tests := []struct {
		name   string
		pix    []uint16
		window models.Window
		want   []float64
	}{
		{"synthetic", []uint16{5, 5, 7, 10}, models.Window{Low: 5, High: 10}, []float64{2, 2, 3, 3, 3, 4}},
		{"outside_ignored", []uint16{1, 5, 40, 7}, models.Window{Low: 5, High: 7}, []float64{1, 1, 2}},
		{"single_class", []uint16{50, 50, 50}, models.Window{Low: 50, High: 50}, []float64{3}},
		{"empty_window", []uint16{1, 2, 3}, models.Window{Low: 10, High: 12}, []float64{0, 0, 0}},
		{"negative_low", []uint16{0, 1, 2}, models.Window{Low: -2, High: 1}, []float64{0, 0, 1, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			table, err := BuildCumulative(tc.pix, tc.window)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, table.Values()); diff != "" {
				t.Errorf("cumulative table mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tc.window.Classes(), table.Len())
			assert.Equal(t, tc.window, table.Window())
		})
	}
}

func TestBuildCumulativeGuarantees(t *testing.T) {
	pix := randomPixels(t, 4096, 0, 1000)
	w := models.Window{Low: 200, High: 700}

	table, err := BuildCumulative(pix, w)
	require.NoError(t, err)

	var inWindow, atLow float64
	for _, v := range pix {
		if w.Contains(int(v)) {
			inWindow++
		}
		if int(v) == w.Low {
			atLow++
		}
	}

	assert.Equal(t, inWindow, table.Last())
	assert.Equal(t, atLow, table.First())
	for i := 1; i < table.Len(); i++ {
		if table.At(i) < table.At(i-1) {
			t.Fatalf("table decreases at class %d: %v < %v", i, table.At(i), table.At(i-1))
		}
	}
}

func TestBuildCumulativeRejectsWindow(t *testing.T) {
	_, err := BuildCumulative([]uint16{1}, models.Window{Low: 10, High: 9})
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = BuildCumulative([]uint16{1}, models.Window{Low: 0, High: MaxClasses})
	assert.ErrorIs(t, err, ErrAllocation)
}

func TestRemapTruncates(t *testing.T) {
	table, err := BuildCumulative([]uint16{0, 1, 2}, models.Window{Low: 0, High: 2})
	require.NoError(t, err)

	got, err := Remap([]uint16{0, 1, 2}, table, models.OutputRange{Low: 0, High: 255})
	require.NoError(t, err)
	// 127.5 truncates, it does not round
	assert.Equal(t, []uint16{0, 127, 255}, got)
}

func TestRemapBoundaryClamp(t *testing.T) {
	pix := []uint16{5, 10, 15, 20, 30}
	table, err := BuildCumulative(pix, models.Window{Low: 10, High: 20})
	require.NoError(t, err)

	got, err := Remap(pix, table, models.OutputRange{Low: 0, High: 255})
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 0, 127, 255, 255}, got)
}

func TestRemapDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		pix    []uint16
		window models.Window
		out    models.OutputRange
	}{
		{"single_value", []uint16{50, 50, 50, 50}, models.Window{Low: 50, High: 50}, models.OutputRange{Low: 0, High: 255}},
		{"offset_range", []uint16{50, 50, 50, 50}, models.Window{Low: 50, High: 50}, models.OutputRange{Low: 17, High: 200}},
		{"no_pixels_in_window", []uint16{1, 2, 900}, models.Window{Low: 10, High: 20}, models.OutputRange{Low: 3, High: 9}},
		{"all_at_low_bound", []uint16{10, 10, 30}, models.Window{Low: 10, High: 20}, models.OutputRange{Low: 0, High: 255}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			table, err := BuildCumulative(tc.pix, tc.window)
			require.NoError(t, err)
			require.True(t, table.Degenerate())

			got, err := Remap(tc.pix, table, tc.out)
			require.NoError(t, err)
			for i, v := range got {
				assert.Equal(t, uint16(tc.out.Low), v, "pixel %d", i)
			}
		})
	}
}

func TestRemapRejectsRange(t *testing.T) {
	table, err := BuildCumulative([]uint16{1, 2}, models.Window{Low: 0, High: 3})
	require.NoError(t, err)

	_, err = Remap([]uint16{1, 2}, table, models.OutputRange{Low: 10, High: 5})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = Remap([]uint16{1, 2}, table, models.OutputRange{Low: 0, High: models.MaxSample + 1})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = Remap([]uint16{1, 2}, nil, models.OutputRange{Low: 0, High: 255})
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestTransformProperties(t *testing.T) {
	tests := []struct {
		name   string
		window models.Window
		out    models.OutputRange
	}{
		{"full_8bit", models.Window{Low: 0, High: 4095}, models.OutputRange{Low: 0, High: 255}},
		{"narrow_window", models.Window{Low: 1000, High: 1200}, models.OutputRange{Low: 0, High: 255}},
		{"wide_window", models.Window{Low: -100, High: 70000}, models.OutputRange{Low: 0, High: 65535}},
		{"shifted_range", models.Window{Low: 500, High: 3500}, models.OutputRange{Low: 1000, High: 2000}},
		{"point_range", models.Window{Low: 0, High: 4095}, models.OutputRange{Low: 42, High: 42}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := &models.PixelBuffer{Width: 64, Height: 48, Pix: randomPixels(t, 64*48, 0, 4096)}
			orig := slices.Clone(src.Pix)

			dst, err := Transform(src, Params{Window: tc.window, Output: tc.out})
			require.NoError(t, err)

			assert.Equal(t, src.Width, dst.Width)
			assert.Equal(t, src.Height, dst.Height)
			assert.Len(t, dst.Pix, src.Len())
			assert.Equal(t, orig, src.Pix, "input was modified")

			seen := make(map[uint16]uint16)
			for i, v := range dst.Pix {
				if int(v) < tc.out.Low || int(v) > tc.out.High {
					t.Fatalf("pixel %d = %d outside %s", i, v, tc.out)
				}
				in := src.Pix[i]
				if prev, ok := seen[in]; ok && prev != v {
					t.Fatalf("intensity %d mapped to both %d and %d", in, prev, v)
				}
				seen[in] = v
			}

			idx := make([]int, len(src.Pix))
			for i := range idx {
				idx[i] = i
			}
			slices.SortFunc(idx, func(a, b int) int { return int(src.Pix[a]) - int(src.Pix[b]) })
			for k := 1; k < len(idx); k++ {
				if dst.Pix[idx[k]] < dst.Pix[idx[k-1]] {
					t.Fatalf("not monotonic: %d -> %d but %d -> %d",
						src.Pix[idx[k-1]], dst.Pix[idx[k-1]], src.Pix[idx[k]], dst.Pix[idx[k]])
				}
			}
		})
	}
}

func TestTransformErrors(t *testing.T) {
	good := Params{Window: models.Window{Low: 0, High: 255}, Output: models.OutputRange{Low: 0, High: 255}}

	_, err := Transform(&models.PixelBuffer{Width: 2, Height: 2, Pix: []uint16{1, 2, 3}}, good)
	assert.ErrorIs(t, err, models.ErrDimensions)

	_, err = Transform(nil, good)
	assert.ErrorIs(t, err, models.ErrDimensions)

	src := &models.PixelBuffer{Width: 2, Height: 1, Pix: []uint16{1, 2}}
	dst, err := Transform(src, Params{Window: models.Window{Low: 5, High: 4}, Output: good.Output})
	assert.ErrorIs(t, err, ErrInvalidWindow)
	assert.Nil(t, dst)

	dst, err = Transform(src, Params{Window: good.Window, Output: models.OutputRange{Low: 9, High: 1}})
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Nil(t, dst)
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, Params{Window: models.Window{Low: 3, High: 3}, Output: models.OutputRange{Low: 0, High: 0}}.Validate())
	assert.ErrorIs(t, Params{Window: models.Window{Low: 3, High: 2}}.Validate(), ErrInvalidWindow)
	assert.ErrorIs(t, Params{Window: models.Window{Low: 0, High: 1}, Output: models.OutputRange{Low: -1, High: 2}}.Validate(), ErrInvalidRange)
}

func randomPixels(t *testing.T, n int, lo, hi int) []uint16 {
	t.Helper()
	r := rand.New(rand.NewPCG(uint64(n), uint64(hi)))
	pix := make([]uint16, n)
	for i := range pix {
		pix[i] = uint16(lo + r.IntN(hi-lo))
	}
	return pix
}

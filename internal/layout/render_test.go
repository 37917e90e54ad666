package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_MasterAndStack(t *testing.T) {
	area := Rect{Width: 200, Height: 100}
	ps, err := Compute(windows(3), area, Params{MasterCount: 1, MasterFraction: 0.5})
	require.NoError(t, err)

	rows := Render(area, ps, 20, 10)
	require.Len(t, rows, 10)
	for _, row := range rows {
		assert.Len(t, []rune(row), 20)
	}

	assert.Equal(t, "+--------++--------+", rows[0])
	assert.Equal(t, "+--------++--------+", rows[9])
	assert.Contains(t, rows[4], "1")
	assert.Contains(t, strings.Join(rows[:5], "\n"), "2")
	assert.Contains(t, strings.Join(rows[5:], "\n"), "3")
}

func TestRender_EmptyInputs(t *testing.T) {
	assert.Nil(t, Render(Rect{Width: 10, Height: 10}, nil, 0, 5))

	rows := Render(Rect{}, nil, 4, 2)
	assert.Equal(t, []string{"    ", "    "}, rows)
}

func TestRender_NarrowCellsKeepMultiDigitLabels(t *testing.T) {
	ps, err := Compute(windows(12), Rect{Width: 120, Height: 10}, Params{MasterFraction: 0.5, Columns: 12})
	require.NoError(t, err)

	rows := Render(Rect{Width: 120, Height: 10}, ps, 24, 4)
	require.Len(t, rows, 4)

	assert.Equal(t, "11", rows[0][0:2])
	assert.Equal(t, "99", rows[3][16:18])
	assert.Equal(t, "##", rows[0][22:24])
	assert.Equal(t, "10", rows[1][18:20])
	assert.Equal(t, "12", rows[1][22:24])
	assert.Equal(t, "##", rows[2][22:24])
}

package viz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txn2/kusto-notebook/pkg/kusto"
)

func TestRenderBar(t *testing.T) {
	tbl := &kusto.Table{
		Columns: []kusto.Column{
			{Name: "city", Type: kusto.TypeString},
			{Name: "count", Type: kusto.TypeLong},
		},
		Rows: [][]any{
			{"Seattle", float64(12)},
			{"Portland", float64(7)},
		},
	}

	series := RenderBar(tbl, OrientationHorizontal)
	require.NotNil(t, series)
	assert.Equal(t, []string{"Seattle", "Portland"}, series.Categories)
	assert.Equal(t, []float64{12, 7}, series.Values)
	assert.Equal(t, OrientationHorizontal, series.Orientation)
}

func TestRenderBarSkipsShortRows(t *testing.T) {
	tbl := &kusto.Table{
		Rows: [][]any{
			{"only-one-cell"},
			{"ok", float64(1)},
		},
	}

	series := RenderBar(tbl, OrientationVertical)
	require.NotNil(t, series)
	assert.Equal(t, []string{"ok"}, series.Categories)
}

func TestRenderBarEmpty(t *testing.T) {
	assert.Nil(t, RenderBar(nil, OrientationVertical))
	assert.Nil(t, RenderBar(&kusto.Table{}, OrientationVertical))
}

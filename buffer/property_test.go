package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	graphemeutil "github.com/iw2rmb/tilde/internal/grapheme"
)

// Clusters that never merge with a neighbour drawn from the same set.
var sampleClusters = []string{
	"a", "Z", "0", "7", " ", "\t", "-", "\u00e9", "テ", combined, family,
	"\U0001F44D\U0001F3FD",
}

func clusterGen() *rapid.Generator[string] {
	return rapid.SampledFrom(sampleClusters)
}

func rowTextGen() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		return graphemeutil.Join(rapid.SliceOfN(clusterGen(), 0, 12).Draw(t, "clusters"))
	})
}

func TestProperty_SplitAppendRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := rowTextGen().Draw(rt, "text")
		r := NewRow(text)
		k := rapid.IntRange(0, r.Len()).Draw(rt, "k")

		tail := r.SplitAt(k)
		require.Equal(rt, k, r.Len(), "head length")
		r.Append(tail)

		require.Equal(rt, text, r.Text())
		require.Equal(rt, graphemeutil.Count(text), r.Len())
	})
}

func TestProperty_InsertDeleteInverse(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := rowTextGen().Draw(rt, "text")
		g := clusterGen().Draw(rt, "g")
		r := NewRow(text)
		p := rapid.IntRange(0, r.Len()).Draw(rt, "p")

		r.Insert(p, g)
		require.Equal(rt, graphemeutil.Count(text)+1, r.Len())
		r.Delete(p)

		require.Equal(rt, text, r.Text())
		require.Equal(rt, graphemeutil.Count(text), r.Len())
	})
}

func TestProperty_RenderLengthInClusters(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := NewRow(rowTextGen().Draw(rt, "text"))
		r.Highlight(DefaultClassifier())
		a := rapid.IntRange(0, 20).Draw(rt, "a")
		b := rapid.IntRange(0, 20).Draw(rt, "b")

		end := minInt(b, r.Len())
		start := minInt(a, end)
		want := end - start
		if want < 0 {
			want = 0
		}

		got := graphemeutil.Count(r.Render(a, b, nil))
		require.Equal(rt, want, got)
	})
}

func TestProperty_DocumentEditsKeepRowLengthsLive(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := New()
		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			y := rapid.IntRange(0, d.Len()).Draw(rt, "y")
			x := rapid.IntRange(0, d.RowLen(y)).Draw(rt, "x")
			p := Pos{Row: y, Col: x}
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				d.Insert(p, clusterGen().Draw(rt, "g"))
			case 1:
				d.Insert(p, "\n")
			default:
				d.Delete(p)
			}
		}
		for y := 0; y < d.Len(); y++ {
			row, ok := d.Row(y)
			require.True(rt, ok)
			require.Equal(rt, graphemeutil.Count(row.Text()), row.Len())
			require.Len(rt, row.Classes(), row.Len())
		}
	})
}

package geoio

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"geoframe/pkg/geom"
	"geoframe/pkg/geoframe"
)

func TestRecordBatchRoundTrip(t *testing.T) {
	pool := memory.NewGoAllocator()
	g := pointFrame(t, orb.Point{95.35, 5.5}, orb.Point{95.36, 5.51})

	rec, err := FrameToRecordBatch(pool, g)
	require.NoError(t, err)
	defer rec.Release()

	if rec.NumRows() != 2 {
		t.Fatalf("Expected 2 rows, got %d", rec.NumRows())
	}

	f, err := RecordsToFrame([]arrow.RecordBatch{rec}, geom.GeometryColumn)
	require.NoError(t, err)

	back := geoframe.New(f, g.CRS)
	gs, err := back.Geometry()
	require.NoError(t, err)

	if gs.Geoms[0].(orb.Point) != (orb.Point{95.35, 5.5}) {
		t.Errorf("Geometry changed in round trip: %v", gs.Geoms[0])
	}

	value, err := f.Col("value")
	require.NoError(t, err)
	if value.Values[1] != int64(1) {
		t.Errorf("Expected int64(1), got %v (%T)", value.Values[1], value.Values[1])
	}

	name, err := f.Col("name")
	require.NoError(t, err)
	if name.Values[0] != "row" {
		t.Errorf("Expected \"row\", got %v", name.Values[0])
	}
}

func TestFrameToRecordBatch_LineString(t *testing.T) {
	pool := memory.NewGoAllocator()
	g := pointFrame(t, orb.LineString{{0, 0}, {1, 1}}, orb.LineString{{2, 2}, {3, 3}})

	rec, err := FrameToRecordBatch(pool, g)
	require.NoError(t, err)
	defer rec.Release()

	f, err := RecordsToFrame([]arrow.RecordBatch{rec}, geom.GeometryColumn)
	require.NoError(t, err)

	gs, err := geoframe.New(f, g.CRS).Geometry()
	require.NoError(t, err)
	line := gs.Geoms[1].(orb.LineString)
	if line[0] != (orb.Point{2, 2}) {
		t.Errorf("Unexpected line start: %v", line[0])
	}
}

func TestRecordsToFrame_Empty(t *testing.T) {
	_, err := RecordsToFrame(nil, geom.GeometryColumn)
	if err == nil {
		t.Fatal("Expected error for empty record set")
	}
}

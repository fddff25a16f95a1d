package geoio

import (
	"context"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/duckdb/duckdb-go/v2"

	"geoframe/pkg/geom"
	"geoframe/pkg/geoframe"
	"geoframe/pkg/projection"
)

// WriteParquet sinks the frame into a snappy-compressed parquet file with
// the geometry column stored as WKB. Parquet carries the geometry per row,
// so mixed geometry types are allowed here, unlike single-schema vector
// files.
func WriteParquet(g *geoframe.GeoFrame, path string) error {
	pool := memory.NewGoAllocator()
	rec, err := FrameToRecordBatch(pool, g)
	if err != nil {
		return err
	}
	defer rec.Release()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	writer, err := pqarrow.NewFileWriter(
		rec.Schema(),
		f,
		parquet.NewWriterProperties(
			parquet.WithCompression(compress.Codecs.Snappy)),
		pqarrow.DefaultWriterProps(),
	)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	defer writer.Close()

	if err := writer.WriteBuffered(rec); err != nil {
		return fmt.Errorf("failed to write record batch: %w", err)
	}
	return nil
}

// ReadParquet loads a parquet file written by WriteParquet back into a
// GeoFrame. An empty crs defaults to EPSG:4326.
func ReadParquet(ctx context.Context, path, crs string) (*geoframe.GeoFrame, error) {
	if crs == "" {
		crs = projection.WGS84
	}

	c, err := duckdb.NewConnector("", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create duckdb connector: %w", err)
	}
	defer c.Close()

	conn, err := c.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	ar, err := duckdb.NewArrowFromConn(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow interface: %w", err)
	}

	reader, err := ar.QueryContext(ctx, fmt.Sprintf("SELECT * FROM read_parquet(%s)", sqlString(path)))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer reader.Release()

	var recs []arrow.RecordBatch
	defer func() {
		for _, rec := range recs {
			rec.Release()
		}
	}()
	for reader.Next() {
		rec := reader.RecordBatch()
		rec.Retain()
		recs = append(recs, rec)
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}

	f, err := RecordsToFrame(recs, geom.GeometryColumn)
	if err != nil {
		return nil, err
	}
	return geoframe.New(f, crs), nil
}

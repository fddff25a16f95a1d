package geoio

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/duckdb/duckdb-go/v2"

	"geoframe/pkg/geom"
	"geoframe/pkg/geoframe"
	"geoframe/pkg/projection"
)

// DefaultDriver is the GDAL driver used when none is given.
const DefaultDriver = "ESRI Shapefile"

// stReadGeometryColumn is the geometry column name ST_Read produces.
const stReadGeometryColumn = "geom"

// sqlString quotes a literal for SQL interpolation, doubling embedded
// quotes. COPY TO targets and ST_Read arguments cannot be bound as
// parameters.
func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// WriteFile writes the frame to a vector file through the given GDAL
// driver. The schema is inferred first and mixed incompatible geometry
// types fail before any file or database resource is opened. All acquired
// resources are released on every exit path; an error during the write
// leaves whatever partial output the driver produced.
func WriteFile(ctx context.Context, g *geoframe.GeoFrame, path, driver string) error {
	if _, err := InferSchema(g); err != nil {
		return err
	}
	if driver == "" {
		driver = DefaultDriver
	}

	c, err := duckdb.NewConnector("", nil)
	if err != nil {
		return fmt.Errorf("failed to create duckdb connector: %w", err)
	}
	defer c.Close()

	conn, err := c.Connect(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	ar, err := duckdb.NewArrowFromConn(conn)
	if err != nil {
		return fmt.Errorf("failed to create arrow interface: %w", err)
	}

	db := sql.OpenDB(c)
	defer db.Close()
	if _, err := db.ExecContext(ctx, "INSTALL spatial; LOAD spatial;"); err != nil {
		return fmt.Errorf("failed to load spatial extension: %w", err)
	}

	pool := memory.NewGoAllocator()
	rec, err := FrameToRecordBatch(pool, g)
	if err != nil {
		return err
	}
	defer rec.Release()

	rr, err := array.NewRecordReader(rec.Schema(), []arrow.RecordBatch{rec})
	if err != nil {
		return fmt.Errorf("failed to create record reader: %w", err)
	}
	defer rr.Release()

	release, err := ar.RegisterView(rr, "frame_view")
	if err != nil {
		return fmt.Errorf("failed to register view: %w", err)
	}
	defer release()

	copySQL := fmt.Sprintf(
		"COPY (SELECT * REPLACE (ST_GeomFromWKB(%s) AS %s) FROM frame_view) TO %s (FORMAT GDAL, DRIVER %s, SRS %s)",
		geom.GeometryColumn, geom.GeometryColumn, sqlString(path), sqlString(driver), sqlString(g.CRS),
	)
	out, err := ar.QueryContext(ctx, copySQL)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	out.Release()
	return nil
}

// ReadFile reads a vector file into a GeoFrame. Parsing is delegated
// entirely to the spatial extension's ST_Read; the geometry column is
// fetched as WKB and decoded. An empty crs defaults to EPSG:4326.
func ReadFile(ctx context.Context, path, crs string) (*geoframe.GeoFrame, error) {
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

	db := sql.OpenDB(c)
	defer db.Close()
	if _, err := db.ExecContext(ctx, "INSTALL spatial; LOAD spatial;"); err != nil {
		return nil, fmt.Errorf("failed to load spatial extension: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT * REPLACE (ST_AsWKB(%s) AS %s) FROM ST_Read(%s)",
		stReadGeometryColumn, stReadGeometryColumn, sqlString(path),
	)
	reader, err := ar.QueryContext(ctx, query)
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

	f, err := RecordsToFrame(recs, stReadGeometryColumn)
	if err != nil {
		return nil, err
	}
	return geoframe.New(f, crs), nil
}

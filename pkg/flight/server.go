package flight

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/rs/zerolog/log"

	"geoframe/pkg/geoframe"
	"geoframe/pkg/geoio"
	"geoframe/pkg/geom"
	"geoframe/pkg/projection"
)

// GeoFlightServer serves bulk GeoFrame operations over Arrow Flight.
// Clients stream record batches whose geometry column holds WKB bytes and
// receive the transformed batches back on the same exchange.
type GeoFlightServer struct {
	flight.BaseFlightServer
}

func NewGeoFlightServer() *GeoFlightServer {
	return &GeoFlightServer{}
}

// action is the exchange metadata: which operation to run and the CRS
// pair for it.
type action struct {
	Operation string `json:"operation"`
	SourceCRS string `json:"source_crs"`
	TargetCRS string `json:"target_crs"`
}

func (s *GeoFlightServer) DoExchange(stream flight.FlightService_DoExchangeServer) error {
	desc, err := stream.Recv()
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}

	var act action
	if len(desc.AppMetadata) > 0 {
		if err := json.Unmarshal(desc.AppMetadata, &act); err != nil {
			return fmt.Errorf("failed to parse exchange metadata: %w", err)
		}
	} else if desc.FlightDescriptor != nil && len(desc.FlightDescriptor.Cmd) > 0 {
		if err := json.Unmarshal(desc.FlightDescriptor.Cmd, &act); err != nil {
			return fmt.Errorf("failed to parse descriptor command: %w", err)
		}
	}

	if act.SourceCRS == "" {
		act.SourceCRS = projection.WGS84
	}

	log.Info().Str("operation", act.Operation).Str("source_crs", act.SourceCRS).Str("target_crs", act.TargetCRS).Msg("flight exchange")

	switch act.Operation {
	case "reproject":
		return s.handleReproject(stream, act.SourceCRS, act.TargetCRS)
	default:
		return fmt.Errorf("unsupported operation: %s", act.Operation)
	}
}

func (s *GeoFlightServer) handleReproject(stream flight.FlightService_DoExchangeServer, source, target string) error {
	reader, err := flight.NewRecordReader(stream)
	if err != nil {
		return err
	}
	defer reader.Release()

	var records []arrow.RecordBatch
	defer func() {
		for _, rec := range records {
			rec.Release()
		}
	}()
	for reader.Next() {
		rec := reader.RecordBatch()
		rec.Retain()
		records = append(records, rec)
	}
	if err := reader.Err(); err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no records received")
	}

	f, err := geoio.RecordsToFrame(records, geom.GeometryColumn)
	if err != nil {
		return fmt.Errorf("failed to convert records: %w", err)
	}

	g, err := geoframe.New(f, source).ToCRS(target, true)
	if err != nil {
		return fmt.Errorf("failed to reproject: %w", err)
	}

	out, err := geoio.FrameToRecordBatch(memory.NewGoAllocator(), g)
	if err != nil {
		return fmt.Errorf("failed to convert result: %w", err)
	}
	defer out.Release()

	writer := flight.NewRecordWriter(stream, ipc.WithSchema(out.Schema()))
	defer writer.Close()

	return writer.Write(out)
}

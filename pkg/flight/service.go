package flight

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
)

func NewFlightServer(opts ...grpc.ServerOption) flight.Server {
	server := flight.NewServerWithMiddleware(nil, opts...)
	server.RegisterFlightService(NewGeoFlightServer())
	return server
}

// StartFlightServer serves GeoFrame operations over Arrow Flight on the
// given port, blocking until the server stops.
func StartFlightServer(port int, opts ...grpc.ServerOption) error {
	addr := fmt.Sprintf(":%d", port)
	server := NewFlightServer(opts...)
	log.Info().Str("addr", addr).Msg("starting flight server")
	if err := server.Init(addr); err != nil {
		return err
	}
	return server.Serve()
}

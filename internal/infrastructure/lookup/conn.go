// Package lookup provides synchronous cross-service clients for the project
// and identity services. The clients use a JSON codec so that proto-generated
// stubs are not required; once generated code is available the raw Invoke
// calls can be replaced with typed client stubs.
package lookup

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"

	"github.com/workhub/settlement/internal/domain/payerr"
)

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// ServiceConn is a gRPC client connection to a backend service.
type ServiceConn struct {
	name   string
	conn   *grpc.ClientConn
	logger *slog.Logger
}

// Dial establishes a gRPC connection to the backend service.
func Dial(name, addr string, logger *slog.Logger) (*ServiceConn, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("dial %s at %s: %w", name, addr, err)
	}

	logger.Info("connected to backend service", "service", name, "addr", addr)

	return &ServiceConn{name: name, conn: conn, logger: logger}, nil
}

// Close closes the underlying gRPC connection.
func (sc *ServiceConn) Close() error {
	if sc == nil || sc.conn == nil {
		return nil
	}
	return sc.conn.Close()
}

// Invoke calls a gRPC method on the backend service using the JSON codec and
// translates the gRPC status into the settlement error taxonomy.
func (sc *ServiceConn) Invoke(ctx context.Context, method string, req, resp interface{}) error {
	if sc == nil || sc.conn == nil {
		return payerr.E(payerr.Unavailable, "%s service not connected", sc.name)
	}

	err := sc.conn.Invoke(ctx, method, req, resp, grpc.ForceCodecCallOption{Codec: jsonCodec{}})
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return payerr.Wrap(payerr.Unavailable, err, "%s call %s failed", sc.name, method)
	}
	switch st.Code() {
	case codes.NotFound:
		return payerr.Wrap(payerr.NotFound, err, "%s: %s", sc.name, st.Message())
	case codes.InvalidArgument:
		return payerr.Wrap(payerr.BadRequest, err, "%s: %s", sc.name, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return payerr.Wrap(payerr.Unavailable, err, "%s unavailable", sc.name)
	default:
		return payerr.Wrap(payerr.Internal, err, "%s call %s failed", sc.name, method)
	}
}

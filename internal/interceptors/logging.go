// interceptors — unary-интерсепторы gRPC-сервера здоровья.
package interceptors

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/fittrack-dashboard/internal/pkg/log"
	"github.com/pribylovaa/fittrack-dashboard/internal/pkg/requestid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// healthPrefix — методы стандартного сервиса здоровья; пробы идут часто,
// поэтому успешные вызовы пишутся на уровне Debug.
const healthPrefix = "/grpc.health.v1.Health/"

// UnaryLoggingInterceptor логирует unary-вызовы с контекстным логгером.
//
//   - x-request-id берётся из metadata, иначе генерируется UUID;
//   - обогащённый логгер и request id кладутся в context;
//   - после handler пишется одна запись msg="grpc" с code и dur.
func UnaryLoggingInterceptor(base *slog.Logger) grpc.UnaryServerInterceptor {
	if base == nil {
		base = slog.Default()
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		var rid string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get("x-request-id"); len(v) > 0 && v[0] != "" {
				rid = v[0]
			}
		}
		if rid == "" {
			rid = uuid.NewString()
		}

		peerStr := "-"
		if p, ok := peer.FromContext(ctx); ok && p != nil && p.Addr != nil {
			peerStr = p.Addr.String()
		}

		l := base.With(
			slog.String("request_id", rid),
			slog.String("method", info.FullMethod),
			slog.String("peer", peerStr),
		)
		ctx = log.Into(ctx, l)
		ctx = requestid.Into(ctx, rid)

		resp, err := handler(ctx, req)

		lvl := slog.LevelInfo
		if err == nil && strings.HasPrefix(info.FullMethod, healthPrefix) {
			lvl = slog.LevelDebug
		}

		l.LogAttrs(ctx, lvl, "grpc",
			slog.String("code", status.Code(err).String()),
			slog.Duration("dur", time.Since(start)),
		)

		return resp, err
	}
}

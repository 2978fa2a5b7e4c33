package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/rental_fx/internal/middleware"
)

// BaseService gives every rate service the request logger, tagged with the
// service's component name.
type BaseService struct {
	Component string
}

func (s *BaseService) logger(ctx context.Context) *slog.Logger {
	l := middleware.GetLoggerFromCtx(ctx)
	if s.Component != "" {
		l = l.With(slog.String("component", s.Component))
	}
	return l
}

// LogError logs err under msg at error level.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, attrs ...any) {
	s.logger(ctx).ErrorContext(ctx, msg, append([]any{slog.String("error", err.Error())}, attrs...)...)
}

// LogWarn is for degraded paths that still answer, such as a cache tier fallback.
func (s *BaseService) LogWarn(ctx context.Context, msg string, attrs ...any) {
	s.logger(ctx).WarnContext(ctx, msg, attrs...)
}

func (s *BaseService) LogInfo(ctx context.Context, msg string, attrs ...any) {
	s.logger(ctx).InfoContext(ctx, msg, attrs...)
}

func (s *BaseService) LogDebug(ctx context.Context, msg string, attrs ...any) {
	s.logger(ctx).DebugContext(ctx, msg, attrs...)
}

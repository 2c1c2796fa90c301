package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"

	"github.com/Daffa964/api-edutrash/internal/service"
)

func spanNames(recorder *tracetest.SpanRecorder) []string {
	var names []string
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
	}
	return names
}

func TestServicesRecordSpansOnInjectedTracer(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	tracer := tp.Tracer("edutrash-test")

	authService := newTestAuthService(t, newMemoryUserRepo()).WithTracer(tracer)
	_, err := authService.Register(context.Background(), "alice", "a@x.com", "secret123")
	require.NoError(t, err)
	_, err = authService.Login(context.Background(), "a@x.com", "secret123")
	require.NoError(t, err)

	funFacts := service.NewFunFactService(&stubGenerator{text: "fakta"}, nil, funFactConfig(), zap.NewNop()).WithTracer(tracer)
	_, err = funFacts.Generate(context.Background(), "kaca")
	require.NoError(t, err)

	require.Equal(t, []string{"AuthService.Register", "AuthService.Login", "FunFactService.Generate"}, spanNames(recorder))
}

func TestWithTracerIgnoresNil(t *testing.T) {
	authService := newTestAuthService(t, newMemoryUserRepo()).WithTracer(nil)
	_, err := authService.Register(context.Background(), "alice", "a@x.com", "secret123")
	require.NoError(t, err)
}

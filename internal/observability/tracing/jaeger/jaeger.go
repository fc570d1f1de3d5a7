package jaeger

import (
	"context"

	conf "github.com/HiSumm3rs/Bot-IDBL/internal/config"
	"github.com/opentracing/opentracing-go"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"go.uber.org/zap"
)

// Start registers the global tracer and blocks until ctx is done.
func Start(ctx context.Context, serviceName string, conf *conf.JaegerConfig) {
	cfg := jaegercfg.Configuration{
		ServiceName: serviceName,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  conf.Sampler.Type,
			Param: conf.Sampler.Param,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LogSpans:           conf.Reporter.LogSpans,
			LocalAgentHostPort: conf.Reporter.LocalAgentHostPort,
		},
	}

	tracer, closer, err := cfg.NewTracer(jaegercfg.Logger(jaeger.StdLogger))
	if err != nil {
		zap.L().Warn("Failed to start tracer", zap.Error(err))
		return
	}
	opentracing.SetGlobalTracer(tracer)

	<-ctx.Done()
	if err = closer.Close(); err != nil {
		zap.L().Warn("Error closing tracer", zap.Error(err))
	}
}

package jaeger

import (
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/exporters/jaeger"
)

// collectorEndpoint resolves the collector URL from config, falling back to
// the compose-network default.
func collectorEndpoint() string {
	if endpoint := viper.GetString("jaeger.endpoint"); endpoint != "" {
		return endpoint
	}

	return "http://jaeger:14268/api/traces"
}

func MustNewJaeger() *jaeger.Exporter {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(
		jaeger.WithEndpoint(collectorEndpoint()),
	))
	if err != nil {
		panic(err)
	}

	return exp
}

package jaeger

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestCollectorEndpoint(t *testing.T) {
	viper.Set("jaeger.endpoint", "")
	assert.Equal(t, "http://jaeger:14268/api/traces", collectorEndpoint())

	viper.Set("jaeger.endpoint", "http://tracing.internal:14268/api/traces")
	defer viper.Set("jaeger.endpoint", "")
	assert.Equal(t, "http://tracing.internal:14268/api/traces", collectorEndpoint())
}

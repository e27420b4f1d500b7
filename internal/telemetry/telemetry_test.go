package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_EmptyEndpointIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), "", "apiconnect")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_ExporterShutsDownCleanly(t *testing.T) {
	// Exporter creation does not dial; nothing is exported before shutdown.
	shutdown, err := Setup(context.Background(), "http://127.0.0.1:4318", "apiconnect-test")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

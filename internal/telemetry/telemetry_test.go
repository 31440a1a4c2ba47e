package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetup_StdoutExporters(t *testing.T) {
	ctx := context.Background()

	shutdown, err := Setup(ctx, Options{Exporter: "stdout"})
	require.NoError(t, err)
	require.NoError(t, shutdown(ctx))
}

func TestSetup_UnknownExporterFallsBackToStdout(t *testing.T) {
	ctx := context.Background()

	shutdown, err := Setup(ctx, Options{Exporter: ""})
	require.NoError(t, err)
	require.NoError(t, shutdown(ctx))
}

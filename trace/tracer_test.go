// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabledTracerIsNoop(t *testing.T) {
	require := require.New(t)

	tr, err := New(&Config{AppName: "echovm"})
	require.NoError(err)

	_, span := tr.Start(context.Background(), "Runtime.Execute")
	require.False(span.IsRecording())
	span.End()
	require.NoError(tr.Close())
}

func TestEnabledTracerSamples(t *testing.T) {
	require := require.New(t)

	tr, err := New(&Config{
		Enabled:         true,
		TraceSampleRate: 1,
		AppName:         "echovm",
	})
	require.NoError(err)

	_, span := tr.Start(context.Background(), "Runtime.Execute")
	require.True(span.IsRecording())
	span.End()
	require.NoError(tr.Close())
}

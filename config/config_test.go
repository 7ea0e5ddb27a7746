// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateAggregatesAllErrors(t *testing.T) {
	c := Default()
	c.DesiredNodes = 0
	c.MaxAllowedNodes = -1
	c.RelayBroadcastPercentage = 2.0
	c.SocketReadSize = 100
	c.ThreadPoolSize = 0

	err := c.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "desiredNodes")
	require.Contains(t, err.Error(), "relayBroadcastPercentage")
	require.Contains(t, err.Error(), "socketReadSize")
	require.Contains(t, err.Error(), "threadPoolSize")
}

func TestMaxAllowedNodesMustNotBeBelowDesired(t *testing.T) {
	c := Default()
	c.MaxAllowedNodes = c.DesiredNodes - 1
	require.Error(t, c.Validate())
}

func TestMaximumBlockSizeCap(t *testing.T) {
	c := Default()
	c.MaximumBlockSize = 5 << 30 // 5 GiB, over the 4 GiB hard cap
	require.Error(t, c.Validate())
}

func TestDispatchQuotaBoundedByDepthHi(t *testing.T) {
	c := Default()
	c.DispatchQuota = c.DepthHi + 1
	require.Error(t, c.Validate())
}

// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryRegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRegistry(reg, nil)
	require.NoError(t, err)
	require.NotNil(t, r)

	r.DrainCount.Inc()
	r.FinalizedHeight.Set(42)
	r.InboundQueueDepthHigh.Add(3)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func TestAveragerTracksRunningMean(t *testing.T) {
	a := &averager{}
	require.Equal(t, float64(0), a.Read())

	a.Observe(2)
	a.Observe(4)
	require.Equal(t, float64(3), a.Read())
}

func TestNewRegistryRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRegistry(reg, nil)
	require.NoError(t, err)

	_, err = NewRegistry(reg, nil)
	require.Error(t, err)
}

package fuelprices

import (
	"testing"
	"time"

	"openfuel-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestBuildSnapshot(t *testing.T) {
	defer telemetry.SetupForTesting("test:fuelprices")()

	generatedAt := time.Date(2024, time.March, 15, 6, 30, 0, 0, time.UTC)
	snap := BuildSnapshot(map[Kind][]PriceEntry{
		Petrol: {
			{City: "New Delhi", Price: 94.77},
			{City: "Mumbai", Price: 103.50},
			// repeated from a state table with a different price,
			// the first sighting wins
			{City: "Mumbai", Price: 104.21},
			{City: "Kolkata", Price: 105.01},
		},
		Diesel: {
			{City: "New Delhi", Price: 87.67},
		},
	}, generatedAt)

	require.Equal(t, "2024-03-15T12:00:00+05:30", snap.LastUpdatedIST)
	require.Equal(t, []PriceEntry{
		{City: "New Delhi", Price: 94.77},
		{City: "Mumbai", Price: 103.50},
		{City: "Kolkata", Price: 105.01},
	}, snap.Petrol)
	require.Equal(t, []PriceEntry{{City: "New Delhi", Price: 87.67}}, snap.Diesel)

	require.Equal(t, 3, snap.Count(Petrol))
	require.Equal(t, 1, snap.Count(Diesel))
	require.Equal(t, 0, snap.Count(Kind("kerosene")))
}

package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStampCarriesOffset(t *testing.T) {
	utc := time.Date(2024, time.March, 15, 6, 30, 0, 0, time.UTC)
	stamp := Stamp(utc)
	require.Equal(t, "2024-03-15T12:00:00+05:30", stamp)
}

func TestNowIsIST(t *testing.T) {
	_, offset := Now().Zone()
	require.Equal(t, 5*3600+30*60, offset)
}

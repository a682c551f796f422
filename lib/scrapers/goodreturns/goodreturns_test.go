package goodreturns

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"openfuel-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

const fixturePage = `
<html><body>
<div class="gd-fuel-table-block">
	<table class="gd-fuel-table-list">
		<tr><th>City</th><th>Price</th></tr>
		<tr><td><a href="#">New Delhi</a></td><td>&#8377; 94.77</td></tr>
		<tr><td>Mumbai</td><td>103.50</td></tr>
		<tr><td>Broken Row</td></tr>
		<tr><td>Kolkata</td><td>105.01</td></tr>
	</table>
</div>
<div class="gd-fuel-table-block">
	<table class="gd-fuel-table-list">
		<tr><th>State</th><th>Price</th></tr>
		<tr><td>Port Blair</td><td>84.10</td></tr>
	</table>
</div>
</body></html>`

func TestExtract(t *testing.T) {
	defer telemetry.SetupForTesting("test:goodreturns")()

	records, err := Extract(context.Background(), []byte(fixturePage), "petrol")
	require.NoError(t, err)

	require.Equal(t, []Record{
		{City: "New Delhi", Price: "₹ 94.77"},
		{City: "Mumbai", Price: "103.50"},
		{City: "Kolkata", Price: "105.01"},
		{City: "Port Blair", Price: "84.10"},
	}, records)
}

func TestExtractStructureChanged(t *testing.T) {
	defer telemetry.SetupForTesting("test:goodreturns")()

	_, err := Extract(context.Background(), []byte("<html><body><p>moved</p></body></html>"), "petrol")
	require.ErrorIs(t, err, ErrStructureChanged)

	// container renamed counts as a structural failure too
	_, err = Extract(context.Background(), []byte(
		`<div class="gd-fuel-table-block"><table class="gd-fuel-table-list"></table></div>`,
	), "diesel")
	require.ErrorIs(t, err, ErrStructureChanged)
}

func TestExtractBrokenRowIsSkippedNotFatal(t *testing.T) {
	defer telemetry.SetupForTesting("test:goodreturns")()

	page := `
	<div class="gd-fuel-table-block">
		<table class="gd-fuel-table-list">
			<tr><td>Chennai</td><td>100.80</td></tr>
			<tr><td></td><td>93.10</td></tr>
		</table>
	</div>`
	records, err := Extract(context.Background(), []byte(page), "petrol")
	require.NoError(t, err)
	require.Equal(t, []Record{{City: "Chennai", Price: "100.80"}}, records)
}

func TestFetchRetriesTransientFailures(t *testing.T) {
	defer telemetry.SetupForTesting("test:goodreturns")()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(fixturePage))
	}))
	defer srv.Close()

	client := NewClient(ClientOptions{RetryWaitTime: time.Millisecond})
	body, err := client.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Contains(t, string(body), "New Delhi")
	require.EqualValues(t, 3, hits.Load())
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	defer telemetry.SetupForTesting("test:goodreturns")()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(ClientOptions{RetryWaitTime: time.Millisecond})
	_, err := client.Fetch(context.Background(), srv.URL)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, srv.URL, fetchErr.URL)
	require.EqualValues(t, 1, hits.Load())
}

func TestFetchRejectsChallengePage(t *testing.T) {
	defer telemetry.SetupForTesting("test:goodreturns")()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>Checking your browser... Cloudflare Ray ID: 8abc</html>`))
	}))
	defer srv.Close()

	client := NewClient(ClientOptions{RetryWaitTime: time.Millisecond})
	_, err := client.Fetch(context.Background(), srv.URL)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
}

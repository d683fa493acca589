package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters_Increment(t *testing.T) {
	before := testutil.ToFloat64(ImageUploads.WithLabelValues("after", "preview"))
	ImageUploads.WithLabelValues("after", "preview").Inc()
	require.Equal(t, before+1, testutil.ToFloat64(ImageUploads.WithLabelValues("after", "preview")))

	exp := testutil.ToFloat64(AfterImageExpirations)
	AfterImageExpirations.Inc()
	require.Equal(t, exp+1, testutil.ToFloat64(AfterImageExpirations))
}

func TestHTTPRequests_Labels(t *testing.T) {
	HTTPRequests.WithLabelValues("GET", "/profile", "200").Inc()

	require.GreaterOrEqual(t, testutil.CollectAndCount(HTTPRequests), 1)
	require.GreaterOrEqual(t, testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/profile", "200")), 1.0)
}

package metrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionguard/pkg/metrics"
	"github.com/dmitrymomot/sessionguard/pkg/session"
)

func TestObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := metrics.New(reg)
	ctx := context.Background()

	o.Observe(ctx, session.Event{Kind: session.EventCreated, Type: session.Continuous})
	o.Observe(ctx, session.Event{Kind: session.EventResumed, Type: session.Continuous, Score: 0.5})
	o.Observe(ctx, session.Event{Kind: session.EventRejected, Type: session.Continuous, Reason: session.ReasonChallenge, Score: 1.5})
	o.Observe(ctx, session.Event{Kind: session.EventRejected, Type: session.Temporary, Reason: session.ReasonIdle})

	count, err := testutil.GatherAndCount(reg, "sessionguard_session_events_total")
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	count, err = testutil.GatherAndCount(reg, "sessionguard_challenge_score")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "one histogram series for the continuous type")

	w := httptest.NewRecorder()
	o.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `sessionguard_session_events_total{kind="rejected",reason="challenge",type="continuous"} 1`)
	assert.Contains(t, w.Body.String(), `sessionguard_challenge_score_count{type="continuous"} 2`)
}

func TestObserver_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)
	assert.Panics(t, func() { metrics.New(reg) })
}

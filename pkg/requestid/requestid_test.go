package requestid_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionguard/pkg/logger"
	"github.com/dmitrymomot/sessionguard/pkg/requestid"
)

func TestMiddleware(t *testing.T) {
	serve := func(inbound string) (header, seen string) {
		h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = requestid.FromContext(r.Context())
		}))
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if inbound != "" {
			r.Header.Set(requestid.Header, inbound)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Header().Get(requestid.Header), seen
	}

	t.Run("keeps valid inbound id", func(t *testing.T) {
		header, seen := serve("req_abc-123")
		assert.Equal(t, "req_abc-123", header)
		assert.Equal(t, "req_abc-123", seen)
	})

	t.Run("generates id when missing", func(t *testing.T) {
		header, seen := serve("")
		assert.Equal(t, header, seen)
		_, err := uuid.Parse(header)
		assert.NoError(t, err)
	})

	t.Run("replaces malformed id", func(t *testing.T) {
		for _, bad := range []string{"has space", "line\nbreak", strings.Repeat("a", 129)} {
			header, _ := serve(bad)
			assert.NotEqual(t, bad, header)
			_, err := uuid.Parse(header)
			assert.NoError(t, err)
		}
	})
}

func TestFromContextEmpty(t *testing.T) {
	assert.Empty(t, requestid.FromContext(context.Background()))
}

func TestLoggerExtractor(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)

	log.InfoContext(requestid.WithContext(context.Background(), "req-1"), "tagged")
	require.Contains(t, buf.String(), `"request_id":"req-1"`)

	buf.Reset()
	log.InfoContext(context.Background(), "untagged")
	assert.NotContains(t, buf.String(), "request_id")
}

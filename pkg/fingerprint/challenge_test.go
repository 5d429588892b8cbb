package fingerprint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/sessionguard/pkg/fingerprint"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b     string
		expected float64
	}{
		{"Agent/1", "Agent/1", 100},
		{"", "", 0},
		{"abc", "", 0},
		{"World", "Word", 800.0 / 9},
		{"abcd", "abce", 75},
		{"abcdefghij", "abcdefghik", 90},
		{"1.2.3.4", "9.9.9.9", 600.0 / 14},
		{"abc", "xyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.expected, fingerprint.Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func full(ip, ua string) fingerprint.Fingerprint {
	return fingerprint.Fingerprint{
		fingerprint.SignalIP:             ip,
		fingerprint.SignalUserAgent:      ua,
		fingerprint.SignalAccept:         "text/html",
		fingerprint.SignalAcceptCharset:  "",
		fingerprint.SignalAcceptEncoding: "gzip",
		fingerprint.SignalAcceptLanguage: "en-US",
	}
}

func TestScore(t *testing.T) {
	t.Run("identical fingerprints score zero", func(t *testing.T) {
		fp := full("1.2.3.4", "Agent/1")
		assert.Zero(t, fingerprint.Score(fp, fp.Clone()))

		ok, score := fingerprint.Challenge(fp, fp.Clone(), fingerprint.DefaultThreshold)
		assert.True(t, ok)
		assert.Zero(t, score)
	})

	t.Run("unknown signal is tampering", func(t *testing.T) {
		recorded := fingerprint.Fingerprint{"ip": "1.2.3.4"}
		current := fingerprint.Fingerprint{"ip": "1.2.3.4", "user_agent": "Agent/1"}

		assert.Equal(t, fingerprint.TamperScore, fingerprint.Score(recorded, current))

		ok, _ := fingerprint.Challenge(recorded, current, 1000)
		assert.False(t, ok, "tamper score fails any threshold below it")
	})

	t.Run("tampering overrides accumulated penalties", func(t *testing.T) {
		recorded := fingerprint.Fingerprint{"ip": "1.2.3.4", "ua": "a"}
		current := fingerprint.Fingerprint{"ip": "9.9.9.9", "ua": "zzz", "extra": "x"}

		assert.Equal(t, fingerprint.TamperScore, fingerprint.Score(recorded, current))
	})

	t.Run("signals empty on both sides are skipped", func(t *testing.T) {
		recorded := fingerprint.Fingerprint{"ip": "", "ua": "Agent/1"}
		assert.Zero(t, fingerprint.Score(recorded, recorded.Clone()))
	})

	t.Run("signal appearing from empty is penalized", func(t *testing.T) {
		recorded := fingerprint.Fingerprint{"accept": ""}
		current := fingerprint.Fingerprint{"accept": "text/html"}
		assert.Equal(t, 1.5, fingerprint.Score(recorded, current))
	})

	t.Run("bands are exclusive", func(t *testing.T) {
		assert.Equal(t, 1.5, fingerprint.Score(
			fingerprint.Fingerprint{"ip": "1.2.3.4"},
			fingerprint.Fingerprint{"ip": "9.9.9.9"},
		))
		assert.Equal(t, 1.0, fingerprint.Score(
			fingerprint.Fingerprint{"v": "abcd"},
			fingerprint.Fingerprint{"v": "abce"},
		))
		assert.Equal(t, 0.5, fingerprint.Score(
			fingerprint.Fingerprint{"v": "World"},
			fingerprint.Fingerprint{"v": "Word"},
		))
		assert.Zero(t, fingerprint.Score(
			fingerprint.Fingerprint{"v": "abcdefghij"},
			fingerprint.Fingerprint{"v": "abcdefghik"},
		))
	})

	t.Run("penalties accumulate across signals", func(t *testing.T) {
		recorded := fingerprint.Fingerprint{"a": "World", "b": "World", "c": "World"}
		current := fingerprint.Fingerprint{"a": "Word", "b": "Word", "c": "World"}
		assert.Equal(t, 1.0, fingerprint.Score(recorded, current))

		current["c"] = "Word"
		assert.Equal(t, 1.5, fingerprint.Score(recorded, current))
	})
}

func TestChallenge(t *testing.T) {
	recorded := fingerprint.Fingerprint{"ip": "1.2.3.4", "ua": "Agent/1"}

	t.Run("ip change reaches the threshold", func(t *testing.T) {
		ok, score := fingerprint.Challenge(recorded, fingerprint.Fingerprint{"ip": "9.9.9.9", "ua": "Agent/1"}, fingerprint.DefaultThreshold)
		assert.False(t, ok)
		assert.Equal(t, 1.5, score)
	})

	t.Run("drift below threshold passes", func(t *testing.T) {
		ok, score := fingerprint.Challenge(
			fingerprint.Fingerprint{"ua": "abcd"},
			fingerprint.Fingerprint{"ua": "abce"},
			fingerprint.DefaultThreshold,
		)
		assert.True(t, ok)
		assert.Equal(t, 1.0, score)
	})

	t.Run("non-positive threshold uses default", func(t *testing.T) {
		ok, _ := fingerprint.Challenge(recorded, fingerprint.Fingerprint{"ip": "9.9.9.9", "ua": "Agent/1"}, 0)
		assert.False(t, ok)
	})

	t.Run("custom threshold", func(t *testing.T) {
		ok, _ := fingerprint.Challenge(recorded, fingerprint.Fingerprint{"ip": "9.9.9.9", "ua": "Agent/1"}, 2)
		assert.True(t, ok)
	})
}

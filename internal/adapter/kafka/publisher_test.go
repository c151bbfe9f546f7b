package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-quality-monitor/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	report := domain.QualityReport{
		Timestamp:    time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		RowCount:     1095,
		QualityScore: 99.3151,
	}

	msg, err := serializeToMessage("climate/nyc", 12, report)
	require.NoError(t, err)

	assert.Equal(t, []byte("climate/nyc"), msg.Key)

	decoded, err := domain.DecodeReport(msg.Value)
	require.NoError(t, err)
	assert.True(t, decoded.SameScores(report))

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "climate/nyc", headers["package"])
	assert.Equal(t, "12", headers["version"])
	assert.Equal(t, domain.ReportDigest(report), headers["top_hash"])
	assert.Equal(t, "2026-03-14T09:26:53Z", headers["assessed_at"])
}

func TestSerializeToMessage_KeyIsPackageName(t *testing.T) {
	// Same package, different versions: identical keys keep revision order
	// within one partition.
	a, err := serializeToMessage("climate/nyc", 1, domain.QualityReport{})
	require.NoError(t, err)
	b, err := serializeToMessage("climate/nyc", 2, domain.QualityReport{})
	require.NoError(t, err)

	assert.Equal(t, a.Key, b.Key)
}

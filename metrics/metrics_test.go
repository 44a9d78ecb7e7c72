package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRecall(t *testing.T) {
	before := testutil.ToFloat64(RecallSourceTotal.WithLabelValues("recall.test", OutcomeError))
	RecordRecall("recall.test", OutcomeError, 0)
	after := testutil.ToFloat64(RecallSourceTotal.WithLabelValues("recall.test", OutcomeError))
	assert.Equal(t, before+1, after)
}

func TestObserveCatalog(t *testing.T) {
	ObserveCatalog("search", errors.New("boom"), time.Now())
	ObserveCatalog("search", nil, time.Now())
	assert.Equal(t, 2, testutil.CollectAndCount(CatalogRequestDuration))
}

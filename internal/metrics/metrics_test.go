package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordStoreOperation(t *testing.T) {
	errCounter := StoreOperationsTotal.WithLabelValues("memory", "push", "error")
	okCounter := StoreOperationsTotal.WithLabelValues("memory", "push", "success")
	errBefore := testutil.ToFloat64(errCounter)
	okBefore := testutil.ToFloat64(okCounter)

	RecordStoreOperation("memory", "push", errors.New("boom"), 5*time.Millisecond)
	RecordStoreOperation("memory", "push", nil, time.Millisecond)

	assert.Equal(t, errBefore+1, testutil.ToFloat64(errCounter))
	assert.Equal(t, okBefore+1, testutil.ToFloat64(okCounter))
}

func TestRecordFallback(t *testing.T) {
	before := testutil.ToFloat64(FallbackResponsesTotal.WithLabelValues("timeline"))
	RecordFallback("timeline")
	assert.Equal(t, before+1, testutil.ToFloat64(FallbackResponsesTotal.WithLabelValues("timeline")))
}

func TestRecordLogin(t *testing.T) {
	for _, outcome := range []string{LoginSuccess, LoginFailure, LoginBadRequest, LoginError} {
		before := testutil.ToFloat64(LoginAttemptsTotal.WithLabelValues(outcome))
		RecordLogin(outcome)
		assert.Equal(t, before+1, testutil.ToFloat64(LoginAttemptsTotal.WithLabelValues(outcome)), outcome)
	}
}

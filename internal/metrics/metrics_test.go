package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestRuleFailureCounterLabels(t *testing.T) {
	c := RuleFailuresTotal.WithLabelValues("missing_field")
	before := counterValue(t, c)
	c.Inc()
	if got := counterValue(t, c); got != before+1 {
		t.Errorf("counter = %v, want %v", got, before+1)
	}
}

func TestDBQueryCounters(t *testing.T) {
	c := DBQueryTotal.WithLabelValues("entries", "success")
	before := counterValue(t, c)
	c.Inc()
	c.Inc()
	if got := counterValue(t, c); got != before+2 {
		t.Errorf("counter = %v, want %v", got, before+2)
	}
}

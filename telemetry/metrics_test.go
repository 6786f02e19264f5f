package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitIdempotent(t *testing.T) {
	Init()
	Init() // second call must not re-register (promauto panics on duplicates)

	if LinesRead == nil || MessagesWritten == nil || Reconnects == nil {
		t.Fatal("counters not initialized")
	}
}

func TestCountersCount(t *testing.T) {
	Init()
	before := testutil.ToFloat64(MessagesFiltered)
	MessagesFiltered.Inc()
	MessagesFiltered.Inc()
	if got := testutil.ToFloat64(MessagesFiltered); got != before+2 {
		t.Errorf("MessagesFiltered = %v, want %v", got, before+2)
	}
}

func TestTimeFunc(t *testing.T) {
	Init()
	d := TimeFunc(IndexRequestDuration, func() { time.Sleep(time.Millisecond) })
	if d < time.Millisecond {
		t.Errorf("TimeFunc duration = %v, want >= 1ms", d)
	}
	// nil observer must not panic
	TimeFunc(nil, func() {})
}

func TestInitTracingDisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	shutdown, err := InitTracing("chat-archiver-test", "0.0.0")
	if err != nil {
		t.Fatalf("InitTracing error: %v", err)
	}
	shutdown()
	if IsTracingEnabled() {
		t.Error("tracing reported enabled without an endpoint")
	}
}

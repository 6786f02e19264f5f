package archive

import (
	"testing"
	"time"
)

func TestBackoffSequence(t *testing.T) {
	bo := newBackoff(time.Second)

	want := []time.Duration{
		0,
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		32 * time.Second,
	}
	for i, w := range want {
		d, ok := bo.next()
		if !ok {
			t.Fatalf("next() #%d exhausted early", i)
		}
		if d != w {
			t.Errorf("next() #%d = %v, want %v", i, d, w)
		}
	}
	if _, ok := bo.next(); ok {
		t.Error("next() after 32 units should exhaust, not continue to 64")
	}
}

func TestBackoffReset(t *testing.T) {
	bo := newBackoff(time.Second)
	for i := 0; i < 4; i++ {
		bo.next()
	}
	bo.reset()
	d, ok := bo.next()
	if !ok || d != 0 {
		t.Errorf("next() after reset = %v, %v; want 0, true", d, ok)
	}
	d, ok = bo.next()
	if !ok || d != time.Second {
		t.Errorf("second next() after reset = %v, %v; want 1s, true", d, ok)
	}
}

func TestBackoffDefaultUnit(t *testing.T) {
	bo := newBackoff(0)
	bo.next()
	d, _ := bo.next()
	if d != defaultBackoffUnit {
		t.Errorf("second delay = %v, want %v", d, defaultBackoffUnit)
	}
}

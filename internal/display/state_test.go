package display

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestNewStateEmpty(t *testing.T) {
	s := NewState()
	snap := s.Snapshot()
	if snap.Temperature != "" || snap.Pressure != "" || snap.Light != "" || snap.Toggle != 0 {
		t.Errorf("expected zero snapshot, got %+v", snap)
	}
}

func TestSetAndSnapshot(t *testing.T) {
	s := NewState()
	s.SetTempPressure("Temp: 23.45 C", "Pres: 1013.25 hPa")
	s.SetLight("Light: 512")

	snap := s.Snapshot()
	if snap.Temperature != "Temp: 23.45 C" {
		t.Errorf("Temperature: got %q", snap.Temperature)
	}
	if snap.Pressure != "Pres: 1013.25 hPa" {
		t.Errorf("Pressure: got %q", snap.Pressure)
	}
	if snap.Light != "Light: 512" {
		t.Errorf("Light: got %q", snap.Light)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := NewState()
	s.SetLight("Light: 1")
	snap := s.Snapshot()
	s.SetLight("Light: 2")
	if snap.Light != "Light: 1" {
		t.Errorf("snapshot changed after update: %q", snap.Light)
	}
}

func TestToggleParity(t *testing.T) {
	s := NewState()
	s.SetTempPressure("T", "P")
	s.SetLight("L")

	for n := 0; n <= 3; n++ {
		if n > 0 {
			if got := s.Toggle(); got != n {
				t.Fatalf("Toggle returned %d, want %d", got, n)
			}
		}
		l1, l2 := s.Snapshot().Lines()
		want := "T"
		if n%2 == 1 {
			want = "L"
		}
		if l1 != want || l2 != "P" {
			t.Errorf("N=%d: got (%q, %q), want (%q, %q)", n, l1, l2, want, "P")
		}
		if s.Snapshot().ShowsLight() != (n%2 == 1) {
			t.Errorf("N=%d: ShowsLight mismatch", n)
		}
	}
}

func TestConcurrentUpdatesAreAtomic(t *testing.T) {
	s := NewState()
	s.SetTempPressure("t0", "p0")

	const writes = 2000
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < writes; i++ {
			s.SetTempPressure(fmt.Sprintf("t%d", i), fmt.Sprintf("p%d", i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < writes; i++ {
			s.SetLight(fmt.Sprintf("l%d", i))
			s.Toggle()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < writes; i++ {
			snap := s.Snapshot()
			if strings.TrimPrefix(snap.Temperature, "t") != strings.TrimPrefix(snap.Pressure, "p") {
				t.Errorf("torn update: %q / %q", snap.Temperature, snap.Pressure)
				return
			}
		}
	}()
	wg.Wait()

	if got := s.Snapshot().Toggle; got != writes {
		t.Errorf("Toggle: got %d, want %d", got, writes)
	}
}

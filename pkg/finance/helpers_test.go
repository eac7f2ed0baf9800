package finance

import (
	"math"
	"testing"

	"github.com/iwvelando/business-case/pkg/datetime"
)

const tolerance = 1e-9

func mustWindow(t *testing.T, start string, months int) datetime.Window {
	t.Helper()
	w, err := datetime.ParseWindow(start, months)
	if err != nil {
		t.Fatalf("ParseWindow(%s, %d) error = %v", start, months, err)
	}
	return w
}

func constantVolumes(w datetime.Window, quantity float64) []MonthVolume {
	volumes := make([]MonthVolume, 0, w.Len())
	for _, ym := range w.Months() {
		volumes = append(volumes, MonthVolume{Year: ym.Year, Month: ym.Month, Quantity: quantity})
	}
	return volumes
}

func assertClose(t *testing.T, label string, got, expected float64) {
	t.Helper()
	if math.Abs(got-expected) > tolerance*math.Max(1, math.Abs(expected)) {
		t.Errorf("%s = %.10f, expected %.10f", label, got, expected)
	}
}

func assertSeries(t *testing.T, label string, got, expected []float64) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("%s has %d entries, expected %d", label, len(got), len(expected))
	}
	for i := range expected {
		if math.Abs(got[i]-expected[i]) > tolerance*math.Max(1, math.Abs(expected[i])) {
			t.Errorf("%s[%d] = %.10f, expected %.10f", label, i, got[i], expected[i])
		}
	}
}

package conformance

import (
	"runtime"
	"testing"
)

func TestParallelism(t *testing.T) {
	ncpu := runtime.NumCPU()
	tests := []struct {
		jobs, want int
	}{
		{jobs: 0, want: ncpu},
		{jobs: -1, want: ncpu},
		{jobs: -100, want: ncpu},
		{jobs: 1, want: 1},
		{jobs: 12, want: 12},
	}
	for _, tt := range tests {
		if got := parallelism(tt.jobs); got != tt.want {
			t.Errorf("parallelism(%d) = %d, want %d", tt.jobs, got, tt.want)
		}
	}
}

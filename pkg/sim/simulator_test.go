package sim

import (
	"errors"
	"math"
	"testing"
)

// scripted replays fixed values so tick results can be asserted exactly.
type scripted struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *scripted) Float64() float64 {
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

func (s *scripted) Intn(n int) int {
	v := s.ints[s.ii%len(s.ints)]
	s.ii++
	return v % n
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func assertSeed(t *testing.T, st State, budget int) {
	t.Helper()
	if st.Epoch != 0 {
		t.Errorf("epoch = %d, want 0", st.Epoch)
	}
	if st.Running {
		t.Error("seed state should not be running")
	}
	if st.TimeRemaining != budget {
		t.Errorf("time remaining = %d, want %d", st.TimeRemaining, budget)
	}
	if len(st.Accuracy) != 1 || st.Accuracy[0] != (Point{Label: "E0", Training: 50, Validation: 48}) {
		t.Errorf("accuracy seed = %+v", st.Accuracy)
	}
	if len(st.Loss) != 1 || st.Loss[0] != (Point{Label: "E0", Training: 0.5, Validation: 0.55}) {
		t.Errorf("loss seed = %+v", st.Loss)
	}
}

func TestNewIsSeeded(t *testing.T) {
	t.Parallel()
	s := New(DefaultConfig(), NewSource(1))
	st := s.State()
	assertSeed(t, st, DefaultTimeBudget)
	if st.MaxEpochs != 100 || st.Speed != 1 {
		t.Errorf("unexpected defaults: max=%d speed=%d", st.MaxEpochs, st.Speed)
	}
	if st.Confusion != DefaultMatrix() {
		t.Errorf("confusion = %v", st.Confusion)
	}
	if st.RunID == "" {
		t.Error("expected a run id")
	}
	if s.Status() != StatusIdle {
		t.Errorf("status = %s, want idle", s.Status())
	}
}

func TestNewFallsBackOnInvalidConfig(t *testing.T) {
	t.Parallel()
	s := New(Config{MaxEpochs: -3, TimeBudget: 0, Speed: 3}, NewSource(1))
	if s.MaxEpochs() != DefaultMaxEpochs || s.Speed() != 1 {
		t.Fatalf("max=%d speed=%d", s.MaxEpochs(), s.Speed())
	}
	if s.State().TimeRemaining != DefaultTimeBudget {
		t.Fatalf("time remaining = %d", s.State().TimeRemaining)
	}
}

func TestTickExactValues(t *testing.T) {
	t.Parallel()
	src := &scripted{floats: []float64{0.5}, ints: []int{0}}
	s := New(DefaultConfig(), src)
	if s.Tick() {
		t.Fatal("tick should be ignored while idle")
	}
	s.Start()
	if !s.Tick() {
		t.Fatal("tick should apply while running")
	}
	st := s.State()
	if st.Epoch != 1 {
		t.Fatalf("epoch = %d", st.Epoch)
	}
	acc := st.LatestAccuracy()
	loss := st.LatestLoss()
	if acc.Label != "E1" || loss.Label != "E1" {
		t.Errorf("labels = %q %q", acc.Label, loss.Label)
	}
	if !near(acc.Training, 52.95) || !near(acc.Validation, 50.45) {
		t.Errorf("accuracy = %+v", acc)
	}
	if !near(loss.Training, 0.5105) || !near(loss.Validation, 0.5355) {
		t.Errorf("loss = %+v", loss)
	}
	if st.TimeRemaining != DefaultTimeBudget-1 {
		t.Errorf("time remaining = %d", st.TimeRemaining)
	}
}

func TestAccuracyCappedAndImproving(t *testing.T) {
	t.Parallel()
	s := New(DefaultConfig(), &scripted{floats: []float64{0.999}, ints: []int{0}})
	s.Start()
	for s.Running() {
		s.Tick()
	}
	st := s.State()
	for i, p := range st.Accuracy {
		if p.Training > 99+1e-9 {
			t.Fatalf("point %d training accuracy %.4f above cap", i, p.Training)
		}
		if i > 0 && p.Training < st.Accuracy[i-1].Training-1e-9 {
			t.Fatalf("accuracy decreased at %d with constant noise", i)
		}
	}

	// With real noise the curve still improves on average.
	early, late := 0.0, 0.0
	const runs = 50
	for seed := int64(1); seed <= runs; seed++ {
		s := New(DefaultConfig(), NewSource(seed))
		s.Start()
		for s.Running() {
			s.Tick()
		}
		acc := s.State().Accuracy
		early += acc[10].Training
		late += acc[90].Training
	}
	if late/runs <= early/runs {
		t.Errorf("mean accuracy did not improve: early %.2f late %.2f", early/runs, late/runs)
	}
}

func TestSeriesLengthTracksEpoch(t *testing.T) {
	t.Parallel()
	s := New(DefaultConfig(), NewSource(7))
	s.Start()
	for i := 0; i < 37; i++ {
		s.Tick()
		st := s.State()
		if len(st.Accuracy) != st.Epoch+1 || len(st.Loss) != st.Epoch+1 {
			t.Fatalf("epoch %d: len(acc)=%d len(loss)=%d", st.Epoch, len(st.Accuracy), len(st.Loss))
		}
	}
	s.Pause()
	st := s.State()
	if len(st.Accuracy) != 38 {
		t.Fatalf("pause changed series: %d", len(st.Accuracy))
	}
}

func TestResetRestoresSeed(t *testing.T) {
	t.Parallel()
	s := New(DefaultConfig(), NewSource(3))
	before := s.RunID()
	s.Start()
	for i := 0; i < 12; i++ {
		s.Tick()
	}
	s.CycleSpeed()
	s.Reset()
	st := s.State()
	assertSeed(t, st, DefaultTimeBudget)
	if st.Speed != 2 {
		t.Errorf("speed should survive reset, got %d", st.Speed)
	}
	if st.RunID == before {
		t.Error("reset should start a new run id")
	}
}

func TestTimeRemainingFloorsAtZero(t *testing.T) {
	t.Parallel()
	for _, speed := range Speeds() {
		s := New(Config{MaxEpochs: 10000, TimeBudget: 1800, Speed: speed}, NewSource(11))
		s.Start()
		ticks := 1800 / speed
		for i := 0; i < ticks-1; i++ {
			s.Tick()
		}
		if got := s.State().TimeRemaining; got != speed {
			t.Fatalf("speed %d: one tick before the end remaining = %d", speed, got)
		}
		s.Tick()
		if got := s.State().TimeRemaining; got != 0 {
			t.Fatalf("speed %d: after %d ticks remaining = %d", speed, ticks, got)
		}
		for i := 0; i < 10; i++ {
			s.Tick()
			if got := s.State().TimeRemaining; got != 0 {
				t.Fatalf("speed %d: remaining went to %d", speed, got)
			}
		}
	}
}

func TestPerturbEveryFifthEpoch(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		ints     []int
		row, col int
		want     int
	}{
		{name: "diagonal grows", ints: []int{1, 1, 2}, row: 1, col: 1, want: 92},
		{name: "off diagonal shrinks", ints: []int{0, 1, 1}, row: 0, col: 1, want: 4},
		{name: "zero delta", ints: []int{3, 3, 0}, row: 3, col: 3, want: 92},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := New(DefaultConfig(), &scripted{floats: []float64{0.1}, ints: tc.ints})
			s.Start()
			for i := 0; i < 4; i++ {
				s.Tick()
			}
			if s.State().Confusion != DefaultMatrix() {
				t.Fatal("matrix changed before epoch 5")
			}
			s.Tick()
			got := s.State().Confusion[tc.row][tc.col]
			if got != tc.want {
				t.Fatalf("cell[%d][%d] = %d, want %d", tc.row, tc.col, got, tc.want)
			}
		})
	}
}

func TestConfusionStaysInRange(t *testing.T) {
	t.Parallel()
	s := New(Config{MaxEpochs: 50000, TimeBudget: 1800, Speed: 4}, NewSource(99))
	s.Start()
	for i := 0; i < 50000; i++ {
		s.Tick()
	}
	m := s.State().Confusion
	for r := range m {
		for c := range m[r] {
			if m[r][c] < 0 || m[r][c] > 100 {
				t.Fatalf("cell[%d][%d] = %d", r, c, m[r][c])
			}
		}
	}
	if m[0][0] != 100 {
		t.Errorf("diagonal should saturate at 100 after a long run, got %d", m[0][0])
	}
}

func TestCompletionFiresOnce(t *testing.T) {
	t.Parallel()
	s := New(DefaultConfig(), NewSource(5))
	var completed int
	s.Subscribe(func(ev Event) {
		if ev.Kind == EventCompleted {
			completed++
			if ev.Message() != "Training completed successfully!" || !ev.Success() {
				t.Errorf("completion event = %+v", ev)
			}
		}
	})
	s.Start()
	for i := 0; i < 100; i++ {
		s.Tick()
	}
	if s.Epoch() != 100 || s.Running() || s.Status() != StatusCompleted {
		t.Fatalf("epoch=%d running=%t status=%s", s.Epoch(), s.Running(), s.Status())
	}
	for i := 0; i < 5; i++ {
		s.Tick()
	}
	if completed != 1 {
		t.Fatalf("completion fired %d times", completed)
	}
	if s.Epoch() != 100 {
		t.Fatalf("epoch moved past the cap: %d", s.Epoch())
	}
}

func TestStartAfterCompletionReseeds(t *testing.T) {
	t.Parallel()
	s := New(Config{MaxEpochs: 3, TimeBudget: 1800, Speed: 1}, NewSource(5))
	s.Start()
	for s.Running() {
		s.Tick()
	}
	first := s.RunID()
	s.Start()
	st := s.State()
	if !st.Running || st.Epoch != 0 || len(st.Accuracy) != 1 || st.TimeRemaining != 1800 {
		t.Fatalf("restart state = %+v", st)
	}
	if st.RunID == first {
		t.Error("restart after completion should start a new run id")
	}
}

func TestControlEvents(t *testing.T) {
	t.Parallel()
	s := New(DefaultConfig(), NewSource(1))
	var got []string
	s.Subscribe(func(ev Event) { got = append(got, ev.Message()) })

	s.Start()
	s.Start()
	s.Toggle()
	s.Pause()
	s.CycleSpeed()
	s.CycleSpeed()
	s.CycleSpeed()
	s.Reset()

	want := []string{
		"Training started",
		"Training paused",
		"Training speed: 2x",
		"Training speed: 4x",
		"Training speed: 1x",
		"Training reset",
	}
	if len(got) != len(want) {
		t.Fatalf("events = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSetSpeed(t *testing.T) {
	t.Parallel()
	s := New(DefaultConfig(), NewSource(1))
	if err := s.SetSpeed(4); err != nil {
		t.Fatalf("SetSpeed(4): %v", err)
	}
	if s.Interval().Milliseconds() != 250 {
		t.Errorf("interval = %s", s.Interval())
	}
	err := s.SetSpeed(3)
	if !errors.Is(err, ErrUnsupportedSpeed) {
		t.Fatalf("SetSpeed(3) err = %v", err)
	}
	if s.Speed() != 4 {
		t.Errorf("failed SetSpeed changed speed to %d", s.Speed())
	}
}

func TestStateIsDetached(t *testing.T) {
	t.Parallel()
	s := New(DefaultConfig(), NewSource(1))
	st := s.State()
	st.Accuracy[0].Training = 0
	st.Confusion[0][0] = 0
	again := s.State()
	if again.Accuracy[0].Training != 50 || again.Confusion[0][0] != 85 {
		t.Fatal("mutating a snapshot leaked into the simulator")
	}
}

func TestFormatRemaining(t *testing.T) {
	t.Parallel()
	tests := map[int]string{
		1800: "30:00",
		65:   "1:05",
		9:    "0:09",
		0:    "0:00",
		-4:   "0:00",
	}
	for in, want := range tests {
		if got := FormatRemaining(in); got != want {
			t.Errorf("FormatRemaining(%d) = %q, want %q", in, got, want)
		}
	}
}

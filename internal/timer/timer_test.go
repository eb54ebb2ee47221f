package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		seconds uint32
		want    string
	}{
		{0, "00:00"},
		{9, "00:09"},
		{60, "01:00"},
		{605, "10:05"},
		{25 * 60, "25:00"},
		{90*60 + 1, "90:01"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRemaining(tt.seconds))
		})
	}
}

func TestSnapshotProgress(t *testing.T) {
	length := PhaseLength{Focus: 100, Relax: 20}
	tests := []struct {
		name string
		snap Snapshot
		want float64
	}{
		{"focus start", Snapshot{Phase: PhaseFocus, Remaining: 100, Length: length}, 0},
		{"focus quarter", Snapshot{Phase: PhaseFocus, Remaining: 75, Length: length}, 0.25},
		{"focus done", Snapshot{Phase: PhaseFocus, Remaining: 0, Length: length}, 1},
		{"relax half", Snapshot{Phase: PhaseRelax, Remaining: 10, Length: length}, 0.5},
		{"counter above initial clamps", Snapshot{Phase: PhaseRelax, Remaining: 40, Length: length}, 0},
		{"before focus", Snapshot{Phase: PhaseBeforeFocus, Remaining: 100, Length: length}, 0},
		{"before relax", Snapshot{Phase: PhaseBeforeRelax, Remaining: 0, Length: length}, 0},
		{"zero length guarded", Snapshot{Phase: PhaseFocus, Remaining: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.snap.Progress(), 1e-9)
		})
	}
}

func TestSnapshotInitial(t *testing.T) {
	length := PhaseLength{Focus: 100, Relax: 20}
	assert.Equal(t, uint32(100), Snapshot{Phase: PhaseFocus, Length: length}.Initial())
	assert.Equal(t, uint32(20), Snapshot{Phase: PhaseRelax, Length: length}.Initial())
	assert.Equal(t, uint32(0), Snapshot{Phase: PhaseBeforeFocus, Length: length}.Initial())
	assert.Equal(t, uint32(0), Snapshot{Phase: PhaseBeforeRelax, Length: length}.Initial())
}

func TestPhaseNext(t *testing.T) {
	p := PhaseBeforeFocus
	var got []Phase
	for range 5 {
		p = p.Next()
		got = append(got, p)
	}
	assert.Equal(t, []Phase{PhaseFocus, PhaseBeforeRelax, PhaseRelax, PhaseBeforeFocus, PhaseFocus}, got)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "before-focus", PhaseBeforeFocus.String())
	assert.Equal(t, "relax", PhaseRelax.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
	assert.Equal(t, "paused", Paused.String())
	assert.Equal(t, "before-relax", NotifyBeforeRelax.String())
	assert.Equal(t, "complete", EventComplete.String())
}

func TestDefaultLengths(t *testing.T) {
	lengths := DefaultLengths()
	assert.Len(t, lengths, 5)
	for _, l := range lengths[:4] {
		assert.Equal(t, PhaseLength{Focus: 1500, Relax: 300}, l)
	}
	assert.Equal(t, PhaseLength{Focus: 1500, Relax: 900}, lengths[4])
}

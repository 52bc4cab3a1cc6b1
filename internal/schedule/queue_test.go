package schedule

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timefly/timefly/internal/model"
)

func queueFixture() []model.Appointment {
	return []model.Appointment{
		{ID: "u2", Date: "2025-06-10", Time: "9:30 AM", Status: model.StatusConfirmed, Priority: model.PriorityUrgent, QueueNumber: 2},
		{ID: "e5", Date: "2025-06-10", Time: "11:00 AM", Status: model.StatusPending, Priority: model.PriorityEmergency, QueueNumber: 5},
		{ID: "n1", Date: "2025-06-10", Time: "9:00 AM", Status: model.StatusConfirmed, Priority: model.PriorityNormal, QueueNumber: 1},
	}
}

func TestRankPriorityOrder(t *testing.T) {
	ranked := Rank(queueFixture(), "2025-06-10")
	require.Len(t, ranked, 3)

	// Emergency first despite the highest queue number, then urgent, then
	// normal.
	assert.Equal(t, "e5", ranked[0].ID)
	assert.Equal(t, "u2", ranked[1].ID)
	assert.Equal(t, "n1", ranked[2].ID)
}

func TestRankFiltersDateAndStatus(t *testing.T) {
	appts := append(queueFixture(),
		model.Appointment{ID: "other-day", Date: "2025-06-11", Status: model.StatusConfirmed, Priority: model.PriorityNormal},
		model.Appointment{ID: "done", Date: "2025-06-10", Status: model.StatusCompleted, Priority: model.PriorityEmergency},
		model.Appointment{ID: "gone", Date: "2025-06-10", Status: model.StatusCancelled, Priority: model.PriorityEmergency},
	)

	ranked := Rank(appts, "2025-06-10")
	assert.Len(t, ranked, 3)
	for _, a := range ranked {
		assert.NotContains(t, []string{"other-day", "done", "gone"}, a.ID)
	}
}

func TestRankQueueNumberTieBreak(t *testing.T) {
	appts := []model.Appointment{
		{ID: "q7", Date: "2025-06-10", Time: "9:00 AM", Status: model.StatusConfirmed, Priority: model.PriorityNormal, QueueNumber: 7},
		{ID: "q3", Date: "2025-06-10", Time: "10:00 AM", Status: model.StatusConfirmed, Priority: model.PriorityNormal, QueueNumber: 3},
		// Missing queue number sorts last within the priority band.
		{ID: "q0", Date: "2025-06-10", Time: "8:00 AM", Status: model.StatusConfirmed, Priority: model.PriorityNormal},
	}

	ranked := Rank(appts, "2025-06-10")
	assert.Equal(t, []string{"q3", "q7", "q0"}, rankedIDs(ranked))
}

func TestRankTimeTieBreakIsChronological(t *testing.T) {
	// Same priority and queue number: "9:00 AM" must sort before "10:00 AM"
	// even though it is lexically greater.
	appts := []model.Appointment{
		{ID: "ten", Date: "2025-06-10", Time: "10:00 AM", Status: model.StatusConfirmed, Priority: model.PriorityNormal},
		{ID: "nine", Date: "2025-06-10", Time: "9:00 AM", Status: model.StatusConfirmed, Priority: model.PriorityNormal},
	}

	ranked := Rank(appts, "2025-06-10")
	assert.Equal(t, []string{"nine", "ten"}, rankedIDs(ranked))
}

func TestRankIsInputOrderIndependent(t *testing.T) {
	appts := append(queueFixture(),
		model.Appointment{ID: "n9", Date: "2025-06-10", Time: "2:00 PM", Status: model.StatusInProgress, Priority: model.PriorityNormal, QueueNumber: 9},
		model.Appointment{ID: "u4", Date: "2025-06-10", Time: "1:00 PM", Status: model.StatusPending, Priority: model.PriorityUrgent, QueueNumber: 4},
	)

	want := rankedIDs(Rank(appts, "2025-06-10"))

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]model.Appointment, len(appts))
		copy(shuffled, appts)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, rankedIDs(Rank(shuffled, "2025-06-10")))
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	appts := queueFixture()
	Rank(appts, "2025-06-10")
	assert.Equal(t, "u2", appts[0].ID)
	assert.Equal(t, "e5", appts[1].ID)
	assert.Equal(t, "n1", appts[2].ID)
}

func TestServingAndUpNext(t *testing.T) {
	ranked := Rank(queueFixture(), "2025-06-10")

	serving := Serving(ranked)
	require.NotNil(t, serving)
	assert.Equal(t, "e5", serving.ID)

	next := UpNext(ranked)
	require.NotNil(t, next)
	assert.Equal(t, "u2", next.ID)
}

func TestServingEmptyQueue(t *testing.T) {
	assert.Nil(t, Serving(nil))
	assert.Nil(t, UpNext(nil))

	one := Rank(queueFixture()[:1], "2025-06-10")
	require.Len(t, one, 1)
	assert.Nil(t, UpNext(one))
}

func rankedIDs(appts []model.Appointment) []string {
	ids := make([]string, len(appts))
	for i, a := range appts {
		ids[i] = a.ID
	}
	return ids
}

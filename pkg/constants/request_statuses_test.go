package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Полная таблица переходов: всё, чего здесь нет — запрещено.
func TestCanTransition(t *testing.T) {
	allowed := map[[2]RequestStatus]bool{
		{StatusNew, StatusInProgress}:      true,
		{StatusNew, StatusScrap}:           true,
		{StatusInProgress, StatusRepaired}: true,
		{StatusInProgress, StatusScrap}:    true,
	}

	all := []RequestStatus{StatusNew, StatusInProgress, StatusRepaired, StatusScrap}
	for _, from := range all {
		for _, to := range all {
			got := CanTransition(from, to)
			want := allowed[[2]RequestStatus{from, to}]
			assert.Equal(t, want, got, "переход %s -> %s", from, to)
		}
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.False(t, CanTransition("BROKEN", StatusScrap))
	assert.False(t, CanTransition(StatusNew, "BROKEN"))
}

func TestRequestStatusIsValid(t *testing.T) {
	for _, s := range []RequestStatus{StatusNew, StatusInProgress, StatusRepaired, StatusScrap} {
		assert.True(t, s.IsValid(), "статус %s", s)
	}
	assert.False(t, RequestStatus("DONE").IsValid())
	assert.False(t, RequestStatus("").IsValid())
}

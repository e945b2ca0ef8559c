package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitingPhaseMembership(t *testing.T) {
	st := NewRoomStatus("room1", nil, nil)
	waiting := NewWaitingPhase(st)

	assert.Equal(t, PhaseWaiting, waiting.Type())
	assert.Equal(t, PhaseWaiting, st.Phase)

	require.True(t, waiting.AddUser("key1", "name1"))
	require.True(t, waiting.AddUser("key2", "name2"))
	assert.Len(t, st.Users, 2)

	// duplicate keys are rejected
	assert.False(t, waiting.AddUser("key1", "someone else"))

	// leaving the lobby removes the seat entirely
	require.True(t, waiting.RemoveUser("key1"))
	assert.Nil(t, st.GetUser("key1"))
	assert.False(t, waiting.RemoveUser("key1"))

	// disconnecting while waiting is the same as leaving
	require.True(t, waiting.Disconnect("key2"))
	assert.Empty(t, st.Users)
}

func TestWaitingPhaseJobConfiguration(t *testing.T) {
	st := NewRoomStatus("room1", nil, nil)
	waiting := NewWaitingPhase(st)

	assert.True(t, waiting.AddJob("Doctor"))
	assert.Equal(t, 2, st.Jobs[JobDoctor].Count)
	assert.True(t, waiting.RemoveJob("doctor"))

	assert.False(t, waiting.AddJob("werewolf"))
	assert.False(t, waiting.RemoveJob("werewolf"))
	assert.Len(t, st.JobCounts(), 4)
}

func TestWaitingPhaseChoices(t *testing.T) {
	st := NewRoomStatus("room1", nil, nil)
	waiting := NewWaitingPhase(st)
	waiting.AddUser("key1", "name1")

	assert.True(t, waiting.Choose("key1", TargetReady, ChoiceFixed))
	assert.True(t, waiting.Choose("key1", "", ChoiceYet))

	// only readying up or retracting is legal here
	assert.False(t, waiting.Choose("key1", "election", ChoiceFixed))
	assert.False(t, waiting.Choose("key1", TargetReady, ChoiceTmp))

	// unknown users are rejected
	assert.False(t, waiting.Choose("ghost", TargetReady, ChoiceFixed))
}

func TestWaitingPhaseDoneNeedsFullRoster(t *testing.T) {
	st := NewRoomStatus("room1", nil, nil) // capacity 4
	waiting := NewWaitingPhase(st)
	for _, key := range []string{"a", "b", "c"} {
		waiting.AddUser(key, "name")
		require.True(t, waiting.Choose(key, TargetReady, ChoiceFixed))
	}

	// everyone is ready but the roster does not fill the slots
	assert.False(t, waiting.Done())
	assert.Nil(t, waiting.Result())

	waiting.AddUser("d", "name")
	assert.False(t, waiting.Done())
	require.True(t, waiting.Choose("d", TargetReady, ChoiceFixed))
	assert.True(t, waiting.Done())
}

func TestWaitingPhaseResultDealsJobs(t *testing.T) {
	st := NewRoomStatus("room1", nil, nil)
	waiting := NewWaitingPhase(st)
	for _, key := range []string{"a", "b", "c", "d"} {
		waiting.AddUser(key, "name")
		require.True(t, waiting.Choose(key, TargetReady, ChoiceFixed))
	}

	roster := waiting.Result()
	require.Len(t, roster, 4)
	for _, u := range roster {
		assert.NotNil(t, u.Job)
	}

	next := waiting.Next()
	require.IsType(t, &DayPhase{}, next)
	assert.Equal(t, 1, st.Round)
	assert.Equal(t, PhaseDay, st.Phase)
}

func TestDayPhaseMembershipTogglesConnectivity(t *testing.T) {
	st, users := newTown(JobCitizen, JobMafia)
	day := NewDayPhase(st)

	require.True(t, day.RemoveUser("a"))
	assert.False(t, users[0].Connected)
	assert.Len(t, st.Users, 2, "leaving mid-game must not drop the seat")

	require.True(t, day.AddUser("a", "ignored"))
	assert.True(t, users[0].Connected)

	assert.False(t, day.AddUser("stranger", "name"))
}

func TestDayPhaseChoices(t *testing.T) {
	st, _ := newTown(JobCitizen, JobMafia)
	day := NewDayPhase(st)

	assert.True(t, day.Choose("a", TargetElection, ChoiceFixed))
	assert.True(t, day.Choose("a", TargetNight, ChoiceFixed))
	assert.True(t, day.Choose("a", "", ChoiceYet))

	assert.False(t, day.Choose("a", "b", ChoiceFixed))
	assert.False(t, day.Choose("a", TargetElection, ChoiceTmp))
}

func TestDayPhaseRefusesPrematureAdvance(t *testing.T) {
	st, _ := newTown(JobCitizen, JobMafia)
	day := NewDayPhase(st)

	require.True(t, day.Choose("a", TargetElection, ChoiceFixed))
	assert.Nil(t, day.Next())
}

func TestDayPhasePluralityPicksNext(t *testing.T) {
	st, _ := newTown(JobCitizen, JobCitizen, JobMafia)
	day := NewDayPhase(st)

	require.True(t, day.Choose("a", TargetElection, ChoiceFixed))
	require.True(t, day.Choose("b", TargetNight, ChoiceFixed))
	require.True(t, day.Choose("c", TargetNight, ChoiceFixed))

	next := day.Next()
	require.IsType(t, &NightPhase{}, next)
}

func TestDayPhaseTieBreaksTowardFirstSeen(t *testing.T) {
	st, _ := newTown(JobCitizen, JobMafia)
	day := NewDayPhase(st)

	require.True(t, day.Choose("a", TargetElection, ChoiceFixed))
	require.True(t, day.Choose("b", TargetNight, ChoiceFixed))

	// one vote each; the earlier submission in ledger order wins
	next := day.Next()
	require.IsType(t, &ElectionPhase{}, next)
}

func TestElectionPhaseChoices(t *testing.T) {
	st, users := newTown(JobCitizen, JobPolice, JobMafia)
	election := NewElectionPhase(st)

	assert.True(t, election.Choose("a", "b", ChoiceTmp))
	assert.True(t, election.Choose("a", "b", ChoiceFixed))
	assert.True(t, election.Choose("a", "", ChoiceYet))
	assert.True(t, election.Choose("a", "", ChoiceFixed), "abstain is always legal")

	// only living users can stand accused
	users[2].Status = StatusDead
	assert.False(t, election.Choose("a", "c", ChoiceFixed))
	assert.False(t, election.Choose("a", "ghost", ChoiceTmp))
}

func TestElectionExecutesMajorityTarget(t *testing.T) {
	st, users := newTown(JobCitizen, JobPolice, JobMafia)
	election := NewElectionPhase(st)

	require.True(t, election.Choose("a", "b", ChoiceFixed))
	require.True(t, election.Choose("b", "a", ChoiceFixed))
	require.True(t, election.Choose("c", "b", ChoiceFixed))
	require.True(t, election.Done())

	victim := election.Result()
	require.NotNil(t, victim)
	assert.Same(t, users[1], victim)
	assert.Equal(t, StatusDead, victim.Status)
}

func TestElectionWithoutMajorityExecutesNobody(t *testing.T) {
	st, users := newTown(JobCitizen, JobPolice, JobMafia)
	election := NewElectionPhase(st)

	require.True(t, election.Choose("a", "c", ChoiceFixed))
	require.True(t, election.Choose("b", "a", ChoiceFixed))
	require.True(t, election.Choose("c", "", ChoiceFixed))

	assert.Nil(t, election.Result())
	for _, u := range users {
		assert.NotEqual(t, StatusDead, u.Status)
	}
}

func TestElectionExactHalfIsNotEnough(t *testing.T) {
	st, users := newTown(JobCitizen, JobPolice, JobDoctor, JobMafia)
	election := NewElectionPhase(st)

	require.True(t, election.Choose("a", "d", ChoiceFixed))
	require.True(t, election.Choose("b", "d", ChoiceFixed))
	require.True(t, election.Choose("c", "a", ChoiceFixed))
	require.True(t, election.Choose("d", "a", ChoiceFixed))

	// two of four votes is exactly half, no execution
	assert.Nil(t, election.Result())
	assert.NotEqual(t, StatusDead, users[3].Status)
}

func TestElectionRefusesPrematureResult(t *testing.T) {
	st, _ := newTown(JobCitizen, JobPolice, JobMafia)
	election := NewElectionPhase(st)

	require.True(t, election.Choose("a", "b", ChoiceFixed))
	assert.Nil(t, election.Result())
}

func TestElectionAlwaysFallsIntoNight(t *testing.T) {
	st, _ := newTown(JobCitizen, JobMafia)
	election := NewElectionPhase(st)

	next := election.Next()
	require.IsType(t, &NightPhase{}, next)
	assert.Equal(t, PhaseNight, st.Phase)
}

func TestNightPhaseChoices(t *testing.T) {
	st, users := newTown(JobMafia, JobDoctor, JobCitizen)
	night := NewNightPhase(st)

	assert.True(t, night.Choose("a", "c", ChoiceFixed))
	assert.True(t, night.Choose("a", "", ChoiceFixed), "abstain is always legal")
	assert.True(t, night.Choose("a", "", ChoiceYet))

	// citizens have no night action and cannot name targets
	assert.False(t, night.Choose("c", "a", ChoiceFixed))

	// dead users are not valid targets
	users[2].Status = StatusDead
	assert.False(t, night.Choose("a", "c", ChoiceFixed))
}

func TestNightIllegalChoiceLeavesLedgerUntouched(t *testing.T) {
	st, users := newTown(JobMafia, JobCitizen)
	night := NewNightPhase(st)

	require.True(t, night.Choose("a", "b", ChoiceFixed))

	users[1].Status = StatusDead
	assert.False(t, night.Choose("a", "b", ChoiceFixed))

	assert.Equal(t, "b", st.Choices[0].Target)
	assert.Equal(t, ChoiceFixed, st.Choices[0].Status)
}

func TestNightDoneExcusesInactiveRoles(t *testing.T) {
	st, _ := newTown(JobMafia, JobDoctor, JobCitizen, JobCitizen)
	night := NewNightPhase(st)

	assert.False(t, night.Done())

	require.True(t, night.Choose("a", "c", ChoiceFixed))
	assert.False(t, night.Done())
	require.True(t, night.Choose("b", "d", ChoiceFixed))

	// both citizens never answered and still do not block the night
	assert.True(t, night.Done())
}

func TestNightResolvesSaveBeforeKill(t *testing.T) {
	st, users := newTown(JobMafia, JobDoctor, JobPolice, JobCitizen)
	night := NewNightPhase(st)

	require.True(t, night.Choose("a", "d", ChoiceFixed)) // kill the citizen
	require.True(t, night.Choose("b", "d", ChoiceFixed)) // save the citizen
	require.True(t, night.Choose("c", "a", ChoiceFixed)) // investigate the mafia
	require.True(t, night.Done())

	results := night.Result()

	// the save nullified the kill, only the investigation reports
	require.Len(t, results, 1)
	assert.Equal(t, ResultBool, results[0].ResultType)
	assert.True(t, results[0].Confirmation)
	for _, r := range results {
		assert.NotEqual(t, ScopeAll, r.Scope)
	}
	assert.Equal(t, StatusAlive, users[3].Status)
}

func TestNightKillWithoutSave(t *testing.T) {
	st, users := newTown(JobMafia, JobDoctor, JobCitizen)
	night := NewNightPhase(st)

	require.True(t, night.Choose("a", "c", ChoiceFixed))
	require.True(t, night.Choose("b", "b", ChoiceFixed)) // doctor protects self

	results := night.Result()

	require.Len(t, results, 1)
	assert.Equal(t, ResultUser, results[0].ResultType)
	assert.Equal(t, ScopeAll, results[0].Scope)
	assert.Same(t, users[2], results[0].Target)
	assert.Equal(t, StatusDead, users[2].Status)
}

func TestNightMafiaPluralityPicksOneVictim(t *testing.T) {
	st, users := newTown(JobMafia, JobMafia, JobMafia, JobCitizen, JobCitizen)
	night := NewNightPhase(st)

	require.True(t, night.Choose("a", "d", ChoiceFixed))
	require.True(t, night.Choose("b", "e", ChoiceFixed))
	require.True(t, night.Choose("c", "d", ChoiceFixed))

	results := night.Result()

	require.Len(t, results, 1)
	assert.Same(t, users[3], results[0].Target)
	assert.Equal(t, StatusDead, users[3].Status)
	assert.Equal(t, StatusAlive, users[4].Status)
}

func TestNightAllAbstainProducesNoActions(t *testing.T) {
	st, _ := newTown(JobMafia, JobDoctor, JobCitizen)
	night := NewNightPhase(st)

	require.True(t, night.Choose("a", "", ChoiceFixed))
	require.True(t, night.Choose("b", "", ChoiceFixed))

	results := night.Result()
	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestNightRefusesPrematureResult(t *testing.T) {
	st, _ := newTown(JobMafia, JobDoctor)
	night := NewNightPhase(st)

	require.True(t, night.Choose("a", "b", ChoiceFixed))
	assert.Nil(t, night.Result())
}

func TestNightNextOpensNewDay(t *testing.T) {
	st, users := newTown(JobMafia, JobDoctor)
	night := NewNightPhase(st)
	users[1].Status = StatusSaved
	round := st.Round

	next := night.Next()

	require.IsType(t, &DayPhase{}, next)
	assert.Equal(t, round+1, st.Round)
	assert.Equal(t, StatusAlive, users[1].Status)
}

func TestRoundIncrementsOncePerCycle(t *testing.T) {
	st := NewRoomStatus("room1", nil, nil)
	waiting := NewWaitingPhase(st)
	for _, key := range []string{"a", "b", "c", "d"} {
		waiting.AddUser(key, "name")
		require.True(t, waiting.Choose(key, TargetReady, ChoiceFixed))
	}
	require.NotNil(t, waiting.Result())

	day := waiting.Next()
	assert.Equal(t, 1, st.Round)

	for _, key := range []string{"a", "b", "c", "d"} {
		require.True(t, day.Choose(key, TargetNight, ChoiceFixed))
	}
	night := day.Next()
	require.IsType(t, &NightPhase{}, night)
	assert.Equal(t, 1, st.Round, "day into night must not advance the round")

	for _, u := range st.Users {
		if u.Job.CanAct(st) {
			require.True(t, night.Choose(u.Key, "", ChoiceFixed))
		}
	}
	require.IsType(t, &DayPhase{}, night.Next())
	assert.Equal(t, 2, st.Round)
}

func TestDisconnectedUserCannotChoose(t *testing.T) {
	st, users := newTown(JobCitizen, JobMafia)
	day := NewDayPhase(st)

	users[0].Connected = false
	assert.False(t, day.Choose("a", TargetNight, ChoiceFixed))
	assert.Equal(t, ChoiceYet, st.Choices[0].Status)
}

func TestDeadUserCannotChoose(t *testing.T) {
	st, users := newTown(JobCitizen, JobMafia)
	election := NewElectionPhase(st)

	users[0].Status = StatusDead
	assert.False(t, election.Choose("a", "b", ChoiceFixed))
	assert.Equal(t, ChoiceYet, st.Choices[0].Status)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextAgentStatus(t *testing.T) {
	cases := []struct {
		name    string
		from    AgentStatus
		action  AgentAction
		want    AgentStatus
		noop    bool
		wantErr error
	}{
		{"approve pending", AgentPending, AgentApprove, AgentApproved, false, nil},
		{"approve approved is noop", AgentApproved, AgentApprove, AgentApproved, true, nil},
		{"approve rejected", AgentRejected, AgentApprove, AgentApproved, false, nil},
		{"reinstate suspended", AgentSuspended, AgentApprove, AgentApproved, false, nil},
		{"reject pending", AgentPending, AgentReject, AgentRejected, false, nil},
		{"reject approved", AgentApproved, AgentReject, AgentApproved, false, ErrInvalidTransition},
		{"suspend approved", AgentApproved, AgentSuspend, AgentSuspended, false, nil},
		{"suspend pending", AgentPending, AgentSuspend, AgentPending, false, ErrInvalidTransition},
		{"unknown", AgentPending, AgentAction("delete"), AgentPending, false, ErrUnknownAction},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, noop, err := NextAgentStatus(tc.from, tc.action)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.noop, noop)
		})
	}
}

func TestNextPlan(t *testing.T) {
	p, err := NextPlan(AgentApproved, PlanFree, AgentUpgrade)
	require.NoError(t, err)
	assert.Equal(t, PlanStarter, p)

	p, err = NextPlan(AgentApproved, PlanStarter, AgentDowngrade)
	require.NoError(t, err)
	assert.Equal(t, PlanFree, p)

	_, err = NextPlan(AgentApproved, PlanPro, AgentUpgrade)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = NextPlan(AgentApproved, PlanFree, AgentDowngrade)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = NextPlan(AgentPending, PlanFree, AgentUpgrade)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = NextPlan(AgentApproved, PlanFree, AgentApprove)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestNextPackageState(t *testing.T) {
	pending := PackageState{PackagePending, PublishDraft}
	live := PackageState{PackageApproved, PublishPublished}
	hidden := PackageState{PackageApproved, PublishUnpublished}

	next, noop, err := NextPackageState(pending, PackageApprove)
	require.NoError(t, err)
	assert.False(t, noop)
	assert.Equal(t, live, next)

	_, noop, err = NextPackageState(live, PackageApprove)
	require.NoError(t, err)
	assert.True(t, noop)

	next, _, err = NextPackageState(live, PackageUnpublish)
	require.NoError(t, err)
	assert.Equal(t, hidden, next)

	next, _, err = NextPackageState(hidden, PackagePublish)
	require.NoError(t, err)
	assert.Equal(t, live, next)

	_, _, err = NextPackageState(pending, PackageUnpublish)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	next, _, err = NextPackageState(live, PackageReject)
	require.NoError(t, err)
	assert.Equal(t, PackageState{PackageRejected, PublishUnpublished}, next)

	next, _, err = NextPackageState(PackageState{PackageRejected, PublishUnpublished}, PackageSubmit)
	require.NoError(t, err)
	assert.Equal(t, PackagePending, next.Status)

	_, _, err = NextPackageState(PackageState{PackageArchived, PublishUnpublished}, PackageSubmit)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, noop, err = NextPackageState(PackageState{PackageArchived, PublishUnpublished}, PackageArchive)
	require.NoError(t, err)
	assert.True(t, noop)
}

func TestNextBookingStatus(t *testing.T) {
	next, _, err := NextBookingStatus(BookingPending, BookingConfirm)
	require.NoError(t, err)
	assert.Equal(t, BookingConfirmed, next)

	next, _, err = NextBookingStatus(BookingConfirmed, BookingComplete)
	require.NoError(t, err)
	assert.Equal(t, BookingCompleted, next)

	_, _, err = NextBookingStatus(BookingCompleted, BookingCancel)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, noop, err := NextBookingStatus(BookingCancelled, BookingCancel)
	require.NoError(t, err)
	assert.True(t, noop)
}

func TestTransitionErrorUnwraps(t *testing.T) {
	err := &TransitionError{Entity: EntityAgent, ID: 7, From: string(AgentPending), Action: string(AgentSuspend)}
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "agent 7")
}

func TestPlanAllowsPackages(t *testing.T) {
	free, ok := PlanByID(PlanFree)
	require.True(t, ok)
	assert.True(t, free.AllowsPackages(2))
	assert.False(t, free.AllowsPackages(3))

	pro, _ := PlanByID(PlanPro)
	assert.True(t, pro.AllowsPackages(10000))
}

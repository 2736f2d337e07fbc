package domain

import "slices"

// Status changes are validated here, server-side, against explicit allowed-from tables.
// An action whose target equals the current state is reported as a no-op.

type AgentAction string

const (
	AgentApprove   AgentAction = "approve"
	AgentReject    AgentAction = "reject"
	AgentSuspend   AgentAction = "suspend"
	AgentUpgrade   AgentAction = "upgrade"
	AgentDowngrade AgentAction = "downgrade"
)

type agentRule struct {
	from []AgentStatus
	to   AgentStatus
}

var agentTransitions = map[AgentAction]agentRule{
	AgentApprove: {from: []AgentStatus{AgentPending, AgentRejected, AgentSuspended}, to: AgentApproved},
	AgentReject:  {from: []AgentStatus{AgentPending}, to: AgentRejected},
	AgentSuspend: {from: []AgentStatus{AgentApproved}, to: AgentSuspended},
}

// ChangesPlan reports whether the action moves the subscription tier instead of the status.
func (a AgentAction) ChangesPlan() bool {
	return a == AgentUpgrade || a == AgentDowngrade
}

func (a AgentAction) Valid() bool {
	_, ok := agentTransitions[a]
	return ok || a.ChangesPlan()
}

// NextAgentStatus resolves a status action against the agent transition table.
func NextAgentStatus(current AgentStatus, action AgentAction) (next AgentStatus, noop bool, err error) {
	rule, ok := agentTransitions[action]
	if !ok {
		return current, false, ErrUnknownAction
	}
	if current == rule.to {
		return current, true, nil
	}
	if !slices.Contains(rule.from, current) {
		return current, false, ErrInvalidTransition
	}
	return rule.to, false, nil
}

// NextPlan moves one tier up or down. Plan changes are only allowed for approved agents.
func NextPlan(status AgentStatus, current PlanID, action AgentAction) (PlanID, error) {
	if !action.ChangesPlan() {
		return current, ErrUnknownAction
	}
	if status != AgentApproved {
		return current, ErrInvalidTransition
	}
	idx := slices.IndexFunc(Plans, func(p Plan) bool { return p.ID == current })
	if idx < 0 {
		idx = 0
	}
	switch action {
	case AgentUpgrade:
		idx++
	case AgentDowngrade:
		idx--
	}
	if idx < 0 || idx >= len(Plans) {
		return current, ErrInvalidTransition
	}
	return Plans[idx].ID, nil
}

type PackageAction string

const (
	PackageApprove   PackageAction = "approve"
	PackageReject    PackageAction = "reject"
	PackagePublish   PackageAction = "publish"
	PackageUnpublish PackageAction = "unpublish"
	PackageSubmit    PackageAction = "submit"
	PackageArchive   PackageAction = "archive"
)

// AdminOnly reports whether the action belongs to moderation rather than to the owning agent.
func (a PackageAction) AdminOnly() bool {
	switch a {
	case PackageApprove, PackageReject, PackagePublish, PackageUnpublish:
		return true
	}
	return false
}

type PackageState struct {
	Status  PackageStatus
	Publish PublishStatus
}

type packageRule struct {
	fromStatus  []PackageStatus
	fromPublish []PublishStatus // nil means any
	toStatus    PackageStatus   // empty keeps the current value
	toPublish   PublishStatus   // empty keeps the current value
}

var packageTransitions = map[PackageAction]packageRule{
	PackageApprove: {
		fromStatus: []PackageStatus{PackagePending, PackageRejected},
		toStatus:   PackageApproved,
		toPublish:  PublishPublished,
	},
	PackageReject: {
		fromStatus: []PackageStatus{PackagePending, PackageApproved},
		toStatus:   PackageRejected,
		toPublish:  PublishUnpublished,
	},
	PackagePublish: {
		fromStatus:  []PackageStatus{PackageApproved},
		fromPublish: []PublishStatus{PublishDraft, PublishUnpublished},
		toPublish:   PublishPublished,
	},
	PackageUnpublish: {
		fromStatus:  []PackageStatus{PackageApproved},
		fromPublish: []PublishStatus{PublishPublished},
		toPublish:   PublishUnpublished,
	},
	PackageSubmit: {
		fromStatus: []PackageStatus{PackageDraft, PackageRejected},
		toStatus:   PackagePending,
	},
	PackageArchive: {
		fromStatus: []PackageStatus{PackageDraft, PackagePending, PackageApproved, PackageRejected},
		toStatus:   PackageArchived,
		toPublish:  PublishUnpublished,
	},
}

func (a PackageAction) Valid() bool {
	_, ok := packageTransitions[a]
	return ok
}

func NextPackageState(current PackageState, action PackageAction) (next PackageState, noop bool, err error) {
	rule, ok := packageTransitions[action]
	if !ok {
		return current, false, ErrUnknownAction
	}
	next = current
	if rule.toStatus != "" {
		next.Status = rule.toStatus
	}
	if rule.toPublish != "" {
		next.Publish = rule.toPublish
	}
	if next == current {
		return current, true, nil
	}
	if !slices.Contains(rule.fromStatus, current.Status) {
		return current, false, ErrInvalidTransition
	}
	if rule.fromPublish != nil && !slices.Contains(rule.fromPublish, current.Publish) {
		return current, false, ErrInvalidTransition
	}
	return next, false, nil
}

type BookingAction string

const (
	BookingConfirm  BookingAction = "confirm"
	BookingCancel   BookingAction = "cancel"
	BookingComplete BookingAction = "complete"
)

type bookingRule struct {
	from []BookingStatus
	to   BookingStatus
}

var bookingTransitions = map[BookingAction]bookingRule{
	BookingConfirm:  {from: []BookingStatus{BookingPending}, to: BookingConfirmed},
	BookingCancel:   {from: []BookingStatus{BookingPending, BookingConfirmed}, to: BookingCancelled},
	BookingComplete: {from: []BookingStatus{BookingConfirmed}, to: BookingCompleted},
}

func NextBookingStatus(current BookingStatus, action BookingAction) (next BookingStatus, noop bool, err error) {
	rule, ok := bookingTransitions[action]
	if !ok {
		return current, false, ErrUnknownAction
	}
	if current == rule.to {
		return current, true, nil
	}
	if !slices.Contains(rule.from, current) {
		return current, false, ErrInvalidTransition
	}
	return rule.to, false, nil
}

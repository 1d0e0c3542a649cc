// Package conflictpolicy decides whether a contact may apply to a
// cohort under the one-active-team-program rule.
//
// Rules:
//   - Exempt initiatives never block (explicit conflict_policy, or the
//     legacy Xperiment name fallback for records without one).
//   - Only team-based participation types are checked; individual
//     cohorts always pass.
//   - An Active team-linked participation under a different initiative
//     blocks with team_program_conflict; under the same initiative it
//     blocks with initiative_conflict.
//   - Team flows under an exempt-family initiative get a topic check:
//     the candidate team's current cohort topics must overlap the
//     target's (topic_mismatch otherwise).
//
// Checks are read-only; callers enforce the decision before submission.
package conflictpolicy

import (
	"strings"

	"github.com/xfoundry/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Decision reasons.
const (
	ReasonInitiativeConflict  = "initiative_conflict"
	ReasonTeamProgramConflict = "team_program_conflict"
	ReasonTopicMismatch       = "topic_mismatch"
	ReasonCheckUnavailable    = "check_unavailable"
)

// Kind classifies a cohort's participation type.
type Kind int

const (
	KindIndividual Kind = iota
	KindTeam
)

// teamMarkers are the substrings that classify a participation type as
// team-based. Matching is trimmed, lowercased, and by substring.
var teamMarkers = []string{"team", "teams", "group", "collaborative"}

// ClassifyParticipation classifies a raw participation-type string.
// "Team", "TEAMS", "Group Project", "Collaborative" are team-based;
// "Individual", "", "Mentorship" are not.
func ClassifyParticipation(s string) Kind {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "" {
		return KindIndividual
	}
	for _, marker := range teamMarkers {
		if norm == marker || strings.Contains(norm, marker) {
			return KindTeam
		}
	}
	return KindIndividual
}

// exemptNameMarker is the legacy fallback: initiatives named for the
// Xperiment family are exempt when no explicit policy is set.
const exemptNameMarker = "xperiment"

// Exempt reports whether the initiative is exempt from conflict rules.
// An explicit conflict_policy wins; otherwise the name fallback applies.
func Exempt(ini models.Initiative) bool {
	switch ini.ConflictPolicy {
	case models.ConflictPolicyExempt:
		return true
	case models.ConflictPolicyExclusive:
		return false
	}
	return strings.Contains(strings.ToLower(ini.Name), exemptNameMarker)
}

// Details names the programs involved in a blocked decision. TeamID,
// when resolvable, feeds the "leave team" remediation action.
type Details struct {
	CurrentProgram string `json:"currentProgram,omitempty"`
	AppliedProgram string `json:"appliedProgram,omitempty"`
	TeamID         string `json:"teamId,omitempty"`
}

// Decision is the structured result consumed by the dashboard. A blocked
// decision is a business result, not an HTTP error.
type Decision struct {
	Allowed bool     `json:"allowed"`
	Reason  string   `json:"reason,omitempty"`
	Details *Details `json:"details,omitempty"`

	// FailedOpen marks a decision granted only because a lookup failed
	// while the fail-open policy is active. Logged, never serialized.
	FailedOpen bool `json:"-"`
}

func allowed() Decision { return Decision{Allowed: true} }

func blocked(reason string, d Details) Decision {
	return Decision{Allowed: false, Reason: reason, Details: &d}
}

// Target describes the cohort being applied to.
type Target struct {
	Initiative        models.Initiative
	ParticipationType string
	Topics            []string

	// CandidateTeamID is set on team flows where the user has already
	// chosen a team; it enables the topic check.
	CandidateTeamID *primitive.ObjectID
}

// ProgramRef is one of the contact's existing active enrollments,
// resolved to its initiative.
type ProgramRef struct {
	InitiativeID   primitive.ObjectID
	InitiativeName string
	Topics         []string
	TeamID         *primitive.ObjectID
}

// Evaluate applies the conflict rules to already-fetched data. It is
// pure; Checker.Check gathers the inputs from the record store.
func Evaluate(target Target, existing []ProgramRef) Decision {
	if Exempt(target.Initiative) {
		if target.CandidateTeamID != nil && len(target.Topics) > 0 {
			if d, mismatch := topicMismatch(target, existing); mismatch {
				return d
			}
		}
		return allowed()
	}

	if ClassifyParticipation(target.ParticipationType) != KindTeam {
		return allowed()
	}

	for _, ref := range existing {
		d := Details{
			CurrentProgram: ref.InitiativeName,
			AppliedProgram: target.Initiative.Name,
		}
		if ref.TeamID != nil {
			d.TeamID = ref.TeamID.Hex()
		}
		if ref.InitiativeID != target.Initiative.ID {
			return blocked(ReasonTeamProgramConflict, d)
		}
		return blocked(ReasonInitiativeConflict, d)
	}

	return allowed()
}

// topicMismatch checks the candidate team's enrollments under the same
// initiative: disjoint topic tags block with topic_mismatch.
func topicMismatch(target Target, existing []ProgramRef) (Decision, bool) {
	for _, ref := range existing {
		if ref.TeamID == nil || *ref.TeamID != *target.CandidateTeamID {
			continue
		}
		if ref.InitiativeID != target.Initiative.ID {
			continue
		}
		if len(ref.Topics) == 0 {
			continue
		}
		if !topicsOverlap(target.Topics, ref.Topics) {
			d := Details{
				CurrentProgram: ref.InitiativeName,
				AppliedProgram: target.Initiative.Name,
				TeamID:         ref.TeamID.Hex(),
			}
			return blocked(ReasonTopicMismatch, d), true
		}
	}
	return Decision{}, false
}

func topicsOverlap(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	for _, t := range b {
		if _, ok := set[strings.ToLower(strings.TrimSpace(t))]; ok {
			return true
		}
	}
	return false
}

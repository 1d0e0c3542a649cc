// internal/app/policy/conflictpolicy/checker.go
package conflictpolicy

import (
	"context"

	"github.com/dalemusser/waffle/pantry/text"
	cohortstore "github.com/xfoundry/hub/internal/app/store/cohorts"
	memberstore "github.com/xfoundry/hub/internal/app/store/members"
	participationstore "github.com/xfoundry/hub/internal/app/store/participation"
	teamstore "github.com/xfoundry/hub/internal/app/store/teams"
	"github.com/xfoundry/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Checker resolves a contact's active enrollments from the record store
// and evaluates the conflict rules against a target cohort.
type Checker struct {
	cohorts       *cohortstore.Store
	members       *memberstore.Store
	participation *participationstore.Store
	teams         *teamstore.Store

	// failOpen controls the failure policy: when true (the default),
	// lookup errors allow the application rather than block it. The
	// invariant is best-effort either way; flipping this trades
	// availability for strictness.
	failOpen bool
	log      *zap.Logger
}

func NewChecker(db *mongo.Database, failOpen bool, logger *zap.Logger) *Checker {
	return &Checker{
		cohorts:       cohortstore.New(db),
		members:       memberstore.New(db),
		participation: participationstore.New(db),
		teams:         teamstore.New(db),
		failOpen:      failOpen,
		log:           logger,
	}
}

// onLookupError converts a store failure into a decision per the
// configured failure policy.
func (c *Checker) onLookupError(op string, err error) Decision {
	if c.failOpen {
		c.log.Warn("conflict check failed open", zap.String("op", op), zap.Error(err))
		return Decision{Allowed: true, FailedOpen: true}
	}
	c.log.Error("conflict check failed closed", zap.String("op", op), zap.Error(err))
	return Decision{Allowed: false, Reason: ReasonCheckUnavailable}
}

// CheckCohort evaluates an application by the contact to the cohort.
// candidateTeamID is set on team flows where a team is already chosen.
func (c *Checker) CheckCohort(ctx context.Context, contactID primitive.ObjectID, detail cohortstore.CohortDetail, candidateTeamID *primitive.ObjectID) Decision {
	target := Target{
		Initiative:        detail.Initiative,
		ParticipationType: detail.Cohort.ParticipationType,
		Topics:            detail.Cohort.Topics,
		CandidateTeamID:   candidateTeamID,
	}

	// Exempt or individual targets need no store reads at all.
	if Exempt(target.Initiative) && candidateTeamID == nil {
		return allowed()
	}
	if !Exempt(target.Initiative) && ClassifyParticipation(target.ParticipationType) != KindTeam {
		return allowed()
	}

	existing, err := c.activePrograms(ctx, contactID)
	if err != nil {
		return c.onLookupError("active_programs", err)
	}
	return Evaluate(target, existing)
}

// CheckInitiative evaluates by initiative name, for the query endpoint.
// Unknown initiative names check as exclusive team programs so the
// answer errs toward surfacing conflicts.
func (c *Checker) CheckInitiative(ctx context.Context, contactID primitive.ObjectID, initiativeName string) Decision {
	ini, err := c.cohorts.InitiativeByName(ctx, text.Fold(initiativeName))
	if err == mongo.ErrNoDocuments {
		ini = models.Initiative{Name: initiativeName}
	} else if err != nil {
		return c.onLookupError("initiative_by_name", err)
	}

	target := Target{Initiative: ini, ParticipationType: models.ParticipationTypeTeam}
	if Exempt(target.Initiative) {
		return allowed()
	}

	existing, err := c.activePrograms(ctx, contactID)
	if err != nil {
		return c.onLookupError("active_programs", err)
	}
	return Evaluate(target, existing)
}

// activePrograms collects the contact's active team enrollments from two
// independent signals: Active team-linked participation rows, and Active
// member rows whose team is linked to a cohort. The sources are
// eventually consistent with each other; the union is deduped by cohort.
func (c *Checker) activePrograms(ctx context.Context, contactID primitive.ObjectID) ([]ProgramRef, error) {
	seen := make(map[primitive.ObjectID]struct{})
	var refs []ProgramRef

	parts, err := c.participation.ListActiveTeamByContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		if _, dup := seen[p.CohortID]; dup {
			continue
		}
		seen[p.CohortID] = struct{}{}
		ref, err := c.resolveRef(ctx, p.CohortID, p.TeamID)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	members, err := c.members.ListByContact(ctx, contactID, models.MemberActive)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		team, err := c.teams.GetByID(ctx, m.TeamID)
		if err == mongo.ErrNoDocuments {
			continue // dangling member row; nothing to count
		}
		if err != nil {
			return nil, err
		}
		teamID := team.ID
		for _, cohortID := range team.CohortIDs {
			if _, dup := seen[cohortID]; dup {
				continue
			}
			seen[cohortID] = struct{}{}
			ref, err := c.resolveRef(ctx, cohortID, &teamID)
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)
		}
	}

	return refs, nil
}

func (c *Checker) resolveRef(ctx context.Context, cohortID primitive.ObjectID, teamID *primitive.ObjectID) (ProgramRef, error) {
	detail, err := c.cohorts.GetDetail(ctx, cohortID)
	if err != nil {
		return ProgramRef{}, err
	}
	return ProgramRef{
		InitiativeID:   detail.Initiative.ID,
		InitiativeName: detail.Initiative.Name,
		Topics:         detail.Cohort.Topics,
		TeamID:         teamID,
	}, nil
}

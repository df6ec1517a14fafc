package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/drafthoops/nba-draft-tracker/internal/domain/team"
)

// TeamsPerOwner is the draft slot count: every owner holds exactly four
// franchises.
const TeamsPerOwner = 4

var (
	ErrEmptyAssignment   = errors.New("assignment has no owners")
	ErrInvalidTeamCount  = errors.New("owner must hold exactly four teams")
	ErrDuplicateTeam     = errors.New("duplicate team for owner")
	ErrTeamAlreadyOwned  = errors.New("team assigned to more than one owner")
	ErrUnknownTeam       = errors.New("unknown team name")
	ErrRosterMismatch    = errors.New("assignment does not cover the owner roster")
	ErrMissingTeamRecord = errors.New("no record for assigned team")
)

// Validate checks the structural draft invariants: every owner holds
// exactly TeamsPerOwner distinct franchises from the fixed vocabulary and
// no franchise belongs to two owners. Undrafted franchises are fine.
func (a Assignment) Validate() error {
	if len(a) == 0 {
		return ErrEmptyAssignment
	}

	claimed := make(map[string]string, len(a)*TeamsPerOwner)
	for _, owner := range a.Owners() {
		teams := a[owner]
		if strings.TrimSpace(owner) == "" {
			return fmt.Errorf("owner name is required")
		}
		if len(teams) != TeamsPerOwner {
			return fmt.Errorf("%w: owner=%s got=%d", ErrInvalidTeamCount, owner, len(teams))
		}

		seen := make(map[string]struct{}, TeamsPerOwner)
		for _, name := range teams {
			// Uniqueness keys on the canonical franchise name, so a
			// case variant cannot smuggle the same team twice.
			canonical, ok := team.Canonicalize(name)
			if !ok {
				return fmt.Errorf("%w: owner=%s team=%q", ErrUnknownTeam, owner, name)
			}
			if _, dup := seen[canonical]; dup {
				return fmt.Errorf("%w: owner=%s team=%s", ErrDuplicateTeam, owner, canonical)
			}
			seen[canonical] = struct{}{}

			if prior, taken := claimed[canonical]; taken {
				return fmt.Errorf("%w: team=%s owners=%s,%s", ErrTeamAlreadyOwned, canonical, prior, owner)
			}
			claimed[canonical] = owner
		}
	}

	return nil
}

// ValidateProposal checks a sandbox assignment against the persisted owner
// roster. Proposals redistribute a closed pool, so on top of Validate they
// must name exactly the same owners as the real draft. Global uniqueness
// is already enforced by Validate.
func (a Assignment) ValidateProposal(current Assignment) error {
	if err := a.Validate(); err != nil {
		return err
	}

	if len(a) != len(current) {
		return fmt.Errorf("%w: got=%d want=%d owners", ErrRosterMismatch, len(a), len(current))
	}
	for owner := range current {
		if _, ok := a[owner]; !ok {
			return fmt.Errorf("%w: missing owner %s", ErrRosterMismatch, owner)
		}
	}

	return nil
}

// CheckRecords verifies every assigned franchise has a fetched record.
func (a Assignment) CheckRecords(records map[string]team.Record) error {
	for _, owner := range a.Owners() {
		for _, name := range a[owner] {
			if _, ok := records[name]; !ok {
				return fmt.Errorf("%w: owner=%s team=%s", ErrMissingTeamRecord, owner, name)
			}
		}
	}
	return nil
}

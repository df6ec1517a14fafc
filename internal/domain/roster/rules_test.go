package roster

import (
	"errors"
	"testing"

	"github.com/drafthoops/nba-draft-tracker/internal/domain/team"
)

func validAssignment() Assignment {
	return Assignment{
		"JJ":    {"Thunder", "Spurs", "Pistons", "Pelicans"},
		"Nate":  {"Magic", "Hawks", "Grizzlies", "Suns"},
		"Chris": {"Warriors", "Pacers", "Mavericks", "Hornets"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(Assignment) Assignment
		targetErr error
	}{
		{
			name:      "valid assignment",
			mutate:    func(a Assignment) Assignment { return a },
			targetErr: nil,
		},
		{
			name:      "empty assignment",
			mutate:    func(Assignment) Assignment { return Assignment{} },
			targetErr: ErrEmptyAssignment,
		},
		{
			name: "three teams only",
			mutate: func(a Assignment) Assignment {
				a["JJ"] = a["JJ"][:3]
				return a
			},
			targetErr: ErrInvalidTeamCount,
		},
		{
			name: "five teams",
			mutate: func(a Assignment) Assignment {
				a["JJ"] = append(a["JJ"], "Jazz")
				return a
			},
			targetErr: ErrInvalidTeamCount,
		},
		{
			name: "duplicate within owner",
			mutate: func(a Assignment) Assignment {
				a["JJ"] = []string{"Thunder", "Thunder", "Pistons", "Pelicans"}
				return a
			},
			targetErr: ErrDuplicateTeam,
		},
		{
			name: "team owned twice",
			mutate: func(a Assignment) Assignment {
				a["Nate"] = []string{"Thunder", "Hawks", "Grizzlies", "Suns"}
				return a
			},
			targetErr: ErrTeamAlreadyOwned,
		},
		{
			name: "duplicate within owner via case variant",
			mutate: func(a Assignment) Assignment {
				a["JJ"] = []string{"Thunder", "thunder", "Pistons", "Pelicans"}
				return a
			},
			targetErr: ErrDuplicateTeam,
		},
		{
			name: "team owned twice via case variant",
			mutate: func(a Assignment) Assignment {
				a["Nate"] = []string{"thunder", "Hawks", "Grizzlies", "Suns"}
				return a
			},
			targetErr: ErrTeamAlreadyOwned,
		},
		{
			name: "unknown franchise",
			mutate: func(a Assignment) Assignment {
				a["JJ"] = []string{"Sonics", "Spurs", "Pistons", "Pelicans"}
				return a
			},
			targetErr: ErrUnknownTeam,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.mutate(validAssignment()).Validate()
			if tc.targetErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.targetErr) {
				t.Fatalf("unexpected error: got=%v want=%v", err, tc.targetErr)
			}
		})
	}
}

func TestValidateProposal(t *testing.T) {
	current := validAssignment()

	t.Run("same owners reshuffled", func(t *testing.T) {
		proposal := Assignment{
			"JJ":    {"Magic", "Hawks", "Grizzlies", "Suns"},
			"Nate":  {"Thunder", "Spurs", "Pistons", "Pelicans"},
			"Chris": {"Warriors", "Pacers", "Mavericks", "Hornets"},
		}
		if err := proposal.ValidateProposal(current); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("undrafted teams may enter a proposal", func(t *testing.T) {
		proposal := validAssignment()
		proposal["JJ"] = []string{"Jazz", "Nets", "Pistons", "Pelicans"}
		if err := proposal.ValidateProposal(current); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing owner rejected", func(t *testing.T) {
		proposal := validAssignment()
		delete(proposal, "Chris")
		proposal["Dana"] = []string{"Warriors", "Pacers", "Mavericks", "Hornets"}
		err := proposal.ValidateProposal(current)
		if !errors.Is(err, ErrRosterMismatch) {
			t.Fatalf("unexpected error: got=%v want=%v", err, ErrRosterMismatch)
		}
	})
}

func TestCheckRecords(t *testing.T) {
	assignment := validAssignment()
	records := make(map[string]team.Record)
	for _, name := range assignment.Teams() {
		records[name] = team.Record{Name: name, Wins: 1, Losses: 1}
	}

	if err := assignment.CheckRecords(records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	delete(records, "Thunder")
	err := assignment.CheckRecords(records)
	if !errors.Is(err, ErrMissingTeamRecord) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrMissingTeamRecord)
	}
}

func TestClone(t *testing.T) {
	original := validAssignment()
	clone := original.Clone()
	clone["JJ"][0] = "Jazz"

	if original["JJ"][0] != "Thunder" {
		t.Fatalf("clone must not share slices with the original")
	}
}

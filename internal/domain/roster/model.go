package roster

import "sort"

// Assignment maps an owner to the franchises they drafted. Order inside a
// slot list carries no meaning.
type Assignment map[string][]string

// Owners returns the owner names in deterministic order.
func (a Assignment) Owners() []string {
	out := make([]string, 0, len(a))
	for owner := range a {
		out = append(out, owner)
	}
	sort.Strings(out)
	return out
}

// Teams returns every assigned franchise across all owners, sorted.
// Duplicates are preserved so callers can detect them.
func (a Assignment) Teams() []string {
	out := make([]string, 0, len(a)*TeamsPerOwner)
	for _, teams := range a {
		out = append(out, teams...)
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy so callers can hand assignments across
// goroutines without sharing slices.
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for owner, teams := range a {
		out[owner] = append([]string(nil), teams...)
	}
	return out
}

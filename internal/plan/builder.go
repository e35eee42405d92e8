package plan

import (
	"fmt"
	"sort"

	"github.com/nerrad567/gray-logic-rename/internal/naming"
	"github.com/nerrad567/gray-logic-rename/internal/scan"
)

// Input collects everything the builder validates a plan against.
type Input struct {
	// Candidates are the derived renames, one per entity that resolved.
	Candidates []naming.CandidateRename

	// References is the scanner's full reference index.
	References []scan.Reference

	// Existing is the set of identifiers live in the registry snapshot.
	Existing map[string]struct{}

	// Disabled maps entity stable ids to their disabled state.
	Disabled map[string]bool

	// IncludeDisabled admits disabled entities into the executable plan.
	IncludeDisabled bool

	// Failures are derivation diagnostics produced upstream; they are
	// carried into the plan verbatim.
	Failures []Diagnostic
}

// Build validates the candidates against each other and the registry
// snapshot, producing an ordered executable plan. Every validation
// rule excludes the offending entity with a diagnostic instead of
// aborting: a conflicted corpus still yields a plan for the clean
// remainder.
//
// Ordering: any rename whose new identifier equals another pending
// rename's old identifier runs after that rename vacates it. Ties are
// broken by ascending old identifier, so the same input always builds
// the same plan.
func Build(in Input) *Plan {
	p := &Plan{Diagnostics: append([]Diagnostic(nil), in.Failures...)}

	var live []naming.CandidateRename
	for _, c := range in.Candidates {
		switch {
		case !c.IdentifierChanged() && !c.NameChanged():
			// Already compliant; dropped silently.
		case in.Disabled[c.StableID] && !in.IncludeDisabled:
			p.exclude(c, DiagDisabled, "entity is disabled in the registry")
		default:
			live = append(live, c)
		}
	}

	live = p.excludeCollisions(live)

	// Occupancy and cycle exclusion interact: excluding a cycle member
	// un-vacates its old identifier, which can strand a dependent on an
	// occupied target. Iterate until the surviving set is stable.
	var ordered []naming.CandidateRename
	for {
		live = p.excludeOccupied(live, in.Existing)

		var cyclic []naming.CandidateRename
		ordered, cyclic = orderCandidates(live)
		if len(cyclic) == 0 {
			break
		}
		for _, c := range cyclic {
			p.exclude(c, DiagCyclicRename, "rename cycle with no valid execution order")
		}
		live = ordered
	}

	refsByOld := groupReferences(in.References)
	for _, c := range ordered {
		op := &Operation{
			StableID:    c.StableID,
			OldID:       c.OldID,
			NewID:       c.NewID,
			OldName:     c.OldName,
			NewName:     c.NewName,
			Trace:       c.Trace,
			DisplayOnly: !c.IdentifierChanged(),
			Status:      StatusPending,
		}
		if op.IdentifierChanged() {
			op.References = refsByOld[c.OldID]
		}
		p.Operations = append(p.Operations, op)
	}

	sort.Slice(p.Diagnostics, func(i, j int) bool {
		if p.Diagnostics[i].OldID != p.Diagnostics[j].OldID {
			return p.Diagnostics[i].OldID < p.Diagnostics[j].OldID
		}
		return p.Diagnostics[i].Code < p.Diagnostics[j].Code
	})
	return p
}

func (p *Plan) exclude(c naming.CandidateRename, code DiagnosticCode, detail string) {
	p.Diagnostics = append(p.Diagnostics, Diagnostic{
		StableID: c.StableID,
		OldID:    c.OldID,
		NewID:    c.NewID,
		Code:     code,
		Detail:   detail,
	})
}

// excludeCollisions drops every candidate whose new identifier is also
// derived for another candidate. All members of a collision group are
// excluded; picking a winner would require human judgment.
func (p *Plan) excludeCollisions(live []naming.CandidateRename) []naming.CandidateRename {
	byNew := map[string]int{}
	for _, c := range live {
		if c.IdentifierChanged() {
			byNew[c.NewID]++
		}
	}

	var kept []naming.CandidateRename
	for _, c := range live {
		if c.IdentifierChanged() && byNew[c.NewID] > 1 {
			p.exclude(c, DiagNameCollision,
				fmt.Sprintf("%d entities derive identifier %q", byNew[c.NewID], c.NewID))
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// excludeOccupied drops candidates whose new identifier is live in the
// registry and not vacated by another surviving rename. Runs to a
// fixpoint: excluding one candidate can strand another whose target it
// would have vacated.
func (p *Plan) excludeOccupied(live []naming.CandidateRename, existing map[string]struct{}) []naming.CandidateRename {
	for {
		vacated := map[string]struct{}{}
		for _, c := range live {
			if c.IdentifierChanged() {
				vacated[c.OldID] = struct{}{}
			}
		}

		var kept []naming.CandidateRename
		changed := false
		for _, c := range live {
			if !c.IdentifierChanged() {
				kept = append(kept, c)
				continue
			}
			_, occupied := existing[c.NewID]
			_, freed := vacated[c.NewID]
			if occupied && !freed {
				p.exclude(c, DiagTargetOccupied,
					fmt.Sprintf("identifier %q exists and is not being renamed away", c.NewID))
				changed = true
				continue
			}
			kept = append(kept, c)
		}

		live = kept
		if !changed {
			return live
		}
	}
}

// orderCandidates performs a deterministic topological sort: a rename
// depending on another's vacated identifier is scheduled after it,
// and among ready candidates the lowest old identifier goes first.
// Candidates left with unsatisfied dependencies form cycles and are
// returned separately.
func orderCandidates(live []naming.CandidateRename) (ordered, cyclic []naming.CandidateRename) {
	byOld := map[string]int{}
	for i, c := range live {
		if c.IdentifierChanged() {
			byOld[c.OldID] = i
		}
	}

	indegree := make([]int, len(live))
	dependents := map[string][]int{} // old identifier -> indexes waiting on its vacation
	for i, c := range live {
		if !c.IdentifierChanged() {
			continue
		}
		if j, ok := byOld[c.NewID]; ok && j != i {
			indegree[i]++
			dependents[c.NewID] = append(dependents[c.NewID], i)
		}
	}

	var ready []int
	for i := range live {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	sortReady := func() {
		sort.Slice(ready, func(a, b int) bool {
			return live[ready[a]].OldID < live[ready[b]].OldID
		})
	}
	sortReady()

	done := make([]bool, len(live))
	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]
		done[i] = true
		ordered = append(ordered, live[i])

		released := false
		for _, dep := range dependents[live[i].OldID] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
				released = true
			}
		}
		if released {
			sortReady()
		}
	}

	for i, c := range live {
		if !done[i] {
			cyclic = append(cyclic, c)
		}
	}
	return ordered, cyclic
}

func groupReferences(refs []scan.Reference) map[string][]scan.Reference {
	out := map[string][]scan.Reference{}
	for _, r := range refs {
		out[r.OldID] = append(out[r.OldID], r)
	}
	return out
}

package diffing

import (
	"sort"

	"SearchAudit/internal/domain"
)

// Sample is one probed id sequence together with its correlation id and a
// human-readable label ("old_1", "new_3").
type Sample struct {
	IDs           []string
	CorrelationID string
	Label         string
}

// Pairing is one old×new sample combination and its computed difference.
type Pairing struct {
	Old    Sample
	New    Sample
	Report domain.DiffReport
}

// Compare computes the structured difference between two ranked id sequences.
//
// Set membership is compared first; positions are only walked when both sets
// match. Sequences may contain duplicate ids, so equal sets with unequal
// lengths are possible: every trailing position of the longer sequence is
// charged as an order change with an empty counterpart id.
func Compare(oldIDs, newIDs []string) domain.DiffReport {
	onlyInOld := difference(oldIDs, newIDs)
	onlyInNew := difference(newIDs, oldIDs)

	report := domain.DiffReport{
		SetDiff:   len(onlyInOld) > 0 || len(onlyInNew) > 0,
		OnlyInOld: onlyInOld,
		OnlyInNew: onlyInNew,
	}

	if !report.SetDiff {
		shorter := len(oldIDs)
		if len(newIDs) < shorter {
			shorter = len(newIDs)
		}
		for i := 0; i < shorter; i++ {
			if oldIDs[i] != newIDs[i] {
				report.OrderChanges = append(report.OrderChanges, domain.OrderChange{
					Position: i,
					OldID:    oldIDs[i],
					NewID:    newIDs[i],
				})
			}
		}
		for i := shorter; i < len(oldIDs); i++ {
			report.OrderChanges = append(report.OrderChanges, domain.OrderChange{Position: i, OldID: oldIDs[i]})
		}
		for i := shorter; i < len(newIDs); i++ {
			report.OrderChanges = append(report.OrderChanges, domain.OrderChange{Position: i, NewID: newIDs[i]})
		}
		report.OrderDiff = len(report.OrderChanges) > 0
	}

	report.TotalDiffCount = len(report.OnlyInOld) + len(report.OnlyInNew) + len(report.OrderChanges)
	return report
}

// BestPairing evaluates the full cross-product of sampled sequences and
// returns the pairing with the minimal total difference. Ties go to the first
// minimum in enumeration order. ok is false when either side has no samples.
func BestPairing(oldSamples, newSamples []Sample) (best Pairing, ok bool) {
	for _, o := range oldSamples {
		for _, n := range newSamples {
			report := Compare(o.IDs, n.IDs)
			if !ok || report.TotalDiffCount < best.Report.TotalDiffCount {
				best = Pairing{Old: o, New: n, Report: report}
				ok = true
			}
		}
	}
	return best, ok
}

// difference returns the ids of a that are absent from b, sorted for
// deterministic report rows.
func difference(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, id := range b {
		inB[id] = struct{}{}
	}

	seen := make(map[string]struct{}, len(a))
	var out []string
	for _, id := range a {
		if _, ok := inB[id]; ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	sort.Strings(out)
	return out
}

package reconcile

import "github.com/haccpkit/haccp/pkg/records"

// RightJoin joins registrations onto evaluations on (certificate ID,
// authority, category). Every evaluation appears at least once, in
// evaluation order. An evaluation matching several registrations appears
// once per match, in registration order. Evaluations without a match carry a
// nil registration.
func RightJoin(regs records.Registrations, evals records.Evaluations) records.Joined {
	index := indexRegistrations(regs)

	joined := make(records.Joined, 0, len(evals))
	for _, e := range evals {
		matches := index[e.Key()]
		if len(matches) == 0 {
			joined = append(joined, records.JoinedRecord{Evaluation: e})
			continue
		}
		for _, i := range matches {
			reg := regs[i]
			joined = append(joined, records.JoinedRecord{Registration: &reg, Evaluation: e})
		}
	}
	return joined
}

func indexRegistrations(regs records.Registrations) map[records.Key][]int {
	index := make(map[records.Key][]int, len(regs))
	for i := range regs {
		k := regs[i].Key()
		index[k] = append(index[k], i)
	}
	return index
}

// duplicateKeys counts keys held by more than one registration.
func duplicateKeys(regs records.Registrations) int {
	n := 0
	for _, rows := range indexRegistrations(regs) {
		if len(rows) > 1 {
			n++
		}
	}
	return n
}

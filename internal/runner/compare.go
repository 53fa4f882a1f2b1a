package runner

import "errors"

// Compare relates a candidate experiment to a baseline scorer by scorer.
// Scorers present only in the baseline are ignored; a scorer new to the
// candidate is compared against a zero baseline mean.
func Compare(baseline, candidate *ExperimentResult) (*Comparison, error) {
	if baseline == nil || candidate == nil {
		return nil, errors.New("runner: compare requires two experiments")
	}

	cmp := &Comparison{
		Baseline:  baseline.Name,
		Candidate: candidate.Name,
		Scorers:   make(map[string]ScorerDelta, len(candidate.Summary)),
	}
	for name, cs := range candidate.Summary {
		baseMean := baseline.Summary[name].Mean
		delta := cs.Mean - baseMean
		cmp.Scorers[name] = ScorerDelta{
			BaselineMean:  baseMean,
			CandidateMean: cs.Mean,
			Delta:         delta,
			Improved:      delta > 0,
		}
	}
	return cmp, nil
}

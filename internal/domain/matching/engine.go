// Package matching implements the all-required-skills compatibility rule.
package matching

import (
	"skillmatch/internal/domain/job"
	"skillmatch/internal/domain/skill"
)

type Result struct {
	Compatible bool
	// Malformed is set when the requirements themselves are unusable.
	Malformed        bool
	MatchedRequired  []string
	MissingRequired  []string
	MatchedPreferred []string
}

// Evaluate checks whether a worker with workerSkills satisfies req. Every
// required tag must be present in the worker's skill set; preferred tags
// only feed MatchedPreferred. Required tags that are empty or outside the
// vocabulary make the requirements malformed and the pair incompatible.
// Unknown worker tags are ignored.
func Evaluate(workerSkills []string, req job.Requirements) Result {
	if req.Malformed {
		return Result{Malformed: true}
	}

	have := skill.NewSet(workerSkills)
	res := Result{
		MatchedRequired: make([]string, 0, len(req.Required)),
	}

	seen := make(map[string]struct{}, len(req.Required))
	for _, tag := range req.Required {
		c, ok := skill.Canonical(tag)
		if !ok {
			return Result{Malformed: true}
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}

		if have.Has(c) {
			res.MatchedRequired = append(res.MatchedRequired, c)
		} else {
			res.MissingRequired = append(res.MissingRequired, c)
		}
	}

	prefSeen := make(map[string]struct{}, len(req.Preferred))
	for _, tag := range req.Preferred {
		c, ok := skill.Canonical(tag)
		if !ok {
			continue
		}
		if _, dup := prefSeen[c]; dup {
			continue
		}
		prefSeen[c] = struct{}{}
		if have.Has(c) {
			res.MatchedPreferred = append(res.MatchedPreferred, c)
		}
	}

	res.Compatible = len(res.MissingRequired) == 0
	return res
}

// Compatible is Evaluate reduced to the filtering decision.
func Compatible(workerSkills []string, req job.Requirements) bool {
	return Evaluate(workerSkills, req).Compatible
}

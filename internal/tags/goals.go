// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package tags

import "strings"

// CoreGoals are the canonical buckets reported by TallyCoreGoals, in
// display order.
var CoreGoals = []string{
	"hiring",
	"networking",
	"investment",
	"entertainment",
	"learning",
}

// goalAliases maps common variants onto a core goal. Keys are matched
// after lowercasing and trimming.
var goalAliases = map[string]string{
	"hire":       "hiring",
	"recruit":    "hiring",
	"recruiting": "hiring",
	"job":        "hiring",
	"jobs":       "hiring",

	"network":     "networking",
	"connections": "networking",
	"meet people": "networking",
	"mingle":      "networking",

	"investor":        "investment",
	"investors":       "investment",
	"funding":         "investment",
	"fund":            "investment",
	"vc":              "investment",
	"venture capital": "investment",
	"angel":           "investment",

	"fun":   "entertainment",
	"party": "entertainment",
	"music": "entertainment",
	"show":  "entertainment",

	"learn":     "learning",
	"education": "learning",
	"talks":     "learning",
	"workshops": "learning",
	"lecture":   "learning",
	"classes":   "learning",
	"mentor":    "learning",
	"mentoring": "learning",
}

// CoreGoal maps a tag onto its core goal. It returns false when the tag is
// neither a core goal nor a known alias of one.
func CoreGoal(tag string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(tag))
	if g, ok := goalAliases[t]; ok {
		t = g
	}
	for _, g := range CoreGoals {
		if g == t {
			return g, true
		}
	}
	return "", false
}

// Person is the minimal view of a profile needed for goal tallies.
type Person struct {
	ID         string
	LookingFor []string
	Offering   []string
}

// GoalCounts holds the number of distinct people per core goal, split by
// direction. Every core goal is present in both maps.
type GoalCounts struct {
	Looking  map[string]int `json:"looking"`
	Offering map[string]int `json:"offering"`
}

// TallyCoreGoals counts, for each core goal, how many distinct people are
// looking for it and how many offer it. A person is counted at most once
// per goal and direction no matter how many aliases they list.
func TallyCoreGoals(people []Person) GoalCounts {
	looking := make(map[string]map[string]struct{}, len(CoreGoals))
	offering := make(map[string]map[string]struct{}, len(CoreGoals))
	for _, g := range CoreGoals {
		looking[g] = map[string]struct{}{}
		offering[g] = map[string]struct{}{}
	}

	for _, p := range people {
		for _, tag := range p.LookingFor {
			if g, ok := CoreGoal(tag); ok {
				looking[g][p.ID] = struct{}{}
			}
		}
		for _, tag := range p.Offering {
			if g, ok := CoreGoal(tag); ok {
				offering[g][p.ID] = struct{}{}
			}
		}
	}

	counts := GoalCounts{
		Looking:  make(map[string]int, len(CoreGoals)),
		Offering: make(map[string]int, len(CoreGoals)),
	}
	for _, g := range CoreGoals {
		counts.Looking[g] = len(looking[g])
		counts.Offering[g] = len(offering[g])
	}
	return counts
}

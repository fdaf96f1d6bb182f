package questions

import (
	"fmt"
	"math/rand"
	"strings"
)

// StrategySize is how many pools the voice agent is given.
const StrategySize = 5

// startCategories are the categories an interview may open with.
var startCategories = []Category{CategoryProject, CategorySkill, CategoryBehavioral, CategoryExperience}

// Order shuffles pools uniformly, picks a random starting category, and moves that
// category's pools to the front while keeping the shuffled order within each group.
// The input slice is not modified.
func Order(pools []Pool, rng *rand.Rand) []Pool {
	shuffled := make([]Pool, len(pools))
	copy(shuffled, pools)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	start := startCategories[rng.Intn(len(startCategories))]
	ordered := make([]Pool, 0, len(shuffled))
	for _, p := range shuffled {
		if p.Category == start {
			ordered = append(ordered, p)
		}
	}
	for _, p := range shuffled {
		if p.Category != start {
			ordered = append(ordered, p)
		}
	}
	return ordered
}

// Strategy renders the first StrategySize pools, one line each:
//
//	1. PROJECT: "Campus Chat" - Sample: "Walk me through Campus Chat. ..."
func Strategy(pools []Pool) string {
	n := min(len(pools), StrategySize)
	lines := make([]string, 0, n)
	for i, p := range pools[:n] {
		sample := ""
		if len(p.Questions) > 0 {
			sample = p.Questions[0]
		}
		lines = append(lines, fmt.Sprintf(`%d. %s: "%s" - Sample: "%s"`, i+1, p.Category.Label(), p.Topic, sample))
	}
	return strings.Join(lines, "\n")
}

// SPDX-License-Identifier: MIT
package evaluate_test

import (
	"fmt"

	"github.com/katalvlaran/waveinv/evaluate"
)

func ExampleBestAIC() {
	n, _ := evaluate.EffectiveN(1200, 4)
	summaries := []evaluate.RankSummary{
		{Rank: 1, Variance: 0.60},
		{Rank: 2, Variance: 0.40},
		{Rank: 3, Variance: 0.399},
	}
	for i := range summaries {
		s := &summaries[i]
		s.AIC = evaluate.AIC(s.Variance, n, s.Rank)
	}
	best, _ := evaluate.BestAIC(summaries)
	fmt.Println(n, best.Rank)
	// Output: 300 2
}

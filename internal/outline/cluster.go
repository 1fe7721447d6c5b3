package outline

import (
	"math"
	"sort"
	"strings"

	"github.com/mgrims/doclens/internal/layout"
)

// ClusterAssigner implements the page-scoped grouping strategy: each
// candidate becomes a (font size, bold ratio) feature point, hierarchical
// agglomerative clustering forms at most three groups, and groups ranked by
// mean size+bold map to H1, H2, H3.
type ClusterAssigner struct {
	// MaxClusters caps the number of level groups; zero means 3. The
	// effective count is further limited by the distinct font sizes present.
	MaxClusters int
}

func (a *ClusterAssigner) Assign(cands []layout.LineRecord) []Item {
	if len(cands) == 0 {
		return nil
	}

	maxK := a.MaxClusters
	if maxK <= 0 || maxK > 3 {
		maxK = 3
	}
	distinct := make(map[float64]bool)
	for _, c := range cands {
		distinct[quantizeSize(c.FontSize)] = true
	}
	k := maxK
	if len(distinct) < k {
		k = len(distinct)
	}
	if len(cands) < k {
		k = len(cands)
	}

	if k <= 1 {
		items := make([]Item, 0, len(cands))
		for _, c := range cands {
			items = append(items, Item{Level: H1, Text: c.Text, Page: c.Page})
		}
		return items
	}

	points := make([][2]float64, len(cands))
	for i, c := range cands {
		points[i] = [2]float64{c.FontSize, c.BoldRatio}
	}
	labels := agglomerate(points, k)

	// Rank clusters by mean(size + bold), most prominent first.
	type clusterScore struct {
		id    int
		score float64
	}
	sums := make([]float64, k)
	counts := make([]int, k)
	for i, lbl := range labels {
		sums[lbl] += points[i][0] + points[i][1]
		counts[lbl]++
	}
	scores := make([]clusterScore, 0, k)
	for id := 0; id < k; id++ {
		if counts[id] == 0 {
			continue
		}
		scores = append(scores, clusterScore{id: id, score: sums[id] / float64(counts[id])})
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	levelOf := make(map[int]Level, len(scores))
	for rank, cs := range scores {
		levelOf[cs.id] = Level(rank + 1)
	}

	items := make([]Item, 0, len(cands))
	for i, c := range cands {
		level := levelOf[labels[i]]
		// Exclamation-terminated lines are banner text, always top-level.
		if strings.HasSuffix(strings.TrimSpace(c.Text), "!") {
			level = H1
		}
		items = append(items, Item{Level: level, Text: c.Text, Page: c.Page})
	}
	return items
}

// agglomerate runs bottom-up hierarchical clustering with average linkage
// until k clusters remain, returning a cluster label per point. The inputs
// here are tiny (heading candidates), so the cubic merge loop is fine.
func agglomerate(points [][2]float64, k int) []int {
	clusters := make([][]int, len(points))
	for i := range points {
		clusters[i] = []int{i}
	}

	dist := func(a, b []int) float64 {
		var sum float64
		for _, i := range a {
			for _, j := range b {
				dx := points[i][0] - points[j][0]
				dy := points[i][1] - points[j][1]
				sum += math.Hypot(dx, dy)
			}
		}
		return sum / float64(len(a)*len(b))
	}

	for len(clusters) > k {
		bi, bj := 0, 1
		best := math.Inf(1)
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				if d := dist(clusters[i], clusters[j]); d < best {
					best, bi, bj = d, i, j
				}
			}
		}
		clusters[bi] = append(clusters[bi], clusters[bj]...)
		clusters = append(clusters[:bj], clusters[bj+1:]...)
	}

	labels := make([]int, len(points))
	for id, members := range clusters {
		for _, m := range members {
			labels[m] = id
		}
	}
	return labels
}

// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
)

// ForestParams controls forest fitting.
type ForestParams struct {
	// Trees is the number of bootstrapped trees.
	Trees int

	// MaxDepth bounds tree depth. Zero means unbounded.
	MaxDepth int

	// MinSamplesLeaf is the minimum number of samples in a leaf.
	MinSamplesLeaf int

	// MaxFeatures is the number of features tried per split. Zero means all.
	MaxFeatures int

	// Seed makes fitting reproducible.
	Seed int64
}

// Forest is a bagged ensemble of regression trees. Nodes are stored flat so
// a fitted forest serializes with encoding/gob.
type Forest struct {
	Trees    []Tree
	Features int
}

// Tree is a single regression tree. Nodes[0] is the root.
type Tree struct {
	Nodes []Node
}

// Node is a split or a leaf. Samples with row[Feature] <= Threshold go Left.
type Node struct {
	Feature   int
	Threshold float64
	Left      int32
	Right     int32
	Value     float64
	Leaf      bool
}

// FitForest fits a forest on X with targets y. Cancellation is checked
// between trees.
func FitForest(ctx context.Context, x [][]float64, y []float64, params ForestParams) (*Forest, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("fit forest: %w: no rows", ErrInsufficientData)
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("fit forest: %d rows but %d targets", len(x), len(y))
	}
	if params.Trees < 1 {
		params.Trees = 1
	}
	if params.MinSamplesLeaf < 1 {
		params.MinSamplesLeaf = 1
	}

	features := len(x[0])
	for i, row := range x {
		if len(row) != features {
			return nil, fmt.Errorf("fit forest: row %d has %d features, want %d", i, len(row), features)
		}
	}

	rng := rand.New(rand.NewSource(params.Seed)) //nolint:gosec // bootstrap sampling does not need crypto randomness
	forest := &Forest{
		Trees:    make([]Tree, 0, params.Trees),
		Features: features,
	}

	n := len(x)
	for t := 0; t < params.Trees; t++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fit forest: %w", err)
		}

		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}

		b := &treeBuilder{
			x:      x,
			y:      y,
			params: params,
			rng:    rng,
		}
		b.build(sample, 0)
		forest.Trees = append(forest.Trees, Tree{Nodes: b.nodes})
	}

	return forest, nil
}

// Predict returns the mean prediction of all trees.
func (f *Forest) Predict(row []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	var sum float64
	for i := range f.Trees {
		sum += f.Trees[i].predict(row)
	}
	return sum / float64(len(f.Trees))
}

func (t *Tree) predict(row []float64) float64 {
	i := int32(0)
	for {
		node := &t.Nodes[i]
		if node.Leaf {
			return node.Value
		}
		if row[node.Feature] <= node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
}

type treeBuilder struct {
	x      [][]float64
	y      []float64
	params ForestParams
	rng    *rand.Rand
	nodes  []Node
}

func (b *treeBuilder) build(idx []int, depth int) int32 {
	at := int32(len(b.nodes))
	b.nodes = append(b.nodes, Node{})

	mean, sse := b.stats(idx)
	if b.isLeaf(idx, depth, sse) {
		b.nodes[at] = Node{Leaf: true, Value: mean}
		return at
	}

	feature, threshold, ok := b.bestSplit(idx, sse)
	if !ok {
		b.nodes[at] = Node{Leaf: true, Value: mean}
		return at
	}

	var left, right []int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	b.nodes[at] = Node{
		Feature:   feature,
		Threshold: threshold,
		Left:      l,
		Right:     r,
		Value:     mean,
	}
	return at
}

func (b *treeBuilder) isLeaf(idx []int, depth int, sse float64) bool {
	if b.params.MaxDepth > 0 && depth >= b.params.MaxDepth {
		return true
	}
	if len(idx) < 2*b.params.MinSamplesLeaf {
		return true
	}
	return sse <= 1e-12
}

func (b *treeBuilder) stats(idx []int) (mean, sse float64) {
	var sum, sq float64
	for _, i := range idx {
		sum += b.y[i]
		sq += b.y[i] * b.y[i]
	}
	n := float64(len(idx))
	mean = sum / n
	return mean, sq - sum*sum/n
}

// bestSplit scans every candidate threshold of the selected features and
// returns the split with the lowest summed squared error.
func (b *treeBuilder) bestSplit(idx []int, parentSSE float64) (feature int, threshold float64, ok bool) {
	best := parentSSE
	sorted := make([]int, len(idx))
	minLeaf := b.params.MinSamplesLeaf

	for _, f := range b.candidateFeatures() {
		copy(sorted, idx)
		sort.Slice(sorted, func(a, c int) bool {
			return b.x[sorted[a]][f] < b.x[sorted[c]][f]
		})

		var totalSum, totalSq float64
		for _, i := range sorted {
			totalSum += b.y[i]
			totalSq += b.y[i] * b.y[i]
		}

		var leftSum, leftSq float64
		n := len(sorted)
		for k := 0; k < n-1; k++ {
			v := b.y[sorted[k]]
			leftSum += v
			leftSq += v * v

			cur, next := b.x[sorted[k]][f], b.x[sorted[k+1]][f]
			if cur == next {
				continue
			}
			nl, nr := k+1, n-k-1
			if nl < minLeaf || nr < minLeaf {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/float64(nl)) + (rightSq - rightSum*rightSum/float64(nr))
			if sse < best-1e-12 {
				best = sse
				feature = f
				threshold = (cur + next) / 2
				ok = true
			}
		}
	}

	return feature, threshold, ok
}

func (b *treeBuilder) candidateFeatures() []int {
	total := len(b.x[0])
	features := make([]int, total)
	for i := range features {
		features[i] = i
	}

	k := b.params.MaxFeatures
	if k <= 0 || k >= total {
		return features
	}

	b.rng.Shuffle(total, func(i, j int) {
		features[i], features[j] = features[j], features[i]
	})
	return features[:k]
}

package digest

import (
	"bytes"
	"crypto/sha256"
	"math/bits"
	"slices"

	"github.com/treefang/mafcheck/internal/bintree"
)

// Tree computes the SHA-256 hash of a tree's canonical newick form. The
// tree's child order is normalized in place first, so structurally identical
// trees hash identically regardless of left/right orientation.
//
// The normalization is a destructive side effect on the tree.
func Tree(tree *bintree.Node) [sha256.Size]byte {
	tree.NormalizeChildOrder()

	return sha256.Sum256([]byte(tree.Newick()))
}

// digestDigests combines per-tree hashes order-invariantly: sort by byte
// value, concatenate, hash the concatenation.
func digestDigests(hashes [][sha256.Size]byte) [sha256.Size]byte {
	slices.SortFunc(hashes, func(a, b [sha256.Size]byte) int {
		return bytes.Compare(a[:], b[:])
	})

	hasher := sha256.New()
	for _, h := range hashes {
		hasher.Write(h[:])
	}

	var combined [sha256.Size]byte

	copy(combined[:], hasher.Sum(nil))

	return combined
}

// Instance fingerprints a host instance. The result is invariant under
// reordering of the trees and under child swaps within each tree. The
// leading byte packs two logarithmic-scale indicators, the approximate tree
// count then the approximate leaf count, followed by the 15 most significant
// bytes of the combined hash.
//
// Normalizes the child order of every tree as a side effect.
func Instance(trees []*bintree.Node, numLeaves uint32) (Digest, error) {
	numTrees := uint32(len(trees))

	hashes := make([][sha256.Size]byte, 0, len(trees))
	for _, t := range trees {
		hashes = append(hashes, Tree(t))
	}

	combined := digestDigests(hashes)

	treeScore := min(saturatingSub(ilog2(numTrees), 1), 0xf)
	leavesScore := min(saturatingSub(ilog2(numLeaves), 3), 0xf)

	var b Builder

	if err := b.PushU4(uint8(treeScore)); err != nil {
		return Digest{}, err
	}

	if err := b.PushU4(uint8(leavesScore)); err != nil {
		return Digest{}, err
	}

	if err := b.PushBytes(combined[:Bytes-1]); err != nil {
		return Digest{}, err
	}

	return b.Build()
}

// Solution fingerprints a candidate solution. The result is invariant under
// reordering of the components, under child swaps, and under the presence of
// single-leaf (isolated) components, which are skipped. Because isolated
// components may be omitted from the input entirely, the solution's full
// component count is passed explicitly as score; it is clamped to 16 bits
// and embedded as the leading two bytes, followed by the 14 most significant
// bytes of the combined hash.
//
// Normalizes the child order of every component as a side effect.
func Solution(trees []*bintree.Node, score uint32) (Digest, error) {
	var hashes [][sha256.Size]byte

	for _, t := range trees {
		if t.IsLeaf() {
			continue
		}

		hashes = append(hashes, Tree(t))
	}

	combined := digestDigests(hashes)

	var b Builder

	if err := b.PushU16(uint16(min(score, 0xffff))); err != nil {
		return Digest{}, err
	}

	if err := b.PushBytes(combined[:Bytes-2]); err != nil {
		return Digest{}, err
	}

	return b.Build()
}

// ilog2 returns floor(log2(v)), or 0 for v == 0.
func ilog2(v uint32) uint32 {
	if v == 0 {
		return 0
	}

	return uint32(bits.Len32(v)) - 1
}

func saturatingSub(a, b uint32) uint32 {
	if a < b {
		return 0
	}

	return a - b
}

package engine

import (
	"math/rand"
	"sort"
	"strings"
)

// PairKey is an unordered pair of national ids, normalized so that
// PairKey{a, b} == PairKey{b, a} compare equal once constructed via
// newPairKey.
type PairKey [2]string

func newPairKey(a, b string) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{a, b}
}

// pairingResult is the outcome of one pairing pass: the ordered list of
// real pairs, plus the id of the player who drew a bye, if any.
type pairingResult struct {
	Pairs [][2]string
	Bye   *string
}

func shuffledCopy(ids []string, rng *rand.Rand) []string {
	cp := make([]string, len(ids))
	copy(cp, ids)
	rng.Shuffle(len(cp), func(i, j int) { cp[i], cp[j] = cp[j], cp[i] })
	return cp
}

// pairFirstRound shuffles the roster and pairs adjacent elements. An
// odd roster leaves the last shuffled element as a bye.
func pairFirstRound(ids []string, rng *rand.Rand) pairingResult {
	pool := shuffledCopy(ids, rng)

	var res pairingResult
	if len(pool)%2 == 1 {
		bye := pool[len(pool)-1]
		pool = pool[:len(pool)-1]
		res.Bye = &bye
	}
	for i := 0; i+1 < len(pool); i += 2 {
		res.Pairs = append(res.Pairs, [2]string{pool[i], pool[i+1]})
	}
	return res
}

// bucketByScoreDesc groups ids by their ledger score, shuffles within
// each bucket, and flattens into score-descending order.
func bucketByScoreDesc(ids []string, scores map[string]float64, rng *rand.Rand) []string {
	buckets := make(map[float64][]string)
	for _, id := range ids {
		s := scores[id]
		buckets[s] = append(buckets[s], id)
	}

	keys := make([]float64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(keys)))

	var sorted []string
	for _, k := range keys {
		bucket := buckets[k]
		rng.Shuffle(len(bucket), func(i, j int) { bucket[i], bucket[j] = bucket[j], bucket[i] })
		sorted = append(sorted, bucket...)
	}
	return sorted
}

// pairSwiss buckets ids by current score (sorted descending, shuffled
// within buckets), assigns a bye to an odd leftover, then walks the
// flattened list pairing each player with the first unused, non-rematch
// successor — relaxing rematch avoidance only if no such successor
// exists.
func pairSwiss(ids []string, scores map[string]float64, pastPairs map[PairKey]struct{}, rng *rand.Rand) pairingResult {
	sorted := bucketByScoreDesc(ids, scores, rng)

	var res pairingResult
	if len(sorted)%2 == 1 {
		bye := sorted[len(sorted)-1]
		sorted = sorted[:len(sorted)-1]
		res.Bye = &bye
	}

	used := make(map[string]bool, len(sorted))
	for i := 0; i < len(sorted); i++ {
		p1 := sorted[i]
		if used[p1] {
			continue
		}

		p2 := findFreshPartner(p1, sorted[i+1:], used, pastPairs)
		if p2 == "" {
			p2 = findAnyPartner(sorted[i+1:], used)
		}
		if p2 == "" {
			continue
		}

		res.Pairs = append(res.Pairs, [2]string{p1, p2})
		used[p1] = true
		used[p2] = true
	}
	return res
}

func findFreshPartner(p1 string, candidates []string, used map[string]bool, pastPairs map[PairKey]struct{}) string {
	for _, p2 := range candidates {
		if used[p2] {
			continue
		}
		if _, played := pastPairs[newPairKey(p1, p2)]; played {
			continue
		}
		return p2
	}
	return ""
}

func findAnyPartner(candidates []string, used map[string]bool) string {
	for _, p2 := range candidates {
		if !used[p2] {
			return p2
		}
	}
	return ""
}

// normalizeLeaders uppercases, trims, and dedupes leader ids while
// preserving first-seen order.
func normalizeLeaders(leaders []string) []string {
	seen := make(map[string]bool, len(leaders))
	out := make([]string, 0, len(leaders))
	for _, raw := range leaders {
		id := strings.ToUpper(strings.TrimSpace(raw))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// pairTiebreak shuffles the (already-normalized) leader ids and pairs
// adjacent elements. Rematch avoidance is disabled: tiebreak pairings
// are never recorded in past_pairs.
func pairTiebreak(leaders []string, rng *rand.Rand) pairingResult {
	pool := shuffledCopy(leaders, rng)

	var res pairingResult
	if len(pool)%2 == 1 {
		bye := pool[len(pool)-1]
		pool = pool[:len(pool)-1]
		res.Bye = &bye
	}
	for i := 0; i+1 < len(pool); i += 2 {
		res.Pairs = append(res.Pairs, [2]string{pool[i], pool[i+1]})
	}
	return res
}

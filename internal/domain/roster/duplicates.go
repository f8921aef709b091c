package roster

import (
	"sort"
	"strings"
)

// DetectDuplicates groups candidates sharing a full name (case-insensitive)
// or an email address. Collisions are transitive: an N-way duplicate yields a
// single cluster, not one per pair. Clusters and their ids are sorted.
func DetectDuplicates(candidates []Candidate) []Cluster {
	uf := newUnionFind(len(candidates))
	firstByKey := map[Match]int{}
	hits := map[Match]bool{}

	for i, c := range candidates {
		for _, key := range matchKeys(c) {
			if j, ok := firstByKey[key]; ok {
				uf.union(i, j)
				hits[key] = true
				continue
			}
			firstByKey[key] = i
		}
	}

	groups := map[int][]int{}
	for i := range candidates {
		root := uf.find(i)
		groups[root] = append(groups[root], i)
	}

	var clusters []Cluster
	for root, members := range groups {
		if len(members) < 2 {
			continue
		}
		cluster := Cluster{}
		for _, i := range members {
			cluster.IDs = append(cluster.IDs, candidates[i].ID)
		}
		for key := range hits {
			if uf.find(firstByKey[key]) == root {
				cluster.Matches = append(cluster.Matches, key)
			}
		}
		sort.Strings(cluster.IDs)
		sort.Slice(cluster.Matches, func(a, b int) bool {
			if cluster.Matches[a].Reason != cluster.Matches[b].Reason {
				return cluster.Matches[a].Reason < cluster.Matches[b].Reason
			}
			return cluster.Matches[a].Value < cluster.Matches[b].Value
		})
		clusters = append(clusters, cluster)
	}
	sort.Slice(clusters, func(a, b int) bool {
		return clusters[a].IDs[0] < clusters[b].IDs[0]
	})
	return clusters
}

func matchKeys(c Candidate) []Match {
	var keys []Match
	first := strings.ToLower(strings.Join(strings.Fields(c.FirstName), " "))
	last := strings.ToLower(strings.Join(strings.Fields(c.LastName), " "))
	if first != "" && last != "" {
		keys = append(keys, Match{Reason: ReasonName, Value: first + " " + last})
	}
	if email := strings.ToLower(strings.TrimSpace(c.Email)); email != "" {
		keys = append(keys, Match{Reason: ReasonEmail, Value: email})
	}
	return keys
}

type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[rb] = ra
	}
}

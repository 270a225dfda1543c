package dedupe

// Partition assigns every record index to exactly one cluster. Clusters are
// ordered by their smallest member and members are sorted ascending.
type Partition struct {
	clusters [][]int
	owner    []int
}

// Len returns the number of clusters.
func (p *Partition) Len() int {
	if p == nil {
		return 0
	}
	return len(p.clusters)
}

// Records returns the number of record indices covered.
func (p *Partition) Records() int {
	if p == nil {
		return 0
	}
	return len(p.owner)
}

// Clusters returns a deep copy of the clusters.
func (p *Partition) Clusters() [][]int {
	if p == nil {
		return nil
	}
	out := make([][]int, len(p.clusters))
	for i, c := range p.clusters {
		out[i] = append([]int(nil), c...)
	}
	return out
}

// Cluster returns a copy of cluster k.
func (p *Partition) Cluster(k int) []int {
	return append([]int(nil), p.clusters[k]...)
}

// ClusterIndex returns the position of record i's cluster.
func (p *Partition) ClusterIndex(i int) int {
	return p.owner[i]
}

// Representative returns the smallest member of record i's cluster.
func (p *Partition) Representative(i int) int {
	return p.clusters[p.owner[i]][0]
}

// Size returns the size of record i's cluster.
func (p *Partition) Size(i int) int {
	return len(p.clusters[p.owner[i]])
}

// unionFind joins record indices; the root of every set is its smallest
// member.
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

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	switch {
	case ra == rb:
		return
	case ra < rb:
		u.parent[rb] = ra
	default:
		u.parent[ra] = rb
	}
}

// partition walks indices in ascending order; the first index seen for a
// root is the root itself, so clusters come out ordered by smallest member.
func (u *unionFind) partition() *Partition {
	n := len(u.parent)
	p := &Partition{owner: make([]int, n)}
	slot := make(map[int]int)
	for i := 0; i < n; i++ {
		root := u.find(i)
		k, ok := slot[root]
		if !ok {
			k = len(p.clusters)
			slot[root] = k
			p.clusters = append(p.clusters, nil)
		}
		p.clusters[k] = append(p.clusters[k], i)
		p.owner[i] = k
	}
	return p
}

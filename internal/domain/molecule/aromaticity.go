package molecule

import (
	"fmt"
	"sort"
)

// ─────────────────────────────────────────────────────────────────────────────
// Kekulization
// ─────────────────────────────────────────────────────────────────────────────

// kekulize rewrites every aromatic bond as single or double so that each
// aromatic atom with a free valence gets exactly one double bond.  It fails
// when an aromatic atom or an explicit ':' bond lies outside a ring, or when no
// such assignment exists.
func (m *Molecule) kekulize() error {
	for i := range m.Bonds {
		b := &m.Bonds[i]
		if b.Order != BondAromatic {
			continue
		}
		if !b.InRing {
			if !b.implied {
				return m.invalid(b.A, "aromatic bond outside a ring")
			}
			// Two aromatic rings joined directly, as in biphenyl.
			b.Order = BondSingle
			continue
		}
		m.Atoms[b.A].Aromatic = true
		m.Atoms[b.B].Aromatic = true
	}

	needs := make([]bool, len(m.Atoms))
	pending := 0
	for i, a := range m.Atoms {
		if !a.Aromatic {
			continue
		}
		if !a.InRing {
			return m.invalid(i, "aromatic atom outside a ring")
		}
		free, err := m.freeValence(i)
		if err != nil {
			return err
		}
		if free > 0 {
			needs[i] = true
			pending++
		}
	}
	if pending == 0 {
		m.clearAromaticBonds(nil)
		return nil
	}

	k := kekuleMatcher{mol: m, needs: needs, mate: make([]int, len(m.Atoms)), double: make([]bool, len(m.Bonds))}
	for i := range k.mate {
		k.mate[i] = -1
	}
	if !k.match() {
		first := 0
		for i, n := range needs {
			if n {
				first = i
				break
			}
		}
		return m.invalid(first, "cannot kekulize aromatic system")
	}
	m.clearAromaticBonds(k.double)
	return nil
}

// freeValence returns how many valence units atom i has left once its aromatic
// bonds count one each.  Bracket atoms also count their explicit hydrogens.
// Elements with no default valence have none to spare.
func (m *Molecule) freeValence(i int) (int, error) {
	a := m.Atoms[i]
	used := m.bondValence(i)
	if a.Bracket {
		used += a.HCount
	}
	vals, ok := defaultValences[a.AtomicNumber-a.Charge]
	if !ok {
		return 0, nil
	}
	for _, v := range vals {
		if v >= used {
			return v - used, nil
		}
	}
	return 0, m.invalid(i, "explicit valence %d exceeds maximum for %s", used, a.Symbol)
}

// clearAromaticBonds turns the remaining aromatic bonds into double bonds
// where double marks them and single bonds elsewhere.
func (m *Molecule) clearAromaticBonds(double []bool) {
	for i := range m.Bonds {
		if m.Bonds[i].Order != BondAromatic {
			continue
		}
		if double != nil && double[i] {
			m.Bonds[i].Order = BondDouble
		} else {
			m.Bonds[i].Order = BondSingle
		}
	}
}

// kekuleMatcher searches for a perfect matching over the atoms that need a
// double bond, using only aromatic bonds between them.
type kekuleMatcher struct {
	mol    *Molecule
	needs  []bool
	mate   []int
	double []bool
}

func (k *kekuleMatcher) candidates(i int) []neighbor {
	var out []neighbor
	for _, n := range k.mol.adjacency[i] {
		if k.needs[n.atom] && k.mate[n.atom] < 0 && k.mol.Bonds[n.bond].Order == BondAromatic {
			out = append(out, n)
		}
	}
	return out
}

// match pairs the most constrained unmatched atom first and backtracks on a
// dead end.
func (k *kekuleMatcher) match() bool {
	best, bestOpts := -1, []neighbor(nil)
	for i, n := range k.needs {
		if !n || k.mate[i] >= 0 {
			continue
		}
		opts := k.candidates(i)
		if len(opts) == 0 {
			return false
		}
		if best < 0 || len(opts) < len(bestOpts) {
			best, bestOpts = i, opts
		}
	}
	if best < 0 {
		return true
	}
	for _, n := range bestOpts {
		k.mate[best], k.mate[n.atom] = n.atom, best
		k.double[n.bond] = true
		if k.match() {
			return true
		}
		k.mate[best], k.mate[n.atom] = -1, -1
		k.double[n.bond] = false
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Aromaticity
// ─────────────────────────────────────────────────────────────────────────────

type ring struct {
	atoms []int
	bonds []int
}

// perceiveAromaticity marks the atoms and bonds of every ring, or fused pair
// of rings, whose π electron count satisfies Hückel's 4n+2 rule.  It runs on
// the Kekulé form with hydrogens assigned, so aromatic and Kekulé spellings of
// one molecule produce the same graph.
func (m *Molecule) perceiveAromaticity() {
	for i := range m.Atoms {
		m.Atoms[i].Aromatic = false
	}
	rings := m.smallestRings()
	if len(rings) == 0 {
		return
	}
	electrons := make([]int, len(m.Atoms))
	for i := range m.Atoms {
		electrons[i] = m.piElectrons(i)
	}
	aromatic := make([]bool, len(rings))
	for r, rg := range rings {
		aromatic[r] = huckel(rg.atoms, electrons)
	}
	for r := range rings {
		for s := r + 1; s < len(rings); s++ {
			if aromatic[r] && aromatic[s] || !sharesBond(rings[r], rings[s]) {
				continue
			}
			if huckel(unionAtoms(rings[r], rings[s]), electrons) {
				aromatic[r], aromatic[s] = true, true
			}
		}
	}
	for r, rg := range rings {
		if !aromatic[r] {
			continue
		}
		for _, a := range rg.atoms {
			m.Atoms[a].Aromatic = true
		}
		for _, b := range rg.bonds {
			m.Bonds[b].Order = BondAromatic
		}
	}
}

func huckel(atoms []int, electrons []int) bool {
	sum := 0
	for _, a := range atoms {
		if electrons[a] < 0 {
			return false
		}
		sum += electrons[a]
	}
	return sum%4 == 2
}

// piElectrons returns what atom i donates to a ring π system, or -1 when it
// cannot take part in one.
func (m *Molecule) piElectrons(i int) int {
	a := m.Atoms[i]
	if !a.InRing {
		return -1
	}
	doubles, ringDouble, exoHetero := 0, false, false
	for _, n := range m.adjacency[i] {
		b := m.Bonds[n.bond]
		switch b.Order {
		case BondSingle:
		case BondDouble:
			doubles++
			if b.InRing {
				ringDouble = true
			} else if z := m.Atoms[n.atom].AtomicNumber; z == 7 || z == 8 || z == 16 {
				exoHetero = true
			}
		default:
			return -1
		}
	}
	switch {
	case doubles > 1:
		return -1
	case ringDouble:
		return 1
	case exoHetero:
		return 0
	case doubles == 1:
		return -1
	}
	total := len(m.adjacency[i]) + a.HCount
	switch eff := a.AtomicNumber - a.Charge; {
	case eff == 5 && total == 3:
		return 0
	case (eff == 7 || eff == 15 || eff == 33) && total == 3:
		return 2
	case (eff == 8 || eff == 16 || eff == 34 || eff == 52) && total == 2:
		return 2
	}
	return -1
}

// smallestRings returns, for every ring bond, the shortest cycle through it,
// with duplicates removed.
func (m *Molecule) smallestRings() []ring {
	var rings []ring
	seen := make(map[string]bool)
	for bi, b := range m.Bonds {
		if !b.InRing {
			continue
		}
		rg, ok := m.shortestCycle(bi)
		if !ok {
			continue
		}
		key := append([]int(nil), rg.bonds...)
		sort.Ints(key)
		k := fmt.Sprint(key)
		if seen[k] {
			continue
		}
		seen[k] = true
		rings = append(rings, rg)
	}
	return rings
}

// shortestCycle runs a breadth-first search between the ends of bond bi over
// the other ring bonds.
func (m *Molecule) shortestCycle(bi int) (ring, bool) {
	start, goal := m.Bonds[bi].A, m.Bonds[bi].B
	via := make([]int, len(m.Atoms))
	for i := range via {
		via[i] = -1
	}
	visited := make([]bool, len(m.Atoms))
	visited[start] = true
	queue := []int{start}
	for len(queue) > 0 && !visited[goal] {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range m.adjacency[cur] {
			if n.bond == bi || visited[n.atom] || !m.Bonds[n.bond].InRing {
				continue
			}
			visited[n.atom] = true
			via[n.atom] = n.bond
			queue = append(queue, n.atom)
		}
	}
	if !visited[goal] {
		return ring{}, false
	}
	rg := ring{bonds: []int{bi}}
	for at := goal; at != start; at = m.Bonds[via[at]].Other(at) {
		rg.atoms = append(rg.atoms, at)
		rg.bonds = append(rg.bonds, via[at])
	}
	rg.atoms = append(rg.atoms, start)
	return rg, true
}

func sharesBond(a, b ring) bool {
	for _, x := range a.bonds {
		for _, y := range b.bonds {
			if x == y {
				return true
			}
		}
	}
	return false
}

func unionAtoms(a, b ring) []int {
	seen := make(map[int]bool, len(a.atoms)+len(b.atoms))
	var out []int
	for _, at := range append(append([]int(nil), a.atoms...), b.atoms...) {
		if !seen[at] {
			seen[at] = true
			out = append(out, at)
		}
	}
	return out
}

//Personal.AI order the ending

// Package molecule parses SMILES into molecular graphs, computes Morgan
// (ECFP-style) fingerprints and compares them by Tanimoto similarity.
package molecule

import "fmt"

// ─────────────────────────────────────────────────────────────────────────────
// Bonds
// ─────────────────────────────────────────────────────────────────────────────

// BondOrder is the multiplicity of a bond.
type BondOrder int

const (
	BondSingle BondOrder = iota + 1
	BondDouble
	BondTriple
	BondQuadruple
	BondAromatic
)

// valence returns the explicit-valence contribution of the bond.  Aromatic
// bonds count as one.
func (o BondOrder) valence() int {
	switch o {
	case BondDouble:
		return 2
	case BondTriple:
		return 3
	case BondQuadruple:
		return 4
	default:
		return 1
	}
}

// code is the stable value fed into environment hashes.
func (o BondOrder) code() uint64 {
	if o == BondAromatic {
		return 12
	}
	return uint64(o)
}

func (o BondOrder) String() string {
	switch o {
	case BondSingle:
		return "single"
	case BondDouble:
		return "double"
	case BondTriple:
		return "triple"
	case BondQuadruple:
		return "quadruple"
	case BondAromatic:
		return "aromatic"
	default:
		return fmt.Sprintf("BondOrder(%d)", int(o))
	}
}

// Bond connects atoms A and B (A < B is not guaranteed).
type Bond struct {
	A, B   int
	Order  BondOrder
	InRing bool

	// implied marks an aromatic bond inferred between two lowercase atoms
	// rather than written as ':'.
	implied bool
}

// Other returns the atom at the opposite end of the bond from atom.
func (b Bond) Other(atom int) int {
	if b.A == atom {
		return b.B
	}
	return b.A
}

// ─────────────────────────────────────────────────────────────────────────────
// Atoms
// ─────────────────────────────────────────────────────────────────────────────

// Atom is a vertex of the molecular graph.
type Atom struct {
	Symbol       string
	AtomicNumber int
	// Aromatic is perceived from the ring system, not copied from the case of
	// the symbol.
	Aromatic bool
	Isotope  int
	Charge   int
	// HCount is the total attached hydrogen count: explicit for bracket atoms,
	// implicit for organic-subset atoms.
	HCount    int
	Bracket   bool
	Chirality string
	Class     int
	InRing    bool
}

type neighbor struct {
	atom int
	bond int
}

// ─────────────────────────────────────────────────────────────────────────────
// Molecule graph
// ─────────────────────────────────────────────────────────────────────────────

// Molecule is an immutable molecular graph produced by ParseSMILES.
type Molecule struct {
	SMILES string
	Atoms  []Atom
	Bonds  []Bond

	adjacency [][]neighbor
}

// NumAtoms returns the number of graph atoms (hydrogens are implicit).
func (m *Molecule) NumAtoms() int { return len(m.Atoms) }

// NumBonds returns the number of bonds.
func (m *Molecule) NumBonds() int { return len(m.Bonds) }

// Degree returns the number of explicit neighbours of atom i.
func (m *Molecule) Degree(i int) int { return len(m.adjacency[i]) }

// Neighbors returns the atom indices bonded to atom i in bond insertion order.
func (m *Molecule) Neighbors(i int) []int {
	out := make([]int, len(m.adjacency[i]))
	for k, n := range m.adjacency[i] {
		out[k] = n.atom
	}
	return out
}

// BondBetween returns the bond joining a and b.
func (m *Molecule) BondBetween(a, b int) (Bond, bool) {
	for _, n := range m.adjacency[a] {
		if n.atom == b {
			return m.Bonds[n.bond], true
		}
	}
	return Bond{}, false
}

// RingBondCount returns the number of bonds that belong to at least one ring.
func (m *Molecule) RingBondCount() int {
	n := 0
	for _, b := range m.Bonds {
		if b.InRing {
			n++
		}
	}
	return n
}

// FragmentCount returns the number of connected components.
func (m *Molecule) FragmentCount() int {
	seen := make([]bool, len(m.Atoms))
	count := 0
	stack := make([]int, 0, len(m.Atoms))
	for start := range m.Atoms {
		if seen[start] {
			continue
		}
		count++
		seen[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, n := range m.adjacency[cur] {
				if !seen[n.atom] {
					seen[n.atom] = true
					stack = append(stack, n.atom)
				}
			}
		}
	}
	return count
}

func (m *Molecule) buildAdjacency() {
	m.adjacency = make([][]neighbor, len(m.Atoms))
	for bi, b := range m.Bonds {
		m.adjacency[b.A] = append(m.adjacency[b.A], neighbor{atom: b.B, bond: bi})
		m.adjacency[b.B] = append(m.adjacency[b.B], neighbor{atom: b.A, bond: bi})
	}
}

// perceiveRings marks every bond that is not a bridge, and every atom touching
// such a bond, as in-ring (Tarjan bridge finding, iterative).
func (m *Molecule) perceiveRings() {
	n := len(m.Atoms)
	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}
	bridge := make([]bool, len(m.Bonds))

	type frame struct {
		atom, parentBond, next int
	}
	timer := 0
	for root := 0; root < n; root++ {
		if disc[root] >= 0 {
			continue
		}
		stack := []frame{{atom: root, parentBond: -1}}
		disc[root], low[root] = timer, timer
		timer++
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(m.adjacency[top.atom]) {
				nb := m.adjacency[top.atom][top.next]
				top.next++
				if nb.bond == top.parentBond {
					continue
				}
				if disc[nb.atom] < 0 {
					disc[nb.atom], low[nb.atom] = timer, timer
					timer++
					stack = append(stack, frame{atom: nb.atom, parentBond: nb.bond})
				} else if disc[nb.atom] < low[top.atom] {
					low[top.atom] = disc[nb.atom]
				}
				continue
			}
			done := *top
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				continue
			}
			parent := stack[len(stack)-1].atom
			if low[done.atom] < low[parent] {
				low[parent] = low[done.atom]
			}
			if low[done.atom] > disc[parent] {
				bridge[done.parentBond] = true
			}
		}
	}

	for bi := range m.Bonds {
		if bridge[bi] {
			continue
		}
		m.Bonds[bi].InRing = true
		m.Atoms[m.Bonds[bi].A].InRing = true
		m.Atoms[m.Bonds[bi].B].InRing = true
	}
}

//Personal.AI order the ending

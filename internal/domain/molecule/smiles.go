package molecule

import (
	"fmt"
	"strings"

	"github.com/turtacn/SimilACTrail/pkg/errors"
)

// ParseSMILES parses a SMILES string into a Molecule.  The returned error is
// an *errors.AppError with code MOL_001 whose detail names the offending
// position.
func ParseSMILES(smiles string) (*Molecule, error) {
	s := strings.TrimSpace(smiles)
	if s == "" {
		return nil, errors.New(errors.ErrCodeMoleculeInvalidSMILES, "empty SMILES")
	}
	p := &smilesParser{
		src:   s,
		prev:  -1,
		rings: make(map[int]ringOpening),
		pairs: make(map[[2]int]bool),
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	mol := &Molecule{SMILES: s, Atoms: p.atoms, Bonds: p.bonds}
	mol.buildAdjacency()
	mol.perceiveRings()
	if err := mol.kekulize(); err != nil {
		return nil, err
	}
	if err := mol.assignHydrogens(); err != nil {
		return nil, err
	}
	mol.perceiveAromaticity()
	return mol, nil
}

// IsValidSMILES reports whether smiles parses into a valid molecular graph.
func IsValidSMILES(smiles string) bool {
	_, err := ParseSMILES(smiles)
	return err == nil
}

type ringOpening struct {
	atom  int
	order BondOrder // 0 when no bond symbol preceded the digit
	pos   int
}

type smilesParser struct {
	src     string
	pos     int
	atoms   []Atom
	bonds   []Bond
	prev    int
	pending BondOrder
	branch  []int
	rings   map[int]ringOpening
	pairs   map[[2]int]bool
}

func (p *smilesParser) fail(pos int, format string, args ...interface{}) error {
	return errors.New(errors.ErrCodeMoleculeInvalidSMILES, fmt.Sprintf(format, args...)).
		WithDetail(fmt.Sprintf("smiles=%q position=%d", p.src, pos))
}

func (p *smilesParser) parse() error {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return p.fail(p.pos, "branch opened without a preceding atom")
			}
			if p.pending != 0 {
				return p.fail(p.pos, "bond symbol before branch")
			}
			p.branch = append(p.branch, p.prev)
			p.pos++
		case c == ')':
			if len(p.branch) == 0 {
				return p.fail(p.pos, "unbalanced ')'")
			}
			if p.pending != 0 {
				return p.fail(p.pos, "dangling bond at end of branch")
			}
			p.prev = p.branch[len(p.branch)-1]
			p.branch = p.branch[:len(p.branch)-1]
			p.pos++
		case isBondSymbol(c):
			if p.prev < 0 {
				return p.fail(p.pos, "bond %q without a preceding atom", c)
			}
			if p.pending != 0 {
				return p.fail(p.pos, "consecutive bond symbols")
			}
			p.pending = bondOrderFor(c)
			p.pos++
		case c == '.':
			if p.prev < 0 || p.pending != 0 {
				return p.fail(p.pos, "misplaced '.'")
			}
			p.prev = -1
			p.pos++
		case c == '%' || (c >= '0' && c <= '9'):
			if err := p.ringClosure(); err != nil {
				return err
			}
		case c == '[':
			atom, err := p.bracketAtom()
			if err != nil {
				return err
			}
			if err := p.addAtom(atom); err != nil {
				return err
			}
		default:
			atom, err := p.organicAtom()
			if err != nil {
				return err
			}
			if err := p.addAtom(atom); err != nil {
				return err
			}
		}
	}

	if p.pending != 0 {
		return p.fail(len(p.src), "dangling bond at end of input")
	}
	if len(p.branch) > 0 {
		return p.fail(len(p.src), "unbalanced '('")
	}
	if len(p.rings) > 0 {
		first, firstNum := len(p.src), 0
		for num, open := range p.rings {
			if open.pos < first {
				first, firstNum = open.pos, num
			}
		}
		return p.fail(first, "ring closure %d never closed", firstNum)
	}
	if p.prev < 0 {
		return p.fail(len(p.src), "input ends with '.'")
	}
	return nil
}

func isBondSymbol(c byte) bool {
	switch c {
	case '-', '=', '#', '$', ':', '/', '\\':
		return true
	}
	return false
}

func bondOrderFor(c byte) BondOrder {
	switch c {
	case '=':
		return BondDouble
	case '#':
		return BondTriple
	case '$':
		return BondQuadruple
	case ':':
		return BondAromatic
	default:
		return BondSingle
	}
}

func (p *smilesParser) addAtom(atom Atom) error {
	idx := len(p.atoms)
	p.atoms = append(p.atoms, atom)
	if p.prev >= 0 {
		if err := p.addBond(p.prev, idx, p.pending, p.pos); err != nil {
			return err
		}
	}
	p.pending = 0
	p.prev = idx
	return nil
}

func (p *smilesParser) addBond(a, b int, order BondOrder, pos int) error {
	if a == b {
		return p.fail(pos, "atom bonded to itself")
	}
	key := [2]int{a, b}
	if a > b {
		key = [2]int{b, a}
	}
	if p.pairs[key] {
		return p.fail(pos, "duplicate bond between atoms %d and %d", a, b)
	}
	bond := Bond{A: a, B: b, Order: order}
	if order == 0 {
		bond.Order = BondSingle
		if p.atoms[a].Aromatic && p.atoms[b].Aromatic {
			bond.Order, bond.implied = BondAromatic, true
		}
	}
	p.pairs[key] = true
	p.bonds = append(p.bonds, bond)
	return nil
}

func (p *smilesParser) ringClosure() error {
	start := p.pos
	if p.prev < 0 {
		return p.fail(start, "ring closure without a preceding atom")
	}
	var num int
	if p.src[p.pos] == '%' {
		if !isDigit(p.src, p.pos+1) || !isDigit(p.src, p.pos+2) {
			return p.fail(start, "'%%' must be followed by two digits")
		}
		num = int(p.src[p.pos+1]-'0')*10 + int(p.src[p.pos+2]-'0')
		p.pos += 3
	} else {
		num = int(p.src[p.pos] - '0')
		p.pos++
	}

	open, exists := p.rings[num]
	if !exists {
		p.rings[num] = ringOpening{atom: p.prev, order: p.pending, pos: start}
		p.pending = 0
		return nil
	}
	delete(p.rings, num)

	order := p.pending
	switch {
	case order == 0:
		order = open.order
	case open.order != 0 && open.order != order:
		return p.fail(start, "conflicting bond symbols on ring closure %d", num)
	}
	p.pending = 0
	return p.addBond(open.atom, p.prev, order, start)
}

func isDigit(s string, i int) bool {
	return i >= 0 && i < len(s) && s[i] >= '0' && s[i] <= '9'
}

func (p *smilesParser) organicAtom() (Atom, error) {
	start := p.pos
	c := p.src[p.pos]
	var symbol string
	aromatic := false
	switch c {
	case 'B':
		symbol = "B"
		if p.pos+1 < len(p.src) && p.src[p.pos+1] == 'r' {
			symbol = "Br"
		}
	case 'C':
		symbol = "C"
		if p.pos+1 < len(p.src) && p.src[p.pos+1] == 'l' {
			symbol = "Cl"
		}
	case 'N', 'O', 'P', 'S', 'F', 'I':
		symbol = string(c)
	case 'b', 'c', 'n', 'o', 'p', 's':
		symbol = strings.ToUpper(string(c))
		aromatic = true
	case '*':
		p.pos++
		return Atom{Symbol: "*"}, nil
	default:
		return Atom{}, p.fail(start, "unexpected character %q", c)
	}
	p.pos += len(symbol)
	z, _ := AtomicNumber(symbol)
	return Atom{Symbol: symbol, AtomicNumber: z, Aromatic: aromatic}, nil
}

func (p *smilesParser) bracketAtom() (Atom, error) {
	start := p.pos
	p.pos++ // '['
	atom := Atom{Bracket: true}

	for p.pos < len(p.src) && isDigit(p.src, p.pos) {
		atom.Isotope = atom.Isotope*10 + int(p.src[p.pos]-'0')
		p.pos++
	}

	if err := p.bracketSymbol(&atom, start); err != nil {
		return Atom{}, err
	}

	if p.pos < len(p.src) && p.src[p.pos] == '@' {
		cs := p.pos
		p.pos++
		if p.pos < len(p.src) && p.src[p.pos] == '@' {
			p.pos++
		} else {
			for _, class := range []string{"TH", "AL", "SP", "TB", "OH"} {
				if strings.HasPrefix(p.src[p.pos:], class) {
					p.pos += len(class)
					for isDigit(p.src, p.pos) {
						p.pos++
					}
					break
				}
			}
		}
		atom.Chirality = p.src[cs:p.pos]
	}

	if p.pos < len(p.src) && p.src[p.pos] == 'H' {
		p.pos++
		atom.HCount = 1
		if isDigit(p.src, p.pos) {
			atom.HCount = int(p.src[p.pos] - '0')
			p.pos++
		}
	}

	if p.pos < len(p.src) && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
		sign := 1
		if p.src[p.pos] == '-' {
			sign = -1
		}
		sym := p.src[p.pos]
		p.pos++
		magnitude := 1
		if isDigit(p.src, p.pos) {
			magnitude = 0
			for isDigit(p.src, p.pos) {
				magnitude = magnitude*10 + int(p.src[p.pos]-'0')
				p.pos++
			}
		} else {
			for p.pos < len(p.src) && p.src[p.pos] == sym {
				magnitude++
				p.pos++
			}
		}
		atom.Charge = sign * magnitude
	}

	if p.pos < len(p.src) && p.src[p.pos] == ':' {
		p.pos++
		if !isDigit(p.src, p.pos) {
			return Atom{}, p.fail(p.pos, "atom class must be numeric")
		}
		for isDigit(p.src, p.pos) {
			atom.Class = atom.Class*10 + int(p.src[p.pos]-'0')
			p.pos++
		}
	}

	if p.pos >= len(p.src) || p.src[p.pos] != ']' {
		return Atom{}, p.fail(start, "unterminated bracket atom")
	}
	p.pos++
	return atom, nil
}

func (p *smilesParser) bracketSymbol(atom *Atom, start int) error {
	rest := p.src[p.pos:]
	if rest == "" {
		return p.fail(start, "unterminated bracket atom")
	}
	if rest[0] == '*' {
		atom.Symbol = "*"
		p.pos++
		return nil
	}
	if rest[0] >= 'a' && rest[0] <= 'z' {
		for _, n := range []int{2, 1} {
			if len(rest) >= n && aromaticBracketSymbols[rest[:n]] {
				sym := strings.ToUpper(rest[:1]) + rest[1:n]
				atom.Symbol = sym
				atom.AtomicNumber, _ = AtomicNumber(sym)
				atom.Aromatic = true
				p.pos += n
				return nil
			}
		}
		return p.fail(p.pos, "unknown aromatic symbol in bracket atom")
	}
	if rest[0] >= 'A' && rest[0] <= 'Z' {
		if len(rest) >= 2 && rest[1] >= 'a' && rest[1] <= 'z' {
			if z, ok := AtomicNumber(rest[:2]); ok {
				atom.Symbol, atom.AtomicNumber = rest[:2], z
				p.pos += 2
				return nil
			}
		}
		if z, ok := AtomicNumber(rest[:1]); ok {
			atom.Symbol, atom.AtomicNumber = rest[:1], z
			p.pos++
			return nil
		}
	}
	return p.fail(p.pos, "unknown element symbol in bracket atom")
}

// assignHydrogens fills HCount for organic-subset atoms from the smallest
// allowed valence that accommodates the explicit bonds.  It runs on the
// Kekulé form, so every bond has an integral order.
func (m *Molecule) assignHydrogens() error {
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Bracket || a.Symbol == "*" {
			continue
		}
		used := m.bondValence(i)
		h := -1
		for _, v := range defaultValences[a.AtomicNumber] {
			if v >= used {
				h = v - used
				break
			}
		}
		if h < 0 {
			return m.invalid(i, "explicit valence %d exceeds maximum for %s", used, a.Symbol)
		}
		a.HCount = h
	}
	return nil
}

func (m *Molecule) bondValence(i int) int {
	used := 0
	for _, n := range m.adjacency[i] {
		used += m.Bonds[n.bond].Order.valence()
	}
	return used
}

func (m *Molecule) invalid(atom int, format string, args ...interface{}) error {
	return errors.New(errors.ErrCodeMoleculeInvalidSMILES, fmt.Sprintf(format, args...)).
		WithDetail(fmt.Sprintf("smiles=%q atom=%d", m.SMILES, atom))
}

//Personal.AI order the ending

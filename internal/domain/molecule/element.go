package molecule

// elementSymbols is indexed by atomic number; index 0 is the wildcard atom.
var elementSymbols = [...]string{
	"*",
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba",
	"La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu",
	"Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra",
	"Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm", "Md", "No", "Lr",
	"Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds", "Rg", "Cn",
	"Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

var atomicNumbers = func() map[string]int {
	m := make(map[string]int, len(elementSymbols))
	for z, sym := range elementSymbols {
		m[sym] = z
	}
	return m
}()

// defaultValences lists allowed valences by atomic number, ascending.  Every
// organic-subset element is present; Se, As and Te only appear as aromatic
// bracket atoms.  A charged atom uses the entry of its isoelectronic neutral
// (atomic number minus charge), so N+ takes C's valence.
var defaultValences = map[int][]int{
	5:  {3},       // B
	6:  {4},       // C
	7:  {3},       // N
	8:  {2},       // O
	9:  {1},       // F
	15: {3, 5},    // P
	16: {2, 4, 6}, // S
	17: {1},       // Cl
	33: {3, 5},    // As
	34: {2, 4, 6}, // Se
	35: {1},       // Br
	52: {2, 4, 6}, // Te
	53: {1},       // I
}

// aromaticBracketSymbols are the lowercase symbols accepted inside brackets.
var aromaticBracketSymbols = map[string]bool{
	"b": true, "c": true, "n": true, "o": true, "p": true, "s": true,
	"se": true, "as": true, "te": true,
}

// AtomicNumber returns the atomic number for a capitalised element symbol.
func AtomicNumber(symbol string) (int, bool) {
	z, ok := atomicNumbers[symbol]
	return z, ok
}

// ElementSymbol returns the symbol for atomic number z, or "" when out of range.
func ElementSymbol(z int) string {
	if z < 0 || z >= len(elementSymbols) {
		return ""
	}
	return elementSymbols[z]
}

//Personal.AI order the ending

package isa

import (
	"iter"

	"github.com/ezrec/isaspec/internal"
)

// EncodeMap maps a field to the encoder source expression that produces it.
type EncodeMap struct {
	Name  string
	Expr  string
	Force bool
}

// EncodeMeta holds encoder hints for a bitset hierarchy.
type EncodeMeta struct {
	Type       string // Encoder source value type.
	CasePrefix string // Prefix of the opcode case selector.
	Maps       []EncodeMap
}

// Map looks up the encoder expression for a field.
func (em *EncodeMeta) Map(name string) (mapping EncodeMap, ok bool) {
	for _, mapping = range em.Maps {
		if mapping.Name == name {
			ok = true
			return
		}
	}
	mapping = EncodeMap{}
	return
}

// BitSet is a named encoding rule. A root declares Size; a derivation
// names the bitset it Extends and inherits its size.
type BitSet struct {
	Name    string
	Size    int    // Root only.
	Extends string // Derivation only.
	Cases   []*Case
	Encode  *EncodeMeta
	GenMin  string // Generation window lower bound, as written.
	GenMax  string // Generation window upper bound, as written; empty is unbounded.
	File    string
	LineNo  int

	own Pattern
	isa *Registry
}

// IsRoot reports whether the bitset declares its own size.
func (bs *BitSet) IsRoot() bool {
	return bs.Extends == ""
}

// CName is the identifier a generator uses for the bitset.
func (bs *BitSet) CName() string {
	return cName(bs.Name)
}

// Own returns the pattern declared directly by this bitset, excluding
// its ancestors.
func (bs *BitSet) Own() Pattern {
	return bs.own
}

// Default returns the unguarded case.
func (bs *BitSet) Default() *Case {
	return bs.Cases[len(bs.Cases)-1]
}

// Overrides returns the guarded cases, in precedence order.
func (bs *BitSet) Overrides() []*Case {
	return bs.Cases[:len(bs.Cases)-1]
}

// Fields iterates over the fields of every case, overrides first.
func (bs *BitSet) Fields() iter.Seq2[string, *Field] {
	var seqs []iter.Seq2[string, *Field]
	for _, cs := range bs.Cases {
		seqs = append(seqs, cs.Fields())
	}
	return internal.IterSeq2Concat(seqs...)
}

// Chain returns the bitset followed by each ancestor, ending at the root.
func (bs *BitSet) Chain() (chain []*BitSet, err error) {
	seen := map[string]bool{}
	for at := bs; ; {
		if seen[at.Name] {
			names := make([]string, 0, len(chain)+1)
			for _, link := range chain {
				names = append(names, link.Name)
			}
			names = append(names, at.Name)
			err = &ErrCycle{Kind: f("extends"), Chain: names}
			chain = nil
			return
		}
		seen[at.Name] = true
		chain = append(chain, at)

		if at.IsRoot() {
			return
		}

		parent, ok := bs.isa.bitsets.Get(at.Extends)
		if !ok {
			err = &ErrExtends{BitSet: at.Name, Extends: at.Extends}
			chain = nil
			return
		}
		at = parent
	}
}

// Root returns the root of the bitset's extends chain.
func (bs *BitSet) Root() (root *BitSet, err error) {
	chain, err := bs.Chain()
	if err != nil {
		return
	}
	root = chain[len(chain)-1]
	return
}

// BitSize returns the size declared by the bitset's root.
func (bs *BitSet) BitSize() (size int, err error) {
	root, err := bs.Root()
	if err != nil {
		return
	}
	size = root.Size
	return
}

// Pattern returns the bitset pattern merged with those of all its
// ancestors. A derivation that redefines an ancestor's bits is an error.
func (bs *BitSet) Pattern() (pat Pattern, err error) {
	chain, err := bs.Chain()
	if err != nil {
		return
	}

	pat = chain[len(chain)-1].own
	for n := len(chain) - 2; n >= 0; n-- {
		child := chain[n]
		conflict := pat.DefinedBits().And(child.own.DefinedBits())
		if !conflict.IsZero() {
			owner := chain[n+1]
			for _, ancestor := range chain[n+1:] {
				if ancestor.own.DefinedBits().Overlaps(conflict) {
					owner = ancestor
					break
				}
			}
			err = &ErrBitsetConflict{BitSet: child.Name, Extends: owner.Name, Bits: conflict}
			pat = Pattern{}
			return
		}
		pat = child.own.Merge(pat)
	}

	return
}

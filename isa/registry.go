package isa

import (
	"fmt"
	"iter"
	"slices"

	"github.com/ezrec/isaspec/internal"
)

// Registry is a compiled and validated instruction set description.
// It is read-only once returned by Compiler.Compile.
type Registry struct {
	expressions internal.Table[*Expression]
	enums       internal.Table[*Enum]
	bitsets     internal.Table[*BitSet]
	roots       internal.Table[*BitSet]
	leafs       internal.Table[*BitSet]
	maxBitWidth int
	anonCount   int
	files       []string
}

func newRegistry() *Registry {
	return &Registry{}
}

// Files returns the documents that were read, in parse order.
func (isa *Registry) Files() []string {
	return append([]string(nil), isa.files...)
}

// MaxBitWidth is the largest root bitset size.
func (isa *Registry) MaxBitWidth() int {
	return isa.maxBitWidth
}

// Expression looks up an expression by name.
func (isa *Registry) Expression(name string) (*Expression, bool) {
	return isa.expressions.Get(name)
}

// Enum looks up an enum by name.
func (isa *Registry) Enum(name string) (*Enum, bool) {
	return isa.enums.Get(name)
}

// BitSet looks up a bitset by name.
func (isa *Registry) BitSet(name string) (*BitSet, bool) {
	return isa.bitsets.Get(name)
}

// Expressions iterates over all expressions in declaration order.
func (isa *Registry) Expressions() iter.Seq2[string, *Expression] {
	return isa.expressions.All()
}

// Enums iterates over all enums in declaration order.
func (isa *Registry) Enums() iter.Seq2[string, *Enum] {
	return isa.enums.All()
}

// BitSets iterates over all bitsets in declaration order.
func (isa *Registry) BitSets() iter.Seq2[string, *BitSet] {
	return isa.bitsets.All()
}

// Roots iterates over the bitsets that declare a size.
func (isa *Registry) Roots() iter.Seq2[string, *BitSet] {
	return isa.roots.All()
}

// Leafs iterates over the bitsets that no other bitset extends.
func (isa *Registry) Leafs() iter.Seq2[string, *BitSet] {
	return isa.leafs.All()
}

// IsLeaf reports whether the named bitset is a leaf.
func (isa *Registry) IsLeaf(name string) bool {
	return isa.leafs.Has(name)
}

// Cases iterates over the cases of every bitset, in declaration order.
func (isa *Registry) Cases() iter.Seq[*Case] {
	var seqs []iter.Seq[*Case]
	for _, bs := range isa.bitsets.All() {
		seqs = append(seqs, slices.Values(bs.Cases))
	}
	return internal.IterSeqConcat(seqs...)
}

// Summary is a one-line description of the registry contents.
func (isa *Registry) Summary() string {
	return fmt.Sprintf("%d files, %d expressions, %d enums, %d bitsets (%d roots, %d leafs), %d bits max",
		len(isa.files), isa.expressions.Len(), isa.enums.Len(), isa.bitsets.Len(),
		isa.roots.Len(), isa.leafs.Len(), isa.maxBitWidth)
}

func (isa *Registry) addExpression(expr *Expression) (err error) {
	if isa.expressions.Has(expr.Name) {
		err = &ErrDuplicate{Kind: f("expression"), Name: expr.Name}
		return
	}
	isa.expressions.Set(expr.Name, expr)
	return
}

func (isa *Registry) addEnum(en *Enum) (err error) {
	if isa.enums.Has(en.Name) {
		err = &ErrDuplicate{Kind: f("enum"), Name: en.Name}
		return
	}
	isa.enums.Set(en.Name, en)
	return
}

func (isa *Registry) addBitSet(bs *BitSet) (err error) {
	if isa.bitsets.Has(bs.Name) {
		err = &ErrDuplicate{Kind: f("bitset"), Name: bs.Name}
		return
	}
	bs.isa = isa
	isa.bitsets.Set(bs.Name, bs)
	isa.leafs.Set(bs.Name, bs)
	if bs.IsRoot() {
		isa.roots.Set(bs.Name, bs)
		isa.maxBitWidth = max(isa.maxBitWidth, bs.Size)
	}
	return
}

// pruneLeafs removes every bitset that something else extends.
func (isa *Registry) pruneLeafs() {
	for _, bs := range isa.bitsets.All() {
		if !bs.IsRoot() {
			isa.leafs.Delete(bs.Extends)
		}
	}
}

// Package isa compiles instruction set bitset descriptions.
//
// A description declares bitsets: named rules that give meaning to the
// bits of an instruction word. A root bitset declares its size; a derived
// bitset extends another and inherits it. Each bitset has a default case
// and optional override cases, each a set of positioned, derived and
// assert fields, plus literal patterns that pin bits to 0, 1 or x.
//
// Compiling checks that every field fits its bitset and has a resolvable
// type, that no bit is defined twice within a case or across an extends
// chain, and that every leaf bitset defines every one of its bits. The
// resulting Registry is the input of encoder and decoder generators.
package isa

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"

	"golang.org/x/text/language"

	"github.com/ezrec/isaspec/isa"
	"github.com/ezrec/isaspec/translate"
)

func main() {
	var verbose bool
	var dump bool
	var summary bool
	var checkExpr bool
	var lang string

	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&dump, "dump", false, "Dump the compiled registry")
	flag.BoolVar(&summary, "summary", false, "Print a summary of the compiled registry")
	flag.BoolVar(&checkExpr, "check-expr", false, "Check the syntax of every expression")
	flag.StringVar(&lang, "lang", "", "Message language (default from the system locale)")

	flag.Parse()

	if len(lang) != 0 {
		tag, err := language.Parse(lang)
		if err != nil {
			log.Fatalf("%v: %v", lang, err)
		}
		translate.SetLanguage(tag)
	}

	if flag.NArg() == 0 {
		log.Fatalf("%v: No specification files", os.Args[0])
	}

	cc := &isa.Compiler{
		Verbose:          verbose,
		CheckExpressions: checkExpr,
	}

	reg, err := cc.Compile(flag.Args()...)
	if err != nil {
		log.Fatal(err)
	}

	if summary {
		fmt.Println(reg.Summary())
		overrides := 0
		for cs := range reg.Cases() {
			if !cs.IsDefault() {
				overrides++
			}
		}
		fmt.Printf("%d override cases\n", overrides)
		for name, bs := range reg.Leafs() {
			pat, err := bs.Pattern()
			if err != nil {
				log.Fatalf("%v: %v", name, err)
			}
			fmt.Printf("%v: match %v mask %v dontcare %v\n", name, pat.Match, pat.Mask, pat.DontCare)
		}
	}

	if dump {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		cfg.Dump(reg)
	}
}

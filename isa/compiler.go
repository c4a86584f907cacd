// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/ezrec/isaspec/document"
)

// Compiler turns specification documents into a validated Registry.
type Compiler struct {
	Verbose          bool        // If set, verbosely logs the compiler actions.
	Logger           *log.Logger // Verbose log destination; log.Default() if nil.
	FS               fs.FS       // Document source; the host file system if nil.
	CheckExpressions bool        // If set, every expression must parse.
}

// osFS opens slash-separated paths directly on the host file system,
// permitting absolute and parent-relative imports.
type osFS struct{}

func (osFS) Open(name string) (fs.File, error) {
	return os.Open(filepath.FromSlash(name))
}

func (cc *Compiler) logf(format string, args ...any) {
	if !cc.Verbose {
		return
	}
	if cc.Logger != nil {
		cc.Logger.Printf(format, args...)
	} else {
		log.Printf(format, args...)
	}
}

// Compile parses every named document, following imports, and validates
// the result. Either a fully validated Registry or an error is returned.
func (cc *Compiler) Compile(names ...string) (isa *Registry, err error) {
	fsys := cc.FS
	if fsys == nil {
		fsys = osFS{}
	}

	ld := &loader{
		cc:     cc,
		isa:    newRegistry(),
		fsys:   fsys,
		loaded: map[string]bool{},
	}

	for _, name := range names {
		err = ld.parseFile(filepath.ToSlash(name))
		if err != nil {
			return
		}
	}

	ld.isa.pruneLeafs()

	err = ld.isa.validate(cc)
	if err != nil {
		return
	}

	isa = ld.isa
	cc.logf("isa: %v", isa.Summary())

	return
}

// loader holds the state of one compilation's document walk.
type loader struct {
	cc      *Compiler
	isa     *Registry
	fsys    fs.FS
	loaded  map[string]bool
	loading []string
}

// parseFile reads one document, after first reading everything it imports.
func (ld *loader) parseFile(name string) (err error) {
	name = path.Clean(name)

	if n := slices.Index(ld.loading, name); n >= 0 {
		err = &ErrCycle{Kind: f("import"), Chain: append(slices.Clone(ld.loading[n:]), name)}
		return
	}

	if ld.loaded[name] {
		ld.cc.logf("isa: %v: already parsed", name)
		return
	}
	ld.loaded[name] = true

	ld.loading = append(ld.loading, name)
	defer func() {
		ld.loading = ld.loading[:len(ld.loading)-1]
		if err != nil {
			err = locate(name, err)
		}
	}()

	ld.cc.logf("isa: %v: parsing", name)

	file, err := ld.fsys.Open(name)
	if err != nil {
		return
	}
	defer file.Close()

	root, err := document.Parse(file)
	if err != nil {
		return
	}

	err = ld.parseDocument(name, root)
	if err != nil {
		return
	}

	ld.isa.files = append(ld.isa.files, name)

	return
}

// locate attaches a file name to an error, unless it already has one.
func locate(file string, err error) error {
	var doc *ErrDocument
	if errors.As(err, &doc) {
		if doc.File == "" {
			doc.File = file
		}
		return err
	}
	return &ErrDocument{File: file, Err: err}
}

// located attaches an element's line to an error, unless a line within
// the same document is already attached.
func located(node *document.Node, err error) error {
	if err == nil {
		return nil
	}
	var doc *ErrDocument
	if errors.As(err, &doc) && doc.File == "" {
		return err
	}
	return &ErrDocument{LineNo: node.Line, Err: err}
}

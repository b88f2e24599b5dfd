// Package wlib implements spec §6.3: the persisted, compiled-library format
// a `--library` flag or manifest path dependency points at. A .wlib file is
// the field-by-field stable serialization of a library's resolved HLIR
// files plus the arena slice covering that library's namespace; a consumer
// loads it, merges the arena slice into its own arena, and resolves against
// the HLIR files directly rather than re-parsing and re-resolving source.
//
// Grounded on the teacher's own content-addressed artifact storage (cache
// entries keyed by a digest of their contents, via
// github.com/opencontainers/go-digest) and on encoding/gob for the
// serialization itself, since every hlir/arena type reachable from a
// library export is built from plain exported structs, slices, maps and
// primitives.
package wlib

import (
	"bytes"
	"encoding/gob"
	"io"
	"os"

	digest "github.com/opencontainers/go-digest"
	"github.com/pkg/errors"

	"github.com/wiz-lang/wizc/arena"
	"github.com/wiz-lang/wizc/errdefs"
	"github.com/wiz-lang/wizc/hlir"
)

// magic tags the start of every .wlib file so Load can fail fast on a file
// that is not one, instead of surfacing an opaque gob decode error.
const magic = "wlib\x00"

// formatVersion is bumped whenever the on-disk shape changes incompatibly.
const formatVersion = 1

// FunctionInfo.Body holds an interface{} (nil, or *hlir.Block once a
// function's body has been resolved); gob needs the concrete type
// registered before it can encode or decode through that interface.
func init() {
	gob.Register(&hlir.Block{})
}

// Library is the decoded contents of one .wlib file.
type Library struct {
	Name     string
	Digest   digest.Digest
	Files    []*hlir.File
	Snapshot *arena.Snapshot
}

// payload is the gob-encoded envelope; Library.Digest is derived from it
// rather than stored inside it, so the digest always reflects the bytes
// actually written.
type payload struct {
	Version  int
	Name     string
	Files    []*hlir.File
	Snapshot *arena.Snapshot
}

// Save serializes name's resolved files and the arena slice rooted at
// namespace into path, overwriting any existing file.
func Save(path string, name string, files []*hlir.File, a *arena.Arena, namespace arena.DeclarationId) (digest.Digest, error) {
	snap, err := a.Export(namespace)
	if err != nil {
		return "", errors.Wrap(err, "wlib: export namespace")
	}

	var body bytes.Buffer
	if err := gob.NewEncoder(&body).Encode(payload{
		Version:  formatVersion,
		Name:     name,
		Files:    files,
		Snapshot: snap,
	}); err != nil {
		return "", errors.Wrap(err, "wlib: encode")
	}
	dgst := digest.FromBytes(body.Bytes())

	f, err := os.Create(path)
	if err != nil {
		return "", errdefs.WithIOError(path, err)
	}
	defer f.Close()

	if _, err := io.WriteString(f, magic); err != nil {
		return "", errdefs.WithIOError(path, err)
	}
	if _, err := io.WriteString(f, dgst.String()+"\n"); err != nil {
		return "", errdefs.WithIOError(path, err)
	}
	if _, err := f.Write(body.Bytes()); err != nil {
		return "", errdefs.WithIOError(path, err)
	}
	return dgst, nil
}

// Load reads and decodes a .wlib file, verifying its stored digest against
// its actual contents before decoding the payload.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errdefs.WithIOError(path, err)
	}
	return Parse(path, data)
}

// Parse decodes .wlib bytes already read into memory. path is used only to
// shape error messages.
func Parse(path string, data []byte) (*Library, error) {
	if len(data) < len(magic) || string(data[:len(magic)]) != magic {
		return nil, errdefs.WithIOError(path, errors.New("not a wlib file (bad magic)"))
	}
	data = data[len(magic):]

	nl := bytes.IndexByte(data, '\n')
	if nl < 0 {
		return nil, errdefs.WithIOError(path, errors.New("truncated wlib header"))
	}
	wantDigest := digest.Digest(data[:nl])
	body := data[nl+1:]

	gotDigest := digest.FromBytes(body)
	if gotDigest != wantDigest {
		return nil, errdefs.WithIOError(path, errors.Errorf("wlib digest mismatch: file declares %s, contents hash to %s", wantDigest, gotDigest))
	}

	var p payload
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&p); err != nil {
		return nil, errdefs.WithIOError(path, errors.Wrap(err, "decode wlib payload"))
	}
	if p.Version != formatVersion {
		return nil, errdefs.WithIOError(path, errors.Errorf("unsupported wlib format version %d (want %d)", p.Version, formatVersion))
	}

	return &Library{Name: p.Name, Digest: wantDigest, Files: p.Files, Snapshot: p.Snapshot}, nil
}

// Merge imports lib's arena snapshot into a as a child of parent (typically
// the consumer's root namespace) and returns the snapshot's new root id,
// ready for the resolver to resolve `use` paths against.
func Merge(a *arena.Arena, lib *Library, parent arena.DeclarationId) (arena.DeclarationId, error) {
	return a.Import(lib.Snapshot, parent)
}

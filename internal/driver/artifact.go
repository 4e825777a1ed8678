package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"tern/internal/checker"
)

// Current schema version, bumped when the artifact format changes shape.
const artifactSchemaVersion uint16 = 1

// Artifact is the msgpack payload exported after a project check: the
// per-expression type annotations and the finalized tag tables the back end
// consumes.
type Artifact struct {
	Schema  uint16
	Package string
	Passed  bool
	Units   []UnitArtifact
}

type UnitArtifact struct {
	Name   string
	Passed bool

	Annotations []AnnotationEntry
	Sums        []SumEntry
	Diags       []DiagEntry
}

// AnnotationEntry records the established TypeSet of one expression by its
// byte range in the unit source.
type AnnotationEntry struct {
	Start uint32
	End   uint32
	Type  string
}

// SumEntry is one lowered sum: its discriminant strategy and tag table.
type SumEntry struct {
	Name          string
	Disc          string
	TagSize       int
	PayloadSize   int
	PayloadOffset int
	Size          int
	Align         int
	Tags          []TagRow
}

type TagRow struct {
	Member string
	Tag    uint32
}

type DiagEntry struct {
	ID       string
	Severity string
	Message  string
	Start    uint32
	End      uint32
}

// BuildArtifact flattens a project result into its exportable form.
func BuildArtifact(res *ProjectResult) *Artifact {
	out := &Artifact{
		Schema:  artifactSchemaVersion,
		Package: res.Package,
		Passed:  res.Passed,
		Units:   make([]UnitArtifact, 0, len(res.Units)),
	}
	for i := range res.Units {
		out.Units = append(out.Units, buildUnitArtifact(&res.Units[i]))
	}
	return out
}

func buildUnitArtifact(u *UnitResult) UnitArtifact {
	ua := UnitArtifact{Name: u.Name, Passed: u.Passed}
	for _, d := range u.Diagnostics {
		ua.Diags = append(ua.Diags, DiagEntry{
			ID:       d.Code.ID(),
			Severity: d.Severity.String(),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		})
	}
	if u.Result == nil {
		return ua
	}
	for _, a := range u.Result.Annotations {
		ua.Annotations = append(ua.Annotations, AnnotationEntry{
			Start: a.Pos.Start,
			End:   a.Pos.End,
			Type:  a.Text,
		})
	}
	for _, s := range u.Result.Sums {
		ua.Sums = append(ua.Sums, sumEntry(s))
	}
	return ua
}

func sumEntry(s checker.SumArtifact) SumEntry {
	l := s.Layout
	e := SumEntry{
		Name:          s.Name,
		Disc:          l.Disc.String(),
		TagSize:       l.TagSize,
		PayloadSize:   l.PayloadSize,
		PayloadOffset: l.PayloadOffset,
		Size:          l.Size,
		Align:         l.Align,
	}
	for i, t := range l.Tags {
		name := fmt.Sprintf("type#%d", t.Member)
		if i < len(s.TagNames) {
			name = s.TagNames[i]
		}
		e.Tags = append(e.Tags, TagRow{Member: name, Tag: t.Tag})
	}
	return e
}

// WriteArtifact encodes the artifact atomically: a temp file in the target
// directory, then a rename.
func WriteArtifact(path string, a *Artifact) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(a); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// ReadArtifact decodes an artifact and validates its schema.
func ReadArtifact(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var a Artifact
	if err := msgpack.NewDecoder(f).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if a.Schema != artifactSchemaVersion {
		return nil, fmt.Errorf("artifact schema %d, want %d", a.Schema, artifactSchemaVersion)
	}
	return &a, nil
}

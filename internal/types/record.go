package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"tern/internal/source"
)

// Field describes a single field inside a record type. The field's type is a
// TypeSet: a one-element set behaves like a nominal type, several elements
// form an inline union.
type Field struct {
	Name source.StringID
	Type TypeSet
}

// RecordInfo stores metadata for a record type. A record with no fields is
// the unit type.
type RecordInfo struct {
	Name   source.StringID
	Decl   source.Span
	Fields []Field
}

// RegisterRecord allocates a nominal record node and returns its id. Two
// declarations always yield distinct ids; only kind applications share ids,
// through the evaluator's memoization.
func (r *Registry) RegisterRecord(name source.StringID, decl source.Span) OriginIdx {
	slot := r.appendRecordInfo(RecordInfo{Name: name, Decl: decl})
	return r.internRaw(Node{Kind: NodeRecord, Payload: slot})
}

// SetRecordFields stores the resolved field descriptors for the record.
// Fields are set exactly once, while the declaration is being checked.
func (r *Registry) SetRecordFields(id OriginIdx, fields []Field) {
	info := r.recordInfo(id)
	if info == nil {
		return
	}
	info.Fields = cloneFields(fields)
}

// RecordInfo returns metadata for the provided record id.
func (r *Registry) RecordInfo(id OriginIdx) (*RecordInfo, bool) {
	info := r.recordInfo(id)
	if info == nil {
		return nil, false
	}
	return info, true
}

// RecordFields returns a copy of the record's fields in declaration order.
func (r *Registry) RecordFields(id OriginIdx) []Field {
	info := r.recordInfo(id)
	if info == nil || len(info.Fields) == 0 {
		return nil
	}
	return cloneFields(info.Fields)
}

func (r *Registry) recordInfo(id OriginIdx) *RecordInfo {
	if id == NoOrigin {
		return nil
	}
	n, ok := r.Resolve(id)
	if !ok || n.Kind != NodeRecord {
		return nil
	}
	if n.Payload == 0 || int(n.Payload) >= len(r.records) {
		return nil
	}
	return &r.records[n.Payload]
}

func (r *Registry) appendRecordInfo(info RecordInfo) uint32 {
	r.records = append(r.records, RecordInfo{
		Name:   info.Name,
		Decl:   info.Decl,
		Fields: cloneFields(info.Fields),
	})
	slot, err := safecast.Conv[uint32](len(r.records) - 1)
	if err != nil {
		panic(fmt.Errorf("record info overflow: %w", err))
	}
	return slot
}

func cloneFields(fields []Field) []Field {
	if len(fields) == 0 {
		return nil
	}
	result := make([]Field, len(fields))
	copy(result, fields)
	for i := range result {
		result[i].Type = slices.Clone(result[i].Type)
	}
	return result
}

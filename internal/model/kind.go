package model

import "fmt"

// EntityKind identifies one of the synchronized record kinds.
//
// Every kind has a primary table plus a field-version table. Dispatch on
// EntityKind always goes through Describe, which rejects unknown kinds, so
// stringly-typed payload input cannot reach the storage layer unchecked.
type EntityKind string

const (
	KindPaper        EntityKind = "paper"
	KindAuthor       EntityKind = "author"
	KindTag          EntityKind = "tag"
	KindFolder       EntityKind = "folder"
	KindSupplement   EntityKind = "supplement"
	KindFeed         EntityKind = "feed"
	KindLibrary      EntityKind = "library"
	KindLibraryShare EntityKind = "library_share"
)

// FieldType drives how a serialized field value is interpreted for the
// normalized-equality check during merges.
type FieldType int

const (
	TypeString FieldType = iota
	TypeInt
	TypeFloat
	TypeBool
	// TypeTime is an integer count of milliseconds since the Unix epoch.
	TypeTime
)

// FieldDef describes one tracked field of an entity kind.
type FieldDef struct {
	// Name is the field name as it appears in payloads (camelCase).
	Name string

	// Column is the column name in the primary table (snake_case).
	Column string

	Type FieldType

	// Opaque marks large/freeform fields whose content hash is carried in
	// the version row. The hash is computed upstream and passed through.
	Opaque bool
}

// Descriptor parameterizes the generic lifecycle/merge routines for one
// entity kind: which tables to touch, how the version table points back at
// the primary table, and which fields are tracked.
type Descriptor struct {
	Kind         EntityKind
	Table        string
	VersionTable string

	// FKColumn is the column in the version table (and link tables, where
	// applicable) referencing the primary record, e.g. "paper_id".
	FKColumn string

	// ScopeColumn is the parent-scope column in the primary table, empty
	// for unscoped kinds. Scoped kinds require a scope id on create and
	// delete. Entity ids stay globally unique; the scope partitions reads
	// and is validated, it is not a second identity component.
	ScopeColumn string

	Fields []FieldDef
}

// Field returns the definition of a tracked field by payload name.
func (d Descriptor) Field(name string) (FieldDef, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// Scoped reports whether the kind requires a parent scope id.
func (d Descriptor) Scoped() bool {
	return d.ScopeColumn != ""
}

var descriptors = map[EntityKind]Descriptor{
	KindPaper: {
		Kind:         KindPaper,
		Table:        "papers",
		VersionTable: "paper_field_versions",
		FKColumn:     "paper_id",
		ScopeColumn:  "library_id",
		Fields: []FieldDef{
			{Name: "title", Column: "title", Type: TypeString},
			{Name: "abstract", Column: "abstract", Type: TypeString},
			{Name: "doi", Column: "doi", Type: TypeString},
			{Name: "arxiv", Column: "arxiv", Type: TypeString},
			{Name: "year", Column: "year", Type: TypeInt},
			{Name: "publication", Column: "publication", Type: TypeString},
			{Name: "authorsText", Column: "authors_text", Type: TypeString},
			{Name: "flag", Column: "flag", Type: TypeBool},
			{Name: "rating", Column: "rating", Type: TypeInt},
			{Name: "read", Column: "read", Type: TypeBool},
			{Name: "note", Column: "note", Type: TypeString, Opaque: true},
			{Name: "mainURL", Column: "main_url", Type: TypeString},
			{Name: "codeRepo", Column: "code_repo", Type: TypeString},
			{Name: "feedId", Column: "feed_id", Type: TypeString},
			{Name: "feedItemId", Column: "feed_item_id", Type: TypeString},
			{Name: "addedAt", Column: "added_at", Type: TypeTime},
		},
	},
	KindAuthor: {
		Kind:         KindAuthor,
		Table:        "authors",
		VersionTable: "author_field_versions",
		FKColumn:     "author_id",
		Fields: []FieldDef{
			{Name: "name", Column: "name", Type: TypeString},
			{Name: "affiliation", Column: "affiliation", Type: TypeString},
			{Name: "orcid", Column: "orcid", Type: TypeString},
		},
	},
	KindTag: {
		Kind:         KindTag,
		Table:        "tags",
		VersionTable: "tag_field_versions",
		FKColumn:     "tag_id",
		Fields: []FieldDef{
			{Name: "name", Column: "name", Type: TypeString},
			{Name: "color", Column: "color", Type: TypeString},
		},
	},
	KindFolder: {
		Kind:         KindFolder,
		Table:        "folders",
		VersionTable: "folder_field_versions",
		FKColumn:     "folder_id",
		ScopeColumn:  "library_id",
		Fields: []FieldDef{
			{Name: "name", Column: "name", Type: TypeString},
			{Name: "color", Column: "color", Type: TypeString},
			{Name: "parentFolderId", Column: "parent_folder_id", Type: TypeString},
		},
	},
	KindSupplement: {
		Kind:         KindSupplement,
		Table:        "supplements",
		VersionTable: "supplement_field_versions",
		FKColumn:     "supplement_id",
		Fields: []FieldDef{
			{Name: "paperId", Column: "paper_id", Type: TypeString},
			{Name: "url", Column: "url", Type: TypeString},
			{Name: "kind", Column: "kind", Type: TypeString},
			{Name: "caption", Column: "caption", Type: TypeString},
		},
	},
	KindFeed: {
		Kind:         KindFeed,
		Table:        "feeds",
		VersionTable: "feed_field_versions",
		FKColumn:     "feed_id",
		ScopeColumn:  "library_id",
		Fields: []FieldDef{
			{Name: "name", Column: "name", Type: TypeString},
			{Name: "url", Column: "url", Type: TypeString},
			{Name: "refreshedAt", Column: "refreshed_at", Type: TypeTime},
			{Name: "enabled", Column: "enabled", Type: TypeBool},
		},
	},
	KindLibrary: {
		Kind:         KindLibrary,
		Table:        "libraries",
		VersionTable: "library_field_versions",
		FKColumn:     "library_id",
		Fields: []FieldDef{
			{Name: "name", Column: "name", Type: TypeString},
			{Name: "note", Column: "note", Type: TypeString, Opaque: true},
		},
	},
	KindLibraryShare: {
		Kind:         KindLibraryShare,
		Table:        "library_shares",
		VersionTable: "library_share_field_versions",
		FKColumn:     "library_share_id",
		Fields: []FieldDef{
			{Name: "libraryId", Column: "library_id", Type: TypeString},
			{Name: "memberDeviceId", Column: "member_device_id", Type: TypeString},
			{Name: "role", Column: "role", Type: TypeString},
			{Name: "invitedBy", Column: "invited_by", Type: TypeString},
		},
	},
}

// kindOrder fixes the iteration order of Kinds. Map iteration is randomized;
// anything user-visible (CLI listings, schema checks, tests) needs a stable
// order.
var kindOrder = []EntityKind{
	KindPaper,
	KindAuthor,
	KindTag,
	KindFolder,
	KindSupplement,
	KindFeed,
	KindLibrary,
	KindLibraryShare,
}

// Describe returns the descriptor for a kind, or an error for unknown kinds.
func Describe(kind EntityKind) (Descriptor, error) {
	d, ok := descriptors[kind]
	if !ok {
		return Descriptor{}, fmt.Errorf("unknown entity kind %q", kind)
	}
	return d, nil
}

// Kinds returns all entity kinds in declaration order.
func Kinds() []EntityKind {
	out := make([]EntityKind, len(kindOrder))
	copy(out, kindOrder)
	return out
}

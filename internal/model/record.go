package model

// Record is the merged snapshot of a primary row returned by the engine.
//
// Field values are kept in their serialized (string) form; nil means the
// field is null. Deserialization happens only where a typed comparison is
// needed (see value.go).
type Record struct {
	Kind    EntityKind
	ID      string
	ScopeID string // empty for unscoped kinds

	// Fields maps payload field names to serialized values.
	Fields map[string]*string

	CreatedAt         int64
	CreatedByDeviceID string
	UpdatedAt         int64
	UpdatedByDeviceID string
	DeletedAt         *int64
	DeletedByDeviceID string
}

// Deleted reports whether the record carries a tombstone.
func (r *Record) Deleted() bool {
	return r != nil && r.DeletedAt != nil
}

// FieldVersion is one row of an entity's field version history: the current
// value of a single field plus the provenance needed to arbitrate conflicts.
type FieldVersion struct {
	EntityID string
	Field    string

	Value     *string
	Timestamp int64
	DeviceID  string
	Hash      string // content hash for opaque fields, empty otherwise

	CreatedAt         int64
	CreatedByDeviceID string
	DeletedAt         *int64
	DeletedByDeviceID string
}

// Deleted reports whether the version row carries a tombstone.
func (v *FieldVersion) Deleted() bool {
	return v != nil && v.DeletedAt != nil
}

// Link is one conflict-resolved membership row of a paper join table.
// Membership is never physically removed: Op flips between add and remove
// under the same LWW rules as field merges.
type Link struct {
	PaperID   string
	TargetID  string
	Op        LinkOp
	Timestamp int64
	DeviceID  string
}

// Added reports whether the link currently represents live membership.
func (l *Link) Added() bool {
	return l != nil && l.Op == LinkAdd
}

package model

import "fmt"

// Op discriminates the payload variants the orchestrator accepts.
type Op string

const (
	OpCreate      Op = "create"
	OpDelete      Op = "delete"
	OpFieldChange Op = "fieldChange"
	OpLink        Op = "link"
)

// LinkKind identifies one of the paper join tables.
type LinkKind string

const (
	LinkAuthors LinkKind = "paper_authors"
	LinkTags    LinkKind = "paper_tags"
	LinkFolders LinkKind = "paper_folders"
)

// LinkOp is the membership operation carried by a link change.
type LinkOp string

const (
	LinkAdd    LinkOp = "add"
	LinkRemove LinkOp = "remove"
)

// CreatePayload is the input to Engine.Create.
type CreatePayload struct {
	ID      string `yaml:"id" json:"id"`
	ScopeID string `yaml:"scopeId,omitempty" json:"scopeId,omitempty"`

	// Fields holds serialized initial values by payload field name.
	// Absent fields are seeded as null.
	Fields map[string]*string `yaml:"fields,omitempty" json:"fields,omitempty"`

	// Hashes carries upstream-computed content hashes for opaque fields.
	Hashes map[string]string `yaml:"hashes,omitempty" json:"hashes,omitempty"`

	CreatedAt         int64  `yaml:"createdAt" json:"createdAt"`
	CreatedByDeviceID string `yaml:"createdByDeviceId" json:"createdByDeviceId"`
}

// DeletePayload is the input to Engine.Delete.
type DeletePayload struct {
	ID      string `yaml:"id" json:"id"`
	ScopeID string `yaml:"scopeId,omitempty" json:"scopeId,omitempty"`

	// DeletedAt of 0 means the engine stamps its own clock.
	DeletedAt         int64  `yaml:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	DeletedByDeviceID string `yaml:"deletedByDeviceId" json:"deletedByDeviceId"`
}

// FieldChange is the input to Engine.MergeField: a single field-level write
// from one device, arbitrated against the stored version row.
type FieldChange struct {
	EntityID string  `yaml:"entityId" json:"entityId"`
	Field    string  `yaml:"field" json:"field"`
	Value    *string `yaml:"value" json:"value"`

	Timestamp int64  `yaml:"timestamp" json:"timestamp"`
	DeviceID  string `yaml:"deviceId" json:"deviceId"`

	CreatedAt         int64  `yaml:"createdAt" json:"createdAt"`
	CreatedByDeviceID string `yaml:"createdByDeviceId" json:"createdByDeviceId"`

	// Hash is required for opaque fields, empty otherwise.
	Hash string `yaml:"hash,omitempty" json:"hash,omitempty"`
}

// LinkChange is the input to Engine.MergeLink: a membership mutation of a
// paper join table, arbitrated per (paperId, targetId).
type LinkChange struct {
	Link     LinkKind `yaml:"link" json:"link"`
	PaperID  string   `yaml:"paperId" json:"paperId"`
	TargetID string   `yaml:"targetId" json:"targetId"`
	Op       LinkOp   `yaml:"op" json:"op"`

	Timestamp int64  `yaml:"timestamp" json:"timestamp"`
	DeviceID  string `yaml:"deviceId" json:"deviceId"`
}

// Payload is the tagged envelope the orchestrator dispatches on. Exactly one
// of the variant pointers must be set, matching Op.
type Payload struct {
	Op    Op         `yaml:"op" json:"op"`
	Model EntityKind `yaml:"model,omitempty" json:"model,omitempty"`

	Create      *CreatePayload `yaml:"create,omitempty" json:"create,omitempty"`
	Delete      *DeletePayload `yaml:"delete,omitempty" json:"delete,omitempty"`
	FieldChange *FieldChange   `yaml:"fieldChange,omitempty" json:"fieldChange,omitempty"`
	LinkChange  *LinkChange    `yaml:"linkChange,omitempty" json:"linkChange,omitempty"`
}

// Validate checks the envelope's tag/variant consistency. Schema-level
// validation of the variant contents happens in the payload package.
func (p Payload) Validate() error {
	switch p.Op {
	case OpCreate:
		if p.Create == nil {
			return fmt.Errorf("payload op %q missing create body", p.Op)
		}
	case OpDelete:
		if p.Delete == nil {
			return fmt.Errorf("payload op %q missing delete body", p.Op)
		}
	case OpFieldChange:
		if p.FieldChange == nil {
			return fmt.Errorf("payload op %q missing fieldChange body", p.Op)
		}
	case OpLink:
		if p.LinkChange == nil {
			return fmt.Errorf("payload op %q missing linkChange body", p.Op)
		}
		return nil // link payloads carry no entity kind
	default:
		return fmt.Errorf("unknown payload op %q", p.Op)
	}
	if _, err := Describe(p.Model); err != nil {
		return err
	}
	return nil
}

// ValidLink reports whether k names a known join table.
func ValidLink(k LinkKind) bool {
	switch k {
	case LinkAuthors, LinkTags, LinkFolders:
		return true
	}
	return false
}

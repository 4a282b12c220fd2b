package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
)

// Slot is one persisted key: a versioned JSON blob.
type Slot struct {
	ent.Schema
}

func (Slot) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "slots"}}
}

func (Slot) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("key").
			Comment("Slot key such as points or analytics"),
		field.String("version").
			Comment("Semver of the blob layout"),
		field.Text("value").
			Comment("JSON-encoded value"),
		field.Time("updated_at"),
	}
}

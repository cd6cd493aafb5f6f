// Package schema builds the single description of the persistent entities that
// storage initialization and diagram generation both consume.
package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"socialschema/internal/models"

	"gopkg.in/yaml.v3"
	gormschema "gorm.io/gorm/schema"
)

// Relation kinds.
const (
	HasMany   = string(gormschema.HasMany)
	BelongsTo = string(gormschema.BelongsTo)
)

// Field describes one stored column.
type Field struct {
	Name       string `json:"name" yaml:"name"`
	Column     string `json:"column" yaml:"column"`
	Type       string `json:"type" yaml:"type"`
	Size       int    `json:"size,omitempty" yaml:"size,omitempty"`
	PrimaryKey bool   `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	Required   bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Unique     bool   `json:"unique,omitempty" yaml:"unique,omitempty"`
	// ForeignKey is the referenced table, empty for plain columns.
	ForeignKey string `json:"foreign_key,omitempty" yaml:"foreign_key,omitempty"`
}

// Relation describes a navigation from one entity to another.
type Relation struct {
	Name       string `json:"name" yaml:"name"`
	Kind       string `json:"kind" yaml:"kind"`
	Target     string `json:"target" yaml:"target"`
	ForeignKey string `json:"foreign_key" yaml:"foreign_key"`
	OnDelete   string `json:"on_delete,omitempty" yaml:"on_delete,omitempty"`
}

// Cascades reports whether deleting the owning side removes the related rows.
func (r Relation) Cascades() bool {
	return strings.EqualFold(r.OnDelete, "CASCADE")
}

// Entity describes one table.
type Entity struct {
	Name      string     `json:"name" yaml:"name"`
	Table     string     `json:"table" yaml:"table"`
	Fields    []Field    `json:"fields" yaml:"fields"`
	Relations []Relation `json:"relations,omitempty" yaml:"relations,omitempty"`
}

// PrimaryKey returns the entity's key column.
func (e Entity) PrimaryKey() Field {
	for _, f := range e.Fields {
		if f.PrimaryKey {
			return f
		}
	}
	return Field{}
}

// Registry is the parsed schema. Build it once with New and pass it explicitly.
type Registry struct {
	models   []interface{}
	entities []Entity
	byTable  map[string]int
}

// PersistentModels returns the authoritative set of schema-managed GORM models,
// parents before children.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Follower{},
		&models.DirectMessage{},
	}
}

// New parses every persistent model. It only fails when a model's tags are malformed.
func New() (*Registry, error) {
	reg := &Registry{
		models:  PersistentModels(),
		byTable: make(map[string]int),
	}

	cache := &sync.Map{}
	namer := gormschema.NamingStrategy{}
	parsed := make([]*gormschema.Schema, 0, len(reg.models))
	for _, m := range reg.models {
		s, err := gormschema.Parse(m, cache, namer)
		if err != nil {
			return nil, fmt.Errorf("parse model %T: %w", m, err)
		}
		parsed = append(parsed, s)
	}

	for _, s := range parsed {
		reg.byTable[s.Table] = len(reg.entities)
		reg.entities = append(reg.entities, describe(s))
	}
	return reg, nil
}

// Models returns fresh pointers to the persistent models, in creation order.
func (r *Registry) Models() []interface{} {
	out := make([]interface{}, len(r.models))
	copy(out, r.models)
	return out
}

// Entities returns all entity descriptions in creation order.
func (r *Registry) Entities() []Entity {
	out := make([]Entity, len(r.entities))
	copy(out, r.entities)
	return out
}

// Entity looks up an entity by table name.
func (r *Registry) Entity(table string) (Entity, bool) {
	i, ok := r.byTable[table]
	if !ok {
		return Entity{}, false
	}
	return r.entities[i], true
}

// Tables returns the table names in creation order.
func (r *Registry) Tables() []string {
	out := make([]string, len(r.entities))
	for i, e := range r.entities {
		out[i] = e.Table
	}
	return out
}

type document struct {
	Entities []Entity `json:"entities" yaml:"entities"`
}

// WriteYAML writes the schema description as YAML.
func (r *Registry) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Entities: r.entities}); err != nil {
		return fmt.Errorf("encode schema yaml: %w", err)
	}
	return enc.Close()
}

// WriteJSON writes the schema description as indented JSON.
func (r *Registry) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Entities: r.entities}); err != nil {
		return fmt.Errorf("encode schema json: %w", err)
	}
	return nil
}

func describe(s *gormschema.Schema) Entity {
	e := Entity{Name: s.Name, Table: s.Table}

	foreignKeys := make(map[string]string)
	for _, rel := range s.Relationships.BelongsTo {
		for _, ref := range rel.References {
			if ref.ForeignKey != nil && ref.PrimaryKey != nil {
				foreignKeys[ref.ForeignKey.DBName] = ref.PrimaryKey.Schema.Table
			}
		}
	}

	for _, name := range s.DBNames {
		f := s.FieldsByDBName[name]
		// GORM reports a bit width for numeric fields; only character limits are interesting.
		size := 0
		if f.DataType == gormschema.String {
			size = f.Size
		}
		e.Fields = append(e.Fields, Field{
			Name:       f.Name,
			Column:     f.DBName,
			Type:       string(f.DataType),
			Size:       size,
			PrimaryKey: f.PrimaryKey,
			Required:   f.NotNull || f.PrimaryKey,
			Unique:     f.Unique,
			ForeignKey: foreignKeys[f.DBName],
		})
	}

	for _, rel := range s.Relationships.HasMany {
		e.Relations = append(e.Relations, describeRelation(rel))
	}
	for _, rel := range s.Relationships.BelongsTo {
		e.Relations = append(e.Relations, describeRelation(rel))
	}
	return e
}

func describeRelation(rel *gormschema.Relationship) Relation {
	out := Relation{
		Name:     rel.Name,
		Kind:     string(rel.Type),
		Target:   rel.FieldSchema.Table,
		OnDelete: onDelete(rel),
	}
	if len(rel.References) > 0 && rel.References[0].ForeignKey != nil {
		out.ForeignKey = rel.References[0].ForeignKey.DBName
	}
	return out
}

// onDelete resolves the delete rule of a relation. GORM only materializes one
// constraint per foreign key, so a belongs-to side borrows the rule from the
// matching has-many side of its target.
func onDelete(rel *gormschema.Relationship) string {
	if c := rel.ParseConstraint(); c != nil {
		return strings.ToUpper(c.OnDelete)
	}
	if rel.Type != gormschema.BelongsTo || len(rel.References) == 0 {
		return ""
	}
	fk := rel.References[0].ForeignKey.DBName
	for _, inverse := range rel.FieldSchema.Relationships.HasMany {
		if inverse.FieldSchema.Table != rel.Schema.Table || len(inverse.References) == 0 {
			continue
		}
		if inverse.References[0].ForeignKey.DBName != fk {
			continue
		}
		if c := inverse.ParseConstraint(); c != nil {
			return strings.ToUpper(c.OnDelete)
		}
	}
	return ""
}

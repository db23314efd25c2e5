// Package controls turns resolved parameter identifiers into control
// descriptors, swapping in per-parameter override templates where a country
// registers them.
package controls

import "sort"

// KindParameter is the kind of the default parameter control.
const KindParameter = "parameter"

// NameAttr is the attribute carrying the parameter a control edits.
const NameAttr = "name"

// Template is a pre-built alternate control registered for a parameter.
// One template may be shared by several parameters; it is only ever copied.
type Template struct {
	Kind  string            `yaml:"kind" json:"kind"`
	Label string            `yaml:"label,omitempty" json:"label,omitempty"`
	Attrs map[string]string `yaml:"attrs,omitempty" json:"attrs,omitempty"`
}

// Registry maps parameter identifiers to override templates. A nil registry
// has no overrides.
type Registry map[string]Template

// Lookup returns the template registered for id.
func (r Registry) Lookup(id string) (Template, bool) {
	if r == nil {
		return Template{}, false
	}
	t, ok := r[id]
	return t, ok
}

// IDs returns the overridden identifiers in sorted order.
func (r Registry) IDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Descriptor is one renderable control. Key is the stable identity used when
// re-rendering and always equals the parameter identifier.
type Descriptor struct {
	Key      string
	Kind     string
	Label    string
	Attrs    map[string]string
	Override bool
}

// Name is the parameter the control reads and writes.
func (d Descriptor) Name() string {
	return d.Attrs[NameAttr]
}

// Attr returns an attribute or the fallback when unset.
func (d Descriptor) Attr(key, fallback string) string {
	if v, ok := d.Attrs[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Build instantiates a template for one parameter: a fresh descriptor whose
// key and name attribute are rebound to id. The template is left untouched.
func Build(t Template, id string) Descriptor {
	attrs := make(map[string]string, len(t.Attrs)+1)
	for k, v := range t.Attrs {
		attrs[k] = v
	}
	attrs[NameAttr] = id

	kind := t.Kind
	if kind == "" {
		kind = KindParameter
	}
	return Descriptor{
		Key:      id,
		Kind:     kind,
		Label:    t.Label,
		Attrs:    attrs,
		Override: true,
	}
}

// Default is the standard control for a parameter with no override.
func Default(id string) Descriptor {
	return Descriptor{
		Key:   id,
		Kind:  KindParameter,
		Attrs: map[string]string{NameAttr: id},
	}
}

// Render produces one descriptor per identifier, in input order.
func Render(ids []string, registry Registry) []Descriptor {
	out := make([]Descriptor, 0, len(ids))
	for _, id := range ids {
		if t, ok := registry.Lookup(id); ok {
			out = append(out, Build(t, id))
			continue
		}
		out = append(out, Default(id))
	}
	return out
}

package controls

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOverridePrecedence(t *testing.T) {
	templateX := Template{Kind: "toggle", Label: "Abolish", Attrs: map[string]string{"on": "abolished"}}
	registry := Registry{"rate_basic": templateX}

	got := Render([]string{"rate_basic", "rate_higher"}, registry)
	want := []Descriptor{
		{
			Key:      "rate_basic",
			Kind:     "toggle",
			Label:    "Abolish",
			Attrs:    map[string]string{"on": "abolished", "name": "rate_basic"},
			Override: true,
		},
		{
			Key:   "rate_higher",
			Kind:  KindParameter,
			Attrs: map[string]string{"name": "rate_higher"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderPreservesLengthOrderAndKeys(t *testing.T) {
	ids := []string{"c", "a", "b", "a"}
	registry := Registry{"a": {Kind: "slider"}}

	got := Render(ids, registry)
	require.Len(t, got, len(ids))
	for i, d := range got {
		assert.Equal(t, ids[i], d.Key)
		assert.Equal(t, ids[i], d.Name())
	}
	assert.True(t, got[1].Override)
	assert.False(t, got[0].Override)
}

func TestSharedTemplateIsNotMutated(t *testing.T) {
	shared := Template{Kind: "toggle", Attrs: map[string]string{"name": "placeholder", "on": "yes"}}
	registry := Registry{"a": shared, "b": shared}

	got := Render([]string{"a", "b"}, registry)
	require.Len(t, got, 2)

	got[0].Attrs["on"] = "changed"
	assert.Equal(t, "a", got[0].Name())
	assert.Equal(t, "b", got[1].Name())
	assert.Equal(t, "yes", got[1].Attrs["on"])
	assert.Equal(t, "placeholder", shared.Attrs["name"])
	assert.Equal(t, "yes", registry["a"].Attrs["on"])
}

func TestRenderWithoutRegistry(t *testing.T) {
	for _, registry := range []Registry{nil, {}} {
		got := Render([]string{"x", "y"}, registry)
		require.Len(t, got, 2)
		for _, d := range got {
			assert.Equal(t, KindParameter, d.Kind)
			assert.False(t, d.Override)
		}
	}
	assert.Empty(t, Render(nil, nil))
}

func TestBuildDefaultsKind(t *testing.T) {
	d := Build(Template{}, "p")
	assert.Equal(t, KindParameter, d.Kind)
	assert.Equal(t, "p", d.Key)
	assert.Equal(t, "fallback", d.Attr("missing", "fallback"))
}

func TestRegistryIDs(t *testing.T) {
	r := Registry{"b": {}, "a": {}}
	assert.Equal(t, []string{"a", "b"}, r.IDs())
	var empty Registry
	assert.Empty(t, empty.IDs())
}

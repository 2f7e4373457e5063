package document

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestMergeAdditive_Table(t *testing.T) {
	tests := []struct {
		name     string
		template string
		target   string
		want     string
	}{
		{
			name:     "adds_nested_and_top_level_keys",
			template: "a: 1\nb:\n  c: 2\n",
			target:   "b:\n  d: 3\n",
			want:     "b:\n  d: 3\n  c: 2\na: 1\n",
		},
		{
			name:     "existing_scalar_wins",
			template: "a: 1\n",
			target:   "a: 5\n",
			want:     "a: 5\n",
		},
		{
			name:     "target_only_keys_survive",
			template: "a: 1\n",
			target:   "custom: yes\n",
			want:     "custom: yes\na: 1\n",
		},
		{
			name:     "scalar_in_target_blocks_template_mapping",
			template: "motd:\n  line1: x\n",
			target:   "motd: disabled\n",
			want:     "motd: disabled\n",
		},
		{
			name:     "mapping_in_target_blocks_template_scalar",
			template: "motd: x\n",
			target:   "motd:\n  line1: y\n",
			want:     "motd:\n  line1: y\n",
		},
		{
			name:     "sequences_are_not_merged",
			template: "list:\n  - a\n  - b\n",
			target:   "list:\n  - z\n",
			want:     "list:\n  - z\n",
		},
		{
			name:     "empty_target_becomes_template",
			template: "use_papi: true\nmotd:\n  line1: one\n  line2: two\n",
			target:   "",
			want:     "use_papi: true\nmotd:\n  line1: one\n  line2: two\n",
		},
		{
			name:     "empty_template_is_noop",
			template: "",
			target:   "a: 1\n",
			want:     "a: 1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := mustParse(t, tt.template)
			target := mustParse(t, tt.target)

			MergeAdditive(tpl, target)

			want := mustParse(t, tt.want)
			if diff := cmp.Diff(want.Map(), target.Map()); diff != "" {
				t.Fatalf("merged document mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, want.Keys(), target.Keys(), "top-level key order")
		})
	}
}

func TestMergeAdditive_KeysCompareByTag(t *testing.T) {
	template := mustParse(t, "\"1\": from_template\ntrue: flag\nplain: x\n")
	target := mustParse(t, "1: mine\n\"true\": quoted\nplain: y\n")

	MergeAdditive(template, target)

	assert.Equal(t, []string{"1", "true", "plain", "1", "true"}, target.Keys())
	assert.Equal(t, "y", target.String("plain", ""))

	out, err := target.Encode()
	require.NoError(t, err)
	reparsed := mustParse(t, string(out))
	assert.Equal(t, 5, reparsed.Len())
}

func TestMergeAdditive_OrderOfNestedKeys(t *testing.T) {
	tpl := mustParse(t, "b:\n  c: 2\n  e: 4\na: 1\n")
	target := mustParse(t, "b:\n  d: 3\n")

	MergeAdditive(tpl, target)

	out, err := target.Encode()
	require.NoError(t, err)
	assert.Equal(t, "b:\n  d: 3\n  c: 2\n  e: 4\na: 1\n", string(out))
}

func TestMergeAdditive_CopiesDoNotAliasTemplate(t *testing.T) {
	tpl := mustParse(t, "motd:\n  line1: one\n")
	target := New()

	MergeAdditive(tpl, target)
	require.NoError(t, target.Set("motd.line1", "changed"))
	require.NoError(t, target.Set("motd.line3", "added"))

	assert.Equal(t, "one", tpl.String("motd.line1", ""))
	assert.False(t, tpl.Has("motd.line3"))
}

func TestMergeAdditive_NilArguments(t *testing.T) {
	assert.NotPanics(t, func() { MergeAdditive(nil, New()) })
	assert.NotPanics(t, func() { MergeAdditive(mustParse(t, "a: 1\n"), nil) })
}

// genDocument builds a document from random dotted-path assignments over a
// small key alphabet so generated templates and targets overlap often.
func genDocument(t *rapid.T, label string) *Document {
	doc := New()
	n := rapid.IntRange(0, 8).Draw(t, label+"_size")
	for i := 0; i < n; i++ {
		depth := rapid.IntRange(1, 3).Draw(t, fmt.Sprintf("%s_depth_%d", label, i))
		parts := make([]string, depth)
		for j := range parts {
			parts[j] = rapid.SampledFrom([]string{"a", "b", "c", "d"}).Draw(t, fmt.Sprintf("%s_key_%d_%d", label, i, j))
		}
		var value any
		if rapid.Bool().Draw(t, fmt.Sprintf("%s_kind_%d", label, i)) {
			value = rapid.IntRange(0, 9).Draw(t, fmt.Sprintf("%s_int_%d", label, i))
		} else {
			value = rapid.StringMatching(`[a-z]{1,6}`).Draw(t, fmt.Sprintf("%s_str_%d", label, i))
		}
		if err := doc.Set(strings.Join(parts, "."), value); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	return doc
}

func flatten(prefix string, m map[string]any, out map[string]any) {
	for k, v := range m {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok && len(nested) > 0 {
			flatten(path, nested, out)
			continue
		}
		out[path] = v
	}
}

func leaves(doc *Document) map[string]any {
	out := map[string]any{}
	flatten("", doc.Map(), out)
	return out
}

func TestMergeAdditive_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tpl := genDocument(t, "template")
		target := genDocument(t, "target")

		once := target.Clone()
		MergeAdditive(tpl, once)
		twice := once.Clone()
		MergeAdditive(tpl, twice)

		a, err := once.Encode()
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		b, err := twice.Encode()
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if string(a) != string(b) {
			t.Fatalf("second merge changed the document:\n%s\n---\n%s", a, b)
		}
	})
}

func TestMergeAdditive_NonDestructive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tpl := genDocument(t, "template")
		target := genDocument(t, "target")
		before := leaves(target)
		keysBefore := target.Keys()

		MergeAdditive(tpl, target)

		after := leaves(target)
		for path, v := range before {
			got, ok := after[path]
			if !ok {
				t.Fatalf("path %s disappeared after merge", path)
			}
			if diff := cmp.Diff(v, got); diff != "" {
				t.Fatalf("path %s changed (-before +after):\n%s", path, diff)
			}
		}
		keysAfter := target.Keys()
		if diff := cmp.Diff(keysBefore, keysAfter[:len(keysBefore)]); diff != "" {
			t.Fatalf("existing keys moved (-before +after):\n%s", diff)
		}
	})
}

func TestMergeAdditive_Complete(t *testing.T) {
	var check func(t *rapid.T, path string, tpl, got map[string]any)
	check = func(t *rapid.T, path string, tpl, got map[string]any) {
		for k, tv := range tpl {
			gv, ok := got[k]
			if !ok {
				t.Fatalf("template key %s%s missing from merged result", path, k)
			}
			tm, tIsMap := tv.(map[string]any)
			gm, gIsMap := gv.(map[string]any)
			if tIsMap && gIsMap {
				check(t, path+k+".", tm, gm)
			}
		}
	}

	rapid.Check(t, func(t *rapid.T) {
		tpl := genDocument(t, "template")
		target := genDocument(t, "target")

		MergeAdditive(tpl, target)

		check(t, "", tpl.Map(), target.Map())
	})
}

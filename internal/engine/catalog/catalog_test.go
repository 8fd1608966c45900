package catalog

import (
	"reflect"
	"strings"
	"testing"

	"hljsgen/internal/core/errors"
)

func scanned(ids ...string) []Definition {
	defs := make([]Definition, 0, len(ids))
	for _, id := range ids {
		defs = append(defs, Definition{LanguageID: id, ModulePath: "highlight.js/lib/languages/" + id})
	}
	return defs
}

func TestMerge_SortsScannedAndExternal(t *testing.T) {
	external := []Definition{{LanguageID: "1c", ModulePath: "vendor/1c"}}

	cat, err := Merge(scanned("python", "c"), external, DuplicateError)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	ids := cat.LanguageIDs()
	if !reflect.DeepEqual(ids, []string{"1c", "c", "python"}) {
		t.Fatalf("unexpected order: %v", ids)
	}

	names := make([]string, 0, cat.Len())
	for _, def := range cat.Definitions() {
		names = append(names, def.ImportName())
	}
	if !reflect.DeepEqual(names, []string{"oneC", "c", "python"}) {
		t.Fatalf("unexpected import names: %v", names)
	}

	externals := cat.Externals()
	if len(externals) != 1 || externals[0].LanguageID != "1c" || externals[0].Source != SourceExternal {
		t.Fatalf("unexpected externals: %+v", externals)
	}
	counts := cat.CountBySource()
	if counts[SourceScanned] != 2 || counts[SourceExternal] != 1 {
		t.Fatalf("unexpected source counts: %v", counts)
	}
}

func TestMerge_OrderIsByteLexicographic(t *testing.T) {
	cat, err := Merge(scanned("b", "a-b", "a", "ab", "A"), nil, DuplicateError)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	expected := []string{"A", "a", "a-b", "ab", "b"}
	if got := cat.LanguageIDs(); !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
}

func TestMerge_DefinitionsReturnsCopy(t *testing.T) {
	cat, err := Merge(scanned("c"), nil, DuplicateError)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	defs := cat.Definitions()
	defs[0].LanguageID = "mutated"
	if cat.LanguageIDs()[0] != "c" {
		t.Fatal("catalog must not be mutated through Definitions()")
	}
}

func TestMerge_CrossSourceDuplicateFailsByDefault(t *testing.T) {
	external := []Definition{{LanguageID: "python", ModulePath: "vendor/python"}}

	_, err := Merge(scanned("c", "python"), external, DuplicateError)
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if !errors.IsCode(err, errors.CodeConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
	if !strings.Contains(err.Error(), "python") {
		t.Fatalf("expected duplicate id in error, got %v", err)
	}
}

func TestMerge_PreferExternalReplacesScanned(t *testing.T) {
	external := []Definition{{LanguageID: "python", ModulePath: "vendor/python", Shape: ShapeDirect}}

	cat, err := Merge(scanned("c", "python"), external, DuplicatePreferExternal)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	defs := cat.Definitions()
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(defs))
	}
	if defs[1].ModulePath != "vendor/python" || !defs[1].IsExternal() {
		t.Fatalf("expected external python to win, got %+v", defs[1])
	}
}

func TestMerge_DuplicateWithinSourceIsConflict(t *testing.T) {
	external := []Definition{
		{LanguageID: "x", ModulePath: "vendor/x"},
		{LanguageID: "x", ModulePath: "vendor/x2"},
	}
	_, err := Merge(nil, external, DuplicatePreferExternal)
	if !errors.IsCode(err, errors.CodeConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestMerge_RejectsEmptyID(t *testing.T) {
	_, err := Merge([]Definition{{LanguageID: " "}}, nil, DuplicateError)
	if !errors.IsCode(err, errors.CodeValidationError) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestParseDuplicatePolicy(t *testing.T) {
	cases := map[string]DuplicatePolicy{
		"":                DuplicateError,
		"error":           DuplicateError,
		"PREFER_EXTERNAL": DuplicatePreferExternal,
	}
	for raw, expected := range cases {
		got, err := ParseDuplicatePolicy(raw)
		if err != nil {
			t.Fatalf("ParseDuplicatePolicy(%q) failed: %v", raw, err)
		}
		if got != expected {
			t.Fatalf("ParseDuplicatePolicy(%q): expected %q, got %q", raw, expected, got)
		}
	}
	if _, err := ParseDuplicatePolicy("last_write_wins"); err == nil {
		t.Fatal("expected unknown policy to be rejected")
	}
}

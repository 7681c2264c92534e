package itemschema_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	itemschema "github.com/reoring/itemschema"
)

func pass(msg string) itemschema.Result {
	return itemschema.Pass(itemschema.Issue{Path: "/p", Code: itemschema.CodePresent, Message: msg})
}

func fail(msg string) itemschema.Result {
	return itemschema.Fail(itemschema.Issue{Path: "/f", Code: itemschema.CodeRequired, Message: msg})
}

func sameResult(t *testing.T, want, got itemschema.Result) {
	t.Helper()
	if want.Valid() != got.Valid() {
		t.Fatalf("validity mismatch: want %v got %v", want.Valid(), got.Valid())
	}
	if diff := cmp.Diff(want.Passed(), got.Passed()); diff != "" {
		t.Fatalf("pass messages mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Failed(), got.Failed()); diff != "" {
		t.Fatalf("fail messages mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_Associative(t *testing.T) {
	a := pass("a1").Merge(fail("a2"))
	b := itemschema.OK()
	c := fail("c1").Merge(pass("c2")).Merge(pass("c3"))
	sameResult(t, a.Merge(b).Merge(c), a.Merge(b.Merge(c)))
	sameResult(t, itemschema.Merge(a, b, c), a.Merge(b.Merge(c)))
}

func TestMerge_Identity(t *testing.T) {
	for _, r := range []itemschema.Result{itemschema.OK(), pass("x"), fail("y"), pass("x").Merge(fail("y"))} {
		sameResult(t, r, itemschema.OK().Merge(r))
		sameResult(t, r, r.Merge(itemschema.OK()))
	}
	if got := itemschema.Merge(); !got.Valid() || len(got.Passed()) != 0 || len(got.Failed()) != 0 {
		t.Fatalf("expected empty merge to be the identity")
	}
}

func TestMerge_OrderAndValidity(t *testing.T) {
	r := itemschema.Merge(pass("one"), fail("two"), pass("three"), fail("four"))
	if r.Valid() {
		t.Fatalf("expected invalid result")
	}
	if diff := cmp.Diff([]string{"one", "three"}, r.PassMessages()); diff != "" {
		t.Fatalf("pass order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"two", "four"}, r.FailMessages()); diff != "" {
		t.Fatalf("fail order mismatch (-want +got):\n%s", diff)
	}
}

func TestPassOnly_StaysValid(t *testing.T) {
	r := itemschema.Merge(pass("a"), pass("b"), itemschema.OK())
	if !r.Valid() || r.Err() != nil {
		t.Fatalf("pass messages must never affect validity")
	}
}

func TestPrefix(t *testing.T) {
	orig := pass("Position is present: 1").Merge(fail("'Distance' key is missing"))
	got := orig.Prefix("Loop A").Prefix("Synthesis")
	if diff := cmp.Diff([]string{"Synthesis: Loop A: Position is present: 1"}, got.PassMessages()); diff != "" {
		t.Fatalf("pass prefix mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Synthesis: Loop A: 'Distance' key is missing"}, got.FailMessages()); diff != "" {
		t.Fatalf("fail prefix mismatch (-want +got):\n%s", diff)
	}
	if got.Failed()[0].Path != "/f" {
		t.Fatalf("prefix must not touch paths, got %q", got.Failed()[0].Path)
	}
	if orig.FailMessages()[0] != "'Distance' key is missing" {
		t.Fatalf("prefix must not mutate its receiver")
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	r := fail("boom")
	iss := r.Failed()
	iss[0].Message = "changed"
	if r.FailMessages()[0] != "boom" {
		t.Fatalf("Failed must return a copy")
	}
}

func TestErr_Issues(t *testing.T) {
	err := fail("one").Merge(fail("two")).Merge(fail("three")).Merge(fail("four")).Err()
	var iss itemschema.Issues
	if !errors.As(err, &iss) || len(iss) != 4 {
		t.Fatalf("expected four issues, got %v", err)
	}
	want := "required at /f; required at /f; required at /f; ... (total 4)"
	if got := err.Error(); got != want {
		t.Fatalf("unexpected summary %q", got)
	}
}

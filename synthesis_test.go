package itemschema_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	itemschema "github.com/reoring/itemschema"
	"github.com/reoring/itemschema/vocab"
)

func testSets() *vocab.Sets {
	return &vocab.Sets{
		Categories:      vocab.NewSet("Weapon", "Ore"),
		Materials:       vocab.NewSet("Weapon", "Ore"),
		Classifications: vocab.NewSet("Gear", "Materials"),
		Elements:        vocab.NewSet("Fire", "Ice"),
		GatheringTools:  vocab.NewSet("Pickaxe"),
	}
}

func countCode(iss itemschema.Issues, code string) int {
	n := 0
	for _, it := range iss {
		if it.Code == code {
			n++
		}
	}
	return n
}

func TestValidateUniquePositions_Duplicate(t *testing.T) {
	loops := mustParse(t, `
- Core:
    Position: 1
    Distance: 0
- Edge:
    Position: 1
    Distance: 2
- Tip:
    Position: 3
    Distance: 4
`)
	r := itemschema.ValidateUniquePositions(loops)
	if r.Valid() {
		t.Fatalf("expected duplicate position to fail")
	}
	if diff := cmp.Diff([]string{"Edge: position 1 is already used by Core"}, r.FailMessages()); diff != "" {
		t.Fatalf("fail mismatch (-want +got):\n%s", diff)
	}
	if n := countCode(r.Failed(), itemschema.CodeDuplicatePosition); n != 1 {
		t.Fatalf("expected exactly one duplicate issue, got %d", n)
	}
	if diff := cmp.Diff([]string{"Core: position 1 is unique", "Tip: position 3 is unique"}, r.PassMessages()); diff != "" {
		t.Fatalf("pass mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateUniquePositions_MissingOrNonInteger(t *testing.T) {
	loops := mustParse(t, `
- Core:
    Distance: 0
- Edge:
    Position: two
`)
	r := itemschema.ValidateUniquePositions(loops)
	if diff := cmp.Diff([]string{"Core: missing position", "Edge: missing position"}, r.FailMessages()); diff != "" {
		t.Fatalf("fail mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateLinkedPositions_DistanceOrdering(t *testing.T) {
	cases := []struct {
		name     string
		distance string
		valid    bool
		msg      string
	}{
		{"closer than linked loop", "3", false, "B at position 2: distance 3 must be greater than 5 at linked position 1"},
		{"equal distance", "5", false, "B at position 2: distance 5 must be greater than 5 at linked position 1"},
		{"further than linked loop", "9", true, "B at position 2: distance 9 is greater than 5 at linked position 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			loops := mustParse(t, `
- A:
    Position: 1
    Distance: 5
- B:
    Position: 2
    Distance: `+tc.distance+`
    Linked From Position: 1
`)
			r := itemschema.ValidateLinkedPositions(loops)
			if r.Valid() != tc.valid {
				t.Fatalf("expected valid=%v, fails=%v", tc.valid, r.FailMessages())
			}
			got := r.FailMessages()
			if tc.valid {
				got = r.PassMessages()
			}
			if diff := cmp.Diff([]string{tc.msg}, got); diff != "" {
				t.Fatalf("message mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateLinkedPositions_NotFound(t *testing.T) {
	loops := mustParse(t, `
- A:
    Position: 1
    Distance: 5
- B:
    Position: 2
    Distance: 8
    Linked From Position: 7
`)
	r := itemschema.ValidateLinkedPositions(loops)
	if diff := cmp.Diff([]string{"B at position 2: linked-from position 7 not found"}, r.FailMessages()); diff != "" {
		t.Fatalf("fail mismatch (-want +got):\n%s", diff)
	}
	if r.Failed()[0].Code != itemschema.CodeLinkNotFound {
		t.Fatalf("unexpected code %q", r.Failed()[0].Code)
	}
}

func TestValidateLinkedPositions_NonIntegerFields(t *testing.T) {
	loops := mustParse(t, `
- A:
    Position: 1
    Distance: 5
- B:
    Position: 2
    Distance: far
    Linked From Position: 1
- C:
    Position: 3
    Distance: 9
    Linked From Position: first
`)
	r := itemschema.ValidateLinkedPositions(loops)
	want := []string{"B: Distance is not an integer", "C: Linked From Position is not an integer"}
	if diff := cmp.Diff(want, r.FailMessages()); diff != "" {
		t.Fatalf("fail mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateSynthesis_Missing(t *testing.T) {
	doc := mustParse(t, "Name: x\n")
	r := itemschema.ValidateSynthesis(doc.Get("Synthesis"), testSets())
	if diff := cmp.Diff([]string{"Synthesis key is missing."}, r.FailMessages()); diff != "" {
		t.Fatalf("fail mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateSynthesis_MaterialLoopsShape(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"missing", "Synthesis:\n  Required Materials: [Ore]\n", "Synthesis: Material Loops key is missing"},
		{"not a list", "Synthesis:\n  Required Materials: [Ore]\n  Material Loops: 3\n", "Synthesis: Material Loops is not a list"},
		{"entry not a mapping", "Synthesis:\n  Required Materials: [Ore]\n  Material Loops: [Core]\n", "Synthesis: Material Loops entry 0 is not a mapping"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := mustParse(t, tc.yaml)
			r := itemschema.ValidateSynthesis(doc.Get("Synthesis"), testSets())
			if diff := cmp.Diff([]string{tc.want}, r.FailMessages()); diff != "" {
				t.Fatalf("fail mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateSynthesis_PrefixesLoopAndEffect(t *testing.T) {
	doc := mustParse(t, `
Synthesis:
  Material Loops:
    - Core:
        Position: 1
        Material: Slime
        Unlock: [Ice, Wind]
        Levels:
          - Fire Boost:
              Element: [Mud]
`)
	r := itemschema.ValidateSynthesis(doc.Get("Synthesis"), testSets())
	want := []string{
		"Synthesis: 'Required Materials' key is missing",
		"Synthesis: Core: 'Distance' key is missing",
		"Synthesis: Core: Material: Slime is an unknown value (typo, or an item file is needed)",
		"Synthesis: Core: Unlock: Wind is an unknown value",
		"Synthesis: Core: Fire Boost: Element: Mud is an unknown value",
	}
	if diff := cmp.Diff(want, r.FailMessages()); diff != "" {
		t.Fatalf("fail mismatch (-want +got):\n%s", diff)
	}
	if !slices.Contains(r.PassMessages(), "Synthesis: Core: position 1 is unique") {
		t.Fatalf("expected prefixed position pass, got %v", r.PassMessages())
	}
}

func TestValidateLoopLevels_RecipeMorph(t *testing.T) {
	sets := testSets()
	cases := []struct {
		name  string
		yaml  string
		valid bool
		fail  []string
	}{
		{
			name:  "morph complete",
			yaml:  "- Recipe Morph:\n    Element: [Fire]\n    Recipe: Weapon\n    Required Alchemy Level: 12\n",
			valid: true,
		},
		{
			name:  "morph missing fields",
			yaml:  "- Recipe Morph:\n    Element: [Fire]\n",
			valid: false,
			fail:  []string{"Recipe Morph: 'Recipe' key is missing", "Recipe Morph: 'Required Alchemy Level' key is missing"},
		},
		{
			name:  "morph unknown recipe",
			yaml:  "- Recipe Morph:\n    Element: [Fire]\n    Recipe: Slime\n    Required Alchemy Level: 3\n",
			valid: false,
			fail:  []string{"Recipe Morph: Recipe: Slime is an unknown value (typo, or an item file is needed)"},
		},
		{
			name:  "other effect needs no recipe",
			yaml:  "- Fire Boost:\n    Element: [Fire]\n",
			valid: true,
		},
		{
			name:  "other effect optional recipe still checked",
			yaml:  "- Fire Boost:\n    Element: [Fire]\n    Recipe: Slime\n",
			valid: false,
			fail:  []string{"Fire Boost: Recipe: Slime is an unknown value (typo, or an item file is needed)"},
		},
		{
			name:  "element required",
			yaml:  "- Fire Boost:\n    Power: 3\n",
			valid: false,
			fail:  []string{"Fire Boost: 'Element' key is missing"},
		},
		{
			name:  "entry not a mapping",
			yaml:  "- Fire Boost\n",
			valid: false,
			fail:  []string{"Levels entry 0 is not a mapping"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := itemschema.ValidateLoopLevels(mustParse(t, tc.yaml), sets)
			if r.Valid() != tc.valid {
				t.Fatalf("expected valid=%v, fails=%v", tc.valid, r.FailMessages())
			}
			if diff := cmp.Diff(tc.fail, r.FailMessages()); diff != "" {
				t.Fatalf("fail mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateLoopLevels_AbsentAndMalformed(t *testing.T) {
	doc := mustParse(t, "Position: 1\nLevels: 4\n")
	if r := itemschema.ValidateLoopLevels(doc.Get("Missing"), testSets()); !r.Valid() || len(r.PassMessages()) != 0 {
		t.Fatalf("absent Levels must be silent")
	}
	r := itemschema.ValidateLoopLevels(doc.Get("Levels"), testSets())
	if diff := cmp.Diff([]string{"Levels is not a list"}, r.FailMessages()); diff != "" {
		t.Fatalf("fail mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateMaterialLoops_SeveralLoopsPerEntry(t *testing.T) {
	loops := mustParse(t, `
- Core:
    Position: 1
    Distance: 0
    Material: Ore
  Edge:
    Position: 2
    Distance: 1
    Material: Weapon
    Linked From Position: 1
    Unlock: [Ice]
`)
	r := itemschema.ValidateMaterialLoops(loops, testSets())
	if !r.Valid() {
		t.Fatalf("expected valid loops, got %v", r.FailMessages())
	}
	for _, want := range []string{"Core: position 1 is unique", "Edge: position 2 is unique", "Edge at position 2: distance 1 is greater than 0 at linked position 1", "Edge: Unlock values are valid"} {
		if !slices.Contains(r.PassMessages(), want) {
			t.Fatalf("missing pass message %q in %v", want, r.PassMessages())
		}
	}
}

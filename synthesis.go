package itemschema

import (
	"fmt"

	"github.com/reoring/itemschema/document"
	"github.com/reoring/itemschema/vocab"
)

// ValidateSynthesis checks the Synthesis block of a craftable item. Messages
// are prefixed with "Synthesis", except the one reporting the block itself as
// missing.
func ValidateSynthesis(synth *document.Node, sets *vocab.Sets) Result {
	if synth.IsMissing() {
		return Fail(IssueAt(synth, CodeRequired, "Synthesis key is missing.", map[string]any{"key": KeySynthesis}))
	}
	sets = orEmpty(sets)
	return Merge(
		ValidateKey(synth, KeyRequiredMaterials, true),
		ValidateMaterialLoops(synth.Get(KeyMaterialLoops), sets),
	).Prefix(KeySynthesis)
}

// ValidateMaterialLoops checks the Material Loops sequence: positions are
// unique, linked loops sit strictly further away than the loop they link
// from, and every loop body is well formed.
func ValidateMaterialLoops(node *document.Node, sets *vocab.Sets) Result {
	if node.IsMissing() {
		return Fail(IssueAt(node, CodeRequired, KeyMaterialLoops+" key is missing", map[string]any{"key": KeyMaterialLoops}))
	}
	items, ok := node.AsSequence()
	if !ok {
		return Fail(IssueAt(node, CodeInvalidType, KeyMaterialLoops+" is not a list", map[string]any{"kind": node.Kind.String()}))
	}
	sets = orEmpty(sets)
	loops, r := collectLoops(items)
	unique, placed := uniquePositions(loops)
	r = r.Merge(unique).Merge(linkedPositions(loops, placed))
	for _, l := range loops {
		r = r.Merge(ValidateMaterialLoopContents(l.body, sets).Prefix(l.name))
	}
	return r
}

// ValidateUniquePositions reports, for every loop of the Material Loops
// sequence, whether its Position is an integer not used by an earlier loop.
func ValidateUniquePositions(node *document.Node) Result {
	items, _ := node.AsSequence()
	loops, _ := collectLoops(items)
	r, _ := uniquePositions(loops)
	return r
}

// ValidateLinkedPositions reports, for every loop declaring Linked From
// Position P, whether a loop at P exists and has a smaller Distance.
func ValidateLinkedPositions(node *document.Node) Result {
	items, _ := node.AsSequence()
	loops, _ := collectLoops(items)
	_, placed := uniquePositions(loops)
	return linkedPositions(loops, placed)
}

// ValidateMaterialLoopContents checks the fields of one loop body.
func ValidateMaterialLoopContents(body *document.Node, sets *vocab.Sets) Result {
	sets = orEmpty(sets)
	return Merge(
		ValidateKey(body, KeyDistance, true),
		ValidateKey(body, KeyPosition, true),
		ValidateKeyAndValue(body, KeyMaterial, sets.Materials, true),
		ValidateKey(body, KeyLinkedFromPosition, false),
		ValidateList(body, KeyUnlock, sets.Elements, false),
		ValidateLoopLevels(body.Get(KeyLevels), sets),
	)
}

// ValidateLoopLevels checks a loop's Levels sequence. Each entry maps effect
// names to their details; messages are prefixed with the effect name. An
// absent Levels key is fine.
func ValidateLoopLevels(levels *document.Node, sets *vocab.Sets) Result {
	if levels.IsMissing() {
		return OK()
	}
	items, ok := levels.AsSequence()
	if !ok {
		return Fail(IssueAt(levels, CodeInvalidType, KeyLevels+" is not a list", map[string]any{"kind": levels.Kind.String()}))
	}
	sets = orEmpty(sets)
	r := OK()
	for i, lvl := range items {
		pairs, ok := lvl.AsMapping()
		if !ok {
			r = r.Merge(Fail(IssueAt(lvl, CodeInvalidType, fmt.Sprintf("%s entry %d is not a mapping", KeyLevels, i), nil)))
			continue
		}
		for j, p := range pairs {
			effect, ok := p.Key.Literal()
			if !ok {
				effect = fmt.Sprintf("effect %d", j)
			}
			r = r.Merge(validateEffect(effect, p.Value, sets).Prefix(effect))
		}
	}
	return r
}

// validateEffect applies the per-effect field policy: Element always, Recipe
// and Required Alchemy Level only for Recipe Morph.
func validateEffect(effect string, details *document.Node, sets *vocab.Sets) Result {
	morph := effect == EffectRecipeMorph
	return Merge(
		ValidateList(details, KeyElement, sets.Elements, true),
		ValidateKeyAndValue(details, KeyRecipe, sets.Materials, morph),
		ValidateKey(details, KeyRequiredAlchemyLevel, morph),
	)
}

type materialLoop struct {
	name string
	key  *document.Node
	body *document.Node
}

// label names the loop together with its position when it has one.
func (l materialLoop) label() string {
	if p, ok := l.body.Get(KeyPosition).AsInt(); ok {
		return fmt.Sprintf("%s at position %d", l.name, p)
	}
	return l.name
}

// collectLoops flattens the sequence of {name: body} mappings in source order.
func collectLoops(items []*document.Node) ([]materialLoop, Result) {
	r := OK()
	var loops []materialLoop
	for i, it := range items {
		pairs, ok := it.AsMapping()
		if !ok {
			r = r.Merge(Fail(IssueAt(it, CodeInvalidType, fmt.Sprintf("%s entry %d is not a mapping", KeyMaterialLoops, i), nil)))
			continue
		}
		for j, p := range pairs {
			name, ok := p.Key.Literal()
			if !ok {
				name = fmt.Sprintf("loop %d.%d", i, j)
			}
			loops = append(loops, materialLoop{name: name, key: p.Key, body: p.Value})
		}
	}
	return loops, r
}

type placement struct {
	loop        string
	distance    int64
	hasDistance bool
}

func uniquePositions(loops []materialLoop) (Result, map[int64]placement) {
	r := OK()
	seen := make(map[int64]placement, len(loops))
	for _, l := range loops {
		pos := l.body.Get(KeyPosition)
		p, ok := pos.AsInt()
		if !ok {
			at := pos
			if pos.IsMissing() {
				at = l.key
			}
			r = r.Merge(Fail(IssueAt(at, CodeMissingPosition, l.name+": missing position", nil)))
			continue
		}
		if first, dup := seen[p]; dup {
			r = r.Merge(Fail(IssueAt(pos, CodeDuplicatePosition,
				fmt.Sprintf("%s: position %d is already used by %s", l.name, p, first.loop),
				map[string]any{"position": p, "first": first.loop})))
			continue
		}
		d, hasD := l.body.Get(KeyDistance).AsInt()
		seen[p] = placement{loop: l.name, distance: d, hasDistance: hasD}
		r = r.Merge(Pass(IssueAt(pos, CodeUniquePosition, fmt.Sprintf("%s: position %d is unique", l.name, p), nil)))
	}
	return r, seen
}

func linkedPositions(loops []materialLoop, placed map[int64]placement) Result {
	r := OK()
	for _, l := range loops {
		link := l.body.Get(KeyLinkedFromPosition)
		if link.IsMissing() {
			continue
		}
		p, ok := link.AsInt()
		if !ok {
			r = r.Merge(Fail(IssueAt(link, CodeInvalidType, l.name+": "+KeyLinkedFromPosition+" is not an integer", nil)))
			continue
		}
		dist := l.body.Get(KeyDistance)
		if dist.IsMissing() {
			// reported by the loop contents check
			continue
		}
		d, ok := dist.AsInt()
		if !ok {
			r = r.Merge(Fail(IssueAt(dist, CodeInvalidType, l.name+": "+KeyDistance+" is not an integer", nil)))
			continue
		}
		target, found := placed[p]
		if !found {
			r = r.Merge(Fail(IssueAt(link, CodeLinkNotFound,
				fmt.Sprintf("%s: linked-from position %d not found", l.label(), p),
				map[string]any{"linked_from": p})))
			continue
		}
		if !target.hasDistance {
			r = r.Merge(Fail(IssueAt(link, CodeInvalidType,
				fmt.Sprintf("%s: %s at linked position %d has no integer distance", l.label(), target.loop, p), nil)))
			continue
		}
		params := map[string]any{"distance": d, "linked_from": p, "linked_distance": target.distance}
		if target.distance >= d {
			r = r.Merge(Fail(IssueAt(dist, CodeDistanceOrder,
				fmt.Sprintf("%s: distance %d must be greater than %d at linked position %d", l.label(), d, target.distance, p), params)))
			continue
		}
		r = r.Merge(Pass(IssueAt(dist, CodeDistanceOK,
			fmt.Sprintf("%s: distance %d is greater than %d at linked position %d", l.label(), d, target.distance, p), params)))
	}
	return r
}

func orEmpty(sets *vocab.Sets) *vocab.Sets {
	if sets == nil {
		return &vocab.Sets{}
	}
	return sets
}

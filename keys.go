package itemschema

// Item file keys. Keys are matched exactly and case-sensitively.
const (
	KeyName            = "Name"
	KeyItemNumber      = "Item Number"
	KeyLevel           = "Level"
	KeyCategory        = "Category"
	KeyClassifications = "Classifications"
	KeyElement         = "Element"
	KeyMaterials       = "Materials"
	KeySynthesis       = "Synthesis"

	KeyRequiredMaterials = "Required Materials"
	KeyMaterialLoops     = "Material Loops"

	KeyPosition           = "Position"
	KeyDistance           = "Distance"
	KeyMaterial           = "Material"
	KeyLinkedFromPosition = "Linked From Position"
	KeyUnlock             = "Unlock"
	KeyLevels             = "Levels"

	KeyRecipe               = "Recipe"
	KeyRequiredAlchemyLevel = "Required Alchemy Level"
)

// ClassificationMaterials marks a raw material: such items carry no Synthesis
// block and no Materials list.
const ClassificationMaterials = "Materials"

// EffectRecipeMorph is the level effect that additionally requires Recipe and
// Required Alchemy Level.
const EffectRecipeMorph = "Recipe Morph"

package record

import "strings"

// Category tags a prompt with one of the fixed subject-matter buckets.
type Category string

const (
	CategoryLogosIcons          Category = "logos-icons"
	CategorySuperheroes         Category = "superheroes"
	CategoryAnimated3D          Category = "animated-3d"
	CategoryProducts            Category = "products"
	CategoryArchitecture        Category = "architecture"
	CategoryFashionEditorial    Category = "fashion-editorial"
	CategoryFoodDrink           Category = "food-drink"
	CategoryVehicles            Category = "vehicles"
	CategoryFantasy             Category = "fantasy"
	CategorySciFiFuturistic     Category = "sci-fi-futuristic"
	CategoryLandscapesNature    Category = "landscapes-nature"
	CategoryPortraitsPeople     Category = "portraits-people"
	CategoryAbstractBackgrounds Category = "abstract-backgrounds"
	CategoryPrintMerchandise    Category = "print-merchandise"
	CategoryAnimals             Category = "animals"
	CategoryGenerators          Category = "generators"
	CategoryText                Category = "text"
	CategoryVideoGeneral        Category = "video-general"
	CategoryGeneral             Category = "general"
)

// allCategories is the canonical ordering: most specific subject buckets
// first, catch-all buckets last. The dataset writer groups the master
// collection in this order and the classifier breaks score ties with it.
var allCategories = []Category{
	CategoryLogosIcons,
	CategorySuperheroes,
	CategoryAnimated3D,
	CategoryProducts,
	CategoryArchitecture,
	CategoryFashionEditorial,
	CategoryFoodDrink,
	CategoryVehicles,
	CategoryFantasy,
	CategorySciFiFuturistic,
	CategoryLandscapesNature,
	CategoryPortraitsPeople,
	CategoryAbstractBackgrounds,
	CategoryPrintMerchandise,
	CategoryAnimals,
	CategoryGenerators,
	CategoryText,
	CategoryVideoGeneral,
	CategoryGeneral,
}

var categoryIndex = func() map[Category]int {
	idx := make(map[Category]int, len(allCategories))
	for i, cat := range allCategories {
		idx[cat] = i
	}
	return idx
}()

// Categories returns the closed category set in canonical order.
func Categories() []Category {
	cp := make([]Category, len(allCategories))
	copy(cp, allCategories)
	return cp
}

// ParseCategory converts a string into a known Category.
func ParseCategory(value string) (Category, bool) {
	normalized := Category(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := categoryIndex[normalized]
	return normalized, ok
}

// Index returns the category's position in the canonical ordering, or the
// position of the general fallback for unknown values.
func (c Category) Index() int {
	if i, ok := categoryIndex[c]; ok {
		return i
	}
	return categoryIndex[CategoryGeneral]
}

// Valid reports whether the category belongs to the closed set.
func (c Category) Valid() bool {
	_, ok := categoryIndex[c]
	return ok
}

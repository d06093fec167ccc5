package caps

import "sort"

// Capability categories. Each category names one axis of the planning feature
// space and carries its own closed tag vocabulary.
const (
	// CategoryTyping describes the object type system the problem uses.
	CategoryTyping = "typing"

	// CategoryConditions describes the kinds of conditions appearing in
	// action preconditions and goals.
	CategoryConditions = "conditions"

	// CategoryEffects describes the kinds of effects actions may have.
	CategoryEffects = "effects"

	// CategoryTime describes the temporal model of the problem.
	CategoryTime = "time"

	// CategoryCosts describes the quality metrics the problem optimizes.
	CategoryCosts = "costs"
)

// Tags for CategoryTyping.
const (
	TagFlatTyping         = "flat"
	TagHierarchicalTyping = "hierarchical"
)

// Tags for CategoryConditions.
const (
	TagEqualityConditions    = "equality"
	TagNegativeConditions    = "negative"
	TagDisjunctiveConditions = "disjunctive"
	TagUniversalConditions   = "universal"
	TagExistentialConditions = "existential"
)

// Tags for CategoryEffects.
const (
	TagConditionalEffects = "conditional"
	TagIncreaseEffects    = "increase"
	TagDecreaseEffects    = "decrease"
)

// Tags for CategoryTime.
const (
	TagContinuousTime = "continuous"
	TagDiscreteTime   = "discrete"
	TagDurativeTime   = "durative"
)

// Tags for CategoryCosts.
const (
	TagActionCosts = "action_costs"
	TagPlanLength  = "plan_length"
)

// vocabulary is the closed set of recognized tags per category.
// Set validates against this table; anything outside it is a
// configuration error.
var vocabulary = map[string]map[string]bool{
	CategoryTyping: {
		TagFlatTyping:         true,
		TagHierarchicalTyping: true,
	},
	CategoryConditions: {
		TagEqualityConditions:    true,
		TagNegativeConditions:    true,
		TagDisjunctiveConditions: true,
		TagUniversalConditions:   true,
		TagExistentialConditions: true,
	},
	CategoryEffects: {
		TagConditionalEffects: true,
		TagIncreaseEffects:    true,
		TagDecreaseEffects:    true,
	},
	CategoryTime: {
		TagContinuousTime: true,
		TagDiscreteTime:   true,
		TagDurativeTime:   true,
	},
	CategoryCosts: {
		TagActionCosts: true,
		TagPlanLength:  true,
	},
}

// Categories returns the recognized category names in sorted order.
func Categories() []string {
	out := make([]string, 0, len(vocabulary))
	for cat := range vocabulary {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// Tags returns the recognized tags for a category in sorted order.
// It returns nil for an unknown category.
func Tags(category string) []string {
	tags, ok := vocabulary[category]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(tags))
	for tag := range tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

package caps

import (
	"fmt"
	"sort"
	"strings"

	"github.com/upf-go/sdk"
)

// Kind is a capability descriptor: a mapping from category name to the set of
// feature tags enabled within that category.
//
// A category that was asserted but holds no tags is different from a category
// that was never asserted: the former says "explicitly supports nothing here",
// the latter says "no constraint in this direction". Both distinctions matter
// to the subsumption order.
//
// A zero Kind is not usable; create one with NewKind.
type Kind struct {
	features map[string]map[string]bool
	final    bool
}

// NewKind creates an empty Kind in its builder phase.
func NewKind() *Kind {
	return &Kind{features: make(map[string]map[string]bool)}
}

// Set enables a feature tag within a category. It fails if the category or
// tag is outside the closed vocabulary, or if the Kind has been finalized.
func (k *Kind) Set(category, tag string) error {
	if k.final {
		return sdk.NewContractError("Kind.Set",
			fmt.Errorf("kind is finalized, cannot set %s/%s", category, tag))
	}
	tags, ok := vocabulary[category]
	if !ok {
		return sdk.NewConfigurationError("Kind.Set",
			fmt.Errorf("%w: unknown capability category %q", sdk.ErrInvalidConfig, category))
	}
	if !tags[tag] {
		return sdk.NewConfigurationError("Kind.Set",
			fmt.Errorf("%w: unknown tag %q in category %q", sdk.ErrInvalidConfig, tag, category))
	}
	if k.features[category] == nil {
		k.features[category] = make(map[string]bool)
	}
	k.features[category][tag] = true
	return nil
}

// Assert declares a category with an empty tag set. This is the explicit
// "supports nothing in this category" statement, distinct from leaving the
// category absent. Tags already set for the category are preserved.
func (k *Kind) Assert(category string) error {
	if k.final {
		return sdk.NewContractError("Kind.Assert",
			fmt.Errorf("kind is finalized, cannot assert %s", category))
	}
	if _, ok := vocabulary[category]; !ok {
		return sdk.NewConfigurationError("Kind.Assert",
			fmt.Errorf("%w: unknown capability category %q", sdk.ErrInvalidConfig, category))
	}
	if k.features[category] == nil {
		k.features[category] = make(map[string]bool)
	}
	return nil
}

// Finalize ends the builder phase. After Finalize the Kind is immutable and
// safe to share across goroutines. It returns the same Kind for chaining.
func (k *Kind) Finalize() *Kind {
	k.final = true
	return k
}

// Final reports whether the Kind has left its builder phase.
func (k *Kind) Final() bool {
	return k.final
}

// Has reports whether the tag is enabled in the category.
func (k *Kind) Has(category, tag string) bool {
	if k == nil {
		return false
	}
	return k.features[category][tag]
}

// Asserted reports whether the category is present, with or without tags.
func (k *Kind) Asserted(category string) bool {
	if k == nil {
		return false
	}
	_, ok := k.features[category]
	return ok
}

// Categories returns the asserted category names in sorted order.
func (k *Kind) Categories() []string {
	if k == nil {
		return nil
	}
	out := make([]string, 0, len(k.features))
	for cat := range k.features {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// SubsumedBy reports whether k is subsumed by other: every category present
// in k has its tag set contained in other's set for that category. Categories
// absent from k pass trivially. A nil Kind asserts nothing and is subsumed by
// everything. Neither operand is modified.
func (k *Kind) SubsumedBy(other *Kind) bool {
	if k == nil {
		return true
	}
	for cat, tags := range k.features {
		for tag := range tags {
			if other == nil || !other.features[cat][tag] {
				return false
			}
		}
	}
	return true
}

// Supports reports whether a problem requiring the given Kind can be handled
// by a solver advertising k. It is SubsumedBy with the operands swapped.
func (k *Kind) Supports(problem *Kind) bool {
	return problem.SubsumedBy(k)
}

// ToMap renders the Kind as a plain category-to-sorted-tags mapping, suitable
// for serialization. An asserted-but-empty category appears with a non-nil
// empty slice.
func (k *Kind) ToMap() map[string][]string {
	if k == nil {
		return nil
	}
	out := make(map[string][]string, len(k.features))
	for cat, tags := range k.features {
		list := make([]string, 0, len(tags))
		for tag := range tags {
			list = append(list, tag)
		}
		sort.Strings(list)
		out[cat] = list
	}
	return out
}

// FromMap builds a finalized Kind from a category-to-tags mapping, validating
// every entry against the vocabulary. A nil mapping yields a nil Kind.
func FromMap(m map[string][]string) (*Kind, error) {
	if m == nil {
		return nil, nil
	}
	k := NewKind()
	for cat, tags := range m {
		if err := k.Assert(cat); err != nil {
			return nil, err
		}
		for _, tag := range tags {
			if err := k.Set(cat, tag); err != nil {
				return nil, err
			}
		}
	}
	return k.Finalize(), nil
}

// String renders the Kind as "category:tag1,tag2; category2:" for logs.
func (k *Kind) String() string {
	if k == nil {
		return "<none>"
	}
	parts := make([]string, 0, len(k.features))
	for _, cat := range k.Categories() {
		tags := make([]string, 0, len(k.features[cat]))
		for tag := range k.features[cat] {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		parts = append(parts, cat+":"+strings.Join(tags, ","))
	}
	return strings.Join(parts, "; ")
}

package manifest

// identifyingFields are the keys that make an object count as one item.
var identifyingFields = []string{"subjectId", "bookId", "chapterIdOrIdx", "sectionIdOrIdx", "id", "theoryHash"}

// CountItems returns the number of importable items in an untyped manifest tree.
//
// An object counts once when any identifying field is truthy or when it sits
// under the key "summary". An array under "terms" counts once as a whole,
// regardless of its length. The "summary" match applies at any depth, so
// unrelated objects that use that key are counted too.
func CountItems(tree any) int {
	return countItems(tree, "")
}

func countItems(node any, key string) int {
	switch v := node.(type) {
	case []any:
		n := 0
		if key == "terms" {
			n++
		}
		for _, item := range v {
			n += countItems(item, "")
		}
		return n
	case map[string]any:
		n := 0
		if key == "summary" || hasIdentifier(v) {
			n++
		}
		for k, child := range v {
			switch child.(type) {
			case []any, map[string]any:
				n += countItems(child, k)
			}
		}
		return n
	default:
		return 0
	}
}

func hasIdentifier(obj map[string]any) bool {
	for _, f := range identifyingFields {
		if Truthy(obj[f]) {
			return true
		}
	}
	return false
}

package types

// AllOption is the sentinel that disables a category or operator filter.
const AllOption = "Todos"

// Selection is a resolved multi-select value. When the sentinel is chosen
// together with explicit values the sentinel wins; the others are ignored.
type Selection struct {
	All    bool     `json:"all"`
	Values []string `json:"values,omitempty"`

	overridden bool
	cleared    bool
}

// NewSelection resolves the chosen values. nil means nothing was asked for
// and silently selects All; an empty non-nil slice means the user cleared
// the selection, which also selects All but says so through Notice.
func NewSelection(values []string) Selection {
	if values == nil {
		return Selection{All: true}
	}
	if len(values) == 0 {
		return Selection{All: true, cleared: true}
	}
	explicit := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	all := false
	for _, v := range values {
		if v == AllOption {
			all = true
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		explicit = append(explicit, v)
	}
	if all {
		return Selection{All: true, overridden: len(explicit) > 0}
	}
	return Selection{Values: explicit}
}

// Explicit returns the selected values, nil when the selection is All.
func (s Selection) Explicit() []string {
	if s.All {
		return nil
	}
	return s.Values
}

// Notice returns the informational text shown when All was chosen in place
// of what the user asked for, empty otherwise.
func (s Selection) Notice(what string) string {
	switch {
	case s.overridden:
		return "When '" + AllOption + "' is selected the other " + what + " selections are ignored."
	case s.cleared:
		return "No " + what + " was selected. Showing data for every " + what + "."
	default:
		return ""
	}
}

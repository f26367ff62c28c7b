package browser

import "fmt"

type locatorKind string

const (
	kindPlaceholder locatorKind = "placeholder"
	kindRole        locatorKind = "role"
	kindLabel       locatorKind = "label"
	kindText        locatorKind = "text"
	kindCSS         locatorKind = "css"
)

// Locator describes an element. Names match case-insensitively on a substring
// of the accessible name unless Exact is used.
type Locator struct {
	kind   locatorKind
	role   string
	name   string
	css    string
	exact  bool
	parent *Locator
}

// Placeholder finds an input by its placeholder text.
func Placeholder(text string) Locator {
	return Locator{kind: kindPlaceholder, name: text}
}

// Role finds an element by ARIA role (native elements included, ex. <button>
// for "button") and accessible name.
func Role(role, name string) Locator {
	return Locator{kind: kindRole, role: role, name: name}
}

// Label finds a form control by aria-label, aria-labelledby or <label for>.
func Label(name string) Locator {
	return Locator{kind: kindLabel, name: name}
}

// Text finds the innermost element whose own text matches.
func Text(text string) Locator {
	return Locator{kind: kindText, name: text}
}

// CSS finds the first visible element matching a selector.
func CSS(selector string) Locator {
	return Locator{kind: kindCSS, css: selector}
}

// Exact requires the whole accessible name to match, ignoring surrounding whitespace.
func (l Locator) Exact() Locator {
	l.exact = true
	return l
}

// Within scopes the locator to the first element matched by parent.
func (l Locator) Within(parent Locator) Locator {
	l.parent = &parent
	return l
}

// Name is the text the locator matches against.
func (l Locator) Name() string {
	return l.name
}

func (l Locator) String() string {
	var s string
	switch l.kind {
	case kindRole:
		s = fmt.Sprintf("role=%s[name=%q]", l.role, l.name)
	case kindCSS:
		s = "css=" + l.css
	default:
		s = fmt.Sprintf("%s=%q", l.kind, l.name)
	}
	if l.exact {
		s += " exact"
	}
	if l.parent != nil {
		s = l.parent.String() + " >> " + s
	}
	return s
}

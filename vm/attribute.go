package vm

import (
	"fmt"
	"strings"

	"github.com/chazu/veneer/dom"
)

// ---------------------------------------------------------------------------
// Dynamic attribute binding strategies
// ---------------------------------------------------------------------------

// DynamicAttribute is the binding-strategy handle for one attribute on one
// element. The VM core only selects the strategy; the DOM-writing caller
// invokes Set during initial render and Update on re-render with resolved
// values.
type DynamicAttribute interface {
	Element() *dom.Element
	Name() string
	Set(env *Environment, value any)
	Update(env *Environment, value any)
}

// urlAttributes maps tag -> attribute names whose values are URLs and must
// pass protocol screening before reaching the tree.
var urlAttributes = map[string][]string{
	"a":      {"href"},
	"body":   {"background"},
	"form":   {"action"},
	"frame":  {"src"},
	"iframe": {"src"},
	"img":    {"src"},
	"input":  {"src", "formaction"},
	"button": {"formaction"},
	"link":   {"href"},
	"object": {"data"},
	"script": {"src"},
	"embed":  {"src"},
}

// propertyCandidates are attributes bound as element-object properties on
// HTML elements: their live value diverges from the serialized attribute.
var propertyCandidates = map[string]bool{
	"value":    true,
	"checked":  true,
	"selected": true,
	"muted":    true,
	"paused":   true,
}

func isURLAttribute(tag, name string) bool {
	for _, a := range urlAttributes[strings.ToLower(tag)] {
		if a == name {
			return true
		}
	}
	return false
}

// attributeFor picks the strategy for binding name on element:
//
//   - an explicit namespace always binds as a namespaced attribute;
//   - foreign (non-HTML) elements always bind attributes, never properties;
//   - URL-bearing attributes screen their value through ProtocolForURL
//     unless the value is trusting (pre-sanitized markup);
//   - property candidates on HTML elements bind as properties;
//   - everything else binds as a plain attribute.
func attributeFor(element *dom.Element, name string, trusting bool, namespace string) DynamicAttribute {
	attr := attribute{element: element, name: name, namespace: namespace}
	if namespace != "" {
		if !trusting && isURLAttributeName(name) {
			return &safeAttribute{simpleAttribute{attr}}
		}
		return &simpleAttribute{attr}
	}
	if element.Namespace != dom.NamespaceHTML && element.Namespace != "" {
		return &simpleAttribute{attr}
	}
	if !trusting && isURLAttribute(element.Tag, name) {
		return &safeAttribute{simpleAttribute{attr}}
	}
	if propertyCandidates[name] {
		return &propertyAttribute{attr}
	}
	return &simpleAttribute{attr}
}

// isURLAttributeName covers namespaced URL attributes (xlink:href).
func isURLAttributeName(name string) bool {
	return name == "href" || strings.HasSuffix(name, ":href")
}

type attribute struct {
	element   *dom.Element
	name      string
	namespace string
}

func (a *attribute) Element() *dom.Element { return a.element }
func (a *attribute) Name() string          { return a.name }

// normalizeValue renders a resolved value as attribute text. The boolean
// result is false when the value means "no attribute at all" (nil or false).
func normalizeValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case bool:
		if !v {
			return "", false
		}
		return "true", true
	case string:
		return v, true
	}
	return fmt.Sprintf("%v", value), true
}

// simpleAttribute sets the attribute verbatim.
type simpleAttribute struct {
	attribute
}

func (a *simpleAttribute) Set(env *Environment, value any) {
	s, ok := normalizeValue(value)
	if !ok {
		return
	}
	env.AppendOperations().SetAttribute(a.element, a.name, s, a.namespace)
}

func (a *simpleAttribute) Update(env *Environment, value any) {
	s, ok := normalizeValue(value)
	if !ok {
		env.UpdateOperations().RemoveAttribute(a.element, a.name, a.namespace)
		return
	}
	env.UpdateOperations().SetAttribute(a.element, a.name, s, a.namespace)
}

// safeAttribute screens URL values through the environment's protocol
// policy, prefixing disallowed protocols with "unsafe:" so the tree never
// carries an executable URL.
type safeAttribute struct {
	simpleAttribute
}

func (a *safeAttribute) Set(env *Environment, value any) {
	a.simpleAttribute.Set(env, sanitizeURLValue(env, value))
}

func (a *safeAttribute) Update(env *Environment, value any) {
	a.simpleAttribute.Update(env, sanitizeURLValue(env, value))
}

func sanitizeURLValue(env *Environment, value any) any {
	s, ok := normalizeValue(value)
	if !ok {
		return value
	}
	if env.allowsProtocol(env.ProtocolForURL(s)) {
		return s
	}
	return "unsafe:" + s
}

// propertyAttribute binds through the element-object property rather than
// the serialized attribute. Property writes bypass the DOM-operations
// collaborators: they mutate live element state, not tree structure.
type propertyAttribute struct {
	attribute
}

func (a *propertyAttribute) Set(env *Environment, value any) {
	a.element.SetProperty(a.name, value)
}

func (a *propertyAttribute) Update(env *Environment, value any) {
	a.element.SetProperty(a.name, value)
}

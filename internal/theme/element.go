package theme

// ElementType names a category of markdown content a plugin can style.
type ElementType string

const (
	ElementHeading       ElementType = "heading"
	ElementParagraph     ElementType = "paragraph"
	ElementStrong        ElementType = "strong"
	ElementEmphasis      ElementType = "emphasis"
	ElementDelete        ElementType = "delete"
	ElementLink          ElementType = "link"
	ElementImage         ElementType = "image"
	ElementInlineCode    ElementType = "inlineCode"
	ElementCode          ElementType = "code"
	ElementBlockquote    ElementType = "blockquote"
	ElementList          ElementType = "list"
	ElementListItem      ElementType = "listItem"
	ElementTable         ElementType = "table"
	ElementThematicBreak ElementType = "thematicBreak"
	ElementText          ElementType = "text"
	ElementHTML          ElementType = "html"
)

// AllElementTypes returns every element type in declaration order.
func AllElementTypes() []ElementType {
	return []ElementType{
		ElementHeading, ElementParagraph, ElementStrong, ElementEmphasis, ElementDelete,
		ElementLink, ElementImage, ElementInlineCode, ElementCode, ElementBlockquote,
		ElementList, ElementListItem, ElementTable, ElementThematicBreak, ElementText, ElementHTML,
	}
}

// RequiredElementTypes returns the element types every complete plugin must
// declare. Text and raw HTML are optional.
func RequiredElementTypes() []ElementType {
	return AllElementTypes()[:14]
}

// Valid reports whether e is a known element type.
func (e ElementType) Valid() bool {
	for _, known := range AllElementTypes() {
		if e == known {
			return true
		}
	}
	return false
}

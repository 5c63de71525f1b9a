package conftree

import (
	"strings"
)

// Tree is the configuration model the commit engine works against.
// Parse merges device output into the tree, Render produces canonical text,
// and Diff returns the command script that transforms the receiver into
// target. An empty string from Diff means the two trees are equivalent.
type Tree interface {
	Parse(lines []string) error
	Diff(target Tree) string
	Render() string
}

// indent is the per-level indentation used by FortiOS "show" output.
const indent = "    "

// Block is a node in the configuration tree: the root, a "config" section,
// or an "edit" table entry. It implements Tree.
type Block struct {
	// label is the opening line of this block ("config system interface",
	// `edit "port1"`). Empty for the root.
	label string

	params     map[string]string
	paramOrder []string

	children   map[string]*Block
	childOrder []string
}

// New returns an empty configuration tree.
func New() *Block {
	return newBlock("")
}

func newBlock(label string) *Block {
	return &Block{
		label:    label,
		params:   make(map[string]string),
		children: make(map[string]*Block),
	}
}

// isEdit reports whether this block is a table entry rather than a section.
func (b *Block) isEdit() bool {
	return strings.HasPrefix(b.label, "edit ")
}

// closer returns the line that terminates this block in rendered output.
func (b *Block) closer() string {
	if b.isEdit() {
		return "next"
	}
	return "end"
}

// setParam records a "set" line, preserving first-seen ordering.
func (b *Block) setParam(key, value string) {
	if _, ok := b.params[key]; !ok {
		b.paramOrder = append(b.paramOrder, key)
	}
	b.params[key] = value
}

func (b *Block) unsetParam(key string) {
	if _, ok := b.params[key]; !ok {
		return
	}
	delete(b.params, key)
	for i, k := range b.paramOrder {
		if k == key {
			b.paramOrder = append(b.paramOrder[:i], b.paramOrder[i+1:]...)
			break
		}
	}
}

// child returns the sub-block with the given label, creating it if needed.
func (b *Block) child(label string) *Block {
	if c, ok := b.children[label]; ok {
		return c
	}
	c := newBlock(label)
	b.children[label] = c
	b.childOrder = append(b.childOrder, label)
	return c
}

// removeChild drops a sub-block. Used when a fresh parse replaces a section.
func (b *Block) removeChild(label string) {
	if _, ok := b.children[label]; !ok {
		return
	}
	delete(b.children, label)
	for i, l := range b.childOrder {
		if l == label {
			b.childOrder = append(b.childOrder[:i], b.childOrder[i+1:]...)
			break
		}
	}
}

// Parse merges configuration output into the tree. Top-level sections present
// in the input replace any previously parsed section with the same label, so
// re-reading a path always reflects the latest device output. Lines that are
// not part of the block grammar (prompts, banners, comments) are ignored.
func (b *Block) Parse(lines []string) error {
	stack := []*Block{b}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		cur := stack[len(stack)-1]

		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			// Prompt echoes and comments carry no configuration.

		case strings.HasPrefix(line, "config ") || strings.HasPrefix(line, "conf "):
			label := "config " + strings.TrimSpace(strings.SplitN(line, " ", 2)[1])
			if cur == b {
				// Fresh read of a top-level section wins over stale state.
				b.removeChild(label)
			}
			stack = append(stack, cur.child(label))

		case strings.HasPrefix(line, "edit "):
			stack = append(stack, cur.child(line))

		case strings.HasPrefix(line, "set "):
			rest := strings.TrimSpace(line[len("set "):])
			key, value := splitParam(rest)
			cur.setParam(key, value)

		case strings.HasPrefix(line, "unset "):
			cur.unsetParam(strings.TrimSpace(line[len("unset "):]))

		case line == "next" || line == "end":
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	return nil
}

// splitParam splits a "set" argument into key and the raw value remainder.
func splitParam(rest string) (string, string) {
	if i := strings.IndexByte(rest, ' '); i >= 0 {
		return rest[:i], strings.TrimSpace(rest[i+1:])
	}
	return rest, ""
}

// Render produces the canonical indented text form of the tree.
func (b *Block) Render() string {
	var sb strings.Builder
	b.render(&sb, 0)
	return sb.String()
}

func (b *Block) render(sb *strings.Builder, depth int) {
	inner := depth
	if b.label != "" {
		writeLine(sb, depth, b.label)
		inner = depth + 1
	}
	for _, key := range b.paramOrder {
		if value := b.params[key]; value != "" {
			writeLine(sb, inner, "set "+key+" "+value)
		} else {
			writeLine(sb, inner, "set "+key)
		}
	}
	for _, label := range b.childOrder {
		b.children[label].render(sb, inner)
	}
	if b.label != "" {
		writeLine(sb, depth, b.closer())
	}
}

func writeLine(sb *strings.Builder, depth int, line string) {
	for i := 0; i < depth; i++ {
		sb.WriteString(indent)
	}
	sb.WriteString(line)
	sb.WriteByte('\n')
}

// Equal reports whether two trees render to the same canonical text.
func Equal(a, b Tree) bool {
	return a.Render() == b.Render()
}

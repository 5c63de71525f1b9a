package conftree

import (
	"strings"
)

// Diff computes the command script that, when executed on a device whose
// configuration matches the receiver, brings it to the state described by
// target. Parameters are updated with "set", removed with "unset"; table
// entries that disappear are removed with "delete"; new blocks are created
// with their full script. An empty result means no changes are required.
func (b *Block) Diff(target Tree) string {
	lines := diffBlocks(b, asBlock(target))
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n")
}

// asBlock recovers a *Block from any Tree by re-parsing its rendered form
// when the concrete type is foreign.
func asBlock(t Tree) *Block {
	if blk, ok := t.(*Block); ok {
		return blk
	}
	blk := New()
	_ = blk.Parse(strings.Split(t.Render(), "\n"))
	return blk
}

// diffBlocks returns the commands to run inside the shared block context.
func diffBlocks(mine, theirs *Block) []string {
	var lines []string

	for _, key := range theirs.paramOrder {
		value := theirs.params[key]
		if cur, ok := mine.params[key]; !ok || cur != value {
			lines = append(lines, setLine(key, value))
		}
	}
	for _, key := range mine.paramOrder {
		if _, ok := theirs.params[key]; !ok {
			lines = append(lines, "unset "+key)
		}
	}

	for _, label := range theirs.childOrder {
		theirChild := theirs.children[label]
		myChild, ok := mine.children[label]
		if !ok {
			lines = append(lines, label)
			lines = append(lines, createScript(theirChild)...)
			lines = append(lines, theirChild.closer())
			continue
		}
		if body := diffBlocks(myChild, theirChild); len(body) > 0 {
			lines = append(lines, label)
			lines = append(lines, body...)
			lines = append(lines, theirChild.closer())
		}
	}

	for _, label := range mine.childOrder {
		myChild := mine.children[label]
		if _, ok := theirs.children[label]; ok {
			continue
		}
		if myChild.isEdit() {
			lines = append(lines, "delete "+strings.TrimPrefix(label, "edit "))
			continue
		}
		// Sections cannot be deleted outright; clear their contents instead.
		if body := diffBlocks(myChild, newBlock(label)); len(body) > 0 {
			lines = append(lines, label)
			lines = append(lines, body...)
			lines = append(lines, myChild.closer())
		}
	}

	return lines
}

// createScript renders the full command body for a block that does not yet
// exist on the device.
func createScript(b *Block) []string {
	var lines []string
	for _, key := range b.paramOrder {
		lines = append(lines, setLine(key, b.params[key]))
	}
	for _, label := range b.childOrder {
		child := b.children[label]
		lines = append(lines, label)
		lines = append(lines, createScript(child)...)
		lines = append(lines, child.closer())
	}
	return lines
}

func setLine(key, value string) string {
	if value == "" {
		return "set " + key
	}
	return "set " + key + " " + value
}

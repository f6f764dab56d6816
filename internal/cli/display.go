// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/worldsmith/internal/util"
	"github.com/jeranaias/worldsmith/internal/world"
)

// =============================================================================
// RESULT RENDERING
// =============================================================================

const maxDescriptionWidth = 60

// renderResult formats a command result for the terminal.
func renderResult(result any) string {
	switch v := result.(type) {
	case nil:
		return ""
	case string:
		return v
	case world.EntityDetail:
		return renderEntityDetail(v)
	case []world.EntityDetail:
		return renderEntityTable(v)
	case []world.RelationshipSummary:
		return renderRelationshipTable(v)
	case *world.GraphNode:
		return renderGraph(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// renderEntityDetail shows one entity with its dynamic properties sorted
// by key.
func renderEntityDetail(detail world.EntityDetail) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s)\n", headerStyle.Render(detail.Name), detail.Type)
	if detail.Description != "" {
		fmt.Fprintf(&b, "  %s\n", detail.Description)
	}

	if len(detail.Dynamic) > 0 {
		keys := make([]string, 0, len(detail.Dynamic))
		for key := range detail.Dynamic {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		b.WriteString("\n")
		for _, key := range keys {
			fmt.Fprintf(&b, "  %s %v\n",
				infoStyle.Render(key+":"),
				detail.Dynamic[key])
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderEntityTable shows entities as aligned Name/Type/Description rows.
func renderEntityTable(details []world.EntityDetail) string {
	if len(details) == 0 {
		return infoStyle.Render("No entities found.")
	}

	nameWidth, typeWidth := runewidth.StringWidth("Name"), runewidth.StringWidth("Type")
	for _, d := range details {
		if w := runewidth.StringWidth(d.Name); w > nameWidth {
			nameWidth = w
		}
		if w := runewidth.StringWidth(d.Type); w > typeWidth {
			typeWidth = w
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s\n",
		headerStyle.Render(runewidth.FillRight("Name", nameWidth)),
		headerStyle.Render(runewidth.FillRight("Type", typeWidth)),
		headerStyle.Render("Description"))

	for _, d := range details {
		fmt.Fprintf(&b, "%s  %s  %s\n",
			runewidth.FillRight(d.Name, nameWidth),
			runewidth.FillRight(d.Type, typeWidth),
			util.TruncateRunes(strings.ReplaceAll(d.Description, "\n", " "), maxDescriptionWidth))
	}

	fmt.Fprintf(&b, "\n%s", infoStyle.Render(fmt.Sprintf("%d entities", len(details))))
	return b.String()
}

// renderRelationshipTable shows relationships as source -[TYPE]-> target
// rows.
func renderRelationshipTable(rels []world.RelationshipSummary) string {
	if len(rels) == 0 {
		return infoStyle.Render("No relationships found.")
	}

	sourceWidth := 0
	for _, rel := range rels {
		if w := runewidth.StringWidth(rel.Source); w > sourceWidth {
			sourceWidth = w
		}
	}

	var b strings.Builder
	for _, rel := range rels {
		fmt.Fprintf(&b, "%s -[%s]-> %s\n",
			runewidth.FillRight(rel.Source, sourceWidth),
			commandStyle.Render(rel.Type),
			rel.Target)
	}

	fmt.Fprintf(&b, "\n%s", infoStyle.Render(fmt.Sprintf("%d relationships", len(rels))))
	return b.String()
}

// renderGraph shows a relationship tree with two-space indentation per
// level.
func renderGraph(node *world.GraphNode) string {
	var b strings.Builder
	writeGraphNode(&b, node, 0)
	return strings.TrimRight(b.String(), "\n")
}

func writeGraphNode(b *strings.Builder, node *world.GraphNode, depth int) {
	indent := strings.Repeat("  ", depth)
	label := node.Name
	if node.Type != "" {
		label += " (" + node.Type + ")"
	}
	if depth == 0 {
		fmt.Fprintf(b, "%s%s\n", indent, headerStyle.Render(label))
	} else {
		fmt.Fprintf(b, "%s%s\n", indent, label)
	}

	for _, edge := range node.Relationships {
		fmt.Fprintf(b, "%s  -[%s]->\n", indent, commandStyle.Render(edge.Type))
		writeGraphNode(b, edge.Target, depth+1)
	}
}

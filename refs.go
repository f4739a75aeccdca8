package fluentfile

import (
	"slices"

	"github.com/fluentkit/fluentfile/syntax"
)

// collectRefs gathers the reference placeholders of a message or term.
// Every placeable in the value and in the attributes is walked.
// Variable references count only inside messages; term references
// contribute their bare "-id" with attribute paths and call arguments
// dropped; function calls expose the variables of their positional
// arguments. A select expression contributes its variant bodies but
// not its selector.
func collectRefs(entry syntax.Entry) []string {
	c := refCollector{seen: map[string]bool{}}
	switch e := entry.(type) {
	case *syntax.Message:
		c.vars = true
		c.pattern(e.Value)
		for i := range e.Attributes {
			c.pattern(e.Attributes[i].Value)
		}
	case *syntax.Term:
		c.pattern(e.Value)
		for i := range e.Attributes {
			c.pattern(e.Attributes[i].Value)
		}
	default:
		return nil
	}
	slices.Sort(c.out)
	return c.out
}

type refCollector struct {
	vars bool
	seen map[string]bool
	out  []string
}

func (c *refCollector) add(ref string) {
	if !c.seen[ref] {
		c.seen[ref] = true
		c.out = append(c.out, ref)
	}
}

func (c *refCollector) pattern(p *syntax.Pattern) {
	if p == nil {
		return
	}
	for _, el := range p.Elements {
		if pl, ok := el.(*syntax.Placeable); ok {
			c.expression(pl.Expression)
		}
	}
}

func (c *refCollector) expression(e syntax.Expression) {
	switch e := e.(type) {
	case *syntax.VariableReference:
		if c.vars {
			c.add("$" + e.Name)
		}
	case *syntax.MessageReference:
		if e.Attribute != "" {
			c.add(e.ID + "." + e.Attribute)
		} else {
			c.add(e.ID)
		}
	case *syntax.TermReference:
		c.add("-" + e.ID)
	case *syntax.FunctionReference:
		if e.Arguments != nil {
			for _, arg := range e.Arguments.Positional {
				c.expression(arg)
			}
		}
	case *syntax.SelectExpression:
		for i := range e.Variants {
			c.pattern(e.Variants[i].Value)
		}
	case *syntax.Placeable:
		c.expression(e.Expression)
	}
}

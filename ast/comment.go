package ast

import "github.com/sqlweave/sqlweave/token"

// Comment is a single comment captured alongside a statement.
type Comment struct {
	Text     string
	Pos      token.Pos
	Trailing bool // true if the comment follows its statement on the same line
}

// Commented pairs a parsed statement with the comments immediately
// surrounding it. Comment attachment is tracked at the statement-sequence
// level rather than per inner expression node: a round-trip toolkit needs
// to keep "the comment above this CTE" or "the trailing note after this
// query", not a comment on every literal, and attaching comments to every
// leaf node would touch dozens of node types for no printer-visible gain.
type Commented struct {
	Stmt     Statement
	Leading  []Comment
	Trailing []Comment
}

// HeaderComments returns the texts of the statement's leading comments,
// in source order.
func (c *Commented) HeaderComments() []string {
	out := make([]string, len(c.Leading))
	for i, cm := range c.Leading {
		out[i] = cm.Text
	}
	return out
}

// SetHeaderComments replaces the statement's leading comments.
func (c *Commented) SetHeaderComments(texts []string) {
	c.Leading = c.Leading[:0]
	for _, t := range texts {
		c.Leading = append(c.Leading, Comment{Text: t})
	}
}

// AddHeaderComment appends one leading comment, skipping exact
// duplicates so repeated annotation passes stay idempotent.
func (c *Commented) AddHeaderComment(text string) {
	for _, cm := range c.Leading {
		if cm.Text == text {
			return
		}
	}
	c.Leading = append(c.Leading, Comment{Text: text})
}

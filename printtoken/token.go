// Package printtoken defines the intermediate tree the print pipeline
// (package printer) emits from an AST before rendering it to text.
// Splitting "AST -> token tree" (printer.Parse) from "token tree ->
// string" (printer.Print) lets the same AST be rendered in different
// styles without a second parse.
package printtoken

// Kind discriminates what a Token represents in the print stream.
type Kind int

const (
	Container Kind = iota
	Keyword
	Value
	Comma
	Parenthesis
	Operator
	Comment
	Parameter
	Dot
	Type
	Space
	ArgumentSplitter
	CommentNewline
)

func (k Kind) String() string {
	switch k {
	case Container:
		return "container"
	case Keyword:
		return "keyword"
	case Value:
		return "value"
	case Comma:
		return "comma"
	case Parenthesis:
		return "parenthesis"
	case Operator:
		return "operator"
	case Comment:
		return "comment"
	case Parameter:
		return "parameter"
	case Dot:
		return "dot"
	case Type:
		return "type"
	case Space:
		return "space"
	case ArgumentSplitter:
		return "argument-splitter"
	case CommentNewline:
		return "comment-newline"
	default:
		return "unknown"
	}
}

// ContainerType tags the enclosing AST region a Container token
// represents, so printer.Print can address indentation/style rules by
// container rather than by ad-hoc string matching.
type ContainerType string

const (
	ContainerWithClause   ContainerType = "WithClause"
	ContainerSelectClause ContainerType = "SelectClause"
	ContainerFromClause   ContainerType = "FromClause"
	ContainerWhereClause  ContainerType = "WhereClause"
	ContainerGroupBy      ContainerType = "GroupByClause"
	ContainerHaving       ContainerType = "HavingClause"
	ContainerWindow       ContainerType = "WindowClause"
	ContainerOrderBy      ContainerType = "OrderByClause"
	ContainerLimit        ContainerType = "LimitClause"
	ContainerOffset       ContainerType = "OffsetClause"
	ContainerFor          ContainerType = "ForClause"
	ContainerInsert       ContainerType = "InsertClause"
	ContainerUpdate       ContainerType = "UpdateClause"
	ContainerDelete       ContainerType = "DeleteClause"
	ContainerMerge        ContainerType = "MergeClause"
	ContainerReturning    ContainerType = "ReturningClause"
	ContainerStatement    ContainerType = "Statement"
)

// Token is one node of the print-token tree. Container tokens carry no
// text of their own; Value/Keyword/Parameter/etc. tokens carry Text
// (and, for Parameter, a SourceName recording the original parameter).
type Token struct {
	Kind      Kind
	Container ContainerType // meaningful only when Kind == Container
	Text      string        // meaningful for leaf kinds

	SourceName string // original parameter name/index, Kind == Parameter only

	// Keyword tokens attached to this token that must print before Inner
	// (e.g. the "SELECT" keyword token belongs to the SelectClause
	// container and precedes its column-list inner tokens).
	KeywordTokens []*Token
	Inner         []*Token

	// LeadingComments/TrailingComments are positioned comment text
	// attached to this token (before/after respectively).
	LeadingComments  []string
	TrailingComments []string
}

// NewContainer builds a Container token for the given region.
func NewContainer(ct ContainerType, keywords []*Token, inner ...*Token) *Token {
	return &Token{Kind: Container, Container: ct, KeywordTokens: keywords, Inner: inner}
}

// Kw builds a Keyword token.
func Kw(text string) *Token { return &Token{Kind: Keyword, Text: text} }

// Val builds a Value token carrying pre-rendered text (e.g. the output
// of a style-aware expression renderer).
func Val(text string) *Token { return &Token{Kind: Value, Text: text} }

// Sp builds a Space token.
func Sp() *Token { return &Token{Kind: Space, Text: " "} }

// CommaTok builds a Comma token.
func CommaTok() *Token { return &Token{Kind: Comma, Text: ","} }

// Paren builds a Parenthesis token, open when text is "(" and close
// when text is ")".
func Paren(text string) *Token { return &Token{Kind: Parenthesis, Text: text} }

// Param builds a Parameter token with SourceName set and Text empty;
// printer.Print writes a Parameter token's Text as it is and does not
// fill it in.
func Param(sourceName string) *Token {
	return &Token{Kind: Parameter, SourceName: sourceName}
}

// CommentTok builds a Comment token.
func CommentTok(text string) *Token { return &Token{Kind: Comment, Text: text} }

// WithLeading attaches before-comments to t and returns t.
func (t *Token) WithLeading(comments ...string) *Token {
	t.LeadingComments = append(t.LeadingComments, comments...)
	return t
}

// WithTrailing attaches after-comments to t and returns t.
func (t *Token) WithTrailing(comments ...string) *Token {
	t.TrailingComments = append(t.TrailingComments, comments...)
	return t
}

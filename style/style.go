// Package style holds the preset-driven configuration consumed by the
// print pipeline (printer.Print) to render an AST back to SQL text.
//
// A Config bundles every knob the printer cares about: which preset vocabulary
// to lean on, how identifiers are escaped, how bind parameters are
// spelled, indentation/newline/keyword-case choices, and the handful of
// per-construct one-line overrides. Presets give sane bit-exact
// defaults for the four target dialects; callers can start from a
// preset and tweak individual fields.
package style

import "strconv"

// Preset names a named bundle of style settings governing emission.
type Preset string

const (
	Postgres  Preset = "postgres"
	MySQL     Preset = "mysql"
	SQLServer Preset = "sqlserver"
	SQLite    Preset = "sqlite"
)

// ParamStyle controls how bind parameters are rendered regardless of
// how they were spelled in the source text.
type ParamStyle string

const (
	ParamAnonymous ParamStyle = "anonymous" // ?
	ParamIndexed   ParamStyle = "indexed"   // $1, $2, ...
	ParamNamed     ParamStyle = "named"     // original name retained
)

// KeywordCase controls casing applied to reserved-word output.
type KeywordCase string

const (
	KeywordNone  KeywordCase = "none"
	KeywordUpper KeywordCase = "upper"
	KeywordLower KeywordCase = "lower"
)

// Newline selects the line terminator used between clauses when the
// printer breaks onto multiple lines.
type Newline string

const (
	NewlineLF   Newline = "lf"
	NewlineCRLF Newline = "crlf"
	NewlineNone Newline = "none"
)

// WithClauseStyle controls how a WITH clause's CTEs are laid out.
type WithClauseStyle string

const (
	WithStandard    WithClauseStyle = "standard"
	WithCTEOneline  WithClauseStyle = "cte-oneline"
	WithFullOneline WithClauseStyle = "full-oneline"
)

// CommentStyle controls how attached comments are rendered.
type CommentStyle string

const (
	CommentBlock CommentStyle = "block"
	CommentSmart CommentStyle = "smart"
)

// CommentMode controls which attached comments survive into output.
type CommentMode string

const (
	CommentNone          CommentMode = "none"
	CommentFull          CommentMode = "full"
	CommentHeaderOnly    CommentMode = "header-only"
	CommentTopHeaderOnly CommentMode = "top-header-only"
)

// IdentEscape is the open/close pair used to quote an identifier that
// needs quoting (reserved word, mixed case, irregular characters).
type IdentEscape struct {
	Open  string
	Close string
}

// Config is the full set of printer knobs available to callers.
type Config struct {
	Preset Preset

	IdentifierEscape IdentEscape
	ParameterSymbol  string // literal lead character(s), e.g. "$", "?", "@", ":"
	ParameterStyle   ParamStyle

	IndentSize int
	IndentChar string
	Newline    Newline
	KeywordCase KeywordCase

	CommaBreak bool // break after each top-level comma in a list
	AndBreak   bool // break before each top-level AND/OR

	WithClauseStyle WithClauseStyle
	CommentStyle    CommentStyle
	CommentMode     CommentMode

	// Per-construct one-line overrides. When true the construct is
	// always rendered on a single line regardless of CommaBreak/AndBreak.
	OneLineParens   bool
	OneLineBetween  bool
	OneLineValues   bool
	OneLineJoin     bool
	OneLineCase     bool
	OneLineSubquery bool
}

// presets is the bit-exact table of per-dialect defaults.
var presets = map[Preset]Config{
	Postgres: {
		Preset:           Postgres,
		IdentifierEscape: IdentEscape{Open: `"`, Close: `"`},
		ParameterSymbol:  "$",
		ParameterStyle:   ParamIndexed,
		IndentSize:       2,
		IndentChar:       " ",
		Newline:          NewlineLF,
		KeywordCase:      KeywordLower,
		WithClauseStyle:  WithStandard,
		CommentStyle:     CommentBlock,
		CommentMode:      CommentFull,
	},
	MySQL: {
		Preset:           MySQL,
		IdentifierEscape: IdentEscape{Open: "`", Close: "`"},
		ParameterSymbol:  "?",
		ParameterStyle:   ParamAnonymous,
		IndentSize:       2,
		IndentChar:       " ",
		Newline:          NewlineLF,
		KeywordCase:      KeywordUpper,
		WithClauseStyle:  WithStandard,
		CommentStyle:     CommentBlock,
		CommentMode:      CommentFull,
	},
	SQLServer: {
		Preset:           SQLServer,
		IdentifierEscape: IdentEscape{Open: "[", Close: "]"},
		ParameterSymbol:  "@",
		ParameterStyle:   ParamNamed,
		IndentSize:       2,
		IndentChar:       " ",
		Newline:          NewlineCRLF,
		KeywordCase:      KeywordUpper,
		WithClauseStyle:  WithStandard,
		CommentStyle:     CommentBlock,
		CommentMode:      CommentFull,
	},
	SQLite: {
		Preset:           SQLite,
		IdentifierEscape: IdentEscape{Open: `"`, Close: `"`},
		ParameterSymbol:  ":",
		ParameterStyle:   ParamNamed,
		IndentSize:       2,
		IndentChar:       " ",
		Newline:          NewlineLF,
		KeywordCase:      KeywordLower,
		WithClauseStyle:  WithStandard,
		CommentStyle:     CommentBlock,
		CommentMode:      CommentFull,
	},
}

// PresetConfig returns the default Config for a named preset. The
// returned value is a copy; callers are free to mutate individual
// fields (e.g. flip CommaBreak) without affecting other callers.
func PresetConfig(p Preset) (Config, bool) {
	cfg, ok := presets[p]
	return cfg, ok
}

// DefaultConfig is PresetConfig(Postgres), the fallback used when a
// caller does not supply a Config.
func DefaultConfig() Config {
	cfg, _ := PresetConfig(Postgres)
	return cfg
}

// Params is the parameter collection returned alongside formatted SQL,
// shaped by the Config's ParameterStyle: positional styles (anonymous,
// indexed) populate List in order of first occurrence; named style
// populates Named, keyed by the parameter's original name.
type Params struct {
	Style ParamStyle
	List  []string
	Named map[string]string
}

// Add records an occurrence of a parameter, returning the text to emit
// for it. For indexed style, repeated names/positions still advance
// the index per occurrence (matching "in order of first occurrence"
// numbering against the rendered output, not dedup by source identity).
func (p *Params) Add(cfg Config, sourceName string) string {
	switch cfg.ParameterStyle {
	case ParamNamed:
		if p.Named == nil {
			p.Named = make(map[string]string)
		}
		name := sourceName
		if name == "" {
			name = "param"
		}
		p.Named[name] = name
		return cfg.ParameterSymbol + name
	case ParamAnonymous:
		p.List = append(p.List, sourceName)
		return cfg.ParameterSymbol
	default: // ParamIndexed
		p.List = append(p.List, sourceName)
		return cfg.ParameterSymbol + strconv.Itoa(len(p.List))
	}
}

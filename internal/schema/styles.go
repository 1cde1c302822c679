package schema

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Style field vocabulary. A style field declares, per sibling field (or
// "self"), which style properties editors may set and which values each
// property accepts. The same vocabulary backs config validation (are the
// declared tokens legal?) and content validation (is the stored value
// legal?). The wildcard "*" declaration admits any value from the full
// domain of that property.

const StyleSelfKey = "self"

// Token patterns. Declarations may use range form (low:high); stored
// content values are always single tokens.
var (
	sizeTokenRe      = regexp.MustCompile(`^([xylrtb])?(\d+)(:\d+)?$`)
	sizeValueRe      = regexp.MustCompile(`^([xylrtb])?\d+$`)
	weightTokenRe    = regexp.MustCompile(`^[1-9]00(:[1-9]00)?$`)
	weightValueRe    = regexp.MustCompile(`^[1-9]00$`)
	opacityTokenRe   = regexp.MustCompile(`^(100|\d{1,2})(:(100|\d{1,2}))?$`)
	opacityValueRe   = regexp.MustCompile(`^(100|\d{1,2})$`)
	colorNameTokenRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)
)

type stylePropDef struct {
	keywords []any          // enumerated keyword domain, nil if pattern-based
	token    *regexp.Regexp // declaration token pattern
	value    *regexp.Regexp // content value pattern
}

var stylePropDefs = map[string]stylePropDef{
	"objectFit": {keywords: toAny("none", "contain", "cover", "fill", "scale-down")},
	"objectPosition": {keywords: toAny(
		"top", "center", "bottom", "left", "left-top", "left-bottom",
		"right", "right-top", "right-bottom")},
	"flexDirection":  {keywords: toAny("row", "row-reverse", "col", "col-reverse")},
	"justifyContent": {keywords: toAny("flex-start", "flex-end", "center", "space-between", "space-around", "space-evenly")},
	"justifyItems":   {keywords: toAny("start", "end", "center", "stretch")},
	"justifySelf":    {keywords: toAny("auto", "start", "end", "center", "stretch")},
	"alignItems":     {keywords: toAny("flex-start", "flex-end", "center", "baseline", "stretch")},
	"alignSelf":      {keywords: toAny("auto", "flex-start", "flex-end", "center", "baseline", "stretch")},
	"padding":        {token: sizeTokenRe, value: sizeValueRe},
	"margin":         {token: sizeTokenRe, value: sizeValueRe},
	"width":          {keywords: toAny("auto", "narrow", "wide", "full")},
	"height":         {keywords: toAny("auto", "full", "screen")},
	"fontFamily":     {token: colorNameTokenRe, value: colorNameTokenRe},
	"fontSize": {keywords: toAny(
		"xs", "sm", "base", "lg", "xl", "2xl", "3xl", "4xl", "5xl", "6xl")},
	"fontStyle":          {keywords: toAny("normal", "italic")},
	"fontWeight":         {token: weightTokenRe, value: weightValueRe},
	"textAlign":          {keywords: toAny("left", "center", "right", "justify")},
	"textColor":          {token: colorNameTokenRe, value: colorNameTokenRe},
	"textDecoration":     {keywords: toAny("none", "underline", "line-through")},
	"backgroundColor":    {token: colorNameTokenRe, value: colorNameTokenRe},
	"backgroundPosition": {keywords: toAny("top", "center", "bottom", "left", "left-top", "left-bottom", "right", "right-top", "right-bottom")},
	"backgroundSize":     {keywords: toAny("auto", "cover", "contain")},
	"borderRadius":       {keywords: toAny("none", "sm", "md", "lg", "xl", "2xl", "3xl", "full")},
	"borderWidth":        {token: sizeTokenRe, value: sizeValueRe},
	"borderColor":        {token: colorNameTokenRe, value: colorNameTokenRe},
	"borderStyle":        {keywords: toAny("solid", "dashed", "dotted", "double", "none")},
	"boxShadow":          {keywords: toAny("none", "sm", "md", "lg", "xl", "2xl", "inner")},
	"opacity":            {token: opacityTokenRe, value: opacityValueRe},
}

// StylePropExists reports whether prop belongs to the style vocabulary.
func StylePropExists(prop string) bool {
	_, ok := stylePropDefs[prop]
	return ok
}

// ValidStyleToken reports whether a declared allowed-value token is legal
// for prop. The wildcard "*" is always legal.
func ValidStyleToken(prop string, token any) bool {
	if token == "*" {
		return true
	}
	def, ok := stylePropDefs[prop]
	if !ok {
		return false
	}
	if def.keywords != nil {
		return validation.Validate(token, validation.In(def.keywords...)) == nil
	}
	s, ok := token.(string)
	if !ok {
		return false
	}
	return validation.Validate(s, validation.Match(def.token)) == nil
}

// ValidStyleValue reports whether a stored content value is legal for prop
// under the declared allowed values. A "*" declaration (or a string
// declaration equal to "*") widens to the full property domain.
func ValidStyleValue(prop string, declared any, value any) bool {
	def, ok := stylePropDefs[prop]
	if !ok {
		return false
	}
	if def.keywords != nil {
		if !inDomain(def.keywords, value) {
			return false
		}
		allowed, wildcard := declaredTokens(declared)
		if wildcard {
			return true
		}
		return inDomain(allowed, value)
	}
	s, ok := value.(string)
	if !ok {
		return false
	}
	return validation.Validate(s, validation.Match(def.value)) == nil
}

func declaredTokens(declared any) (tokens []any, wildcard bool) {
	switch d := declared.(type) {
	case string:
		return nil, d == "*"
	case []any:
		for _, t := range d {
			if t == "*" {
				return nil, true
			}
			tokens = append(tokens, t)
		}
		return tokens, false
	}
	return nil, false
}

func inDomain(domain []any, value any) bool {
	return validation.Validate(value, validation.In(domain...)) == nil
}

func toAny(vals ...string) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

package content_type

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/Motmedel/parsing_utils/pkg/parsing_utils"
	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
	goabnf "github.com/pandatix/go-abnf"
)

//go:embed grammar.txt
var grammar []byte

var ContentTypeGrammar *goabnf.Grammar

// ContentType is a parsed media type. Parameters keep their order of appearance; quoted values
// are stored unquoted.
type ContentType struct {
	Type       string
	Subtype    string
	Parameters [][2]string
}

func (contentType *ContentType) FullType() string {
	return strings.ToLower(contentType.Type + "/" + contentType.Subtype)
}

// Parameter returns the value of the first parameter named name, compared case-insensitively.
func (contentType *ContentType) Parameter(name string) (string, bool) {
	for _, parameter := range contentType.Parameters {
		if strings.EqualFold(parameter[0], name) {
			return parameter[1], true
		}
	}
	return "", false
}

// SetParameter replaces the value of every parameter named name, or appends the parameter when
// there is none.
func (contentType *ContentType) SetParameter(name string, value string) {
	found := false
	for i, parameter := range contentType.Parameters {
		if strings.EqualFold(parameter[0], name) {
			contentType.Parameters[i][1] = value
			found = true
		}
	}
	if !found {
		contentType.Parameters = append(contentType.Parameters, [2]string{name, value})
	}
}

func isTokenCharacter(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("!#$%&'*+-.^_`|~", c) >= 0
}

func isToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isTokenCharacter(s[i]) {
			return false
		}
	}
	return true
}

func quote(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + replacer.Replace(s) + `"`
}

func unquote(quotedString string) string {
	inner := quotedString[1 : len(quotedString)-1]
	if !strings.Contains(inner, `\`) {
		return inner
	}

	var builder strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
		}
		builder.WriteByte(inner[i])
	}
	return builder.String()
}

// String formats the content type with a lower-case type and parameter names, quoting parameter
// values that are not tokens.
func (contentType *ContentType) String() string {
	var builder strings.Builder
	builder.WriteString(contentType.FullType())

	for _, parameter := range contentType.Parameters {
		builder.WriteString("; ")
		builder.WriteString(strings.ToLower(parameter[0]))
		builder.WriteByte('=')
		if isToken(parameter[1]) {
			builder.WriteString(parameter[1])
		} else {
			builder.WriteString(quote(parameter[1]))
		}
	}

	return builder.String()
}

func Parse(data []byte) (*ContentType, error) {
	paths, err := parsing_utils.GetParsedDataPaths(ContentTypeGrammar, data)
	if err != nil {
		return nil, motmedelErrors.New(
			fmt.Errorf("%w: get parsed data paths: %w", motmedelErrors.ErrSyntaxError, err),
			data,
		)
	}
	if len(paths) == 0 {
		return nil, motmedelErrors.NewWithTrace(motmedelErrors.ErrSyntaxError, data)
	}

	var contentType ContentType

	interestingPaths := parsing_utils.SearchPath(paths[0], []string{"type", "subtype", "parameter"}, -1, false)
	for _, interestingPath := range interestingPaths {
		value := string(parsing_utils.ExtractPathValue(data, interestingPath))
		switch interestingPath.MatchRule {
		case "type":
			contentType.Type = value
		case "subtype":
			contentType.Subtype = value
		case "parameter":
			key, parameterValue, _ := strings.Cut(value, "=")
			if quotedStringPath := parsing_utils.SearchPathSingleName(interestingPath, "quoted-string", -1, false); quotedStringPath != nil {
				parameterValue = unquote(string(parsing_utils.ExtractPathValue(data, quotedStringPath)))
			}
			contentType.Parameters = append(contentType.Parameters, [2]string{key, parameterValue})
		}
	}

	return &contentType, nil
}

func init() {
	var err error
	ContentTypeGrammar, err = goabnf.ParseABNF(grammar)
	if err != nil {
		panic(fmt.Sprintf("goabnf parse abnf (content type grammar): %v", err))
	}
}

package byte_range

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Motmedel/parsing_utils/pkg/parsing_utils"
	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
	goabnf "github.com/pandatix/go-abnf"
)

const Unit = "bytes"

var (
	ErrMalformedRange     = errors.New("malformed range")
	ErrMultipleRanges     = errors.New("multiple ranges")
	ErrUnsatisfiableRange = errors.New("unsatisfiable range")
	ErrNegativeLength     = errors.New("negative length")
)

// Range is an inclusive byte interval within a representation of known length.
type Range struct {
	Start int64
	End   int64
}

func (r *Range) Length() int64 {
	return r.End - r.Start + 1
}

func (r *Range) ContentRange(length int64) string {
	return fmt.Sprintf("%s %d-%d/%d", Unit, r.Start, r.End, length)
}

func UnsatisfiedContentRange(length int64) string {
	return fmt.Sprintf("%s */%d", Unit, length)
}

//go:embed grammar.txt
var grammar []byte

var RangeGrammar *goabnf.Grammar

type spec struct {
	first    int64
	last     int64
	hasFirst bool
	hasLast  bool
}

func parseNumber(data []byte, path *goabnf.Path) (int64, error) {
	value := string(parsing_utils.ExtractPathValue(data, path))
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, motmedelErrors.New(
			fmt.Errorf("%w: %w: strconv parse int: %w", motmedelErrors.ErrSemanticError, ErrMalformedRange, err),
			value,
		)
	}
	return n, nil
}

func makeSpec(data []byte, specPath *goabnf.Path) (*spec, error) {
	var result spec

	switch specPath.MatchRule {
	case "int-range":
		first, err := parseNumber(data, parsing_utils.SearchPathSingleName(specPath, "first-pos", -1, false))
		if err != nil {
			return nil, err
		}
		result.first = first
		result.hasFirst = true

		if lastPath := parsing_utils.SearchPathSingleName(specPath, "last-pos", -1, false); lastPath != nil {
			last, err := parseNumber(data, lastPath)
			if err != nil {
				return nil, err
			}
			if last < first {
				return nil, motmedelErrors.New(
					fmt.Errorf("%w: %w: last position before first", motmedelErrors.ErrSemanticError, ErrMalformedRange),
					first, last,
				)
			}
			result.last = last
			result.hasLast = true
		}
	case "suffix-range":
		last, err := parseNumber(data, parsing_utils.SearchPathSingleName(specPath, "suffix-length", -1, false))
		if err != nil {
			return nil, err
		}
		result.last = last
		result.hasLast = true
	}

	return &result, nil
}

// parseSpecifier parses a Range header value into its unit and the unevaluated range specs.
func parseSpecifier(data []byte) (string, []*spec, error) {
	paths, err := parsing_utils.GetParsedDataPaths(RangeGrammar, data)
	if err != nil {
		return "", nil, motmedelErrors.New(
			fmt.Errorf("%w: %w: get parsed data paths: %w", motmedelErrors.ErrSyntaxError, ErrMalformedRange, err),
			data,
		)
	}
	if len(paths) == 0 {
		return "", nil, motmedelErrors.NewWithTrace(
			fmt.Errorf("%w: %w", motmedelErrors.ErrSyntaxError, ErrMalformedRange),
			data,
		)
	}

	var unit string
	var specs []*spec

	interestingPaths := parsing_utils.SearchPath(paths[0], []string{"range-unit", "int-range", "suffix-range"}, -1, false)
	for _, interestingPath := range interestingPaths {
		if interestingPath.MatchRule == "range-unit" {
			unit = string(parsing_utils.ExtractPathValue(data, interestingPath))
			continue
		}

		parsedSpec, err := makeSpec(data, interestingPath)
		if err != nil {
			return "", nil, err
		}
		specs = append(specs, parsedSpec)
	}

	return unit, specs, nil
}

// Parse interprets a Range header value against a representation of the given length.
//
// An empty header yields a nil range and a nil error. A header that is not a single well-formed
// byte range yields ErrMalformedRange or ErrMultipleRanges, which callers treat as if no range
// were requested. A well-formed range that selects no byte yields ErrUnsatisfiableRange.
// Ranges extending past the end are clamped to the last byte.
func Parse(header string, length int64) (*Range, error) {
	if length < 0 {
		return nil, motmedelErrors.NewWithTrace(ErrNegativeLength, length)
	}

	header = strings.TrimSpace(header)
	if header == "" {
		return nil, nil
	}

	unit, specs, err := parseSpecifier([]byte(header))
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(unit, Unit) {
		return nil, motmedelErrors.New(fmt.Errorf("%w: unit %q", ErrMalformedRange, unit), header)
	}

	switch len(specs) {
	case 0:
		return nil, motmedelErrors.New(ErrMalformedRange, header)
	case 1:
	default:
		return nil, motmedelErrors.New(ErrMultipleRanges, header)
	}

	s := specs[0]

	if length == 0 {
		return nil, motmedelErrors.New(ErrUnsatisfiableRange, header, length)
	}

	if !s.hasFirst {
		if s.last == 0 {
			return nil, motmedelErrors.New(ErrUnsatisfiableRange, header, length)
		}
		start := length - s.last
		if start < 0 {
			start = 0
		}
		return &Range{Start: start, End: length - 1}, nil
	}

	if s.first >= length {
		return nil, motmedelErrors.New(ErrUnsatisfiableRange, header, length)
	}

	end := length - 1
	if s.hasLast && s.last < end {
		end = s.last
	}

	return &Range{Start: s.first, End: end}, nil
}

func init() {
	var err error
	RangeGrammar, err = goabnf.ParseABNF(grammar)
	if err != nil {
		panic(fmt.Sprintf("goabnf parse abnf (range grammar): %v", err))
	}
}

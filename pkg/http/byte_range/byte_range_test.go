package byte_range

import (
	"testing"

	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
	motmedelTestingCmp "github.com/Motmedel/results_go/pkg/testing/cmp"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		header   string
		length   int64
		expected *Range
		wantErr  error
	}{
		{name: "empty", header: "", length: 100},
		{name: "simple", header: "bytes=10-19", length: 100, expected: &Range{Start: 10, End: 19}},
		{name: "open ended", header: "bytes=90-", length: 100, expected: &Range{Start: 90, End: 99}},
		{name: "clamped", header: "bytes=0-50", length: 26, expected: &Range{Start: 0, End: 25}},
		{name: "suffix", header: "bytes=-10", length: 100, expected: &Range{Start: 90, End: 99}},
		{name: "suffix larger than length", header: "bytes=-500", length: 100, expected: &Range{Start: 0, End: 99}},
		{name: "spaces around equals", header: "bytes = 1-2", length: 100, expected: &Range{Start: 1, End: 2}},
		{name: "unit case", header: "Bytes=1-2", length: 100, expected: &Range{Start: 1, End: 2}},
		{name: "single byte", header: "bytes=99-99", length: 100, expected: &Range{Start: 99, End: 99}},
		{name: "suffix zero", header: "bytes=-0", length: 100, wantErr: ErrUnsatisfiableRange},
		{name: "start beyond end", header: "bytes=200-300", length: 100, wantErr: ErrUnsatisfiableRange},
		{name: "start at length", header: "bytes=100-", length: 100, wantErr: ErrUnsatisfiableRange},
		{name: "zero length", header: "bytes=0-10", length: 0, wantErr: ErrUnsatisfiableRange},
		{name: "multiple", header: "bytes=0-1,5-6", length: 100, wantErr: ErrMultipleRanges},
		{name: "trailing comma", header: "bytes=0-1,", length: 100, expected: &Range{Start: 0, End: 1}},
		{name: "reversed", header: "bytes=10-5", length: 100, wantErr: ErrMalformedRange},
		{name: "other unit", header: "items=0-5", length: 100, wantErr: ErrMalformedRange},
		{name: "no dash", header: "bytes=5", length: 100, wantErr: ErrMalformedRange},
		{name: "only dash", header: "bytes=-", length: 100, wantErr: ErrMalformedRange},
		{name: "signed", header: "bytes=+1-5", length: 100, wantErr: ErrMalformedRange},
		{name: "no unit", header: "0-5", length: 100, wantErr: ErrMalformedRange},
		{name: "leading comma", header: "bytes=, 3-4", length: 100, expected: &Range{Start: 3, End: 4}},
		{name: "suffix among others", header: "bytes=-5, 0-1", length: 100, wantErr: ErrMultipleRanges},
		{name: "overflow", header: "bytes=99999999999999999999-", length: 100, wantErr: motmedelErrors.ErrSemanticError},
		{name: "letters", header: "bytes=a-b", length: 100, wantErr: motmedelErrors.ErrSyntaxError},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(testCase.header, testCase.length)
			motmedelTestingCmp.CompareErrIs(t, err, testCase.wantErr)
			if diff := cmp.Diff(testCase.expected, got); diff != "" {
				t.Errorf("range mismatch (-expected +got):\n%s", diff)
			}
		})
	}
}

func TestContentRange(t *testing.T) {
	t.Parallel()

	r := &Range{Start: 10, End: 19}
	if got := r.ContentRange(100); got != "bytes 10-19/100" {
		t.Errorf("got %q", got)
	}
	if got := r.Length(); got != 10 {
		t.Errorf("got length %d", got)
	}
	if got := UnsatisfiedContentRange(100); got != "bytes */100" {
		t.Errorf("got %q", got)
	}
}

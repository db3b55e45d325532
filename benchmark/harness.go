package benchmark

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	ExecutionTimeout = 5 * time.Minute
	StandardRuntime  = time.Minute
	MinimumRuntime   = 10 * time.Second
	MinIterations    = 100

	ten         = 10
	hundred     = ten * ten
	thousand    = ten * hundred
	tenThousand = ten * thousand
)

// TimerManager is the subset of testing.B a case needs to exclude its
// setup from the measurement. Under go test the manager is the *testing.B
// itself; under the standalone runner it is the CaseDefinition.
type TimerManager interface {
	ResetTimer()
	StartTimer()
	StopTimer()
}

type BenchCase func(context.Context, TimerManager, int) error
type BenchFunction func(*testing.B)

func WrapCase(bench BenchCase) BenchFunction {
	name := getName(bench)
	return func(b *testing.B) {
		ctx := context.Background()
		b.ResetTimer()
		err := bench(ctx, b, b.N)
		require.NoError(b, err, "case='%s'", name)
	}
}

// RunCases executes every registered case and collects their results.
func RunCases(ctx context.Context) []*BenchResult {
	return RunMatching(ctx, "")
}

// RunMatching executes the cases whose name contains substr and collects
// their results. The empty string matches every case.
func RunMatching(ctx context.Context, substr string) []*BenchResult {
	cases := matchingCases(substr)
	out := make([]*BenchResult, 0, len(cases))
	for _, c := range cases {
		out = append(out, c.Run(ctx))
	}
	return out
}

func matchingCases(substr string) []*CaseDefinition {
	if substr == "" {
		return getAllCases()
	}

	out := []*CaseDefinition{}
	for _, c := range getAllCases() {
		if strings.Contains(c.Name(), substr) {
			out = append(out, c)
		}
	}
	return out
}

func getAllCases() []*CaseDefinition {
	return []*CaseDefinition{
		{
			Bench:   CanaryIncCase,
			Count:   hundred,
			Size:    -1,
			Runtime: MinimumRuntime,
		},
		{
			Bench:   GlobalCanaryIncCase,
			Count:   hundred,
			Size:    -1,
			Runtime: MinimumRuntime,
		},
		{
			Bench:   JSONFlatMapEncoding,
			Count:   tenThousand,
			Size:    72000000,
			Runtime: StandardRuntime,
		},
		{
			Bench:   JSONDeepMapEncoding,
			Count:   thousand,
			Size:    29000000,
			Runtime: StandardRuntime,
		},
		{
			Bench:   JSONLargeArrayEncoding,
			Count:   thousand,
			Size:    27000000,
			Runtime: StandardRuntime,
		},
		{
			Bench:   JSONBytesEncoding,
			Count:   thousand,
			Size:    11000000,
			Runtime: StandardRuntime,
		},
		{
			Bench:   JSONFlatStructEncoding,
			Count:   tenThousand,
			Size:    15000000,
			Runtime: StandardRuntime,
		},
		{
			Bench:   JSONFlatStructTagsEncoding,
			Count:   tenThousand,
			Size:    15000000,
			Runtime: StandardRuntime,
		},
		{
			Bench:   JSONCustomEncoderEncoding,
			Count:   tenThousand,
			Size:    3000000,
			Runtime: StandardRuntime,
		},
	}
}

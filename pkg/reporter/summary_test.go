package reporter_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdrules/pkg/config"
	"github.com/yaklabco/gomdrules/pkg/reporter"
	"github.com/yaklabco/gomdrules/pkg/runner"
)

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	result, _ := createTestResult(t, config.ModeLine)

	var buf bytes.Buffer
	rep := reporter.NewSummaryReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	out := buf.String()
	assert.Contains(t, out, "Rules Summary")
	assert.Contains(t, out, "Total violations:  3")

	// Equal counts keep rule order.
	todo := strings.Index(out, "No TODO")
	casing := strings.Index(out, "File Name Casing")
	equality := strings.Index(out, "Strict Equality")
	require.True(t, todo >= 0 && casing >= 0 && equality >= 0)
	assert.Less(t, todo, casing)
	assert.Less(t, casing, equality)
	assert.NotContains(t, out, "Context Format")
}

func TestSummaryReporter_Clean(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewSummaryReporter(reporter.Options{Writer: &buf, Color: "never"})

	count, err := rep.Report(context.Background(), &runner.Result{})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, "No violations found\n", buf.String())
}

// Package script renders executable bash for optimization plans: the
// remediation script itself, a recurring monitoring script, and a
// rollback stub pointing at the pre-run backup.
package script

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/DrSkyle/hdfslash/pkg/engine/plan"
)

// shellQuote quotes a string for bash.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

var dqEscaper = strings.NewReplacer("\\", "\\\\", "`", "\\`", "$", "\\$", "\"", "\\\"")

// dqEscape escapes text interpolated inside a double-quoted bash word.
func dqEscape(s string) string { return dqEscaper.Replace(s) }

// quotePath single-quotes an HDFS path for embedding inside a
// double-quoted execute_command argument.
func quotePath(p string) string { return dqEscape(shellQuote(p)) }

// commentSafe keeps interpolated text on its comment line.
func commentSafe(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}

func banner(w io.Writer, title string) {
	fmt.Fprintf(w, "# ========================================\n# %s\n# ========================================\n", title)
}

// execCmd emits an execute_command call. cmd and desc must already be
// escaped for a double-quoted context.
func execCmd(w io.Writer, cmd, desc string) {
	fmt.Fprintf(w, "execute_command \"%s\" \\\n    \"%s\"\n", cmd, desc)
}

func writeScript(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := render(f); err != nil {
		return err
	}
	return os.Chmod(path, 0755)
}

// WriteOptimization renders the remediation script for a plan to path
// and marks it executable.
func WriteOptimization(path string, p *plan.Plan, generatedAt time.Time) error {
	return writeScript(path, func(w io.Writer) error {
		return RenderOptimization(w, p, generatedAt)
	})
}

// WriteMonitoring renders the monitoring script to path.
func WriteMonitoring(path string) error {
	return writeScript(path, RenderMonitoring)
}

// WriteRollback renders the rollback script for an optimization to path.
func WriteRollback(path, optimizationID string, generatedAt time.Time) error {
	return writeScript(path, func(w io.Writer) error {
		return RenderRollback(w, optimizationID, generatedAt)
	})
}

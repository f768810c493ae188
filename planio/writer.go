// File: writer.go
// Role: plan serialization: one S-expression per ground action,
// one per line, in the order given, followed by a trailing
// "; cost = <n>" comment giving the plan's total cost (the Open Question
// this format resolves is recorded in DESIGN.md).
package planio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/liftedplan/kpkc/plan"
)

// WritePlan writes actions to w, one "(name arg1 arg2 ...)" line per
// action in order, followed directly by a "; cost = <n>" line
// summing every action's cost. Returns the first write error encountered,
// if any.
func WritePlan(w io.Writer, actions []plan.GroundAction) error {
	bw := bufio.NewWriter(w)

	var total uint64
	for _, a := range actions {
		if _, err := fmt.Fprintln(bw, a.Name()); err != nil {
			return err
		}
		total += uint64(a.Cost)
	}
	if _, err := fmt.Fprintf(bw, "; cost = %d\n", total); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadPlan parses the format WritePlan produces back into a sequence of
// action names and the parsed total cost, for tooling that round-trips a
// plan file (e.g. a validator) without needing the originating Built task.
// Malformed lines are skipped rather than treated as fatal: a plan file
// hand-edited to add a note is still a valid plan file.
func ReadPlan(r io.Reader) (steps []string, cost uint64, err error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == ';' {
			fmt.Sscanf(line, "; cost = %d", &cost)
			continue
		}
		if line[0] == '(' {
			steps = append(steps, line)
		}
	}
	if scanErr := sc.Err(); scanErr != nil {
		return nil, 0, scanErr
	}
	return steps, cost, nil
}

package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"dto-generator/internal/plan"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
}

// Explain resolves the configured packages and dumps the blueprints whose
// subject or DTO name contains filter (all when empty), followed by their
// diagnostics. It returns the number of blueprints written.
func (a *App) Explain(ctx context.Context, w io.Writer, filter string) (int, error) {
	p, err := a.Plan(ctx)
	if err != nil {
		return 0, err
	}

	n := 0

	for i := range p.Blueprints {
		bp := &p.Blueprints[i]
		if !matches(bp, filter) {
			continue
		}

		n++

		if err := explainBlueprint(w, bp); err != nil {
			return n, err
		}
	}

	for _, d := range p.Diagnostics.All() {
		if filter != "" && !strings.Contains(d.Subject, filter) {
			continue
		}

		if _, err := fmt.Fprintf(w, "%s %s\n", d.Severity, d); err != nil {
			return n, err
		}
	}

	return n, nil
}

func matches(bp *plan.Blueprint, filter string) bool {
	return filter == "" || bp.DtoName == filter || strings.Contains(bp.Subject(), filter)
}

func explainBlueprint(w io.Writer, bp *plan.Blueprint) error {
	if _, err := fmt.Fprintf(w, "=== %s ===\n", bp.Subject()); err != nil {
		return err
	}

	for _, prop := range bp.Properties {
		param := ""
		if prop.NeedsParam() {
			param = " (param)"
		}

		if _, err := fmt.Fprintf(w, "  %s %s <- %s%s\n", prop.TargetName, prop.Type, prop.Origin, param); err != nil {
			return err
		}
	}

	dumper.Fdump(w, bp)

	return nil
}

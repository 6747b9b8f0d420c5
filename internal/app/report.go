package app

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"dto-generator/internal/diagnostic"
)

// Report prints diagnostics one per line, errors first. Infos are printed
// only when verbose.
func Report(w io.Writer, d diagnostic.Diagnostics, verbose bool) error {
	for _, diag := range d.All() {
		if diag.Severity == diagnostic.DiagnosticInfo && !verbose {
			continue
		}

		if _, err := fmt.Fprintf(w, "%-7s %s\n", diag.Severity, diag); err != nil {
			return err
		}
	}

	return nil
}

func (a *App) logDiagnostics(d diagnostic.Diagnostics) {
	for _, diag := range d.Errors {
		a.logger.Error(diag.Message, diagFields(diag)...)
	}

	for _, diag := range d.Warnings {
		a.logger.Warn(diag.Message, diagFields(diag)...)
	}
}

func diagFields(d diagnostic.Diagnostic) []zap.Field {
	fields := []zap.Field{zap.String("code", d.Code)}
	if d.Subject != "" {
		fields = append(fields, zap.String("subject", d.Subject))
	}

	if d.Property != "" {
		fields = append(fields, zap.String("property", d.Property))
	}

	if len(d.Suggestions) > 0 {
		fields = append(fields, zap.Strings("suggestions", d.Suggestions))
	}

	return fields
}

package app

import (
	"io"
)

// Run builds target and executes it with args. It returns the binary's exit
// code, or 1 and the error when the build fails.
func (a *App) Run(target string, args []string, stdout, stderr io.Writer) (int, error) {
	bin, _, err := a.Build(target)
	if err != nil {
		return 1, err
	}

	a.logger.Info("Running binary.", "target", bin.Name, "args", args)
	code := bin.Entry(a.ctx, args, stdout, stderr)
	a.logger.Info("Binary finished.", "target", bin.Name, "exit_code", code)
	return code, nil
}

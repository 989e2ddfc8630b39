package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/arthur-debert/packmerge/cmd/packmerge"
	"github.com/arthur-debert/packmerge/pkg/errors"
	"github.com/arthur-debert/packmerge/pkg/ui/styles"
)

func main() {
	rootCmd := packmerge.NewRootCmd()
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var pmErr *errors.PackmergeError
	if stderrors.As(err, &pmErr) && pmErr.Code == errors.ErrUsage {
		fmt.Fprintln(os.Stderr, pmErr.Message)
	} else {
		theme := styles.NewTheme(os.Stderr, styles.ColorAuto)
		fmt.Fprintln(os.Stderr, theme.Render(styles.Error, fmt.Sprintf("Error: %v", err)))
		for key, value := range errors.GetErrorDetails(err) {
			fmt.Fprintln(os.Stderr, theme.Render(styles.Muted, fmt.Sprintf("  %s: %v", key, value)))
		}
	}
	os.Exit(errors.ExitCode(err))
}

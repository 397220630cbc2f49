package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/composetune/internal/cli"
	"github.com/spf13/cobra"
)

// scripts maps each generated file name to its generator
var scripts = map[string]func(root *cobra.Command, w io.Writer) error{
	"composetune.bash": func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"_composetune":     func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"composetune.fish": func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"composetune.ps1":  func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

// main writes every shell's completion script into the directory given as the
// only argument, for packaging.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <output-dir>\n", os.Args[0])
		os.Exit(1)
	}
	dir := os.Args[1]

	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", dir, err)
		os.Exit(1)
	}

	rootCmd := cli.NewRootCmd()
	for name, generate := range scripts {
		if err := writeScript(filepath.Join(dir, name), rootCmd, generate); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating %s: %v\n", name, err)
			os.Exit(1)
		}
	}
}

func writeScript(path string, root *cobra.Command, generate func(*cobra.Command, io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return generate(root, f)
}

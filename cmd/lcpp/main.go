package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lcpp/lcpp/pkg/cpp"
	"github.com/lcpp/lcpp/pkg/loader"
	"github.com/lcpp/lcpp/pkg/selftest"
)

var version = "0.1.0"

// run flags
var (
	includePaths []string
	systemPaths  []string
	defineFlags  []string
	undefFlags   []string
	envPath      string
	outPath      string
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lcpp",
		Short:         "lcpp is a standalone C preprocessor engine",
		Long:          `lcpp expands #include, #define, and #if/#elif/#else/#endif directives in C-like source text, without requiring a full C compiler front end.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.AddCommand(newRunCmd(out, errOut))
	rootCmd.AddCommand(newSelftestCmd(out, errOut))
	return rootCmd
}

// newSelftestCmd exposes the lcpp_test static-configuration surface named
// in §6 as an explicit subcommand, rather than an implicit init()-time
// side effect, so a library consumer of pkg/cpp never pays for it.
func newSelftestCmd(out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:           "selftest",
		Short:         "run the built-in scenario self-test and report the result",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := selftest.Run(cmd.Context()); err != nil {
				fmt.Fprintf(errOut, "lcpp: selftest failed: %v\n", err)
				return err
			}
			fmt.Fprintln(out, "lcpp: selftest passed")
			return nil
		},
	}
}

func newRunCmd(out, errOut io.Writer) *cobra.Command {
	runCmd := &cobra.Command{
		Use:           "run <file>",
		Short:         "preprocess a single file and print the expanded output",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRun(cmd, args[0], out, errOut)
		},
	}

	runCmd.Flags().StringArrayVarP(&includePaths, "include", "I", nil, "add a user include search path (glob patterns allowed)")
	runCmd.Flags().StringArrayVar(&systemPaths, "isystem", nil, "add a system include search path (glob patterns allowed)")
	runCmd.Flags().StringArrayVarP(&defineFlags, "define", "D", nil, "predefine a macro (NAME or NAME=VALUE)")
	runCmd.Flags().StringArrayVarP(&undefFlags, "undefine", "U", nil, "remove a macro from env before compiling")
	runCmd.Flags().StringVar(&envPath, "env", "", "YAML file of default predefines, applied before -D")
	runCmd.Flags().StringVarP(&outPath, "output", "o", "", "write expanded output here instead of stdout")

	return runCmd
}

// doRun wires CLI flags into cpp.Options and runs CompileFile, matching the
// teacher's buildPreprocessorOptions/readAndPreprocess shape but targeting
// the cpp/loader packages instead of pkg/preproc.
func doRun(cmd *cobra.Command, filename string, out, errOut io.Writer) error {
	env, err := loadEnv(envPath)
	if err != nil {
		fmt.Fprintf(errOut, "lcpp: loading --env file: %v\n", err)
		return err
	}
	for _, name := range undefFlags {
		delete(env, strings.TrimSpace(name))
	}

	predefines, err := parseDefines(defineFlags)
	if err != nil {
		fmt.Fprintf(errOut, "lcpp: %v\n", err)
		return err
	}

	fileLoader, err := loader.New(loader.Options{UserPaths: includePaths, SystemPaths: systemPaths})
	if err != nil {
		fmt.Fprintf(errOut, "lcpp: configuring include paths: %v\n", err)
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	output, _, err := cpp.CompileFile(ctx, filename, cpp.Options{
		Env:        env,
		Predefines: predefines,
		Loader:     fileLoader,
	})
	if err != nil {
		fmt.Fprintf(errOut, "lcpp: %v\n", err)
		return err
	}

	if outPath == "" {
		fmt.Fprintln(out, output)
		return nil
	}
	return os.WriteFile(outPath, []byte(output+"\n"), 0o644)
}

// loadEnv reads an optional YAML predefines file into a cpp MacroValue map.
// A flag value of the empty string means "no file requested". Every YAML
// scalar is installed as a Text macro; `true`/an empty value installs a
// Flag instead, matching the #define NAME / #define NAME VALUE distinction
// the core itself makes.
func loadEnv(path string) (map[string]cpp.MacroValue, error) {
	if path == "" {
		return map[string]cpp.MacroValue{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	env := make(map[string]cpp.MacroValue, len(raw))
	for name, value := range raw {
		if value == "" || strings.EqualFold(value, "true") {
			env[name] = cpp.Flag()
			continue
		}
		env[name] = cpp.TextValue(value)
	}
	return env, nil
}

// parseDefines turns "-D NAME" / "-D NAME=VALUE" flags into a predefines map.
func parseDefines(defines []string) (map[string]cpp.MacroValue, error) {
	out := make(map[string]cpp.MacroValue, len(defines))
	for _, d := range defines {
		if idx := strings.Index(d, "="); idx >= 0 {
			name, value := d[:idx], d[idx+1:]
			if name == "" {
				return nil, fmt.Errorf("malformed -D flag: %q", d)
			}
			out[name] = cpp.TextValue(value)
			continue
		}
		if d == "" {
			return nil, fmt.Errorf("malformed -D flag: %q", d)
		}
		out[d] = cpp.Flag()
	}
	return out, nil
}

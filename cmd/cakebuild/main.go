package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cakebuild/internal/common"
	"cakebuild/internal/langdefault"
	"cakebuild/internal/modmgr"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	verboseFlag   bool
	configPathFlag string
)

func main() {
	root := &cobra.Command{
		Use:   "cakebuild",
		Short: "Build orchestrator: evaluate modules, compile, and link",
	}
	root.PersistentFlags().StringVar(&configPathFlag, "config", "", "path to cakebuild.toml")
	root.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose logging")

	root.AddCommand(buildCommand())
	root.AddCommand(runCommand())
	root.AddCommand(cleanCommand())

	if err := root.Execute(); err != nil {
		color.Red("cakebuild: %v", err)
		os.Exit(1)
	}
}

func buildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "build [files...]",
		Short: "Evaluate the given modules, compile, and link the final executable",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := makeManagerAndBuild(args)
			if manager != nil {
				defer manager.Destroy(false)
			}
			if err != nil {
				return err
			}
			color.Green("build succeeded")
			return nil
		},
	}
}

func runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run [files...]",
		Short: "Build then execute the resulting binary",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := makeManagerAndBuild(args)
			if manager != nil {
				defer manager.Destroy(false)
			}
			if err != nil {
				return err
			}
			return manager.ExecuteBuiltOutputs()
		},
	}
}

func cleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the cache root directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := ParseConfiguration(configPathFlag)
			if err != nil {
				return err
			}
			return os.RemoveAll(config.CacheRoot)
		},
	}
}

func makeManagerAndBuild(files []string) (*modmgr.ModuleManager, error) {
	config, err := ParseConfiguration(configPathFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	verbosity := config.LogLevel
	if verboseFlag {
		verbosity = 2
	}
	logger, err := common.MakeLogger(config.LogFileName, verbosity)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	var env *modmgr.Environment
	if config.Compiler == "msvc" {
		env = modmgr.DefaultMsvcEnvironment(config.CacheRoot)
	} else {
		env = modmgr.DefaultPosixEnvironment(config.CacheRoot)
	}
	if err := env.SetLabels(config.Labels); err != nil {
		return nil, err
	}
	env.ExecutableOutputPath = config.ExecutableOutputPath
	env.GlobalCSearchDirs = config.GlobalCSearchDirs
	if config.MaxParallelProcesses > 0 {
		env.MaxParallelProcesses = config.MaxParallelProcesses
	}
	env.UseCachedFiles = config.UseCachedFiles

	manager := &modmgr.ModuleManager{
		Env:   env,
		Store: modmgr.NewModuleStore(langdefault.Tokenizer{}, langdefault.Evaluator{}, langdefault.DynamicLoader{}),
		Log:   logger,
		Writer: langdefault.Writer{},
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigc
		manager.Interrupt()
	}()

	if err := manager.Initialize(); err != nil {
		return manager, fmt.Errorf("failed to initialize: %w", err)
	}

	for _, file := range files {
		if _, err := manager.AddEvaluateFile(file); err != nil {
			return manager, err
		}
	}

	if err := manager.EvaluateResolveReferences(); err != nil {
		return manager, err
	}

	if err := manager.WriteGeneratedOutput(); err != nil {
		return manager, err
	}

	if err := manager.BuildAndLink(); err != nil {
		return manager, err
	}

	return manager, nil
}

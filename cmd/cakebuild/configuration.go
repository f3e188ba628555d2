package main

import (
	"runtime"

	"github.com/BurntSushi/toml"
)

// Configuration is the cakebuild.toml schema, modeled directly on the
// teacher's cmd/nocc-server/configuration.go: hardcoded defaults
// pre-populated, then overlaid by whatever the TOML file specifies.
type Configuration struct {
	CacheRoot            string
	Labels               []string
	ExecutableOutputPath string
	GlobalCSearchDirs    []string
	MaxParallelProcesses int
	UseCachedFiles       bool
	Compiler             string // "posix" or "msvc"
	LogFileName          string
	LogLevel             int
}

func ParseConfiguration(filePath string) (*Configuration, error) {
	config := Configuration{
		CacheRoot:            "./cakelisp_cache",
		Labels:               nil,
		ExecutableOutputPath: "",
		MaxParallelProcesses: runtime.NumCPU(),
		UseCachedFiles:       true,
		Compiler:             "posix",
		LogFileName:          "stderr",
		LogLevel:             0,
	}

	if filePath == "" {
		return &config, nil
	}

	if _, err := toml.DecodeFile(filePath, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

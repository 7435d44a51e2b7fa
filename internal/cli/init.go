// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/apisynth/apisynth/internal/config"
	"github.com/apisynth/apisynth/internal/util"
)

var (
	initForce       bool
	initInteractive bool
	initTitle       string
	initVersion     string
	initDescription string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new apisynth configuration file",
	Long: `Initialize a new apisynth configuration file in the current directory.

This command creates an apisynth.yaml file with sensible defaults
that you can customize for your project.

Features:
  - Infers the API title, version and description from package.json
  - Detects an exported route table (routes.json, routes.yaml, routes.yml)

Example:
  apisynth init                         # Create config with detected values
  apisynth init --force                 # Overwrite existing config
  apisynth init --interactive           # Interactive mode with prompts
  apisynth init --title "My API"        # Set custom API title`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "interactive mode with prompts")
	initCmd.Flags().StringVar(&initTitle, "title", "", "API title for OpenAPI info")
	initCmd.Flags().StringVar(&initVersion, "version", "", "API version for OpenAPI info")
	initCmd.Flags().StringVar(&initDescription, "description", "", "API description for OpenAPI info")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := "apisynth.yaml"

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil && !initForce {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", configFile)
	}

	projectRoot, err := filepath.Abs(".")
	if err != nil {
		return fmt.Errorf("failed to determine project root: %w", err)
	}

	cfg := config.Default()
	info := detectProjectInfo(projectRoot)

	switch {
	case initTitle != "":
		cfg.Info.Title = initTitle
	case info.Title != "":
		cfg.Info.Title = info.Title
	}
	switch {
	case initVersion != "":
		cfg.Info.Version = initVersion
	case info.Version != "":
		cfg.Info.Version = info.Version
	}
	switch {
	case initDescription != "":
		cfg.Info.Description = initDescription
	case info.Description != "":
		cfg.Info.Description = info.Description
	}

	if routesFile := detectRoutesFile(projectRoot); routesFile != "" {
		cfg.Routes = routesFile
		printVerbose("Detected route table: %s", routesFile)
	}

	if initInteractive && isTerminal() {
		cfg, err = interactiveInit(cfg)
		if err != nil {
			return fmt.Errorf("interactive init failed: %w", err)
		}
	}

	if err := os.WriteFile(configFile, []byte(buildConfigYAML(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	printInfo("Created %s", configFile)
	printVerbose("Title: %s", cfg.Info.Title)
	printVerbose("Routes: %s", cfg.Routes)
	return nil
}

// projectInfo holds information detected from package.json.
type projectInfo struct {
	Name        string
	Title       string
	Version     string
	Description string
}

// detectProjectInfo reads the name, version and description fields of
// package.json.
func detectProjectInfo(projectRoot string) projectInfo {
	info := projectInfo{}

	data, err := os.ReadFile(filepath.Join(projectRoot, "package.json"))
	if err != nil {
		return info
	}
	var pkg struct {
		Name        string `json:"name"`
		Version     string `json:"version"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return info
	}

	info.Name = pkg.Name
	info.Version = pkg.Version
	info.Description = pkg.Description
	if pkg.Name != "" {
		// "@acme/my-shop" -> "My Shop API"
		name := pkg.Name[strings.LastIndex(pkg.Name, "/")+1:]
		info.Title = util.StartCase(name) + " API"
	}
	return info
}

// detectRoutesFile returns the first exported route table found in the
// project root.
func detectRoutesFile(projectRoot string) string {
	for _, name := range []string{"routes.json", "routes.yaml", "routes.yml"} {
		if stat, err := os.Stat(filepath.Join(projectRoot, name)); err == nil && !stat.IsDir() {
			return name
		}
	}
	return ""
}

// isTerminal checks if stdin is a terminal.
func isTerminal() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// interactiveInit prompts the user for configuration options.
func interactiveInit(cfg *config.Config) (*config.Config, error) {
	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string, value *string) {
		fmt.Printf("%s [%s]: ", label, *value)
		answer, _ := reader.ReadString('\n')
		if answer = strings.TrimSpace(answer); answer != "" {
			*value = answer
		}
	}

	prompt("API Title", &cfg.Info.Title)
	prompt("API Version", &cfg.Info.Version)
	prompt("API Description", &cfg.Info.Description)
	prompt("Route table", &cfg.Routes)
	prompt("Output extensions (both/json/yaml)", &cfg.OutputFileExtensions)

	return cfg, nil
}

// buildConfigYAML builds a YAML config with a header comment. The app path
// is left out so it keeps following the project path.
func buildConfigYAML(cfg *config.Config) string {
	c := *cfg
	c.AppPath = ""
	data, _ := yaml.Marshal(&c)

	header := `# apisynth configuration file
# https://github.com/apisynth/apisynth

`
	return header + string(data)
}

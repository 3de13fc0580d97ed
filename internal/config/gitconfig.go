package config

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// gitConfigPrefix is the section holding git-tree settings in git config.
const gitConfigPrefix = "gittree."

// gitConfigMock allows tests to mock git config output.
var gitConfigMock func(args []string) (string, error)

// runGitConfig executes git config command and returns raw output.
func runGitConfig(args []string) (string, error) {
	if gitConfigMock != nil {
		return gitConfigMock(args)
	}

	if _, err := exec.LookPath("git"); err != nil {
		return "", nil
	}
	cmd := exec.Command("git", args...)
	output, err := cmd.Output()
	if err != nil {
		// git config returns exit code 1 when key not found (not an error)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return string(output), nil
}

// parseGitConfigOutput parses git config output into multi-value map.
// Input format: "gittree.theme nord\ngittree.icons true\n"
func parseGitConfigOutput(output string) map[string][]string {
	configMap := make(map[string][]string)
	if output == "" {
		return configMap
	}

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}

		// A key set without a value ("[gittree] icons") is listed alone.
		parts := strings.SplitN(line, " ", 2)
		if len(parts) == 1 {
			parts = append(parts, "true")
		}

		key := strings.TrimPrefix(parts[0], gitConfigPrefix)
		configMap[key] = append(configMap[key], parts[1])
	}

	return configMap
}

// convertGitConfig converts to the format expected by apply.
func convertGitConfig(gitCfg map[string][]string) map[string]any {
	result := make(map[string]any)

	for key, values := range gitCfg {
		if len(values) == 0 {
			continue
		}
		if len(values) > 1 {
			anySlice := make([]any, len(values))
			for i, v := range values {
				anySlice[i] = v
			}
			result[key] = anySlice
			continue
		}
		result[key] = values[0]
	}

	return result
}

// loadGitConfig reads the global gittree.* values.
func loadGitConfig() (map[string]any, error) {
	output, err := runGitConfig([]string{"config", "--global", "--get-regexp", `^gittree\.`})
	if err != nil {
		return nil, err
	}
	return convertGitConfig(parseGitConfigOutput(output)), nil
}

// parseCLIConfigOverrides parses --config=gittree.key=value format.
func parseCLIConfigOverrides(overrides []string) (map[string]any, error) {
	result := make(map[string]any)

	for _, override := range overrides {
		fullKey, value, ok := strings.Cut(override, "=")
		if !ok {
			return nil, fmt.Errorf("invalid config override: %q, expected format: gittree.key=value (note: use = not space)", override)
		}

		if !strings.HasPrefix(fullKey, gitConfigPrefix) {
			return nil, fmt.Errorf("config override key must start with %q: %q", gitConfigPrefix, fullKey)
		}

		key := strings.TrimPrefix(fullKey, gitConfigPrefix)
		if key == "" {
			return nil, fmt.Errorf("empty config key in override: %q", override)
		}

		// later overrides of the same key win
		result[key] = value
	}

	return result, nil
}

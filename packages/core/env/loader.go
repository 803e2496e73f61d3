package env

// LoadVariables returns the template variables for one invocation: the
// entries of envFile (if set) overlaid with extra, later sources winning.
func LoadVariables(envFile string, extra ...map[string]any) (map[string]any, error) {
	fileVars := make(map[string]any)
	if envFile != "" {
		vars, err := LoadDotEnv(envFile)
		if err != nil {
			return nil, err
		}
		for k, v := range vars {
			fileVars[k] = v
		}
	}
	return MergeVariables(append([]map[string]any{fileVars}, extra...)...), nil
}

func MergeVariables(sources ...map[string]any) map[string]any {
	result := make(map[string]any)
	for _, src := range sources {
		for k, v := range src {
			result[k] = v
		}
	}
	return result
}

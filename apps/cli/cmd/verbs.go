package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/abdul-hamid-achik/hitverb/packages/assertions"
	"github.com/abdul-hamid-achik/hitverb/packages/capture"
	"github.com/abdul-hamid-achik/hitverb/packages/core/config"
	"github.com/abdul-hamid-achik/hitverb/packages/core/env"
	hithttp "github.com/abdul-hamid-achik/hitverb/packages/http"
	"github.com/abdul-hamid-achik/hitverb/packages/logging"
	"github.com/abdul-hamid-achik/hitverb/packages/output"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const (
	urlLocation     = "argument 1 (url)"
	dataLocation    = "argument 2 (data)"
	headersLocation = "--headers"
	maxTimeLocation = "--max-time"
)

// verbOptions holds the flags of a single verb command.
type verbOptions struct {
	user        string
	password    string
	contentType string
	maxTime     int64
	headers     []string
	raw         bool
	insecure    bool
	full        bool
	allowErrors bool
	jsonData    bool
	selectPath  string
	schema      string
}

// requiresData reports whether the verb needs a DATA argument.
func requiresData(method hithttp.Method) bool {
	switch method {
	case hithttp.MethodPost, hithttp.MethodPut, hithttp.MethodPatch:
		return true
	default:
		return false
	}
}

func newVerbCmd(method hithttp.Method, root *rootOptions) *cobra.Command {
	opts := &verbOptions{}
	name := strings.ToLower(string(method))

	use := name + " URL [DATA]"
	args := cobra.RangeArgs(1, 2)
	if requiresData(method) {
		use = name + " URL DATA"
		args = cobra.ExactArgs(2)
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Send a %s request to a URL", method),
		Long: fmt.Sprintf(`Send a %s request to URL and print the response.

DATA is sent verbatim unless --json is given, in which case it is parsed as
JSON and encoded by the content type (JSON unless -t says otherwise).
A DATA of @path reads the body from a file.

Templates such as {{name}}, {{$HOME}} and {{uuid()}} are expanded in URL,
headers, credentials and DATA.`, method),
		Args: func(cmd *cobra.Command, a []string) error {
			if err := args(cmd, a); err != nil {
				return &usageError{err: err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, a []string) error {
			return runVerb(cmd, method, a, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.user, "user", "u", "", "Username for basic authentication")
	cmd.Flags().StringVarP(&opts.password, "password", "p", "", "Password for basic authentication")
	cmd.Flags().StringVarP(&opts.contentType, "content-type", "t", "", "Content type of the request body")
	cmd.Flags().Int64VarP(&opts.maxTime, "max-time", "m", 0, "Timeout in seconds (at least 1)")
	cmd.Flags().StringArrayVarP(&opts.headers, "headers", "H", nil, "Custom header, as a name/value pair (-H name -H value) or name:value")
	cmd.Flags().BoolVarP(&opts.raw, "raw", "r", false, "Return the response body without decoding it")
	cmd.Flags().BoolVarP(&opts.insecure, "insecure", "k", false, "Allow insecure server connections when using SSL")
	cmd.Flags().BoolVarP(&opts.full, "full", "f", false, "Return status and headers along with the body")
	cmd.Flags().BoolVarP(&opts.allowErrors, "allow-errors", "e", false, "Do not fail on 4xx and 5xx responses")
	cmd.Flags().BoolVarP(&opts.jsonData, "json", "j", false, "Parse DATA as JSON and send it as a structured body")
	cmd.Flags().StringVar(&opts.selectPath, "select", "", "Print only the value at this path (e.g. body.items.0.id)")
	cmd.Flags().StringVar(&opts.schema, "schema", "", "Validate the result against a JSON schema file")

	return cmd
}

func runVerb(cmd *cobra.Command, method hithttp.Method, args []string, root *rootOptions, opts *verbOptions) error {
	flags := cmd.Flags()

	// Load config from file (if present) and apply CLI overrides
	cfg, err := config.LoadConfig(root.configPath)
	if err != nil {
		return &configError{err: err}
	}
	if flags.Changed("output") {
		cfg.Output = root.output
	}
	if flags.Changed("env-file") {
		cfg.EnvFile = root.envFile
	}
	if root.noColor {
		cfg.NoColor = true
	}
	if opts.insecure {
		cfg.Insecure = true
	}

	level := logging.ParseLevel(cfg.Log.Level)
	if root.verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(level, cfg.Log.Format, cmd.ErrOrStderr())

	formatter, err := output.New(cfg.Output, output.Options{
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   root.verbose,
		NoColor:   cfg.NoColor,
	})
	if err != nil {
		return &usageError{err: err}
	}

	ctx := logging.WithRequestID(cmd.Context(), uuid.NewString())
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logger.FromContext(ctx)

	spec, rawURL, err := buildSpec(cmd, method, args, cfg, opts, log)
	if err != nil {
		formatter.FormatError(err)
		return &reportedError{err: err}
	}

	client := hithttp.NewClient(
		hithttp.WithDefaultTimeout(cfg.Timeout),
		hithttp.WithFollowRedirects(cfg.FollowRedirects),
		hithttp.WithMaxRedirects(cfg.MaxRedirects),
		hithttp.WithInsecure(cfg.Insecure),
		hithttp.WithProxy(cfg.Proxy),
		hithttp.WithUserAgent(cfg.UserAgent),
		hithttp.WithLogger(log.Logger),
	)

	result, err := execute(ctx, client, rawURL, spec, opts)
	if err != nil {
		log.Debug("request failed", logging.Method(string(method)), logging.URL(rawURL), logging.Error(err))
		formatter.FormatError(err)
		return &reportedError{err: err}
	}

	if err := formatter.FormatResult(result); err != nil {
		return err
	}
	return nil
}

// execute sends the request, then applies --schema and --select to the
// normalized result in that order.
func execute(ctx context.Context, client *hithttp.Client, rawURL string, spec hithttp.RequestSpec, opts *verbOptions) (any, error) {
	result, err := hithttp.Do(ctx, client, rawURL, spec)
	if err != nil {
		return nil, err
	}

	if opts.schema != "" {
		if err := assertions.ValidateSchema(opts.schema, result); err != nil {
			return nil, err
		}
	}

	if opts.selectPath != "" {
		result, err = capture.Select(result, opts.selectPath)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// buildSpec resolves templates in the command input and turns flags and
// arguments into a RequestSpec.
func buildSpec(cmd *cobra.Command, method hithttp.Method, args []string, cfg *config.Config, opts *verbOptions, log *logging.Logger) (hithttp.RequestSpec, string, error) {
	vars, err := env.LoadVariables(cfg.EnvFile)
	if err != nil {
		return hithttp.RequestSpec{}, "", &configError{err: fmt.Errorf("failed to load env file: %w", err)}
	}

	resolver := env.NewResolver()
	resolver.SetVariables(vars)
	resolver.SetWarnFunc(func(format string, a ...any) {
		log.Warn(fmt.Sprintf(format, a...))
	})

	spec := hithttp.RequestSpec{
		Method:      method,
		Headers:     splitHeaderArgs(resolver.ResolveAll(opts.headers)),
		ContentType: opts.contentType,
		Flags: hithttp.Flags{
			Raw:         opts.raw,
			Full:        opts.full,
			AllowErrors: opts.allowErrors,
		},
		Location:        urlLocation,
		HeadersLocation: headersLocation,
		TimeoutLocation: maxTimeLocation,
		BodyLocation:    dataLocation,
	}

	spec.DefaultHeaders, err = hithttp.ParseHeaders(cfg.Headers, "config headers")
	if err != nil {
		return hithttp.RequestSpec{}, "", &configError{err: err}
	}

	flags := cmd.Flags()
	if flags.Changed("max-time") {
		timeout := opts.maxTime
		spec.TimeoutSeconds = &timeout
	}
	if flags.Changed("user") || flags.Changed("password") {
		spec.Auth = &hithttp.Credentials{
			Username: resolver.Resolve(opts.user),
			Password: resolver.Resolve(opts.password),
		}
	}

	if len(args) > 1 {
		spec.Body, err = readData(args[1], opts.jsonData, resolver)
		if err != nil {
			return hithttp.RequestSpec{}, "", err
		}
	}

	return spec, resolver.Resolve(args[0]), nil
}

// readData turns the DATA argument into a body. "@path" reads the file as-is;
// inline data has its templates expanded.
func readData(data string, structured bool, resolver *env.Resolver) (*hithttp.Body, error) {
	var raw []byte
	if path, ok := strings.CutPrefix(data, "@"); ok {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, &usageError{err: fmt.Errorf("cannot read %s: %w", dataLocation, err)}
		}
		raw = content
	} else {
		raw = []byte(resolver.Resolve(data))
	}

	if !structured {
		return hithttp.RawBody(raw), nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, &usageError{err: fmt.Errorf("%s is not valid JSON: %w", dataLocation, err)}
	}
	return hithttp.StructuredBody(value), nil
}

// splitHeaderArgs flattens -H values into a name/value list. An entry of the
// form "name:value" in name position is split in two; anything else pairs
// with the next entry.
func splitHeaderArgs(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for i := 0; i < len(values); i++ {
		entry := values[i]
		if name, value, ok := strings.Cut(entry, ":"); ok && isHeaderName(name) {
			out = append(out, name, strings.TrimSpace(value))
			continue
		}
		out = append(out, entry)
		if i+1 < len(values) {
			out = append(out, values[i+1])
			i++
		}
	}
	return out
}

func isHeaderName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r <= ' ' || r >= 0x7f || strings.ContainsRune(`"(),/:;<=>?@[\]{}`, r) {
			return false
		}
	}
	return true
}

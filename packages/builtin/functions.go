package builtin

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"math/rand"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Func computes a template value from its string arguments.
type Func func(args []string) any

// Registry maps function names to implementations.
type Registry struct {
	funcs map[string]Func
}

var defaultFuncs = map[string]Func{
	"uuid":         func([]string) any { return uuid.NewString() },
	"now":          now,
	"date":         date,
	"timestamp":    func([]string) any { return time.Now().Unix() },
	"timestampMs":  func([]string) any { return time.Now().UnixMilli() },
	"random":       random,
	"randomString": randomString,
	"base64":       unary(func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }),
	"base64Decode": unary(decodeBase64),
	"sha256":       unary(sha256Hex),
	"hmacSha256":   hmacSHA256,
	"urlEncode":    unary(url.QueryEscape),
	"basicAuth":    basicAuth,
	"env":          envVar,
}

func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func, len(defaultFuncs))}
	for name, fn := range defaultFuncs {
		r.funcs[name] = fn
	}
	return r
}

// Register adds fn under name, replacing any existing function.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

var funcCallPattern = regexp.MustCompile(`^(\w+)\((.*)\)$`)

func (r *Registry) lookup(expr string) (Func, []string, bool) {
	matches := funcCallPattern.FindStringSubmatch(strings.TrimSpace(expr))
	if matches == nil {
		return nil, nil, false
	}
	fn, ok := r.funcs[matches[1]]
	if !ok {
		return nil, nil, false
	}
	return fn, parseArgs(matches[2]), true
}

// Has reports whether expr is a call to a registered function, without calling it.
func (r *Registry) Has(expr string) bool {
	_, _, ok := r.lookup(expr)
	return ok
}

// Call evaluates a call expression such as `base64('a b')`.
func (r *Registry) Call(expr string) (any, bool) {
	fn, args, ok := r.lookup(expr)
	if !ok {
		return nil, false
	}
	return fn(args), true
}

// parseArgs splits a comma separated argument list. Single or double quotes
// group text containing commas and are removed.
func parseArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var (
		args    []string
		current strings.Builder
		quote   rune
	)
	for _, ch := range s {
		switch {
		case quote == 0 && (ch == '"' || ch == '\''):
			quote = ch
		case quote != 0 && ch == quote:
			quote = 0
		case quote == 0 && ch == ',':
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	return append(args, strings.TrimSpace(current.String()))
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func intArg(args []string, i, def int) int {
	if v, err := strconv.Atoi(arg(args, i)); err == nil {
		return v
	}
	return def
}

func unary(fn func(string) string) Func {
	return func(args []string) any { return fn(arg(args, 0)) }
}

// now formats the current UTC time with an optional Go layout.
func now(args []string) any {
	layout := time.RFC3339
	if l := arg(args, 0); l != "" {
		layout = l
	}
	return time.Now().UTC().Format(layout)
}

// date is now with a YYYY-MM-DD default layout.
func date(args []string) any {
	if len(args) == 0 {
		return now([]string{"2006-01-02"})
	}
	return now(args)
}

func random(args []string) any {
	lo, hi := intArg(args, 0, 0), intArg(args, 1, 100)
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + rand.Intn(hi-lo+1)
}

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomString(length) defaults to 16 characters.
func randomString(args []string) any {
	b := make([]byte, max(intArg(args, 0, 16), 0))
	for i := range b {
		b[i] = alphanumeric[rand.Intn(len(alphanumeric))]
	}
	return string(b)
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// decodeBase64 returns "" for invalid input.
func decodeBase64(s string) string {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return ""
	}
	return string(data)
}

// hmacSHA256(key, message) returns the hex digest.
func hmacSHA256(args []string) any {
	mac := hmac.New(sha256.New, []byte(arg(args, 0)))
	mac.Write([]byte(arg(args, 1)))
	return hex.EncodeToString(mac.Sum(nil))
}

// basicAuth(user, password) returns a ready Authorization header value.
func basicAuth(args []string) any {
	creds := arg(args, 0) + ":" + arg(args, 1)
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
}

// env(NAME, default) reads the process environment.
func envVar(args []string) any {
	if v, ok := os.LookupEnv(arg(args, 0)); ok {
		return v
	}
	return arg(args, 1)
}
